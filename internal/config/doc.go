// Package config defines the format-agnostic composition manifest model
// for the application, along with the Loader interface for reading it
// from various sources.
//
// The config.Model decides which compiled-in plugins participate in
// composition and with which options. Concrete implementations of the
// Loader interface, such as for HCL, are provided in separate packages.
package config
