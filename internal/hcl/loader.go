package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/opmix/internal/config"
	"github.com/vk/opmix/internal/ctxlog"
	"github.com/vk/opmix/internal/fsutil"
	"github.com/vk/opmix/internal/schema"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL manifest loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load discovers and parses all .hcl manifest files under the given
// paths and translates them into the format-agnostic model. Each plugin
// may be configured at most once across all manifest files.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	model := &config.Model{Plugins: make(map[string]*config.PluginConfig)}
	parser := hclparse.NewParser()

	for _, path := range paths {
		filePaths, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("failed to discover manifest files under %s: %w", path, err)
		}
		if len(filePaths) == 0 {
			logger.Warn("No .hcl manifest files found in path", "path", path)
			continue
		}

		for _, filePath := range filePaths {
			hclFile, diags := parser.ParseHCLFile(filePath)
			if diags.HasErrors() {
				return nil, fmt.Errorf("failed to parse manifest file %s: %w", filePath, diags)
			}

			var manifest schema.Manifest
			if diags := gohcl.DecodeBody(hclFile.Body, nil, &manifest); diags.HasErrors() {
				return nil, fmt.Errorf("failed to decode manifest file %s: %w", filePath, diags)
			}

			for _, p := range manifest.Plugins {
				if _, exists := model.Plugins[p.Name]; exists {
					return nil, fmt.Errorf("plugin %q configured more than once (last in %s)", p.Name, filePath)
				}
				pc, err := l.translatePlugin(p)
				if err != nil {
					return nil, fmt.Errorf("manifest file %s: %w", filePath, err)
				}
				model.Plugins[p.Name] = pc
			}
			logger.Debug("Loaded manifest file.", "file", filePath, "plugins", len(manifest.Plugins))
		}
	}

	logger.Debug("Manifest loading complete.", "plugins_configured", len(model.Plugins))
	return model, nil
}

// translatePlugin converts an HCL plugin block into the agnostic model.
func (l *Loader) translatePlugin(p *schema.Plugin) (*config.PluginConfig, error) {
	pc := &config.PluginConfig{
		Name:    p.Name,
		Enabled: true,
		Options: make(map[string]cty.Value),
	}
	if p.Enabled != nil {
		pc.Enabled = *p.Enabled
	}

	if p.Options != nil {
		attrs, diags := p.Options.Body.JustAttributes()
		if diags.HasErrors() {
			return nil, fmt.Errorf("plugin %q: invalid options block: %w", p.Name, diags)
		}
		for name, attr := range attrs {
			// Options are literal values; no evaluation context is provided.
			val, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return nil, fmt.Errorf("plugin %q: option %q: %w", p.Name, name, diags)
			}
			pc.Options[name] = val
		}
	}

	return pc, nil
}
