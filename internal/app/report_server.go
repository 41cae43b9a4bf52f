package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// healthHandler reports liveness for the report server.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// registryHandler serves the JSON composition report.
func (a *App) registryHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Registry report endpoint hit.", "remote_addr", r.RemoteAddr)
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(a.buildReport()); err != nil {
		a.logger.Error("Failed to encode composition report", "error", err)
	}
}

// startReportServer initializes and runs the report HTTP server.
func (a *App) startReportServer(ctx context.Context) {
	addr := fmt.Sprintf(":%d", a.appConfig.ReportPort)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)
	mux.HandleFunc("/registry", a.registryHandler)

	a.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Run the server in a goroutine so it doesn't block.
	go func() {
		a.logger.Info("Report server starting", "address", fmt.Sprintf("http://localhost%s/registry", addr))
		// ListenAndServe returns ErrServerClosed on graceful shutdown;
		// only other errors are real failures.
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Report server failed unexpectedly", "error", err)
		}
	}()
}

func (a *App) closeReportServer() error {
	if a.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a.logger.Info("Shutting down report server...")
	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("Report server shutdown failed", "error", err)
		return err
	}

	a.logger.Debug("Report server shut down gracefully.")
	return nil
}
