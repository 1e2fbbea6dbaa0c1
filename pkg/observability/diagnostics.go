package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"
)

const diagnosticsReadHeaderTimeout = 5 * time.Second

// ErrNoMetricsHandler indicates a diagnostics server was requested without
// a Prometheus-enabled provider.
var ErrNoMetricsHandler = errors.New("metrics handler is not configured")

// DiagnosticsServer exposes /healthz and /metrics over HTTP.
type DiagnosticsServer struct {
	server   *http.Server
	listener net.Listener
}

// NewDiagnosticsServer starts an HTTP server at addr serving metrics from
// the given handler. Requests are traced with tracer.
func NewDiagnosticsServer(
	addr string, metrics http.Handler, tracer trace.Tracer, logger *slog.Logger,
) (*DiagnosticsServer, error) {
	if metrics == nil {
		return nil, ErrNoMetricsHandler
	}

	mux := http.NewServeMux()
	mux.Handle("/healthz", HealthHandler())
	mux.Handle("/metrics", metrics)

	var lc net.ListenConfig

	listener, err := lc.Listen(context.Background(), "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           HTTPMiddleware(tracer, mux),
		ReadHeaderTimeout: diagnosticsReadHeaderTimeout,
	}

	go func() {
		serveErr := srv.Serve(listener)
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Warn("diagnostics server stopped", "error", serveErr)
		}
	}()

	return &DiagnosticsServer{server: srv, listener: listener}, nil
}

// Addr returns the address the server is listening on.
func (d *DiagnosticsServer) Addr() string {
	return d.listener.Addr().String()
}

// Close gracefully shuts down the diagnostics server.
func (d *DiagnosticsServer) Close() error {
	err := d.server.Shutdown(context.Background())
	if err != nil {
		return fmt.Errorf("shutdown diagnostics server: %w", err)
	}

	return nil
}
