package bot

import (
	"context"
	"net/http"

	"guild-ledger/internal/logger"
)

// HealthServer answers liveness probes from the hosting platform.
type HealthServer struct {
	server *http.Server
}

// NewHealthServer creates the health endpoint on the given port.
func NewHealthServer(listenPort string) *HealthServer {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Bot is running"))
	})

	return &HealthServer{
		server: &http.Server{
			Addr:    "0.0.0.0:" + listenPort,
			Handler: mux,
		},
	}
}

// Start starts the health server
func (hs *HealthServer) Start() error {
	logger.Infof("Starting HTTP server on %s", hs.server.Addr)
	return hs.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (hs *HealthServer) Shutdown(ctx context.Context) error {
	return hs.server.Shutdown(ctx)
}
