package api

import (
	"net/http"
)

// Register mounts the ops routes on mux.
func Register(mux *http.ServeMux, stats StatsProvider) {
	health := NewHealthHandler()
	mux.HandleFunc("/healthz", health.HandleHealth)
	mux.HandleFunc("/stats", NewStatsHandler(stats).HandleStats)
}
