package api

import (
	"net/http"

	"github.com/mklimuk/digest-pilot/pkg/automation"
	"github.com/mklimuk/digest-pilot/pkg/db"
)

// NewRouter creates a new HTTP router
func NewRouter(repo *db.Repository, runNow automation.RunFunc) *http.ServeMux {
	mux := http.NewServeMux()

	h := &Handler{
		Repo:   repo,
		RunNow: runNow,
	}

	mux.HandleFunc("POST /digest/run-now", h.HandleRunNow)
	mux.HandleFunc("GET /digest/runs", h.HandleListRuns)
	mux.HandleFunc("GET /schedule", h.HandleGetSchedule)
	mux.HandleFunc("PATCH /schedule", h.HandleUpdateSchedule)
	mux.HandleFunc("GET /healthz", h.HandleHealthz)

	return mux
}
