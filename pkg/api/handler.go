package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mklimuk/digest-pilot/pkg/automation"
	"github.com/mklimuk/digest-pilot/pkg/db"
)

// Handler holds dependencies for API handlers
type Handler struct {
	Repo   *db.Repository
	RunNow automation.RunFunc
}

// HandleRunNow handles POST /digest/run-now
func (h *Handler) HandleRunNow(w http.ResponseWriter, r *http.Request) {
	pageURL, err := h.RunNow(r.Context())
	if err != nil {
		http.Error(w, "digest run failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "published", "page_url": pageURL})
}

// HandleListRuns handles GET /digest/runs
func (h *Handler) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	runs, err := h.Repo.ListRuns(limit)
	if err != nil {
		http.Error(w, "failed to list runs: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []db.DigestRun{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"runs": runs})
}

// HandleGetSchedule handles GET /schedule
func (h *Handler) HandleGetSchedule(w http.ResponseWriter, r *http.Request) {
	sched, err := h.Repo.GetSchedule()
	if err != nil {
		http.Error(w, "failed to load schedule: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if sched == nil {
		http.Error(w, "no schedule configured", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, sched)
}

type updateScheduleRequest struct {
	Kind     *string `json:"kind"`
	Expr     *string `json:"expr"`
	Timezone *string `json:"timezone"`
	Enabled  *bool   `json:"enabled"`
}

// HandleUpdateSchedule handles PATCH /schedule
func (h *Handler) HandleUpdateSchedule(w http.ResponseWriter, r *http.Request) {
	current, err := h.Repo.GetSchedule()
	if err != nil {
		http.Error(w, "failed to load schedule: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if current == nil {
		current = &db.Schedule{Kind: "daily", Expr: "08:00", Timezone: "UTC", Enabled: true}
	}

	var req updateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Kind != nil {
		current.Kind = strings.TrimSpace(strings.ToLower(*req.Kind))
	}
	if req.Expr != nil {
		current.Expr = strings.TrimSpace(*req.Expr)
	}
	if req.Timezone != nil {
		tz := strings.TrimSpace(*req.Timezone)
		if tz == "" {
			tz = "UTC"
		}
		current.Timezone = tz
	}
	if req.Enabled != nil {
		current.Enabled = *req.Enabled
	}

	if current.Kind == "" || current.Expr == "" {
		http.Error(w, "kind and expr are required", http.StatusBadRequest)
		return
	}

	nextRun, err := automation.NextRun(current.Kind, current.Expr, current.Timezone, time.Now().UTC())
	if err != nil {
		http.Error(w, "invalid schedule: "+err.Error(), http.StatusBadRequest)
		return
	}
	if current.Enabled {
		current.NextRunAt = nextRun
	} else {
		current.NextRunAt = nil
	}

	if err := h.Repo.UpsertSchedule(current); err != nil {
		http.Error(w, "failed to update schedule: "+err.Error(), http.StatusInternalServerError)
		return
	}
	updated, err := h.Repo.GetSchedule()
	if err != nil {
		http.Error(w, "failed to fetch schedule: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// HandleHealthz handles GET /healthz
func (h *Handler) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
