package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Repository handles data access
type Repository struct {
	db *DB
}

// NewRepository creates a new Repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// DigestRun represents a row in the digest_runs table
type DigestRun struct {
	ID         int64      `json:"id"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Status     string     `json:"status"`
	Error      string     `json:"error,omitempty"`
	PageURL    string     `json:"page_url,omitempty"`
}

// Schedule is the single persisted digest schedule.
type Schedule struct {
	Kind      string     `json:"kind"`
	Expr      string     `json:"expr"`
	Timezone  string     `json:"timezone"`
	Enabled   bool       `json:"enabled"`
	LastRunAt *time.Time `json:"last_run_at,omitempty"`
	NextRunAt *time.Time `json:"next_run_at,omitempty"`
}

// InsertRun records the start of a digest run.
func (r *Repository) InsertRun(startedAt time.Time) (int64, error) {
	res, err := r.db.Exec(`INSERT INTO digest_runs (started_at, status) VALUES (?, 'running')`, startedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return res.LastInsertId()
}

// CompleteRun records the outcome of a digest run.
func (r *Repository) CompleteRun(id int64, status, errMsg, pageURL string, finishedAt time.Time) error {
	_, err := r.db.Exec(
		`UPDATE digest_runs SET status = ?, error = ?, page_url = ?, finished_at = ? WHERE id = ?`,
		status, errMsg, pageURL, finishedAt, id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent digest runs, newest first.
func (r *Repository) ListRuns(limit int) ([]DigestRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(
		`SELECT id, started_at, finished_at, status, error, page_url
		 FROM digest_runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []DigestRun
	for rows.Next() {
		var run DigestRun
		var finished sql.NullTime
		if err := rows.Scan(&run.ID, &run.StartedAt, &finished, &run.Status, &run.Error, &run.PageURL); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if finished.Valid {
			run.FinishedAt = &finished.Time
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetSchedule returns the persisted schedule, or nil if none exists.
func (r *Repository) GetSchedule() (*Schedule, error) {
	row := r.db.QueryRow(`SELECT kind, expr, timezone, enabled, last_run_at, next_run_at FROM schedule WHERE id = 1`)

	var s Schedule
	var last, next sql.NullTime
	err := row.Scan(&s.Kind, &s.Expr, &s.Timezone, &s.Enabled, &last, &next)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	if last.Valid {
		s.LastRunAt = &last.Time
	}
	if next.Valid {
		s.NextRunAt = &next.Time
	}
	return &s, nil
}

// UpsertSchedule replaces the persisted schedule.
func (r *Repository) UpsertSchedule(s *Schedule) error {
	_, err := r.db.Exec(
		`INSERT INTO schedule (id, kind, expr, timezone, enabled, last_run_at, next_run_at)
		 VALUES (1, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind, expr = excluded.expr, timezone = excluded.timezone,
			enabled = excluded.enabled, last_run_at = excluded.last_run_at,
			next_run_at = excluded.next_run_at`,
		s.Kind, s.Expr, s.Timezone, s.Enabled, s.LastRunAt, s.NextRunAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert schedule: %w", err)
	}
	return nil
}

// ClaimDueSchedule atomically claims the schedule if it is enabled and
// due at now. A claimed schedule has its next run cleared so an
// overlapping tick in the same process cannot pick it up again; the
// caller must call CompleteSchedule to set the next run.
func (r *Repository) ClaimDueSchedule(now time.Time) (*Schedule, error) {
	s, err := r.GetSchedule()
	if err != nil || s == nil {
		return nil, err
	}

	res, err := r.db.Exec(
		`UPDATE schedule SET last_run_at = ?, next_run_at = NULL
		 WHERE id = 1 AND enabled = 1 AND next_run_at IS NOT NULL AND next_run_at <= ?`,
		now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to claim schedule: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read claim result: %w", err)
	}
	if affected == 0 {
		return nil, nil
	}
	s.LastRunAt = &now
	s.NextRunAt = nil
	return s, nil
}

// CompleteSchedule stores the next run time after a claimed run.
func (r *Repository) CompleteSchedule(nextRun *time.Time) error {
	_, err := r.db.Exec(`UPDATE schedule SET next_run_at = ? WHERE id = 1`, nextRun)
	if err != nil {
		return fmt.Errorf("failed to complete schedule: %w", err)
	}
	return nil
}

// Seen reports whether a feed item GUID has already been digested.
func (r *Repository) Seen(guid string) (bool, error) {
	row := r.db.QueryRow(`SELECT 1 FROM seen_items WHERE guid = ?`, guid)
	var one int
	err := row.Scan(&one)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to check seen item: %w", err)
	}
	return true, nil
}

// MarkSeen records a feed item GUID as digested.
func (r *Repository) MarkSeen(guid string, seenAt time.Time) error {
	_, err := r.db.Exec(
		`INSERT INTO seen_items (guid, seen_at) VALUES (?, ?)
		 ON CONFLICT(guid) DO UPDATE SET seen_at = excluded.seen_at`,
		guid, seenAt,
	)
	if err != nil {
		return fmt.Errorf("failed to mark item seen: %w", err)
	}
	return nil
}

// PruneSeen drops seen-item records older than the cutoff.
func (r *Repository) PruneSeen(before time.Time) error {
	_, err := r.db.Exec(`DELETE FROM seen_items WHERE seen_at < ?`, before)
	if err != nil {
		return fmt.Errorf("failed to prune seen items: %w", err)
	}
	return nil
}
