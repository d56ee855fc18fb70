package automation

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mklimuk/digest-pilot/pkg/db"
)

// RunFunc executes one digest run and returns the created page URL.
type RunFunc func(ctx context.Context) (string, error)

// Service polls the persisted schedule and runs the digest pipeline
// when it comes due.
type Service struct {
	repo         *db.Repository
	pollInterval time.Duration
	run          RunFunc

	stop chan struct{}
	wg   sync.WaitGroup
}

// NewService creates a new digest scheduler service.
func NewService(repo *db.Repository, pollInterval time.Duration, run RunFunc) *Service {
	if pollInterval <= 0 {
		pollInterval = 30 * time.Second
	}
	return &Service{
		repo:         repo,
		pollInterval: pollInterval,
		run:          run,
		stop:         make(chan struct{}),
	}
}

// Start begins the polling loop.
func (s *Service) Start() {
	s.wg.Add(1)
	go s.loop()
}

// Stop stops the polling loop and waits for shutdown.
func (s *Service) Stop() {
	close(s.stop)
	s.wg.Wait()
}

func (s *Service) loop() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	// Run one immediate tick on startup.
	s.runOnce(context.Background())

	for {
		select {
		case <-ticker.C:
			s.runOnce(context.Background())
		case <-s.stop:
			return
		}
	}
}

func (s *Service) runOnce(ctx context.Context) {
	now := time.Now().UTC()
	sched, err := s.repo.ClaimDueSchedule(now)
	if err != nil {
		log.Printf("automation: failed to claim schedule: %v", err)
		return
	}
	if sched == nil {
		return
	}
	s.execute(ctx, sched, now)
}

// RunNow executes the digest pipeline immediately and records the run.
// The persisted schedule is left untouched.
func (s *Service) RunNow(ctx context.Context) (string, error) {
	return s.recordedRun(ctx, time.Now().UTC())
}

func (s *Service) recordedRun(ctx context.Context, now time.Time) (string, error) {
	runID, err := s.repo.InsertRun(now)
	if err != nil {
		return "", fmt.Errorf("failed to create run record: %w", err)
	}

	status := "success"
	runErr := ""
	pageURL, execErr := s.run(ctx)
	if execErr != nil {
		status = "failed"
		runErr = execErr.Error()
	}

	if err := s.repo.CompleteRun(runID, status, runErr, pageURL, time.Now().UTC()); err != nil {
		log.Printf("automation: failed to complete run %d: %v", runID, err)
	}
	return pageURL, execErr
}

func (s *Service) execute(ctx context.Context, sched *db.Schedule, now time.Time) {
	if _, err := s.recordedRun(ctx, now); err != nil {
		log.Printf("automation: digest run failed: %v", err)
	}

	// The schedule advances even after a failed run; there is no retry.
	nextRun, nextErr := NextRun(sched.Kind, sched.Expr, sched.Timezone, now)
	if nextErr != nil {
		log.Printf("automation: failed to compute next run: %v", nextErr)
		nextRun = nil
	}
	if err := s.repo.CompleteSchedule(nextRun); err != nil {
		log.Printf("automation: failed to store next run: %v", err)
	}
}
