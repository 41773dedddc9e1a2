// Package jobs runs periodic maintenance in the background of the HTTP server.
package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const JobDepartmentStats = "department_stats"

// Job is a named task; Interval zero means it only runs when enqueued.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(context.Context) error
}

// Result is the outcome of the last run of a job.
type Result struct {
	Name       string        `json:"name"`
	Status     string        `json:"status"`
	Error      string        `json:"error,omitempty"`
	FinishedAt time.Time     `json:"finishedAt"`
	Duration   time.Duration `json:"duration"`
}

type Service struct {
	jobs  []Job
	queue chan Job

	mu   sync.Mutex
	last map[string]Result
}

func New(jobs ...Job) *Service {
	return &Service{jobs: jobs, queue: make(chan Job, 32), last: map[string]Result{}}
}

// Start launches the worker and one ticker per scheduled job. Everything stops with ctx.
func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	for _, j := range s.jobs {
		if j.Interval > 0 {
			go s.schedule(ctx, j)
		}
	}
}

func (s *Service) Enqueue(j Job) {
	select {
	case s.queue <- j:
	default:
		slog.Warn("job queue full", "job", j.Name)
	}
}

func (s *Service) RunNow(ctx context.Context, j Job) error {
	started := time.Now()
	err := j.Run(ctx)
	res := Result{Name: j.Name, Status: "completed", FinishedAt: time.Now(), Duration: time.Since(started)}
	if err != nil {
		res.Status = "failed"
		res.Error = err.Error()
	}
	s.mu.Lock()
	s.last[j.Name] = res
	s.mu.Unlock()
	return err
}

// Last reports the most recent run of the named job.
func (s *Service) Last(name string) (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.last[name]
	return res, ok
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if err := s.RunNow(ctx, j); err != nil {
				slog.Warn("job run failed", "job", j.Name, "err", err)
			}
		}
	}
}

func (s *Service) schedule(ctx context.Context, j Job) {
	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(j)
		}
	}
}
