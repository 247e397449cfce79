// Package janitor periodically sweeps expired signed-URL cache entries and
// idle saved-jobs sessions.
package janitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"careerhub-utils/internal/logging"
)

// DefaultSchedule runs a sweep every five minutes
const DefaultSchedule = "@every 5m"

// Task is one sweep. Run returns how many items it removed.
type Task struct {
	Name string
	Run  func() int
}

// Stats describes the most recent sweep
type Stats struct {
	Runs    int64          `json:"runs"`
	LastRun time.Time      `json:"last_run"`
	Removed map[string]int `json:"removed"`
}

// Janitor wraps robfig/cron and runs every task on each tick
type Janitor struct {
	cron     *cron.Cron
	schedule string
	tasks    []Task
	logger   logging.Logger

	mu      sync.RWMutex
	running bool
	stats   Stats
}

func New(schedule string, logger logging.Logger, tasks ...Task) *Janitor {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Janitor{
		schedule: schedule,
		tasks:    tasks,
		logger:   logger.WithField("component", "janitor"),
		stats:    Stats{Removed: map[string]int{}},
	}
}

// Start registers the sweep on a fresh scheduler and starts it. A stopped
// janitor may be started again.
func (j *Janitor) Start() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.running {
		return fmt.Errorf("janitor already running")
	}

	c := cron.New()
	if _, err := c.AddFunc(j.schedule, j.RunOnce); err != nil {
		return fmt.Errorf("janitor schedule %q: %w", j.schedule, err)
	}
	c.Start()
	j.cron = c
	j.running = true

	j.logger.Info("Janitor started", map[string]interface{}{
		"schedule": j.schedule,
		"tasks":    len(j.tasks),
	})
	return nil
}

// Stop halts the scheduler and waits for a running sweep, or until ctx
// is done.
func (j *Janitor) Stop(ctx context.Context) error {
	j.mu.Lock()
	if !j.running {
		j.mu.Unlock()
		return nil
	}
	j.running = false
	c := j.cron
	j.mu.Unlock()

	select {
	case <-c.Stop().Done():
		j.logger.Info("Janitor stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce runs every task immediately
func (j *Janitor) RunOnce() {
	removed := make(map[string]int, len(j.tasks))
	for _, t := range j.tasks {
		removed[t.Name] = j.run(t)
	}

	j.mu.Lock()
	j.stats.Runs++
	j.stats.LastRun = time.Now()
	j.stats.Removed = removed
	j.mu.Unlock()

	j.logger.Debug("Janitor sweep complete", map[string]interface{}{"removed": removed})
}

func (j *Janitor) run(t Task) (n int) {
	defer func() {
		if r := recover(); r != nil {
			j.logger.Error("Janitor task panicked", map[string]interface{}{
				"task":  t.Name,
				"panic": fmt.Sprint(r),
			})
			n = 0
		}
	}()
	return t.Run()
}

// Stats returns a snapshot of the last sweep
func (j *Janitor) Stats() Stats {
	j.mu.RLock()
	defer j.mu.RUnlock()
	s := j.stats
	s.Removed = make(map[string]int, len(j.stats.Removed))
	for k, v := range j.stats.Removed {
		s.Removed[k] = v
	}
	return s
}

// IsRunning reports whether the scheduler is active
func (j *Janitor) IsRunning() bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.running
}
