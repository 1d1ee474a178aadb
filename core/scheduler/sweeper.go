package scheduler

import (
	"context"
	"time"

	"github.com/agrinet/allocd/core/logger"
)

// Task is one maintenance step, typically an expiry sweep.
type Task struct {
	Name string
	Run  func(now time.Time)
}

// Sweeper drives registered tasks until its context is canceled. A panicking
// task is logged and does not stop the other tasks or future ticks.
type Sweeper struct {
	interval time.Duration
	tasks    []Task
	log      logger.Logger
}

// New creates a Sweeper. A non-positive interval defaults to one minute,
// the shortest relevant expiry cadence.
func New(interval time.Duration, log logger.Logger) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{interval: interval, log: log}
}

// Register adds a task. Not safe to call after Run has started.
func (s *Sweeper) Register(name string, run func(now time.Time)) {
	s.tasks = append(s.tasks, Task{Name: name, Run: run})
}

// Run ticks every interval and executes all tasks, starting with one
// immediate pass. It blocks until ctx is canceled.
func (s *Sweeper) Run(ctx context.Context) {
	s.tick(time.Now())
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.tick(now)
		}
	}
}

// Tick runs all tasks once at the given instant. Exposed so hosts can drive
// the cadence themselves instead of using Run.
func (s *Sweeper) Tick(now time.Time) { s.tick(now) }

func (s *Sweeper) tick(now time.Time) {
	for _, t := range s.tasks {
		s.runTask(t, now)
	}
}

func (s *Sweeper) runTask(t Task, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorf("sweep task %s panicked: %v", t.Name, r)
		}
	}()
	t.Run(now)
}
