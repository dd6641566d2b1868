// Package scheduler drives periodic work behind Clock and Scheduler
// abstractions so time-dependent engines stay testable without real time.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Clock supplies the current instant
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Task is a unit of periodic work
type Task interface {
	Run() error
	Name() string
}

// TaskFunc adapts a function to a named Task
type TaskFunc struct {
	TaskName string
	Fn       func() error
}

func (t TaskFunc) Run() error   { return t.Fn() }
func (t TaskFunc) Name() string { return t.TaskName }

// Scheduler runs tasks at a fixed interval
type Scheduler interface {
	Every(interval time.Duration, task Task) error
	Start()
	Stop()
}

// CronScheduler backs the Scheduler interface with robfig/cron
type CronScheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
}

// NewCron creates a cron-backed scheduler
func NewCron(log zerolog.Logger) *CronScheduler {
	return &CronScheduler{
		cron: cron.New(cron.WithSeconds()),
		log:  log.With().Str("component", "scheduler").Logger(),
	}
}

// Every registers a task to run at the given interval
func (s *CronScheduler) Every(interval time.Duration, task Task) error {
	if interval <= 0 {
		return fmt.Errorf("scheduler: interval must be positive, got %v", interval)
	}

	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		s.log.Debug().Str("task", task.Name()).Msg("Running task")

		if err := task.Run(); err != nil {
			s.log.Error().
				Err(err).
				Str("task", task.Name()).
				Msg("Task failed")
		}
	})
	if err != nil {
		return err
	}

	s.log.Info().
		Str("task", task.Name()).
		Dur("interval", interval).
		Msg("Task registered")

	return nil
}

// Start starts the scheduler
func (s *CronScheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("Scheduler started")
}

// Stop stops the scheduler and waits for running tasks
func (s *CronScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("Scheduler stopped")
}

// ManualClock is a test clock advanced explicitly
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock creates a manual clock starting at the given instant
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// ManualScheduler runs registered tasks only when Fire is called
type ManualScheduler struct {
	mu      sync.Mutex
	tasks   []Task
	running bool
}

// NewManual creates a manually driven scheduler for tests
func NewManual() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) Every(interval time.Duration, task Task) error {
	if interval <= 0 {
		return fmt.Errorf("scheduler: interval must be positive, got %v", interval)
	}
	s.mu.Lock()
	s.tasks = append(s.tasks, task)
	s.mu.Unlock()
	return nil
}

func (s *ManualScheduler) Start() {
	s.mu.Lock()
	s.running = true
	s.mu.Unlock()
}

func (s *ManualScheduler) Stop() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// Fire runs every registered task once, as one scheduled interval elapsing
func (s *ManualScheduler) Fire() {
	s.mu.Lock()
	running := s.running
	tasks := append([]Task(nil), s.tasks...)
	s.mu.Unlock()

	if !running {
		return
	}
	for _, t := range tasks {
		_ = t.Run()
	}
}
