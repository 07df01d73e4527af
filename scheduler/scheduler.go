// Package scheduler runs the game's periodic work: the 1 Hz world tick,
// autosave, and leaderboard refresh. Tasks are named so an operator can
// inspect and replace them at runtime.
package scheduler

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// TaskFn is a scheduled unit of work. It must not block for long; a
// slow task delays its own next run, never other tasks.
type TaskFn func()

type task struct {
	name     string
	interval time.Duration
	fn       TaskFn
	done     chan struct{}
}

// Scheduler owns a set of named repeating tasks and one-shot delays.
type Scheduler struct {
	mu     sync.Mutex
	tasks  map[string]*task
	timers map[string]*time.Timer
	closed chan struct{}
	logger *zap.Logger
}

func New(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		tasks:  make(map[string]*task),
		timers: make(map[string]*time.Timer),
		closed: make(chan struct{}),
		logger: logger,
	}
}

// safeCall keeps a panicking task from taking its goroutine down; the
// next tick still fires.
func (s *Scheduler) safeCall(name string, fn TaskFn) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduled task panicked",
				zap.String("task", name), zap.Any("recover", r))
		}
	}()
	fn()
}

func (s *Scheduler) run(t *task) {
	tk := time.NewTicker(t.interval)
	defer tk.Stop()
	for {
		select {
		case <-tk.C:
			s.safeCall(t.name, t.fn)
		case <-t.done:
			return
		case <-s.closed:
			return
		}
	}
}

// AddTicker registers fn to run every interval. Re-registering a name
// replaces the old task.
func (s *Scheduler) AddTicker(name string, interval time.Duration, fn TaskFn) {
	t := &task{name: name, interval: interval, fn: fn, done: make(chan struct{})}

	s.mu.Lock()
	if old, ok := s.tasks[name]; ok {
		close(old.done)
	}
	s.tasks[name] = t
	s.mu.Unlock()

	go s.run(t)
	s.logger.Info("scheduled task registered",
		zap.String("name", name), zap.Duration("interval", interval))
}

// AddDelay runs fn once after delay. Re-registering a name resets the
// pending timer.
func (s *Scheduler) AddDelay(name string, delay time.Duration, fn TaskFn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.timers[name]; ok {
		old.Stop()
	}
	s.timers[name] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, name)
		s.mu.Unlock()
		s.safeCall(name, fn)
	})
}

// Remove cancels the named ticker or pending delay.
func (s *Scheduler) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tasks[name]; ok {
		close(t.done)
		delete(s.tasks, name)
	}
	if tm, ok := s.timers[name]; ok {
		tm.Stop()
		delete(s.timers, name)
	}
}

// Stop cancels everything. The scheduler cannot be restarted.
func (s *Scheduler) Stop() {
	select {
	case <-s.closed:
	default:
		close(s.closed)
	}
}

// ListTickers returns the registered task names, sorted.
func (s *Scheduler) ListTickers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.tasks))
	for name := range s.tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
