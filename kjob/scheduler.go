// Package kjob runs render jobs on a bounded pool of goroutines. Every job
// waits for an explicit dependency handle before it starts.
package kjob

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/go-logr/logr"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

var ErrJobPanicked = errors.New("job panicked")

type job struct {
	name string
	done chan struct{}
	err  error
}

// Handle refers to zero or more scheduled jobs. The zero Handle is complete.
type Handle struct {
	jobs []*job
}

// Complete blocks until every job of the handle finished and returns their
// combined errors.
func (h Handle) Complete() error {
	var err error
	for _, j := range h.jobs {
		<-j.done
		err = multierr.Append(err, j.err)
	}
	return err
}

// IsCompleted reports whether every job of the handle finished.
func (h Handle) IsCompleted() bool {
	for _, j := range h.jobs {
		select {
		case <-j.done:
		default:
			return false
		}
	}
	return true
}

// CombineDependencies returns a handle that completes once all handles did.
func CombineDependencies(handles ...Handle) Handle {
	var combined Handle
	seen := map[*job]struct{}{}
	for _, h := range handles {
		for _, j := range h.jobs {
			if _, ok := seen[j]; ok {
				continue
			}
			seen[j] = struct{}{}
			combined.jobs = append(combined.jobs, j)
		}
	}
	return combined
}

// Scheduler is safe for use by one producer goroutine. Schedule blocks while
// all workers are busy.
type Scheduler struct {
	workers int
	log     logr.Logger

	mu    sync.Mutex
	group *errgroup.Group
}

type Option func(*Scheduler)

var WithWorkers = func(n int) Option {
	return func(s *Scheduler) {
		s.workers = n
	}
}

var WithLogr = func(log logr.Logger) Option {
	return func(s *Scheduler) {
		s.log = log
	}
}

func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{
		workers: runtime.GOMAXPROCS(0),
		log:     logr.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.workers < 1 {
		s.workers = 1
	}
	return s
}

func (s *Scheduler) Workers() int {
	return s.workers
}

// Schedule runs fn once dep completed. Errors of dep are not propagated to
// fn; they are reported by dep's own handle and by Wait.
func (s *Scheduler) Schedule(dep Handle, name string, fn func() error) Handle {
	j := &job{name: name, done: make(chan struct{})}

	s.mu.Lock()
	if s.group == nil {
		s.group = &errgroup.Group{}
		s.group.SetLimit(s.workers)
	}
	g := s.group
	s.mu.Unlock()

	g.Go(func() error {
		defer close(j.done)
		_ = dep.Complete()
		j.err = s.run(j, fn)
		return j.err
	})
	return Handle{jobs: []*job{j}}
}

func (s *Scheduler) run(j *job, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error(nil, "Job panicked", "job", j.name, "panic", r)
			err = fmt.Errorf("%w: %s: %v", ErrJobPanicked, j.name, r)
		}
	}()
	if err := fn(); err != nil {
		return fmt.Errorf("job %s: %w", j.name, err)
	}
	return nil
}

// Wait blocks until every job scheduled so far finished and returns the
// first job error.
func (s *Scheduler) Wait() error {
	s.mu.Lock()
	g := s.group
	s.group = nil
	s.mu.Unlock()

	if g == nil {
		return nil
	}
	return g.Wait()
}
