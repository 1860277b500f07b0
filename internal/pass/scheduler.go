package pass

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// ErrSchedulerClosed is returned by Wait once the scheduler is closed.
var ErrSchedulerClosed = errors.New("pass: scheduler closed")

// Scheduler coalesces layout requests. Notify records the newest inputs;
// after the debounce interval a pass runs on them. Passes never overlap,
// and a pass whose inputs were replaced while it ran is thrown away and
// the newest inputs run instead, so only the latest request ever applies.
type Scheduler struct {
	runner   *Runner
	debounce time.Duration
	logger   *log.Logger
	onResult func(*Result)

	ctx    context.Context
	cancel context.CancelFunc
	wake   chan struct{}
	done   chan struct{}
	once   sync.Once

	mu      sync.Mutex
	latest  Inputs
	gen     uint64
	applied uint64
	current *Result
	errGen  uint64
	lastErr error
	changed chan struct{}
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithDebounce sets how long the scheduler waits for further input before
// starting a pass.
func WithDebounce(d time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		s.debounce = d
	}
}

// WithSchedulerLogger sets the scheduler's logger.
func WithSchedulerLogger(l *log.Logger) SchedulerOption {
	return func(s *Scheduler) {
		s.logger = l
	}
}

// WithOnResult registers a callback invoked with every applied result.
func WithOnResult(fn func(*Result)) SchedulerOption {
	return func(s *Scheduler) {
		s.onResult = fn
	}
}

// NewScheduler starts a scheduler running passes with r.
func NewScheduler(r *Runner, opts ...SchedulerOption) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		runner:   r,
		debounce: 50 * time.Millisecond,
		ctx:      ctx,
		cancel:   cancel,
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
		changed:  make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	if s.logger == nil {
		s.logger = r.logger()
	}
	go s.loop()
	return s
}

// Notify submits new inputs and returns their generation.
func (s *Scheduler) Notify(in Inputs) uint64 {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.latest = in
	s.mu.Unlock()

	s.poke()
	return gen
}

// Current returns the most recently applied result, or nil before the
// first pass completes.
func (s *Scheduler) Current() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Wait blocks until a result of generation gen or newer has been applied
// and returns it. If the pass for the newest generation failed, its error
// is returned instead.
func (s *Scheduler) Wait(ctx context.Context, gen uint64) (*Result, error) {
	for {
		s.mu.Lock()
		if s.applied >= gen && s.current != nil {
			res := s.current
			s.mu.Unlock()
			return res, nil
		}
		if s.errGen >= gen && s.lastErr != nil {
			err := s.lastErr
			s.mu.Unlock()
			return nil, err
		}
		changed := s.changed
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-s.done:
			return nil, ErrSchedulerClosed
		case <-changed:
		}
	}
}

// Close stops the scheduler and cancels a running pass. Close is idempotent.
func (s *Scheduler) Close() {
	s.once.Do(func() {
		s.cancel()
		close(s.done)
	})
}

func (s *Scheduler) poke() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Scheduler) loop() {
	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
		}
		if !s.settle() {
			return
		}

		s.mu.Lock()
		in, gen := s.latest, s.gen
		s.mu.Unlock()

		res, err := s.runner.Run(s.ctx, in)

		s.mu.Lock()
		if gen != s.gen {
			s.mu.Unlock()
			s.logger.Debug("discarding superseded pass", "generation", gen)
			s.poke()
			continue
		}
		if err != nil {
			s.errGen, s.lastErr = gen, err
		} else {
			res.Layout.Generation = gen
			s.current, s.applied = res, gen
		}
		close(s.changed)
		s.changed = make(chan struct{})
		s.mu.Unlock()

		if err != nil {
			if s.ctx.Err() == nil {
				s.logger.Error("layout pass failed", "generation", gen, "err", err)
			}
			continue
		}
		if s.onResult != nil {
			s.onResult(res)
		}
	}
}

// settle waits until no new input arrived for the debounce interval. It
// returns false when the scheduler closed meanwhile.
func (s *Scheduler) settle() bool {
	if s.debounce <= 0 {
		return true
	}
	t := time.NewTimer(s.debounce)
	defer t.Stop()
	for {
		select {
		case <-s.done:
			return false
		case <-s.wake:
			t.Reset(s.debounce)
		case <-t.C:
			return true
		}
	}
}
