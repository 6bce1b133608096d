package probe

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/itohio/phprobe/pkg/analog"
)

// fakeClock advances instantly on Sleep.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1700000000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	c.sleeps = append(c.sleeps, d)
	return nil
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) elapsedSince(t time.Time) time.Duration {
	return c.Now().Sub(t)
}

// scriptSource returns values in order and repeats the last one once exhausted.
// Every conversion takes convTime on the clock.
type scriptSource struct {
	mu       sync.Mutex
	values   []int
	reads    int
	clock    *fakeClock
	convTime time.Duration
	err      error
	onRead   func(n int)
}

func (s *scriptSource) Read(channel int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return 0, s.err
	}
	if s.clock != nil {
		s.clock.advance(s.convTime)
	}

	i := s.reads
	if i >= len(s.values) {
		i = len(s.values) - 1
	}
	s.reads++
	if s.onRead != nil {
		s.onRead(s.reads)
	}
	return s.values[i], nil
}

// constSource returns a settable value.
type constSource struct {
	mu    sync.Mutex
	value int
}

func (s *constSource) Read(channel int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, nil
}

func (s *constSource) set(v int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = v
}

func quietLogger() logrus.FieldLogger {
	log, _ := test.NewNullLogger()
	return log
}

func newTestController(src analog.Source, clock *fakeClock, opts ...Option) *Controller {
	opts = append([]Option{WithClock(clock), WithLogger(quietLogger())}, opts...)
	return New(src, 0, DefaultConfig(), opts...)
}
