package fsops

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// linearBackOff waits step, 2*step, 3*step, ... between attempts.
type linearBackOff struct {
	step time.Duration
	n    int
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.n++
	return time.Duration(b.n) * b.step
}

func (b *linearBackOff) Reset() { b.n = 0 }

// newRetryPolicy allows attempts tries in total.
func newRetryPolicy(attempts int, step time.Duration) backoff.BackOff {
	if attempts < 1 {
		attempts = 1
	}
	return backoff.WithMaxRetries(&linearBackOff{step: step}, uint64(attempts-1))
}

// sleepTimer runs backoff waits through the engine's sleep function. Start
// blocks for the whole wait, so C is always ready when Retry selects on it.
type sleepTimer struct {
	sleep func(time.Duration)
	c     chan time.Time
}

func newSleepTimer(sleep func(time.Duration)) *sleepTimer {
	return &sleepTimer{sleep: sleep, c: make(chan time.Time, 1)}
}

func (t *sleepTimer) Start(d time.Duration) {
	t.sleep(d)
	select {
	case t.c <- time.Now():
	default:
	}
}

func (t *sleepTimer) Stop() {}

func (t *sleepTimer) C() <-chan time.Time { return t.c }
