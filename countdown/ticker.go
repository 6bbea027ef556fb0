package countdown

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Hooks receive Ticker events. All are optional and are called from the
// ticker goroutine, except OnStart and OnClosed which run in Start.
type Hooks struct {
	OnStart  func(gen Generation, end time.Time)
	OnTick   func(left int)
	OnExpire func()
	OnClosed func()
}

// Ticker drives a Countdown from a goroutine, one tick per second. At most one
// tick goroutine runs at a time.
type Ticker struct {
	clock clockwork.Clock
	hooks Hooks

	mu     sync.Mutex
	cd     Countdown
	cancel context.CancelFunc
	done   chan struct{}
}

// NewTicker creates an idle Ticker.
func NewTicker(clock clockwork.Clock, hooks Hooks) *Ticker {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Ticker{clock: clock, hooks: hooks, cd: New(clock)}
}

// Start replaces any running countdown with one derived from votingEndsIn.
// The previous goroutine has exited by the time Start returns.
func (t *Ticker) Start(ctx context.Context, votingEndsIn *int) State {
	t.halt()

	t.mu.Lock()
	gen := t.cd.Snapshot(votingEndsIn)
	if t.cd.State() == Closed {
		t.mu.Unlock()
		log.Debug().Uint64("gen", uint64(gen)).Msg("countdown closed")
		if t.hooks.OnClosed != nil {
			t.hooks.OnClosed()
		}
		return Closed
	}
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	t.cancel, t.done = cancel, done
	end := t.cd.EndTime()
	tk := t.clock.NewTicker(time.Second)
	t.mu.Unlock()

	log.Debug().Uint64("gen", uint64(gen)).Time("end", end).Msg("countdown started")
	if t.hooks.OnStart != nil {
		t.hooks.OnStart(gen, end)
	}

	go t.run(runCtx, tk, gen, done)
	return Counting
}

// Stop cancels the running countdown, if any, and waits for it to exit.
func (t *Ticker) Stop() {
	t.halt()
	t.mu.Lock()
	t.cd.Stop()
	t.mu.Unlock()
}

// State returns the current countdown state.
func (t *Ticker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cd.State()
}

// Left returns the seconds left as of the last tick.
func (t *Ticker) Left() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cd.Left()
}

func (t *Ticker) halt() {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel, t.done = nil, nil
	t.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (t *Ticker) run(ctx context.Context, tk clockwork.Ticker, gen Generation, done chan struct{}) {
	defer close(done)
	defer tk.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.Chan():
			t.mu.Lock()
			step := t.cd.Tick(gen)
			t.mu.Unlock()

			if step.Expired {
				log.Debug().Uint64("gen", uint64(gen)).Msg("countdown expired")
				if t.hooks.OnTick != nil {
					t.hooks.OnTick(0)
				}
				if t.hooks.OnExpire != nil {
					t.hooks.OnExpire()
				}
				return
			}
			if !step.Live {
				return
			}
			if t.hooks.OnTick != nil {
				t.hooks.OnTick(step.Left)
			}
		}
	}
}
