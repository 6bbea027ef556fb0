// Package countdown turns a server "seconds remaining" snapshot into a live
// countdown that signals expiry exactly once.
package countdown

import (
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
)

// State is the countdown lifecycle.
type State int

const (
	Idle     State = iota // No snapshot, or torn down
	Counting              // Ticking towards endTime
	Expired               // Reached zero; the owner should refresh once
	Closed                // Snapshot had no open window
)

func (s State) String() string {
	switch s {
	case Counting:
		return "counting"
	case Expired:
		return "expired"
	case Closed:
		return "closed"
	default:
		return "idle"
	}
}

// Generation identifies one snapshot. Ticks carrying an older generation are
// ignored, which is how a replaced countdown is cancelled. Generations are
// unique across all countdowns in the process, so a tick scheduled by one
// view never matches a countdown created later by another.
type Generation uint64

var generations atomic.Uint64

func nextGeneration() Generation { return Generation(generations.Add(1)) }

// Step is the outcome of one tick.
type Step struct {
	Left    int
	Expired bool // True only on the tick that reached zero
	Live    bool // True while another tick should be scheduled
}

// Countdown is a single-owner state machine. It is not safe for concurrent
// use; Ticker wraps it for goroutine use.
type Countdown struct {
	clock clockwork.Clock
	gen   Generation
	state State
	end   time.Time
	left  int
}

// New returns an idle countdown reading time from clock.
func New(clock clockwork.Clock) Countdown {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return Countdown{clock: clock}
}

// Snapshot replaces the current countdown with a fresh one derived from the
// server's seconds-remaining value and returns the new generation. A nil or
// non-positive value closes the countdown without starting it.
func (c *Countdown) Snapshot(votingEndsIn *int) Generation {
	c.gen = nextGeneration()
	if votingEndsIn == nil || *votingEndsIn <= 0 {
		c.state = Closed
		c.end = time.Time{}
		c.left = 0
		return c.gen
	}
	c.end = c.now().Add(time.Duration(*votingEndsIn) * time.Second)
	c.left = *votingEndsIn
	c.state = Counting
	return c.gen
}

// Tick recomputes the time left. Ticks from a stale generation, or after the
// countdown left the Counting state, return a zero Step.
func (c *Countdown) Tick(gen Generation) Step {
	if gen != c.gen || c.state != Counting {
		return Step{}
	}
	left := int(c.end.Sub(c.now()) / time.Second)
	if left <= 0 {
		c.left = 0
		c.state = Expired
		return Step{Expired: true}
	}
	c.left = left
	return Step{Left: left, Live: true}
}

// Stop tears the countdown down. Outstanding ticks become stale.
func (c *Countdown) Stop() {
	c.gen = nextGeneration()
	c.state = Idle
	c.left = 0
}

// Generation returns the current generation.
func (c Countdown) Generation() Generation { return c.gen }

// State returns the lifecycle state.
func (c Countdown) State() State { return c.state }

// Left returns the seconds left as of the last snapshot or tick.
func (c Countdown) Left() int { return c.left }

// EndTime returns the absolute end of the window, zero unless counting or expired.
func (c Countdown) EndTime() time.Time { return c.end }

// Label renders the countdown for display.
func (c Countdown) Label() string {
	switch c.state {
	case Counting:
		return FormatTimeLeft(c.left)
	case Expired:
		return "voting ended"
	case Closed:
		return "voting closed"
	default:
		return ""
	}
}

func (c Countdown) now() time.Time {
	if c.clock == nil {
		return time.Now()
	}
	return c.clock.Now()
}
