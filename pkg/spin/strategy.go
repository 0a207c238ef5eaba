// Package spin implements the click-driven rotation state machine.
//
// A Machine owns one Strategy. The strategy decides how a click on the model
// changes the rotation state and how much the model turns on each frame.
package spin

import (
	"errors"
	"fmt"
	"time"
)

// Strategy names.
const (
	NameTimed  = "timed"
	NameToggle = "toggle"
	NameEased  = "eased"
)

var (
	ErrUnknownStrategy = errors.New("unknown spin strategy")
	ErrUnknownEasing   = errors.New("unknown easing function")
)

// Phase is the coarse rotation state.
type Phase int

const (
	Idle     Phase = iota // Not rotating
	Spinning              // Bounded spin toward a target angle
	FreeSpin              // Unbounded spin until toggled off
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Spinning:
		return "spinning"
	case FreeSpin:
		return "free-spin"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// State is a snapshot of a strategy. Remaining is the angle left in a bounded
// spin and zero otherwise.
type State struct {
	Phase     Phase
	Remaining float64
}

// Tick carries the per-frame inputs of Advance.
type Tick struct {
	Step    float64       // Angle budget for this frame
	Elapsed time.Duration // Wall time since the previous frame
}

// Strategy is one rotation behaviour.
type Strategy interface {
	Name() string
	State() State
	// Trigger handles a click that hit the model. It returns false when the
	// click was ignored.
	Trigger() bool
	// Advance moves the state one frame forward and returns the angle to
	// apply to the model.
	Advance(t Tick) float64
	// Reset returns the strategy to Idle.
	Reset()
}

// Params configures strategy construction.
type Params struct {
	Revolution float64       // Target angle of timed and eased spins
	Duration   time.Duration // Eased spin length
	Easing     string        // Eased spin curve, see EasingNames
}

// NewStrategy builds the strategy registered under name.
func NewStrategy(name string, p Params) (Strategy, error) {
	switch name {
	case NameTimed, "":
		return NewTimed(p.Revolution), nil
	case NameToggle:
		return NewToggle(), nil
	case NameEased:
		return NewEased(p.Revolution, p.Duration, p.Easing)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// Timed spins a fixed angle per click. Clicks during a spin are ignored.
type Timed struct {
	revolution float64
	state      State
}

// NewTimed creates a timed strategy turning revolution radians per click.
func NewTimed(revolution float64) *Timed {
	return &Timed{revolution: revolution}
}

func (s *Timed) Name() string { return NameTimed }
func (s *Timed) State() State { return s.state }
func (s *Timed) Reset()       { s.state = State{} }

func (s *Timed) Trigger() bool {
	if s.state.Phase != Idle {
		return false
	}
	s.state = State{Phase: Spinning, Remaining: s.revolution}
	return true
}

func (s *Timed) Advance(t Tick) float64 {
	if s.state.Phase != Spinning {
		return 0
	}
	step := min(t.Step, s.state.Remaining)
	s.state.Remaining -= step
	if s.state.Remaining <= 0 {
		s.state = State{}
	}
	return step
}

// Toggle starts an unbounded spin on one click and stops it on the next.
type Toggle struct {
	phase Phase
}

// NewToggle creates a toggle strategy.
func NewToggle() *Toggle {
	return &Toggle{}
}

func (s *Toggle) Name() string { return NameToggle }
func (s *Toggle) State() State { return State{Phase: s.phase} }
func (s *Toggle) Reset()       { s.phase = Idle }

func (s *Toggle) Trigger() bool {
	if s.phase == FreeSpin {
		s.phase = Idle
	} else {
		s.phase = FreeSpin
	}
	return true
}

func (s *Toggle) Advance(t Tick) float64 {
	if s.phase != FreeSpin {
		return 0
	}
	return t.Step
}
