package spin

import (
	"time"

	"go.uber.org/zap"
)

// Rotator is anything that can turn about its Y axis.
type Rotator interface {
	RotateY(angle float64)
}

// Options configures the per-frame step of a Machine.
type Options struct {
	// Speed is the angle applied per frame.
	Speed float64
	// TimeScaled scales Speed by elapsed time so the rotation rate does not
	// depend on the frame rate.
	TimeScaled bool
	// ReferenceFPS is the frame rate at which a time-scaled step equals Speed.
	ReferenceFPS float64
}

// DefaultOptions returns a fixed step of 0.01 rad per frame.
func DefaultOptions() Options {
	return Options{Speed: 0.01, ReferenceFPS: 60}
}

// Machine drives a Strategy from clicks and frame ticks.
type Machine struct {
	strategy Strategy
	opts     Options
	log      *zap.Logger
}

// NewMachine creates a machine around s. A nil logger discards output.
func NewMachine(s Strategy, opts Options, log *zap.Logger) *Machine {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.ReferenceFPS <= 0 {
		opts.ReferenceFPS = 60
	}
	return &Machine{strategy: s, opts: opts, log: log.Named("spin")}
}

// Strategy returns the active strategy.
func (m *Machine) Strategy() Strategy { return m.strategy }

// State returns the strategy's current state.
func (m *Machine) State() State { return m.strategy.State() }

// Idle reports whether the model is at rest.
func (m *Machine) Idle() bool { return m.strategy.State().Phase == Idle }

// Click feeds a pick result into the machine. It returns true when the click
// changed the state.
func (m *Machine) Click(hit bool) bool {
	if !hit {
		m.log.Debug("click missed model")
		return false
	}
	before := m.strategy.State()
	if !m.strategy.Trigger() {
		m.log.Info("spin in progress, click ignored",
			zap.Stringer("phase", before.Phase),
			zap.Float64("remaining", before.Remaining),
		)
		return false
	}
	after := m.strategy.State()
	m.log.Debug("spin state changed",
		zap.String("strategy", m.strategy.Name()),
		zap.Stringer("from", before.Phase),
		zap.Stringer("to", after.Phase),
	)
	return true
}

// Step returns the angle budget for a frame that took dt.
func (m *Machine) Step(dt time.Duration) float64 {
	if !m.opts.TimeScaled {
		return m.opts.Speed
	}
	return m.opts.Speed * dt.Seconds() * m.opts.ReferenceFPS
}

// Tick advances the strategy by one frame and turns r by the resulting
// angle. It returns the angle applied.
func (m *Machine) Tick(dt time.Duration, r Rotator) float64 {
	if m.Idle() {
		return 0
	}
	angle := m.strategy.Advance(Tick{Step: m.Step(dt), Elapsed: dt})
	if angle != 0 && r != nil {
		r.RotateY(angle)
	}
	if m.Idle() {
		m.log.Debug("spin finished", zap.String("strategy", m.strategy.Name()))
	}
	return angle
}

// Reset stops any rotation.
func (m *Machine) Reset() {
	m.strategy.Reset()
}
