package spin

import (
	"errors"
	"math"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const frame = time.Second / 60

type rotator struct {
	angle float64
	calls int
}

func (r *rotator) RotateY(a float64) {
	r.angle += a
	r.calls++
}

func TestTimedConservesAngle(t *testing.T) {
	tests := []struct {
		name       string
		revolution float64
		step       float64
		frames     int
	}{
		{"default", 2 * math.Pi, 0.01, 629},
		{"exact multiple", 1, 0.25, 4},
		{"step larger than revolution", 0.5, 2, 1},
		{"uneven", 1, 0.3, 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewTimed(tc.revolution)
			if !s.Trigger() {
				t.Fatal("trigger from idle should start a spin")
			}

			total, frames := 0.0, 0
			for s.State().Phase == Spinning {
				step := s.Advance(Tick{Step: tc.step})
				if step > tc.step {
					t.Fatalf("frame %d applied %v, above step %v", frames, step, tc.step)
				}
				total += step
				frames++
				if frames > tc.frames+1 {
					t.Fatal("spin did not terminate")
				}
			}

			if frames != tc.frames {
				t.Errorf("spin took %d frames, want %d", frames, tc.frames)
			}
			if math.Abs(total-tc.revolution) > 1e-9 {
				t.Errorf("total rotation = %v, want %v", total, tc.revolution)
			}
			if s.State() != (State{}) {
				t.Errorf("final state = %+v, want idle with nothing remaining", s.State())
			}
		})
	}
}

func TestTimedIgnoresClickWhileSpinning(t *testing.T) {
	s := NewTimed(2 * math.Pi)
	s.Trigger()
	s.Advance(Tick{Step: 0.01})
	before := s.State()

	if s.Trigger() {
		t.Error("second trigger should be ignored")
	}
	if s.State() != before {
		t.Errorf("state changed from %+v to %+v", before, s.State())
	}
}

func TestTimedIdleAdvance(t *testing.T) {
	s := NewTimed(1)
	if got := s.Advance(Tick{Step: 0.5}); got != 0 {
		t.Errorf("idle advance = %v, want 0", got)
	}
}

func TestToggle(t *testing.T) {
	s := NewToggle()

	steps := []struct {
		name    string
		trigger bool
		phase   Phase
		angle   float64
	}{
		{"idle", false, Idle, 0},
		{"start", true, FreeSpin, 0.1},
		{"keeps spinning", false, FreeSpin, 0.1},
		{"stop", true, Idle, 0},
		{"restart", true, FreeSpin, 0.1},
	}

	for _, st := range steps {
		t.Run(st.name, func(t *testing.T) {
			if st.trigger && !s.Trigger() {
				t.Fatal("toggle never ignores a hit")
			}
			if s.State().Phase != st.phase {
				t.Errorf("phase = %v, want %v", s.State().Phase, st.phase)
			}
			if got := s.Advance(Tick{Step: 0.1}); got != st.angle {
				t.Errorf("advance = %v, want %v", got, st.angle)
			}
		})
	}
}

func TestEasedLandsOnRevolution(t *testing.T) {
	s, err := NewEased(2*math.Pi, time.Second, "inOutCubic")
	if err != nil {
		t.Fatal(err)
	}
	s.Trigger()

	total, frames := 0.0, 0
	for s.State().Phase == Spinning {
		total += s.Advance(Tick{Elapsed: frame})
		frames++
		if frames > 120 {
			t.Fatal("eased spin did not terminate")
		}
	}

	if math.Abs(total-2*math.Pi) > 1e-9 {
		t.Errorf("total rotation = %v, want 2π", total)
	}
	if frames < 59 || frames > 61 {
		t.Errorf("spin took %d frames, want about 60", frames)
	}
}

func TestEasedIgnoresClickWhileSpinning(t *testing.T) {
	s, err := NewEased(1, time.Second, "")
	if err != nil {
		t.Fatal(err)
	}
	s.Trigger()
	s.Advance(Tick{Elapsed: 100 * time.Millisecond})
	before := s.State()

	if s.Trigger() {
		t.Error("trigger while spinning should be ignored")
	}
	if s.State() != before {
		t.Errorf("state changed from %+v to %+v", before, s.State())
	}
}

func TestNewStrategy(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		want    string
		wantErr error
	}{
		{"timed", Params{Revolution: 1}, NameTimed, nil},
		{"", Params{Revolution: 1}, NameTimed, nil},
		{"toggle", Params{}, NameToggle, nil},
		{"eased", Params{Revolution: 1, Duration: time.Second, Easing: "OutBounce"}, NameEased, nil},
		{"eased", Params{Revolution: 1, Duration: time.Second, Easing: "wobble"}, "", ErrUnknownEasing},
		{"spiral", Params{}, "", ErrUnknownStrategy},
	}

	for _, tc := range tests {
		t.Run(tc.name+"/"+tc.params.Easing, func(t *testing.T) {
			s, err := NewStrategy(tc.name, tc.params)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("err = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if s.Name() != tc.want {
				t.Errorf("Name() = %q, want %q", s.Name(), tc.want)
			}
		})
	}
}

func TestEasingNames(t *testing.T) {
	for _, name := range EasingNames() {
		if _, err := Easing(name); err != nil {
			t.Errorf("Easing(%q): %v", name, err)
		}
	}
}

func TestMachineTwoRapidClicks(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	m := NewMachine(NewTimed(2*math.Pi), DefaultOptions(), zap.New(core))
	r := &rotator{}

	if !m.Click(true) {
		t.Fatal("first click should start the spin")
	}
	m.Tick(frame, r)
	remaining := m.State().Remaining

	if m.Click(true) {
		t.Error("second click should be ignored")
	}
	if m.State().Remaining != remaining {
		t.Errorf("remaining changed from %v to %v", remaining, m.State().Remaining)
	}

	ignored := logs.FilterMessage("spin in progress, click ignored").All()
	if len(ignored) != 1 {
		t.Fatalf("got %d ignored-click logs, want 1", len(ignored))
	}
	if ignored[0].Level != zapcore.InfoLevel {
		t.Errorf("ignored click logged at %v, want info", ignored[0].Level)
	}
	if got := ignored[0].ContextMap()["remaining"]; got != remaining {
		t.Errorf("logged remaining = %v, want %v", got, remaining)
	}
}

func TestMachineMiss(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	m := NewMachine(NewTimed(1), DefaultOptions(), zap.New(core))

	if m.Click(false) {
		t.Error("a miss should not change state")
	}
	if !m.Idle() {
		t.Error("machine should stay idle after a miss")
	}
	miss := logs.FilterMessage("click missed model").All()
	if len(miss) != 1 || miss[0].Level != zapcore.DebugLevel {
		t.Errorf("miss logs = %v, want one debug entry", miss)
	}
}

func TestMachineTickRotates(t *testing.T) {
	m := NewMachine(NewTimed(2*math.Pi), DefaultOptions(), nil)
	r := &rotator{}

	if got := m.Tick(frame, r); got != 0 || r.calls != 0 {
		t.Errorf("idle tick applied %v over %d calls", got, r.calls)
	}

	m.Click(true)
	for !m.Idle() {
		m.Tick(frame, r)
		if r.calls > 1000 {
			t.Fatal("spin did not terminate")
		}
	}
	if math.Abs(r.angle-2*math.Pi) > 1e-9 {
		t.Errorf("model turned %v, want 2π", r.angle)
	}
}

func TestMachineStep(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		dt   time.Duration
		want float64
	}{
		{"fixed ignores dt", Options{Speed: 0.01}, 500 * time.Millisecond, 0.01},
		{"scaled at reference rate", Options{Speed: 0.01, TimeScaled: true, ReferenceFPS: 60}, time.Second / 60, 0.01},
		{"scaled at half rate", Options{Speed: 0.01, TimeScaled: true, ReferenceFPS: 60}, time.Second / 30, 0.02},
		{"scaled default reference", Options{Speed: 0.01, TimeScaled: true}, time.Second, 0.6},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := NewMachine(NewToggle(), tc.opts, nil)
			if got := m.Step(tc.dt); math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("Step(%v) = %v, want %v", tc.dt, got, tc.want)
			}
		})
	}
}

func TestMachineReset(t *testing.T) {
	m := NewMachine(NewTimed(1), DefaultOptions(), nil)
	m.Click(true)
	m.Reset()
	if !m.Idle() || m.State().Remaining != 0 {
		t.Errorf("state after reset = %+v, want idle", m.State())
	}
}

func TestPhaseString(t *testing.T) {
	tests := map[Phase]string{
		Idle:      "idle",
		Spinning:  "spinning",
		FreeSpin:  "free-spin",
		Phase(42): "Phase(42)",
	}
	for p, want := range tests {
		if got := p.String(); got != want {
			t.Errorf("Phase(%d).String() = %q, want %q", int(p), got, want)
		}
	}
}
