package spin

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

var easings = map[string]ease.TweenFunc{
	"linear":     ease.Linear,
	"inquad":     ease.InQuad,
	"outquad":    ease.OutQuad,
	"inoutquad":  ease.InOutQuad,
	"incubic":    ease.InCubic,
	"outcubic":   ease.OutCubic,
	"inoutcubic": ease.InOutCubic,
	"inquart":    ease.InQuart,
	"outquart":   ease.OutQuart,
	"inoutquart": ease.InOutQuart,
	"insine":     ease.InSine,
	"outsine":    ease.OutSine,
	"inoutsine":  ease.InOutSine,
	"inexpo":     ease.InExpo,
	"outexpo":    ease.OutExpo,
	"inoutexpo":  ease.InOutExpo,
	"incirc":     ease.InCirc,
	"outcirc":    ease.OutCirc,
	"inoutcirc":  ease.InOutCirc,
	"outback":    ease.OutBack,
	"inoutback":  ease.InOutBack,
	"outbounce":  ease.OutBounce,
	"outelastic": ease.OutElastic,
}

// Easing looks up an easing function by name, ignoring case. An empty name
// selects inOutCubic.
func Easing(name string) (ease.TweenFunc, error) {
	if name == "" {
		return ease.InOutCubic, nil
	}
	fn, ok := easings[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEasing, name)
	}
	return fn, nil
}

// EasingNames lists the accepted easing names in lower case.
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for name := range easings {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Eased turns the model through a full revolution along an easing curve over
// a fixed duration. Clicks during a spin are ignored.
type Eased struct {
	revolution float64
	duration   time.Duration
	fn         ease.TweenFunc

	tween   *gween.Tween
	applied float64
	phase   Phase
}

// NewEased creates an eased strategy.
func NewEased(revolution float64, duration time.Duration, easing string) (*Eased, error) {
	fn, err := Easing(easing)
	if err != nil {
		return nil, err
	}
	if duration <= 0 {
		return nil, fmt.Errorf("eased spin duration must be positive, got %v", duration)
	}
	return &Eased{revolution: revolution, duration: duration, fn: fn}, nil
}

func (s *Eased) Name() string { return NameEased }

func (s *Eased) State() State {
	if s.phase != Spinning {
		return State{}
	}
	return State{Phase: Spinning, Remaining: s.revolution - s.applied}
}

func (s *Eased) Reset() {
	s.tween = nil
	s.applied = 0
	s.phase = Idle
}

func (s *Eased) Trigger() bool {
	if s.phase != Idle {
		return false
	}
	s.tween = gween.New(0, float32(s.revolution), float32(s.duration.Seconds()), s.fn)
	s.applied = 0
	s.phase = Spinning
	return true
}

func (s *Eased) Advance(t Tick) float64 {
	if s.phase != Spinning {
		return 0
	}
	v, done := s.tween.Update(float32(t.Elapsed.Seconds()))
	target := float64(v)
	if done {
		// Land on the exact angle rather than its float32 rounding.
		target = s.revolution
	}
	delta := target - s.applied
	s.applied = target
	if done {
		s.Reset()
	}
	return delta
}
