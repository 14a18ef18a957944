package blendspace

import "github.com/Faultbox/blendspace/pkg/math"

// InterpolationType selects how an input axis is smoothed over time.
type InterpolationType int

const (
	// InterpolationAveraged averages every input seen within the window.
	InterpolationAveraged InterpolationType = iota
	// InterpolationLinear weights inputs by 1-age/window.
	InterpolationLinear
	// InterpolationCubic weights inputs with a smoothstep falloff over the window.
	InterpolationCubic
	// InterpolationExponential is a first-order lag with time constant Time.
	InterpolationExponential
	// InterpolationSpring is a critically damped spring with time constant Time.
	InterpolationSpring
)

var interpolationNames = map[InterpolationType]string{
	InterpolationAveraged:    "averaged",
	InterpolationLinear:      "linear",
	InterpolationCubic:       "cubic",
	InterpolationExponential: "exponential",
	InterpolationSpring:      "spring",
}

func (t InterpolationType) String() string {
	if s, ok := interpolationNames[t]; ok {
		return s
	}
	return "unknown"
}

// ParseInterpolationType converts an asset-file name to an InterpolationType.
func ParseInterpolationType(s string) (InterpolationType, bool) {
	if s == "" {
		return InterpolationAveraged, true
	}
	for t, name := range interpolationNames {
		if name == s {
			return t, true
		}
	}
	return InterpolationAveraged, false
}

// InterpolationParam configures smoothing of one input axis.
// A Time of zero or less disables smoothing.
type InterpolationParam struct {
	Time float32
	Type InterpolationType
}

// maxFilterEntries bounds the history kept by a windowed filter.
const maxFilterEntries = 128

type filterEntry struct {
	value float32
	time  float32
}

// axisFilter smooths one input axis. It is owned by a single instance.
type axisFilter struct {
	param   InterpolationParam
	now     float32
	history []filterEntry

	primed   bool
	value    float32
	velocity float32
}

func (f *axisFilter) reset() {
	f.now = 0
	f.history = f.history[:0]
	f.primed = false
	f.value = 0
	f.velocity = 0
}

func (f *axisFilter) filter(input, deltaTime float32) float32 {
	if f.param.Time <= 0 {
		return input
	}
	switch f.param.Type {
	case InterpolationExponential:
		return f.exponential(input, deltaTime)
	case InterpolationSpring:
		return f.spring(input, deltaTime)
	default:
		return f.windowed(input, deltaTime)
	}
}

func (f *axisFilter) windowed(input, deltaTime float32) float32 {
	f.now += deltaTime
	f.history = append(f.history, filterEntry{value: input, time: f.now})

	// Drop entries that fell out of the window, always keeping the newest.
	start := 0
	for start < len(f.history)-1 && f.now-f.history[start].time > f.param.Time {
		start++
	}
	if len(f.history)-start > maxFilterEntries {
		start = len(f.history) - maxFilterEntries
	}
	if start > 0 {
		f.history = append(f.history[:0], f.history[start:]...)
	}

	var sum, total float32
	for _, e := range f.history {
		w := f.coefficient((f.now - e.time) / f.param.Time)
		sum += e.value * w
		total += w
	}
	if total <= math.SmallNumber {
		return input
	}
	return sum / total
}

// coefficient returns the weight of an entry whose age is t windows (0..1).
func (f *axisFilter) coefficient(t float32) float32 {
	t = math.Clamp(t, 0, 1)
	switch f.param.Type {
	case InterpolationLinear:
		return 1 - t
	case InterpolationCubic:
		return 1 - t*t*(3-2*t)
	default:
		return 1
	}
}

func (f *axisFilter) exponential(input, deltaTime float32) float32 {
	if !f.primed {
		f.primed = true
		f.value = input
		return input
	}
	alpha := 1 - math.Exp(-deltaTime/f.param.Time)
	f.value += (input - f.value) * alpha
	return f.value
}

func (f *axisFilter) spring(input, deltaTime float32) float32 {
	if !f.primed {
		f.primed = true
		f.value = input
		f.velocity = 0
		return input
	}
	// Critically damped spring, stable for any step size.
	omega := 2 / f.param.Time
	x := omega * deltaTime
	decay := 1 / (1 + x + 0.48*x*x + 0.235*x*x*x)
	diff := f.value - input
	temp := (f.velocity + omega*diff) * deltaTime
	f.velocity = (f.velocity - omega*temp) * decay
	f.value = input + (diff+temp)*decay
	return f.value
}

// InputFilter smooths a blend input per axis over time.
type InputFilter struct {
	axes [MaxAxes]axisFilter
}

// NewInputFilter creates a filter with one parameter per axis.
func NewInputFilter(params [MaxAxes]InterpolationParam) *InputFilter {
	f := &InputFilter{}
	for i := range f.axes {
		f.axes[i].param = params[i]
	}
	return f
}

// Filter returns the smoothed input after deltaTime seconds.
func (f *InputFilter) Filter(input math.Vec3, deltaTime float32) math.Vec3 {
	for axis := range f.axes {
		input = input.WithAxis(axis, f.axes[axis].filter(input.Axis(axis), deltaTime))
	}
	return input
}

// Reset clears the filter history.
func (f *InputFilter) Reset() {
	for i := range f.axes {
		f.axes[i].reset()
	}
}

// IsActive reports whether any axis smooths its input.
func (f *InputFilter) IsActive() bool {
	for _, a := range f.axes {
		if a.param.Time > 0 {
			return true
		}
	}
	return false
}
