package blend

import "sort"

// Param identifies a camera parameter tracked by the blender. The values use
// the metadata key namespace so a scene's key/value pairs map onto params
// without translation.
type Param string

const (
	ParamExposure   Param = "camera:exposure"
	ParamSaturation Param = "camera:saturation"
)

const (
	// DefaultAlpha is the per-tick smoothing factor. The blend is a fixed-rate
	// first-order lag: its time constant is tied to the tick rate, not wall
	// clock.
	DefaultAlpha = 0.1
	// DefaultEpsilon is the dead zone below which a value stops updating.
	// Deliberately coarse: the blend can halt visibly short of the exact
	// target. Matching the original tuning, not a bug.
	DefaultEpsilon = 0.1
)

type paramState struct {
	baseline float64
	target   float64
}

// Blender tracks a baseline and a target value per parameter and advances
// caller-supplied current values toward the targets by exponential smoothing,
// one step per tick. Baselines are captured once at construction and never
// change; they are the fallback targets outside all volumes.
type Blender struct {
	Alpha   float64
	Epsilon float64

	states map[Param]*paramState
}

// NewBlender captures the given values as both baseline and initial target
// for each parameter. The parameter set is fixed from here on: SetTarget on
// a param not present in baselines is a no-op.
func NewBlender(baselines map[Param]float64) *Blender {
	states := make(map[Param]*paramState, len(baselines))
	for p, v := range baselines {
		states[p] = &paramState{baseline: v, target: v}
	}
	return &Blender{
		Alpha:   DefaultAlpha,
		Epsilon: DefaultEpsilon,
		states:  states,
	}
}

// SetTarget updates the blend target for a tracked parameter. It reports
// whether the parameter is tracked; untracked params are left unchanged.
func (b *Blender) SetTarget(p Param, v float64) bool {
	s, ok := b.states[p]
	if !ok {
		return false
	}
	s.target = v
	return true
}

// ResetToBaseline restores a single parameter's target to its baseline.
func (b *Blender) ResetToBaseline(p Param) {
	if s, ok := b.states[p]; ok {
		s.target = s.baseline
	}
}

// ResetAllToBaseline restores every tracked parameter's target to its
// baseline. Leaving a volume resets everything, even params that volume
// never set.
func (b *Blender) ResetAllToBaseline() {
	for _, s := range b.states {
		s.target = s.baseline
	}
}

// Target returns the current blend target for a tracked parameter.
func (b *Blender) Target(p Param) (float64, bool) {
	s, ok := b.states[p]
	if !ok {
		return 0, false
	}
	return s.target, true
}

// Baseline returns the startup value captured for a tracked parameter.
func (b *Blender) Baseline(p Param) (float64, bool) {
	s, ok := b.states[p]
	if !ok {
		return 0, false
	}
	return s.baseline, true
}

// Params returns the tracked parameters in a stable order.
func (b *Blender) Params() []Param {
	out := make([]Param, 0, len(b.states))
	for p := range b.states {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Step advances the supplied current values one tick toward their targets
// and returns only the params whose value changed. A param within Epsilon of
// its target is left alone, so repeated steps at the fixed point return
// nothing. Callers must pass finite values; NaN/Inf is a precondition
// violation of the parameter source.
func (b *Blender) Step(current map[Param]float64) map[Param]float64 {
	changed := make(map[Param]float64)
	for p, cur := range current {
		s, ok := b.states[p]
		if !ok {
			continue
		}
		diff := s.target - cur
		if diff < 0 {
			diff = -diff
		}
		if diff > b.Epsilon {
			changed[p] = cur + (s.target-cur)*b.Alpha
		}
	}
	return changed
}
