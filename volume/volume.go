package volume

import (
	"github.com/ideenkultivierung/volumefx/blend"
	"github.com/ideenkultivierung/volumefx/geom"
)

// Definition is the registration tuple for one trigger volume, produced by a
// scene provider and consumed by NewRegistry.
type Definition struct {
	Name    string
	Bounds  geom.BoundingBox
	Targets map[blend.Param]float64

	// EnterScript and ExitScript are optional hook script sources, run when
	// the camera crosses into or out of the volume. Empty means no hook.
	EnterScript string
	ExitScript  string
}

// TriggerVolume is a named axis-aligned region with the camera parameter
// targets that apply while the camera is inside it. Read-only for the
// session once registered.
type TriggerVolume struct {
	name        string
	bounds      geom.BoundingBox
	targets     map[blend.Param]float64
	enterScript string
	exitScript  string
}

func (v *TriggerVolume) Name() string             { return v.name }
func (v *TriggerVolume) Bounds() geom.BoundingBox { return v.bounds }
func (v *TriggerVolume) EnterScript() string      { return v.enterScript }
func (v *TriggerVolume) ExitScript() string       { return v.exitScript }

// Targets returns the volume's parameter targets. The map may be empty for a
// volume tagged as a trigger but carrying no parameter metadata; entering
// such a volume keeps whatever targets were already in effect.
func (v *TriggerVolume) Targets() map[blend.Param]float64 {
	out := make(map[blend.Param]float64, len(v.targets))
	for p, val := range v.targets {
		out[p] = val
	}
	return out
}

// HasTargets reports whether the volume carries any parameter metadata.
func (v *TriggerVolume) HasTargets() bool { return len(v.targets) > 0 }
