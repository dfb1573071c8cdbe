package volume

import (
	"fmt"

	"github.com/ideenkultivierung/volumefx/blend"
	"github.com/ideenkultivierung/volumefx/geom"
)

// Registry holds every trigger volume for a session, in registration order.
// It is built once from scene data and read-only afterwards, so the per-tick
// lookup needs no locking.
type Registry struct {
	volumes []*TriggerVolume
	byName  map[string]*TriggerVolume
}

// NewRegistry builds a registry from scene definitions. Duplicate names are
// rejected: transition detection compares volumes by name, so letting a
// later volume silently shadow an earlier one would corrupt enter/exit
// tracking.
func NewRegistry(defs []Definition) (*Registry, error) {
	r := &Registry{
		volumes: make([]*TriggerVolume, 0, len(defs)),
		byName:  make(map[string]*TriggerVolume, len(defs)),
	}
	for _, def := range defs {
		if def.Name == "" {
			return nil, fmt.Errorf("volume: volume with empty name")
		}
		if _, exists := r.byName[def.Name]; exists {
			return nil, fmt.Errorf("volume: duplicate volume name %q", def.Name)
		}
		targets := make(map[blend.Param]float64, len(def.Targets))
		for p, v := range def.Targets {
			targets[p] = v
		}
		v := &TriggerVolume{
			name:        def.Name,
			bounds:      def.Bounds,
			targets:     targets,
			enterScript: def.EnterScript,
			exitScript:  def.ExitScript,
		}
		r.volumes = append(r.volumes, v)
		r.byName[def.Name] = v
	}
	return r, nil
}

// FindActiveVolume returns the volume containing the point, or nil. Volumes
// are checked in registration order and the last match wins, so overlapping
// volumes resolve to the most recently registered one.
func (r *Registry) FindActiveVolume(p geom.Vec3) *TriggerVolume {
	var active *TriggerVolume
	for _, v := range r.volumes {
		if v.bounds.Contains(p) {
			active = v
		}
	}
	return active
}

// Lookup returns the volume registered under name.
func (r *Registry) Lookup(name string) (*TriggerVolume, bool) {
	v, ok := r.byName[name]
	return v, ok
}

// Volumes returns the registered volumes in registration order.
func (r *Registry) Volumes() []*TriggerVolume {
	out := make([]*TriggerVolume, len(r.volumes))
	copy(out, r.volumes)
	return out
}

// Len returns the number of registered volumes.
func (r *Registry) Len() int { return len(r.volumes) }
