package scene

import (
	"fmt"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ideenkultivierung/volumefx/blend"
	"github.com/ideenkultivierung/volumefx/geom"
	"github.com/ideenkultivierung/volumefx/volume"
)

const (
	// VolumeTag marks a scene object as a trigger volume.
	VolumeTag = "postProcessingVolume"
	// MetadataPrefix selects the metadata sets this subsystem recognizes.
	MetadataPrefix = "PostProcessing"
	// paramPrefix selects the metadata keys that become blend parameters.
	paramPrefix = "camera:"
)

// RawObject is one authored scene object. Bounds are world-space min/max
// triples.
type RawObject struct {
	Name string    `yaml:"name"`
	Tags []string  `yaml:"tags"`
	Min  []float64 `yaml:"min"`
	Max  []float64 `yaml:"max"`
}

// RawMetadataSet is one authored metadata set: a named key/value map
// associated with scene objects by name, plus optional hook scripts.
type RawMetadataSet struct {
	Name    string             `yaml:"name"`
	Objects []string           `yaml:"objects"`
	Values  map[string]float64 `yaml:"values"`
	OnEnter string             `yaml:"on_enter"`
	OnExit  string             `yaml:"on_exit"`
}

type rawScene struct {
	Objects  []RawObject      `yaml:"objects"`
	Metadata []RawMetadataSet `yaml:"metadata"`
}

// Scene is the loaded, validated scene description: the volume definitions
// in authoring order, ready for registry construction.
type Scene struct {
	defs []volume.Definition
}

// Definitions returns the volume definitions in authoring order.
func (s *Scene) Definitions() []volume.Definition {
	out := make([]volume.Definition, len(s.defs))
	copy(out, s.defs)
	return out
}

// Load reads and parses a scene description file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scene: parse %s: %w", path, err)
	}
	return s, nil
}

// Parse builds a Scene from YAML. Objects carrying the volume tag become
// trigger volumes; metadata sets whose name starts with MetadataPrefix are
// matched to volumes through their object-name association. A tagged volume
// with no matching set is kept with empty targets (entering it changes
// nothing), which is reported as an informational log line, not an error.
func Parse(data []byte) (*Scene, error) {
	var raw rawScene
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	// name -> recognized metadata set, association resolved by object name.
	setByObject := make(map[string]*RawMetadataSet)
	for i := range raw.Metadata {
		set := &raw.Metadata[i]
		if !strings.HasPrefix(set.Name, MetadataPrefix) {
			continue
		}
		for _, obj := range set.Objects {
			setByObject[obj] = set
		}
	}

	seen := make(map[string]bool)
	var defs []volume.Definition
	for _, obj := range raw.Objects {
		if !hasTag(obj.Tags, VolumeTag) {
			continue
		}
		if obj.Name == "" {
			return nil, fmt.Errorf("tagged volume with empty name")
		}
		if seen[obj.Name] {
			return nil, fmt.Errorf("duplicate volume name %q", obj.Name)
		}
		seen[obj.Name] = true

		bounds, err := parseBounds(obj)
		if err != nil {
			return nil, err
		}

		def := volume.Definition{Name: obj.Name, Bounds: bounds}
		if set, ok := setByObject[obj.Name]; ok {
			def.Targets = paramTargets(set.Values)
			def.EnterScript = set.OnEnter
			def.ExitScript = set.OnExit
		} else {
			log.Printf("scene: volume %q has no %s metadata set", obj.Name, MetadataPrefix)
		}
		defs = append(defs, def)
	}

	return &Scene{defs: defs}, nil
}

func parseBounds(obj RawObject) (geom.BoundingBox, error) {
	min, err := parseVec3(obj.Min)
	if err != nil {
		return geom.BoundingBox{}, fmt.Errorf("volume %q min: %w", obj.Name, err)
	}
	max, err := parseVec3(obj.Max)
	if err != nil {
		return geom.BoundingBox{}, fmt.Errorf("volume %q max: %w", obj.Name, err)
	}
	bounds, err := geom.NewBoundingBox(min, max)
	if err != nil {
		return geom.BoundingBox{}, fmt.Errorf("volume %q: %w", obj.Name, err)
	}
	return bounds, nil
}

func parseVec3(v []float64) (geom.Vec3, error) {
	if len(v) != 3 {
		return geom.Vec3{}, fmt.Errorf("want 3 components, got %d", len(v))
	}
	return geom.NewVec3(v[0], v[1], v[2]), nil
}

// paramTargets keeps only the camera-namespaced keys. Other metadata in the
// set (authoring notes, unrelated tooling keys) is not an error, it just
// isn't ours.
func paramTargets(values map[string]float64) map[blend.Param]float64 {
	targets := make(map[blend.Param]float64)
	for k, v := range values {
		if strings.HasPrefix(k, paramPrefix) {
			targets[blend.Param(k)] = v
		}
	}
	return targets
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
