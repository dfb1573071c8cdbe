package controller

import (
	"math"
	"testing"

	"github.com/ideenkultivierung/volumefx/blend"
	"github.com/ideenkultivierung/volumefx/geom"
	"github.com/ideenkultivierung/volumefx/volume"
)

type fakeCamera struct {
	pos    geom.Vec3
	params map[blend.Param]float64
}

func newFakeCamera(exposure, saturation float64) *fakeCamera {
	return &fakeCamera{
		params: map[blend.Param]float64{
			blend.ParamExposure:   exposure,
			blend.ParamSaturation: saturation,
		},
	}
}

func (f *fakeCamera) WorldPosition() geom.Vec3              { return f.pos }
func (f *fakeCamera) Parameter(p blend.Param) float64       { return f.params[p] }
func (f *fakeCamera) SetParameter(p blend.Param, v float64) { f.params[p] = v }

type recordingHooks struct {
	entered []string
	exited  []string
}

func (r *recordingHooks) VolumeEntered(v *volume.TriggerVolume) {
	r.entered = append(r.entered, v.Name())
}

func (r *recordingHooks) VolumeExited(v *volume.TriggerVolume) {
	r.exited = append(r.exited, v.Name())
}

func mustRegistry(t *testing.T, defs []volume.Definition) *volume.Registry {
	t.Helper()
	reg, err := volume.NewRegistry(defs)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return reg
}

func box(t *testing.T, minX, maxX float64) geom.BoundingBox {
	t.Helper()
	b, err := geom.NewBoundingBox(geom.NewVec3(minX, -10, -10), geom.NewVec3(maxX, 10, 10))
	if err != nil {
		t.Fatalf("NewBoundingBox: %v", err)
	}
	return b
}

func TestEnterExitTransitionsAlongPath(t *testing.T) {
	reg := mustRegistry(t, []volume.Definition{
		{Name: "A", Bounds: box(t, 0, 10), Targets: map[blend.Param]float64{blend.ParamExposure: 5}},
		{Name: "B", Bounds: box(t, 20, 30), Targets: map[blend.Param]float64{blend.ParamExposure: -2}},
	})

	cam := newFakeCamera(1.0, 1.0)
	hooks := &recordingHooks{}
	c := New(cam, reg)
	c.SetHooks(hooks)

	// outside -> A -> outside -> B -> outside, several ticks per leg.
	path := []float64{-5, -5, 5, 5, 5, 15, 15, 25, 25, -5, -5}
	for _, x := range path {
		cam.pos = geom.NewVec3(x, 0, 0)
		c.Tick()
	}

	if len(hooks.entered) != 2 || hooks.entered[0] != "A" || hooks.entered[1] != "B" {
		t.Fatalf("entered = %v, want [A B]", hooks.entered)
	}
	if len(hooks.exited) != 2 || hooks.exited[0] != "A" || hooks.exited[1] != "B" {
		t.Fatalf("exited = %v, want [A B]", hooks.exited)
	}
}

func TestTargetsFollowOccupancy(t *testing.T) {
	reg := mustRegistry(t, []volume.Definition{
		{Name: "A", Bounds: box(t, 0, 10), Targets: map[blend.Param]float64{
			blend.ParamExposure:   5,
			blend.ParamSaturation: 0.2,
		}},
	})

	cam := newFakeCamera(1.0, 1.0)
	c := New(cam, reg)

	cam.pos = geom.NewVec3(5, 0, 0)
	c.Tick()

	if got, _ := c.Blender().Target(blend.ParamExposure); got != 5 {
		t.Fatalf("exposure target after enter = %v, want 5", got)
	}
	if got, _ := c.Blender().Target(blend.ParamSaturation); got != 0.2 {
		t.Fatalf("saturation target after enter = %v, want 0.2", got)
	}

	cam.pos = geom.NewVec3(-5, 0, 0)
	c.Tick()

	if got, _ := c.Blender().Target(blend.ParamExposure); got != 1.0 {
		t.Fatalf("exposure target after exit = %v, want baseline 1.0", got)
	}
	if got, _ := c.Blender().Target(blend.ParamSaturation); got != 1.0 {
		t.Fatalf("saturation target after exit = %v, want baseline 1.0", got)
	}
}

func TestExitResetsAllParamsEvenIfVolumeSetOne(t *testing.T) {
	// Volume only sets exposure. While inside, drift saturation's current
	// value by hand; after exit the saturation TARGET must still be the
	// baseline (reset is all-params).
	reg := mustRegistry(t, []volume.Definition{
		{Name: "A", Bounds: box(t, 0, 10), Targets: map[blend.Param]float64{blend.ParamExposure: 5}},
	})

	cam := newFakeCamera(1.0, 0.8)
	c := New(cam, reg)

	cam.pos = geom.NewVec3(5, 0, 0)
	c.Tick()
	if got, _ := c.Blender().Target(blend.ParamSaturation); got != 0.8 {
		t.Fatalf("saturation target changed on enter: %v", got)
	}

	cam.pos = geom.NewVec3(-5, 0, 0)
	c.Tick()
	if got, _ := c.Blender().Target(blend.ParamSaturation); got != 0.8 {
		t.Fatalf("saturation target after exit = %v, want baseline 0.8", got)
	}
	if got, _ := c.Blender().Target(blend.ParamExposure); got != 1.0 {
		t.Fatalf("exposure target after exit = %v, want baseline 1.0", got)
	}
}

func TestVolumeWithoutTargetsKeepsPriorTargets(t *testing.T) {
	reg := mustRegistry(t, []volume.Definition{
		{Name: "lit", Bounds: box(t, 0, 10), Targets: map[blend.Param]float64{blend.ParamExposure: 5}},
		{Name: "bare", Bounds: box(t, 20, 30)},
	})

	cam := newFakeCamera(1.0, 1.0)
	c := New(cam, reg)

	cam.pos = geom.NewVec3(5, 0, 0)
	c.Tick()
	cam.pos = geom.NewVec3(25, 0, 0)
	c.Tick()

	// lit -> bare is a direct transition (no outside leg), so no baseline
	// reset happened; bare carries no targets, so lit's targets persist.
	if got, _ := c.Blender().Target(blend.ParamExposure); got != 5 {
		t.Fatalf("exposure target inside bare volume = %v, want 5 (kept)", got)
	}
	if c.ActiveVolume() == nil || c.ActiveVolume().Name() != "bare" {
		t.Fatalf("active volume = %v, want bare", c.ActiveVolume())
	}
}

func TestBlendProgressesOverTicks(t *testing.T) {
	reg := mustRegistry(t, []volume.Definition{
		{Name: "A", Bounds: box(t, 0, 10), Targets: map[blend.Param]float64{blend.ParamExposure: 11}},
	})

	cam := newFakeCamera(1.0, 1.0)
	c := New(cam, reg)

	cam.pos = geom.NewVec3(5, 0, 0)
	c.Tick()
	if got := cam.Parameter(blend.ParamExposure); math.Abs(got-2.0) > 1e-9 {
		t.Fatalf("exposure after first tick = %v, want 2.0", got)
	}
	c.Tick()
	if got := cam.Parameter(blend.ParamExposure); math.Abs(got-2.9) > 1e-9 {
		t.Fatalf("exposure after second tick = %v, want 2.9", got)
	}

	for i := 0; i < 200; i++ {
		c.Tick()
	}
	if got := cam.Parameter(blend.ParamExposure); math.Abs(11-got) > blend.DefaultEpsilon {
		t.Fatalf("exposure did not converge near target: %v", got)
	}
}

func TestInactiveFreezesEvaluationButNotBlend(t *testing.T) {
	reg := mustRegistry(t, []volume.Definition{
		{Name: "A", Bounds: box(t, 0, 10), Targets: map[blend.Param]float64{blend.ParamExposure: 11}},
	})

	cam := newFakeCamera(1.0, 1.0)
	hooks := &recordingHooks{}
	c := New(cam, reg)
	c.SetHooks(hooks)

	cam.pos = geom.NewVec3(5, 0, 0)
	c.Tick()
	before := cam.Parameter(blend.ParamExposure)

	// Deactivate, then leave the volume. No exit transition may fire, the
	// target stays frozen, but the blend keeps stepping toward it.
	c.SetActive(false)
	cam.pos = geom.NewVec3(-5, 0, 0)
	c.Tick()
	c.Tick()

	if len(hooks.exited) != 0 {
		t.Fatalf("exit fired while inactive: %v", hooks.exited)
	}
	if got, _ := c.Blender().Target(blend.ParamExposure); got != 11 {
		t.Fatalf("target changed while inactive: %v", got)
	}
	if after := cam.Parameter(blend.ParamExposure); after <= before {
		t.Fatalf("blend did not progress while inactive: %v -> %v", before, after)
	}

	// Reactivating resumes evaluation from the frozen state: the camera is
	// outside now, so the next tick is the exit.
	c.SetActive(true)
	c.Tick()
	if len(hooks.exited) != 1 || hooks.exited[0] != "A" {
		t.Fatalf("exit after reactivation = %v, want [A]", hooks.exited)
	}
}

func TestSetRegistrySwapResolvesByName(t *testing.T) {
	regA := mustRegistry(t, []volume.Definition{
		{Name: "A", Bounds: box(t, 0, 10), Targets: map[blend.Param]float64{blend.ParamExposure: 5}},
	})

	cam := newFakeCamera(1.0, 1.0)
	hooks := &recordingHooks{}
	c := New(cam, regA)
	c.SetHooks(hooks)

	cam.pos = geom.NewVec3(5, 0, 0)
	c.Tick()

	// Reload: same position now falls in a volume with a different name.
	regB := mustRegistry(t, []volume.Definition{
		{Name: "B", Bounds: box(t, 0, 10), Targets: map[blend.Param]float64{blend.ParamExposure: -3}},
	})
	c.SetRegistry(regB)
	c.Tick()

	if len(hooks.entered) != 2 || hooks.entered[1] != "B" {
		t.Fatalf("entered = %v, want [A B]", hooks.entered)
	}
	if got, _ := c.Blender().Target(blend.ParamExposure); got != -3 {
		t.Fatalf("exposure target after swap = %v, want -3", got)
	}
}
