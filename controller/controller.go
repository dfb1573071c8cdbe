package controller

import (
	"log"

	"github.com/ideenkultivierung/volumefx/blend"
	"github.com/ideenkultivierung/volumefx/geom"
	"github.com/ideenkultivierung/volumefx/volume"
)

// Camera is the host's camera accessor. Implementations are expected to
// return finite parameter values; a NaN position or parameter is a fault of
// the camera source and is not masked here.
type Camera interface {
	WorldPosition() geom.Vec3
	Parameter(p blend.Param) float64
	SetParameter(p blend.Param, v float64)
}

// Hooks receives enter/exit transition notifications. Optional; hook
// failures must be contained by the implementation, the controller does not
// expect errors back.
type Hooks interface {
	VolumeEntered(v *volume.TriggerVolume)
	VolumeExited(v *volume.TriggerVolume)
}

// Controller checks once per tick whether the camera sits inside a trigger
// volume and blends the camera's parameters toward that volume's targets, or
// back to the baselines captured at construction when the camera is outside
// all volumes.
//
// It is single-threaded by contract: the host invokes Tick from its update
// loop and nothing else mutates the controller or its registry in between.
type Controller struct {
	cam     Camera
	reg     *volume.Registry
	blender *blend.Blender
	hooks   Hooks

	active     bool
	lastName   string
	lastVolume *volume.TriggerVolume
}

// New builds a controller over the given camera and registry. The camera's
// current exposure and saturation are captured as baselines here, before any
// volume evaluation, and stay fixed for the session.
func New(cam Camera, reg *volume.Registry) *Controller {
	baselines := map[blend.Param]float64{
		blend.ParamExposure:   cam.Parameter(blend.ParamExposure),
		blend.ParamSaturation: cam.Parameter(blend.ParamSaturation),
	}
	return &Controller{
		cam:     cam,
		reg:     reg,
		blender: blend.NewBlender(baselines),
		active:  true,
	}
}

// SetHooks installs transition hooks. Pass nil to remove them.
func (c *Controller) SetHooks(h Hooks) { c.hooks = h }

// SetActive toggles volume evaluation. Deactivating freezes the current
// transition state and targets; it does NOT stop the blend step, so a blend
// in flight keeps running toward its frozen target. Reactivating resumes
// evaluation from the frozen state.
func (c *Controller) SetActive(active bool) { c.active = active }

// Active reports whether volume evaluation runs on Tick.
func (c *Controller) Active() bool { return c.active }

// ActiveVolume returns the volume the camera currently occupies, or nil.
func (c *Controller) ActiveVolume() *volume.TriggerVolume { return c.lastVolume }

// Blender exposes the parameter blender, mainly for HUD/diagnostic reads.
func (c *Controller) Blender() *blend.Blender { return c.blender }

// SetRegistry swaps in a rebuilt registry, for live scene reload. Must be
// called from the tick thread. Occupancy re-resolves by name on the next
// Tick: if the camera now sits in a differently-named volume (or none), that
// counts as a normal transition.
func (c *Controller) SetRegistry(reg *volume.Registry) {
	c.reg = reg
	if c.lastName != "" {
		if v, ok := reg.Lookup(c.lastName); ok {
			c.lastVolume = v
		}
	}
}

// Tick runs one update: containment check, transition detection, blend step.
// Called once per frame by the host loop.
func (c *Controller) Tick() {
	if c.active {
		pos := c.cam.WorldPosition()
		candidate := c.reg.FindActiveVolume(pos)

		name := ""
		if candidate != nil {
			name = candidate.Name()
		}

		if name != c.lastName {
			if candidate != nil {
				c.enterVolume(candidate)
			} else {
				c.exitVolume()
			}
		}
		c.lastName = name
		if candidate != nil {
			c.lastVolume = candidate
		} else {
			c.lastVolume = nil
		}
	}

	// The blend step runs every tick, transitions or not, active or not, so
	// entry/exit fades keep progressing long after the crossing frame.
	c.stepBlend()
}

func (c *Controller) enterVolume(v *volume.TriggerVolume) {
	log.Printf("controller: camera entered volume %q", v.Name())

	if !v.HasTargets() {
		// Tagged as a trigger but no parameter metadata attached. Keep the
		// targets already in effect.
		log.Printf("controller: volume %q has no parameter targets, keeping current targets", v.Name())
	} else {
		for p, val := range v.Targets() {
			if !c.blender.SetTarget(p, val) {
				log.Printf("controller: volume %q sets untracked parameter %q, ignored", v.Name(), p)
			}
		}
	}

	if c.hooks != nil {
		c.hooks.VolumeEntered(v)
	}
}

func (c *Controller) exitVolume() {
	log.Printf("controller: camera left volume %q", c.lastName)

	// Exit resets every tracked parameter, not just the ones the exited
	// volume set.
	c.blender.ResetAllToBaseline()

	if c.hooks != nil && c.lastVolume != nil {
		c.hooks.VolumeExited(c.lastVolume)
	}
}

func (c *Controller) stepBlend() {
	current := make(map[blend.Param]float64)
	for _, p := range c.blender.Params() {
		current[p] = c.cam.Parameter(p)
	}
	for p, v := range c.blender.Step(current) {
		c.cam.SetParameter(p, v)
	}
}
