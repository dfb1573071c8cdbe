package main

import (
	"github.com/ideenkultivierung/volumefx/blend"
	"github.com/ideenkultivierung/volumefx/geom"
)

// FlyCamera is the demo's stand-in for a host camera service: a free-moving
// world position plus the post-processing parameters the controller reads
// and writes.
type FlyCamera struct {
	pos    geom.Vec3
	params map[blend.Param]float64
}

func NewFlyCamera(start geom.Vec3) *FlyCamera {
	return &FlyCamera{
		pos: start,
		params: map[blend.Param]float64{
			blend.ParamExposure:   1.0,
			blend.ParamSaturation: 1.0,
		},
	}
}

func (c *FlyCamera) WorldPosition() geom.Vec3 { return c.pos }

func (c *FlyCamera) Parameter(p blend.Param) float64 { return c.params[p] }

func (c *FlyCamera) SetParameter(p blend.Param, v float64) { c.params[p] = v }

// Move translates the camera by the given world-space delta.
func (c *FlyCamera) Move(delta geom.Vec3) { c.pos = c.pos.Add(delta) }
