package main

import (
	"fmt"
	"image/color"

	"golang.org/x/image/font/basicfont"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/ideenkultivierung/volumefx/blend"
)

// HUD is a small corner panel showing the live post-processing state. Built
// with colored nine-slices and the built-in basic font, so no theme assets
// are needed.
type HUD struct {
	ui *ebitenui.UI

	volumeLabel     *widget.Text
	exposureLabel   *widget.Text
	saturationLabel *widget.Text
	stateLabel      *widget.Text
}

func NewHUD() *HUD {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 170})

	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	var face ebtext.Face = goFace

	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	gray := color.NRGBA{R: 0xb0, G: 0xb0, B: 0xb0, A: 0xff}

	newLabel := func(c color.NRGBA) *widget.Text {
		return widget.NewText(
			widget.TextOpts.Text("", &face, c),
			widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionStart})),
		)
	}

	h := &HUD{
		volumeLabel:     newLabel(white),
		exposureLabel:   newLabel(white),
		saturationLabel: newLabel(white),
		stateLabel:      newLabel(gray),
	}

	help := widget.NewText(
		widget.TextOpts.Text("WASD move  R/F up/down  P toggle  C copy", &face, gray),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionStart})),
	)

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(4),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 10, Bottom: 10, Left: 12, Right: 12}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionEnd,
				VerticalPosition:   widget.AnchorLayoutPositionStart,
			}),
		),
	)
	panel.AddChild(h.volumeLabel)
	panel.AddChild(h.exposureLabel)
	panel.AddChild(h.saturationLabel)
	panel.AddChild(h.stateLabel)
	panel.AddChild(help)

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)

	h.ui = &ebitenui.UI{Container: root}
	return h
}

// Refresh updates the labels from the live controller state. Called once per
// tick before drawing.
func (h *HUD) Refresh(g *Game) {
	volumeName := "(outside)"
	if v := g.ctrl.ActiveVolume(); v != nil {
		volumeName = v.Name()
	}
	h.volumeLabel.Label = "volume: " + volumeName

	h.exposureLabel.Label = paramLine("exposure", g, blend.ParamExposure)
	h.saturationLabel.Label = paramLine("saturation", g, blend.ParamSaturation)

	if g.ctrl.Active() {
		h.stateLabel.Label = fmt.Sprintf("controller: active   camera: %s", g.cam.WorldPosition())
	} else {
		h.stateLabel.Label = fmt.Sprintf("controller: PAUSED   camera: %s", g.cam.WorldPosition())
	}

	h.ui.Update()
}

func paramLine(name string, g *Game, p blend.Param) string {
	target, _ := g.ctrl.Blender().Target(p)
	return fmt.Sprintf("%s: %.3f -> %.3f", name, g.cam.Parameter(p), target)
}

func (h *HUD) Draw(screen *ebiten.Image) {
	h.ui.Draw(screen)
}
