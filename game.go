package main

import (
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.design/x/clipboard"

	"github.com/ideenkultivierung/volumefx/blend"
	"github.com/ideenkultivierung/volumefx/controller"
	"github.com/ideenkultivierung/volumefx/geom"
	"github.com/ideenkultivierung/volumefx/scene"
	"github.com/ideenkultivierung/volumefx/script"
	"github.com/ideenkultivierung/volumefx/volume"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	// top-down view: pixels per world unit on the x/z plane
	viewScale = 12.0

	moveSpeed = 0.25 // world units per tick
)

type Game struct {
	frames int
	debug  bool

	scenePath   string
	clipboardOK bool

	cam     *FlyCamera
	ctrl    *controller.Controller
	reg     *volume.Registry
	hooks   *script.HookRunner
	watcher *scene.Watcher

	hud   *HUD
	world *ebiten.Image
}

func NewGame(scenePath string, debug, clipboardOK bool) (*Game, error) {
	s, err := scene.Load(scenePath)
	if err != nil {
		return nil, err
	}
	reg, err := volume.NewRegistry(s.Definitions())
	if err != nil {
		return nil, err
	}

	sceneDir := filepath.Dir(scenePath)
	cam := NewFlyCamera(geom.NewVec3(-10, 1, 0))
	ctrl := controller.New(cam, reg)

	hooks := script.NewHookRunner(sceneDir)
	ctrl.SetHooks(hooks)

	watchDirs := []string{sceneDir}
	if scriptsDir := filepath.Join(sceneDir, "scripts"); dirExists(scriptsDir) {
		watchDirs = append(watchDirs, scriptsDir)
	}
	watcher, err := scene.NewWatcher(watchDirs...)
	if err != nil {
		log.Printf("scene watch disabled: %v", err)
		watcher = nil
	}

	return &Game{
		debug:       debug,
		scenePath:   scenePath,
		clipboardOK: clipboardOK,
		cam:         cam,
		ctrl:        ctrl,
		reg:         reg,
		hooks:       hooks,
		watcher:     watcher,
		hud:         NewHUD(),
		world:       ebiten.NewImage(baseWidth, baseHeight),
	}, nil
}

func (g *Game) Update() error {
	g.frames++

	g.pollReload()
	g.handleInput()

	g.ctrl.Tick()

	g.hud.Refresh(g)
	return nil
}

// pollReload drains at most one watcher event per tick; reloads happen on
// the tick thread so the controller never sees a registry swap mid-update.
func (g *Game) pollReload() {
	if g.watcher == nil {
		return
	}
	select {
	case path, ok := <-g.watcher.Events:
		if !ok {
			g.watcher = nil
			return
		}
		g.reload(path)
	case err, ok := <-g.watcher.Errors:
		if ok {
			log.Printf("scene watch: %v", err)
		}
	default:
	}
}

func (g *Game) reload(changed string) {
	log.Printf("reloading after change to %s", changed)

	if strings.HasSuffix(changed, ".tengo") {
		g.hooks.InvalidateAll()
		return
	}

	s, err := scene.Load(g.scenePath)
	if err != nil {
		log.Printf("reload failed, keeping previous scene: %v", err)
		return
	}
	reg, err := volume.NewRegistry(s.Definitions())
	if err != nil {
		log.Printf("reload failed, keeping previous scene: %v", err)
		return
	}
	g.reg = reg
	g.ctrl.SetRegistry(reg)
	g.hooks.InvalidateAll()
}

func (g *Game) handleInput() {
	var delta geom.Vec3
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		delta.X -= moveSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		delta.X += moveSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		delta.Z -= moveSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		delta.Z += moveSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyR) {
		delta.Y += moveSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyF) {
		delta.Y -= moveSpeed
	}
	g.cam.Move(delta)

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.ctrl.SetActive(!g.ctrl.Active())
		log.Printf("controller active: %v", g.ctrl.Active())
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyC) && g.clipboardOK {
		pos := g.cam.WorldPosition()
		state := fmt.Sprintf("camera %s exposure=%.3f saturation=%.3f",
			pos,
			g.cam.Parameter(blend.ParamExposure),
			g.cam.Parameter(blend.ParamSaturation))
		clipboard.Write(clipboard.FmtText, []byte(state))
		log.Printf("copied to clipboard: %s", state)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.drawWorld()

	// Apply the blended camera parameters to the world view: exposure as an
	// RGB gain, saturation through HSV.
	op := &ebiten.DrawImageOptions{}
	var cm ebiten.ColorM
	cm.ChangeHSV(0, g.cam.Parameter(blend.ParamSaturation), 1)
	exposure := g.cam.Parameter(blend.ParamExposure)
	cm.Scale(exposure, exposure, exposure, 1)
	op.ColorM = cm
	screen.DrawImage(g.world, op)

	// HUD and overlays stay unprocessed.
	g.hud.Draw(screen)

	if g.debug {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("Frames: %d    FPS: %.2f    TPS: %.2f",
			g.frames, ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
}

func (g *Game) drawWorld() {
	g.world.Fill(color.NRGBA{R: 0x20, G: 0x24, B: 0x2c, A: 0xff})

	// x/z grid lines every 5 world units
	grid := color.NRGBA{R: 0x2c, G: 0x32, B: 0x3c, A: 0xff}
	for x := -50.0; x <= 50.0; x += 5 {
		sx, _ := worldToScreen(x, 0)
		vector.StrokeLine(g.world, sx, 0, sx, baseHeight, 1, grid, false)
	}
	for z := -30.0; z <= 30.0; z += 5 {
		_, sz := worldToScreen(0, z)
		vector.StrokeLine(g.world, 0, sz, baseWidth, sz, 1, grid, false)
	}

	active := g.ctrl.ActiveVolume()
	for _, v := range g.reg.Volumes() {
		b := v.Bounds()
		x0, z0 := worldToScreen(b.Min.X, b.Min.Z)
		x1, z1 := worldToScreen(b.Max.X, b.Max.Z)

		fill := color.NRGBA{R: 0x3a, G: 0x5f, B: 0x8a, A: 0x50}
		line := color.NRGBA{R: 0x6a, G: 0x9f, B: 0xda, A: 0xff}
		if active != nil && active.Name() == v.Name() {
			fill = color.NRGBA{R: 0x3a, G: 0x8a, B: 0x4f, A: 0x70}
			line = color.NRGBA{R: 0x6a, G: 0xda, B: 0x8f, A: 0xff}
		}
		vector.DrawFilledRect(g.world, x0, z0, x1-x0, z1-z0, fill, false)
		vector.StrokeRect(g.world, x0, z0, x1-x0, z1-z0, 2, line, false)
		ebitenutil.DebugPrintAt(g.world, v.Name(), int(x0)+4, int(z0)+4)
	}

	// camera marker
	pos := g.cam.WorldPosition()
	cx, cz := worldToScreen(pos.X, pos.Z)
	vector.DrawFilledCircle(g.world, cx, cz, 6, color.NRGBA{R: 0xff, G: 0xd8, B: 0x40, A: 0xff}, true)
}

func worldToScreen(x, z float64) (float32, float32) {
	return float32(baseWidth/2 + x*viewScale), float32(baseHeight/2 + z*viewScale)
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
