package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.design/x/clipboard"
)

func main() {
	scenePath := flag.String("scene", "scenes/example.yaml", "scene description file")
	debug := flag.Bool("debug", false, "enable debug overlay")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	clipboardOK := true
	if err := clipboard.Init(); err != nil {
		log.Printf("clipboard unavailable: %v", err)
		clipboardOK = false
	}

	game, err := NewGame(*scenePath, *debug, clipboardOK)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("volumefx")

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
