package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/rawvideo/internal/assets"
	"github.com/Garsondee/rawvideo/internal/display"
	"github.com/Garsondee/rawvideo/internal/video"
)

func main() {
	cfg := assets.DefaultConfig()
	cfg.RegisterFlags(flag.CommandLine)
	var scale int
	var original bool
	var verbose bool
	flag.IntVar(&scale, "scale", 3, "window scale factor")
	flag.BoolVar(&original, "original", false, "original render mode (no head sprites)")
	flag.BoolVar(&verbose, "v", false, "log video diagnostics to stderr")
	flag.Parse()

	if verbose {
		video.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	bundle, scene, err := cfg.Load()
	if err != nil {
		log.Fatal(err)
	}

	mode := video.RenderGL
	if original {
		mode = video.RenderOriginal
	}
	screen := display.NewScreen(mode)
	rec := display.NewRecorder(screen)
	vid := video.New(bundle, rec, video.WithDiagLog(video.NewDiagLog(256)))
	defer vid.Close()
	vid.Init()
	if bundle.PaletteData() != nil {
		vid.SetPaletteNow(scene.Palette)
	}

	viewer := display.NewViewer(vid, screen, scene.Render, display.WithRecorder(rec), display.WithScale(scale))
	w, h := viewer.Layout(0, 0)
	ebiten.SetWindowTitle("rawvideo " + bundle.DataType().String())
	ebiten.SetWindowSize(w, h)
	if err := ebiten.RunGame(viewer); err != nil {
		log.Fatal(err)
	}
}
