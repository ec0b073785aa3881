package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/term"

	"github.com/Garsondee/rawvideo/internal/assets"
	"github.com/Garsondee/rawvideo/internal/display"
	"github.com/Garsondee/rawvideo/internal/video"
)

type runResult struct {
	dataType video.DataType
	mode     video.RenderMode
	frames   int
	rec      *display.Recorder
	screen   *display.Screen
	vid      *video.Video
}

func main() {
	cfg := assets.DefaultConfig()
	cfg.RegisterFlags(flag.CommandLine)
	var frames int
	var pngPath string
	var pngScale int
	var copyReport bool
	var original bool
	var verbose bool
	var preview bool
	flag.IntVar(&frames, "frames", 1, "number of times the scene is rendered")
	flag.StringVar(&pngPath, "png", "", "write the presented frame to this PNG file")
	flag.IntVar(&pngScale, "png-scale", 2, "PNG upscale factor")
	flag.BoolVar(&copyReport, "copy", false, "copy the report to the clipboard")
	flag.BoolVar(&original, "original", false, "original render mode (no head sprites)")
	flag.BoolVar(&verbose, "v", false, "log video diagnostics to stderr")
	flag.BoolVar(&preview, "preview", term.IsTerminal(int(os.Stdout.Fd())), "print an ASCII preview of the presented frame")
	flag.Parse()

	if frames <= 0 {
		fmt.Println("error: -frames must be > 0")
		return
	}
	if pngScale <= 0 {
		fmt.Println("error: -png-scale must be > 0")
		return
	}
	if verbose {
		video.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	bundle, scene, err := cfg.Load()
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	mode := video.RenderGL
	if original {
		mode = video.RenderOriginal
	}

	res := runScene(bundle, scene, mode, frames)
	defer res.vid.Close()
	report := buildReport(res)
	fmt.Print(report)
	if f := res.screen.Frame(); preview && f != nil {
		fmt.Printf("\n--- Preview ---\n%s", asciiPreview(f, previewWidth()))
	}

	if pngPath != "" {
		frame := res.screen.Frame()
		if frame == nil {
			fmt.Println("error: nothing was presented")
			return
		}
		if err := writePNG(pngPath, scaleFrame(frame, pngScale)); err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
		fmt.Printf("wrote %s\n", pngPath)
	}
	if copyReport {
		if err := clipboard.WriteAll(report); err != nil {
			fmt.Printf("error: clipboard: %v\n", err)
			return
		}
		fmt.Println("report copied to clipboard")
	}
}

// runScene renders the scene frames times into a Screen behind a Recorder.
func runScene(res video.Resource, sc *assets.Scene, mode video.RenderMode, frames int) *runResult {
	screen := display.NewScreen(mode)
	rec := display.NewRecorder(screen)
	vid := video.New(res, rec)
	vid.Init()
	for i := 0; i < frames; i++ {
		sc.Render(vid)
	}
	return &runResult{
		dataType: res.DataType(),
		mode:     mode,
		frames:   frames,
		rec:      rec,
		screen:   screen,
		vid:      vid,
	}
}

func modeName(m video.RenderMode) string {
	if m == video.RenderOriginal {
		return "original"
	}
	return "gl"
}

func buildReport(r *runResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== Headless Render Report ===\n")
	fmt.Fprintf(&b, "type=%s mode=%s frames=%d heads=%v\n", r.dataType, modeName(r.mode), r.frames, r.vid.HeadsEnabled())

	work, front, back := r.vid.Pages()
	cur, pending := r.vid.Palette()
	shown, presents := r.screen.Presented()
	fmt.Fprintf(&b, "pages: work=%d front=%d back=%d\n", work, front, back)
	fmt.Fprintf(&b, "palette: current=%s pending=%s\n", paletteName(cur), paletteName(pending))
	fmt.Fprintf(&b, "presented: page=%d count=%d\n", shown, presents)
	if f := r.screen.Frame(); f != nil {
		fmt.Fprintf(&b, "frame_colors=%d\n", countColors(f))
	}

	fmt.Fprintf(&b, "\n--- Commands ---\n")
	b.WriteString(r.rec.Report())

	dl := r.vid.Diagnostics()
	fmt.Fprintf(&b, "\n--- Diagnostics (%d) ---\n", len(dl.Entries()))
	b.WriteString(dl.Format())
	return b.String()
}

func paletteName(id uint8) string {
	if id == 0xFF {
		return "none"
	}
	return fmt.Sprintf("%d", id)
}

func countColors(img *image.RGBA) int {
	seen := map[[3]uint8]struct{}{}
	for i := 0; i < len(img.Pix); i += 4 {
		seen[[3]uint8{img.Pix[i], img.Pix[i+1], img.Pix[i+2]}] = struct{}{}
	}
	return len(seen)
}

// scaleFrame upscales img by n with nearest-neighbour sampling.
func scaleFrame(img *image.RGBA, n int) *image.RGBA {
	if n <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*n, b.Dy()*n))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// previewWidth fits the preview to the terminal, capped at one column per pixel.
func previewWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return min(w-1, video.ScreenWidth)
}

const previewRamp = " .:-=+*#%@"

// asciiPreview renders img with one character per cell of cols columns. Cells
// are twice as tall as wide to match terminal glyphs.
func asciiPreview(img *image.RGBA, cols int) string {
	b := img.Bounds()
	if cols <= 0 || b.Empty() {
		return ""
	}
	cw := max(b.Dx()/cols, 1)
	ch := cw * 2
	var sb strings.Builder
	for y := b.Min.Y; y+ch <= b.Max.Y; y += ch {
		for x := b.Min.X; x+cw <= b.Max.X; x += cw {
			var sum int
			for yy := y; yy < y+ch; yy++ {
				for xx := x; xx < x+cw; xx++ {
					c := img.RGBAAt(xx, yy)
					sum += (299*int(c.R) + 587*int(c.G) + 114*int(c.B)) / 1000
				}
			}
			lum := sum / (cw * ch)
			sb.WriteByte(previewRamp[lum*(len(previewRamp)-1)/255])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
