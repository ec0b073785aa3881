package display

import (
	"fmt"
	"image/color"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/Garsondee/rawvideo/internal/video"
)

// pagePresented selects the last presented frame instead of a raw page.
const pagePresented = -1

// RenderFunc issues one frame worth of draw requests.
type RenderFunc func(v *video.Video)

// Viewer is an ebiten Game showing the pages of a Screen.
//
// Keys: Tab toggles the diagnostics panel, H toggles head sprites, C copies
// the command report to the clipboard, 0 shows the presented frame, 1-4 show
// pages 0-3 directly, Escape quits.
type Viewer struct {
	vid    *video.Video
	screen *Screen
	rec    *Recorder
	render RenderFunc
	scale  int

	img       *ebiten.Image
	notes     *NoteLog
	diagSeq   int
	showNotes bool
	heads     bool
	page      int
	dirty     bool
	prevKeys  map[ebiten.Key]bool

	copyText func(string) error
}

// ViewerOption configures a Viewer.
type ViewerOption func(*Viewer)

// WithRecorder enables the C key report export. rec should be the backend the
// Video draws into, forwarding to the viewer's Screen.
func WithRecorder(rec *Recorder) ViewerOption {
	return func(vw *Viewer) {
		vw.rec = rec
	}
}

// WithScale sets the integer window upscale (default 3).
func WithScale(n int) ViewerOption {
	return func(vw *Viewer) {
		if n > 0 {
			vw.scale = n
		}
	}
}

// NewViewer creates a Viewer. render is called once before the first frame and
// again after every toggle that changes the output.
func NewViewer(v *video.Video, s *Screen, render RenderFunc, opts ...ViewerOption) *Viewer {
	vw := &Viewer{
		vid:       v,
		screen:    s,
		render:    render,
		scale:     3,
		notes:     NewNoteLog(),
		showNotes: true,
		heads:     true,
		page:      pagePresented,
		dirty:     true,
		prevKeys:  make(map[ebiten.Key]bool),
		copyText:  clipboard.WriteAll,
	}
	for _, o := range opts {
		o(vw)
	}
	return vw
}

// Notes returns the viewer's note log.
func (vw *Viewer) Notes() *NoteLog {
	return vw.notes
}

func (vw *Viewer) Update() error {
	if err := vw.handleInput(); err != nil {
		return err
	}
	vw.refresh()
	return nil
}

// refresh re-renders when needed and moves new diagnostics into the notes.
func (vw *Viewer) refresh() {
	if vw.dirty {
		if vw.rec != nil {
			vw.rec.Reset()
		}
		vw.render(vw.vid)
		vw.dirty = false
	}
	dl := vw.vid.Diagnostics()
	for _, e := range dl.Since(vw.diagSeq) {
		vw.notes.Add(e.Seq, e.Category, e.Key+" "+e.Value)
	}
	vw.diagSeq = dl.Seq()
}

var viewerKeys = []ebiten.Key{
	ebiten.KeyTab, ebiten.KeyH, ebiten.KeyC, ebiten.KeyEscape,
	ebiten.Key0, ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4,
}

func (vw *Viewer) handleInput() error {
	currentKeys := map[ebiten.Key]bool{}
	for _, k := range viewerKeys {
		currentKeys[k] = ebiten.IsKeyPressed(k)
	}
	defer func() { vw.prevKeys = currentKeys }()

	for _, k := range viewerKeys {
		if currentKeys[k] && !vw.prevKeys[k] {
			if err := vw.handleKey(k); err != nil {
				return err
			}
		}
	}
	return nil
}

// handleKey applies a single key press.
func (vw *Viewer) handleKey(k ebiten.Key) error {
	switch k {
	case ebiten.KeyEscape:
		return ebiten.Termination
	case ebiten.KeyTab:
		vw.showNotes = !vw.showNotes
	case ebiten.KeyH:
		vw.heads = !vw.heads
		vw.vid.SetDisplayHeads(vw.heads)
		vw.dirty = true
		vw.notes.Add(vw.diagSeq, "viewer", fmt.Sprintf("heads=%v active=%v", vw.heads, vw.vid.HeadsEnabled()))
	case ebiten.KeyC:
		vw.copyReport()
	case ebiten.Key0:
		vw.page = pagePresented
	case ebiten.Key1:
		vw.page = 0
	case ebiten.Key2:
		vw.page = 1
	case ebiten.Key3:
		vw.page = 2
	case ebiten.Key4:
		vw.page = 3
	}
	return nil
}

func (vw *Viewer) copyReport() {
	if vw.rec == nil {
		vw.notes.Add(vw.diagSeq, "viewer", "no recorder attached")
		return
	}
	if err := vw.copyText(vw.rec.Report()); err != nil {
		vw.notes.Add(vw.diagSeq, "viewer", "clipboard: "+err.Error())
		return
	}
	vw.notes.Add(vw.diagSeq, "viewer", fmt.Sprintf("copied %d commands", len(vw.rec.Commands())))
}

func (vw *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)

	frame := vw.screen.Frame()
	label := "presented"
	if vw.page != pagePresented {
		frame = vw.screen.Snapshot(vw.page)
		label = fmt.Sprintf("page %d", vw.page)
	}
	if frame != nil {
		if vw.img == nil {
			vw.img = ebiten.NewImage(video.ScreenWidth, video.ScreenHeight)
		}
		vw.img.WritePixels(frame.Pix)
		var op ebiten.DrawImageOptions
		op.GeoM.Scale(float64(vw.scale), float64(vw.scale))
		screen.DrawImage(vw.img, &op)
	}

	work, front, back := vw.vid.Pages()
	cur, _ := vw.vid.Palette()
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s  work=%d front=%d back=%d pal=%d heads=%v",
		label, work, front, back, cur, vw.vid.HeadsEnabled()), 4, 2)

	if vw.showNotes {
		w, h := vw.Layout(0, 0)
		vw.notes.Draw(screen, 0, h/2, w, h/2)
	}
}

func (vw *Viewer) Layout(_, _ int) (int, int) {
	return video.ScreenWidth * vw.scale, video.ScreenHeight * vw.scale
}
