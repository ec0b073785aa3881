package display

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Garsondee/rawvideo/internal/video"
)

// Op identifies the backend call a Command was recorded from.
type Op int

const (
	OpClear Op = iota
	OpCopy
	OpCopyScrolled
	OpPresent
	OpPalette
	OpFont
	OpSpriteAtlas
	OpPoint
	OpQuadStrip
	OpChar
	OpSprite
	OpBitmap
)

var opNames = [...]string{
	OpClear:        "clear",
	OpCopy:         "copy",
	OpCopyScrolled: "copy_scrolled",
	OpPresent:      "present",
	OpPalette:      "palette",
	OpFont:         "font",
	OpSpriteAtlas:  "sprite_atlas",
	OpPoint:        "point",
	OpQuadStrip:    "quad_strip",
	OpChar:         "char",
	OpSprite:       "sprite",
	OpBitmap:       "bitmap",
}

func (o Op) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return "unknown"
	}
	return opNames[o]
}

// Command is one recorded backend call. Only the fields relevant to Op are set.
type Command struct {
	Op      Op
	Page    int
	Src     int
	Color   video.Color
	Points  []video.Point
	Char    byte
	Num     int
	VScroll int
	W, H    int
	Format  video.PixelFormat
	Palette video.Palette
}

func (c Command) String() string {
	switch c.Op {
	case OpClear:
		return fmt.Sprintf("clear      page=%d color=0x%02X", c.Page, c.Color)
	case OpCopy:
		return fmt.Sprintf("copy       page=%d src=%d", c.Page, c.Src)
	case OpCopyScrolled:
		return fmt.Sprintf("copy       page=%d src=%d vscroll=%d", c.Page, c.Src, c.VScroll)
	case OpPresent:
		return fmt.Sprintf("present    page=%d", c.Page)
	case OpPalette:
		return fmt.Sprintf("palette    first=#%02X%02X%02X", c.Palette[0].R, c.Palette[0].G, c.Palette[0].B)
	case OpFont:
		if c.W == 0 {
			return "font       built-in"
		}
		return fmt.Sprintf("font       %dx%d", c.W, c.H)
	case OpSpriteAtlas:
		return fmt.Sprintf("atlas      %dx%d cells=%d", c.W, c.H, c.Num)
	case OpPoint:
		return fmt.Sprintf("point      page=%d color=0x%02X at=%v", c.Page, c.Color, c.Points[0])
	case OpQuadStrip:
		return fmt.Sprintf("quad_strip page=%d color=0x%02X n=%d %v", c.Page, c.Color, len(c.Points), c.Points)
	case OpChar:
		return fmt.Sprintf("char       page=%d color=0x%02X %q at=%v", c.Page, c.Color, c.Char, c.Points[0])
	case OpSprite:
		return fmt.Sprintf("sprite     page=%d num=%d at=%v", c.Page, c.Num, c.Points[0])
	case OpBitmap:
		return fmt.Sprintf("bitmap     page=%d %dx%d %v", c.Page, c.W, c.H, c.Format)
	}
	return c.Op.String()
}

// Recorder is a Backend that keeps every command it receives. When Next is set
// each command is forwarded to it after being recorded.
type Recorder struct {
	Next video.Backend
	Mode video.RenderMode

	commands []Command
}

// NewRecorder creates a Recorder forwarding to next (may be nil).
func NewRecorder(next video.Backend) *Recorder {
	return &Recorder{Next: next, Mode: video.RenderGL}
}

func (r *Recorder) add(c Command) {
	r.commands = append(r.commands, c)
}

func (r *Recorder) ClearPage(page int, color video.Color) {
	r.add(Command{Op: OpClear, Page: page, Color: color})
	if r.Next != nil {
		r.Next.ClearPage(page, color)
	}
}

func (r *Recorder) CopyPage(dst, src int) {
	r.add(Command{Op: OpCopy, Page: dst, Src: src})
	if r.Next != nil {
		r.Next.CopyPage(dst, src)
	}
}

func (r *Recorder) CopyPageScrolled(dst, src, vscroll int) {
	r.add(Command{Op: OpCopyScrolled, Page: dst, Src: src, VScroll: vscroll})
	if r.Next != nil {
		r.Next.CopyPageScrolled(dst, src, vscroll)
	}
}

func (r *Recorder) PresentPage(page int) {
	r.add(Command{Op: OpPresent, Page: page})
	if r.Next != nil {
		r.Next.PresentPage(page)
	}
}

func (r *Recorder) SetPalette(pal *video.Palette) {
	r.add(Command{Op: OpPalette, Palette: *pal})
	if r.Next != nil {
		r.Next.SetPalette(pal)
	}
}

func (r *Recorder) SetFont(buf []byte, w, h int) {
	r.add(Command{Op: OpFont, W: w, H: h, Num: len(buf)})
	if r.Next != nil {
		r.Next.SetFont(buf, w, h)
	}
}

func (r *Recorder) SetSpriteAtlas(buf []byte, w, h, cols, rows int) {
	r.add(Command{Op: OpSpriteAtlas, W: w, H: h, Num: cols * rows})
	if r.Next != nil {
		r.Next.SetSpriteAtlas(buf, w, h, cols, rows)
	}
}

func (r *Recorder) AddPoint(page int, color video.Color, pt video.Point) {
	r.add(Command{Op: OpPoint, Page: page, Color: color, Points: []video.Point{pt}})
	if r.Next != nil {
		r.Next.AddPoint(page, color, pt)
	}
}

func (r *Recorder) AddQuadStrip(page int, color video.Color, qs *video.QuadStrip) {
	pts := append([]video.Point(nil), qs.Vertices...)
	r.add(Command{Op: OpQuadStrip, Page: page, Color: color, Points: pts})
	if r.Next != nil {
		r.Next.AddQuadStrip(page, color, qs)
	}
}

func (r *Recorder) AddChar(page int, color video.Color, ch byte, pt video.Point) {
	r.add(Command{Op: OpChar, Page: page, Color: color, Char: ch, Points: []video.Point{pt}})
	if r.Next != nil {
		r.Next.AddChar(page, color, ch, pt)
	}
}

func (r *Recorder) AddSprite(page, num int, pt video.Point) {
	r.add(Command{Op: OpSprite, Page: page, Num: num, Points: []video.Point{pt}})
	if r.Next != nil {
		r.Next.AddSprite(page, num, pt)
	}
}

func (r *Recorder) AddBitmap(page int, buf []byte, w, h int, format video.PixelFormat) {
	r.add(Command{Op: OpBitmap, Page: page, W: w, H: h, Num: len(buf), Format: format})
	if r.Next != nil {
		r.Next.AddBitmap(page, buf, w, h, format)
	}
}

// RenderMode reports the mode of Next, or Mode when recording standalone.
func (r *Recorder) RenderMode() video.RenderMode {
	if r.Next != nil {
		return r.Next.RenderMode()
	}
	return r.Mode
}

// Commands returns every recorded command, oldest first.
func (r *Recorder) Commands() []Command {
	return r.commands
}

// Filter returns the recorded commands of one kind.
func (r *Recorder) Filter(op Op) []Command {
	var out []Command
	for _, c := range r.commands {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Count returns how many commands of one kind were recorded.
func (r *Recorder) Count(op Op) int {
	n := 0
	for _, c := range r.commands {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Reset drops the recorded commands.
func (r *Recorder) Reset() {
	r.commands = r.commands[:0]
}

// Report renders per-kind totals followed by the full command listing.
func (r *Recorder) Report() string {
	counts := map[Op]int{}
	for _, c := range r.commands {
		counts[c.Op]++
	}
	ops := make([]Op, 0, len(counts))
	for op := range counts {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })

	var b strings.Builder
	fmt.Fprintf(&b, "commands=%d\n", len(r.commands))
	for _, op := range ops {
		fmt.Fprintf(&b, "  %-14s %d\n", op, counts[op])
	}
	for i, c := range r.commands {
		fmt.Fprintf(&b, "%4d %s\n", i, c)
	}
	return b.String()
}
