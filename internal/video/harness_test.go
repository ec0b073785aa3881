package video

import "fmt"

// call is one recorded backend invocation.
type call struct {
	op      string
	page    int
	src     int
	color   Color
	pt      Point
	verts   []Point
	ch      byte
	num     int
	vscroll int
	w, h    int
	format  PixelFormat
	pal     Palette
}

// fakeBackend records every command it receives.
type fakeBackend struct {
	calls []call
	mode  RenderMode
}

func (fb *fakeBackend) ClearPage(page int, color Color) {
	fb.calls = append(fb.calls, call{op: "clear", page: page, color: color})
}

func (fb *fakeBackend) CopyPage(dst, src int) {
	fb.calls = append(fb.calls, call{op: "copy", page: dst, src: src})
}

func (fb *fakeBackend) CopyPageScrolled(dst, src, vscroll int) {
	fb.calls = append(fb.calls, call{op: "copy_scrolled", page: dst, src: src, vscroll: vscroll})
}

func (fb *fakeBackend) PresentPage(page int) {
	fb.calls = append(fb.calls, call{op: "present", page: page})
}

func (fb *fakeBackend) SetPalette(pal *Palette) {
	fb.calls = append(fb.calls, call{op: "palette", pal: *pal})
}

func (fb *fakeBackend) SetFont(buf []byte, w, h int) {
	fb.calls = append(fb.calls, call{op: "font", w: w, h: h, num: len(buf)})
}

func (fb *fakeBackend) SetSpriteAtlas(buf []byte, w, h, cols, rows int) {
	fb.calls = append(fb.calls, call{op: "atlas", w: w, h: h, num: cols * rows})
}

func (fb *fakeBackend) AddPoint(page int, color Color, pt Point) {
	fb.calls = append(fb.calls, call{op: "point", page: page, color: color, pt: pt})
}

func (fb *fakeBackend) AddQuadStrip(page int, color Color, qs *QuadStrip) {
	verts := append([]Point(nil), qs.Vertices...)
	fb.calls = append(fb.calls, call{op: "quad", page: page, color: color, verts: verts})
}

func (fb *fakeBackend) AddChar(page int, color Color, ch byte, pt Point) {
	fb.calls = append(fb.calls, call{op: "char", page: page, color: color, ch: ch, pt: pt})
}

func (fb *fakeBackend) AddSprite(page, num int, pt Point) {
	fb.calls = append(fb.calls, call{op: "sprite", page: page, num: num, pt: pt})
}

func (fb *fakeBackend) AddBitmap(page int, buf []byte, w, h int, format PixelFormat) {
	fb.calls = append(fb.calls, call{op: "bitmap", page: page, w: w, h: h, format: format, num: len(buf)})
}

func (fb *fakeBackend) RenderMode() RenderMode {
	return fb.mode
}

func (fb *fakeBackend) ops(op string) []call {
	var out []call
	for _, c := range fb.calls {
		if c.op == op {
			out = append(out, c)
		}
	}
	return out
}

func (fb *fakeBackend) reset() {
	fb.calls = nil
}

// fakeResource serves fixed data for one release.
type fakeResource struct {
	dt      DataType
	pal     []byte
	strs    map[uint16]string
	parts   [][]byte
	lookups []uint16
}

func (fr *fakeResource) DataType() DataType  { return fr.dt }
func (fr *fakeResource) PaletteData() []byte { return fr.pal }

func (fr *fakeResource) String(id uint16) (string, bool) {
	fr.lookups = append(fr.lookups, id)
	s, ok := fr.strs[id]
	return s, ok
}

func (fr *fakeResource) PartVertices(part int) []byte {
	if part < 0 || part >= len(fr.parts) {
		return nil
	}
	return fr.parts[part]
}

// newTestVideo builds an initialised Video over fakes.
func newTestVideo(dt DataType, opts ...Option) (*Video, *fakeBackend, *fakeResource) {
	res := &fakeResource{dt: dt, strs: map[uint16]string{}}
	be := &fakeBackend{mode: RenderGL}
	v := New(res, be, opts...)
	v.Init()
	be.reset()
	return v, be, res
}

func (c call) String() string {
	return fmt.Sprintf("%s page=%d color=%d pt=%v", c.op, c.page, c.color, c.pt)
}
