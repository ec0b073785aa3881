package display

import (
	"image"
	"image/color"

	"github.com/Garsondee/rawvideo/internal/video"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	screenW = video.ScreenWidth
	screenH = video.ScreenHeight
	cellW   = 8
	cellH   = 8
)

// page is one physical drawing surface. Indexed pixels are always present; a
// true-colour bitmap drawn into the page becomes its backdrop and shows through
// wherever no primitive has been painted since.
type page struct {
	idx      []uint8
	painted  []bool
	backdrop *image.RGBA
	sprites  []spriteDraw
}

type spriteDraw struct {
	num int
	at  video.Point
}

func newPage() page {
	return page{
		idx:     make([]uint8, screenW*screenH),
		painted: make([]bool, screenW*screenH),
	}
}

// Screen is a software Backend rasterizing into four 320x200 indexed pages.
// PresentPage resolves the shown page through the active palette into an RGBA
// frame.
type Screen struct {
	pages [video.NumPages]page
	pal   video.Palette
	mode  video.RenderMode

	font   *image.RGBA
	glyphs [256]*[cellH]uint8

	atlas      *image.RGBA
	atlasCols  int
	atlasRows  int
	frame      *image.RGBA
	shown      int
	presentCnt int
}

// NewScreen creates a Screen reporting mode to the video core. Head sprites are
// only composited outside RenderOriginal.
func NewScreen(mode video.RenderMode) *Screen {
	s := &Screen{mode: mode, shown: -1}
	for i := range s.pages {
		s.pages[i] = newPage()
	}
	return s
}

func (s *Screen) RenderMode() video.RenderMode {
	return s.mode
}

func (s *Screen) ClearPage(num int, c video.Color) {
	p := &s.pages[num]
	v := uint8(c) & 0xF
	for i := range p.idx {
		p.idx[i] = v
		p.painted[i] = false
	}
	p.backdrop = nil
	p.sprites = nil
}

func (s *Screen) CopyPage(dst, src int) {
	if dst == src {
		return
	}
	d, sp := &s.pages[dst], &s.pages[src]
	copy(d.idx, sp.idx)
	copy(d.painted, sp.painted)
	d.backdrop = nil
	if sp.backdrop != nil {
		d.backdrop = image.NewRGBA(sp.backdrop.Rect)
		copy(d.backdrop.Pix, sp.backdrop.Pix)
	}
	d.sprites = append(d.sprites[:0], sp.sprites...)
}

// CopyPageScrolled copies src into dst shifted down by vscroll rows (up when
// negative). Rows of dst not covered by the shifted source keep their content.
func (s *Screen) CopyPageScrolled(dst, src, vscroll int) {
	if dst == src || vscroll <= -screenH || vscroll >= screenH {
		return
	}
	d, sp := &s.pages[dst], &s.pages[src]
	srcY, dstY, rows := 0, vscroll, screenH-vscroll
	if vscroll < 0 {
		srcY, dstY, rows = -vscroll, 0, screenH+vscroll
	}
	so, do, n := srcY*screenW, dstY*screenW, rows*screenW
	copy(d.idx[do:do+n], sp.idx[so:so+n])

	if sp.backdrop == nil && d.backdrop == nil {
		return
	}
	if d.backdrop == nil {
		d.backdrop = image.NewRGBA(image.Rect(0, 0, screenW, screenH))
		for i := range d.painted {
			d.painted[i] = true
		}
	}
	if sp.backdrop != nil {
		r := image.Rect(0, dstY, screenW, dstY+rows)
		xdraw.Copy(d.backdrop, r.Min, sp.backdrop, image.Rect(0, srcY, screenW, srcY+rows), xdraw.Src, nil)
		copy(d.painted[do:do+n], sp.painted[so:so+n])
	} else {
		for i := do; i < do+n; i++ {
			d.painted[i] = true
		}
	}
	for _, sd := range sp.sprites {
		sd.at.Y += vscroll
		d.sprites = append(d.sprites, sd)
	}
}

func (s *Screen) PresentPage(num int) {
	s.frame = s.compose(num)
	s.shown = num
	s.presentCnt++
}

func (s *Screen) SetPalette(pal *video.Palette) {
	s.pal = *pal
}

// SetFont installs an RGBA atlas of 16x16 glyph cells indexed by character
// code. A nil buffer selects the built-in font.
func (s *Screen) SetFont(buf []byte, w, h int) {
	if buf == nil || w < 16 || h < 16 {
		s.font = nil
		return
	}
	s.font = rgbaFrom(buf, w, h)
}

func (s *Screen) SetSpriteAtlas(buf []byte, w, h, cols, rows int) {
	if cols <= 0 || rows <= 0 {
		s.atlas = nil
		return
	}
	s.atlas = rgbaFrom(buf, w, h)
	s.atlasCols, s.atlasRows = cols, rows
}

func (s *Screen) AddPoint(num int, c video.Color, pt video.Point) {
	if pt.X < 0 || pt.X >= screenW || pt.Y < 0 || pt.Y >= screenH {
		return
	}
	s.plot(&s.pages[num], pt.Y*screenW+pt.X, c)
}

func (s *Screen) AddQuadStrip(num int, c video.Color, qs *video.QuadStrip) {
	s.fillQuadStrip(&s.pages[num], c, qs.Vertices)
}

func (s *Screen) AddChar(num int, c video.Color, ch byte, pt video.Point) {
	p := &s.pages[num]
	for gy := 0; gy < cellH; gy++ {
		y := pt.Y + gy
		if y < 0 || y >= screenH {
			continue
		}
		for gx := 0; gx < cellW; gx++ {
			x := pt.X + gx
			if x < 0 || x >= screenW || !s.glyphBit(ch, gx, gy) {
				continue
			}
			s.plot(p, y*screenW+x, c)
		}
	}
}

func (s *Screen) AddSprite(num, n int, pt video.Point) {
	p := &s.pages[num]
	p.sprites = append(p.sprites, spriteDraw{num: n, at: pt})
}

// AddBitmap replaces the page content. Indexed bitmaps become the page's
// palette indices; true-colour ones become its backdrop, scaled to the canvas
// when their size differs.
func (s *Screen) AddBitmap(num int, buf []byte, w, h int, format video.PixelFormat) {
	p := &s.pages[num]
	p.sprites = nil
	for i := range p.painted {
		p.painted[i] = false
	}
	if format == video.FormatCLUT {
		p.backdrop = nil
		for i := range p.idx {
			p.idx[i] = 0
		}
		for y := 0; y < h && y < screenH; y++ {
			for x := 0; x < w && x < screenW; x++ {
				if y*w+x >= len(buf) {
					return
				}
				p.idx[y*screenW+x] = buf[y*w+x] & 0xF
			}
		}
		return
	}

	src := trueColorImage(buf, w, h, format)
	if src == nil {
		return
	}
	p.backdrop = image.NewRGBA(image.Rect(0, 0, screenW, screenH))
	if w == screenW && h == screenH {
		xdraw.Copy(p.backdrop, image.Point{}, src, src.Bounds(), xdraw.Src, nil)
	} else {
		xdraw.NearestNeighbor.Scale(p.backdrop, p.backdrop.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	}
}

// Frame returns the image built by the last PresentPage, or nil.
func (s *Screen) Frame() *image.RGBA {
	return s.frame
}

// Presented returns the last presented page (-1 before the first present) and
// the number of presents so far.
func (s *Screen) Presented() (num, count int) {
	return s.shown, s.presentCnt
}

// Snapshot resolves any page through the current palette without presenting it.
func (s *Screen) Snapshot(num int) *image.RGBA {
	return s.compose(num)
}

// Index returns the palette index stored at (x, y) of a page.
func (s *Screen) Index(num, x, y int) uint8 {
	return s.pages[num].idx[y*screenW+x]
}

func (s *Screen) plot(p *page, off int, c video.Color) {
	switch {
	case c < video.ColorBlend:
		p.idx[off] = uint8(c) & 0xF
	case c == video.ColorBlend:
		p.idx[off] |= 8
	default:
		p.idx[off] = s.pages[0].idx[off]
	}
	p.painted[off] = true
}

func (s *Screen) hline(p *page, x1, x2, y int, c video.Color) {
	if x1 >= screenW || x2 < 0 {
		return
	}
	if x1 < 0 {
		x1 = 0
	}
	if x2 >= screenW {
		x2 = screenW - 1
	}
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	off := y * screenW
	for x := x1; x <= x2; x++ {
		s.plot(p, off+x, c)
	}
}

// calcStep returns the 16.16 horizontal step per scanline from p1 to p2 and
// the raw row count between them.
func calcStep(p1, p2 video.Point) (uint32, uint16) {
	dy := uint16(p2.Y - p1.Y)
	delta := dy
	if delta <= 1 {
		delta = 1
	}
	return uint32(int32(p2.X-p1.X)*int32(0x4000/int(delta))) << 2, dy
}

// fillQuadStrip walks the right edge (front of the vertex list) and the left
// edge (back of the list) down in lockstep, one pair of segments at a time,
// filling the span between them on every row.
func (s *Screen) fillQuadStrip(p *page, c video.Color, v []video.Point) {
	n := len(v)
	if n < 4 {
		return
	}
	i, j := 0, n-1
	x2, x1 := v[i].X, v[j].X
	y := v[i].Y
	i++
	j--

	cpt1 := uint32(x1) << 16
	cpt2 := uint32(x2) << 16
	for remaining := n - 2; remaining > 0; remaining -= 2 {
		step1, _ := calcStep(v[j+1], v[j])
		step2, h := calcStep(v[i-1], v[i])
		i++
		j--

		cpt1 = cpt1&0xFFFF0000 | 0x7FFF
		cpt2 = cpt2&0xFFFF0000 | 0x8000

		if h == 0 {
			cpt1 += step1
			cpt2 += step2
			continue
		}
		for ; h > 0; h-- {
			if y >= 0 && y < screenH {
				s.hline(p, int(int16(cpt1>>16)), int(int16(cpt2>>16)), y, c)
			}
			cpt1 += step1
			cpt2 += step2
			y++
			if y >= screenH {
				return
			}
		}
	}
}

func (s *Screen) glyphBit(ch byte, gx, gy int) bool {
	if s.font != nil {
		fw, fh := s.font.Rect.Dx()/16, s.font.Rect.Dy()/16
		sx := int(ch%16)*fw + gx*fw/cellW
		sy := int(ch/16)*fh + gy*fh/cellH
		return s.font.Pix[sy*s.font.Stride+sx*4+3] >= 0x80
	}
	g := s.glyphs[ch]
	if g == nil {
		g = builtinGlyph(ch)
		s.glyphs[ch] = g
	}
	return g[gy]&(0x80>>gx) != 0
}

// builtinGlyph samples a basicfont glyph down to an 8x8 cell.
func builtinGlyph(ch byte) *[cellH]uint8 {
	var g [cellH]uint8
	face := basicfont.Face7x13
	dr, mask, mp, _, ok := face.Glyph(fixed.P(0, face.Ascent), rune(ch))
	if !ok || dr.Empty() {
		return &g
	}
	for gy := 0; gy < cellH; gy++ {
		sy := gy * dr.Dy() / cellH
		for gx := 0; gx < cellW; gx++ {
			sx := gx * dr.Dx() / cellW
			if _, _, _, a := mask.At(mp.X+sx, mp.Y+sy).RGBA(); a >= 0x8000 {
				g[gy] |= 0x80 >> gx
			}
		}
	}
	return &g
}

func (s *Screen) compose(num int) *image.RGBA {
	p := &s.pages[num]
	img := image.NewRGBA(image.Rect(0, 0, screenW, screenH))
	for i, ix := range p.idx {
		o := i * 4
		if p.backdrop != nil && !p.painted[i] {
			copy(img.Pix[o:o+4], p.backdrop.Pix[o:o+4])
			img.Pix[o+3] = 0xFF
			continue
		}
		c := s.pal[ix&0xF]
		img.Pix[o], img.Pix[o+1], img.Pix[o+2], img.Pix[o+3] = c.R, c.G, c.B, 0xFF
	}
	if s.mode != video.RenderOriginal && s.atlas != nil {
		sw := s.atlas.Rect.Dx() / s.atlasCols
		sh := s.atlas.Rect.Dy() / s.atlasRows
		for _, sd := range p.sprites {
			if sd.num < 0 || sd.num >= s.atlasCols*s.atlasRows {
				continue
			}
			cell := image.Pt(sd.num%s.atlasCols*sw, sd.num/s.atlasCols*sh)
			dst := image.Rect(sd.at.X, sd.at.Y, sd.at.X+sw, sd.at.Y+sh)
			xdraw.Draw(img, dst, s.atlas, cell, xdraw.Over)
		}
	}
	return img
}

func rgbaFrom(buf []byte, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	copy(img.Pix, buf)
	return img
}

func trueColorImage(buf []byte, w, h int, format video.PixelFormat) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < w*h; i++ {
		var c color.RGBA
		switch format {
		case video.FormatRGB565:
			if 2*i+1 >= len(buf) {
				return img
			}
			v := uint16(buf[2*i]) | uint16(buf[2*i+1])<<8
			r, g, b := uint8(v>>11), uint8(v>>5)&0x3F, uint8(v)&0x1F
			c = color.RGBA{R: r<<3 | r>>2, G: g<<2 | g>>4, B: b<<3 | b>>2, A: 0xFF}
		case video.FormatRGB:
			if 3*i+2 >= len(buf) {
				return img
			}
			c = color.RGBA{R: buf[3*i], G: buf[3*i+1], B: buf[3*i+2], A: 0xFF}
		case video.FormatRGBA:
			if 4*i+3 >= len(buf) {
				return img
			}
			c = color.RGBA{R: buf[4*i], G: buf[4*i+1], B: buf[4*i+2], A: buf[4*i+3]}
		default:
			return nil
		}
		img.SetRGBA(i%w, i/w, c)
	}
	return img
}
