package video

// 3DO shape codes, taken from the top three bits of the code byte.
const (
	code3DOComposite = 0x00
	code3DORect      = 0x20
	code3DOPixel     = 0x40
	code3DOPolygon   = 0xC0
)

func (v *Video) drawShape3DO(cur *Cursor, color Color, zoom uint16, pt Point, depth int) {
	if depth > v.maxDepth {
		v.warn("shape", "depth_exceeded", "depth=%d offset=0x%04X", depth, cur.Pos())
		cur.Abort()
		return
	}
	code := cur.FetchByte()
	if cur.Overrun() {
		return
	}
	v.debug("draw shape 3do", "code", code, "pt", pt)
	if color == ColorPerPart {
		color = Color(code & 31)
	}
	switch code & 0xE0 {
	case code3DOComposite:
		v.drawComposite3DO(cur, zoom, pt, depth)
	case code3DORect:
		w := scale(cur.FetchByte(), zoom)
		h := scale(cur.FetchByte(), zoom)
		x1 := pt.X - w/2
		y1 := pt.Y - h/2
		x2 := x1 + w
		y2 := y1 + h
		if offCanvas(x1, y1, x2, y2) {
			return
		}
		qs := &QuadStrip{Vertices: []Point{
			{X: x1, Y: y1},
			{X: x1, Y: y2},
			{X: x2, Y: y2},
			{X: x2, Y: y1},
		}}
		v.be.AddQuadStrip(v.pages.work, color, qs)
	case code3DOPixel:
		if offCanvas(pt.X, pt.Y, pt.X, pt.Y) {
			return
		}
		v.be.AddPoint(v.pages.work, color, pt)
	case code3DOPolygon:
		v.fillPolygon3DO(cur, color, zoom, pt)
	default:
		v.warn("shape", "unsupported_code", "3do code=0x%02X offset=0x%04X", code, cur.Pos()-1)
	}
}

func (v *Video) drawComposite3DO(cur *Cursor, zoom uint16, pt Point, depth int) {
	x0 := pt.X - scale(cur.FetchByte(), zoom)
	y0 := pt.Y - scale(cur.FetchByte(), zoom)
	count := int(cur.FetchByte()) + 1
	for ; count > 0 && !cur.Stopped(); count-- {
		off := cur.FetchWord()
		po := Point{
			X: x0 + scale(cur.FetchByte(), zoom),
			Y: y0 + scale(cur.FetchByte(), zoom),
		}
		color := ColorPerPart
		if off&0x8000 != 0 {
			c := cur.FetchByte()
			part := int(cur.FetchByte())
			if cur.Overrun() {
				return
			}
			if c&0x80 != 0 {
				v.drawPart3DO(Color(c&0xF), part, po)
				continue
			}
			color = Color(c)
			off &= 0x7FFF
		}
		if cur.Overrun() {
			return
		}
		saved := cur.Pos()
		cur.Seek(int(off) * 2)
		v.drawShape3DO(cur, color, zoom, po, depth+1)
		cur.Seek(saved)
	}
}

// fillPolygon3DO reads count rows of (left x, right x, y) and mirrors them
// into a strip of 2*count vertices.
func (v *Video) fillPolygon3DO(cur *Cursor, color Color, zoom uint16, pt Point) {
	w := scale(cur.FetchByte(), zoom)
	h := scale(cur.FetchByte(), zoom)
	count := int(cur.FetchByte())
	x0 := pt.X - w/2
	y0 := pt.Y - h/2
	if offCanvas(x0, y0, pt.X+w/2, pt.Y+h/2) || count == 0 {
		return
	}
	qs, err := NewQuadStrip(count * 2)
	if err != nil {
		v.warn("shape", "bad_vertex_count", "3do %v", err)
		return
	}
	vs := qs.Vertices
	last := count*2 - 1
	for i, j := 0, last; i < count; i, j = i+1, j-1 {
		xl := scale(cur.FetchByte(), zoom)
		xr := scale(cur.FetchByte(), zoom)
		y := scale(cur.FetchByte(), zoom)
		next := (i + 1) % count
		vs[i].X = x0 + xr
		vs[next].Y = y0 + y
		vs[j].X = x0 + xl
		vs[last-next].Y = y0 + y
	}
	if cur.Overrun() {
		return
	}
	v.be.AddQuadStrip(v.pages.work, color, qs)
}

// drawPart3DO draws one of the fixed part outlines shipped with the 3DO data.
func (v *Video) drawPart3DO(color Color, part int, pt Point) {
	src, ok := v.res.(PartVertexSource)
	var verts []byte
	if ok {
		verts = src.PartVertices(part)
	}
	if len(verts) < 2 {
		v.warn("shape", "missing_part", "%v: part %d", ErrNoPartVertices, part)
		return
	}
	w := int(verts[0])
	h := int(verts[1])
	if len(verts) < 2+h*2 {
		v.warn("shape", "missing_part", "%v: part %d truncated", ErrNoPartVertices, part)
		return
	}
	qs, err := NewQuadStrip(2 * h)
	if err != nil {
		v.warn("shape", "bad_vertex_count", "part %d: %v", part, err)
		return
	}
	x := pt.X - w/2
	y := pt.Y - h/2
	for i := 0; i < h; i++ {
		qs.Vertices[i] = Point{X: x + int(verts[2+i*2]), Y: y + i}
		qs.Vertices[2*h-1-i] = Point{X: x + int(verts[3+i*2]), Y: y + i}
	}
	v.be.AddQuadStrip(v.pages.work, color, qs)
}
