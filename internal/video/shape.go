package video

// Head sprite markers carried in the id byte of a composite part whose colour
// byte has bit 7 set.
type headMarker uint8

const (
	headFacingRight headMarker = 0x4A // draw sprite 0, then continue with the next part
	headEndRight    headMarker = 0x4D // end of the composite
	headFacingLeft  headMarker = 0x4F // draw sprite 1, then continue with the next part
	headEndLeft     headMarker = 0x50 // end of the composite
)

// headSpriteOffset places the sprite relative to the part position.
var headSpriteOffset = Point{X: -4, Y: -7}

func (v *Video) drawShape(cur *Cursor, color Color, zoom uint16, pt Point, depth int) {
	if depth > v.maxDepth {
		v.warn("shape", "depth_exceeded", "depth=%d offset=0x%04X", depth, cur.Pos())
		cur.Abort()
		return
	}
	ctrl := cur.FetchByte()
	if cur.Overrun() {
		return
	}
	if ctrl >= 0xC0 {
		if color&0x80 != 0 {
			color = Color(ctrl & 0x3F)
		}
		v.fillPolygon(cur, color, zoom, pt)
		return
	}
	switch ctrl & 0x3F {
	case 2:
		v.drawShapeParts(cur, zoom, pt, depth)
	default:
		v.warn("shape", "unsupported_code", "code=0x%02X offset=0x%04X", ctrl, cur.Pos()-1)
	}
}

func (v *Video) fillPolygon(cur *Cursor, color Color, zoom uint16, pt Point) {
	bbw := scale(cur.FetchByte(), zoom)
	bbh := scale(cur.FetchByte(), zoom)

	x1 := pt.X - bbw/2
	x2 := pt.X + bbw/2
	y1 := pt.Y - bbh/2
	y2 := pt.Y + bbh/2
	// Culled polygons leave the cursor right after the bounding box header.
	if offCanvas(x1, y1, x2, y2) {
		return
	}

	n := int(cur.FetchByte())
	qs, err := NewQuadStrip(n)
	if err != nil {
		v.warn("shape", "bad_vertex_count", "%v", err)
		return
	}
	for i := range qs.Vertices {
		qs.Vertices[i].X = x1 + scale(cur.FetchByte(), zoom)
		qs.Vertices[i].Y = y1 + scale(cur.FetchByte(), zoom)
	}
	if cur.Overrun() {
		return
	}

	if n == 4 && bbw == 0 && bbh <= 1 {
		v.be.AddPoint(v.pages.work, color, pt)
	} else {
		v.be.AddQuadStrip(v.pages.work, color, qs)
	}
}

func (v *Video) drawShapeParts(cur *Cursor, zoom uint16, pgc Point, depth int) {
	pt := Point{
		X: pgc.X - scale(cur.FetchByte(), zoom),
		Y: pgc.Y - scale(cur.FetchByte(), zoom),
	}
	n := int(cur.FetchByte())
	v.debug("draw shape parts", "n", n, "anchor", pt)
	for ; n >= 0 && !cur.Stopped(); n-- {
		off := cur.FetchWord()
		po := pt
		po.X += scale(cur.FetchByte(), zoom)
		po.Y += scale(cur.FetchByte(), zoom)

		color := ColorPerPart
		if off&0x8000 != 0 {
			c := cur.FetchByte()
			id := headMarker(cur.FetchByte())
			if c&0x80 != 0 && v.HeadsEnabled() {
				// Old content relies on this exact split: the two facing
				// markers replace the part with a sprite and keep going, the
				// two end markers stop the whole composite.
				switch id {
				case headFacingRight:
					v.be.AddSprite(v.pages.work, 0, Point{X: po.X + headSpriteOffset.X, Y: po.Y + headSpriteOffset.Y})
					continue
				case headFacingLeft:
					v.be.AddSprite(v.pages.work, 1, Point{X: po.X + headSpriteOffset.X, Y: po.Y + headSpriteOffset.Y})
					continue
				case headEndRight, headEndLeft:
					return
				}
			}
			color = Color(c & 0x7F)
			off &= 0x7FFF
		}
		if cur.Overrun() {
			return
		}

		saved := cur.Pos()
		cur.Seek(int(off) * 2)
		v.drawShape(cur, color, zoom, po, depth+1)
		cur.Seek(saved)
	}
}
