package video

import "testing"

func TestScaleTruncates(t *testing.T) {
	cases := []struct {
		d    uint8
		zoom uint16
		want int
	}{
		{10, 64, 10},
		{10, 32, 5},
		{3, 32, 1},
		{1, 63, 0},
		{255, 128, 510},
		{7, 100, 10},
	}
	for _, c := range cases {
		if got := scale(c.d, c.zoom); got != c.want {
			t.Fatalf("scale(%d, %d) = %d, want %d", c.d, c.zoom, got, c.want)
		}
	}
}

func TestDegeneratePolygonEmitsSinglePoint(t *testing.T) {
	v, be, _ := newTestVideo(DataDOS)
	data := []byte{0xC4, 0, 1, 4, 0, 0, 0, 1, 0, 1, 0, 0}

	v.DrawShape(data, 0, ColorPerPart, 64, Point{X: 100, Y: 50})

	if len(be.calls) != 1 {
		t.Fatalf("expected exactly one command, got %v", be.calls)
	}
	c := be.calls[0]
	if c.op != "point" || c.pt != (Point{X: 100, Y: 50}) {
		t.Fatalf("expected point at (100,50), got %v", c)
	}
	if c.color != 4 {
		t.Fatalf("expected colour from control byte (4), got %d", c.color)
	}
	if c.page != 2 {
		t.Fatalf("expected work page 2 after init, got %d", c.page)
	}
}

func TestPolygonKeepsIncomingColour(t *testing.T) {
	v, be, _ := newTestVideo(DataDOS)
	data := []byte{0xC4, 0, 1, 4, 0, 0, 0, 1, 0, 1, 0, 0}

	v.DrawShape(data, 0, 9, 64, Point{X: 10, Y: 10})

	points := be.ops("point")
	if len(points) != 1 || points[0].color != 9 {
		t.Fatalf("expected one point with colour 9, got %v", be.calls)
	}
}

func TestPolygonVerticesScaledFromBoxCorner(t *testing.T) {
	v, be, _ := newTestVideo(DataDOS)
	data := []byte{
		0xC0, 20, 10, 4,
		20, 0,
		20, 10,
		0, 10,
		0, 0,
	}

	v.DrawShape(data, 0, 3, 32, Point{X: 100, Y: 100})

	quads := be.ops("quad")
	if len(quads) != 1 {
		t.Fatalf("expected one quad strip, got %v", be.calls)
	}
	// box 10x5 at zoom 32: x1 = 95, y1 = 98
	want := []Point{{105, 98}, {105, 103}, {95, 103}, {95, 98}}
	got := quads[0].verts
	if len(got) != len(want) {
		t.Fatalf("expected %d vertices, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("vertex %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestOddVertexCountAbortsWithDiagnostic(t *testing.T) {
	v, be, _ := newTestVideo(DataDOS)
	data := []byte{0xC0, 10, 10, 3, 1, 1, 2, 2, 3, 3}

	cur := NewCursor(data, 1, false)
	v.fillPolygon(cur, 1, 64, Point{X: 100, Y: 100})

	if len(be.calls) != 0 {
		t.Fatalf("expected no draw command, got %v", be.calls)
	}
	if !v.Diagnostics().HasEntry("shape", "bad_vertex_count", "odd") {
		t.Fatalf("expected odd vertex count diagnostic, got:\n%s", v.Diagnostics().Format())
	}
	if cur.Pos() != 4 {
		t.Fatalf("expected no vertex bytes consumed (pos 4), got %d", cur.Pos())
	}
}

func TestTooManyVerticesAborts(t *testing.T) {
	v, be, _ := newTestVideo(DataDOS)
	data := make([]byte, 4+72*2)
	data[0], data[1], data[2], data[3] = 0xC0, 10, 10, 72

	v.DrawShape(data, 0, 1, 64, Point{X: 100, Y: 100})

	if len(be.calls) != 0 {
		t.Fatalf("expected no draw command, got %v", be.calls)
	}
	if v.Diagnostics().Count("shape", "bad_vertex_count") != 1 {
		t.Fatalf("expected overflow diagnostic, got:\n%s", v.Diagnostics().Format())
	}
}

func TestOffCanvasPolygonCulledAfterHeader(t *testing.T) {
	v, be, _ := newTestVideo(DataDOS)
	data := []byte{0xC0, 10, 10, 4, 0, 0, 0, 10, 10, 10, 10, 0}

	for _, pt := range []Point{{400, 50}, {-10, 50}, {50, 210}, {50, -6}} {
		cur := NewCursor(data, 1, false)
		v.fillPolygon(cur, 1, 64, pt)
		if cur.Pos() != 3 {
			t.Fatalf("at %v: expected cursor after header (3), got %d", pt, cur.Pos())
		}
	}
	if len(be.calls) != 0 {
		t.Fatalf("expected culled polygons to emit nothing, got %v", be.calls)
	}
	if n := len(v.Diagnostics().Entries()); n != 0 {
		t.Fatalf("culling is silent, got %d diagnostics", n)
	}
}

func TestUnsupportedControlCodeIsNonFatal(t *testing.T) {
	v, be, _ := newTestVideo(DataDOS)

	v.DrawShape([]byte{0x01}, 0, 1, 64, Point{X: 10, Y: 10})
	v.DrawShape([]byte{0x45}, 0, 1, 64, Point{X: 10, Y: 10})

	if len(be.calls) != 0 {
		t.Fatalf("expected nothing drawn, got %v", be.calls)
	}
	if v.Diagnostics().Count("shape", "unsupported_code") != 2 {
		t.Fatalf("expected two unsupported code diagnostics, got:\n%s", v.Diagnostics().Format())
	}

	// The next request is unaffected.
	v.DrawShape([]byte{0xC4, 0, 1, 4, 0, 0, 0, 1, 0, 1, 0, 0}, 0, 1, 64, Point{X: 10, Y: 10})
	if len(be.ops("point")) != 1 {
		t.Fatalf("expected the following request to draw, got %v", be.calls)
	}
}

// compositeData builds a composite at offset 0 with one part pointing at
// offset 10 (word 5), followed by a degenerate polygon at offset 10.
func compositeData() []byte {
	data := make([]byte, 24)
	copy(data, []byte{0x42, 0, 0, 0, 0x00, 0x05, 2, 3})
	copy(data[10:], []byte{0xC0, 0, 1, 4, 0, 0, 0, 1, 0, 1, 0, 0})
	return data
}

func TestCompositeRecursesIntoPartOffset(t *testing.T) {
	v, be, _ := newTestVideo(DataDOS)

	v.DrawShape(compositeData(), 0, ColorPerPart, 64, Point{X: 10, Y: 10})

	if len(be.calls) != 1 {
		t.Fatalf("expected one command from the nested shape, got %v", be.calls)
	}
	c := be.calls[0]
	if c.op != "point" || c.pt != (Point{X: 12, Y: 13}) {
		t.Fatalf("expected point at (12,13), got %v", c)
	}
	if c.color != 0 {
		t.Fatalf("expected colour overridden by control byte 0xC0 (0), got %d", c.color)
	}
}

func TestCompositeAnchorSubtractsScaledHeader(t *testing.T) {
	v, be, _ := newTestVideo(DataDOS)
	data := compositeData()
	data[1], data[2] = 8, 4
	data[12] = 0 // keep the nested polygon degenerate at zoom 128

	v.DrawShape(data, 0, ColorPerPart, 128, Point{X: 100, Y: 100})

	points := be.ops("point")
	if len(points) != 1 {
		t.Fatalf("expected one point, got %v", be.calls)
	}
	// anchor = (100-16, 100-8); part delta (2,3) at zoom 128 = (4,6)
	if points[0].pt != (Point{X: 88, Y: 98}) {
		t.Fatalf("expected (88,98), got %v", points[0].pt)
	}
}

func TestCompositeRestoresCursorAfterEachPart(t *testing.T) {
	v, be, _ := newTestVideo(DataDOS)
	data := make([]byte, 48)
	copy(data, []byte{
		0x02, 0, 0, 1,
		0x00, 0x08, 1, 1, // part 0 -> offset 16
		0x00, 0x10, 5, 5, // part 1 -> offset 32
	})
	copy(data[16:], []byte{0xC0, 0, 1, 4, 0, 0, 0, 1, 0, 1, 0, 0})
	copy(data[32:], []byte{0xC0, 0, 0, 4, 0, 0, 0, 0, 0, 0, 0, 0})

	cur := NewCursor(data, 1, false)
	v.drawShapeParts(cur, 64, Point{X: 50, Y: 50}, 0)

	if cur.Pos() != 12 {
		t.Fatalf("expected cursor at end of part list (12), got %d", cur.Pos())
	}
	points := be.ops("point")
	if len(points) != 2 {
		t.Fatalf("expected two points, got %v", be.calls)
	}
	if points[0].pt != (Point{X: 51, Y: 51}) || points[1].pt != (Point{X: 55, Y: 55}) {
		t.Fatalf("unexpected part positions: %v", points)
	}
}

func TestCompositePartColourFromColourByte(t *testing.T) {
	v, be, _ := newTestVideo(DataDOS)
	data := make([]byte, 32)
	copy(data, []byte{0x02, 0, 0, 0, 0x80, 0x08, 0, 0, 0x0B, 0x00})
	// An incoming colour without bit 7 keeps the part colour.
	copy(data[16:], []byte{0xC0, 0, 1, 4, 0, 0, 0, 1, 0, 1, 0, 0})

	v.DrawShape(data, 0, ColorPerPart, 64, Point{X: 20, Y: 20})

	points := be.ops("point")
	if len(points) != 1 || points[0].color != 0x0B {
		t.Fatalf("expected one point in colour 0x0B, got %v", be.calls)
	}
}

func TestShapeRecursionDepthGuard(t *testing.T) {
	v, be, _ := newTestVideo(DataDOS, WithMaxDepth(4))
	// A composite whose only part points back at itself.
	data := []byte{0x02, 0, 0, 0, 0x00, 0x00, 0, 0}

	v.DrawShape(data, 0, ColorPerPart, 64, Point{X: 10, Y: 10})

	if len(be.calls) != 0 {
		t.Fatalf("expected nothing drawn, got %v", be.calls)
	}
	if v.Diagnostics().Count("shape", "depth_exceeded") != 1 {
		t.Fatalf("expected one depth diagnostic, got:\n%s", v.Diagnostics().Format())
	}
}

func TestTruncatedStreamReported(t *testing.T) {
	v, be, _ := newTestVideo(DataDOS)

	v.DrawShape([]byte{0xC0, 10, 10, 4, 1, 2}, 0, 1, 64, Point{X: 100, Y: 100})

	if len(be.calls) != 0 {
		t.Fatalf("expected nothing drawn from a truncated polygon, got %v", be.calls)
	}
	if v.Diagnostics().Count("shape", "stream_overrun") != 1 {
		t.Fatalf("expected overrun diagnostic, got:\n%s", v.Diagnostics().Format())
	}
}

// headData builds a composite with three parts. Part 0 and 1 carry head
// markers, part 2 points at a degenerate polygon at offset 32.
func headData(first, second byte) []byte {
	data := make([]byte, 48)
	copy(data, []byte{
		0x02, 0, 0, 2,
		0x80, 0x10, 10, 20, 0x80, first,
		0x80, 0x10, 30, 40, 0x80, second,
		0x00, 0x10, 1, 1,
	})
	copy(data[32:], []byte{0xC0, 0, 1, 4, 0, 0, 0, 1, 0, 1, 0, 0})
	return data
}

func TestHeadSpritesFacingMarkersContinue(t *testing.T) {
	v, be, _ := newTestVideo(DataDOS)
	v.hasHeads = true

	v.DrawShape(headData(0x4A, 0x4F), 0, ColorPerPart, 64, Point{X: 100, Y: 100})

	sprites := be.ops("sprite")
	if len(sprites) != 2 {
		t.Fatalf("expected two head sprites, got %v", be.calls)
	}
	if sprites[0].num != 0 || sprites[0].pt != (Point{X: 106, Y: 113}) {
		t.Fatalf("expected right facing sprite 0 at (106,113), got %+v", sprites[0])
	}
	if sprites[1].num != 1 || sprites[1].pt != (Point{X: 126, Y: 133}) {
		t.Fatalf("expected left facing sprite 1 at (126,133), got %+v", sprites[1])
	}
	if len(be.ops("point")) != 1 {
		t.Fatalf("expected the third part to be drawn after the sprites, got %v", be.calls)
	}
}

func TestHeadSpritesEndMarkersStopComposite(t *testing.T) {
	for _, marker := range []byte{0x4D, 0x50} {
		v, be, _ := newTestVideo(DataDOS)
		v.hasHeads = true

		v.DrawShape(headData(0x4A, marker), 0, ColorPerPart, 64, Point{X: 100, Y: 100})

		if len(be.ops("sprite")) != 1 {
			t.Fatalf("marker 0x%X: expected the first sprite only, got %v", marker, be.calls)
		}
		if len(be.ops("point")) != 0 {
			t.Fatalf("marker 0x%X: expected the composite to stop, got %v", marker, be.calls)
		}
	}
}

func TestHeadMarkersIgnoredWithoutHeads(t *testing.T) {
	v, be, _ := newTestVideo(DataDOS)
	be.mode = RenderOriginal
	v.hasHeads = true

	v.DrawShape(headData(0x4A, 0x4D), 0, ColorPerPart, 64, Point{X: 100, Y: 100})

	if len(be.ops("sprite")) != 0 {
		t.Fatalf("expected no sprites in original render mode, got %v", be.calls)
	}
	// All three parts end up at the polygon at offset 32.
	if len(be.ops("point")) != 3 {
		t.Fatalf("expected three points, got %v", be.calls)
	}
}

func TestHeadToggleDisablesOverlay(t *testing.T) {
	v, be, _ := newTestVideo(DataDOS, WithDisplayHeads(false))
	v.hasHeads = true
	if v.HeadsEnabled() {
		t.Fatal("expected heads disabled by option")
	}

	v.DrawShape(headData(0x4A, 0x4F), 0, ColorPerPart, 64, Point{X: 100, Y: 100})
	if len(be.ops("sprite")) != 0 {
		t.Fatalf("expected no sprites, got %v", be.calls)
	}

	v.SetDisplayHeads(true)
	if !v.HeadsEnabled() {
		t.Fatal("expected heads enabled after toggle")
	}
}

func TestSelfReferencingCompositeStopsRequest(t *testing.T) {
	v, be, _ := newTestVideo(DataDOS)
	// Two parts, both pointing back at the composite itself.
	data := []byte{0x02, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0}

	v.DrawShape(data, 0, ColorPerPart, 64, Point{X: 10, Y: 10})

	if len(be.calls) != 0 {
		t.Fatalf("expected nothing drawn, got %v", be.calls)
	}
	if n := len(v.Diagnostics().Entries()); n != 1 {
		t.Fatalf("expected a single diagnostic for the request, got %d:\n%s", n, v.Diagnostics().Format())
	}
	if v.Diagnostics().Count("shape", "depth_exceeded") != 1 {
		t.Fatalf("expected one depth diagnostic, got:\n%s", v.Diagnostics().Format())
	}
}

func TestDepthLimitSkipsSiblingParts(t *testing.T) {
	v, be, _ := newTestVideo(DataDOS, WithMaxDepth(3))
	data := []byte{
		0x02, 0, 0, 1,
		0x00, 0x00, 0, 0, // part 0: the composite again
		0x00, 0x06, 0, 0, // part 1: polygon at 12
		0xC0, 4, 4, 4, 0, 0, 4, 0, 4, 4, 0, 4,
	}

	v.DrawShape(data, 0, ColorPerPart, 64, Point{X: 100, Y: 100})

	if len(be.calls) != 0 {
		t.Fatalf("expected the whole request dropped, got %v", be.calls)
	}
	if v.Diagnostics().Count("shape", "depth_exceeded") != 1 {
		t.Fatalf("expected one depth diagnostic, got:\n%s", v.Diagnostics().Format())
	}

	v.DrawShape(data, 12, ColorPerPart, 64, Point{X: 100, Y: 100})
	if len(be.ops("quad")) != 1 {
		t.Fatalf("expected the next request to draw, got %v", be.calls)
	}
}

func TestOverrunStopsRemainingParts(t *testing.T) {
	v, be, _ := newTestVideo(DataDOS)
	data := make([]byte, 32)
	copy(data, []byte{
		0x02, 0, 0, 2,
		0x00, 0x0A, 0, 0, // part 0: polygon at 20
		0x7F, 0xFF, 0, 0, // part 1: past the end
		0x00, 0x0A, 0, 0, // part 2: polygon at 20
	})
	copy(data[20:], []byte{0xC0, 4, 4, 4, 0, 0, 4, 0, 4, 4, 0, 4})

	v.DrawShape(data, 0, ColorPerPart, 64, Point{X: 100, Y: 100})

	if len(be.ops("quad")) != 1 {
		t.Fatalf("expected only the part before the overrun, got %v", be.calls)
	}
	if v.Diagnostics().Count("shape", "stream_overrun") != 1 {
		t.Fatalf("expected one overrun diagnostic, got:\n%s", v.Diagnostics().Format())
	}
	if v.Diagnostics().Count("shape", "unsupported_code") != 0 {
		t.Fatalf("expected no code read past the end, got:\n%s", v.Diagnostics().Format())
	}
}
