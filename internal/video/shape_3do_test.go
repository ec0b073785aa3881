package video

import "testing"

func TestShape3DORect(t *testing.T) {
	v, be, _ := newTestVideo(Data3DO)

	v.DrawShape([]byte{0x25, 20, 10}, 0, ColorPerPart, 64, Point{X: 100, Y: 100})

	quads := be.ops("quad")
	if len(quads) != 1 {
		t.Fatalf("expected one rectangle, got %v", be.calls)
	}
	if quads[0].color != 5 {
		t.Fatalf("expected colour from code bits (5), got %d", quads[0].color)
	}
	want := []Point{{90, 95}, {90, 105}, {110, 105}, {110, 95}}
	for i, p := range want {
		if quads[0].verts[i] != p {
			t.Fatalf("vertex %d: expected %v, got %v", i, p, quads[0].verts[i])
		}
	}
}

func TestShape3DOPixelCulled(t *testing.T) {
	v, be, _ := newTestVideo(Data3DO)

	v.DrawShape([]byte{0x41}, 0, 7, 64, Point{X: 10, Y: 10})
	v.DrawShape([]byte{0x41}, 0, 7, 64, Point{X: 320, Y: 10})
	v.DrawShape([]byte{0x41}, 0, 7, 64, Point{X: 10, Y: -1})

	points := be.ops("point")
	if len(points) != 1 {
		t.Fatalf("expected only the on-canvas pixel, got %v", be.calls)
	}
	if points[0].color != 7 {
		t.Fatalf("expected explicit colour 7 kept, got %d", points[0].color)
	}
}

func TestShape3DOPolygonMirrorsRows(t *testing.T) {
	v, be, _ := newTestVideo(Data3DO)
	data := []byte{0xC3, 10, 10, 2, 1, 8, 0, 2, 7, 9}

	v.DrawShape(data, 0, ColorPerPart, 64, Point{X: 50, Y: 50})

	quads := be.ops("quad")
	if len(quads) != 1 {
		t.Fatalf("expected one polygon, got %v", be.calls)
	}
	want := []Point{{53, 54}, {52, 45}, {47, 45}, {46, 54}}
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

func TestShape3DOPolygonCulledBeforeRows(t *testing.T) {
	v, be, _ := newTestVideo(Data3DO)
	data := []byte{0xC3, 10, 10, 2, 1, 8, 0, 2, 7, 9}

	cur := NewCursor(data, 0, true)
	v.drawShape3DO(cur, ColorPerPart, 64, Point{X: 500, Y: 50}, 0)

	if len(be.calls) != 0 {
		t.Fatalf("expected nothing drawn, got %v", be.calls)
	}
	if cur.Pos() != 4 {
		t.Fatalf("expected cursor after the polygon header (4), got %d", cur.Pos())
	}
}

func TestShape3DOCompositeLittleEndianOffsets(t *testing.T) {
	v, be, _ := newTestVideo(Data3DO)
	data := make([]byte, 16)
	// offset word 0x0004 stored little-endian -> data offset 8
	copy(data, []byte{0x00, 0, 0, 0, 0x04, 0x00, 3, 4})
	data[8] = 0x42

	v.DrawShape(data, 0, ColorPerPart, 64, Point{X: 20, Y: 20})

	points := be.ops("point")
	if len(points) != 1 || points[0].pt != (Point{X: 23, Y: 24}) {
		t.Fatalf("expected pixel at (23,24), got %v", be.calls)
	}
	if points[0].color != 2 {
		t.Fatalf("expected colour from nested code (2), got %d", points[0].color)
	}
}

func TestShape3DOImmediatePart(t *testing.T) {
	v, be, res := newTestVideo(Data3DO)
	res.parts = [][]byte{
		{4, 2, 0, 3, 1, 2},
	}
	data := []byte{0x00, 0, 0, 0, 0x00, 0x80, 0, 0, 0x89, 0}

	v.DrawShape(data, 0, ColorPerPart, 64, Point{X: 100, Y: 100})

	quads := be.ops("quad")
	if len(quads) != 1 {
		t.Fatalf("expected one part outline, got %v", be.calls)
	}
	if quads[0].color != 9 {
		t.Fatalf("expected part colour 9, got %d", quads[0].color)
	}
	want := []Point{{98, 99}, {99, 100}, {100, 100}, {101, 99}}
	for i, p := range want {
		if quads[0].verts[i] != p {
			t.Fatalf("vertex %d: expected %v, got %v", i, p, quads[0].verts[i])
		}
	}
}

func TestShape3DOMissingPartDiagnosed(t *testing.T) {
	v, be, _ := newTestVideo(Data3DO)
	data := []byte{0x00, 0, 0, 0, 0x00, 0x80, 0, 0, 0x89, 5}

	v.DrawShape(data, 0, ColorPerPart, 64, Point{X: 100, Y: 100})

	if len(be.calls) != 0 {
		t.Fatalf("expected nothing drawn, got %v", be.calls)
	}
	if !v.Diagnostics().HasEntry("shape", "missing_part", "part 5") {
		t.Fatalf("expected missing part diagnostic, got:\n%s", v.Diagnostics().Format())
	}
}

func TestShape3DOUnknownCodeDropped(t *testing.T) {
	v, be, _ := newTestVideo(Data3DO)

	v.DrawShape([]byte{0x60}, 0, 1, 64, Point{X: 10, Y: 10})
	v.DrawShape([]byte{0xA0}, 0, 1, 64, Point{X: 10, Y: 10})

	if len(be.calls) != 0 {
		t.Fatalf("expected nothing drawn, got %v", be.calls)
	}
	if v.Diagnostics().Count("shape", "unsupported_code") != 2 {
		t.Fatalf("expected two diagnostics, got:\n%s", v.Diagnostics().Format())
	}
}

func TestShape3DOSelfReferencingCompositeStopsRequest(t *testing.T) {
	v, be, _ := newTestVideo(Data3DO)
	data := []byte{0x00, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0}

	v.DrawShape(data, 0, ColorPerPart, 64, Point{X: 10, Y: 10})

	if len(be.calls) != 0 {
		t.Fatalf("expected nothing drawn, got %v", be.calls)
	}
	if n := len(v.Diagnostics().Entries()); n != 1 || v.Diagnostics().Count("shape", "depth_exceeded") != 1 {
		t.Fatalf("expected a single depth diagnostic, got:\n%s", v.Diagnostics().Format())
	}
}

func TestShape3DOLargePolygonCulledQuietly(t *testing.T) {
	v, be, _ := newTestVideo(Data3DO)
	// 40 rows would overflow a strip, but the box is off canvas.
	data := []byte{0xC3, 10, 10, 40}

	cur := NewCursor(data, 0, true)
	v.drawShape3DO(cur, ColorPerPart, 64, Point{X: 500, Y: 50}, 0)

	if len(be.calls) != 0 {
		t.Fatalf("expected nothing drawn, got %v", be.calls)
	}
	if len(v.Diagnostics().Entries()) != 0 {
		t.Fatalf("expected no diagnostics, got:\n%s", v.Diagnostics().Format())
	}
}
