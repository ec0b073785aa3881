package video

import "fmt"

// MaxVertices bounds the number of vertices of a single quad strip.
const MaxVertices = 70

// Point is a position in logical pixel space.
type Point struct {
	X, Y int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// QuadStrip is a polygon stored as interleaved edges: the first half walks the
// right edge downwards and the second half walks the left edge back up.
type QuadStrip struct {
	Vertices []Point
}

// NewQuadStrip allocates a strip of n vertices. n must be even and not larger
// than MaxVertices.
func NewQuadStrip(n int) (*QuadStrip, error) {
	if n < 0 || n&1 != 0 {
		return nil, fmt.Errorf("%w: %d", ErrOddVertexCount, n)
	}
	if n > MaxVertices {
		return nil, fmt.Errorf("%w: %d > %d", ErrQuadStripFull, n, MaxVertices)
	}
	return &QuadStrip{Vertices: make([]Point, n)}, nil
}

// Len returns the number of vertices.
func (qs *QuadStrip) Len() int {
	return len(qs.Vertices)
}

// Bounds returns the inclusive bounding box of the strip.
func (qs *QuadStrip) Bounds() (min, max Point) {
	if len(qs.Vertices) == 0 {
		return Point{}, Point{}
	}
	min, max = qs.Vertices[0], qs.Vertices[0]
	for _, v := range qs.Vertices[1:] {
		if v.X < min.X {
			min.X = v.X
		}
		if v.Y < min.Y {
			min.Y = v.Y
		}
		if v.X > max.X {
			max.X = v.X
		}
		if v.Y > max.Y {
			max.Y = v.Y
		}
	}
	return min, max
}

// scale applies the 6-bit fixed point zoom (64 = 100%) to a raw delta.
func scale(d uint8, zoom uint16) int {
	return int(d) * int(zoom) / 64
}

// offCanvas reports whether the box [x1,x2]x[y1,y2] misses the canvas entirely.
func offCanvas(x1, y1, x2, y2 int) bool {
	return x1 > ScreenWidth-1 || x2 < 0 || y1 > ScreenHeight-1 || y2 < 0
}
