package video

// ScreenWidth and ScreenHeight are the logical canvas size. All geometry handed
// to a Backend is expressed in this space regardless of the output resolution.
const (
	ScreenWidth  = 320
	ScreenHeight = 200
)

// NumPages is the number of physical drawing surfaces.
const NumPages = 4

// Color is a palette index (0..15) or one of the backend colour modes below.
type Color uint8

const (
	// ColorBlend ORs bit 3 into the existing pixel.
	ColorBlend Color = 0x10
	// ColorCopyPage0 copies the covered pixels from page 0.
	ColorCopyPage0 Color = 0x11
	// ColorPerPart means the colour is supplied by the composite shape part.
	ColorPerPart Color = 0xFF
)

// RGB is one palette entry.
type RGB struct {
	R, G, B uint8
}

// Palette holds the 16 entries of a decoded palette.
type Palette [16]RGB

// PixelFormat tags the layout of a bitmap buffer handed to AddBitmap.
type PixelFormat int

const (
	FormatCLUT   PixelFormat = iota // one 4-bit palette index per byte
	FormatRGB565                    // 16-bit little-endian 565 per pixel
	FormatRGB                       // packed 24-bit r, g, b
	FormatRGBA                      // packed 32-bit r, g, b, a (fonts, sprite atlases)
)

func (f PixelFormat) String() string {
	switch f {
	case FormatCLUT:
		return "clut"
	case FormatRGB565:
		return "rgb565"
	case FormatRGB:
		return "rgb"
	case FormatRGBA:
		return "rgba"
	}
	return "unknown"
}

// RenderMode reports how the backend presents pages.
type RenderMode int

const (
	RenderOriginal RenderMode = iota // indexed pages, no overlays
	RenderGL                         // filtered output with head sprite overlays
)

// DataType identifies the release the resource data was taken from. It selects
// the palette, bitmap and string layouts and the cursor word order.
type DataType int

const (
	DataDOS DataType = iota
	DataAmiga
	DataAtari
	Data15thEdition
	Data20thEdition
	DataWin31
	Data3DO
)

var dataTypeNames = [...]string{
	DataDOS:         "dos",
	DataAmiga:       "amiga",
	DataAtari:       "atari",
	Data15thEdition: "15th",
	Data20thEdition: "20th",
	DataWin31:       "win31",
	Data3DO:         "3do",
}

func (dt DataType) String() string {
	if dt < 0 || int(dt) >= len(dataTypeNames) {
		return "unknown"
	}
	return dataTypeNames[dt]
}

// ParseDataType maps a name as returned by DataType.String back to its value.
func ParseDataType(name string) (DataType, bool) {
	for i, n := range dataTypeNames {
		if n == name {
			return DataType(i), true
		}
	}
	return 0, false
}

// Backend receives the primitive commands produced by the video core. Page
// arguments are always physical page ids in [0, NumPages).
type Backend interface {
	ClearPage(page int, color Color)
	CopyPage(dst, src int)
	CopyPageScrolled(dst, src, vscroll int)
	PresentPage(page int)

	SetPalette(pal *Palette)
	// SetFont installs an RGBA glyph atlas. A nil buf selects the built-in font.
	SetFont(buf []byte, w, h int)
	SetSpriteAtlas(buf []byte, w, h, cols, rows int)

	AddPoint(page int, color Color, pt Point)
	AddQuadStrip(page int, color Color, qs *QuadStrip)
	AddChar(page int, color Color, ch byte, pt Point)
	AddSprite(page, num int, pt Point)
	AddBitmap(page int, buf []byte, w, h int, format PixelFormat)

	RenderMode() RenderMode
}

// Resource is the part of the resource subsystem the video core reads from.
type Resource interface {
	DataType() DataType
	// PaletteData returns the raw palette segment of the current part.
	PaletteData() []byte
	String(id uint16) (string, bool)
}

// PartVertexSource is implemented by resources that carry the 3DO immediate
// part outlines: w, h followed by h pairs of (left x, right x).
type PartVertexSource interface {
	PartVertices(part int) []byte
}
