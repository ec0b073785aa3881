// Package video interprets the polygon shape stream of the game data and turns
// it into primitive draw commands for a Backend. It also owns the page
// indirection used for double buffering, the deferred palette switch, and the
// decoders for the palette, bitmap and string formats of each release.
//
// A Video is session scoped: create it with New, call Init once the resources
// are known, issue draw requests from a single goroutine, and Close it when the
// session ends.
package video

import (
	"fmt"
	"log/slog"
)

// DefaultMaxDepth bounds composite shape nesting.
const DefaultMaxDepth = 32

// paletteNone marks "no palette" for both the current and the pending id.
const paletteNone = 0xFF

// Video is the composition root used by the bytecode VM. It is not safe for
// concurrent use.
type Video struct {
	res Resource
	be  Backend

	pages        pageTable
	currentPal   uint8
	nextPal      uint8
	littleEndian bool

	hasHeads     bool
	displayHeads bool

	maxDepth int
	diag     *DiagLog
	log      *slog.Logger
}

// Option configures a Video.
type Option func(*Video)

// WithMaxDepth overrides DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(v *Video) {
		if n > 0 {
			v.maxDepth = n
		}
	}
}

// WithLogger routes this Video's log output to l instead of the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(v *Video) {
		v.log = l
	}
}

// WithDiagLog shares an existing diagnostics log.
func WithDiagLog(dl *DiagLog) Option {
	return func(v *Video) {
		if dl != nil {
			v.diag = dl
		}
	}
}

// WithDisplayHeads sets the initial head sprite toggle (on by default).
func WithDisplayHeads(on bool) Option {
	return func(v *Video) {
		v.displayHeads = on
	}
}

// New creates a Video reading from res and drawing into be. Call Init before
// issuing draw requests.
func New(res Resource, be Backend, opts ...Option) *Video {
	v := &Video{
		res:          res,
		be:           be,
		displayHeads: true,
		maxDepth:     DefaultMaxDepth,
		currentPal:   paletteNone,
		nextPal:      paletteNone,
	}
	for _, o := range opts {
		o(v)
	}
	if v.diag == nil {
		v.diag = NewDiagLog(0)
	}
	return v
}

// Init resets the session state: page roles, palette markers and the shape
// stream byte order.
func (v *Video) Init() {
	v.currentPal = paletteNone
	v.nextPal = paletteNone
	v.pages.back = 1
	v.pages.front = 2
	v.SetWorkPage(PageFront)
	v.littleEndian = v.res.DataType() == Data3DO
}

// Close releases the collaborators. The Video must not be used afterwards.
func (v *Video) Close() {
	v.res = nil
	v.be = nil
}

// Diagnostics returns the session diagnostics log.
func (v *Video) Diagnostics() *DiagLog {
	return v.diag
}

// Pages returns the physical pages currently backing the work, front and back roles.
func (v *Video) Pages() (work, front, back int) {
	return v.pages.work, v.pages.front, v.pages.back
}

// Palette returns the active and pending palette ids (0xFF when none).
func (v *Video) Palette() (current, pending uint8) {
	return v.currentPal, v.nextPal
}

// SetDisplayHeads toggles the head sprite overlays.
func (v *Video) SetDisplayHeads(on bool) {
	v.displayHeads = on
}

// HeadsEnabled reports whether composite shapes currently emit head sprites.
func (v *Video) HeadsEnabled() bool {
	return v.hasHeads && v.displayHeads && v.be.RenderMode() != RenderOriginal
}

// DrawShape draws the shape found at offset in data, anchored at pt.
func (v *Video) DrawShape(data []byte, offset uint16, color Color, zoom uint16, pt Point) {
	cur := NewCursor(data, int(offset), v.littleEndian)
	if v.res.DataType() == Data3DO {
		v.drawShape3DO(cur, color, zoom, pt, 0)
	} else {
		v.drawShape(cur, color, zoom, pt, 0)
	}
	if cur.Overrun() {
		v.warn("shape", "stream_overrun", "offset=0x%04X len=%d", offset, len(data))
	}
}

// SetDefaultFont selects the backend's built-in font.
func (v *Video) SetDefaultFont() {
	v.be.SetFont(nil, 0, 0)
}

// SetFont decodes a font image and installs it as the glyph atlas.
func (v *Video) SetFont(raw []byte) {
	img, err := decodeImage(raw, true, -1)
	if err != nil {
		v.warn("font", "decode_failed", "%v", err)
		return
	}
	v.be.SetFont(img.Pix, img.Width, img.Height)
}

// headsColorKey is the background colour of the head sprite sheet.
const headsColorKey = 0xF06080

// SetHeads decodes the head sprite sheet (2x2 cells) and enables head overlays.
func (v *Video) SetHeads(raw []byte) {
	img, err := decodeImage(raw, true, headsColorKey)
	if err != nil {
		v.warn("font", "heads_decode_failed", "%v", err)
		return
	}
	v.be.SetSpriteAtlas(img.Pix, img.Width, img.Height, 2, 2)
	v.hasHeads = true
}

// CopyBitmap decodes a full screen bitmap and draws it into page 0.
func (v *Video) CopyBitmap(raw []byte) {
	bm, err := DecodeBitmap(v.res.DataType(), raw)
	if err != nil {
		v.warn("bitmap", "decode_failed", "%v", err)
		return
	}
	v.be.AddBitmap(0, bm.Pix, bm.Width, bm.Height, bm.Format)
}

func (v *Video) warn(category, key, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	v.diag.Add(category, key, msg)
	v.logger().Warn(msg, "category", category, "key", key)
}

func (v *Video) debug(msg string, args ...any) {
	v.logger().Debug(msg, args...)
}

func (v *Video) logger() *slog.Logger {
	if v.log != nil {
		return v.log
	}
	return Logger()
}
