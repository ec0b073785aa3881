package assets

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Garsondee/rawvideo/internal/video"
)

// Config holds the command-line description of a bundle and a scene.
type Config struct {
	Dir      string
	DataType string

	Palette uint
	Bitmap  string
	Fill    uint
	Scroll  int
	Font    string
	Heads   string

	Shape  string
	Offset uint
	Color  uint
	Zoom   uint
	X, Y   int

	Texts []Text
}

// DefaultConfig returns a centred, unscaled shape using per-part colours.
func DefaultConfig() Config {
	return Config{
		Dir:      ".",
		DataType: video.DataDOS.String(),
		Color:    uint(video.ColorPerPart),
		Zoom:     64,
		X:        video.ScreenWidth / 2,
		Y:        video.ScreenHeight / 2,
	}
}

// RegisterFlags binds the config fields to fs, using the current values as
// defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Dir, "data", c.Dir, "bundle directory ("+PaletteFile+", "+StringsFile+", "+PartsFile+")")
	fs.StringVar(&c.DataType, "type", c.DataType, "data type: dos, amiga, atari, 15th, 20th, win31, 3do")
	fs.UintVar(&c.Palette, "palette", c.Palette, "palette id (0-31)")
	fs.StringVar(&c.Bitmap, "bitmap", c.Bitmap, "background bitmap file")
	fs.UintVar(&c.Fill, "fill", c.Fill, "page fill colour when no bitmap is given")
	fs.IntVar(&c.Scroll, "scroll", c.Scroll, "vertical scroll of the background copy (-199..199)")
	fs.StringVar(&c.Font, "font", c.Font, "font atlas image")
	fs.StringVar(&c.Heads, "heads", c.Heads, "head sprite sheet image")
	fs.StringVar(&c.Shape, "shape", c.Shape, "shape stream file")
	fs.UintVar(&c.Offset, "offset", c.Offset, "shape offset in the stream")
	fs.UintVar(&c.Color, "color", c.Color, "shape colour (255 = per part)")
	fs.UintVar(&c.Zoom, "zoom", c.Zoom, "zoom, 64 = 100%")
	fs.IntVar(&c.X, "x", c.X, "shape anchor x")
	fs.IntVar(&c.Y, "y", c.Y, "shape anchor y")
	fs.Func("text", "string request id[@col,y[:color]], repeatable", func(s string) error {
		t, err := ParseText(s)
		if err != nil {
			return err
		}
		c.Texts = append(c.Texts, t)
		return nil
	})
}

// ParseText parses "id[@col,y[:color]]". Numbers accept strconv base prefixes.
func ParseText(s string) (Text, error) {
	t := Text{Color: 1}
	idPart, rest, hasPos := strings.Cut(s, "@")
	id, err := strconv.ParseUint(idPart, 0, 16)
	if err != nil {
		return Text{}, fmt.Errorf("text %q: bad id: %w", s, err)
	}
	t.ID = uint16(id)
	if !hasPos {
		return t, nil
	}
	pos, col, hasColor := strings.Cut(rest, ":")
	xs, ys, ok := strings.Cut(pos, ",")
	if !ok {
		return Text{}, fmt.Errorf("text %q: position must be col,y", s)
	}
	x, errX := strconv.ParseUint(xs, 0, 16)
	y, errY := strconv.ParseUint(ys, 0, 16)
	if err := errors.Join(errX, errY); err != nil {
		return Text{}, fmt.Errorf("text %q: bad position: %w", s, err)
	}
	t.X, t.Y = uint16(x), uint16(y)
	if hasColor {
		c, err := strconv.ParseUint(col, 0, 8)
		if err != nil {
			return Text{}, fmt.Errorf("text %q: bad colour: %w", s, err)
		}
		t.Color = video.Color(c)
	}
	return t, nil
}

// Load reads the bundle and every file the scene references.
func (c *Config) Load() (*Bundle, *Scene, error) {
	dt, ok := video.ParseDataType(c.DataType)
	if !ok {
		return nil, nil, fmt.Errorf("unknown data type %q", c.DataType)
	}
	if c.Palette >= video.NumPalettes {
		return nil, nil, fmt.Errorf("palette %d out of range", c.Palette)
	}
	if err := c.checkRanges(); err != nil {
		return nil, nil, err
	}
	b, err := LoadBundle(c.Dir, dt)
	if err != nil {
		return nil, nil, err
	}

	sc := &Scene{
		Palette: uint8(c.Palette),
		Fill:    video.Color(c.Fill),
		Scroll:  int16(c.Scroll),
		Offset:  uint16(c.Offset),
		Color:   video.Color(c.Color),
		Zoom:    uint16(c.Zoom),
		At:      video.Point{X: c.X, Y: c.Y},
		Texts:   c.Texts,
	}
	for _, f := range []struct {
		path string
		dst  *[]byte
	}{
		{c.Bitmap, &sc.Background},
		{c.Font, &sc.Font},
		{c.Heads, &sc.Heads},
		{c.Shape, &sc.Shape},
	} {
		if f.path == "" {
			continue
		}
		raw, err := os.ReadFile(f.path)
		if err != nil {
			return nil, nil, err
		}
		*f.dst = raw
	}
	return b, sc, nil
}

// checkRanges rejects values that would wrap when narrowed to the scene types.
func (c *Config) checkRanges() error {
	var errs []error
	if c.Scroll <= -video.ScreenHeight || c.Scroll >= video.ScreenHeight {
		errs = append(errs, fmt.Errorf("scroll %d out of range", c.Scroll))
	}
	if c.Fill > 0xFF {
		errs = append(errs, fmt.Errorf("fill colour %d out of range", c.Fill))
	}
	if c.Color > 0xFF {
		errs = append(errs, fmt.Errorf("colour %d out of range", c.Color))
	}
	if c.Offset > 0xFFFF {
		errs = append(errs, fmt.Errorf("offset %d out of range", c.Offset))
	}
	if c.Zoom > 0xFFFF {
		errs = append(errs, fmt.Errorf("zoom %d out of range", c.Zoom))
	}
	return errors.Join(errs...)
}
