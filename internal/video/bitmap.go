package video

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"

	_ "golang.org/x/image/bmp" // registers the BMP decoder used by the PC remasters
)

const (
	planeSize   = ScreenWidth * ScreenHeight / 8 // bytes per bitplane
	planeStride = ScreenWidth / 8                // bytes per bitplane row
	numPlanes   = 4
)

// Bitmap is a decoded full screen image ready for AddBitmap.
type Bitmap struct {
	Pix    []byte
	Width  int
	Height int
	Format PixelFormat
}

// DecodeBitmap converts a raw full screen bitmap of the given release.
func DecodeBitmap(dt DataType, raw []byte) (*Bitmap, error) {
	switch dt {
	case DataDOS, DataAmiga:
		if len(raw) < planeSize*numPlanes {
			return nil, &VideoError{
				Operation: "bitmap decode",
				Details:   fmt.Sprintf("planar bitmap needs %d bytes, have %d", planeSize*numPlanes, len(raw)),
				Err:       ErrShortBitmap,
			}
		}
		pix := make([]byte, ScreenWidth*ScreenHeight)
		decodePlanar(raw, pix)
		return &Bitmap{Pix: pix, Width: ScreenWidth, Height: ScreenHeight, Format: FormatCLUT}, nil
	case Data3DO:
		if len(raw) < ScreenWidth*ScreenHeight*2 {
			return nil, &VideoError{
				Operation: "bitmap decode",
				Details:   fmt.Sprintf("3do bitmap needs %d bytes, have %d", ScreenWidth*ScreenHeight*2, len(raw)),
				Err:       ErrShortBitmap,
			}
		}
		pix := make([]byte, ScreenWidth*ScreenHeight*2)
		deinterlace555(raw, ScreenWidth, ScreenHeight, pix)
		return &Bitmap{Pix: pix, Width: ScreenWidth, Height: ScreenHeight, Format: FormatRGB565}, nil
	}
	return decodeImage(raw, false, -1)
}

// decodePlanar slices four interleaved bitplanes into one palette index per
// byte. Plane 3 supplies the most significant bit.
func decodePlanar(src, dst []byte) {
	s, d := 0, 0
	for y := 0; y < ScreenHeight; y++ {
		for w := 0; w < planeStride; w++ {
			p := [numPlanes]byte{
				src[s+planeSize*3],
				src[s+planeSize*2],
				src[s+planeSize*1],
				src[s],
			}
			for j := 0; j < 4; j++ {
				var acc byte
				for i := 0; i < 8; i++ {
					acc <<= 1
					if p[i&3]&0x80 != 0 {
						acc |= 1
					}
					p[i&3] <<= 1
				}
				dst[d] = acc >> 4
				dst[d+1] = acc & 0xF
				d += 2
			}
			s++
		}
	}
}

func rgb555To565(c uint16) uint16 {
	r := (c >> 10) & 31
	g := (c >> 5) & 31
	b := c & 31
	return r<<11 | g<<6 | b
}

// deinterlace555 reads pairs of big-endian 555 pixels, the first for an even
// row and the second for the odd row below it, and stores 565 pixels.
func deinterlace555(src []byte, w, h int, dst []byte) {
	s := 0
	for y := 0; y < h/2; y++ {
		row := y * 2 * w
		for x := 0; x < w; x++ {
			even := rgb555To565(binary.BigEndian.Uint16(src[s:]))
			odd := rgb555To565(binary.BigEndian.Uint16(src[s+2:]))
			binary.LittleEndian.PutUint16(dst[(row+x)*2:], even)
			binary.LittleEndian.PutUint16(dst[(row+w+x)*2:], odd)
			s += 4
		}
	}
}

// decodeImage decodes any registered image format into packed RGB, or RGBA
// when alpha is set. Pixels matching colorKey (0xRRGGBB, negative for none)
// become fully transparent.
func decodeImage(raw []byte, alpha bool, colorKey int) (*Bitmap, error) {
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, &VideoError{Operation: "bitmap decode", Details: "unrecognised image data", Err: err}
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	bpp := 3
	pf := FormatRGB
	if alpha {
		bpp = 4
		pf = FormatRGBA
	}
	pix := make([]byte, 0, w*h*bpp)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(bl>>8)
			pix = append(pix, r8, g8, b8)
			if !alpha {
				continue
			}
			a8 := uint8(a >> 8)
			if colorKey >= 0 && int(r8)<<16|int(g8)<<8|int(b8) == colorKey {
				a8 = 0
			}
			pix = append(pix, a8)
		}
	}
	Logger().Debug("decoded image", "format", format, "w", w, "h", h)
	return &Bitmap{Pix: pix, Width: w, Height: h, Format: pf}, nil
}
