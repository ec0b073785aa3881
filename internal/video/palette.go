package video

import (
	"encoding/binary"
	"fmt"
)

// NumPalettes is the number of palettes in a palette segment.
const NumPalettes = 32

// win31ColorTable is the offset of the 32-bit colour table in Win31 palette data.
const win31ColorTable = 0xC04

// ChangePalette schedules palette id for the next UpdateDisplay. Ids outside
// the segment, the active palette and an already pending id are ignored.
func (v *Video) ChangePalette(id uint8) {
	if id >= NumPalettes || id == v.currentPal || id == v.nextPal {
		return
	}
	v.debug("palette pending", "id", id)
	v.nextPal = id
}

// SetPaletteNow decodes and applies palette id immediately, dropping any
// pending change.
func (v *Video) SetPaletteNow(id uint8) {
	if id >= NumPalettes {
		v.warn("palette", "bad_palette_id", "id=%d", id)
		return
	}
	v.nextPal = paletteNone
	v.applyPalette(id)
}

func (v *Video) applyPalette(id uint8) {
	pal, err := DecodePalette(v.res.DataType(), v.res.PaletteData(), int(id))
	if err != nil {
		v.warn("palette", "decode_failed", "%v", err)
		return
	}
	v.be.SetPalette(&pal)
	v.currentPal = id
}

// DecodePalette extracts palette num from a raw palette segment.
func DecodePalette(dt DataType, raw []byte, num int) (Palette, error) {
	var pal Palette
	if num < 0 || num >= NumPalettes {
		return pal, &VideoError{Operation: "palette decode", Details: fmt.Sprintf("palette %d out of range", num)}
	}
	off := num * 16 * 2
	if len(raw) < off+32 {
		return pal, &VideoError{
			Operation: "palette decode",
			Details:   fmt.Sprintf("%s palette %d needs %d bytes, have %d", dt, num, off+32, len(raw)),
			Err:       ErrShortPalette,
		}
	}
	switch dt {
	case DataWin31:
		return readPaletteWin31(raw, off)
	case Data3DO:
		readPalette3DO(raw[off:], &pal)
	default:
		readPaletteAmiga(raw[off:], &pal)
	}
	return pal, nil
}

// readPaletteWin31 resolves 16 little-endian indices into the colour table.
func readPaletteWin31(raw []byte, off int) (Palette, error) {
	var pal Palette
	for i := range pal {
		index := int(binary.LittleEndian.Uint16(raw[off+i*2:]))
		p := win31ColorTable + index*4
		if p+4 > len(raw) {
			return pal, &VideoError{
				Operation: "palette decode",
				Details:   fmt.Sprintf("win31 colour index %d outside table", index),
				Err:       ErrShortPalette,
			}
		}
		color := binary.LittleEndian.Uint32(raw[p:])
		pal[i] = RGB{R: uint8(color), G: uint8(color >> 8), B: uint8(color >> 16)}
	}
	return pal, nil
}

// readPalette3DO expands big-endian xRRRRRGGGGGBBBBB words.
func readPalette3DO(src []byte, pal *Palette) {
	for i := range pal {
		color := binary.BigEndian.Uint16(src[i*2:])
		r := uint8(color>>10) & 31
		g := uint8(color>>5) & 31
		b := uint8(color) & 31
		pal[i] = RGB{R: expand5(r), G: expand5(g), B: expand5(b)}
	}
}

// readPaletteAmiga expands big-endian 0RGB nibble words.
func readPaletteAmiga(src []byte, pal *Palette) {
	for i := range pal {
		color := binary.BigEndian.Uint16(src[i*2:])
		r := uint8(color>>8) & 0xF
		g := uint8(color>>4) & 0xF
		b := uint8(color) & 0xF
		pal[i] = RGB{R: r<<4 | r, G: g<<4 | g, B: b<<4 | b}
	}
}

func expand5(c uint8) uint8 {
	return c<<3 | c>>2
}
