package video

import "encoding/binary"

// Cursor reads the shape byte stream. It never owns the buffer: the resource
// subsystem keeps it alive for the whole session and many cursors may share it.
// Reads past the end yield zero and set the overrun flag.
type Cursor struct {
	data         []byte
	pos          int
	littleEndian bool
	overrun      bool
	aborted      bool
}

// NewCursor positions a cursor at pos inside data. Words are big-endian unless
// littleEndian is set (3DO data).
func NewCursor(data []byte, pos int, littleEndian bool) *Cursor {
	return &Cursor{data: data, pos: pos, littleEndian: littleEndian}
}

// FetchByte reads one byte and advances by one.
func (c *Cursor) FetchByte() uint8 {
	if c.pos < 0 || c.pos >= len(c.data) {
		c.overrun = true
		c.pos++
		return 0
	}
	b := c.data[c.pos]
	c.pos++
	return b
}

// FetchWord reads a 16-bit word in the session byte order and advances by two.
func (c *Cursor) FetchWord() uint16 {
	if c.pos < 0 || c.pos+2 > len(c.data) {
		hi, lo := c.FetchByte(), c.FetchByte()
		if c.littleEndian {
			hi, lo = lo, hi
		}
		return uint16(hi)<<8 | uint16(lo)
	}
	var w uint16
	if c.littleEndian {
		w = binary.LittleEndian.Uint16(c.data[c.pos:])
	} else {
		w = binary.BigEndian.Uint16(c.data[c.pos:])
	}
	c.pos += 2
	return w
}

// Pos returns the read position relative to the start of the buffer.
func (c *Cursor) Pos() int {
	return c.pos
}

// Seek moves the read position. It does not clear the overrun flag.
func (c *Cursor) Seek(pos int) {
	c.pos = pos
}

// Overrun reports whether any read went past the end of the buffer.
func (c *Cursor) Overrun() bool {
	return c.overrun
}

// Abort marks the draw request reading from c as finished. Like the overrun
// flag it survives Seek.
func (c *Cursor) Abort() {
	c.aborted = true
}

// Stopped reports whether the request was aborted or ran past the end.
// Interpreters stop walking composite parts once it is set.
func (c *Cursor) Stopped() bool {
	return c.aborted || c.overrun
}
