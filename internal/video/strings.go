package video

// stringEntry pairs a string id with its text. Tables end with stringsEnd.
type stringEntry struct {
	id  uint16
	str string
}

// stringsEnd terminates the flat string tables.
const stringsEnd = 0xFFFF

// lineHeight is the vertical advance for a newline; glyphs are 8x8 cells.
const lineHeight = 8

// findString scans a flat table up to its sentinel.
func findString(table []stringEntry, id uint16) (string, bool) {
	for _, se := range table {
		if se.id == stringsEnd {
			break
		}
		if se.id == id {
			return se.str, true
		}
	}
	return "", false
}

// index15th returns the position of id in the anniversary edition id table.
func index15th(id uint16) (int, bool) {
	for i, sid := range stringsID15th {
		if sid == id {
			return i, true
		}
	}
	return 0, false
}

// lookupString resolves id with the strategy of the current release. escapes
// reports whether backslash sequences must be interpreted.
func (v *Video) lookupString(id uint16) (str string, escapes, ok bool) {
	switch v.res.DataType() {
	case Data15thEdition:
		if i, found := index15th(id); found {
			return stringsText15th[i], false, true
		}
		return "", false, false
	case Data20thEdition:
		if i, found := index15th(id); found {
			str, ok = v.res.String(uint16(i))
			return str, true, ok
		}
		return "", true, false
	case DataWin31:
		str, ok = v.res.String(id)
		return str, false, ok
	case Data3DO:
		str, ok = findString(strings3DO, id)
		return str, false, ok
	}
	str, ok = findString(stringsDefault, id)
	return str, false, ok
}

// DrawString lays out string id from column x (in 8 pixel units) and row y
// (in pixels) in the work page.
func (v *Video) DrawString(color Color, x, y, id uint16) {
	str, escapes, ok := v.lookupString(id)
	if !ok {
		v.warn("string", "unknown_string_id", "id=0x%X", id)
		return
	}
	v.debug("draw string", "color", color, "x", x, "y", y, "text", str)
	col := x
	for i := 0; i < len(str); i++ {
		switch {
		case str[i] == '\n':
			y += lineHeight
			x = col
		case str[i] == '\\' && escapes:
			i++
			if i < len(str) && str[i] == 'n' {
				y += lineHeight
				x = col
			}
		default:
			v.be.AddChar(v.pages.work, color, str[i], Point{X: int(x) * 8, Y: int(y)})
			x++
		}
	}
}
