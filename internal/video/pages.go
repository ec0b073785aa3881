package video

// Page aliases accepted wherever a page id is expected.
const (
	PageBack  = 0xFF
	PageFront = 0xFE
)

// pageTable maps the three logical roles to physical pages.
type pageTable struct {
	work  int // active draw target
	front int // presented on the next UpdateDisplay
	back  int
}

// resolve maps a page id or alias to a physical page.
func (pt *pageTable) resolve(id uint8) (int, bool) {
	switch {
	case id < NumPages:
		return int(id), true
	case id == PageBack:
		return pt.back, true
	case id == PageFront:
		return pt.front, true
	}
	return 0, false
}

func (v *Video) resolvePage(id uint8) int {
	p, ok := v.pages.resolve(id)
	if !ok {
		v.warn("page", "bad_page_id", "page=0x%X", id)
	}
	return p
}

// SetWorkPage selects the page that subsequent primitives are drawn into.
func (v *Video) SetWorkPage(page uint8) {
	v.pages.work = v.resolvePage(page)
	v.debug("set work page", "page", page, "physical", v.pages.work)
}

// FillPage clears a page to a single colour.
func (v *Video) FillPage(page uint8, color Color) {
	v.debug("fill page", "page", page, "color", color)
	v.be.ClearPage(v.resolvePage(page), color)
}

// CopyPage copies src into dst. Source ids 0x80..0xBF (bit 6 ignored) request a
// copy of page src&3 scrolled vertically by vscroll; it only happens when the
// two pages differ and the scroll stays inside the canvas height.
func (v *Video) CopyPage(src, dst uint8, vscroll int16) {
	v.debug("copy page", "src", src, "dst", dst, "vscroll", vscroll)
	if src < PageFront {
		src &= 0xBF
		if src&0x80 != 0 {
			sp := v.resolvePage(src & 3)
			dp := v.resolvePage(dst)
			if sp != dp && vscroll >= -(ScreenHeight-1) && vscroll <= ScreenHeight-1 {
				v.be.CopyPageScrolled(dp, sp, int(vscroll))
			}
			return
		}
	}
	v.be.CopyPage(v.resolvePage(dst), v.resolvePage(src))
}

// UpdateDisplay presents a page. PageBack swaps the front and back roles,
// PageFront keeps the current front page, any other id becomes the front page.
// A pending palette change is committed before presenting.
func (v *Video) UpdateDisplay(page uint8) {
	v.debug("update display", "page", page)
	if page != PageFront {
		if page == PageBack {
			v.pages.front, v.pages.back = v.pages.back, v.pages.front
		} else {
			v.pages.front = v.resolvePage(page)
		}
	}
	if v.nextPal != paletteNone {
		v.applyPalette(v.nextPal)
		v.nextPal = paletteNone
	}
	v.be.PresentPage(v.pages.front)
}
