package assets

import (
	"github.com/Garsondee/rawvideo/internal/video"
)

// Text is one string request of a scene.
type Text struct {
	ID    uint16
	X     uint16 // column
	Y     uint16 // pixel row
	Color video.Color
}

// Scene is one frame of draw requests: an optional background, a shape and a
// list of strings, drawn into the back page and presented.
type Scene struct {
	Palette uint8

	Background []byte      // raw bitmap block; nil clears the page to Fill
	Fill       video.Color // used without a background
	Scroll     int16       // vertical scroll applied when copying the background

	Font  []byte // nil selects the built-in font
	Heads []byte

	Shape  []byte
	Offset uint16
	Color  video.Color
	Zoom   uint16
	At     video.Point

	Texts []Text
}

// Render issues the scene through v. It can be called repeatedly; every call
// presents a new frame.
func (s *Scene) Render(v *video.Video) {
	if s.Font != nil {
		v.SetFont(s.Font)
	} else {
		v.SetDefaultFont()
	}
	if s.Heads != nil {
		v.SetHeads(s.Heads)
	}
	v.ChangePalette(s.Palette)

	if s.Background != nil {
		v.CopyBitmap(s.Background)
		src := uint8(0)
		if s.Scroll != 0 {
			src |= 0x80
		}
		v.CopyPage(src, video.PageBack, s.Scroll)
	} else {
		v.FillPage(video.PageBack, s.Fill)
	}

	v.SetWorkPage(video.PageBack)
	if len(s.Shape) > 0 {
		v.DrawShape(s.Shape, s.Offset, s.Color, s.Zoom, s.At)
	}
	for _, t := range s.Texts {
		v.DrawString(t.Color, t.X, t.Y, t.ID)
	}
	v.UpdateDisplay(video.PageBack)
}
