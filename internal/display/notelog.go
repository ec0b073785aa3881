package display

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	noteMaxEntries = 40
	noteLineHeight = 16 // DebugPrint glyphs are 16px tall
	noteTitleH     = 18
)

// Note is a single line in the viewer's notes panel.
type Note struct {
	Seq      int
	Category string // diagnostics category, or "viewer" for local events
	Message  string
}

// NoteLog is a ring buffer of notes rendered over the page view.
type NoteLog struct {
	entries []Note
	head    int
	count   int
}

// NewNoteLog creates a note log with a fixed capacity.
func NewNoteLog() *NoteLog {
	return &NoteLog{
		entries: make([]Note, noteMaxEntries),
	}
}

// Add appends a note, overwriting the oldest once full.
func (nl *NoteLog) Add(seq int, category, msg string) {
	nl.entries[nl.head] = Note{Seq: seq, Category: category, Message: msg}
	nl.head = (nl.head + 1) % noteMaxEntries
	if nl.count < noteMaxEntries {
		nl.count++
	}
}

// Recent returns notes in chronological order (oldest first).
func (nl *NoteLog) Recent() []Note {
	result := make([]Note, nl.count)
	for i := 0; i < nl.count; i++ {
		idx := (nl.head - nl.count + i + noteMaxEntries) % noteMaxEntries
		result[i] = nl.entries[idx]
	}
	return result
}

// Draw renders the panel into the given rectangle, newest note at the bottom.
func (nl *NoteLog) Draw(screen *ebiten.Image, x, y, w, h int) {
	vector.FillRect(screen, float32(x), float32(y), float32(w), float32(h), color.RGBA{R: 10, G: 10, B: 14, A: 230}, false)
	vector.FillRect(screen, float32(x), float32(y), float32(w), noteTitleH, color.RGBA{R: 24, G: 24, B: 40, A: 255}, false)
	vector.StrokeLine(screen, float32(x), float32(y+noteTitleH), float32(x+w), float32(y+noteTitleH), 1.0, color.RGBA{R: 60, G: 60, B: 100, A: 200}, false)
	ebitenutil.DebugPrintAt(screen, "DIAGNOSTICS", x+6, y+1)

	entries := nl.Recent()
	maxVisible := (h - noteTitleH - 4) / noteLineHeight
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}
	ly := y + noteTitleH + 2
	for _, e := range entries {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%4d %-7s %s", e.Seq, e.Category, e.Message), x+6, ly)
		ly += noteLineHeight
	}
}
