// Package assets loads raw resource blocks from disk and serves them to the
// video core.
package assets

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/Garsondee/rawvideo/internal/video"
)

// File names looked up inside a bundle directory. All are optional.
const (
	PaletteFile = "palette.bin"
	StringsFile = "strings.txt"
	PartsFile   = "parts.bin"
)

// Bundle is an in-memory resource set implementing video.Resource and
// video.PartVertexSource.
type Bundle struct {
	dt      video.DataType
	palette []byte
	strs    map[uint16]string
	parts   [][]byte
}

// NewBundle creates a bundle from already loaded blocks.
func NewBundle(dt video.DataType, palette []byte, strs map[uint16]string, parts [][]byte) *Bundle {
	if strs == nil {
		strs = map[uint16]string{}
	}
	return &Bundle{dt: dt, palette: palette, strs: strs, parts: parts}
}

// LoadBundle reads the bundle files found in dir.
func LoadBundle(dir string, dt video.DataType) (*Bundle, error) {
	palette, err := readOptional(filepath.Join(dir, PaletteFile))
	if err != nil {
		return nil, err
	}

	strs := map[uint16]string{}
	if raw, err := readOptional(filepath.Join(dir, StringsFile)); err != nil {
		return nil, err
	} else if raw != nil {
		// 20th edition text keeps its escapes; the string renderer decodes them.
		strs, err = ParseStrings(bytes.NewReader(raw), dt != video.Data20thEdition)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", StringsFile, err)
		}
	}

	var parts [][]byte
	if raw, err := readOptional(filepath.Join(dir, PartsFile)); err != nil {
		return nil, err
	} else if raw != nil {
		parts, err = SplitParts(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", PartsFile, err)
		}
	}
	return NewBundle(dt, palette, strs, parts), nil
}

func readOptional(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return raw, err
}

func (b *Bundle) DataType() video.DataType { return b.dt }

func (b *Bundle) PaletteData() []byte { return b.palette }

func (b *Bundle) String(id uint16) (string, bool) {
	s, ok := b.strs[id]
	return s, ok
}

// PartVertices returns the outline of a 3DO immediate part, or nil.
func (b *Bundle) PartVertices(part int) []byte {
	if part < 0 || part >= len(b.parts) {
		return nil
	}
	return b.parts[part]
}

// ParseStrings reads "id=text" lines of UTF-8 text. Ids accept any strconv
// base prefix (0x192, 402). Blank lines and lines starting with '#' are
// skipped. With unescape set, a literal \n in the text becomes a newline.
// Text is stored in Windows-1252, the single byte code page of the fonts.
func ParseStrings(r io.Reader, unescape bool) (map[uint16]string, error) {
	out := map[uint16]string{}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" || strings.HasPrefix(text, "#") {
			continue
		}
		key, val, ok := strings.Cut(text, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: missing '='", line)
		}
		id, err := strconv.ParseUint(strings.TrimSpace(key), 0, 16)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad id %q: %w", line, key, err)
		}
		if unescape {
			val = strings.ReplaceAll(val, `\n`, "\n")
		}
		enc, err := charmap.Windows1252.NewEncoder().String(val)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out[uint16(id)] = enc
	}
	return out, sc.Err()
}

// SplitParts cuts a concatenation of part outlines into records. Each record is
// w, h followed by h pairs of (left x, right x).
func SplitParts(raw []byte) ([][]byte, error) {
	var parts [][]byte
	for pos := 0; pos < len(raw); {
		if pos+2 > len(raw) {
			return nil, fmt.Errorf("part %d: truncated header at %d", len(parts), pos)
		}
		n := 2 + 2*int(raw[pos+1])
		if pos+n > len(raw) {
			return nil, fmt.Errorf("part %d: need %d bytes at %d, have %d", len(parts), n, pos, len(raw)-pos)
		}
		parts = append(parts, raw[pos:pos+n])
		pos += n
	}
	return parts, nil
}
