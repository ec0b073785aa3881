package video

import (
	"fmt"
	"strings"
)

// DiagEntry is one diagnostic raised while serving a request.
type DiagEntry struct {
	Seq      int
	Category string // shape, page, palette, bitmap, font, string
	Key      string // specific condition within the category
	Value    string // human-readable detail
}

// String formats the entry as a fixed-width log line.
//
//	[#0007] shape    odd_vertex_count   count=5
func (e DiagEntry) String() string {
	return fmt.Sprintf("[#%04d] %-8s %-18s %s", e.Seq, e.Category, e.Key, e.Value)
}

// DiagLog collects diagnostics for a session. With a non-zero limit the oldest
// entries are dropped once the limit is reached.
type DiagLog struct {
	entries []DiagEntry
	limit   int
	seq     int
}

// NewDiagLog creates a DiagLog keeping at most limit entries (0 = unbounded).
func NewDiagLog(limit int) *DiagLog {
	return &DiagLog{limit: limit}
}

// Add records a new entry.
func (dl *DiagLog) Add(category, key, value string) {
	dl.seq++
	if dl.limit > 0 && len(dl.entries) >= dl.limit {
		copy(dl.entries, dl.entries[1:])
		dl.entries = dl.entries[:len(dl.entries)-1]
	}
	dl.entries = append(dl.entries, DiagEntry{
		Seq:      dl.seq,
		Category: category,
		Key:      key,
		Value:    value,
	})
}

// Entries returns all retained entries, oldest first.
func (dl *DiagLog) Entries() []DiagEntry {
	return dl.entries
}

// Since returns the retained entries with a sequence number greater than seq.
func (dl *DiagLog) Since(seq int) []DiagEntry {
	for i, e := range dl.entries {
		if e.Seq > seq {
			return dl.entries[i:]
		}
	}
	return nil
}

// Seq returns the sequence number of the last entry added.
func (dl *DiagLog) Seq() int {
	return dl.seq
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (dl *DiagLog) Filter(category, key string) []DiagEntry {
	var out []DiagEntry
	for _, e := range dl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Count returns how many entries match the given category and key.
func (dl *DiagLog) Count(category, key string) int {
	return len(dl.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (dl *DiagLog) LastOf(category, key string) (DiagEntry, bool) {
	entries := dl.Filter(category, key)
	if len(entries) == 0 {
		return DiagEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (dl *DiagLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range dl.Filter(category, key) {
		if strings.Contains(e.Value, valueSubstr) {
			return true
		}
	}
	return false
}

// Reset drops every entry. Sequence numbers keep increasing.
func (dl *DiagLog) Reset() {
	dl.entries = dl.entries[:0]
}

// Format renders all entries, one per line.
func (dl *DiagLog) Format() string {
	var b strings.Builder
	for _, e := range dl.entries {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}
