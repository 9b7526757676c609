package common

import (
	"unicode/utf16"

	"github.com/rivo/uniseg"
)

// BoundedText is a string holding at most a fixed number of UTF-16 code units.
// Construct it with NewBoundedText; the zero value is the empty string.
type BoundedText struct {
	text      string
	truncated bool
}

// NewBoundedText returns s cut down to at most limit UTF-16 code units.
// Truncation happens at the last grapheme cluster boundary that fits, so a cluster
// (an emoji sequence, a letter with combining marks) is either kept whole or dropped.
// A non-positive limit yields the empty text.
//
// Parameters:
//   - s: the source text
//   - limit: the maximum number of UTF-16 code units to keep
//
// Returns:
//   - BoundedText: the bounded text
func NewBoundedText(s string, limit int) BoundedText {
	if limit <= 0 {
		return BoundedText{truncated: s != ""}
	}

	used := 0
	end := 0
	state := -1
	rest := s
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.StepString(rest, state)
		units := utf16Len(cluster)
		if used+units > limit {
			return BoundedText{text: s[:end], truncated: true}
		}
		used += units
		end += len(cluster)
	}
	return BoundedText{text: s}
}

// String returns the stored text.
func (b BoundedText) String() string {
	return b.text
}

// Truncated reports whether the source text was cut to fit.
func (b BoundedText) Truncated() bool {
	return b.truncated
}

// Len returns the length of the stored text in UTF-16 code units.
func (b BoundedText) Len() int {
	return utf16Len(b.text)
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
