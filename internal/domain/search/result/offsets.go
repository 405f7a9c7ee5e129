package result

import (
	"unicode/utf16"
	"unicode/utf8"
)

// textIndex maps character offsets of a body, counted in UTF-16 code units
// as browsers and the search service count them, to byte offsets of its
// UTF-8 encoding.
type textIndex struct {
	// bytes[u] is the byte offset of code unit u, or -1 when u is the second
	// half of a surrogate pair. The last entry is len(text).
	bytes []int
}

func newTextIndex(text string) textIndex {
	idx := make([]int, 0, len(text)+1)
	for i, r := range text {
		idx = append(idx, i)
		if utf16.RuneLen(r) == 2 {
			idx = append(idx, -1)
		}
	}
	return textIndex{bytes: append(idx, len(text))}
}

// units returns the body length in code units.
func (x textIndex) units() int { return len(x.bytes) - 1 }

// byteOffset converts a code unit offset. ok is false when u is out of range
// or splits a surrogate pair.
func (x textIndex) byteOffset(u int) (int, bool) {
	if u < 0 || u >= len(x.bytes) || x.bytes[u] < 0 {
		return 0, false
	}
	return x.bytes[u], true
}

// unitsIn counts the code units of s.
func unitsIn(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// nextRune returns the byte offset of the rune after the one at i.
func nextRune(s string, i int) int {
	if i >= len(s) {
		return i + 1
	}
	_, size := utf8.DecodeRuneInString(s[i:])
	return i + size
}
