package lsp

import "strings"

// The protocol counts character offsets in UTF-16 code units while the
// resolver works on byte offsets. The helpers here convert between the
// two at the document boundary.

// byteColumn converts a UTF-16 character offset on the given line of
// text into a byte offset. Offsets past the end of the line clamp to
// the line length.
func byteColumn(text string, line, character int) int {
	lines := strings.Split(text, "\n")
	if line < 0 || line >= len(lines) {
		return character
	}

	return utf16ToByteOffset(lines[line], character)
}

// utf16ToByteOffset walks the line rune by rune until the requested
// number of UTF-16 code units has been consumed. Runes outside the
// basic multilingual plane occupy two units.
func utf16ToByteOffset(line string, offset int) int {
	units := 0

	for i, r := range line {
		if units >= offset {
			return i
		}

		units += utf16RuneLen(r)
	}

	return len(line)
}

// utf16Len reports the length of s in UTF-16 code units.
func utf16Len(s string) int {
	units := 0
	for _, r := range s {
		units += utf16RuneLen(r)
	}

	return units
}

func utf16RuneLen(r rune) int {
	if r > 0xFFFF {
		return 2
	}

	return 1
}
