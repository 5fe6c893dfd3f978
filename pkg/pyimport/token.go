package pyimport

import (
	"errors"
	"strings"
)

// ErrNoSymbol is returned when no identifier touches the cursor position.
var ErrNoSymbol = errors.New("no identifier at cursor position")

// SymbolAt returns the Python identifier touching the given zero-based
// line/column in text. The cursor may sit anywhere on the identifier or
// immediately after its last character. Dots terminate the token, so
// attribute access like "obj.attr" yields a single component.
func SymbolAt(text string, line, column int) (string, error) {
	lines := strings.Split(text, "\n")
	if line < 0 || line >= len(lines) {
		return "", ErrNoSymbol
	}

	lineText := lines[line]
	if column < 0 {
		return "", ErrNoSymbol
	}

	if column > len(lineText) {
		column = len(lineText)
	}

	start := column
	for start > 0 && isIdentChar(lineText[start-1]) {
		start--
	}

	end := column
	for end < len(lineText) && isIdentChar(lineText[end]) {
		end++
	}

	symbol := lineText[start:end]
	if !validIdentifier(symbol) {
		return "", ErrNoSymbol
	}

	return symbol, nil
}

// validIdentifier reports whether s is a well-formed Python identifier:
// non-empty, identifier characters only, not starting with a digit.
func validIdentifier(s string) bool {
	if s == "" {
		return false
	}

	if s[0] >= '0' && s[0] <= '9' {
		return false
	}

	for i := 0; i < len(s); i++ {
		if !isIdentChar(s[i]) {
			return false
		}
	}

	return true
}

func isIdentChar(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') || ch == '_'
}
