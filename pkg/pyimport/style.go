// Package pyimport derives Python import statements from cursor positions
// and project-relative file paths, and inserts them into document text.
package pyimport

import (
	"errors"
	"fmt"
)

// Style selects the form of the generated import statement.
type Style string

const (
	// StyleFrom produces "from a.b.c import x".
	StyleFrom Style = "from"
	// StyleDotted produces "import a.b.c.x".
	StyleDotted Style = "dotted"
	// StyleRelative would produce "from ..b.c import x". Declared for
	// completeness; not implemented.
	StyleRelative Style = "relative"
)

// ErrUnsupportedStyle is returned for styles the writer cannot render.
var ErrUnsupportedStyle = errors.New("unsupported import style")

// ParseStyle converts a configuration string into a Style.
func ParseStyle(s string) (Style, error) {
	switch Style(s) {
	case StyleFrom, StyleDotted:
		return Style(s), nil
	case StyleRelative:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedStyle, s)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedStyle, s)
	}
}
