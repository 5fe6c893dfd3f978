package pyimport

import (
	"regexp"
	"strings"
)

// DefaultLineWidth is the wrap threshold for rebuilt import statements.
// Matches the 76-column convention of PEP 8 era tooling.
const DefaultLineWidth = 76

// continuationIndent prefixes wrapped statement lines.
const continuationIndent = "    "

// fromImportRE matches the head of a from-import statement. The import
// keyword must stand alone so module names containing "import" as a
// substring, such as "importers.pkg", are left intact.
var fromImportRE = regexp.MustCompile(`^from\s+(\S+)\s+import\b`)

// SplitComponents decomposes a from-import statement, possibly spanning
// continuation lines, into its module base and imported names:
//
//	from x.y import a, b, c  ->  ("x.y", ["a", "b", "c"])
//
// Parentheses and backslash continuations are tolerated and discarded.
func SplitComponents(statement string) (string, []string) {
	m := fromImportRE.FindStringSubmatchIndex(statement)
	if m == nil {
		return "", nil
	}

	base := statement[m[2]:m[3]]

	right := statement[m[1]:]
	right = strings.NewReplacer("(", "", ")", "", `\`, "").Replace(right)

	var components []string

	for _, component := range strings.Split(right, ",") {
		component = strings.TrimSpace(component)
		if component != "" {
			components = append(components, component)
		}
	}

	return base, components
}

// buildFromStatement renders a from-import with the given components,
// preserving their order.
func buildFromStatement(base string, components []string) string {
	return "from " + base + " import " + strings.Join(components, ", ")
}

// wrapStatement greedily wraps a statement at width columns, indenting
// continuation lines. Words are never broken.
func wrapStatement(statement string, width int) []string {
	words := strings.Fields(statement)
	if len(words) == 0 {
		return []string{""}
	}

	var (
		lines   []string
		current = words[0]
		indent  = ""
	)

	for _, word := range words[1:] {
		if len(current)+1+len(word) > width {
			lines = append(lines, current)
			indent = continuationIndent
			current = indent + word

			continue
		}

		current += " " + word
	}

	return append(lines, current)
}

// renderWrapped joins wrapped statement lines using the continuation
// mechanism of the statement being replaced: backslashes when it already
// used them, parentheses otherwise.
func renderWrapped(lines []string, useBackslash bool) string {
	if len(lines) == 1 {
		return lines[0]
	}

	joined := strings.Join(lines, "\n")
	if useBackslash {
		return strings.ReplaceAll(joined, "\n", " \\\n")
	}

	return strings.Replace(joined, "import ", "import (", 1) + ")"
}
