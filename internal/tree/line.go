package tree

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"treemk/internal/safety"
)

// DefaultIndentWidth is the number of indentation columns per nesting level.
const DefaultIndentWidth = 4

const dirMarkers = `/\`

// summaryLine matches the trailer tree(1) prints, e.g. "3 directories, 5 files".
var summaryLine = regexp.MustCompile(`^\d+ director(?:y|ies)(?:, \d+ files?)?$`)

// trailingComment matches an annotation such as "   # sources" after a name.
var trailingComment = regexp.MustCompile(`\s+#.*$`)

// CurrentDir is the root tree(1) prints when run without arguments. It
// stands for the destination directory itself.
const CurrentDir = "."

// DecodeRoot returns the project root name from the first line of a tree.
// The root is a directory whether or not it carries a trailing marker.
// "." and "./" decode to CurrentDir.
func DecodeRoot(raw string) (string, error) {
	name := strings.TrimSpace(strings.TrimRight(raw, "\r"))
	name = strings.TrimLeft(name, "├└─│| ")
	name = trailingComment.ReplaceAllString(strings.TrimSpace(name), "")
	name = strings.TrimRight(strings.TrimSpace(name), dirMarkers)
	name = norm.NFC.String(strings.TrimSpace(name))

	if name == CurrentDir {
		return CurrentDir, nil
	}

	if err := safety.ValidateName(name); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}
	return name, nil
}

// DecodeLine decodes one line below the root. It reports false for lines
// that carry no entry: blank lines, bare continuation bars such as "│   │",
// and the summary line tree(1) appends.
//
// The level is floor(indent/indentWidth)+1 when a branch glyph follows the
// indentation, and floor(indent/indentWidth) when the name sits directly on
// the indentation. Either way it is at least 1. For plain indentation this
// is only an estimate: Build places such lines by Indent column instead.
// A trailing "  # comment" is dropped from the name.
func DecodeLine(raw string, number, indentWidth int) (Line, bool) {
	raw = strings.TrimRight(raw, "\r")
	if strings.TrimSpace(raw) == "" {
		return Line{}, false
	}
	if indentWidth <= 0 {
		indentWidth = DefaultIndentWidth
	}

	indent, rest, afterBar := measureIndent(raw, indentWidth)
	rest, connector, barUsed := stripConnector(rest, afterBar)
	if barUsed {
		// the '|' of "|--" belongs to the connector, like the ├ of ├──
		indent--
	}

	name := trailingComment.ReplaceAllString(strings.TrimSpace(rest), "")
	if name == "" {
		return Line{}, false
	}
	if !connector && indent == 0 && summaryLine.MatchString(name) {
		return Line{}, false
	}

	isDir := strings.HasSuffix(name, "/") || strings.HasSuffix(name, `\`)
	name = strings.TrimSpace(strings.TrimRight(name, dirMarkers))
	if name == "" {
		return Line{}, false
	}

	level := indent / indentWidth
	if connector {
		level++
	}
	if level < 1 {
		level = 1
	}

	return Line{
		Number:    number,
		Raw:       raw,
		Indent:    indent,
		Connector: connector,
		Name:      norm.NFC.String(name),
		IsDir:     isDir,
		Level:     level,
	}, true
}

// measureIndent counts the leading run of indentation characters.
// Tabs count as a full indentation unit.
func measureIndent(raw string, width int) (cols int, rest string, afterBar bool) {
	for i, r := range raw {
		switch r {
		case ' ', '\u00a0', '│':
			cols++
			afterBar = false
		case '|':
			cols++
			afterBar = true
		case '\t':
			cols += width
			afterBar = false
		default:
			return cols, raw[i:], afterBar
		}
	}
	return cols, "", afterBar
}

// stripConnector removes a branch glyph run and the spaces after it.
func stripConnector(rest string, afterBar bool) (name string, connector, barUsed bool) {
	switch {
	case strings.HasPrefix(rest, "├"), strings.HasPrefix(rest, "└"), strings.HasPrefix(rest, "─"):
		return trimSpaces(strings.TrimLeft(rest, "├└─")), true, false
	case strings.HasPrefix(rest, "`--"), strings.HasPrefix(rest, "+--"), strings.HasPrefix(rest, `\--`):
		return trimSpaces(strings.TrimLeft(rest[1:], "-")), true, false
	case afterBar && strings.HasPrefix(rest, "--"):
		return trimSpaces(strings.TrimLeft(rest, "-")), true, true
	}
	return rest, false, false
}

func trimSpaces(s string) string {
	return strings.TrimLeft(s, " \u00a0\t")
}
