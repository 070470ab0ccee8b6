package parser

import (
	"regexp"
	"strings"
)

// Anchor describes the label that identifies a field's line: either a literal
// substring or a regular expression.
type Anchor struct {
	literal string
	re      *regexp.Regexp
}

// Literal returns an anchor matching the first occurrence of label in a line.
func Literal(label string) Anchor {
	return Anchor{literal: label}
}

// Pattern returns an anchor matching a regular expression. It panics if expr
// does not compile, so anchors are meant to be package-level values.
func Pattern(expr string) Anchor {
	return Anchor{re: regexp.MustCompile(expr)}
}

func (a Anchor) String() string {
	if a.re != nil {
		return a.re.String()
	}
	return a.literal
}

// locate returns the byte offset just past the label within line.
func (a Anchor) locate(line string) (int, bool) {
	if a.re != nil {
		loc := a.re.FindStringIndex(line)
		if loc == nil {
			return 0, false
		}
		return loc[1], true
	}
	if a.literal == "" {
		return 0, false
	}
	i := strings.Index(line, a.literal)
	if i < 0 {
		return 0, false
	}
	return i + len(a.literal), true
}

// Match is one anchored line found by FindAll.
type Match struct {
	Index int    // position in the searched slice
	Line  string // whole normalised line
	Value string // text after the label
}

var spaceRun = regexp.MustCompile(`\s+`)

// NormalizeLine trims the line, turns non-breaking spaces into spaces and
// collapses whitespace runs.
func NormalizeLine(line string) string {
	line = strings.ReplaceAll(line, "\u00a0", " ")
	return strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
}

// SplitLines turns an extracted text blob into its ordered, non-empty lines.
func SplitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = NormalizeLine(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// trimValue strips separators and currency symbols glued to a label, as in
// "ISIN: ..." or "GESAMT€ 12,00".
func trimValue(s string) string {
	return strings.TrimSpace(strings.TrimLeft(s, " :€$£"))
}

// Find locates the first line carrying anchor. With offset 0 it returns the
// text after the label on the same line; otherwise the whole line offset
// lines away from the label. The bool is false when the label is absent or
// the offset runs past the document.
func Find(lines []string, anchor Anchor, offset int) (string, bool) {
	for i, raw := range lines {
		line := NormalizeLine(raw)
		end, ok := anchor.locate(line)
		if !ok {
			continue
		}
		if offset == 0 {
			return trimValue(line[end:]), true
		}
		j := i + offset
		if j < 0 || j >= len(lines) {
			return "", false
		}
		return NormalizeLine(lines[j]), true
	}
	return "", false
}

// FindAll returns every line carrying anchor, in document order.
func FindAll(lines []string, anchor Anchor) []Match {
	var matches []Match
	for i, raw := range lines {
		line := NormalizeLine(raw)
		if end, ok := anchor.locate(line); ok {
			matches = append(matches, Match{Index: i, Line: line, Value: trimValue(line[end:])})
		}
	}
	return matches
}

// Index returns the position of the first line carrying anchor, or -1.
func Index(lines []string, anchor Anchor) int {
	for i, raw := range lines {
		if _, ok := anchor.locate(NormalizeLine(raw)); ok {
			return i
		}
	}
	return -1
}

// Contains reports whether any line carries anchor.
func Contains(lines []string, anchor Anchor) bool {
	return Index(lines, anchor) >= 0
}

// Section returns the lines strictly between the first start line and the
// next end line after it. A missing end extends the section to the last
// line; a missing start yields nil.
func Section(lines []string, start, end Anchor) []string {
	from := Index(lines, start)
	if from < 0 {
		return nil
	}
	rest := lines[from+1:]
	if to := Index(rest, end); to >= 0 {
		return rest[:to]
	}
	return rest
}
