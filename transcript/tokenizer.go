// Package transcript extracts structured position records from the plain-text
// transcript of a published kura roster. Two roster formats appear in the
// wild: the fixed two-line layout (a primary line carrying the applicant and
// score fields, followed by a continuation line carrying the placement
// location fields) and the older flat list layout with one line per applicant
// that carries the national ID.
package transcript

import (
	"regexp"
	"strings"
)

// LineKind classifies one transcript line.
type LineKind int

const (
	LineIgnored LineKind = iota
	LinePrimary
	LineContinuation
	LineRosterEntry
)

// String returns the string representation of the line kind
func (k LineKind) String() string {
	switch k {
	case LinePrimary:
		return "primary"
	case LineContinuation:
		return "continuation"
	case LineRosterEntry:
		return "roster entry"
	default:
		return "ignored"
	}
}

// ClassifiedLine is one transcript line split into whitespace-delimited tokens.
type ClassifiedLine struct {
	Kind   LineKind
	Tokens []string
}

// A primary line starts with the roster sequence number followed by the
// session start time, e.g. "12 09:30 ...". Detection only, not full parsing.
var primaryPattern = regexp.MustCompile(`^\d+\s+\d{2}:\d{2}`)

// Flat list rosters put a whole applicant on one line: sequence number, full
// name, national ID, district, service score. The national ID and the comma
// decimal score are the distinguishing shape.
var rosterEntryPattern = regexp.MustCompile(`^\d+\s+(.+?)\s+\d{11}\s+(.+?)\s+\d+,\d+$`)

// Classify splits the transcript into lines and classifies each one exactly
// once. Any non-blank line immediately following a primary line is its
// continuation, even when it would match the primary pattern itself; all
// other non-matching lines are ignored. Classify is pure and never fails.
func Classify(text string) []ClassifiedLine {
	lines := strings.Split(text, "\n")
	classified := make([]ClassifiedLine, 0, len(lines))

	prevPrimary := false
	for _, raw := range lines {
		line := strings.TrimSpace(raw)

		switch {
		case prevPrimary && line != "":
			classified = append(classified, ClassifiedLine{
				Kind:   LineContinuation,
				Tokens: strings.Fields(line),
			})
			prevPrimary = false
		case primaryPattern.MatchString(line):
			classified = append(classified, ClassifiedLine{
				Kind:   LinePrimary,
				Tokens: strings.Fields(line),
			})
			prevPrimary = true
		case rosterEntryPattern.MatchString(line):
			classified = append(classified, ClassifiedLine{
				Kind:   LineRosterEntry,
				Tokens: strings.Fields(line),
			})
			prevPrimary = false
		default:
			classified = append(classified, ClassifiedLine{
				Kind:   LineIgnored,
				Tokens: strings.Fields(line),
			})
			prevPrimary = false
		}
	}

	return classified
}
