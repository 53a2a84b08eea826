package sval

import "strings"

// CommentMarker starts a single-line comment in SVAL source.
const CommentMarker = "%//"

// StripComments removes every comment from text, from CommentMarker through the end
// of its line, and trims surrounding whitespace from the result.
//
// Markers inside quoted attribute values are stripped too; shipped data never
// places one there.
//
// Postcondition: the result contains no CommentMarker and has no leading or
// trailing whitespace.
func StripComments(text string) string {
	if !strings.Contains(text, CommentMarker) {
		return strings.TrimSpace(text)
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if idx := strings.Index(line, CommentMarker); idx >= 0 {
			lines[i] = line[:idx]
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
