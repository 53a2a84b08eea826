package sval_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/hwextract/internal/sval"
)

func TestStripComments_RemovesToEndOfLine(t *testing.T) {
	in := "<dict> %// opening\n  <int name=\"cost\">10</int>%//trailing\n</dict>"
	got := sval.StripComments(in)
	assert.Equal(t, "<dict> \n  <int name=\"cost\">10</int>\n</dict>", got)
}

func TestStripComments_WholeLineComment(t *testing.T) {
	in := "%// header line\n<array></array>\n%// footer"
	assert.Equal(t, "<array></array>", sval.StripComments(in))
}

func TestStripComments_NoMarkerOnlyTrims(t *testing.T) {
	assert.Equal(t, "<int>1</int>", sval.StripComments("\n\t <int>1</int> \n"))
}

func TestStripComments_PlainSlashesKept(t *testing.T) {
	in := `<string name="path">players/ranger//arrow.unit</string>`
	assert.Equal(t, in, sval.StripComments(in))
}

func TestPropertyStripComments_NoMarkerRemains(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lines := rapid.SliceOfN(rapid.StringMatching(`[a-z <>/%]{0,20}`), 0, 8).Draw(t, "lines")
		got := sval.StripComments(strings.Join(lines, "\n"))
		assert.NotContains(t, got, sval.CommentMarker)
		assert.Equal(t, strings.TrimSpace(got), got)
	})
}
