package pdf

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

// one unit per rune
func runeWidth(s string) float64 {
	return float64(utf8.RuneCountInString(s))
}

func TestWrap(t *testing.T) {
	width := runeWidth("aaaa bbbb")

	tests := []struct {
		name  string
		text  string
		width float64
		want  []string
	}{
		{"greedy packing", "aaaa bbbb cccc", width, []string{"aaaa bbbb", "cccc"}},
		{"explicit newline", "aa\nbb", 100, []string{"aa", "bb"}},
		{"blank line kept between paragraphs", "aa\n\nbb", 100, []string{"aa", "", "bb"}},
		{"collapses spaces", "aa    bb", 100, []string{"aa bb"}},
		{"empty", "", 10, nil},
		{"blank", "  \n\t ", 10, nil},
		{"long word split", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"long word after text", "xy abcdefgh", 4, []string{"xy", "abcd", "efgh"}},
		{"multibyte runes", "ááááá", 2, []string{"áá", "áá", "á"}},
		{"crlf", "aa\r\nbb", 100, []string{"aa", "bb"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Wrap(tt.text, tt.width, runeWidth))
		})
	}
}

func TestWrapAtLeastOne(t *testing.T) {
	assert.Equal(t, []string{""}, WrapAtLeastOne("", 10, runeWidth))
	assert.Equal(t, []string{"aa"}, WrapAtLeastOne("aa", 10, runeWidth))
}

func TestWrapKeepsEveryWord(t *testing.T) {
	text := strings.Repeat("palavra ", 200)
	lines := Wrap(text, 30, runeWidth)

	assert.Equal(t, strings.Fields(text), strings.Fields(strings.Join(lines, " ")))
	for _, l := range lines {
		assert.LessOrEqual(t, runeWidth(l), 30.0)
	}
}
