package pdf

import (
	"strings"
	"unicode/utf8"
)

// Wrap breaks text into lines no wider than width, as reported by measure.
// Words are packed greedily, explicit newlines always break, and a word
// wider than a whole line is split between runes. Blank text yields no lines.
func Wrap(text string, width float64, measure func(string) float64) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimRight(text, " \t\n")
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		current := ""
		for _, word := range words {
			for measure(word) > width && utf8.RuneCountInString(word) > 1 {
				if current != "" {
					lines = append(lines, current)
					current = ""
				}
				head, tail := splitWord(word, width, measure)
				lines = append(lines, head)
				word = tail
			}

			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if current != "" && measure(candidate) > width {
				lines = append(lines, current)
				current = word
			} else {
				current = candidate
			}
		}
		lines = append(lines, current)
	}
	return lines
}

// WrapAtLeastOne is Wrap, but blank text yields a single empty line.
func WrapAtLeastOne(text string, width float64, measure func(string) float64) []string {
	lines := Wrap(text, width, measure)
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

// splitWord returns the longest prefix of word that fits, at least one rune.
func splitWord(word string, width float64, measure func(string) float64) (string, string) {
	cut := 0
	for i := range word {
		if i == 0 {
			continue
		}
		if measure(word[:i]) > width {
			break
		}
		cut = i
	}
	if cut == 0 {
		_, size := utf8.DecodeRuneInString(word)
		cut = size
	}
	return word[:cut], word[cut:]
}
