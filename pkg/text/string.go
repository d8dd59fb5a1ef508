package text

import (
	"strings"
)

// IsBlank returns if a text is blank.
func IsBlank(text string) bool {
	return len(strings.TrimSpace(text)) == 0
}

// PrefixLines prepends every line with a fixed prefix.
// Empty lines receive the prefix trimmed of trailing spaces.
func PrefixLines(text string, prefix string) string {
	emptyPrefix := strings.TrimRight(prefix, " ")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = emptyPrefix
		} else {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

// Words not capitalized in book titles, unless in first position.
var smallTitleWords = map[string]bool{
	"a": true, "an": true, "the": true,
	"and": true, "but": true, "or": true, "nor": true,
	"as": true, "at": true, "by": true, "for": true, "in": true,
	"of": true, "off": true, "on": true, "per": true, "to": true, "up": true,
	"via": true, "so": true, "yet": true,
}

// ToBookTitle capitalizes a text following English title case.
func ToBookTitle(text string) string {
	words := strings.Split(text, " ")
	startOfPhrase := true
	for i, word := range words {
		if word == "" {
			continue
		}
		lower := strings.ToLower(word)
		if !startOfPhrase && smallTitleWords[lower] {
			words[i] = lower
		} else {
			words[i] = strings.ToUpper(lower[:1]) + lower[1:]
		}
		startOfPhrase = strings.HasSuffix(word, ":")
	}
	return strings.Join(words, " ")
}

// Indentation returns the number of leading whitespace characters.
// Tabs are not expanded; a tab counts for one.
func Indentation(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}
