package doctree

import (
	"regexp"
)

// Inline patterns, in priority order when several match at the same position.
// The scan always resolves to the leftmost match first, then to the first
// pattern in this list.
var inlineRules = []inlineRule{
	{kindBoldItalic, regexp.MustCompile(`\*\*\*(.+?)\*\*\*`)},
	{kindBoldItalic, regexp.MustCompile(`___(.+?)___`)},
	{kindBold, regexp.MustCompile(`\*\*(.+?)\*\*`)},
	{kindBold, regexp.MustCompile(`__(.+?)__`)},
	{kindItalic, regexp.MustCompile(`\*([^*]+?)\*`)},
	// Underscores only emphasize at word boundaries (snake_case_names stay untouched).
	{kindItalic, regexp.MustCompile(`\b_([^_]+?)_\b`)},
	{kindCode, regexp.MustCompile("`([^`]+)`")},
	{kindLink, regexp.MustCompile(`\[([^\]]*)\]\(([^)]*)\)`)},
	{kindHardBreak, regexp.MustCompile(`<br\s*/?>`)},
}

type inlineKind int

const (
	kindBoldItalic inlineKind = iota
	kindBold
	kindItalic
	kindCode
	kindLink
	kindHardBreak
)

type inlineRule struct {
	kind inlineKind
	re   *regexp.Regexp
}

// ParseInline tokenizes a single line into runs of plain text and marked spans.
// The scan is a single forward pass with no backtracking and never fails;
// text without any recognized pattern becomes one unmarked run.
func ParseInline(line string) []*Node {
	var runs []*Node

	rest := line
	for rest != "" {
		rule, loc := earliestMatch(rest)
		if loc == nil {
			runs = append(runs, Text(rest))
			break
		}

		// Plain text before the match
		if loc[0] > 0 {
			runs = append(runs, Text(rest[:loc[0]]))
		}

		switch rule.kind {
		case kindBoldItalic:
			runs = append(runs, TextWith(rest[loc[2]:loc[3]], Bold(), Italic()))
		case kindBold:
			runs = append(runs, TextWith(rest[loc[2]:loc[3]], Bold()))
		case kindItalic:
			runs = append(runs, TextWith(rest[loc[2]:loc[3]], Italic()))
		case kindCode:
			runs = append(runs, TextWith(rest[loc[2]:loc[3]], Code()))
		case kindLink:
			runs = append(runs, TextWith(rest[loc[2]:loc[3]], Link(rest[loc[4]:loc[5]])))
		case kindHardBreak:
			runs = append(runs, HardBreak())
		}

		rest = rest[loc[1]:]
	}

	return runs
}

// earliestMatch returns the rule matching closest to the start of the text.
// Ties between rules starting at the same position resolve to the
// highest-priority rule.
func earliestMatch(text string) (inlineRule, []int) {
	var bestRule inlineRule
	var bestLoc []int

	for _, rule := range inlineRules {
		loc := rule.re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		if bestLoc == nil || loc[0] < bestLoc[0] {
			bestRule = rule
			bestLoc = loc
		}
	}

	return bestRule, bestLoc
}
