package text

import "strings"

// UnescapeTestContent supports content using a special character instead of backticks.
func UnescapeTestContent(content string) string {
	// We support a special syntax for backticks in content.
	// Backticks delimit inline code spans and code fences, but
	// multiline strings in Golang cannot contain backticks.

	// We allow the ” character instead as suggested here: https://stackoverflow.com/a/59900008
	//
	// Example: ”printf” will become `printf`
	result := strings.ReplaceAll(content, "”", "`")

	// We allow the ‛ character
	result = strings.ReplaceAll(result, "‛", "`")

	return result
}
