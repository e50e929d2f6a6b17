package report

import "strings"

// FlattenBold rewrites double-asterisk bold markers to the single-asterisk
// form the chat platform renders. Runs of asterisks collapse until no double
// marker remains, so applying it twice yields the same text as applying it
// once.
func FlattenBold(text string) string {
	for strings.Contains(text, "**") {
		text = strings.ReplaceAll(text, "**", "*")
	}
	return text
}
