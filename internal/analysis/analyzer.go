package analysis

import (
	"strings"

	"pulse/internal/lexicon"
)

// Analyzer groups the heuristic extractors around one injected lexicon.
// Every method is a pure function of its message-slice input: extractors keep
// no state and never depend on another extractor's intermediate results, so
// callers may run them in any order.
type Analyzer struct {
	lex *lexicon.Lexicon
}

// New builds an analyzer; a nil lexicon falls back to the built-in one.
func New(lex *lexicon.Lexicon) *Analyzer {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Analyzer{lex: lex}
}

// Lexicon exposes the injected vocabulary, mainly for wiring and tests.
func (a *Analyzer) Lexicon() *lexicon.Lexicon {
	return a.lex
}

// Signal is the capability every extractor result shares, so the report
// assembler can render section summaries without type inspection.
type Signal interface {
	Summarize() string
}

// prefix truncates text to at most n runes, used for evidence excerpts.
func prefix(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}

// hasMention reports whether the text carries a chat at-mention marker.
func hasMention(text string) bool {
	return strings.Contains(text, "<@") || strings.Contains(text, "@")
}
