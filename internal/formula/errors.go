package formula

import "fmt"

// LexError reports a character the tokenizer does not recognize.
type LexError struct {
	Pos    int
	Char   rune
	Reason string
}

func (e *LexError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unexpected character %q at position %d: %s", e.Char, e.Pos, e.Reason)
	}
	return fmt.Sprintf("unexpected character %q at position %d", e.Char, e.Pos)
}

// ParseError reports a token sequence that does not match the grammar.
type ParseError struct {
	Pos      int
	Expected string
	Found    string
}

func (e *ParseError) Error() string {
	if e.Found != "" {
		return fmt.Sprintf("expected %s at position %d, found %s", e.Expected, e.Pos, e.Found)
	}
	return fmt.Sprintf("expected %s at position %d", e.Expected, e.Pos)
}
