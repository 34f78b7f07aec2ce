package formula

import (
	"unicode/utf8"
)

type lexer struct {
	src string
	pos int
}

// Tokenize splits raw cell text into tokens. A leading "=" (after optional
// whitespace) becomes a TokenEquals; "=" anywhere else is rejected. The
// returned slice always ends with a TokenEOF positioned at len(src).
func Tokenize(src string) ([]Token, error) {
	l := &lexer{src: src}
	var toks []Token
	first := true
	for {
		l.skipSpace()
		if l.pos >= len(l.src) {
			toks = append(toks, Token{Type: TokenEOF, Pos: len(l.src)})
			return toks, nil
		}
		tok, err := l.next(first)
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		first = false
	}
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ', '\t', '\n', '\r':
			l.pos++
		default:
			return
		}
	}
}

func (l *lexer) next(first bool) (Token, error) {
	start := l.pos
	c := l.src[l.pos]
	single := func(tt TokenType) (Token, error) {
		l.pos++
		return Token{Type: tt, Text: l.src[start:l.pos], Pos: start}, nil
	}

	switch {
	case c == '=' && first:
		return single(TokenEquals)
	case c == '+':
		return single(TokenPlus)
	case c == '-':
		return single(TokenMinus)
	case c == '*':
		return single(TokenStar)
	case c == '/':
		return single(TokenSlash)
	case c == '(':
		return single(TokenLParen)
	case c == ')':
		return single(TokenRParen)
	case isDigit(c) || c == '.':
		return l.scanNumber()
	case isUpper(c):
		return l.scanRef()
	}
	return Token{}, l.errAt(start, "")
}

// scanNumber accepts digits with at most one '.', requiring at least one digit.
func (l *lexer) scanNumber() (Token, error) {
	start := l.pos
	digits, dot := 0, false
scan:
	for ; l.pos < len(l.src); l.pos++ {
		c := l.src[l.pos]
		switch {
		case isDigit(c):
			digits++
		case c == '.':
			if dot {
				return Token{}, l.errAt(l.pos, "number has more than one decimal point")
			}
			dot = true
		default:
			break scan
		}
	}
	if digits == 0 {
		return Token{}, l.errAt(start, "decimal point without digits")
	}
	if l.pos < len(l.src) && isUpper(l.src[l.pos]) {
		return Token{}, l.errAt(l.pos, "number followed by letters")
	}
	return Token{Type: TokenNumber, Text: l.src[start:l.pos], Pos: start}, nil
}

// scanRef accepts one or more uppercase letters followed by one or more digits.
func (l *lexer) scanRef() (Token, error) {
	start := l.pos
	for l.pos < len(l.src) && isUpper(l.src[l.pos]) {
		l.pos++
	}
	split := l.pos
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
	if l.pos == split {
		if l.pos < len(l.src) {
			return Token{}, l.errAt(l.pos, "cell reference needs a row number")
		}
		return Token{}, l.errAt(start, "cell reference needs a row number")
	}
	if l.pos < len(l.src) && (isUpper(l.src[l.pos]) || l.src[l.pos] == '.') {
		return Token{}, l.errAt(l.pos, "malformed cell reference")
	}
	return Token{
		Type:    TokenRef,
		Text:    l.src[start:l.pos],
		Pos:     start,
		Letters: l.src[start:split],
		Digits:  l.src[split:l.pos],
	}, nil
}

func (l *lexer) errAt(pos int, reason string) *LexError {
	r, _ := utf8.DecodeRuneInString(l.src[pos:])
	return &LexError{Pos: pos, Char: r, Reason: reason}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
