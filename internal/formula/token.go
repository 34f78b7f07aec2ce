package formula

import "fmt"

// TokenType identifies the lexical class of a Token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenEquals
	TokenNumber
	TokenRef
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenLParen
	TokenRParen
)

var tokenNames = map[TokenType]string{
	TokenEOF:    "end of input",
	TokenEquals: "'='",
	TokenNumber: "number",
	TokenRef:    "cell reference",
	TokenPlus:   "'+'",
	TokenMinus:  "'-'",
	TokenStar:   "'*'",
	TokenSlash:  "'/'",
	TokenLParen: "'('",
	TokenRParen: "')'",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token is a single lexical unit. For references Letters and Digits hold the
// two halves of Text.
type Token struct {
	Type    TokenType
	Text    string
	Pos     int
	Letters string
	Digits  string
}

func (t Token) describe() string {
	switch t.Type {
	case TokenEOF:
		return t.Type.String()
	case TokenNumber, TokenRef:
		return fmt.Sprintf("%s %q", t.Type, t.Text)
	default:
		return t.Type.String()
	}
}
