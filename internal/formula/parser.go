package formula

import (
	"strconv"
)

const expectOperand = "number, cell reference, '-' or '('"

type parser struct {
	toks []Token
	pos  int
}

// IsFormula reports whether raw is formula text, i.e. its first non-blank
// character is '='.
func IsFormula(raw string) bool {
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case ' ', '\t', '\n', '\r':
			continue
		case '=':
			return true
		default:
			return false
		}
	}
	return false
}

// IsBlank reports whether raw contains only whitespace.
func IsBlank(raw string) bool {
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case ' ', '\t', '\n', '\r':
		default:
			return false
		}
	}
	return true
}

// Parse parses formula text such as "=A1+5" into an expression tree.
func Parse(raw string) (Expr, error) {
	toks, err := Tokenize(raw)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	if p.peek().Type != TokenEquals {
		return nil, p.errorf("'='")
	}
	p.advance()
	expr, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if p.peek().Type != TokenEOF {
		return nil, p.errorf("operator or end of formula")
	}
	return expr, nil
}

// ParseLiteral parses non-formula cell text: a decimal number with an
// optional leading '-' and surrounding whitespace.
func ParseLiteral(raw string) (float64, error) {
	toks, err := Tokenize(raw)
	if err != nil {
		return 0, err
	}
	p := &parser{toks: toks}
	neg := false
	if t := p.peek(); t.Type == TokenMinus {
		p.advance()
		if n := p.peek(); n.Type == TokenNumber && n.Pos != t.Pos+1 {
			return 0, p.errorf("number directly after '-'")
		}
		neg = true
	}
	t := p.peek()
	if t.Type != TokenNumber {
		return 0, p.errorf("number")
	}
	p.advance()
	if p.peek().Type != TokenEOF {
		return 0, p.errorf("end of input")
	}
	v, err := parseNumber(t)
	if err != nil {
		return 0, err
	}
	if neg {
		v = -v
	}
	return v, nil
}

func (p *parser) peek() Token { return p.toks[p.pos] }

func (p *parser) advance() Token {
	t := p.toks[p.pos]
	if t.Type != TokenEOF {
		p.pos++
	}
	return t
}

func (p *parser) errorf(expected string) *ParseError {
	t := p.peek()
	return &ParseError{Pos: t.Pos, Expected: expected, Found: t.describe()}
}

// parseAdditive handles + and -.
func (p *parser) parseAdditive() (Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		var op Op
		switch t.Type {
		case TokenPlus:
			op = OpAdd
		case TokenMinus:
			op = OpSub
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right, At: t.Pos}
	}
}

// parseMultiplicative handles * and /.
func (p *parser) parseMultiplicative() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		var op Op
		switch t.Type {
		case TokenStar:
			op = OpMul
		case TokenSlash:
			op = OpDiv
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right, At: t.Pos}
	}
}

func (p *parser) parseUnary() (Expr, error) {
	if t := p.peek(); t.Type == TokenMinus {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Neg{Operand: operand, At: t.Pos}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	t := p.peek()
	switch t.Type {
	case TokenNumber:
		p.advance()
		v, err := parseNumber(t)
		if err != nil {
			return nil, err
		}
		return &Literal{Value: v, At: t.Pos}, nil
	case TokenRef:
		p.advance()
		return &Ref{Letters: t.Letters, Digits: t.Digits, At: t.Pos}, nil
	case TokenLParen:
		p.advance()
		inner, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		if p.peek().Type != TokenRParen {
			return nil, p.errorf("')'")
		}
		p.advance()
		return inner, nil
	}
	return nil, p.errorf(expectOperand)
}

func parseNumber(t Token) (float64, error) {
	v, err := strconv.ParseFloat(t.Text, 64)
	if err != nil {
		// Only reachable for literals too large for float64.
		return 0, &ParseError{Pos: t.Pos, Expected: "number within float64 range", Found: t.describe()}
	}
	return v, nil
}
