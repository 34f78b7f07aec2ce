package formula

import (
	"strconv"
	"strings"

	"github.com/vk/gridcalc/internal/celladdr"
)

// Op is a binary arithmetic operator.
type Op byte

const (
	OpAdd Op = '+'
	OpSub Op = '-'
	OpMul Op = '*'
	OpDiv Op = '/'
)

func (o Op) String() string { return string(rune(o)) }

// Expr is a node of an expression tree.
type Expr interface {
	// Pos is the byte offset of the node in the cell text.
	Pos() int
	exprNode()
}

// Literal is a numeric constant.
type Literal struct {
	Value float64
	At    int
}

// Ref names another cell. Addr is filled in by Resolve.
type Ref struct {
	Letters string
	Digits  string
	At      int
	Addr    celladdr.Address
}

// Binary applies Op to Left and Right.
type Binary struct {
	Op    Op
	Left  Expr
	Right Expr
	At    int
}

// Neg is unary minus.
type Neg struct {
	Operand Expr
	At      int
}

func (e *Literal) Pos() int { return e.At }
func (e *Ref) Pos() int     { return e.At }
func (e *Binary) Pos() int  { return e.At }
func (e *Neg) Pos() int     { return e.At }

func (*Literal) exprNode() {}
func (*Ref) exprNode()     {}
func (*Binary) exprNode()  {}
func (*Neg) exprNode()     {}

// Name returns the reference as written, e.g. "AB12".
func (e *Ref) Name() string { return e.Letters + e.Digits }

// Walk calls fn for every node of e in depth-first, left-to-right order.
func Walk(e Expr, fn func(Expr)) {
	if e == nil {
		return
	}
	fn(e)
	switch n := e.(type) {
	case *Binary:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *Neg:
		Walk(n.Operand, fn)
	}
}

// Refs returns the reference nodes of e in source order.
func Refs(e Expr) []*Ref {
	var refs []*Ref
	Walk(e, func(n Expr) {
		if r, ok := n.(*Ref); ok {
			refs = append(refs, r)
		}
	})
	return refs
}

// Resolve fills in Addr for every reference in e. It stops at the first
// reference that falls outside b and returns its error.
func Resolve(e Expr, b celladdr.Bounds) error {
	for _, r := range Refs(e) {
		addr, err := celladdr.Resolve(r.Letters, r.Digits, b)
		if err != nil {
			return err
		}
		r.Addr = addr
	}
	return nil
}

// Format renders e in a canonical, fully parenthesized form.
func Format(e Expr) string {
	var sb strings.Builder
	format(&sb, e)
	return sb.String()
}

func format(sb *strings.Builder, e Expr) {
	switch n := e.(type) {
	case *Literal:
		sb.WriteString(strconv.FormatFloat(n.Value, 'f', -1, 64))
	case *Ref:
		sb.WriteString(n.Name())
	case *Neg:
		sb.WriteByte('-')
		format(sb, n.Operand)
	case *Binary:
		sb.WriteByte('(')
		format(sb, n.Left)
		sb.WriteByte(' ')
		sb.WriteString(n.Op.String())
		sb.WriteByte(' ')
		format(sb, n.Right)
		sb.WriteByte(')')
	}
}
