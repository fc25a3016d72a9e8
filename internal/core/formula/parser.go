package formula

import (
	"fmt"
	"slices"

	"github.com/seamwork/drafter/internal/core/domain"
)

// node is an expression tree element.
type node interface {
	position() int
}

type numberNode struct {
	pos   int
	value float64
	unit  string
}

type identNode struct {
	pos  int
	name string
}

type unaryNode struct {
	pos int
	op  tokenKind
	x   node
}

type binaryNode struct {
	pos  int
	op   tokenKind
	x, y node
}

type ternaryNode struct {
	pos             int
	cond, then, els node
}

type callNode struct {
	pos  int
	name string
	args []node
}

func (n *numberNode) position() int  { return n.pos }
func (n *identNode) position() int   { return n.pos }
func (n *unaryNode) position() int   { return n.pos }
func (n *binaryNode) position() int  { return n.pos }
func (n *ternaryNode) position() int { return n.pos }
func (n *callNode) position() int    { return n.pos }

// parser is a recursive descent parser. Precedence from lowest:
//
//	?:  ||  &&  comparisons  + -  * / %  unary + - !  ^
type parser struct {
	formula string
	toks    []token
	i       int
}

// parse builds the expression tree of a formula.
func parse(formula string) (node, error) {
	toks, err := lex(formula)
	if err != nil {
		return nil, err
	}
	p := &parser{formula: formula, toks: toks}
	if p.peek().kind == tokEOF {
		return nil, syntaxError(formula, 0, "empty formula")
	}
	n, err := p.ternary()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, syntaxError(formula, t.pos, fmt.Sprintf("unexpected %q", t.text))
	}
	return n, nil
}

func (p *parser) peek() token {
	return p.toks[p.i]
}

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) expect(kind tokenKind) (token, error) {
	t := p.next()
	if t.kind != kind {
		return t, p.unexpected(t, "expected "+kind.String())
	}
	return t, nil
}

func (p *parser) unexpected(t token, msg string) *domain.EvalError {
	if t.kind == tokEOF {
		return syntaxError(p.formula, t.pos, msg+", found end of formula")
	}
	return syntaxError(p.formula, t.pos, fmt.Sprintf("%s, found %q", msg, t.text))
}

func (p *parser) ternary() (node, error) {
	cond, err := p.binary(0)
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokQuestion {
		return cond, nil
	}
	q := p.next()
	then, err := p.ternary()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokColon); err != nil {
		return nil, err
	}
	els, err := p.ternary()
	if err != nil {
		return nil, err
	}
	return &ternaryNode{pos: q.pos, cond: cond, then: then, els: els}, nil
}

// binaryLevels lists left-associative binary operators by increasing precedence.
var binaryLevels = [][]tokenKind{
	{tokOr},
	{tokAnd},
	{tokEq, tokNeq, tokLt, tokLe, tokGt, tokGe},
	{tokPlus, tokMinus},
	{tokStar, tokSlash, tokPercent},
}

func (p *parser) binary(level int) (node, error) {
	if level == len(binaryLevels) {
		return p.unary()
	}
	x, err := p.binary(level + 1)
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if !slices.Contains(binaryLevels[level], t.kind) {
			return x, nil
		}
		p.next()
		y, err := p.binary(level + 1)
		if err != nil {
			return nil, err
		}
		x = &binaryNode{pos: t.pos, op: t.kind, x: x, y: y}
	}
}

func (p *parser) unary() (node, error) {
	t := p.peek()
	switch t.kind {
	case tokPlus, tokMinus, tokNot:
		p.next()
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &unaryNode{pos: t.pos, op: t.kind, x: x}, nil
	}
	return p.power()
}

// power is right associative and binds tighter than unary minus on its left,
// so -2^2 is -4 while 2^-1 is 0.5.
func (p *parser) power() (node, error) {
	base, err := p.primary()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokCaret {
		return base, nil
	}
	t := p.next()
	exp, err := p.unary()
	if err != nil {
		return nil, err
	}
	return &binaryNode{pos: t.pos, op: tokCaret, x: base, y: exp}, nil
}

func (p *parser) primary() (node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return &numberNode{pos: t.pos, value: t.value, unit: t.unit}, nil
	case tokIdent:
		if p.peek().kind != tokLParen {
			return &identNode{pos: t.pos, name: t.text}, nil
		}
		p.next()
		call := &callNode{pos: t.pos, name: t.text}
		if p.peek().kind == tokRParen {
			p.next()
			return call, nil
		}
		for {
			arg, err := p.ternary()
			if err != nil {
				return nil, err
			}
			call.args = append(call.args, arg)
			sep := p.next()
			if sep.kind == tokRParen {
				return call, nil
			}
			if sep.kind != tokComma {
				return nil, p.unexpected(sep, "expected , or )")
			}
		}
	case tokLParen:
		x, err := p.ternary()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return x, nil
	default:
		return nil, p.unexpected(t, "expected a value")
	}
}
