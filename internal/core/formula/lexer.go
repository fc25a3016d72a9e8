package formula

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/seamwork/drafter/internal/core/domain"
)

// tokenKind enumerates lexical tokens.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokLParen
	tokRParen
	tokComma
	tokQuestion
	tokColon
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPercent
	tokCaret
	tokNot
	tokAnd
	tokOr
	tokEq
	tokNeq
	tokLt
	tokLe
	tokGt
	tokGe
)

var tokenText = map[tokenKind]string{
	tokEOF:      "end of formula",
	tokNumber:   "number",
	tokIdent:    "identifier",
	tokLParen:   "(",
	tokRParen:   ")",
	tokComma:    ",",
	tokQuestion: "?",
	tokColon:    ":",
	tokPlus:     "+",
	tokMinus:    "-",
	tokStar:     "*",
	tokSlash:    "/",
	tokPercent:  "%",
	tokCaret:    "^",
	tokNot:      "!",
	tokAnd:      "&&",
	tokOr:       "||",
	tokEq:       "==",
	tokNeq:      "!=",
	tokLt:       "<",
	tokLe:       "<=",
	tokGt:       ">",
	tokGe:       ">=",
}

func (k tokenKind) String() string {
	return tokenText[k]
}

// token is one lexeme with its byte offset in the formula.
type token struct {
	kind  tokenKind
	pos   int
	end   int
	text  string
	value float64
	unit  string
}

// unitSuffixes are the literal suffixes accepted after a number.
var unitSuffixes = map[string]domain.Unit{
	"mm":   domain.UnitMillimeter,
	"cm":   domain.UnitCentimeter,
	"m":    domain.UnitMeter,
	"in":   domain.UnitInch,
	"inch": domain.UnitInch,
	"px":   domain.UnitPixel,
}

var operators = []struct {
	text string
	kind tokenKind
}{
	{"&&", tokAnd}, {"||", tokOr}, {"==", tokEq}, {"!=", tokNeq}, {"<=", tokLe}, {">=", tokGe},
	{"(", tokLParen}, {")", tokRParen}, {",", tokComma}, {"?", tokQuestion}, {":", tokColon},
	{"+", tokPlus}, {"-", tokMinus}, {"*", tokStar}, {"/", tokSlash}, {"%", tokPercent},
	{"^", tokCaret}, {"!", tokNot}, {"<", tokLt}, {">", tokGt},
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '#'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// lex splits a formula into tokens. The final token is always tokEOF.
func lex(formula string) ([]token, error) {
	var toks []token
	pos := 0
	for pos < len(formula) {
		r, size := utf8.DecodeRuneInString(formula[pos:])
		switch {
		case unicode.IsSpace(r):
			pos += size
		case r >= '0' && r <= '9' || r == '.':
			tok, err := lexNumber(formula, pos)
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
			pos = tok.end
		case isIdentStart(r):
			end := pos + size
			for end < len(formula) {
				r, size := utf8.DecodeRuneInString(formula[end:])
				if !isIdentPart(r) {
					break
				}
				end += size
			}
			if formula[pos:end] == "#" {
				return nil, syntaxError(formula, pos, "'#' must be followed by an increment name")
			}
			toks = append(toks, token{kind: tokIdent, pos: pos, end: end, text: formula[pos:end]})
			pos = end
		default:
			matched := false
			for _, op := range operators {
				if strings.HasPrefix(formula[pos:], op.text) {
					end := pos + len(op.text)
					toks = append(toks, token{kind: op.kind, pos: pos, end: end, text: op.text})
					pos = end
					matched = true
					break
				}
			}
			if !matched {
				return nil, syntaxError(formula, pos, "unexpected character "+strconv.QuoteRune(r))
			}
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(formula), end: len(formula)})
	return toks, nil
}

// lexNumber scans digits, an optional fraction, an optional exponent and an
// optional unit suffix.
func lexNumber(formula string, start int) (token, error) {
	pos := start
	digits := func() int {
		n := 0
		for pos < len(formula) && formula[pos] >= '0' && formula[pos] <= '9' {
			pos++
			n++
		}
		return n
	}
	n := digits()
	if pos < len(formula) && formula[pos] == '.' {
		pos++
		n += digits()
	}
	if n == 0 {
		return token{}, syntaxError(formula, start, "malformed number")
	}
	if pos < len(formula) && (formula[pos] == 'e' || formula[pos] == 'E') {
		save := pos
		pos++
		if pos < len(formula) && (formula[pos] == '+' || formula[pos] == '-') {
			pos++
		}
		if digits() == 0 {
			pos = save
		}
	}
	numEnd := pos
	value, err := strconv.ParseFloat(formula[start:numEnd], 64)
	if err != nil {
		return token{}, syntaxError(formula, start, "malformed number")
	}

	tok := token{kind: tokNumber, pos: start, text: formula[start:numEnd], value: value}
	end := numEnd
	for end < len(formula) {
		r, size := utf8.DecodeRuneInString(formula[end:])
		if !isIdentPart(r) {
			break
		}
		end += size
	}
	if end > numEnd {
		suffix := formula[numEnd:end]
		if _, ok := unitSuffixes[suffix]; !ok {
			return token{}, syntaxError(formula, numEnd, "unknown unit suffix "+strconv.Quote(suffix))
		}
		tok.unit = suffix
		tok.text = formula[start:end]
	}
	tok.end = end
	return tok, nil
}

func syntaxError(formula string, pos int, msg string) *domain.EvalError {
	return &domain.EvalError{Kind: domain.EvalSyntax, Formula: formula, Pos: pos, Msg: msg}
}
