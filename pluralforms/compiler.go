package pluralforms

import (
	"fmt"
	"strconv"
)

// Tokens that do not map to a single character. Single character tokens
// are returned as their byte value.
const (
	eofTok = iota
	invalidTok
	numTok = iota + 255
	neTok
	ltTok
	lteTok
	gtTok
	gteTok
)

type lexer struct {
	data string
	pos  int
}

func (l *lexer) Lex() (tok int, num int64) {
	for {
		if l.pos >= len(l.data) {
			return eofTok, 0
		}
		if l.data[l.pos] != ' ' && l.data[l.pos] != '\t' && l.data[l.pos] != '\r' {
			break
		}
		l.pos += 1
	}

	pos := l.pos
	result := int(l.data[pos])
	l.pos += 1
	switch result {
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		for l.pos < len(l.data) && l.data[l.pos] >= '0' && l.data[l.pos] <= '9' {
			l.pos += 1
		}
		if num, err := strconv.ParseInt(l.data[pos:l.pos], 10, 32); err == nil {
			return numTok, num
		}
		return invalidTok, 0
	case '=':
		if l.pos < len(l.data) && l.data[l.pos] == '=' {
			l.pos += 1
			return result, 0
		}
		return invalidTok, 0
	case '!':
		if l.pos < len(l.data) && l.data[l.pos] == '=' {
			l.pos += 1
			return neTok, 0
		}
		return result, 0
	case '&', '|':
		if l.pos < len(l.data) && l.data[l.pos] == l.data[pos] {
			l.pos += 1
			return result, 0
		}
		return invalidTok, 0
	case '<':
		if l.pos < len(l.data) && l.data[l.pos] == '=' {
			l.pos += 1
			return lteTok, 0
		}
		return ltTok, 0
	case '>':
		if l.pos < len(l.data) && l.data[l.pos] == '=' {
			l.pos += 1
			return gteTok, 0
		}
		return gtTok, 0
	case 'n', '?', ':', '(', ')', '*', '/', '%', '+', '-':
		// Return as is
		return result, 0
	case ';', '\n':
		return eofTok, 0
	default:
		return invalidTok, 0
	}
}

// parser is a recursive descent parser following C operator precedence:
// ternary, ||, &&, equality, relational, additive, multiplicative, unary.
type parser struct {
	l   lexer
	tok int
	num int64
}

func (p *parser) next() {
	p.tok, p.num = p.l.Lex()
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("at offset %d: %s", p.l.pos, fmt.Sprintf(format, args...))
}

func (p *parser) ternary() (Expression, error) {
	test, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.tok != '?' {
		return test, nil
	}
	p.next()
	ifTrue, err := p.ternary()
	if err != nil {
		return nil, err
	}
	if p.tok != ':' {
		return nil, p.errorf("expected ':'")
	}
	p.next()
	ifFalse, err := p.ternary()
	if err != nil {
		return nil, err
	}
	return ternaryExpr{test: test, ifTrue: ifTrue, ifFalse: ifFalse}, nil
}

func (p *parser) or() (Expression, error) {
	left, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.tok == '|' {
		p.next()
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		left = orExpr{left: left, right: right}
	}
	return left, nil
}

func (p *parser) and() (Expression, error) {
	left, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.tok == '&' {
		p.next()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		left = andExpr{left: left, right: right}
	}
	return left, nil
}

func (p *parser) equality() (Expression, error) {
	left, err := p.relational()
	if err != nil {
		return nil, err
	}
	for p.tok == '=' || p.tok == neTok {
		op := p.tok
		p.next()
		right, err := p.relational()
		if err != nil {
			return nil, err
		}
		if op == '=' {
			left = eqExpr{left: left, right: right}
		} else {
			left = neExpr{left: left, right: right}
		}
	}
	return left, nil
}

func (p *parser) relational() (Expression, error) {
	left, err := p.additive()
	if err != nil {
		return nil, err
	}
	for p.tok == ltTok || p.tok == lteTok || p.tok == gtTok || p.tok == gteTok {
		op := p.tok
		p.next()
		right, err := p.additive()
		if err != nil {
			return nil, err
		}
		switch op {
		case ltTok:
			left = ltExpr{left: left, right: right}
		case lteTok:
			left = lteExpr{left: left, right: right}
		case gtTok:
			left = gtExpr{left: left, right: right}
		case gteTok:
			left = gteExpr{left: left, right: right}
		}
	}
	return left, nil
}

func (p *parser) additive() (Expression, error) {
	left, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for p.tok == '+' || p.tok == '-' {
		op := p.tok
		p.next()
		right, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		if op == '+' {
			left = addExpr{left: left, right: right}
		} else {
			left = subExpr{left: left, right: right}
		}
	}
	return left, nil
}

func (p *parser) multiplicative() (Expression, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.tok == '*' || p.tok == '/' || p.tok == '%' {
		op := p.tok
		p.next()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		switch op {
		case '*':
			left = mulExpr{left: left, right: right}
		case '/':
			left = divExpr{left: left, right: right}
		case '%':
			left = modExpr{left: left, right: right}
		}
	}
	return left, nil
}

func (p *parser) unary() (Expression, error) {
	switch p.tok {
	case '!':
		p.next()
		sub, err := p.unary()
		if err != nil {
			return nil, err
		}
		return notExpr{sub: sub}, nil
	case '-':
		p.next()
		sub, err := p.unary()
		if err != nil {
			return nil, err
		}
		return negExpr{sub: sub}, nil
	}
	return p.primary()
}

func (p *parser) primary() (Expression, error) {
	switch p.tok {
	case 'n':
		p.next()
		return varExpr{}, nil
	case numTok:
		value := p.num
		p.next()
		return numberExpr{value}, nil
	case '(':
		p.next()
		expr, err := p.ternary()
		if err != nil {
			return nil, err
		}
		if p.tok != ')' {
			return nil, p.errorf("expected ')'")
		}
		p.next()
		return expr, nil
	case eofTok:
		return nil, p.errorf("unexpected end of expression")
	}
	return nil, p.errorf("unexpected token")
}

// Compile a string containing a plural form expression to a Expression object.
func Compile(expr string) (Expression, error) {
	p := parser{l: lexer{data: expr}}
	p.next()
	exp, err := p.ternary()
	if err == nil && p.tok != eofTok {
		err = p.errorf("trailing input")
	}
	if err != nil {
		return nil, fmt.Errorf("cannot parse expression: %s", err)
	}
	return exp, nil
}
