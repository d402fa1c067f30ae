package parser

import (
	"strconv"

	"github.com/cwbudde/zinc/internal/ast"
	"github.com/cwbudde/zinc/internal/lexer"
)

// parseCondition is the entry point for boolean expressions (if/while
// conditions); it is a synonym for the or-level of the precedence chain.
func (p *Parser) parseCondition() ast.Expression {
	return p.parseOrExpression()
}

func (p *Parser) parseOrExpression() ast.Expression {
	left := p.parseAndExpression()
	for p.match(lexer.OR) {
		tok := p.advance()
		right := p.parseAndExpression()
		left = &ast.BinaryExpr{Token: tok, Left: left, Operator: "or", Right: right}
	}
	return left
}

func (p *Parser) parseAndExpression() ast.Expression {
	left := p.parseNotExpression()
	for p.match(lexer.AND) {
		tok := p.advance()
		right := p.parseNotExpression()
		left = &ast.BinaryExpr{Token: tok, Left: left, Operator: "and", Right: right}
	}
	return left
}

func (p *Parser) parseNotExpression() ast.Expression {
	if p.match(lexer.NOT, lexer.IT_IS_NOT_THE_CASE_THAT) {
		tok := p.advance()
		operand := p.parseNotExpression()
		return &ast.UnaryExpr{Token: tok, Operator: "not", Operand: operand}
	}
	return p.parseComparison()
}

func (p *Parser) parseComparison() ast.Expression {
	left := p.parseExpression()

	switch {
	case p.match(lexer.GREATER_THAN):
		tok := p.advance()
		return &ast.BinaryExpr{Token: tok, Left: left, Operator: ">", Right: p.parseExpression()}
	case p.match(lexer.LESS_THAN):
		tok := p.advance()
		return &ast.BinaryExpr{Token: tok, Left: left, Operator: "<", Right: p.parseExpression()}
	case p.match(lexer.EQUALS, lexer.SAME_AS):
		tok := p.advance()
		return &ast.BinaryExpr{Token: tok, Left: left, Operator: "==", Right: p.parseExpression()}
	case p.match(lexer.NOT_EQUAL_TO):
		tok := p.advance()
		return &ast.BinaryExpr{Token: tok, Left: left, Operator: "!=", Right: p.parseExpression()}
	case p.match(lexer.AT_LEAST):
		tok := p.advance()
		return &ast.BinaryExpr{Token: tok, Left: left, Operator: ">=", Right: p.parseExpression()}
	case p.match(lexer.AT_MOST):
		tok := p.advance()
		return &ast.BinaryExpr{Token: tok, Left: left, Operator: "<=", Right: p.parseExpression()}
	case p.match(lexer.BETWEEN):
		tok := p.advance()
		low := p.parseExpression()
		p.expect(lexer.AND)
		high := p.parseExpression()
		return &ast.BinaryExpr{
			Token:    tok,
			Left:     &ast.BinaryExpr{Token: tok, Left: left, Operator: ">=", Right: low},
			Operator: "and",
			Right:    &ast.BinaryExpr{Token: tok, Left: left, Operator: "<=", Right: high},
		}
	case p.match(lexer.POSITIVE):
		tok := p.advance()
		return &ast.BinaryExpr{Token: tok, Left: left, Operator: ">", Right: &ast.NumberLiteral{Token: tok, Value: 0}}
	case p.match(lexer.IS_NEGATIVE):
		tok := p.advance()
		return &ast.BinaryExpr{Token: tok, Left: left, Operator: "<", Right: &ast.NumberLiteral{Token: tok, Value: 0}}
	case p.match(lexer.IS_ZERO):
		tok := p.advance()
		return &ast.BinaryExpr{Token: tok, Left: left, Operator: "==", Right: &ast.NumberLiteral{Token: tok, Value: 0}}
	case p.match(lexer.IS_EVEN):
		tok := p.advance()
		return &ast.BinaryExpr{
			Token:    tok,
			Left:     &ast.BinaryExpr{Token: tok, Left: left, Operator: "%", Right: &ast.NumberLiteral{Token: tok, Value: 2}},
			Operator: "==",
			Right:    &ast.NumberLiteral{Token: tok, Value: 0},
		}
	case p.match(lexer.IS_ODD):
		tok := p.advance()
		return &ast.BinaryExpr{
			Token:    tok,
			Left:     &ast.BinaryExpr{Token: tok, Left: left, Operator: "%", Right: &ast.NumberLiteral{Token: tok, Value: 2}},
			Operator: "!=",
			Right:    &ast.NumberLiteral{Token: tok, Value: 0},
		}
	case p.match(lexer.IS_EMPTY):
		tok := p.advance()
		return &ast.BinaryExpr{
			Token:    tok,
			Left:     &ast.CallExpr{Token: tok, Name: "__len__", Arguments: []ast.Expression{left}},
			Operator: "==",
			Right:    &ast.NumberLiteral{Token: tok, Value: 0},
		}
	case p.match(lexer.CONTAINS):
		tok := p.advance()
		right := p.parseExpression()
		return &ast.CallExpr{Token: tok, Name: "strstr", Arguments: []ast.Expression{left, right}}
	}

	return left
}

func (p *Parser) parseExpression() ast.Expression {
	return p.parseAdditive()
}

func (p *Parser) parseAdditive() ast.Expression {
	left := p.parseMultiplicative()
	for p.match(lexer.PLUS, lexer.MINUS) {
		op := "+"
		if p.current().Type == lexer.MINUS {
			op = "-"
		}
		tok := p.advance()
		right := p.parseMultiplicative()
		left = &ast.BinaryExpr{Token: tok, Left: left, Operator: op, Right: right}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expression {
	left := p.parsePower()
	for p.match(lexer.TIMES, lexer.DIVIDED_BY, lexer.MODULO) {
		var op string
		switch p.current().Type {
		case lexer.TIMES:
			op = "*"
		case lexer.DIVIDED_BY:
			op = "/"
		default:
			op = "%"
		}
		tok := p.advance()
		right := p.parsePower()
		left = &ast.BinaryExpr{Token: tok, Left: left, Operator: op, Right: right}
	}
	return left
}

func (p *Parser) parsePower() ast.Expression {
	left := p.parseUnary()
	if p.match(lexer.TO_THE_POWER_OF) {
		tok := p.advance()
		right := p.parsePower()
		return &ast.CallExpr{Token: tok, Name: "pow", Arguments: []ast.Expression{left, right}}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expression {
	switch {
	case p.match(lexer.NEGATIVE):
		tok := p.advance()
		return &ast.UnaryExpr{Token: tok, Operator: "-", Operand: p.parseUnary()}
	case p.match(lexer.SQUARE_ROOT_OF):
		tok := p.advance()
		return &ast.CallExpr{Token: tok, Name: "sqrt", Arguments: []ast.Expression{p.parseUnary()}}
	case p.match(lexer.ABSOLUTE_VALUE_OF):
		tok := p.advance()
		return &ast.CallExpr{Token: tok, Name: "abs", Arguments: []ast.Expression{p.parseUnary()}}
	case p.match(lexer.THE_SUM_OF):
		tok := p.advance()
		left := p.parsePrimary()
		p.expect(lexer.AND)
		right := p.parsePrimary()
		return &ast.BinaryExpr{Token: tok, Left: left, Operator: "+", Right: right}
	case p.match(lexer.ADDRESS_OF):
		tok := p.advance()
		return &ast.AddressOfExpr{Token: tok, Operand: p.parsePrimary()}
	case p.match(lexer.VALUE_AT):
		tok := p.advance()
		operand := p.parsePrimary()
		p.skipOptional(lexer.POINTS_TO)
		return &ast.DereferenceExpr{Token: tok, Operand: operand}
	case p.match(lexer.RESULT_OF):
		p.advance()
		return p.parseFunctionCall()
	}

	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Expression {
	expr := p.parsePrimary()
	for p.match(lexer.APOSTROPHE_S) {
		tok := p.advance()
		member := p.expect(lexer.IDENT).Literal
		expr = &ast.MemberExpr{Token: tok, Object: expr, Member: member}
	}
	return expr
}

func (p *Parser) parsePrimary() ast.Expression {
	switch {
	case p.match(lexer.NUMBER_LITERAL):
		tok := p.advance()
		n, _ := strconv.ParseInt(tok.Literal, 10, 64)
		return &ast.NumberLiteral{Token: tok, Value: n}
	case p.match(lexer.DECIMAL_LITERAL):
		tok := p.advance()
		f, _ := strconv.ParseFloat(tok.Literal, 64)
		return &ast.DecimalLiteral{Token: tok, Value: f}
	case p.match(lexer.STRING_LITERAL):
		tok := p.advance()
		return &ast.StringLiteral{Token: tok, Value: tok.Literal}
	case p.match(lexer.CHAR_LITERAL):
		tok := p.advance()
		r := rune(0)
		if len(tok.Literal) > 0 {
			r = []rune(tok.Literal)[0]
		}
		return &ast.CharLiteral{Token: tok, Value: r}
	case p.match(lexer.YES):
		tok := p.advance()
		return &ast.BoolLiteral{Token: tok, Value: true}
	case p.match(lexer.NO):
		tok := p.advance()
		return &ast.BoolLiteral{Token: tok, Value: false}
	case p.match(lexer.NULL):
		tok := p.advance()
		return &ast.NullLiteral{Token: tok}
	case p.match(lexer.FIRST_ITEM_IN):
		tok := p.advance()
		array := p.parsePrimary()
		return &ast.IndexExpr{Token: tok, Array: array, Index: &ast.NumberLiteral{Token: tok, Value: 0}}
	case p.match(lexer.LAST_ITEM_IN):
		tok := p.advance()
		array := p.parsePrimary()
		return &ast.IndexExpr{Token: tok, Array: array, Index: &ast.NumberLiteral{Token: tok, Value: -1}}
	case p.match(lexer.ITEM_NUMBER):
		tok := p.advance()
		index := p.parseExpression()
		p.skipOptional(lexer.IN, lexer.OF)
		array := p.parsePrimary()
		return &ast.IndexExpr{Token: tok, Array: array, Index: index}
	case p.match(lexer.LENGTH_OF, lexer.SIZE_OF, lexer.HOW_MANY_IN):
		tok := p.advance()
		p.skipOptional(lexer.THE)
		array := p.parsePrimary()
		return &ast.CallExpr{Token: tok, Name: "__len__", Arguments: []ast.Expression{array}}
	case p.match(lexer.ALLOCATE):
		tok := p.advance()
		count := p.parseExpression()
		allocType := p.parseType()
		p.skipOptional(lexer.AND)
		p.skipOptional(lexer.CALLED)
		return &ast.AllocateExpr{Token: tok, AllocType: allocType, Count: count}
	case p.match(lexer.RANDOM_NUMBER):
		tok := p.advance()
		min := p.parseExpression()
		p.expect(lexer.AND)
		max := p.parseExpression()
		return &ast.RandomExpr{Token: tok, Min: min, Max: max}
	case p.match(lexer.ANOTHER_LINE_IN):
		tok := p.advance()
		fileVar := p.parsePrimary()
		return &ast.CallExpr{Token: tok, Name: "__has_line__", Arguments: []ast.Expression{fileVar}}
	case p.match(lexer.READ_LINE_FROM):
		tok := p.advance()
		fileVar := p.parsePrimary()
		p.skipOptional(lexer.INTO)
		target := p.parsePrimary()
		return &ast.CallExpr{Token: tok, Name: "__read_line__", Arguments: []ast.Expression{fileVar, target}}
	case p.match(lexer.FAILED_TO_OPEN):
		tok := p.advance()
		return &ast.BinaryExpr{
			Token:    tok,
			Left:     &ast.Identifier{Token: tok, Name: "__last_file__"},
			Operator: "==",
			Right:    &ast.NullLiteral{Token: tok},
		}
	case p.match(lexer.WINDOW_SHOULD_CLOSE):
		tok := p.advance()
		return &ast.WindowShouldCloseExpr{Token: tok}
	case p.match(lexer.MOUSE_X):
		tok := p.advance()
		return &ast.MouseXExpr{Token: tok}
	case p.match(lexer.MOUSE_Y):
		tok := p.advance()
		return &ast.MouseYExpr{Token: tok}
	case p.match(lexer.MOUSE_PRESSED):
		tok := p.advance()
		return &ast.MousePressedExpr{Token: tok}
	case p.match(lexer.THE):
		p.advance()
		return p.parsePrimary()
	case p.match(lexer.A, lexer.AN):
		p.advance()
		return p.parsePrimary()
	case p.match(lexer.IDENT):
		tok := p.advance()
		return &ast.Identifier{Token: tok, Name: tok.Literal}
	default:
		// Unknown tokens are skipped rather than aborting the parse,
		// matching the reference parser's recovery behavior here.
		tok := p.advance()
		return &ast.NumberLiteral{Token: tok, Value: 0}
	}
}

// parseFunctionCall builds a call name out of a run of non-argument
// identifier and filler tokens, collecting anything that looks
// argument-shaped (literals, or identifiers immediately followed by a
// connective) into Arguments instead: "the result of adding 2 3" becomes
// a call to "adding" with arguments [2, 3]. The call ends at "and",
// ",", "then", "end", an arithmetic operator or the end of the line, so
// in "the result of adding x and y" only x is passed and "and y" is left
// to the caller.
func (p *Parser) parseFunctionCall() ast.Expression {
	tok := p.current()
	var nameParts []string
	var arguments []ast.Expression

loop:
	for !p.match(lexer.NEWLINE, lexer.EOF, lexer.END, lexer.THEN, lexer.AND,
		lexer.PLUS, lexer.MINUS, lexer.TIMES, lexer.DIVIDED_BY) {
		switch {
		case p.match(lexer.NUMBER_LITERAL, lexer.DECIMAL_LITERAL, lexer.STRING_LITERAL):
			arguments = append(arguments, p.parsePrimary())
		case p.match(lexer.IDENT):
			next := p.peek(1)
			if next.Type == lexer.AND || next.Type == lexer.COMMA || next.Type == lexer.NEWLINE ||
				next.Type == lexer.PLUS || next.Type == lexer.MINUS {
				arguments = append(arguments, p.parsePrimary())
			} else {
				nameParts = append(nameParts, p.advance().Literal)
			}
		case p.match(lexer.THE):
			p.advance()
		case p.match(lexer.OF, lexer.WITH, lexer.IN):
			nameParts = append(nameParts, p.advance().Literal)
		default:
			break loop
		}
	}

	name := "unknown"
	if len(nameParts) > 0 {
		name = joinLower(nameParts)
	}

	return &ast.CallExpr{Token: tok, Name: name, Arguments: arguments}
}
