package parser

import (
	"github.com/cwbudde/zinc/internal/ast"
	"github.com/cwbudde/zinc/internal/lexer"
)

func (p *Parser) parseStatement() ast.Statement {
	p.skipNewlines()

	switch {
	case p.match(lexer.THERE_IS):
		return p.parseVarDecl()
	case p.match(lexer.LET):
		return p.parseLetStatement()
	case p.match(lexer.CHANGE, lexer.SET, lexer.NOW, lexer.MAKE):
		return p.parseAssignment()
	case p.match(lexer.ADD):
		return p.parseAddStatement()
	case p.match(lexer.SUBTRACT):
		return p.parseSubtractStatement()
	case p.match(lexer.MULTIPLY):
		return p.parseMultiplyStatement()
	case p.match(lexer.DIVIDE):
		return p.parseDivideStatement()
	case p.match(lexer.INCREASE):
		return p.parseIncrement()
	case p.match(lexer.DECREASE):
		return p.parseDecrement()
	case p.match(lexer.IF):
		return p.parseIf()
	case p.match(lexer.WHILE, lexer.KEEP_DOING):
		return p.parseWhile()
	case p.match(lexer.FOR_EACH):
		return p.parseFor()
	case p.match(lexer.REPEAT):
		return p.parseRepeat()
	case p.match(lexer.SAY, lexer.PRINT, lexer.SHOW, lexer.DISPLAY):
		return p.parsePrint()
	case p.match(lexer.ASK_USER_FOR, lexer.READ, lexer.GET_INPUT):
		return p.parseInput()
	case p.match(lexer.RETURN):
		return p.parseReturn()
	case p.match(lexer.STOP_THE_LOOP, lexer.LEAVE_THE_LOOP):
		tok := p.advance()
		return &ast.BreakStatement{Token: tok}
	case p.match(lexer.SKIP_TO_NEXT, lexer.CONTINUE_NEXT):
		tok := p.advance()
		return &ast.ContinueStatement{Token: tok}
	case p.match(lexer.STOP_PROGRAM):
		tok := p.advance()
		return &ast.ReturnStatement{Token: tok, Value: &ast.NumberLiteral{Token: tok, Value: 1}}
	case p.match(lexer.FREE):
		return p.parseFree()
	case p.match(lexer.CLOSE_FILE):
		return p.parseCloseFile()
	case p.match(lexer.OPEN_WINDOW):
		return p.parseOpenWindow()
	case p.match(lexer.CLOSE_WINDOW):
		tok := p.advance()
		return &ast.CloseWindowStatement{Token: tok}
	case p.match(lexer.BEGIN_DRAWING):
		tok := p.advance()
		return &ast.BeginDrawingStatement{Token: tok}
	case p.match(lexer.END_DRAWING):
		tok := p.advance()
		return &ast.EndDrawingStatement{Token: tok}
	case p.match(lexer.CLEAR_SCREEN):
		return p.parseClearScreen()
	case p.match(lexer.DRAW_RECTANGLE):
		return p.parseDrawRectangle()
	case p.match(lexer.DRAW_TEXT):
		return p.parseDrawText()
	case p.match(lexer.NOTE, lexer.NOTES, lexer.REMINDER):
		p.parseComment()
		return nil
	case p.match(lexer.IDENT):
		return p.parseIdentifierStatement()
	case p.match(lexer.TYPE_NUMBER, lexer.TYPE_DECIMAL, lexer.TYPE_TEXT, lexer.TYPE_LETTER):
		return p.parseTypedVarDecl()
	default:
		tok := p.current()
		expr := p.parseExpression()
		return &ast.ExpressionStatement{Token: tok, Expression: expr}
	}
}

func (p *Parser) parseVarDecl() ast.Statement {
	tok := p.current()
	p.advance() // there is

	p.skipOptional(lexer.A, lexer.AN)

	if p.current().Literal != "" && lower(p.current().Literal) == "file" {
		p.advance()
		p.skipOptional(lexer.CALLED)
		name := p.expect(lexer.IDENT).Literal

		var filePath ast.Expression
		fileMode := ""
		if p.match(lexer.OPENS) {
			p.advance()
			filePath = p.parseExpression()
			switch {
			case p.match(lexer.FOR_READING):
				p.advance()
				fileMode = "read"
			case p.match(lexer.FOR_WRITING):
				p.advance()
				fileMode = "write"
			}
		}

		return &ast.DeclStatement{
			Token: tok, Name: name, Type: &ast.TypeSpec{Token: tok, BaseType: "file"},
			IsFile: true, FilePath: filePath, FileMode: fileMode,
		}
	}

	varType := p.parseType()
	p.expect(lexer.CALLED)
	name := p.expect(lexer.IDENT).Literal

	decl := &ast.DeclStatement{Token: tok, Name: name, Type: varType}

	switch {
	case p.match(lexer.WHICH_IS):
		p.advance()
		decl.InitialValue = p.parseExpression()
	case p.match(lexer.HAS):
		p.advance()
		decl.StructInit = p.parseStructInit(varType)
	case p.match(lexer.CONTAINING):
		p.advance()
		elems := []ast.Expression{p.parseExpression()}
		for p.match(lexer.COMMA) {
			p.advance()
			elems = append(elems, p.parseExpression())
		}
		decl.Elements = elems
	}

	return decl
}

func (p *Parser) parseTypedVarDecl() ast.Statement {
	tok := p.current()
	varType := p.parseType()
	name := p.expect(lexer.IDENT).Literal

	decl := &ast.DeclStatement{Token: tok, Name: name, Type: varType}
	if p.match(lexer.IS) {
		p.advance()
		decl.InitialValue = p.parseExpression()
	}
	return decl
}

// parseStructInit parses struct initialization following `has`. The
// reference parser only ever seeds the struct's first declared field
// from a single trailing expression; the syntax has no field-name
// tokens to build a richer initializer from, so a single-field
// StructInitExpr is all there is to ground this on.
func (p *Parser) parseStructInit(t *ast.TypeSpec) *ast.StructInitExpr {
	tok := p.current()
	value := p.parseExpression()
	return &ast.StructInitExpr{
		Token:      tok,
		StructName: t.StructName,
		Fields:     []ast.StructFieldInit{{Value: value}},
	}
}

func (p *Parser) parseLetStatement() ast.Statement {
	tok := p.current()
	p.advance() // let

	name := p.expect(lexer.IDENT).Literal
	p.expect(lexer.BE)
	value := p.parseExpression()

	return &ast.DeclStatement{Token: tok, Name: name, InitialValue: value}
}

func (p *Parser) parseAssignment() ast.Statement {
	tok := p.current()
	p.advance() // change/set/now/make

	target := p.parseAssignmentTarget()
	p.skipOptional(lexer.TO, lexer.IS, lexer.EQUAL_TO)
	value := p.parseExpression()

	return &ast.Assignment{Token: tok, Target: target, Operator: "=", Value: value}
}

func (p *Parser) parseAssignmentTarget() ast.Expression {
	switch {
	case p.match(lexer.ITEM_NUMBER):
		tok := p.advance()
		index := p.parseExpression()
		p.skipOptional(lexer.IN)
		array := p.parsePrimary()
		return &ast.IndexExpr{Token: tok, Array: array, Index: index}
	case p.match(lexer.FIRST_ITEM_IN):
		tok := p.advance()
		array := p.parsePrimary()
		return &ast.IndexExpr{Token: tok, Array: array, Index: &ast.NumberLiteral{Token: tok, Value: 0}}
	case p.match(lexer.LAST_ITEM_IN):
		tok := p.advance()
		array := p.parsePrimary()
		// -1 is passed through as a literal index; the VM resolves
		// negative indices against the array's length at run time.
		return &ast.IndexExpr{Token: tok, Array: array, Index: &ast.NumberLiteral{Token: tok, Value: -1}}
	case p.match(lexer.VALUE_AT):
		tok := p.advance()
		ptr := p.parsePrimary()
		return &ast.DereferenceExpr{Token: tok, Operand: ptr}
	case p.match(lexer.THE):
		p.advance()
		return p.parseAssignmentTarget()
	default:
		target := p.parsePrimary()
		if p.match(lexer.APOSTROPHE_S) {
			tok := p.advance()
			member := p.expect(lexer.IDENT).Literal
			return &ast.MemberExpr{Token: tok, Object: target, Member: member}
		}
		return target
	}
}

func (p *Parser) parseAddStatement() ast.Statement {
	tok := p.current()
	p.advance() // add
	value := p.parseExpression()
	p.expect(lexer.TO)
	target := p.parsePrimary()
	return &ast.Assignment{Token: tok, Target: target, Operator: "=",
		Value: &ast.BinaryExpr{Token: tok, Left: target, Operator: "+", Right: value}}
}

func (p *Parser) parseSubtractStatement() ast.Statement {
	tok := p.current()
	p.advance() // subtract
	value := p.parseExpression()
	p.expect(lexer.FROM)
	target := p.parsePrimary()
	return &ast.Assignment{Token: tok, Target: target, Operator: "=",
		Value: &ast.BinaryExpr{Token: tok, Left: target, Operator: "-", Right: value}}
}

func (p *Parser) parseMultiplyStatement() ast.Statement {
	tok := p.current()
	p.advance() // multiply
	target := p.parsePrimary()
	p.skipOptional(lexer.TIMES) // "by" lexes as TIMES
	value := p.parseExpression()
	return &ast.Assignment{Token: tok, Target: target, Operator: "=",
		Value: &ast.BinaryExpr{Token: tok, Left: target, Operator: "*", Right: value}}
}

func (p *Parser) parseDivideStatement() ast.Statement {
	tok := p.current()
	p.advance() // divide
	target := p.parsePrimary()
	p.skipOptional(lexer.TIMES) // "by" lexes as TIMES
	value := p.parseExpression()
	return &ast.Assignment{Token: tok, Target: target, Operator: "=",
		Value: &ast.BinaryExpr{Token: tok, Left: target, Operator: "/", Right: value}}
}

func (p *Parser) parseIncrement() ast.Statement {
	tok := p.current()
	p.advance() // increase
	target := p.parsePrimary()
	return &ast.Assignment{Token: tok, Target: target, Operator: "=",
		Value: &ast.BinaryExpr{Token: tok, Left: target, Operator: "+", Right: &ast.NumberLiteral{Token: tok, Value: 1}}}
}

func (p *Parser) parseDecrement() ast.Statement {
	tok := p.current()
	p.advance() // decrease
	target := p.parsePrimary()
	return &ast.Assignment{Token: tok, Target: target, Operator: "=",
		Value: &ast.BinaryExpr{Token: tok, Left: target, Operator: "-", Right: &ast.NumberLiteral{Token: tok, Value: 1}}}
}

func (p *Parser) parseIf() *ast.IfStatement {
	tok := p.current()
	p.advance() // if

	condition := p.parseCondition()
	p.expect(lexer.THEN)
	p.skipNewlines()

	stmt := &ast.IfStatement{Token: tok, Condition: condition}

	for !p.match(lexer.END, lexer.OTHERWISE, lexer.EOF) {
		p.skipNewlines()
		if p.match(lexer.END, lexer.OTHERWISE, lexer.EOF) {
			break
		}
		if s := p.parseStatement(); s != nil {
			stmt.ThenBody = append(stmt.ThenBody, s)
		}
		p.skipNewlines()
	}

	for p.match(lexer.OTHERWISE) {
		p.advance()

		if p.match(lexer.IF) {
			p.advance()
			elseIfTok := p.current()
			cond := p.parseCondition()
			p.expect(lexer.THEN)
			p.skipNewlines()

			clause := &ast.ElseIfClause{Token: elseIfTok, Condition: cond}
			for !p.match(lexer.END, lexer.OTHERWISE, lexer.EOF) {
				p.skipNewlines()
				if p.match(lexer.END, lexer.OTHERWISE, lexer.EOF) {
					break
				}
				if s := p.parseStatement(); s != nil {
					clause.Body = append(clause.Body, s)
				}
				p.skipNewlines()
			}
			stmt.ElseIfClauses = append(stmt.ElseIfClauses, clause)
		} else {
			p.skipNewlines()
			for !p.match(lexer.END, lexer.EOF) {
				p.skipNewlines()
				if p.match(lexer.END, lexer.EOF) {
					break
				}
				if s := p.parseStatement(); s != nil {
					stmt.ElseBody = append(stmt.ElseBody, s)
				}
				p.skipNewlines()
			}
			break
		}
	}

	if p.match(lexer.END) {
		p.advance()
	}

	return stmt
}

func (p *Parser) parseWhile() *ast.WhileStatement {
	tok := p.current()
	p.advance() // while or keep_doing

	condition := p.parseCondition()
	p.skipOptional(lexer.COLON)
	p.skipNewlines()

	body := p.parseBlock()

	return &ast.WhileStatement{Token: tok, Condition: condition, Body: body}
}

func (p *Parser) parseFor() ast.Statement {
	tok := p.current()
	p.advance() // for each

	varType := p.parseType()
	varName := p.expect(lexer.IDENT).Literal

	switch {
	case p.match(lexer.FROM):
		p.advance()
		start := p.parseExpression()

		step := 1
		if p.match(lexer.DOWN_TO) {
			p.advance()
			step = -1
		} else {
			p.expect(lexer.TO)
		}

		end := p.parseExpression()
		p.skipOptional(lexer.COLON)
		p.skipNewlines()

		body := p.parseBlock()

		return &ast.ForStatement{Token: tok, VarName: varName, VarType: varType, Start: start, End: end, Step: step, Body: body}
	case p.match(lexer.IN):
		p.advance()
		p.skipOptional(lexer.THE)
		iterable := p.parseExpression()
		p.skipOptional(lexer.COLON)
		p.skipNewlines()

		body := p.parseBlock()

		return &ast.ForEachStatement{Token: tok, VarName: varName, VarType: varType, Iterable: iterable, Body: body}
	default:
		p.fail("expected 'from' or 'in' in for loop")
		return nil
	}
}

func (p *Parser) parseRepeat() *ast.RepeatStatement {
	tok := p.current()
	p.advance() // repeat

	// parsePrimary, not parseExpression, so "times" isn't mistaken for
	// multiplication.
	count := p.parsePrimary()
	if p.match(lexer.TIMES) {
		p.advance()
	}
	p.skipOptional(lexer.COLON)
	p.skipNewlines()

	body := p.parseBlock()

	return &ast.RepeatStatement{Token: tok, Count: count, Body: body}
}

func (p *Parser) parsePrint() *ast.PrintStatement {
	tok := p.current()
	p.advance() // say/print/show/display

	p.skipOptional(lexer.THE_VALUE_OF)

	parts := []ast.Expression{p.parseExpression()}

	for p.match(lexer.AND_THEN, lexer.FOLLOWED_BY, lexer.AND) {
		p.advance()
		p.skipOptional(lexer.THEN)
		parts = append(parts, p.parseExpression())
	}

	return &ast.PrintStatement{Token: tok, Parts: parts}
}

func (p *Parser) parseInput() *ast.InputStatement {
	tok := p.current()
	inputType := "text"
	var target ast.Expression

	switch {
	case p.match(lexer.ASK_USER_FOR):
		word := lower(p.advance().Literal)
		switch {
		case strContains(word, "number"):
			inputType = "number"
		case strContains(word, "decimal"):
			inputType = "decimal"
		case strContains(word, "letter"):
			inputType = "letter"
		default:
			inputType = "text"
		}
		target = p.parsePrimary()
	case p.match(lexer.READ):
		p.advance()
		p.skipOptional(lexer.A, lexer.AN)
		switch {
		case p.match(lexer.TYPE_NUMBER):
			p.advance()
			inputType = "number"
		case p.match(lexer.TYPE_DECIMAL):
			p.advance()
			inputType = "decimal"
		case p.match(lexer.TYPE_TEXT):
			p.advance()
			inputType = "text"
		}
		p.skipOptional(lexer.INTO)
		target = p.parsePrimary()
	default: // GET_INPUT
		p.advance()
		target = p.parsePrimary()
	}

	return &ast.InputStatement{Token: tok, Target: target, InputType: inputType}
}

func (p *Parser) parseReturn() *ast.ReturnStatement {
	tok := p.current()
	p.advance() // return

	var value ast.Expression
	if !p.match(lexer.NEWLINE, lexer.END, lexer.EOF) {
		value = p.parseExpression()
	}

	return &ast.ReturnStatement{Token: tok, Value: value}
}

func (p *Parser) parseFree() *ast.FreeStatement {
	tok := p.current()
	p.advance() // free
	pointer := p.parseExpression()
	return &ast.FreeStatement{Token: tok, Pointer: pointer}
}

func (p *Parser) parseCloseFile() *ast.CloseFileStatement {
	tok := p.current()
	p.advance() // close the file
	handle := p.parsePrimary()
	return &ast.CloseFileStatement{Token: tok, Handle: handle}
}

func (p *Parser) parseComment() {
	switch {
	case p.match(lexer.NOTE, lexer.REMINDER):
		p.advance()
		p.skipOptional(lexer.COLON)
		for !p.match(lexer.NEWLINE, lexer.EOF) {
			p.advance()
		}
	case p.match(lexer.NOTES):
		p.advance()
		p.skipOptional(lexer.COLON)
		for !p.match(lexer.END_NOTES, lexer.EOF) {
			p.advance()
		}
		if p.match(lexer.END_NOTES) {
			p.advance()
		}
	}
}

func (p *Parser) parseOpenWindow() *ast.OpenWindowStatement {
	tok := p.current()
	p.advance() // open a window sized
	width := p.parsePrimary()
	if sizeSeparator(p.current()) {
		p.advance()
	}
	height := p.parsePrimary()

	var title ast.Expression
	switch {
	case p.match(lexer.CALLED, lexer.WITH):
		p.advance()
		if p.match(lexer.IDENT) && lower(p.current().Literal) == "title" {
			p.advance()
		}
		title = p.parseExpression()
	case p.match(lexer.STRING_LITERAL):
		title = p.parseExpression()
	}

	return &ast.OpenWindowStatement{Token: tok, Width: width, Height: height, Title: title}
}

func (p *Parser) parseClearScreen() *ast.ClearScreenStatement {
	tok := p.current()
	p.advance() // clear the screen with
	color := "RAYWHITE"
	if p.match(lexer.IDENT) {
		color = upper(p.advance().Literal)
	}
	return &ast.ClearScreenStatement{Token: tok, Color: color}
}

func (p *Parser) parseDrawRectangle() *ast.DrawRectangleStatement {
	tok := p.current()
	p.advance() // draw a rectangle at
	x := p.parsePrimary()
	p.skipOptional(lexer.COMMA)
	y := p.parsePrimary()

	if sizeWord(p.current()) {
		p.advance()
		if lower(p.current().Literal) == "size" {
			p.advance()
		}
	}
	width := p.parsePrimary()
	if sizeSeparator(p.current()) {
		p.advance()
	}
	height := p.parsePrimary()

	color := "LIGHTGRAY"
	if colorWord(p.current()) {
		p.advance()
		if lower(p.current().Literal) == "color" {
			p.advance()
		}
		if p.match(lexer.IDENT) {
			color = upper(p.advance().Literal)
		}
	}

	return &ast.DrawRectangleStatement{Token: tok, X: x, Y: y, Width: width, Height: height, Color: color}
}

func (p *Parser) parseDrawText() *ast.DrawTextStatement {
	tok := p.current()
	p.advance() // draw text
	text := p.parseExpression()

	x := ast.Expression(&ast.NumberLiteral{Token: tok, Value: 0})
	y := ast.Expression(&ast.NumberLiteral{Token: tok, Value: 0})
	size := ast.Expression(&ast.NumberLiteral{Token: tok, Value: 20})
	color := "BLACK"

	if lower(p.current().Literal) == "at" {
		p.advance()
		x = p.parseExpression()
		p.skipOptional(lexer.COMMA)
		y = p.parseExpression()
	}
	if sizeWord(p.current()) {
		p.advance()
		if lower(p.current().Literal) == "size" {
			p.advance()
		}
		size = p.parseExpression()
	}
	if colorWord(p.current()) {
		p.advance()
		if lower(p.current().Literal) == "color" {
			p.advance()
		}
		if p.match(lexer.IDENT) {
			color = upper(p.advance().Literal)
		}
	}

	return &ast.DrawTextStatement{Token: tok, Text: text, X: x, Y: y, Size: size, Color: color}
}

func (p *Parser) parseIdentifierStatement() ast.Statement {
	tok := p.current()
	expr := p.parseExpression()

	if p.match(lexer.TO, lexer.IS, lexer.EQUAL_TO) {
		p.advance()
		value := p.parseExpression()
		return &ast.Assignment{Token: tok, Target: expr, Operator: "=", Value: value}
	}

	return &ast.ExpressionStatement{Token: tok, Expression: expr}
}

func sizeSeparator(t lexer.Token) bool {
	w := lower(t.Literal)
	return w == "by" || w == "x"
}

func sizeWord(t lexer.Token) bool {
	w := lower(t.Literal)
	return w == "sized" || w == "size" || w == "with"
}

func colorWord(t lexer.Token) bool {
	w := lower(t.Literal)
	return w == "in" || w == "with" || w == "colored"
}
