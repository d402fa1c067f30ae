// Package parser builds an AST from a Zinc token stream using a
// recursive-descent strategy with a single token of lookahead. Most
// productions are driven by phrase tokens the lexer already assembled
// ("there is", "which is", "is greater than"), so the grammar mostly
// dispatches on token type rather than re-parsing word sequences.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/zinc/internal/ast"
	"github.com/cwbudde/zinc/internal/errors"
	"github.com/cwbudde/zinc/internal/lexer"
)

// Parser consumes a fully buffered token stream and produces a Program.
type Parser struct {
	tokens []lexer.Token
	pos    int
	source string
	file   string
	err    *errors.CompilerError
}

// New creates a Parser over tokens produced by lexer.Tokenize. source and
// file are carried only for diagnostic rendering.
func New(tokens []lexer.Token, source, file string) *Parser {
	return &Parser{tokens: tokens, source: source, file: file}
}

// parseAbort unwinds the recursive descent back to Parse once p.err has
// been recorded, mirroring the reference parser's raise-and-stop
// SyntaxError behavior: one malformed statement invalidates the whole
// parse rather than attempting resynchronization.
type parseAbort struct{}

// Parse runs the parser to completion, returning the first syntax error
// encountered (if any).
func (p *Parser) Parse() (prog *ast.Program, cerr *errors.CompilerError) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseAbort); ok {
				prog, cerr = nil, p.err
				return
			}
			panic(r)
		}
	}()

	program := &ast.Program{}

	p.skipNewlines()
	for !p.match(lexer.EOF) {
		p.skipNewlines()
		if p.match(lexer.EOF) {
			break
		}

		switch {
		case p.match(lexer.INCLUDE, lexer.USE):
			program.Includes = append(program.Includes, p.parseInclude())
		case p.match(lexer.DEFINE):
			program.Structures = append(program.Structures, p.parseStructDef())
		case p.match(lexer.TO):
			program.Functions = append(program.Functions, p.parseFunctionDef())
		case p.match(lexer.NOTE, lexer.NOTES, lexer.REMINDER):
			p.parseComment()
		default:
			p.fail("unexpected token at top level: " + p.current().Type.Name())
		}

		p.skipNewlines()
	}

	return program, nil
}

// fail records a CompilerError at the current token and unwinds the
// parse.
func (p *Parser) fail(msg string) {
	tok := p.current()
	p.err = errors.NewCompilerError(tok.Pos, fmt.Sprintf("%s (got %s %q)", msg, tok.Type.Name(), tok.Literal), p.source, p.file)
	panic(parseAbort{})
}

func (p *Parser) current() lexer.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) peek(offset int) lexer.Token {
	i := p.pos + offset
	if i < len(p.tokens) {
		return p.tokens[i]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) advance() lexer.Token {
	tok := p.current()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) match(types ...lexer.TokenType) bool {
	cur := p.current().Type
	for _, t := range types {
		if cur == t {
			return true
		}
	}
	return false
}

func (p *Parser) expect(types ...lexer.TokenType) lexer.Token {
	if p.match(types...) {
		return p.advance()
	}
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.Name()
	}
	p.fail("expected " + strings.Join(names, " or "))
	return lexer.Token{}
}

func (p *Parser) skipNewlines() {
	for p.match(lexer.NEWLINE) {
		p.advance()
	}
}

func (p *Parser) skipOptional(types ...lexer.TokenType) {
	for p.match(types...) {
		p.advance()
	}
}

func (p *Parser) parseInclude() *ast.Include {
	tok := p.current()
	p.advance() // include/use

	switch {
	case p.match(lexer.STANDARD_IO):
		p.advance()
		return &ast.Include{Token: tok, Library: "stdio"}
	case p.match(lexer.STANDARD_MATH):
		p.advance()
		return &ast.Include{Token: tok, Library: "math"}
	case p.match(lexer.STRING_FUNCTIONS):
		p.advance()
		return &ast.Include{Token: tok, Library: "string"}
	case p.match(lexer.FILE_FUNCTIONS):
		p.advance()
		return &ast.Include{Token: tok, Library: "stdio"}
	case p.match(lexer.RANDOM_FUNCTIONS):
		p.advance()
		return &ast.Include{Token: tok, Library: "stdlib"}
	case p.match(lexer.RAYLIB_GRAPHICS):
		p.advance()
		return &ast.Include{Token: tok, Library: "raylib"}
	case p.match(lexer.FILE_CALLED):
		p.advance()
		name := p.expect(lexer.STRING_LITERAL, lexer.IDENT).Literal
		return &ast.Include{Token: tok, Library: name}
	case p.match(lexer.THE):
		p.advance()
		if p.match(lexer.FILE_CALLED) {
			p.advance()
			name := p.expect(lexer.STRING_LITERAL, lexer.IDENT).Literal
			return &ast.Include{Token: tok, Library: name}
		}
	}

	p.fail("expected library name after include")
	return nil
}

func (p *Parser) parseStructDef() *ast.StructDef {
	tok := p.current()
	p.advance() // define

	p.skipOptional(lexer.A, lexer.AN)
	name := p.expect(lexer.IDENT).Literal

	p.expect(lexer.AS_HAVING)
	p.skipOptional(lexer.COLON)
	p.skipNewlines()

	var fields []*ast.VarDecl
	for !p.match(lexer.END, lexer.EOF) {
		p.skipNewlines()
		if p.match(lexer.END) {
			break
		}
		fieldTok := p.current()
		fieldType := p.parseType()
		p.expect(lexer.CALLED)
		fieldName := p.expect(lexer.IDENT).Literal
		fields = append(fields, &ast.VarDecl{Token: fieldTok, Name: fieldName, Type: fieldType})
		p.skipNewlines()
	}
	p.expect(lexer.END)

	return &ast.StructDef{Token: tok, Name: name, Fields: fields}
}

func (p *Parser) parseFunctionDef() *ast.FunctionDef {
	tok := p.current()
	p.advance() // to

	if p.match(lexer.DO_MAIN) {
		p.advance()
		p.skipOptional(lexer.COLON)
		p.skipNewlines()
		body := p.parseBlock()
		return &ast.FunctionDef{
			Token: tok, Name: "main", IsMain: true, Body: body,
			ReturnType: &ast.TypeSpec{Token: tok, BaseType: "number"},
		}
	}

	var nameParts []string
	var params []*ast.VarDecl
	var returnType *ast.TypeSpec

	for !p.match(lexer.COLON, lexer.AND_RETURN, lexer.EOF) {
		if p.match(lexer.NEWLINE) {
			break
		}

		switch {
		case p.match(lexer.TYPE_NUMBER, lexer.TYPE_DECIMAL, lexer.TYPE_TEXT, lexer.TYPE_LETTER,
			lexer.TYPE_YES_OR_NO, lexer.TYPE_BOOLEAN, lexer.POINTER_TO, lexer.LIST_OF):
			paramTok := p.current()
			paramType := p.parseType()
			if p.match(lexer.CALLED) {
				p.advance()
			}
			paramName := p.expect(lexer.IDENT).Literal
			params = append(params, &ast.VarDecl{Token: paramTok, Name: paramName, Type: paramType})
			p.skipOptional(lexer.AND, lexer.COMMA)
		case p.match(lexer.IDENT):
			next := p.peek(1)
			if next.Type == lexer.CALLED || next.Type == lexer.POINTER_TO {
				paramTok := p.current()
				structName := p.advance().Literal
				paramType := &ast.TypeSpec{Token: paramTok, BaseType: "struct", StructName: structName}
				if p.match(lexer.POINTER_TO) {
					p.advance()
					paramType.IsPointer = true
				}
				if p.match(lexer.CALLED) {
					p.advance()
				}
				paramName := p.expect(lexer.IDENT).Literal
				params = append(params, &ast.VarDecl{Token: paramTok, Name: paramName, Type: paramType})
				p.skipOptional(lexer.AND, lexer.COMMA)
			} else {
				nameParts = append(nameParts, p.advance().Literal)
			}
		case p.match(lexer.WITH, lexer.OF, lexer.THE, lexer.A, lexer.AN, lexer.IN):
			nameParts = append(nameParts, p.advance().Literal)
		default:
			p.advance()
		}
	}

	if p.match(lexer.AND_RETURN) {
		p.advance()
		p.skipOptional(lexer.A, lexer.AN)
		returnType = p.parseType()
	}

	p.skipOptional(lexer.COLON)
	p.skipNewlines()

	name := "unnamed"
	if len(nameParts) > 0 {
		name = joinLower(nameParts)
	}

	body := p.parseBlock()

	return &ast.FunctionDef{Token: tok, Name: name, Params: params, ReturnType: returnType, Body: body}
}

func (p *Parser) parseType() *ast.TypeSpec {
	tok := p.current()
	t := &ast.TypeSpec{Token: tok}

	if p.match(lexer.POINTER_TO) {
		p.advance()
		t.IsPointer = true
		p.skipOptional(lexer.A, lexer.AN)
	}

	if p.match(lexer.LIST_OF) {
		p.advance()
		t.IsList = true
		if p.match(lexer.NUMBER_LITERAL) {
			t.ArraySize = mustAtoi(p.advance().Literal)
		}
	}

	switch {
	case p.match(lexer.TYPE_NUMBER):
		p.advance()
		t.BaseType = "number"
	case p.match(lexer.TYPE_DECIMAL):
		p.advance()
		t.BaseType = "decimal"
	case p.match(lexer.TYPE_TEXT):
		p.advance()
		t.BaseType = "text"
	case p.match(lexer.TYPE_LETTER):
		p.advance()
		t.BaseType = "letter"
	case p.match(lexer.TYPE_YES_OR_NO, lexer.TYPE_BOOLEAN):
		p.advance()
		t.BaseType = "boolean"
	case p.match(lexer.TYPE_NOTHING):
		p.advance()
		t.BaseType = "nothing"
	case p.match(lexer.IDENT):
		t.BaseType = "struct"
		t.StructName = p.advance().Literal
	default:
		// Grounded on the reference parser: an unrecognized type token
		// defaults to "number" rather than failing the parse.
		t.BaseType = "number"
	}

	return t
}

func (p *Parser) parseBlock() []ast.Statement {
	var statements []ast.Statement

	for !p.match(lexer.END, lexer.OTHERWISE, lexer.EOF) {
		p.skipNewlines()
		if p.match(lexer.END, lexer.OTHERWISE, lexer.EOF) {
			break
		}
		if stmt := p.parseStatement(); stmt != nil {
			statements = append(statements, stmt)
		}
		p.skipNewlines()
	}

	if p.match(lexer.END) {
		p.advance()
	}

	return statements
}

func joinLower(parts []string) string {
	return strings.ToLower(strings.Join(parts, "_"))
}

func mustAtoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func lower(s string) string { return strings.ToLower(s) }

func upper(s string) string { return strings.ToUpper(s) }

func strContains(haystack, needle string) bool { return strings.Contains(haystack, needle) }
