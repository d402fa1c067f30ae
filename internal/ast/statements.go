package ast

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/cwbudde/zinc/internal/lexer"
)

// DeclStatement is `there is a <type> called <name> ...` or `let <name>
// be <expr>`. Exactly one of InitialValue, Elements (from `containing`),
// or the file-open fields applies, matching which source form produced it.
type DeclStatement struct {
	Token        lexer.Token
	Name         string
	Type         *TypeSpec
	InitialValue Expression   // from "which is <expr>" / "let ... be <expr>"
	Elements     []Expression // from "containing <e>, <e>, ..."
	StructInit   *StructInitExpr

	IsFile   bool
	FilePath Expression
	FileMode string // "read" or "write"
}

func (d *DeclStatement) statementNode()      {}
func (d *DeclStatement) Pos() lexer.Position { return d.Token.Pos }
func (d *DeclStatement) TokenLiteral() string {
	return d.Token.Literal
}
func (d *DeclStatement) String() string {
	switch {
	case d.IsFile:
		return fmt.Sprintf("there is a file called %s which opens %s for %sing", d.Name, d.FilePath.String(), d.FileMode)
	case d.InitialValue != nil:
		return fmt.Sprintf("there is a %s called %s which is %s", d.Type.String(), d.Name, d.InitialValue.String())
	case d.Elements != nil:
		parts := make([]string, len(d.Elements))
		for i, e := range d.Elements {
			parts[i] = e.String()
		}
		return fmt.Sprintf("there is a %s called %s containing %s", d.Type.String(), d.Name, strings.Join(parts, ", "))
	default:
		return fmt.Sprintf("there is a %s called %s", d.Type.String(), d.Name)
	}
}

// AssignTarget is any expression shape legal on the left side of an
// assignment: an identifier, indexed access, member access, or pointer
// dereference.
type AssignTarget = Expression

// Assignment is `change/set/now/make <target> to <expr>`, and its sugar
// forms `add`/`subtract`/`multiply`/`divide`/`increase`/`decrease`.
// Operator is one of "=", "+=", "-=", "*=", "/="; the parser lowers the
// sugar forms to "=" with a BinaryExpr value.
type Assignment struct {
	Token    lexer.Token
	Target   AssignTarget
	Operator string
	Value    Expression
}

func (a *Assignment) statementNode()      {}
func (a *Assignment) Pos() lexer.Position { return a.Token.Pos }
func (a *Assignment) TokenLiteral() string {
	return a.Token.Literal
}
func (a *Assignment) String() string {
	return fmt.Sprintf("%s %s %s", a.Target.String(), a.Operator, a.Value.String())
}

// ElseIfClause is one `otherwise if <cond> then <body>` arm of an if.
type ElseIfClause struct {
	Token     lexer.Token
	Condition Expression
	Body      []Statement
}

func (e *ElseIfClause) Pos() lexer.Position  { return e.Token.Pos }
func (e *ElseIfClause) TokenLiteral() string { return e.Token.Literal }
func (e *ElseIfClause) String() string {
	return fmt.Sprintf("otherwise if %s then ...", e.Condition.String())
}

// IfStatement is `if <cond> then <body> [otherwise if ...]* [otherwise
// <body>] end`.
type IfStatement struct {
	Token         lexer.Token
	Condition     Expression
	ThenBody      []Statement
	ElseIfClauses []*ElseIfClause
	ElseBody      []Statement
}

func (i *IfStatement) statementNode()       {}
func (i *IfStatement) Pos() lexer.Position  { return i.Token.Pos }
func (i *IfStatement) TokenLiteral() string { return i.Token.Literal }
func (i *IfStatement) String() string {
	var out bytes.Buffer
	fmt.Fprintf(&out, "if %s then ...", i.Condition.String())
	for _, e := range i.ElseIfClauses {
		out.WriteString(" " + e.String())
	}
	if i.ElseBody != nil {
		out.WriteString(" otherwise ...")
	}
	out.WriteString(" end")
	return out.String()
}

// WhileStatement is `while|keep doing this while <cond>: <body> end`.
type WhileStatement struct {
	Token     lexer.Token
	Condition Expression
	Body      []Statement
}

func (w *WhileStatement) statementNode()      {}
func (w *WhileStatement) Pos() lexer.Position { return w.Token.Pos }
func (w *WhileStatement) TokenLiteral() string {
	return w.Token.Literal
}
func (w *WhileStatement) String() string {
	return fmt.Sprintf("while %s: ... end", w.Condition.String())
}

// ForStatement is a counted loop: `for each <type> <name> from <start>
// [to|down to] <end>: <body> end`. Step is +1 for "to" and -1 for
// "down to".
type ForStatement struct {
	Token   lexer.Token
	VarName string
	VarType *TypeSpec
	Start   Expression
	End     Expression
	Step    int
	Body    []Statement
}

func (f *ForStatement) statementNode()      {}
func (f *ForStatement) Pos() lexer.Position { return f.Token.Pos }
func (f *ForStatement) TokenLiteral() string {
	return f.Token.Literal
}
func (f *ForStatement) String() string {
	dir := "to"
	if f.Step < 0 {
		dir = "down to"
	}
	return fmt.Sprintf("for each %s %s from %s %s %s: ... end", f.VarType.String(), f.VarName, f.Start.String(), dir, f.End.String())
}

// ForEachStatement is `for each <type> <name> in <iterable>: <body> end`.
type ForEachStatement struct {
	Token    lexer.Token
	VarName  string
	VarType  *TypeSpec
	Iterable Expression
	Body     []Statement
}

func (f *ForEachStatement) statementNode()      {}
func (f *ForEachStatement) Pos() lexer.Position { return f.Token.Pos }
func (f *ForEachStatement) TokenLiteral() string {
	return f.Token.Literal
}
func (f *ForEachStatement) String() string {
	return fmt.Sprintf("for each %s %s in %s: ... end", f.VarType.String(), f.VarName, f.Iterable.String())
}

// RepeatStatement is `repeat <count> times: <body> end`.
type RepeatStatement struct {
	Token lexer.Token
	Count Expression
	Body  []Statement
}

func (r *RepeatStatement) statementNode()      {}
func (r *RepeatStatement) Pos() lexer.Position { return r.Token.Pos }
func (r *RepeatStatement) TokenLiteral() string {
	return r.Token.Literal
}
func (r *RepeatStatement) String() string {
	return fmt.Sprintf("repeat %s times: ... end", r.Count.String())
}

// ReturnStatement is `return [<expr>]` or the `stop the program` sugar
// (which returns the literal 1).
type ReturnStatement struct {
	Token lexer.Token
	Value Expression // nil for a bare return
}

func (r *ReturnStatement) statementNode()      {}
func (r *ReturnStatement) Pos() lexer.Position { return r.Token.Pos }
func (r *ReturnStatement) TokenLiteral() string {
	return r.Token.Literal
}
func (r *ReturnStatement) String() string {
	if r.Value == nil {
		return "return"
	}
	return "return " + r.Value.String()
}

// BreakStatement is `stop the loop` / `leave the loop`.
type BreakStatement struct{ Token lexer.Token }

func (b *BreakStatement) statementNode()       {}
func (b *BreakStatement) Pos() lexer.Position  { return b.Token.Pos }
func (b *BreakStatement) TokenLiteral() string { return b.Token.Literal }
func (b *BreakStatement) String() string       { return "stop the loop" }

// ContinueStatement is `skip to the next one` / `continue with the next
// iteration`.
type ContinueStatement struct{ Token lexer.Token }

func (c *ContinueStatement) statementNode()       {}
func (c *ContinueStatement) Pos() lexer.Position  { return c.Token.Pos }
func (c *ContinueStatement) TokenLiteral() string { return c.Token.Literal }
func (c *ContinueStatement) String() string       { return "skip to the next one" }

// PrintStatement is `say|print|show|display <expr> [and then|followed
// by|and <expr>]*`, always newline-terminated.
type PrintStatement struct {
	Token lexer.Token
	Parts []Expression
}

func (p *PrintStatement) statementNode()      {}
func (p *PrintStatement) Pos() lexer.Position { return p.Token.Pos }
func (p *PrintStatement) TokenLiteral() string {
	return p.Token.Literal
}
func (p *PrintStatement) String() string {
	parts := make([]string, len(p.Parts))
	for i, e := range p.Parts {
		parts[i] = e.String()
	}
	return "say " + strings.Join(parts, " and then ")
}

// InputStatement reads one value of the given kind into an l-value
// target: `ask the user for a <kind> and store it in <target>`.
type InputStatement struct {
	Token     lexer.Token
	Target    AssignTarget
	InputType string // "number", "decimal", "text", "letter"
}

func (i *InputStatement) statementNode()      {}
func (i *InputStatement) Pos() lexer.Position { return i.Token.Pos }
func (i *InputStatement) TokenLiteral() string {
	return i.Token.Literal
}
func (i *InputStatement) String() string {
	return fmt.Sprintf("ask the user for a %s and store it in %s", i.InputType, i.Target.String())
}

// FreeStatement is `free the memory at <pointer>`.
type FreeStatement struct {
	Token   lexer.Token
	Pointer Expression
}

func (f *FreeStatement) statementNode()      {}
func (f *FreeStatement) Pos() lexer.Position { return f.Token.Pos }
func (f *FreeStatement) TokenLiteral() string {
	return f.Token.Literal
}
func (f *FreeStatement) String() string { return "free the memory at " + f.Pointer.String() }

// CloseFileStatement is `close the file <handle>`.
type CloseFileStatement struct {
	Token  lexer.Token
	Handle Expression
}

func (c *CloseFileStatement) statementNode()      {}
func (c *CloseFileStatement) Pos() lexer.Position { return c.Token.Pos }
func (c *CloseFileStatement) TokenLiteral() string {
	return c.Token.Literal
}
func (c *CloseFileStatement) String() string { return "close the file " + c.Handle.String() }

// ExpressionStatement wraps an expression evaluated purely for side
// effect, such as a call to a procedure whose result is discarded.
type ExpressionStatement struct {
	Token      lexer.Token
	Expression Expression
}

func (e *ExpressionStatement) statementNode()      {}
func (e *ExpressionStatement) Pos() lexer.Position { return e.Token.Pos }
func (e *ExpressionStatement) TokenLiteral() string {
	return e.Token.Literal
}
func (e *ExpressionStatement) String() string { return e.Expression.String() }

// Built-in GUI statements. Each lowers to a CALL of a dunder-wrapped
// intrinsic name; conforming VMs may implement them as real window
// operations or as no-op stubs, per the language's external-graphics
// policy.
type (
	OpenWindowStatement struct {
		Token               lexer.Token
		Width, Height, Title Expression
	}
	CloseWindowStatement struct{ Token lexer.Token }
	BeginDrawingStatement struct{ Token lexer.Token }
	EndDrawingStatement    struct{ Token lexer.Token }
	ClearScreenStatement struct {
		Token lexer.Token
		Color string
	}
	DrawRectangleStatement struct {
		Token                    lexer.Token
		X, Y, Width, Height Expression
		Color                    string
	}
	DrawTextStatement struct {
		Token              lexer.Token
		Text, X, Y, Size Expression
		Color              string
	}
)

func (s *OpenWindowStatement) statementNode()      {}
func (s *OpenWindowStatement) Pos() lexer.Position { return s.Token.Pos }
func (s *OpenWindowStatement) TokenLiteral() string {
	return s.Token.Literal
}
func (s *OpenWindowStatement) String() string {
	return fmt.Sprintf("open a window sized %s by %s called %s", s.Width.String(), s.Height.String(), s.Title.String())
}

func (s *CloseWindowStatement) statementNode()       {}
func (s *CloseWindowStatement) Pos() lexer.Position  { return s.Token.Pos }
func (s *CloseWindowStatement) TokenLiteral() string { return s.Token.Literal }
func (s *CloseWindowStatement) String() string       { return "close the window" }

func (s *BeginDrawingStatement) statementNode()       {}
func (s *BeginDrawingStatement) Pos() lexer.Position  { return s.Token.Pos }
func (s *BeginDrawingStatement) TokenLiteral() string { return s.Token.Literal }
func (s *BeginDrawingStatement) String() string       { return "begin drawing" }

func (s *EndDrawingStatement) statementNode()       {}
func (s *EndDrawingStatement) Pos() lexer.Position  { return s.Token.Pos }
func (s *EndDrawingStatement) TokenLiteral() string { return s.Token.Literal }
func (s *EndDrawingStatement) String() string       { return "end drawing" }

func (s *ClearScreenStatement) statementNode()      {}
func (s *ClearScreenStatement) Pos() lexer.Position { return s.Token.Pos }
func (s *ClearScreenStatement) TokenLiteral() string {
	return s.Token.Literal
}
func (s *ClearScreenStatement) String() string { return "clear the screen with " + s.Color }

func (s *DrawRectangleStatement) statementNode()      {}
func (s *DrawRectangleStatement) Pos() lexer.Position { return s.Token.Pos }
func (s *DrawRectangleStatement) TokenLiteral() string {
	return s.Token.Literal
}
func (s *DrawRectangleStatement) String() string {
	return fmt.Sprintf("draw a rectangle at %s, %s sized %s by %s in %s",
		s.X.String(), s.Y.String(), s.Width.String(), s.Height.String(), s.Color)
}

func (s *DrawTextStatement) statementNode()      {}
func (s *DrawTextStatement) Pos() lexer.Position { return s.Token.Pos }
func (s *DrawTextStatement) TokenLiteral() string {
	return s.Token.Literal
}
func (s *DrawTextStatement) String() string {
	return fmt.Sprintf("draw text %s at %s, %s sized %s in %s", s.Text.String(), s.X.String(), s.Y.String(), s.Size.String(), s.Color)
}
