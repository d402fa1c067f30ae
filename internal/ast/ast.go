// Package ast defines the abstract syntax tree produced by the Zinc
// parser. Every node carries enough source position information to
// produce line-annotated diagnostics later in the pipeline.
package ast

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/cwbudde/zinc/internal/lexer"
)

// Node is the base interface implemented by every AST node.
type Node interface {
	// TokenLiteral returns the literal text of the token the node was
	// built from, useful for debugging and error messages.
	TokenLiteral() string
	// String renders the node back to readable (not necessarily
	// canonical-phrasing) source text.
	String() string
	// Pos returns the node's source position.
	Pos() lexer.Position
}

// Expression is any node that produces a runtime value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is any node that performs an action without itself
// producing a value.
type Statement interface {
	Node
	statementNode()
}

// TypeSpec describes a declared type: a base kind plus pointer/list
// modifiers and, for struct-typed values, the struct's name.
type TypeSpec struct {
	Token      lexer.Token
	BaseType   string // "number", "decimal", "text", "letter", "boolean", "nothing", "struct", "file"
	IsPointer  bool
	IsList     bool
	ArraySize  int // 0 when unspecified
	StructName string
}

func (t *TypeSpec) Pos() lexer.Position  { return t.Token.Pos }
func (t *TypeSpec) TokenLiteral() string { return t.Token.Literal }
func (t *TypeSpec) String() string {
	var sb strings.Builder
	if t.IsPointer {
		sb.WriteString("pointer to ")
	}
	if t.IsList {
		sb.WriteString("list of ")
	}
	if t.BaseType == "struct" {
		sb.WriteString(t.StructName)
	} else {
		sb.WriteString(t.BaseType)
	}
	return sb.String()
}

// VarDecl names a single declared variable: a struct field, a function
// parameter, or (wrapped in DeclStatement) a local variable.
type VarDecl struct {
	Token lexer.Token
	Name  string
	Type  *TypeSpec
}

func (v *VarDecl) Pos() lexer.Position  { return v.Token.Pos }
func (v *VarDecl) TokenLiteral() string { return v.Token.Literal }
func (v *VarDecl) String() string {
	if v.Type != nil {
		return fmt.Sprintf("%s called %s", v.Type.String(), v.Name)
	}
	return v.Name
}

// Include records a top-level `include`/`use` clause.
type Include struct {
	Token   lexer.Token
	Library string
}

func (i *Include) Pos() lexer.Position  { return i.Token.Pos }
func (i *Include) TokenLiteral() string { return i.Token.Literal }
func (i *Include) String() string       { return "include " + i.Library }

// StructDef is a top-level `define ... as having ... end` declaration.
type StructDef struct {
	Token  lexer.Token
	Name   string
	Fields []*VarDecl
}

func (s *StructDef) Pos() lexer.Position  { return s.Token.Pos }
func (s *StructDef) TokenLiteral() string { return s.Token.Literal }
func (s *StructDef) String() string {
	var out bytes.Buffer
	fmt.Fprintf(&out, "define %s as having:\n", s.Name)
	for _, f := range s.Fields {
		fmt.Fprintf(&out, "  %s\n", f.String())
	}
	out.WriteString("end")
	return out.String()
}

// FunctionDef is a top-level `to ... :` declaration, including the
// distinguished entry function produced by "do the main thing".
type FunctionDef struct {
	Token      lexer.Token
	Name       string
	Params     []*VarDecl
	ReturnType *TypeSpec
	Body       []Statement
	IsMain     bool
}

func (f *FunctionDef) Pos() lexer.Position  { return f.Token.Pos }
func (f *FunctionDef) TokenLiteral() string { return f.Token.Literal }
func (f *FunctionDef) String() string {
	var out bytes.Buffer
	names := make([]string, len(f.Params))
	for i, p := range f.Params {
		names[i] = p.String()
	}
	fmt.Fprintf(&out, "to %s(%s):\n", f.Name, strings.Join(names, ", "))
	for _, s := range f.Body {
		out.WriteString("  " + s.String() + "\n")
	}
	out.WriteString("end")
	return out.String()
}

// Program is the root of the AST: an ordered set of includes, struct
// definitions, and function definitions in whatever order they
// appeared in the source.
type Program struct {
	Includes   []*Include
	Structures []*StructDef
	Functions  []*FunctionDef
}

func (p *Program) TokenLiteral() string {
	if len(p.Functions) > 0 {
		return p.Functions[0].TokenLiteral()
	}
	return ""
}

func (p *Program) Pos() lexer.Position {
	if len(p.Includes) > 0 {
		return p.Includes[0].Pos()
	}
	if len(p.Structures) > 0 {
		return p.Structures[0].Pos()
	}
	if len(p.Functions) > 0 {
		return p.Functions[0].Pos()
	}
	return lexer.Position{Line: 1, Column: 1}
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, inc := range p.Includes {
		out.WriteString(inc.String() + "\n")
	}
	for _, s := range p.Structures {
		out.WriteString(s.String() + "\n")
	}
	for _, f := range p.Functions {
		out.WriteString(f.String() + "\n")
	}
	return out.String()
}
