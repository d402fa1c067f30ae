package ast

import (
	"fmt"
	"strings"

	"github.com/cwbudde/zinc/internal/lexer"
)

// NumberLiteral is an integer literal.
type NumberLiteral struct {
	Token lexer.Token
	Value int64
}

func (n *NumberLiteral) expressionNode()      {}
func (n *NumberLiteral) Pos() lexer.Position  { return n.Token.Pos }
func (n *NumberLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NumberLiteral) String() string       { return fmt.Sprintf("%d", n.Value) }

// DecimalLiteral is a floating-point literal.
type DecimalLiteral struct {
	Token lexer.Token
	Value float64
}

func (d *DecimalLiteral) expressionNode()      {}
func (d *DecimalLiteral) Pos() lexer.Position  { return d.Token.Pos }
func (d *DecimalLiteral) TokenLiteral() string { return d.Token.Literal }
func (d *DecimalLiteral) String() string       { return fmt.Sprintf("%g", d.Value) }

// StringLiteral is a double-quoted string literal, already escape-decoded.
type StringLiteral struct {
	Token lexer.Token
	Value string
}

func (s *StringLiteral) expressionNode()      {}
func (s *StringLiteral) Pos() lexer.Position  { return s.Token.Pos }
func (s *StringLiteral) TokenLiteral() string { return s.Token.Literal }
func (s *StringLiteral) String() string       { return fmt.Sprintf("%q", s.Value) }

// CharLiteral is a single-quoted character literal, already escape-decoded.
type CharLiteral struct {
	Token lexer.Token
	Value rune
}

func (c *CharLiteral) expressionNode()      {}
func (c *CharLiteral) Pos() lexer.Position  { return c.Token.Pos }
func (c *CharLiteral) TokenLiteral() string { return c.Token.Literal }
func (c *CharLiteral) String() string       { return fmt.Sprintf("'%c'", c.Value) }

// BoolLiteral is `yes` or `no`.
type BoolLiteral struct {
	Token lexer.Token
	Value bool
}

func (b *BoolLiteral) expressionNode()      {}
func (b *BoolLiteral) Pos() lexer.Position  { return b.Token.Pos }
func (b *BoolLiteral) TokenLiteral() string { return b.Token.Literal }
func (b *BoolLiteral) String() string {
	if b.Value {
		return "yes"
	}
	return "no"
}

// NullLiteral is the `null` literal.
type NullLiteral struct {
	Token lexer.Token
}

func (n *NullLiteral) expressionNode()      {}
func (n *NullLiteral) Pos() lexer.Position  { return n.Token.Pos }
func (n *NullLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NullLiteral) String() string       { return "null" }

// Identifier references a variable, parameter, or global by name.
type Identifier struct {
	Token lexer.Token
	Name  string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) Pos() lexer.Position  { return i.Token.Pos }
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Name }

// BinaryExpr is a binary arithmetic, comparison, or logical operation.
// Operator is a canonical operator name ("+", "greater_than", "and", ...)
// assigned by the parser, decoupled from the phrase that spelled it.
type BinaryExpr struct {
	Token    lexer.Token
	Left     Expression
	Operator string
	Right    Expression
}

func (b *BinaryExpr) expressionNode()      {}
func (b *BinaryExpr) Pos() lexer.Position  { return b.Token.Pos }
func (b *BinaryExpr) TokenLiteral() string { return b.Token.Literal }
func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left.String(), b.Operator, b.Right.String())
}

// UnaryExpr is a prefix operation: numeric negation ("-") or logical
// not ("not"). Square root and absolute value are CallExprs; address-of
// and dereference have their own nodes.
type UnaryExpr struct {
	Token    lexer.Token
	Operator string
	Operand  Expression
}

func (u *UnaryExpr) expressionNode()      {}
func (u *UnaryExpr) Pos() lexer.Position  { return u.Token.Pos }
func (u *UnaryExpr) TokenLiteral() string { return u.Token.Literal }
func (u *UnaryExpr) String() string       { return fmt.Sprintf("(%s %s)", u.Operator, u.Operand.String()) }

// CallExpr is a function call, matched positionally to the callee's
// parameters.
type CallExpr struct {
	Token     lexer.Token
	Name      string
	Arguments []Expression
}

func (c *CallExpr) expressionNode()      {}
func (c *CallExpr) Pos() lexer.Position  { return c.Token.Pos }
func (c *CallExpr) TokenLiteral() string { return c.Token.Literal }
func (c *CallExpr) String() string {
	args := make([]string, len(c.Arguments))
	for i, a := range c.Arguments {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Name, strings.Join(args, ", "))
}

// IndexExpr is array element access: `item number <Index> in <Array>`.
type IndexExpr struct {
	Token lexer.Token
	Array Expression
	Index Expression
}

func (e *IndexExpr) expressionNode()      {}
func (e *IndexExpr) Pos() lexer.Position  { return e.Token.Pos }
func (e *IndexExpr) TokenLiteral() string { return e.Token.Literal }
func (e *IndexExpr) String() string {
	return fmt.Sprintf("item number %s in %s", e.Index.String(), e.Array.String())
}

// MemberExpr is struct field access: `<Object>'s <Member>`.
type MemberExpr struct {
	Token  lexer.Token
	Object Expression
	Member string
}

func (m *MemberExpr) expressionNode()      {}
func (m *MemberExpr) Pos() lexer.Position  { return m.Token.Pos }
func (m *MemberExpr) TokenLiteral() string { return m.Token.Literal }
func (m *MemberExpr) String() string       { return fmt.Sprintf("%s's %s", m.Object.String(), m.Member) }

// AddressOfExpr computes the address of an l-value: `the address of <Operand>`.
type AddressOfExpr struct {
	Token   lexer.Token
	Operand Expression
}

func (a *AddressOfExpr) expressionNode()      {}
func (a *AddressOfExpr) Pos() lexer.Position  { return a.Token.Pos }
func (a *AddressOfExpr) TokenLiteral() string { return a.Token.Literal }
func (a *AddressOfExpr) String() string       { return "the address of " + a.Operand.String() }

// DereferenceExpr reads through a pointer: `the value at <Operand>`.
type DereferenceExpr struct {
	Token   lexer.Token
	Operand Expression
}

func (d *DereferenceExpr) expressionNode()      {}
func (d *DereferenceExpr) Pos() lexer.Position  { return d.Token.Pos }
func (d *DereferenceExpr) TokenLiteral() string { return d.Token.Literal }
func (d *DereferenceExpr) String() string       { return "the value at " + d.Operand.String() }

// ListLiteral is an inline array value: `containing <e1>, <e2>, ...`.
type ListLiteral struct {
	Token    lexer.Token
	Elements []Expression
}

func (l *ListLiteral) expressionNode()      {}
func (l *ListLiteral) Pos() lexer.Position  { return l.Token.Pos }
func (l *ListLiteral) TokenLiteral() string { return l.Token.Literal }
func (l *ListLiteral) String() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// AllocateExpr is heap allocation: `allocate space for <Count> <Type>`.
type AllocateExpr struct {
	Token     lexer.Token
	AllocType *TypeSpec
	Count     Expression
}

func (a *AllocateExpr) expressionNode()      {}
func (a *AllocateExpr) Pos() lexer.Position  { return a.Token.Pos }
func (a *AllocateExpr) TokenLiteral() string { return a.Token.Literal }
func (a *AllocateExpr) String() string {
	return fmt.Sprintf("allocate space for %s %s", a.Count.String(), a.AllocType.String())
}

// RandomExpr is `a random number between <Min> and <Max>`.
type RandomExpr struct {
	Token lexer.Token
	Min   Expression
	Max   Expression
}

func (r *RandomExpr) expressionNode()      {}
func (r *RandomExpr) Pos() lexer.Position  { return r.Token.Pos }
func (r *RandomExpr) TokenLiteral() string { return r.Token.Literal }
func (r *RandomExpr) String() string {
	return fmt.Sprintf("a random number between %s and %s", r.Min.String(), r.Max.String())
}

// StructInitExpr builds a struct value: `<Name> has <field: expr>, ...`,
// or a simplified `has <expr>` form that seeds the first declared field.
type StructInitExpr struct {
	Token      lexer.Token
	StructName string
	Fields     []StructFieldInit
}

// StructFieldInit pairs an (optional) field name with its initializer
// expression. Name is empty when the source used the positional `has
// <expr>` shorthand and only the struct's first field is being seeded.
type StructFieldInit struct {
	Name  string
	Value Expression
}

func (s *StructInitExpr) expressionNode()      {}
func (s *StructInitExpr) Pos() lexer.Position  { return s.Token.Pos }
func (s *StructInitExpr) TokenLiteral() string { return s.Token.Literal }
func (s *StructInitExpr) String() string {
	parts := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		if f.Name != "" {
			parts[i] = fmt.Sprintf("%s: %s", f.Name, f.Value.String())
		} else {
			parts[i] = f.Value.String()
		}
	}
	return fmt.Sprintf("%s has %s", s.StructName, strings.Join(parts, ", "))
}

// Built-in GUI/host query expressions. Each lowers to a CALL of a
// dunder-wrapped intrinsic name; they carry no operands of their own.
type (
	WindowShouldCloseExpr struct{ Token lexer.Token }
	MouseXExpr            struct{ Token lexer.Token }
	MouseYExpr            struct{ Token lexer.Token }
	MousePressedExpr      struct{ Token lexer.Token }
)

func (e *WindowShouldCloseExpr) expressionNode()      {}
func (e *WindowShouldCloseExpr) Pos() lexer.Position  { return e.Token.Pos }
func (e *WindowShouldCloseExpr) TokenLiteral() string { return e.Token.Literal }
func (e *WindowShouldCloseExpr) String() string       { return "the window should close" }

func (e *MouseXExpr) expressionNode()      {}
func (e *MouseXExpr) Pos() lexer.Position  { return e.Token.Pos }
func (e *MouseXExpr) TokenLiteral() string { return e.Token.Literal }
func (e *MouseXExpr) String() string       { return "the mouse x position" }

func (e *MouseYExpr) expressionNode()      {}
func (e *MouseYExpr) Pos() lexer.Position  { return e.Token.Pos }
func (e *MouseYExpr) TokenLiteral() string { return e.Token.Literal }
func (e *MouseYExpr) String() string       { return "the mouse y position" }

func (e *MousePressedExpr) expressionNode()      {}
func (e *MousePressedExpr) Pos() lexer.Position  { return e.Token.Pos }
func (e *MousePressedExpr) TokenLiteral() string { return e.Token.Literal }
func (e *MousePressedExpr) String() string       { return "the mouse was pressed" }
