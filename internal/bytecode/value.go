// Package bytecode defines Zinc's intermediate representation (a
// stack-oriented instruction set), the AST-to-IR compiler, and the
// stack virtual machine that executes compiled programs.
package bytecode

import (
	"fmt"
	"strings"
)

// ValueType tags the variant held by a Value.
type ValueType int

const (
	TypeInt ValueType = iota
	TypeFloat
	TypeString
	TypeChar
	TypeBool
	TypeNull
	TypeArray
	TypeStruct
	TypePointer
)

func (t ValueType) String() string {
	switch t {
	case TypeInt:
		return "number"
	case TypeFloat:
		return "decimal"
	case TypeString:
		return "text"
	case TypeChar:
		return "letter"
	case TypeBool:
		return "boolean"
	case TypeNull:
		return "null"
	case TypeArray:
		return "list"
	case TypeStruct:
		return "struct"
	case TypePointer:
		return "pointer"
	default:
		return "unknown"
	}
}

// Value is a tagged-union runtime value. Exactly one of the typed
// fields is meaningful, selected by Type; this replaces the reference
// implementation's dynamically-typed Python values with a single
// fixed-shape Go type so arithmetic and comparison can branch on a
// plain enum instead of runtime reflection.
type Value struct {
	Type   ValueType
	Int    int64
	Float  float64
	Str    string
	Char   rune
	Bool   bool
	Array  *ArrayInstance
	Struct *StructInstance
	Ptr    Pointer
}

// PointerKind distinguishes a Pointer's target storage class.
type PointerKind int

const (
	PointerNone PointerKind = iota
	PointerLocal
	PointerGlobal
	PointerHeap
)

// Pointer identifies a storage cell a Pointer value refers to. Locals
// are frame-relative: a Pointer of kind PointerLocal is only
// meaningful while its creating frame is live, per the spec's note
// that an escaping local pointer is ill-defined. Heap carries an index
// into the VM's ALLOC arena.
type Pointer struct {
	Kind PointerKind
	Slot int    // local slot index, or heap arena index
	Name string // global name, when Kind == PointerGlobal
}

func MakeInt(v int64) Value      { return Value{Type: TypeInt, Int: v} }
func MakeFloat(v float64) Value  { return Value{Type: TypeFloat, Float: v} }
func MakeString(v string) Value  { return Value{Type: TypeString, Str: v} }
func MakeChar(v rune) Value      { return Value{Type: TypeChar, Char: v} }
func MakeBool(v bool) Value      { return Value{Type: TypeBool, Bool: v} }
func MakeNull() Value            { return Value{Type: TypeNull} }
func MakeArray(a *ArrayInstance) Value { return Value{Type: TypeArray, Array: a} }
func MakeStruct(s *StructInstance) Value { return Value{Type: TypeStruct, Struct: s} }
func MakePointer(p Pointer) Value { return Value{Type: TypePointer, Ptr: p} }

// IsTruthy applies Zinc's per-variant truthiness rule: booleans by
// their own value, numbers/decimals by nonzero, strings/arrays by
// nonempty, Null is always false, and everything else (structs,
// pointers) is true once it exists.
func (v Value) IsTruthy() bool {
	switch v.Type {
	case TypeBool:
		return v.Bool
	case TypeInt:
		return v.Int != 0
	case TypeFloat:
		return v.Float != 0
	case TypeString:
		return v.Str != ""
	case TypeChar:
		return v.Char != 0
	case TypeNull:
		return false
	case TypeArray:
		return v.Array != nil && v.Array.Len() > 0
	default:
		return true
	}
}

// String renders a Value the way `say` prints it: yes/no for
// booleans, strings as-is (unquoted), bracketed arrays.
func (v Value) String() string {
	switch v.Type {
	case TypeInt:
		return fmt.Sprintf("%d", v.Int)
	case TypeFloat:
		return fmt.Sprintf("%g", v.Float)
	case TypeString:
		return v.Str
	case TypeChar:
		return string(v.Char)
	case TypeBool:
		if v.Bool {
			return "yes"
		}
		return "no"
	case TypeNull:
		return "null"
	case TypeArray:
		parts := make([]string, v.Array.Len())
		for i := range parts {
			parts[i] = v.Array.Get(i).String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case TypeStruct:
		return v.Struct.String()
	case TypePointer:
		return fmt.Sprintf("<pointer %d>", v.Ptr.Slot)
	default:
		return "<?>"
	}
}

// ArrayInstance is a reference-typed, growable array of Values. It is
// always heap-allocated and shared by reference the way Array/Struct
// values are in the source language: assigning an array to a second
// variable aliases the same backing storage.
type ArrayInstance struct {
	elements []Value
}

func NewArray(elements []Value) *ArrayInstance {
	return &ArrayInstance{elements: append([]Value(nil), elements...)}
}

func (a *ArrayInstance) Len() int { return len(a.elements) }

// Get returns the element at index i, or the zero Value if out of
// range. Callers needing the spec's "index out of bounds" runtime
// error use GetChecked and check its ok result.
func (a *ArrayInstance) Get(i int) Value {
	if i < 0 || i >= len(a.elements) {
		return Value{}
	}
	return a.elements[i]
}

func (a *ArrayInstance) GetChecked(i int) (Value, bool) {
	if i < 0 || i >= len(a.elements) {
		return Value{}, false
	}
	return a.elements[i], true
}

func (a *ArrayInstance) SetChecked(i int, v Value) bool {
	if i < 0 || i >= len(a.elements) {
		return false
	}
	a.elements[i] = v
	return true
}

// StructInstance is an order-preserving struct value: fields are
// stored alongside their declaration order so field iteration (and
// any future reflective printing) sees the order the struct was
// defined with, unlike a plain Go map.
type StructInstance struct {
	Name       string
	fieldNames []string
	fieldIndex map[string]int
	fieldVals  []Value
}

func NewStructInstance(name string, fieldNames []string) *StructInstance {
	idx := make(map[string]int, len(fieldNames))
	for i, n := range fieldNames {
		idx[n] = i
	}
	return &StructInstance{
		Name:       name,
		fieldNames: append([]string(nil), fieldNames...),
		fieldIndex: idx,
		fieldVals:  make([]Value, len(fieldNames)),
	}
}

func (s *StructInstance) FieldNames() []string { return s.fieldNames }

func (s *StructInstance) Get(field string) (Value, bool) {
	i, ok := s.fieldIndex[field]
	if !ok {
		return Value{}, false
	}
	return s.fieldVals[i], true
}

func (s *StructInstance) Set(field string, v Value) bool {
	i, ok := s.fieldIndex[field]
	if !ok {
		return false
	}
	s.fieldVals[i] = v
	return true
}

func (s *StructInstance) String() string {
	parts := make([]string, len(s.fieldNames))
	for i, n := range s.fieldNames {
		parts[i] = fmt.Sprintf("%s: %s", n, s.fieldVals[i].String())
	}
	return s.Name + "{" + strings.Join(parts, ", ") + "}"
}

// Equal implements Zinc's equality rule: same-variant structural
// equality for primitives, reference identity for arrays and structs
// (aliases are equal, independently built values with the same
// contents are not), Null equal only to Null, and a cross-variant
// Int/Float promotion so 5 equals 5.0.
func Equal(a, b Value) bool {
	if a.Type != b.Type {
		if af, aok := numericValue(a); aok {
			if bf, bok := numericValue(b); bok {
				return af == bf
			}
		}
		return false
	}
	switch a.Type {
	case TypeInt:
		return a.Int == b.Int
	case TypeFloat:
		return a.Float == b.Float
	case TypeString:
		return a.Str == b.Str
	case TypeChar:
		return a.Char == b.Char
	case TypeBool:
		return a.Bool == b.Bool
	case TypeNull:
		return true
	case TypeArray:
		return a.Array == b.Array
	case TypeStruct:
		return a.Struct == b.Struct
	case TypePointer:
		return a.Ptr == b.Ptr
	default:
		return false
	}
}
