package bytecode

import "fmt"

// Function is one compiled function: its parameter names (for the
// disassembler's signature line), its local slot count, and its
// instruction stream.
type Function struct {
	Name       string
	Params     []string
	LocalCount int
	Code       []Instruction
}

// StructLayout is a compiled struct definition: its field names in
// declaration order, paired with the source type name for each
// (used only by the disassembler's "struct <Name>: <type> <field>"
// lines; the VM itself only needs field order and count).
type StructLayout struct {
	Name   string
	Fields []StructFieldLayout
}

type StructFieldLayout struct {
	Name string
	Type string
}

// Program is a fully compiled unit: every function and struct
// definition plus the name of the entry function ("do the main
// thing"). Constants are interned directly onto instructions
// (PUSH_STRING.Str etc.) rather than a separate indexed pool, which
// keeps Instruction self-describing for both the VM and the
// disassembler; Serialize writes each string inline with its
// instruction.
type Program struct {
	EntryFunction string
	Functions     map[string]*Function
	FunctionOrder []string
	Structs       map[string]*StructLayout
	StructOrder   []string
}

func NewProgram() *Program {
	return &Program{
		Functions: make(map[string]*Function),
		Structs:   make(map[string]*StructLayout),
	}
}

func (p *Program) AddFunction(fn *Function) {
	if _, exists := p.Functions[fn.Name]; !exists {
		p.FunctionOrder = append(p.FunctionOrder, fn.Name)
	}
	p.Functions[fn.Name] = fn
}

func (p *Program) AddStruct(s *StructLayout) {
	if _, exists := p.Structs[s.Name]; !exists {
		p.StructOrder = append(p.StructOrder, s.Name)
	}
	p.Structs[s.Name] = s
}

// Validate checks the invariants the spec's testable properties
// require: every jump operand targets a valid instruction index
// within its own function, and every LOAD_LOCAL/STORE_LOCAL operand
// is within the function's declared local count.
func (p *Program) Validate() error {
	for _, name := range p.FunctionOrder {
		fn := p.Functions[name]
		for i, ins := range fn.Code {
			switch ins.Op {
			case JUMP, JUMP_IF_FALSE, JUMP_IF_TRUE:
				if ins.Jump < 0 || ins.Jump >= len(fn.Code) {
					return fmt.Errorf("function %s: instruction %d: jump target %d out of range", name, i, ins.Jump)
				}
			case LOAD_LOCAL, STORE_LOCAL:
				if ins.Index < 0 || ins.Index >= fn.LocalCount {
					return fmt.Errorf("function %s: instruction %d: local slot %d out of range (count %d)", name, i, ins.Index, fn.LocalCount)
				}
			case CREATE_STRUCT:
				if _, ok := p.Structs[ins.Name]; !ok {
					return fmt.Errorf("function %s: instruction %d: unknown struct %q", name, i, ins.Name)
				}
			}
		}
	}
	if p.EntryFunction != "" {
		if _, ok := p.Functions[p.EntryFunction]; !ok {
			return fmt.Errorf("entry function %q not defined", p.EntryFunction)
		}
	}
	return nil
}
