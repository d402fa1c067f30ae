package bytecode

import (
	"fmt"
	"strconv"
	"strings"
)

// Disassemble renders a compiled Program in the toolchain's textual
// IR format: a header line, one block per struct definition, then one
// block per function with its instructions listed at zero-based,
// right-aligned indices.
func Disassemble(p *Program) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "; zinc bytecode, entry=%s\n", p.EntryFunction)

	for _, name := range p.StructOrder {
		s := p.Structs[name]
		fmt.Fprintf(&sb, "struct %s:\n", s.Name)
		for _, f := range s.Fields {
			fmt.Fprintf(&sb, "  %s %s\n", f.Type, f.Name)
		}
	}

	for _, name := range p.FunctionOrder {
		fn := p.Functions[name]
		fmt.Fprintf(&sb, "function %s(%s):\n", fn.Name, strings.Join(fn.Params, ", "))
		width := len(strconv.Itoa(len(fn.Code) - 1))
		if width < 1 {
			width = 1
		}
		for i, ins := range fn.Code {
			operand := ins.OperandString()
			if operand == "" {
				fmt.Fprintf(&sb, "%*d: %s\n", width, i, ins.Op.String())
			} else {
				fmt.Fprintf(&sb, "%*d: %s %s\n", width, i, ins.Op.String(), operand)
			}
		}
	}

	return sb.String()
}
