package bytecode

import "github.com/cwbudde/zinc/internal/ast"

var binaryOps = map[string]OpCode{
	"+": ADD, "-": SUB, "*": MUL, "/": DIV, "%": MOD,
	">": GT, "<": LT, "==": EQ, "!=": NE, ">=": GE, "<=": LE,
}

// compileExpression lowers an expression, leaving exactly one value
// on the stack.
func (fc *funcCompiler) compileExpression(expr ast.Expression) {
	line := expr.Pos().Line
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		fc.emit(Instruction{Op: PUSH_INT, Int: e.Value, Line: line})
	case *ast.DecimalLiteral:
		fc.emit(Instruction{Op: PUSH_FLOAT, Float: e.Value, Line: line})
	case *ast.StringLiteral:
		fc.emit(Instruction{Op: PUSH_STRING, Str: e.Value, Line: line})
	case *ast.CharLiteral:
		fc.emit(Instruction{Op: PUSH_CHAR, Char: e.Value, Line: line})
	case *ast.BoolLiteral:
		fc.emit(Instruction{Op: PUSH_BOOL, Bool: e.Value, Line: line})
	case *ast.NullLiteral:
		fc.emit(Instruction{Op: PUSH_NULL, Line: line})
	case *ast.Identifier:
		if fc.isLocal(e.Name) {
			fc.emit(Instruction{Op: LOAD_LOCAL, Index: fc.localSlot(e.Name), Line: line})
		} else {
			fc.emit(Instruction{Op: LOAD_GLOBAL, Name: e.Name, Line: line})
		}
	case *ast.BinaryExpr:
		fc.compileBinary(e)
	case *ast.UnaryExpr:
		fc.compileExpression(e.Operand)
		switch e.Operator {
		case "not":
			fc.emit(Instruction{Op: NOT, Line: line})
		case "-":
			fc.emit(Instruction{Op: NEG, Line: line})
		default:
			fc.c.fail(e.Pos(), "unknown unary operator %q", e.Operator)
		}
	case *ast.CallExpr:
		for _, a := range e.Arguments {
			fc.compileExpression(a)
		}
		fc.emit(Instruction{Op: CALL, Name: e.Name, Argc: len(e.Arguments), Line: line})
	case *ast.IndexExpr:
		fc.compileExpression(e.Array)
		fc.compileExpression(e.Index)
		fc.emit(Instruction{Op: ARRAY_GET, Line: line})
	case *ast.MemberExpr:
		fc.compileExpression(e.Object)
		fc.emit(Instruction{Op: STRUCT_GET, Name: e.Member, Line: line})
	case *ast.AddressOfExpr:
		fc.compileAddressOf(e)
	case *ast.DereferenceExpr:
		fc.compileExpression(e.Operand)
		fc.emit(Instruction{Op: LOAD_PTR, Line: line})
	case *ast.ListLiteral:
		for _, el := range e.Elements {
			fc.compileExpression(el)
		}
		fc.emit(Instruction{Op: ARRAY_LITERAL, Int: int64(len(e.Elements)), Line: line})
	case *ast.AllocateExpr:
		fc.compileExpression(e.Count)
		fc.emit(Instruction{Op: ALLOC, Name: e.AllocType.String(), Line: line})
	case *ast.RandomExpr:
		fc.compileExpression(e.Min)
		fc.compileExpression(e.Max)
		fc.emit(Instruction{Op: RANDOM, Line: line})
	case *ast.StructInitExpr:
		fc.compileStructInit(e)
	case *ast.WindowShouldCloseExpr:
		fc.emit(Instruction{Op: CALL, Name: "__window_should_close__", Argc: 0, Line: line})
	case *ast.MouseXExpr:
		fc.emit(Instruction{Op: CALL, Name: "__mouse_x__", Argc: 0, Line: line})
	case *ast.MouseYExpr:
		fc.emit(Instruction{Op: CALL, Name: "__mouse_y__", Argc: 0, Line: line})
	case *ast.MousePressedExpr:
		fc.emit(Instruction{Op: CALL, Name: "__mouse_pressed__", Argc: 0, Line: line})
	default:
		fc.c.fail(expr.Pos(), "unsupported expression")
	}
}

func (fc *funcCompiler) compileBinary(e *ast.BinaryExpr) {
	line := e.Pos().Line
	switch e.Operator {
	case "and":
		fc.compileExpression(e.Left)
		fc.emit(Instruction{Op: DUP, Line: line})
		skip := fc.emit(Instruction{Op: JUMP_IF_FALSE, Line: line})
		fc.emit(Instruction{Op: POP, Line: line})
		fc.compileExpression(e.Right)
		fc.patchJump(skip, fc.here())
		return
	case "or":
		fc.compileExpression(e.Left)
		fc.emit(Instruction{Op: DUP, Line: line})
		skip := fc.emit(Instruction{Op: JUMP_IF_TRUE, Line: line})
		fc.emit(Instruction{Op: POP, Line: line})
		fc.compileExpression(e.Right)
		fc.patchJump(skip, fc.here())
		return
	}

	fc.compileExpression(e.Left)
	fc.compileExpression(e.Right)
	op, ok := binaryOps[e.Operator]
	if !ok {
		fc.c.fail(e.Pos(), "unknown binary operator %q", e.Operator)
	}
	fc.emit(Instruction{Op: op, Line: line})
}

// compileAddressOf only supports taking the address of a plain local
// or global name; per the spec's Design Notes, a pointer that escapes
// its creating frame is ill-defined, so a bare name (rather than an
// arbitrary sub-expression) is the only address-of target.
func (fc *funcCompiler) compileAddressOf(e *ast.AddressOfExpr) {
	line := e.Pos().Line
	id, ok := e.Operand.(*ast.Identifier)
	if !ok {
		fc.c.fail(e.Pos(), "can only take the address of a named variable")
		return
	}
	if fc.isLocal(id.Name) {
		fc.emit(Instruction{Op: ADDRESS_OF, Bool: true, Index: fc.localSlot(id.Name), Line: line})
	} else {
		fc.emit(Instruction{Op: ADDRESS_OF, Bool: false, Name: id.Name, Line: line})
	}
}
