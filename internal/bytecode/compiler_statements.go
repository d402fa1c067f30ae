package bytecode

import "github.com/cwbudde/zinc/internal/ast"

// compileStatement lowers one statement. Nil is never returned to the
// caller; every case either emits instructions or (for a handful of
// comment-only forms that never reach here, since the parser drops
// them) would be a no-op.
func (fc *funcCompiler) compileStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.DeclStatement:
		fc.compileDecl(s)
	case *ast.Assignment:
		fc.compileAssignmentStatement(s)
	case *ast.IfStatement:
		fc.compileIf(s)
	case *ast.WhileStatement:
		fc.compileWhile(s)
	case *ast.ForStatement:
		fc.compileFor(s)
	case *ast.ForEachStatement:
		fc.compileForEach(s)
	case *ast.RepeatStatement:
		fc.compileRepeat(s)
	case *ast.ReturnStatement:
		fc.compileReturn(s)
	case *ast.BreakStatement:
		if len(fc.breakJumps) == 0 {
			fc.c.fail(s.Pos(), "'stop the loop' used outside of a loop")
		}
		at := fc.emit(Instruction{Op: JUMP, Line: s.Pos().Line})
		fc.addBreak(at)
	case *ast.ContinueStatement:
		if len(fc.contJumps) == 0 {
			fc.c.fail(s.Pos(), "'skip to the next one' used outside of a loop")
		}
		at := fc.emit(Instruction{Op: JUMP, Line: s.Pos().Line})
		fc.addContinue(at)
	case *ast.PrintStatement:
		fc.compilePrint(s)
	case *ast.InputStatement:
		fc.compileInput(s)
	case *ast.FreeStatement:
		fc.compileExpression(s.Pointer)
		fc.emit(Instruction{Op: FREE, Line: s.Pos().Line})
	case *ast.CloseFileStatement:
		fc.compileExpression(s.Handle)
		fc.emit(Instruction{Op: CALL, Name: "__close_file__", Argc: 1, Line: s.Pos().Line})
		fc.emit(Instruction{Op: POP, Line: s.Pos().Line})
	case *ast.ExpressionStatement:
		fc.compileExpression(s.Expression)
		fc.emit(Instruction{Op: POP, Line: s.Pos().Line})
	case *ast.OpenWindowStatement:
		fc.compileExpression(s.Width)
		fc.compileExpression(s.Height)
		fc.compileExpression(s.Title)
		fc.emit(Instruction{Op: CALL, Name: "__open_window__", Argc: 3, Line: s.Pos().Line})
		fc.emit(Instruction{Op: POP, Line: s.Pos().Line})
	case *ast.CloseWindowStatement:
		fc.emit(Instruction{Op: CALL, Name: "__close_window__", Argc: 0, Line: s.Pos().Line})
		fc.emit(Instruction{Op: POP, Line: s.Pos().Line})
	case *ast.BeginDrawingStatement:
		fc.emit(Instruction{Op: CALL, Name: "__begin_drawing__", Argc: 0, Line: s.Pos().Line})
		fc.emit(Instruction{Op: POP, Line: s.Pos().Line})
	case *ast.EndDrawingStatement:
		fc.emit(Instruction{Op: CALL, Name: "__end_drawing__", Argc: 0, Line: s.Pos().Line})
		fc.emit(Instruction{Op: POP, Line: s.Pos().Line})
	case *ast.ClearScreenStatement:
		fc.emit(Instruction{Op: PUSH_STRING, Str: s.Color, Line: s.Pos().Line})
		fc.emit(Instruction{Op: CALL, Name: "__clear_screen__", Argc: 1, Line: s.Pos().Line})
		fc.emit(Instruction{Op: POP, Line: s.Pos().Line})
	case *ast.DrawRectangleStatement:
		fc.compileExpression(s.X)
		fc.compileExpression(s.Y)
		fc.compileExpression(s.Width)
		fc.compileExpression(s.Height)
		fc.emit(Instruction{Op: PUSH_STRING, Str: s.Color, Line: s.Pos().Line})
		fc.emit(Instruction{Op: CALL, Name: "__draw_rectangle__", Argc: 5, Line: s.Pos().Line})
		fc.emit(Instruction{Op: POP, Line: s.Pos().Line})
	case *ast.DrawTextStatement:
		fc.compileExpression(s.Text)
		fc.compileExpression(s.X)
		fc.compileExpression(s.Y)
		fc.compileExpression(s.Size)
		fc.emit(Instruction{Op: PUSH_STRING, Str: s.Color, Line: s.Pos().Line})
		fc.emit(Instruction{Op: CALL, Name: "__draw_text__", Argc: 5, Line: s.Pos().Line})
		fc.emit(Instruction{Op: POP, Line: s.Pos().Line})
	default:
		fc.c.fail(stmt.Pos(), "unsupported statement")
	}
}

func (fc *funcCompiler) compileDecl(d *ast.DeclStatement) {
	line := d.Pos().Line
	slot := fc.localSlot(d.Name)

	switch {
	case d.IsFile:
		fc.compileExpression(d.FilePath)
		fc.emit(Instruction{Op: PUSH_STRING, Str: d.FileMode, Line: line})
		fc.emit(Instruction{Op: CALL, Name: "__open_file__", Argc: 2, Line: line})
		fc.emit(Instruction{Op: STORE_LOCAL, Index: slot, Line: line})
	case d.StructInit != nil:
		fc.compileStructInit(d.StructInit)
		fc.emit(Instruction{Op: STORE_LOCAL, Index: slot, Line: line})
	case d.Elements != nil:
		for _, e := range d.Elements {
			fc.compileExpression(e)
		}
		fc.emit(Instruction{Op: ARRAY_LITERAL, Int: int64(len(d.Elements)), Line: line})
		fc.emit(Instruction{Op: STORE_LOCAL, Index: slot, Line: line})
	case d.InitialValue != nil:
		fc.compileExpression(d.InitialValue)
		fc.emit(Instruction{Op: STORE_LOCAL, Index: slot, Line: line})
	default:
		fc.emitZeroValue(d.Type, line)
		fc.emit(Instruction{Op: STORE_LOCAL, Index: slot, Line: line})
	}
}

// emitZeroValue pushes the default value for a declared-but-uninitialized
// variable of the given type.
func (fc *funcCompiler) emitZeroValue(t *ast.TypeSpec, line int) {
	if t == nil {
		fc.emit(Instruction{Op: PUSH_NULL, Line: line})
		return
	}
	if t.IsList {
		fc.emit(Instruction{Op: ARRAY_LITERAL, Int: 0, Line: line})
		return
	}
	switch t.BaseType {
	case "number":
		fc.emit(Instruction{Op: PUSH_INT, Int: 0, Line: line})
	case "decimal":
		fc.emit(Instruction{Op: PUSH_FLOAT, Float: 0, Line: line})
	case "text":
		fc.emit(Instruction{Op: PUSH_STRING, Str: "", Line: line})
	case "letter":
		fc.emit(Instruction{Op: PUSH_CHAR, Char: 0, Line: line})
	case "boolean":
		fc.emit(Instruction{Op: PUSH_BOOL, Bool: false, Line: line})
	default:
		fc.emit(Instruction{Op: PUSH_NULL, Line: line})
	}
}

func (fc *funcCompiler) compileStructInit(si *ast.StructInitExpr) {
	line := si.Pos().Line
	fc.emit(Instruction{Op: CREATE_STRUCT, Name: si.StructName, Line: line})
	for _, f := range si.Fields {
		if f.Name == "" {
			continue // positional shorthand seeding only the first field; handled below
		}
		fc.emit(Instruction{Op: DUP, Line: line})
		fc.compileExpression(f.Value)
		fc.emit(Instruction{Op: STRUCT_SET, Name: f.Name, Line: line})
	}
	if len(si.Fields) == 1 && si.Fields[0].Name == "" {
		fc.emit(Instruction{Op: DUP, Line: line})
		fc.compileExpression(si.Fields[0].Value)
		fc.emit(Instruction{Op: STRUCT_SET, Name: firstFieldOf(fc.c.prog, si.StructName), Line: line})
	}
}

func firstFieldOf(p *Program, structName string) string {
	if s, ok := p.Structs[structName]; ok && len(s.Fields) > 0 {
		return s.Fields[0].Name
	}
	return ""
}

// compileAssign dispatches on target kind before emitting any
// operand for the value, so there is no emit-then-pop-and-reemit
// step: an identifier target stores directly, while indexed/member/
// pointer targets push their addressing operands first and the value
// last, matching the order their corresponding SET opcode expects.
func (fc *funcCompiler) compileAssign(target ast.Expression, valueExpr ast.Expression) {
	line := target.Pos().Line
	switch t := target.(type) {
	case *ast.Identifier:
		fc.compileExpression(valueExpr)
		if fc.isLocal(t.Name) {
			fc.emit(Instruction{Op: STORE_LOCAL, Index: fc.localSlot(t.Name), Line: line})
		} else {
			fc.emit(Instruction{Op: STORE_GLOBAL, Name: t.Name, Line: line})
		}
	case *ast.IndexExpr:
		fc.compileExpression(t.Array)
		fc.compileExpression(t.Index)
		fc.compileExpression(valueExpr)
		fc.emit(Instruction{Op: ARRAY_SET, Line: line})
	case *ast.MemberExpr:
		fc.compileExpression(t.Object)
		fc.compileExpression(valueExpr)
		fc.emit(Instruction{Op: STRUCT_SET, Name: t.Member, Line: line})
	case *ast.DereferenceExpr:
		fc.compileExpression(t.Operand)
		fc.compileExpression(valueExpr)
		fc.emit(Instruction{Op: STORE_PTR, Line: line})
	default:
		fc.c.fail(target.Pos(), "invalid assignment target")
	}
}

func (fc *funcCompiler) compileAssignmentStatement(a *ast.Assignment) {
	if a.Operator == "=" {
		fc.compileAssign(a.Target, a.Value)
		return
	}
	// Sugar forms (+=, -=, *=, /=) read the current target value, so
	// they are lowered as a BinaryExpr wrapping a fresh read of the
	// target rather than a dedicated opcode.
	op := map[string]string{"+=": "+", "-=": "-", "*=": "*", "/=": "/"}[a.Operator]
	combined := &ast.BinaryExpr{Token: a.Token, Left: a.Target, Operator: op, Right: a.Value}
	fc.compileAssign(a.Target, combined)
}

func (fc *funcCompiler) compileIf(s *ast.IfStatement) {
	var endJumps []int

	fc.compileExpression(s.Condition)
	elseJump := fc.emit(Instruction{Op: JUMP_IF_FALSE, Line: s.Pos().Line})
	for _, stmt := range s.ThenBody {
		fc.compileStatement(stmt)
	}
	endJumps = append(endJumps, fc.emit(Instruction{Op: JUMP, Line: s.Pos().Line}))
	fc.patchJump(elseJump, fc.here())

	for _, ei := range s.ElseIfClauses {
		fc.compileExpression(ei.Condition)
		nextJump := fc.emit(Instruction{Op: JUMP_IF_FALSE, Line: ei.Pos().Line})
		for _, stmt := range ei.Body {
			fc.compileStatement(stmt)
		}
		endJumps = append(endJumps, fc.emit(Instruction{Op: JUMP, Line: ei.Pos().Line}))
		fc.patchJump(nextJump, fc.here())
	}

	for _, stmt := range s.ElseBody {
		fc.compileStatement(stmt)
	}

	target := fc.here()
	for _, at := range endJumps {
		fc.patchJump(at, target)
	}
}

func (fc *funcCompiler) compileWhile(s *ast.WhileStatement) {
	fc.pushLoop()
	condStart := fc.here()
	fc.compileExpression(s.Condition)
	exitJump := fc.emit(Instruction{Op: JUMP_IF_FALSE, Line: s.Pos().Line})
	for _, stmt := range s.Body {
		fc.compileStatement(stmt)
	}
	fc.emit(Instruction{Op: JUMP, Jump: condStart, Line: s.Pos().Line})
	end := fc.here()
	fc.patchJump(exitJump, end)
	fc.popLoop(end, condStart)
}

func (fc *funcCompiler) compileFor(s *ast.ForStatement) {
	line := s.Pos().Line
	slot := fc.localSlot(s.VarName)

	fc.compileExpression(s.Start)
	fc.emit(Instruction{Op: STORE_LOCAL, Index: slot, Line: line})

	fc.pushLoop()
	condStart := fc.here()
	fc.emit(Instruction{Op: LOAD_LOCAL, Index: slot, Line: line})
	fc.compileExpression(s.End)
	if s.Step < 0 {
		fc.emit(Instruction{Op: GE, Line: line})
	} else {
		fc.emit(Instruction{Op: LE, Line: line})
	}
	exitJump := fc.emit(Instruction{Op: JUMP_IF_FALSE, Line: line})

	for _, stmt := range s.Body {
		fc.compileStatement(stmt)
	}

	contTarget := fc.here()
	fc.emit(Instruction{Op: LOAD_LOCAL, Index: slot, Line: line})
	if s.Step < 0 {
		fc.emit(Instruction{Op: PUSH_INT, Int: 1, Line: line})
		fc.emit(Instruction{Op: SUB, Line: line})
	} else {
		fc.emit(Instruction{Op: PUSH_INT, Int: 1, Line: line})
		fc.emit(Instruction{Op: ADD, Line: line})
	}
	fc.emit(Instruction{Op: STORE_LOCAL, Index: slot, Line: line})
	fc.emit(Instruction{Op: JUMP, Jump: condStart, Line: line})

	end := fc.here()
	fc.patchJump(exitJump, end)
	fc.popLoop(end, contTarget)
}

func (fc *funcCompiler) compileForEach(s *ast.ForEachStatement) {
	line := s.Pos().Line
	varSlot := fc.localSlot(s.VarName)
	idxSlot := fc.localSlot("__foreach_idx_" + s.VarName)
	arrSlot := fc.localSlot("__foreach_arr_" + s.VarName)

	fc.compileExpression(s.Iterable)
	fc.emit(Instruction{Op: STORE_LOCAL, Index: arrSlot, Line: line})
	fc.emit(Instruction{Op: PUSH_INT, Int: 0, Line: line})
	fc.emit(Instruction{Op: STORE_LOCAL, Index: idxSlot, Line: line})

	fc.pushLoop()
	condStart := fc.here()
	fc.emit(Instruction{Op: LOAD_LOCAL, Index: idxSlot, Line: line})
	fc.emit(Instruction{Op: LOAD_LOCAL, Index: arrSlot, Line: line})
	fc.emit(Instruction{Op: ARRAY_LENGTH, Line: line})
	fc.emit(Instruction{Op: LT, Line: line})
	exitJump := fc.emit(Instruction{Op: JUMP_IF_FALSE, Line: line})

	fc.emit(Instruction{Op: LOAD_LOCAL, Index: arrSlot, Line: line})
	fc.emit(Instruction{Op: LOAD_LOCAL, Index: idxSlot, Line: line})
	fc.emit(Instruction{Op: ARRAY_GET, Line: line})
	fc.emit(Instruction{Op: STORE_LOCAL, Index: varSlot, Line: line})

	for _, stmt := range s.Body {
		fc.compileStatement(stmt)
	}

	contTarget := fc.here()
	fc.emit(Instruction{Op: LOAD_LOCAL, Index: idxSlot, Line: line})
	fc.emit(Instruction{Op: PUSH_INT, Int: 1, Line: line})
	fc.emit(Instruction{Op: ADD, Line: line})
	fc.emit(Instruction{Op: STORE_LOCAL, Index: idxSlot, Line: line})
	fc.emit(Instruction{Op: JUMP, Jump: condStart, Line: line})

	end := fc.here()
	fc.patchJump(exitJump, end)
	fc.popLoop(end, contTarget)
}

func (fc *funcCompiler) compileRepeat(s *ast.RepeatStatement) {
	line := s.Pos().Line
	countSlot := fc.localSlot(fc.freshTempName("repeat_count"))
	idxSlot := fc.localSlot(fc.freshTempName("repeat_idx"))

	fc.compileExpression(s.Count)
	fc.emit(Instruction{Op: STORE_LOCAL, Index: countSlot, Line: line})
	fc.emit(Instruction{Op: PUSH_INT, Int: 0, Line: line})
	fc.emit(Instruction{Op: STORE_LOCAL, Index: idxSlot, Line: line})

	fc.pushLoop()
	condStart := fc.here()
	fc.emit(Instruction{Op: LOAD_LOCAL, Index: idxSlot, Line: line})
	fc.emit(Instruction{Op: LOAD_LOCAL, Index: countSlot, Line: line})
	fc.emit(Instruction{Op: LT, Line: line})
	exitJump := fc.emit(Instruction{Op: JUMP_IF_FALSE, Line: line})

	for _, stmt := range s.Body {
		fc.compileStatement(stmt)
	}

	contTarget := fc.here()
	fc.emit(Instruction{Op: LOAD_LOCAL, Index: idxSlot, Line: line})
	fc.emit(Instruction{Op: PUSH_INT, Int: 1, Line: line})
	fc.emit(Instruction{Op: ADD, Line: line})
	fc.emit(Instruction{Op: STORE_LOCAL, Index: idxSlot, Line: line})
	fc.emit(Instruction{Op: JUMP, Jump: condStart, Line: line})

	end := fc.here()
	fc.patchJump(exitJump, end)
	fc.popLoop(end, contTarget)
}

// freshTempName produces a local name guaranteed not to collide with
// any source-level identifier, for machinery (repeat's counter and
// limit slots, input's temporary value slot) that has no name of its
// own.
func (fc *funcCompiler) freshTempName(base string) string {
	fc.tempCounter++
	return "__" + base + "_" + itoa(int64(fc.tempCounter))
}

func (fc *funcCompiler) compileReturn(s *ast.ReturnStatement) {
	line := s.Pos().Line
	if s.Value == nil {
		fc.emit(Instruction{Op: RETURN, Line: line})
		return
	}
	fc.compileExpression(s.Value)
	fc.emit(Instruction{Op: RETURN_VALUE, Line: line})
}

func (fc *funcCompiler) compilePrint(s *ast.PrintStatement) {
	line := s.Pos().Line
	for _, part := range s.Parts {
		fc.compileExpression(part)
		fc.emit(Instruction{Op: PRINT, Line: line})
	}
	fc.emit(Instruction{Op: PRINT_NEWLINE, Line: line})
}

func (fc *funcCompiler) compileInput(s *ast.InputStatement) {
	line := s.Pos().Line
	var op OpCode
	switch s.InputType {
	case "decimal":
		op = INPUT_FLOAT
	case "text":
		op = INPUT_STRING
	case "letter":
		op = INPUT_CHAR
	default:
		op = INPUT_INT
	}
	fc.emit(Instruction{Op: op, Line: line})
	fc.compileStoreFromStack(s.Target, line)
}

// compileStoreFromStack stores a value the caller has already pushed
// (used by input reads, where the value's shape is an opcode result
// rather than a compiled expression). Identifier targets pop it
// directly; compound targets re-push it after computing the
// addressing operands, since ARRAY_SET/STRUCT_SET/STORE_PTR expect
// the value to be the last operand on the stack.
func (fc *funcCompiler) compileStoreFromStack(target ast.Expression, line int) {
	switch t := target.(type) {
	case *ast.Identifier:
		if fc.isLocal(t.Name) {
			fc.emit(Instruction{Op: STORE_LOCAL, Index: fc.localSlot(t.Name), Line: line})
		} else {
			fc.emit(Instruction{Op: STORE_GLOBAL, Name: t.Name, Line: line})
		}
	case *ast.IndexExpr:
		tmp := fc.localSlot(fc.freshTempName("input_val"))
		fc.emit(Instruction{Op: STORE_LOCAL, Index: tmp, Line: line})
		fc.compileExpression(t.Array)
		fc.compileExpression(t.Index)
		fc.emit(Instruction{Op: LOAD_LOCAL, Index: tmp, Line: line})
		fc.emit(Instruction{Op: ARRAY_SET, Line: line})
	case *ast.MemberExpr:
		tmp := fc.localSlot(fc.freshTempName("input_val"))
		fc.emit(Instruction{Op: STORE_LOCAL, Index: tmp, Line: line})
		fc.compileExpression(t.Object)
		fc.emit(Instruction{Op: LOAD_LOCAL, Index: tmp, Line: line})
		fc.emit(Instruction{Op: STRUCT_SET, Name: t.Member, Line: line})
	case *ast.DereferenceExpr:
		tmp := fc.localSlot(fc.freshTempName("input_val"))
		fc.emit(Instruction{Op: STORE_LOCAL, Index: tmp, Line: line})
		fc.compileExpression(t.Operand)
		fc.emit(Instruction{Op: LOAD_LOCAL, Index: tmp, Line: line})
		fc.emit(Instruction{Op: STORE_PTR, Line: line})
	default:
		fc.c.fail(target.Pos(), "invalid input target")
	}
}
