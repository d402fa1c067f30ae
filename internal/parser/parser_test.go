package parser

import (
	"testing"

	"github.com/cwbudde/zinc/internal/ast"
	"github.com/cwbudde/zinc/internal/lexer"
)

func parseSource(t *testing.T, src string) *ast.Program {
	t.Helper()
	tokens := lexer.New(src).Tokenize()
	prog, cerr := New(tokens, src, "<test>").Parse()
	if cerr != nil {
		t.Fatalf("unexpected parse error for %q: %s", src, cerr.Error())
	}
	return prog
}

func mainBody(t *testing.T, src string) []ast.Statement {
	t.Helper()
	prog := parseSource(t, src)
	if len(prog.Functions) != 1 {
		t.Fatalf("expected exactly one function, got %d", len(prog.Functions))
	}
	return prog.Functions[0].Body
}

func wrapMain(body string) string {
	return "to do the main thing:\n" + body + "\nend"
}

func TestParserMainFunctionIsMarked(t *testing.T) {
	prog := parseSource(t, wrapMain("  say 1"))
	fn := prog.Functions[0]
	if !fn.IsMain || fn.Name != "main" {
		t.Fatalf("expected main function marked IsMain with name \"main\", got IsMain=%v Name=%q", fn.IsMain, fn.Name)
	}
}

func TestParserFunctionSignature(t *testing.T) {
	prog := parseSource(t, "to double number called x and return a number:\n  return x\nend")
	fn := prog.Functions[0]
	if fn.Name != "double" {
		t.Fatalf("expected function name %q, got %q", "double", fn.Name)
	}
	if len(fn.Params) != 1 || fn.Params[0].Name != "x" || fn.Params[0].Type.BaseType != "number" {
		t.Fatalf("unexpected params: %+v", fn.Params)
	}
	if fn.ReturnType == nil || fn.ReturnType.BaseType != "number" {
		t.Fatalf("expected number return type, got %+v", fn.ReturnType)
	}
}

func TestParserStructDef(t *testing.T) {
	src := "define point as having:\n  number called x\n  number called y\nend\n" + wrapMain("  say 1")
	prog := parseSource(t, src)
	if len(prog.Structures) != 1 {
		t.Fatalf("expected one struct definition, got %d", len(prog.Structures))
	}
	s := prog.Structures[0]
	if s.Name != "point" || len(s.Fields) != 2 {
		t.Fatalf("unexpected struct: %+v", s)
	}
	if s.Fields[0].Name != "x" || s.Fields[1].Name != "y" {
		t.Fatalf("unexpected field names: %q, %q", s.Fields[0].Name, s.Fields[1].Name)
	}
}

func TestParserDeclarationWithInitialValue(t *testing.T) {
	body := mainBody(t, wrapMain("  there is a number called x which is 5"))
	decl, ok := body[0].(*ast.DeclStatement)
	if !ok {
		t.Fatalf("expected *ast.DeclStatement, got %T", body[0])
	}
	if decl.Name != "x" || decl.Type.BaseType != "number" {
		t.Fatalf("unexpected decl: %+v", decl)
	}
	lit, ok := decl.InitialValue.(*ast.NumberLiteral)
	if !ok || lit.Value != 5 {
		t.Fatalf("expected initial value 5, got %+v", decl.InitialValue)
	}
}

func TestParserAssignment(t *testing.T) {
	body := mainBody(t, wrapMain("  there is a number called x which is 5\n  change x to 10"))
	assign, ok := body[1].(*ast.Assignment)
	if !ok {
		t.Fatalf("expected *ast.Assignment, got %T", body[1])
	}
	ident, ok := assign.Target.(*ast.Identifier)
	if !ok || ident.Name != "x" {
		t.Fatalf("unexpected assignment target: %+v", assign.Target)
	}
	lit, ok := assign.Value.(*ast.NumberLiteral)
	if !ok || lit.Value != 10 {
		t.Fatalf("unexpected assignment value: %+v", assign.Value)
	}
}

func TestParserIfOtherwise(t *testing.T) {
	body := mainBody(t, wrapMain(
		"  if x is greater than 5 then\n    say 1\n  otherwise\n    say 2\n  end"))
	stmt, ok := body[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected *ast.IfStatement, got %T", body[0])
	}
	cond, ok := stmt.Condition.(*ast.BinaryExpr)
	if !ok || cond.Operator != ">" {
		t.Fatalf("expected > comparison, got %+v", stmt.Condition)
	}
	if len(stmt.ThenBody) != 1 || len(stmt.ElseBody) != 1 {
		t.Fatalf("expected one statement per branch, got then=%d else=%d", len(stmt.ThenBody), len(stmt.ElseBody))
	}
}

func TestParserAtLeastDesugarsToGreaterEqual(t *testing.T) {
	body := mainBody(t, wrapMain("  if x is at least 5 then\n    say 1\n  end"))
	stmt := body[0].(*ast.IfStatement)
	cond, ok := stmt.Condition.(*ast.BinaryExpr)
	if !ok || cond.Operator != ">=" {
		t.Fatalf("expected >= comparison, got %+v", stmt.Condition)
	}
}

func TestParserWhileLoop(t *testing.T) {
	body := mainBody(t, wrapMain("  while x is less than 10:\n    say x\n  end"))
	stmt, ok := body[0].(*ast.WhileStatement)
	if !ok {
		t.Fatalf("expected *ast.WhileStatement, got %T", body[0])
	}
	cond, ok := stmt.Condition.(*ast.BinaryExpr)
	if !ok || cond.Operator != "<" {
		t.Fatalf("expected < comparison, got %+v", stmt.Condition)
	}
}

func TestParserRepeatLoop(t *testing.T) {
	body := mainBody(t, wrapMain("  repeat 3 times:\n    say 1\n  end"))
	stmt, ok := body[0].(*ast.RepeatStatement)
	if !ok {
		t.Fatalf("expected *ast.RepeatStatement, got %T", body[0])
	}
	count, ok := stmt.Count.(*ast.NumberLiteral)
	if !ok || count.Value != 3 {
		t.Fatalf("expected count literal 3, got %+v", stmt.Count)
	}
}

func TestParserCountedForLoop(t *testing.T) {
	body := mainBody(t, wrapMain("  for each number i from 1 to 5:\n    say i\n  end"))
	stmt, ok := body[0].(*ast.ForStatement)
	if !ok {
		t.Fatalf("expected *ast.ForStatement, got %T", body[0])
	}
	if stmt.VarName != "i" || stmt.Step != 1 {
		t.Fatalf("unexpected for statement: %+v", stmt)
	}
	start, ok := stmt.Start.(*ast.NumberLiteral)
	if !ok || start.Value != 1 {
		t.Fatalf("expected start 1, got %+v", stmt.Start)
	}
	end, ok := stmt.End.(*ast.NumberLiteral)
	if !ok || end.Value != 5 {
		t.Fatalf("expected end 5, got %+v", stmt.End)
	}
}

func TestParserCountedForLoopDownTo(t *testing.T) {
	body := mainBody(t, wrapMain("  for each number i from 5 down to 1:\n    say i\n  end"))
	stmt := body[0].(*ast.ForStatement)
	if stmt.Step != -1 {
		t.Fatalf("expected step -1 for down-to loop, got %d", stmt.Step)
	}
}

func TestParserForEachOverList(t *testing.T) {
	src := wrapMain("  there is a list of numbers called xs containing 1, 2, 3\n  for each number i in xs:\n    say i\n  end")
	body := mainBody(t, src)
	stmt, ok := body[1].(*ast.ForEachStatement)
	if !ok {
		t.Fatalf("expected *ast.ForEachStatement, got %T", body[1])
	}
	ident, ok := stmt.Iterable.(*ast.Identifier)
	if !ok || ident.Name != "xs" {
		t.Fatalf("expected iterable identifier xs, got %+v", stmt.Iterable)
	}
}

func TestParserListLiteralElements(t *testing.T) {
	body := mainBody(t, wrapMain("  there is a list of numbers called xs containing 1, 2, 3"))
	decl := body[0].(*ast.DeclStatement)
	if len(decl.Elements) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(decl.Elements))
	}
}

func TestParserPrintMultipleParts(t *testing.T) {
	body := mainBody(t, wrapMain("  say 1 and then 2"))
	stmt, ok := body[0].(*ast.PrintStatement)
	if !ok {
		t.Fatalf("expected *ast.PrintStatement, got %T", body[0])
	}
	if len(stmt.Parts) != 2 {
		t.Fatalf("expected 2 print parts, got %d", len(stmt.Parts))
	}
}

func TestParserSquareRootDesugarsToCall(t *testing.T) {
	body := mainBody(t, wrapMain("  there is a number called x which is the square root of 16"))
	decl := body[0].(*ast.DeclStatement)
	call, ok := decl.InitialValue.(*ast.CallExpr)
	if !ok || call.Name != "sqrt" {
		t.Fatalf("expected sqrt call, got %+v", decl.InitialValue)
	}
	if len(call.Arguments) != 1 {
		t.Fatalf("expected one argument, got %d", len(call.Arguments))
	}
}

func TestParserPowerBindsTighterThanAdditive(t *testing.T) {
	body := mainBody(t, wrapMain("  there is a number called x which is 2 to the power of 3 plus 1"))
	decl := body[0].(*ast.DeclStatement)
	add, ok := decl.InitialValue.(*ast.BinaryExpr)
	if !ok || add.Operator != "+" {
		t.Fatalf("expected top-level +, got %+v", decl.InitialValue)
	}
	pow, ok := add.Left.(*ast.CallExpr)
	if !ok || pow.Name != "pow" {
		t.Fatalf("expected pow call as left operand, got %+v", add.Left)
	}
}

func TestParserBreakAndContinue(t *testing.T) {
	body := mainBody(t, wrapMain("  while x is less than 10:\n    stop the loop\n    skip to the next one\n  end"))
	stmt := body[0].(*ast.WhileStatement)
	if _, ok := stmt.Body[0].(*ast.BreakStatement); !ok {
		t.Fatalf("expected *ast.BreakStatement inside while body, got %T", stmt.Body[0])
	}
	if _, ok := stmt.Body[1].(*ast.ContinueStatement); !ok {
		t.Fatalf("expected *ast.ContinueStatement inside while body, got %T", stmt.Body[1])
	}
}

func TestParserReturnWithValue(t *testing.T) {
	prog := parseSource(t, "to double number called x and return a number:\n  return x\nend")
	fn := prog.Functions[0]
	ret, ok := fn.Body[0].(*ast.ReturnStatement)
	if !ok {
		t.Fatalf("expected *ast.ReturnStatement, got %T", fn.Body[0])
	}
	if ret.Value == nil {
		t.Fatalf("expected a return value, got nil")
	}
}

func TestParserUnexpectedTopLevelTokenFails(t *testing.T) {
	tokens := lexer.New("123").Tokenize()
	_, cerr := New(tokens, "123", "<test>").Parse()
	if cerr == nil {
		t.Fatalf("expected a parse error for a bare number at top level")
	}
}

func TestParserIncludeStdio(t *testing.T) {
	src := "include the standard input and output\n" + wrapMain("  say 1")
	prog := parseSource(t, src)
	if len(prog.Includes) != 1 || prog.Includes[0].Library != "stdio" {
		t.Fatalf("unexpected includes: %+v", prog.Includes)
	}
}
