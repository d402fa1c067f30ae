package bytecode

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cwbudde/zinc/internal/lexer"
	"github.com/cwbudde/zinc/internal/parser"
)

// compileAndRun lexes, parses, compiles, and executes src, returning
// everything written to stdout and the VM's exit code. It fails the
// test immediately on any lex/parse/compile error, since those stages
// are exercised independently elsewhere.
func compileAndRun(t *testing.T, src string) (string, int) {
	t.Helper()

	tokens := lexer.New(src).Tokenize()
	p := parser.New(tokens, src, "<test>")
	program, cerr := p.Parse()
	if cerr != nil {
		t.Fatalf("parse error: %s", cerr.Error())
	}

	c := NewCompiler(src, "<test>")
	prog, cerr := c.Compile(program)
	if cerr != nil {
		t.Fatalf("compile error: %s", cerr.Error())
	}

	var out bytes.Buffer
	vm := NewVM(prog, &out, strings.NewReader(""), 1)
	code, rerr := vm.Run(prog.EntryFunction)
	if rerr != nil {
		t.Fatalf("unexpected runtime error: %s", rerr.Error())
	}
	return out.String(), code
}

func TestVMHelloWorld(t *testing.T) {
	out, _ := compileAndRun(t, "to do the main thing:\n  say \"hello world\"\nend")
	if strings.TrimRight(out, "\n") != "hello world" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestVMArithmeticAndConditional(t *testing.T) {
	src := "to do the main thing:\n" +
		"  there is a number called x which is 3\n" +
		"  there is a number called y which is 4\n" +
		"  if x is less than y then\n" +
		"    say \"smaller\"\n" +
		"  otherwise\n" +
		"    say \"not smaller\"\n" +
		"  end\n" +
		"end"
	out, _ := compileAndRun(t, src)
	if strings.TrimRight(out, "\n") != "smaller" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestVMCountedLoop(t *testing.T) {
	src := "to do the main thing:\n" +
		"  for each number i from 1 to 3:\n" +
		"    say i\n" +
		"  end\n" +
		"end"
	out, _ := compileAndRun(t, src)
	if out != "1\n2\n3\n" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestVMShortCircuitAnd(t *testing.T) {
	// The right side of "and" must not run once the left side is false:
	// dividing by zero would raise a runtime error if it were evaluated.
	src := "to do the main thing:\n" +
		"  there is a number called x which is 0\n" +
		"  if x is greater than 0 and x is greater than 10 divided by x then\n" +
		"    say \"yes\"\n" +
		"  otherwise\n" +
		"    say \"no\"\n" +
		"  end\n" +
		"end"
	out, _ := compileAndRun(t, src)
	if strings.TrimRight(out, "\n") != "no" {
		t.Fatalf("unexpected output (short-circuit likely not applied): %q", out)
	}
}

func TestVMListAndForEach(t *testing.T) {
	src := "to do the main thing:\n" +
		"  there is a list of numbers called xs containing 1, 2, 3\n" +
		"  for each number v in xs:\n" +
		"    say v\n" +
		"  end\n" +
		"end"
	out, _ := compileAndRun(t, src)
	if out != "1\n2\n3\n" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestVMRuntimeErrorOutOfBounds(t *testing.T) {
	src := "to do the main thing:\n" +
		"  there is a list of numbers called xs containing 1, 2, 3\n" +
		"  say item number 10 in xs\n" +
		"end"
	tokens := lexer.New(src).Tokenize()
	program, cerr := parser.New(tokens, src, "<test>").Parse()
	if cerr != nil {
		t.Fatalf("parse error: %s", cerr.Error())
	}
	prog, cerr := NewCompiler(src, "<test>").Compile(program)
	if cerr != nil {
		t.Fatalf("compile error: %s", cerr.Error())
	}

	var out bytes.Buffer
	vm := NewVM(prog, &out, strings.NewReader(""), 1)
	_, rerr := vm.Run(prog.EntryFunction)
	if rerr == nil {
		t.Fatalf("expected a runtime error for an out-of-bounds index")
	}
	if !strings.Contains(rerr.Error(), "Runtime error at line") {
		t.Fatalf("unexpected runtime error format: %q", rerr.Error())
	}
}

func TestVMEmptyListLengthAndEmptiness(t *testing.T) {
	src := "to do the main thing:\n" +
		"  there is a list of numbers called xs\n" +
		"  if xs is empty then\n" +
		"    say \"empty\"\n" +
		"  end\n" +
		"  say the length of xs\n" +
		"end"
	out, _ := compileAndRun(t, src)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 || lines[0] != "empty" || lines[1] != "0" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestVMDivisionByZeroIsRuntimeError(t *testing.T) {
	src := "to do the main thing:\n" +
		"  there is a number called x which is 10 divided by 0\n" +
		"  say x\n" +
		"end"
	tokens := lexer.New(src).Tokenize()
	program, cerr := parser.New(tokens, src, "<test>").Parse()
	if cerr != nil {
		t.Fatalf("parse error: %s", cerr.Error())
	}
	prog, cerr := NewCompiler(src, "<test>").Compile(program)
	if cerr != nil {
		t.Fatalf("compile error: %s", cerr.Error())
	}

	var out bytes.Buffer
	vm := NewVM(prog, &out, strings.NewReader(""), 1)
	_, rerr := vm.Run(prog.EntryFunction)
	if rerr == nil {
		t.Fatalf("expected a runtime error for division by zero")
	}
}

func TestVMRepeatZeroTimesRunsNothing(t *testing.T) {
	src := "to do the main thing:\n" +
		"  repeat 0 times:\n" +
		"    say \"should not print\"\n" +
		"  end\n" +
		"  say \"after\"\n" +
		"end"
	out, _ := compileAndRun(t, src)
	if strings.TrimRight(out, "\n") != "after" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestVMForLoopPastEndNeverExecutes(t *testing.T) {
	src := "to do the main thing:\n" +
		"  for each number i from 5 to 1:\n" +
		"    say i\n" +
		"  end\n" +
		"  say \"after\"\n" +
		"end"
	out, _ := compileAndRun(t, src)
	if strings.TrimRight(out, "\n") != "after" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestVMStringConcatenationWithEitherOperandAString(t *testing.T) {
	src := "to do the main thing:\n" +
		"  say \"count: \" plus 5\n" +
		"  say 5 plus \" items\"\n" +
		"end"
	out, _ := compileAndRun(t, src)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 || lines[0] != "count: 5" || lines[1] != "5 items" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestVMNegativeIndexCountsFromTheEnd(t *testing.T) {
	src := "to do the main thing:\n" +
		"  there is a list of numbers called xs containing 1, 2, 3\n" +
		"  say item number -2 in xs\n" +
		"end"
	out, _ := compileAndRun(t, src)
	if strings.TrimRight(out, "\n") != "2" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestVMIntFloatEqualityPromotion(t *testing.T) {
	src := "to do the main thing:\n" +
		"  there is a number called x which is 5\n" +
		"  there is a number called y which is 5.0\n" +
		"  if x equals y then\n" +
		"    say \"equal\"\n" +
		"  otherwise\n" +
		"    say \"not equal\"\n" +
		"  end\n" +
		"end"
	out, _ := compileAndRun(t, src)
	if strings.TrimRight(out, "\n") != "equal" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestVMLastStackCapturedOnRuntimeError(t *testing.T) {
	src := "to do the main thing:\n" +
		"  there is a list of numbers called xs containing 1\n" +
		"  say item number 5 in xs\n" +
		"end"
	tokens := lexer.New(src).Tokenize()
	program, cerr := parser.New(tokens, src, "<test>").Parse()
	if cerr != nil {
		t.Fatalf("parse error: %s", cerr.Error())
	}
	prog, cerr := NewCompiler(src, "<test>").Compile(program)
	if cerr != nil {
		t.Fatalf("compile error: %s", cerr.Error())
	}

	var out bytes.Buffer
	vm := NewVM(prog, &out, strings.NewReader(""), 1)
	_, rerr := vm.Run(prog.EntryFunction)
	if rerr == nil {
		t.Fatalf("expected a runtime error")
	}
	if vm.LastStack().Depth() == 0 {
		t.Fatalf("expected a non-empty captured stack trace")
	}
}
