package bytecode

import (
	"os"
	"testing"

	"github.com/cwbudde/zinc/internal/lexer"
	"github.com/cwbudde/zinc/internal/parser"
	"github.com/gkampitakis/go-snaps/snaps"
)

// TestMain lets go-snaps clean up obsolete snapshot entries after the
// package's tests finish, matching the teacher's fixture_test.go usage.
func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	os.Exit(v)
}

func disassembleSource(t *testing.T, src string) string {
	t.Helper()

	tokens := lexer.New(src).Tokenize()
	program, cerr := parser.New(tokens, src, "<test>").Parse()
	if cerr != nil {
		t.Fatalf("parse error: %s", cerr.Error())
	}

	prog, cerr := NewCompiler(src, "<test>").Compile(program)
	if cerr != nil {
		t.Fatalf("compile error: %s", cerr.Error())
	}

	return Disassemble(prog)
}

func TestDisassembleHelloWorld(t *testing.T) {
	out := disassembleSource(t, "to do the main thing:\n  say \"hello world\"\nend")
	snaps.MatchSnapshot(t, out)
}

func TestDisassembleFunctionWithReturn(t *testing.T) {
	src := "to double number called x and return a number:\n  return x plus x\nend\n" +
		"to do the main thing:\n  say 1\nend"
	out := disassembleSource(t, src)
	snaps.MatchSnapshot(t, out)
}

func TestDisassembleCountedForLoop(t *testing.T) {
	src := "to do the main thing:\n" +
		"  for each number i from 1 to 3:\n" +
		"    say i\n" +
		"  end\n" +
		"end"
	out := disassembleSource(t, src)
	snaps.MatchSnapshot(t, out)
}
