package bytecode

import (
	"fmt"

	"github.com/cwbudde/zinc/internal/ast"
	"github.com/cwbudde/zinc/internal/errors"
	"github.com/cwbudde/zinc/internal/lexer"
)

// Compiler lowers a parsed Program into bytecode. It holds the
// cross-function state (struct layouts, diagnostic source text); each
// function gets its own funcCompiler for locals and jump-patch lists.
type Compiler struct {
	source string
	file   string
	prog   *Program
	err    *errors.CompilerError
}

func NewCompiler(source, file string) *Compiler {
	return &Compiler{source: source, file: file, prog: NewProgram()}
}

// compileAbort unwinds to Compile once a CompilerError has been
// recorded, the same one-error-stops-everything strategy the parser
// uses: a malformed program produces one diagnostic, not a cascade.
type compileAbort struct{}

func (c *Compiler) fail(pos lexer.Position, format string, args ...interface{}) {
	c.err = errors.NewCompilerError(pos, fmt.Sprintf(format, args...), c.source, c.file)
	panic(compileAbort{})
}

// Compile lowers an entire program to bytecode, including every
// struct definition and function, and records which function is the
// entry point.
func (c *Compiler) Compile(program *ast.Program) (prog *Program, cerr *errors.CompilerError) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(compileAbort); ok {
				prog, cerr = nil, c.err
				return
			}
			panic(r)
		}
	}()

	for _, sd := range program.Structures {
		c.compileStructDef(sd)
	}

	for _, fd := range program.Functions {
		c.compileFunction(fd)
		if fd.IsMain {
			c.prog.EntryFunction = fd.Name
		}
	}

	if err := c.prog.Validate(); err != nil {
		c.fail(program.Pos(), "%s", err.Error())
	}

	return c.prog, nil
}

func (c *Compiler) compileStructDef(sd *ast.StructDef) {
	layout := &StructLayout{Name: sd.Name}
	for _, f := range sd.Fields {
		layout.Fields = append(layout.Fields, StructFieldLayout{Name: f.Name, Type: f.Type.String()})
	}
	c.prog.AddStruct(layout)
}

// funcCompiler holds the per-function state needed while lowering one
// FunctionDef: the slot assigned to each local, the instruction
// stream under construction, and the break/continue jump lists for
// whichever loop is innermost (pushed/popped as loops nest).
type funcCompiler struct {
	c           *Compiler
	fn          *Function
	locals      map[string]int
	breakJumps  [][]int
	contJumps   [][]int
	tempCounter int
}

func (fc *funcCompiler) emit(ins Instruction) int {
	fc.fn.Code = append(fc.fn.Code, ins)
	return len(fc.fn.Code) - 1
}

func (fc *funcCompiler) here() int { return len(fc.fn.Code) }

func (fc *funcCompiler) patchJump(at int, target int) {
	fc.fn.Code[at].Jump = target
}

// localSlot returns the slot for name, allocating a fresh one if this
// is the first reference. Any name never declared becomes a global
// instead (see resolveVar), so this is only called once a caller has
// already decided the name is local.
func (fc *funcCompiler) localSlot(name string) int {
	if slot, ok := fc.locals[name]; ok {
		return slot
	}
	slot := fc.fn.LocalCount
	fc.locals[name] = slot
	fc.fn.LocalCount++
	return slot
}

// isLocal reports whether name has already been declared as a local
// in this function (by a parameter or a "there is"/"let" statement
// seen so far). Names never declared resolve to globals: Zinc has no
// top-level variable-declaration syntax, so any identifier shared
// between functions without a local declaration is, by construction,
// a global the way the spec's name-based global model permits.
func (fc *funcCompiler) isLocal(name string) bool {
	_, ok := fc.locals[name]
	return ok
}

func (fc *funcCompiler) pushLoop() {
	fc.breakJumps = append(fc.breakJumps, nil)
	fc.contJumps = append(fc.contJumps, nil)
}

func (fc *funcCompiler) popLoop(breakTarget, contTarget int) {
	n := len(fc.breakJumps) - 1
	for _, at := range fc.breakJumps[n] {
		fc.patchJump(at, breakTarget)
	}
	for _, at := range fc.contJumps[n] {
		fc.patchJump(at, contTarget)
	}
	fc.breakJumps = fc.breakJumps[:n]
	fc.contJumps = fc.contJumps[:n]
}

func (fc *funcCompiler) addBreak(at int) {
	n := len(fc.breakJumps) - 1
	fc.breakJumps[n] = append(fc.breakJumps[n], at)
}

func (fc *funcCompiler) addContinue(at int) {
	n := len(fc.contJumps) - 1
	fc.contJumps[n] = append(fc.contJumps[n], at)
}

func (c *Compiler) compileFunction(fd *ast.FunctionDef) {
	fn := &Function{Name: fd.Name}
	for _, p := range fd.Params {
		fn.Params = append(fn.Params, p.Name)
	}

	fc := &funcCompiler{c: c, fn: fn, locals: make(map[string]int)}
	for _, p := range fd.Params {
		fc.localSlot(p.Name)
	}

	for _, stmt := range fd.Body {
		fc.compileStatement(stmt)
	}

	// Every function falls off the end with an implicit bare return,
	// matching the spec's "implicit-Null RETURN vs explicit
	// RETURN_VALUE" calling convention.
	fc.emit(Instruction{Op: RETURN, Line: fd.Pos().Line})

	c.prog.AddFunction(fn)
}
