package bytecode

import (
	"bufio"
	"io"
	"math/rand"

	"github.com/cwbudde/zinc/internal/errors"
	"github.com/cwbudde/zinc/internal/lexer"
)

// frame is one call's activation record: its function, its local
// slots, and the next instruction index to execute. The operand
// stack itself lives on the VM and is shared across frames, the same
// way a native call stack shares one stack of words.
type frame struct {
	fn     *Function
	locals []Value
	pc     int
}

// VM executes a compiled Program. It is single-threaded and
// synchronous: Run drives one fetch-decode-execute loop to
// completion, blocking only on INPUT_* opcodes and the file/graphics
// built-ins that do real I/O.
type VM struct {
	prog    *Program
	stack   []Value
	globals map[string]Value
	heap    []*Value
	heapLive []bool

	out io.Writer
	in  *bufio.Reader
	rng *rand.Rand

	openFiles map[int]*fileHandle
	nextFile  int

	lastStack errors.StackTrace
}

func NewVM(prog *Program, out io.Writer, in io.Reader, seed int64) *VM {
	return &VM{
		prog:      prog,
		globals:   make(map[string]Value),
		out:       out,
		in:        bufio.NewReader(in),
		rng:       rand.New(rand.NewSource(seed)),
		openFiles: make(map[int]*fileHandle),
	}
}

// LastStack returns the call stack captured at the most recent
// RuntimeError returned by Run, oldest frame first. It is empty until
// Run has failed at least once.
func (vm *VM) LastStack() errors.StackTrace { return vm.lastStack }

// captureStack renders the active call frames into a StackTrace, the
// current instruction's line standing in for a column-less position.
func captureStack(frames []*frame) errors.StackTrace {
	st := make(errors.StackTrace, 0, len(frames))
	for _, f := range frames {
		line := 0
		if f.pc > 0 && f.pc-1 < len(f.fn.Code) {
			line = f.fn.Code[f.pc-1].Line
		}
		pos := lexer.Position{Line: line}
		st = append(st, errors.NewStackFrame(f.fn.Name, "", &pos))
	}
	return st
}

func (vm *VM) push(v Value) { vm.stack = append(vm.stack, v) }

func (vm *VM) pop(line int) (Value, *RuntimeError) {
	if len(vm.stack) == 0 {
		return Value{}, newRuntimeError(line, "stack underflow")
	}
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v, nil
}

func (vm *VM) popN(n, line int) ([]Value, *RuntimeError) {
	if len(vm.stack) < n {
		return nil, newRuntimeError(line, "stack underflow")
	}
	args := append([]Value(nil), vm.stack[len(vm.stack)-n:]...)
	vm.stack = vm.stack[:len(vm.stack)-n]
	return args, nil
}

// Run executes the named entry function to completion and returns
// the process exit code: the entry's RETURN_VALUE integer if one was
// given, 0 for a bare RETURN or a non-integer result. On a RuntimeError
// the call stack at the point of failure is captured and available
// afterwards via LastStack.
func (vm *VM) Run(entryName string) (code int, rerr *RuntimeError) {
	fn, ok := vm.prog.Functions[entryName]
	if !ok {
		return 1, newRuntimeError(0, "entry function %q not defined", entryName)
	}

	frames := []*frame{{fn: fn, locals: make([]Value, fn.LocalCount)}}

	defer func() {
		if rerr != nil {
			vm.lastStack = captureStack(frames)
		}
	}()

	for len(frames) > 0 {
		cur := frames[len(frames)-1]
		if cur.pc >= len(cur.fn.Code) {
			frames = frames[:len(frames)-1]
			if len(frames) == 0 {
				return 0, nil
			}
			vm.push(MakeNull())
			continue
		}

		ins := cur.fn.Code[cur.pc]
		cur.pc++

		switch ins.Op {
		case PUSH_INT:
			vm.push(MakeInt(ins.Int))
		case PUSH_FLOAT:
			vm.push(MakeFloat(ins.Float))
		case PUSH_STRING:
			vm.push(MakeString(ins.Str))
		case PUSH_CHAR:
			vm.push(MakeChar(ins.Char))
		case PUSH_BOOL:
			vm.push(MakeBool(ins.Bool))
		case PUSH_NULL:
			vm.push(MakeNull())

		case POP:
			if _, err := vm.pop(ins.Line); err != nil {
				return 1, err
			}
		case DUP:
			v, err := vm.pop(ins.Line)
			if err != nil {
				return 1, err
			}
			vm.push(v)
			vm.push(v)

		case LOAD_LOCAL:
			if ins.Index < 0 || ins.Index >= len(cur.locals) {
				return 1, newRuntimeError(ins.Line, "local slot %d out of range", ins.Index)
			}
			vm.push(cur.locals[ins.Index])
		case STORE_LOCAL:
			v, err := vm.pop(ins.Line)
			if err != nil {
				return 1, err
			}
			if ins.Index < 0 || ins.Index >= len(cur.locals) {
				return 1, newRuntimeError(ins.Line, "local slot %d out of range", ins.Index)
			}
			cur.locals[ins.Index] = v
		case LOAD_GLOBAL:
			v, ok := vm.globals[ins.Name]
			if !ok {
				return 1, newRuntimeError(ins.Line, "undefined global %q", ins.Name)
			}
			vm.push(v)
		case STORE_GLOBAL:
			v, err := vm.pop(ins.Line)
			if err != nil {
				return 1, err
			}
			vm.globals[ins.Name] = v

		case ADD, SUB, MUL, DIV, MOD:
			if rerr := vm.execArith(ins); rerr != nil {
				return 1, rerr
			}
		case POW:
			if rerr := vm.execPow(ins.Line); rerr != nil {
				return 1, rerr
			}
		case NEG:
			if rerr := vm.execNeg(ins.Line); rerr != nil {
				return 1, rerr
			}

		case EQ, NE, LT, LE, GT, GE:
			if rerr := vm.execCompare(ins); rerr != nil {
				return 1, rerr
			}

		case AND, OR:
			b, err := vm.pop(ins.Line)
			if err != nil {
				return 1, err
			}
			a, err := vm.pop(ins.Line)
			if err != nil {
				return 1, err
			}
			if ins.Op == AND {
				vm.push(MakeBool(a.IsTruthy() && b.IsTruthy()))
			} else {
				vm.push(MakeBool(a.IsTruthy() || b.IsTruthy()))
			}
		case NOT:
			a, err := vm.pop(ins.Line)
			if err != nil {
				return 1, err
			}
			vm.push(MakeBool(!a.IsTruthy()))

		case JUMP:
			cur.pc = ins.Jump
		case JUMP_IF_FALSE:
			v, err := vm.pop(ins.Line)
			if err != nil {
				return 1, err
			}
			if !v.IsTruthy() {
				cur.pc = ins.Jump
			}
		case JUMP_IF_TRUE:
			v, err := vm.pop(ins.Line)
			if err != nil {
				return 1, err
			}
			if v.IsTruthy() {
				cur.pc = ins.Jump
			}

		case CALL:
			args, err := vm.popN(ins.Argc, ins.Line)
			if err != nil {
				return 1, err
			}
			if bf, ok := builtins[ins.Name]; ok {
				result, rerr := bf(vm, args, ins.Line)
				if rerr != nil {
					return 1, rerr
				}
				vm.push(result)
				continue
			}
			calleeFn, ok := vm.prog.Functions[ins.Name]
			if !ok {
				return 1, newRuntimeError(ins.Line, "call to unknown function %q", ins.Name)
			}
			if len(args) != len(calleeFn.Params) {
				return 1, newRuntimeError(ins.Line, "function %q expects %d argument(s), got %d", ins.Name, len(calleeFn.Params), len(args))
			}
			newLocals := make([]Value, calleeFn.LocalCount)
			copy(newLocals, args)
			frames = append(frames, &frame{fn: calleeFn, locals: newLocals})

		case RETURN:
			frames = frames[:len(frames)-1]
			if len(frames) == 0 {
				return 0, nil
			}
			vm.push(MakeNull())
		case RETURN_VALUE:
			v, err := vm.pop(ins.Line)
			if err != nil {
				return 1, err
			}
			frames = frames[:len(frames)-1]
			if len(frames) == 0 {
				if v.Type == TypeInt {
					return int(v.Int), nil
				}
				return 0, nil
			}
			vm.push(v)

		case PRINT:
			v, err := vm.pop(ins.Line)
			if err != nil {
				return 1, err
			}
			io.WriteString(vm.out, v.String())
		case PRINT_NEWLINE:
			io.WriteString(vm.out, "\n")

		case INPUT_INT, INPUT_FLOAT, INPUT_STRING, INPUT_CHAR:
			v, rerr := vm.execInput(ins)
			if rerr != nil {
				return 1, rerr
			}
			vm.push(v)

		case SQRT:
			if rerr := vm.execUnaryMath(ins.Line, mathSqrt); rerr != nil {
				return 1, rerr
			}
		case ABS:
			if rerr := vm.execUnaryMath(ins.Line, mathAbs); rerr != nil {
				return 1, rerr
			}

		case CREATE_ARRAY:
			elems := make([]Value, ins.Int)
			vm.push(MakeArray(NewArray(elems)))
		case ARRAY_LITERAL:
			elems, err := vm.popN(int(ins.Int), ins.Line)
			if err != nil {
				return 1, err
			}
			vm.push(MakeArray(NewArray(elems)))
		case ARRAY_GET:
			if rerr := vm.execArrayGet(ins.Line); rerr != nil {
				return 1, rerr
			}
		case ARRAY_SET:
			if rerr := vm.execArraySet(ins.Line); rerr != nil {
				return 1, rerr
			}
		case ARRAY_LENGTH:
			arr, err := vm.pop(ins.Line)
			if err != nil {
				return 1, err
			}
			if arr.Type != TypeArray {
				return 1, newRuntimeError(ins.Line, "length of a non-array value")
			}
			vm.push(MakeInt(int64(arr.Array.Len())))

		case CREATE_STRUCT:
			layout, ok := vm.prog.Structs[ins.Name]
			if !ok {
				return 1, newRuntimeError(ins.Line, "unknown struct %q", ins.Name)
			}
			names := make([]string, len(layout.Fields))
			for i, f := range layout.Fields {
				names[i] = f.Name
			}
			vm.push(MakeStruct(NewStructInstance(ins.Name, names)))
		case STRUCT_GET:
			s, err := vm.pop(ins.Line)
			if err != nil {
				return 1, err
			}
			if s.Type != TypeStruct {
				return 1, newRuntimeError(ins.Line, "field access on a non-struct value")
			}
			v, ok := s.Struct.Get(ins.Name)
			if !ok {
				return 1, newRuntimeError(ins.Line, "struct %q has no field %q", s.Struct.Name, ins.Name)
			}
			vm.push(v)
		case STRUCT_SET:
			v, err := vm.pop(ins.Line)
			if err != nil {
				return 1, err
			}
			s, err := vm.pop(ins.Line)
			if err != nil {
				return 1, err
			}
			if s.Type != TypeStruct {
				return 1, newRuntimeError(ins.Line, "field assignment on a non-struct value")
			}
			if !s.Struct.Set(ins.Name, v) {
				return 1, newRuntimeError(ins.Line, "struct %q has no field %q", s.Struct.Name, ins.Name)
			}

		case ALLOC:
			count, err := vm.pop(ins.Line)
			if err != nil {
				return 1, err
			}
			if count.Type != TypeInt {
				return 1, newRuntimeError(ins.Line, "allocation count must be a number")
			}
			start := len(vm.heap)
			for i := int64(0); i < count.Int; i++ {
				cell := MakeNull()
				vm.heap = append(vm.heap, &cell)
				vm.heapLive = append(vm.heapLive, true)
			}
			vm.push(MakePointer(Pointer{Kind: PointerHeap, Slot: start}))
		case FREE:
			p, err := vm.pop(ins.Line)
			if err != nil {
				return 1, err
			}
			if p.Type != TypePointer || p.Ptr.Kind != PointerHeap {
				return 1, newRuntimeError(ins.Line, "dereference of a non-pointer")
			}
			if p.Ptr.Slot >= 0 && p.Ptr.Slot < len(vm.heapLive) {
				vm.heapLive[p.Ptr.Slot] = false
			}
		case LOAD_PTR:
			v, rerr := vm.execLoadPtr(cur, ins.Line)
			if rerr != nil {
				return 1, rerr
			}
			vm.push(v)
		case STORE_PTR:
			if rerr := vm.execStorePtr(cur, ins.Line); rerr != nil {
				return 1, rerr
			}
		case ADDRESS_OF:
			if ins.Bool {
				vm.push(MakePointer(Pointer{Kind: PointerLocal, Slot: ins.Index}))
			} else {
				vm.push(MakePointer(Pointer{Kind: PointerGlobal, Name: ins.Name}))
			}

		case RANDOM:
			hi, err := vm.pop(ins.Line)
			if err != nil {
				return 1, err
			}
			lo, err := vm.pop(ins.Line)
			if err != nil {
				return 1, err
			}
			vm.push(vm.execRandom(lo, hi))

		case HALT:
			return 0, nil
		case NOP:
			// no-op
		default:
			return 1, newRuntimeError(ins.Line, "unimplemented opcode %s", ins.Op)
		}
	}

	return 0, nil
}

// execLoadPtr dereferences a pointer for LOAD_PTR. A local/global
// pointer is resolved against the currently executing frame, which is
// exact for the common case (a pointer created and used within the
// same call) and is the spec's permitted simplification for the
// otherwise ill-defined escaping case.
func (vm *VM) execLoadPtr(cur *frame, line int) (Value, *RuntimeError) {
	p, err := vm.pop(line)
	if err != nil {
		return Value{}, err
	}
	if p.Type != TypePointer {
		return Value{}, newRuntimeError(line, "dereference of a non-pointer")
	}
	switch p.Ptr.Kind {
	case PointerLocal:
		if p.Ptr.Slot < 0 || p.Ptr.Slot >= len(cur.locals) {
			return Value{}, newRuntimeError(line, "local slot %d out of range", p.Ptr.Slot)
		}
		return cur.locals[p.Ptr.Slot], nil
	case PointerGlobal:
		v, ok := vm.globals[p.Ptr.Name]
		if !ok {
			return Value{}, newRuntimeError(line, "undefined global %q", p.Ptr.Name)
		}
		return v, nil
	case PointerHeap:
		if p.Ptr.Slot < 0 || p.Ptr.Slot >= len(vm.heap) || !vm.heapLive[p.Ptr.Slot] {
			return Value{}, newRuntimeError(line, "dereference of freed or invalid memory")
		}
		return *vm.heap[p.Ptr.Slot], nil
	default:
		return Value{}, newRuntimeError(line, "dereference of a non-pointer")
	}
}

func (vm *VM) execStorePtr(cur *frame, line int) *RuntimeError {
	v, err := vm.pop(line)
	if err != nil {
		return err
	}
	p, err := vm.pop(line)
	if err != nil {
		return err
	}
	if p.Type != TypePointer {
		return newRuntimeError(line, "dereference of a non-pointer")
	}
	switch p.Ptr.Kind {
	case PointerLocal:
		if p.Ptr.Slot < 0 || p.Ptr.Slot >= len(cur.locals) {
			return newRuntimeError(line, "local slot %d out of range", p.Ptr.Slot)
		}
		cur.locals[p.Ptr.Slot] = v
	case PointerGlobal:
		vm.globals[p.Ptr.Name] = v
	case PointerHeap:
		if p.Ptr.Slot < 0 || p.Ptr.Slot >= len(vm.heap) || !vm.heapLive[p.Ptr.Slot] {
			return newRuntimeError(line, "store to freed or invalid memory")
		}
		*vm.heap[p.Ptr.Slot] = v
	default:
		return newRuntimeError(line, "dereference of a non-pointer")
	}
	return nil
}

// resolveIndex applies the spec's negative-indices-count-from-the-end
// rule: the compiler never knows an array's length, so "last item in"
// compiles to a literal -1 index (and any other negative index -k
// addresses length-k) and the VM performs the translation here.
func resolveIndex(idx int64, length int) int {
	if idx < 0 {
		return length + int(idx)
	}
	return int(idx)
}

func (vm *VM) execArrayGet(line int) *RuntimeError {
	idx, err := vm.pop(line)
	if err != nil {
		return err
	}
	arr, err := vm.pop(line)
	if err != nil {
		return err
	}
	if arr.Type != TypeArray {
		return newRuntimeError(line, "indexing a non-array value")
	}
	if idx.Type != TypeInt {
		return newRuntimeError(line, "array index must be a number")
	}
	i := resolveIndex(idx.Int, arr.Array.Len())
	v, ok := arr.Array.GetChecked(i)
	if !ok {
		return newRuntimeError(line, "index %d out of bounds for a list of length %d", idx.Int, arr.Array.Len())
	}
	vm.push(v)
	return nil
}

func (vm *VM) execArraySet(line int) *RuntimeError {
	v, err := vm.pop(line)
	if err != nil {
		return err
	}
	idx, err := vm.pop(line)
	if err != nil {
		return err
	}
	arr, err := vm.pop(line)
	if err != nil {
		return err
	}
	if arr.Type != TypeArray {
		return newRuntimeError(line, "indexing a non-array value")
	}
	if idx.Type != TypeInt {
		return newRuntimeError(line, "array index must be a number")
	}
	i := resolveIndex(idx.Int, arr.Array.Len())
	if !arr.Array.SetChecked(i, v) {
		return newRuntimeError(line, "index %d out of bounds for a list of length %d", idx.Int, arr.Array.Len())
	}
	return nil
}
