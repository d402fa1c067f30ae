package bytecode

import (
	"bufio"
	"math"
	"os"
	"strings"
)

type builtinFunc func(vm *VM, args []Value, line int) (Value, *RuntimeError)

// builtins is the fixed stdlib surface named in the spec: math,
// string, file, and random/graphics intrinsics. A conforming VM must
// accept every one of these names even where the underlying facility
// (graphics) is a stub rather than a real implementation.
var builtins = map[string]builtinFunc{
	"sqrt":    biSqrt,
	"abs":     biAbs,
	"pow":     biPow,
	"strstr":  biStrstr,
	"__len__": biLen,
	"to_number": biToNumber,

	"__open_file__":  biOpenFile,
	"__close_file__": biCloseFile,
	"__has_line__":   biHasLine,
	"__read_line__":  biReadLine,

	"__open_window__":       biStubBool,
	"__close_window__":      biStubNull,
	"__begin_drawing__":     biStubNull,
	"__end_drawing__":       biStubNull,
	"__clear_screen__":      biStubNull,
	"__draw_rectangle__":    biStubNull,
	"__draw_text__":         biStubNull,
	"__window_should_close__": biStubTrue,
	"__mouse_x__":           biStubZero,
	"__mouse_y__":           biStubZero,
	"__mouse_pressed__":     biStubFalse,
}

func biSqrt(vm *VM, args []Value, line int) (Value, *RuntimeError) {
	if len(args) != 1 {
		return Value{}, newRuntimeError(line, "sqrt expects 1 argument, got %d", len(args))
	}
	f, ok := numericValue(args[0])
	if !ok {
		return Value{}, newRuntimeError(line, "sqrt applied to a non-numeric value")
	}
	return MakeFloat(mathSqrt(f)), nil
}

func biAbs(vm *VM, args []Value, line int) (Value, *RuntimeError) {
	if len(args) != 1 {
		return Value{}, newRuntimeError(line, "abs expects 1 argument, got %d", len(args))
	}
	if args[0].Type == TypeInt {
		return MakeInt(int64(mathAbs(float64(args[0].Int)))), nil
	}
	f, ok := numericValue(args[0])
	if !ok {
		return Value{}, newRuntimeError(line, "abs applied to a non-numeric value")
	}
	return MakeFloat(mathAbs(f)), nil
}

func biPow(vm *VM, args []Value, line int) (Value, *RuntimeError) {
	if len(args) != 2 {
		return Value{}, newRuntimeError(line, "pow expects 2 arguments, got %d", len(args))
	}
	base, bok := numericValue(args[0])
	exp, eok := numericValue(args[1])
	if !bok || !eok {
		return Value{}, newRuntimeError(line, "pow applied to a non-numeric value")
	}
	result := mathPow(base, exp)
	if args[0].Type == TypeInt && args[1].Type == TypeInt && args[1].Int >= 0 {
		return MakeInt(int64(result)), nil
	}
	return MakeFloat(result), nil
}

func biStrstr(vm *VM, args []Value, line int) (Value, *RuntimeError) {
	if len(args) != 2 {
		return Value{}, newRuntimeError(line, "strstr expects 2 arguments, got %d", len(args))
	}
	if args[0].Type != TypeString || args[1].Type != TypeString {
		return Value{}, newRuntimeError(line, "strstr applied to a non-text value")
	}
	return MakeBool(strings.Contains(args[0].Str, args[1].Str)), nil
}

func biLen(vm *VM, args []Value, line int) (Value, *RuntimeError) {
	if len(args) != 1 {
		return Value{}, newRuntimeError(line, "length expects 1 argument, got %d", len(args))
	}
	switch args[0].Type {
	case TypeArray:
		return MakeInt(int64(args[0].Array.Len())), nil
	case TypeString:
		return MakeInt(int64(len([]rune(args[0].Str)))), nil
	default:
		return Value{}, newRuntimeError(line, "length applied to a non-array, non-text value")
	}
}

func biToNumber(vm *VM, args []Value, line int) (Value, *RuntimeError) {
	if len(args) != 1 || args[0].Type != TypeString {
		return Value{}, newRuntimeError(line, "to_number expects a text argument")
	}
	return toNumber(args[0].Str, line)
}

// fileHandle wraps an opened file and a line-buffered reader so
// __has_line__ can peek ahead without consuming a line __read_line__
// hasn't returned yet.
type fileHandle struct {
	f         *os.File
	reader    *bufio.Reader
	writer    *os.File
	pending   string
	hasPending bool
	eof       bool
	mode      string
}

func biOpenFile(vm *VM, args []Value, line int) (Value, *RuntimeError) {
	if len(args) != 2 || args[0].Type != TypeString || args[1].Type != TypeString {
		return Value{}, newRuntimeError(line, "__open_file__ expects a path and a mode")
	}
	path, mode := args[0].Str, args[1].Str

	var f *os.File
	var err error
	if mode == "write" {
		f, err = os.Create(path)
	} else {
		f, err = os.Open(path)
	}
	if err != nil {
		return MakeNull(), nil
	}

	vm.nextFile++
	id := vm.nextFile
	h := &fileHandle{f: f, mode: mode}
	if mode != "write" {
		h.reader = bufio.NewReader(f)
	}
	vm.openFiles[id] = h

	return MakeInt(int64(id)), nil
}

func biCloseFile(vm *VM, args []Value, line int) (Value, *RuntimeError) {
	if len(args) != 1 || args[0].Type != TypeInt {
		return Value{}, newRuntimeError(line, "__close_file__ expects a file handle")
	}
	h, ok := vm.openFiles[int(args[0].Int)]
	if !ok {
		return MakeNull(), nil
	}
	h.f.Close()
	delete(vm.openFiles, int(args[0].Int))
	return MakeNull(), nil
}

func biHasLine(vm *VM, args []Value, line int) (Value, *RuntimeError) {
	if len(args) != 1 || args[0].Type != TypeInt {
		return Value{}, newRuntimeError(line, "__has_line__ expects a file handle")
	}
	h, ok := vm.openFiles[int(args[0].Int)]
	if !ok || h.reader == nil {
		return MakeBool(false), nil
	}
	if h.hasPending {
		return MakeBool(true), nil
	}
	s, err := h.reader.ReadString('\n')
	if s == "" && err != nil {
		h.eof = true
		return MakeBool(false), nil
	}
	h.pending = strings.TrimRight(s, "\r\n")
	h.hasPending = true
	return MakeBool(true), nil
}

func biReadLine(vm *VM, args []Value, line int) (Value, *RuntimeError) {
	if len(args) != 2 || args[0].Type != TypeInt {
		return Value{}, newRuntimeError(line, "__read_line__ expects a file handle and a target")
	}
	h, ok := vm.openFiles[int(args[0].Int)]
	if !ok || h.reader == nil {
		return Value{}, newRuntimeError(line, "read from an unopened file")
	}
	if !h.hasPending {
		s, err := h.reader.ReadString('\n')
		if s == "" && err != nil {
			return Value{}, newRuntimeError(line, "no more lines to read")
		}
		h.pending = strings.TrimRight(s, "\r\n")
	}
	h.hasPending = false
	return MakeString(h.pending), nil
}

func biStubNull(vm *VM, args []Value, line int) (Value, *RuntimeError)  { return MakeNull(), nil }
func biStubBool(vm *VM, args []Value, line int) (Value, *RuntimeError)  { return MakeBool(true), nil }
func biStubTrue(vm *VM, args []Value, line int) (Value, *RuntimeError)  { return MakeBool(true), nil }
func biStubFalse(vm *VM, args []Value, line int) (Value, *RuntimeError) { return MakeBool(false), nil }
func biStubZero(vm *VM, args []Value, line int) (Value, *RuntimeError)  { return MakeInt(0), nil }

func mathPow(base, exp float64) float64 { return math.Pow(base, exp) }
