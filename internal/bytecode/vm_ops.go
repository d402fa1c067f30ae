package bytecode

import (
	"math"
	"strconv"
)

// execArith implements ADD/SUB/MUL/DIV/MOD. Int op Int stays Int;
// mixing in a Float promotes the result to Float; ADD additionally
// concatenates whenever either operand is a String, stringifying the
// other side, the one place the language overloads an arithmetic
// opcode by value type.
func (vm *VM) execArith(ins Instruction) *RuntimeError {
	b, err := vm.pop(ins.Line)
	if err != nil {
		return err
	}
	a, err := vm.pop(ins.Line)
	if err != nil {
		return err
	}

	if ins.Op == ADD && (a.Type == TypeString || b.Type == TypeString) {
		vm.push(MakeString(a.String() + b.String()))
		return nil
	}

	if a.Type == TypeInt && b.Type == TypeInt {
		switch ins.Op {
		case ADD:
			vm.push(MakeInt(a.Int + b.Int))
		case SUB:
			vm.push(MakeInt(a.Int - b.Int))
		case MUL:
			vm.push(MakeInt(a.Int * b.Int))
		case DIV:
			if b.Int == 0 {
				return newRuntimeError(ins.Line, "division by zero")
			}
			vm.push(MakeInt(a.Int / b.Int))
		case MOD:
			if b.Int == 0 {
				return newRuntimeError(ins.Line, "division by zero")
			}
			vm.push(MakeInt(a.Int % b.Int))
		}
		return nil
	}

	af, aok := numericValue(a)
	bf, bok := numericValue(b)
	if !aok || !bok {
		return newRuntimeError(ins.Line, "arithmetic on a non-numeric value")
	}

	switch ins.Op {
	case ADD:
		vm.push(MakeFloat(af + bf))
	case SUB:
		vm.push(MakeFloat(af - bf))
	case MUL:
		vm.push(MakeFloat(af * bf))
	case DIV:
		if bf == 0 {
			return newRuntimeError(ins.Line, "division by zero")
		}
		vm.push(MakeFloat(af / bf))
	case MOD:
		if bf == 0 {
			return newRuntimeError(ins.Line, "division by zero")
		}
		vm.push(MakeFloat(math.Mod(af, bf)))
	}
	return nil
}

func numericValue(v Value) (float64, bool) {
	switch v.Type {
	case TypeInt:
		return float64(v.Int), true
	case TypeFloat:
		return v.Float, true
	default:
		return 0, false
	}
}

func (vm *VM) execPow(line int) *RuntimeError {
	b, err := vm.pop(line)
	if err != nil {
		return err
	}
	a, err := vm.pop(line)
	if err != nil {
		return err
	}
	af, aok := numericValue(a)
	bf, bok := numericValue(b)
	if !aok || !bok {
		return newRuntimeError(line, "exponentiation of a non-numeric value")
	}
	if a.Type == TypeInt && b.Type == TypeInt && b.Int >= 0 {
		vm.push(MakeInt(int64(math.Pow(af, bf))))
		return nil
	}
	vm.push(MakeFloat(math.Pow(af, bf)))
	return nil
}

func (vm *VM) execNeg(line int) *RuntimeError {
	a, err := vm.pop(line)
	if err != nil {
		return err
	}
	switch a.Type {
	case TypeInt:
		vm.push(MakeInt(-a.Int))
	case TypeFloat:
		vm.push(MakeFloat(-a.Float))
	default:
		return newRuntimeError(line, "negation of a non-numeric value")
	}
	return nil
}

func (vm *VM) execCompare(ins Instruction) *RuntimeError {
	b, err := vm.pop(ins.Line)
	if err != nil {
		return err
	}
	a, err := vm.pop(ins.Line)
	if err != nil {
		return err
	}

	if ins.Op == EQ {
		vm.push(MakeBool(Equal(a, b)))
		return nil
	}
	if ins.Op == NE {
		vm.push(MakeBool(!Equal(a, b)))
		return nil
	}

	if a.Type == TypeString && b.Type == TypeString {
		vm.push(MakeBool(compareOrdered(stringCompare(a.Str, b.Str), ins.Op)))
		return nil
	}

	af, aok := numericValue(a)
	bf, bok := numericValue(b)
	if !aok || !bok {
		return newRuntimeError(ins.Line, "comparison of a non-numeric, non-text value")
	}
	var cmp int
	switch {
	case af < bf:
		cmp = -1
	case af > bf:
		cmp = 1
	}
	vm.push(MakeBool(compareOrdered(cmp, ins.Op)))
	return nil
}

func stringCompare(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareOrdered(cmp int, op OpCode) bool {
	switch op {
	case LT:
		return cmp < 0
	case LE:
		return cmp <= 0
	case GT:
		return cmp > 0
	case GE:
		return cmp >= 0
	default:
		return false
	}
}

func mathSqrt(f float64) float64 { return math.Sqrt(f) }
func mathAbs(f float64) float64  { return math.Abs(f) }

func (vm *VM) execUnaryMath(line int, f func(float64) float64) *RuntimeError {
	a, err := vm.pop(line)
	if err != nil {
		return err
	}
	af, ok := numericValue(a)
	if !ok {
		return newRuntimeError(line, "math function applied to a non-numeric value")
	}
	if a.Type == TypeInt {
		vm.push(MakeInt(int64(f(af))))
		return nil
	}
	vm.push(MakeFloat(f(af)))
	return nil
}

func (vm *VM) execRandom(lo, hi Value) Value {
	lof, _ := numericValue(lo)
	hif, _ := numericValue(hi)
	if lo.Type == TypeInt && hi.Type == TypeInt {
		span := hi.Int - lo.Int + 1
		if span <= 0 {
			return MakeInt(lo.Int)
		}
		return MakeInt(lo.Int + vm.rng.Int63n(span))
	}
	return MakeFloat(lof + vm.rng.Float64()*(hif-lof))
}

func (vm *VM) execInput(ins Instruction) (Value, *RuntimeError) {
	line, err := vm.in.ReadString('\n')
	if err != nil && line == "" {
		return Value{}, newRuntimeError(ins.Line, "unexpected end of input")
	}
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}

	switch ins.Op {
	case INPUT_INT:
		n, perr := strconv.ParseInt(line, 10, 64)
		if perr != nil {
			return Value{}, newRuntimeError(ins.Line, "could not convert %q to a number", line)
		}
		return MakeInt(n), nil
	case INPUT_FLOAT:
		f, perr := strconv.ParseFloat(line, 64)
		if perr != nil {
			return Value{}, newRuntimeError(ins.Line, "could not convert %q to a decimal", line)
		}
		return MakeFloat(f), nil
	case INPUT_CHAR:
		if len(line) == 0 {
			return MakeChar(0), nil
		}
		return MakeChar([]rune(line)[0]), nil
	default:
		return MakeString(line), nil
	}
}

// toNumber implements the `to_number` conversion builtin's bad-input
// case from the spec's runtime error table.
func toNumber(s string, line int) (Value, *RuntimeError) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return MakeInt(n), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err == nil {
		return MakeFloat(f), nil
	}
	return Value{}, newRuntimeError(line, "cannot convert %q to a number", s)
}
