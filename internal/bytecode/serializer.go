package bytecode

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// magic identifies a persisted Zinc IR file; version guards against
// reading a file written by an incompatible layout of this package.
const (
	magic   = "ZNIR"
	version = 1
)

// Serialize writes a Program using a length-prefixed tagged encoding:
// every variable-length field (a string, an instruction list) is
// preceded by its count so a reader never needs to scan for a
// terminator. The wire format is private to this toolchain — it need
// not match any other Zinc implementation, only round-trip within
// this one.
func Serialize(p *Program, w io.Writer) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(magic); err != nil {
		return err
	}
	if err := writeU32(bw, version); err != nil {
		return err
	}
	if err := writeString(bw, p.EntryFunction); err != nil {
		return err
	}

	if err := writeU32(bw, uint32(len(p.StructOrder))); err != nil {
		return err
	}
	for _, name := range p.StructOrder {
		if err := writeStruct(bw, p.Structs[name]); err != nil {
			return err
		}
	}

	if err := writeU32(bw, uint32(len(p.FunctionOrder))); err != nil {
		return err
	}
	for _, name := range p.FunctionOrder {
		if err := writeFunction(bw, p.Functions[name]); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func writeStruct(w *bufio.Writer, s *StructLayout) error {
	if err := writeString(w, s.Name); err != nil {
		return err
	}
	if err := writeU32(w, uint32(len(s.Fields))); err != nil {
		return err
	}
	for _, f := range s.Fields {
		if err := writeString(w, f.Name); err != nil {
			return err
		}
		if err := writeString(w, f.Type); err != nil {
			return err
		}
	}
	return nil
}

func writeFunction(w *bufio.Writer, fn *Function) error {
	if err := writeString(w, fn.Name); err != nil {
		return err
	}
	if err := writeU32(w, uint32(len(fn.Params))); err != nil {
		return err
	}
	for _, p := range fn.Params {
		if err := writeString(w, p); err != nil {
			return err
		}
	}
	if err := writeU32(w, uint32(fn.LocalCount)); err != nil {
		return err
	}
	if err := writeU32(w, uint32(len(fn.Code))); err != nil {
		return err
	}
	for _, ins := range fn.Code {
		if err := writeInstruction(w, ins); err != nil {
			return err
		}
	}
	return nil
}

func writeInstruction(w *bufio.Writer, ins Instruction) error {
	if err := w.WriteByte(byte(ins.Op)); err != nil {
		return err
	}
	if err := writeI64(w, ins.Int); err != nil {
		return err
	}
	if err := writeF64(w, ins.Float); err != nil {
		return err
	}
	if err := writeString(w, ins.Str); err != nil {
		return err
	}
	if err := writeU32(w, uint32(ins.Char)); err != nil {
		return err
	}
	if err := writeBool(w, ins.Bool); err != nil {
		return err
	}
	if err := writeU32(w, uint32(ins.Index)); err != nil {
		return err
	}
	if err := writeU32(w, uint32(ins.Jump)); err != nil {
		return err
	}
	if err := writeU32(w, uint32(ins.Argc)); err != nil {
		return err
	}
	if err := writeString(w, ins.Name); err != nil {
		return err
	}
	return writeU32(w, uint32(ins.Line))
}

// Deserialize reads back a Program previously written by Serialize.
func Deserialize(r io.Reader) (*Program, error) {
	br := bufio.NewReader(r)

	magicBuf := make([]byte, len(magic))
	if _, err := io.ReadFull(br, magicBuf); err != nil {
		return nil, fmt.Errorf("reading magic: %w", err)
	}
	if string(magicBuf) != magic {
		return nil, fmt.Errorf("not a zinc IR file (bad magic %q)", magicBuf)
	}

	ver, err := readU32(br)
	if err != nil {
		return nil, err
	}
	if ver != version {
		return nil, fmt.Errorf("unsupported zinc IR version %d", ver)
	}

	p := NewProgram()

	p.EntryFunction, err = readString(br)
	if err != nil {
		return nil, err
	}

	structCount, err := readU32(br)
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < structCount; i++ {
		s, err := readStruct(br)
		if err != nil {
			return nil, err
		}
		p.AddStruct(s)
	}

	fnCount, err := readU32(br)
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < fnCount; i++ {
		fn, err := readFunction(br)
		if err != nil {
			return nil, err
		}
		p.AddFunction(fn)
	}

	return p, nil
}

func readStruct(r *bufio.Reader) (*StructLayout, error) {
	name, err := readString(r)
	if err != nil {
		return nil, err
	}
	count, err := readU32(r)
	if err != nil {
		return nil, err
	}
	s := &StructLayout{Name: name}
	for i := uint32(0); i < count; i++ {
		fname, err := readString(r)
		if err != nil {
			return nil, err
		}
		ftype, err := readString(r)
		if err != nil {
			return nil, err
		}
		s.Fields = append(s.Fields, StructFieldLayout{Name: fname, Type: ftype})
	}
	return s, nil
}

func readFunction(r *bufio.Reader) (*Function, error) {
	name, err := readString(r)
	if err != nil {
		return nil, err
	}
	paramCount, err := readU32(r)
	if err != nil {
		return nil, err
	}
	fn := &Function{Name: name}
	for i := uint32(0); i < paramCount; i++ {
		p, err := readString(r)
		if err != nil {
			return nil, err
		}
		fn.Params = append(fn.Params, p)
	}
	localCount, err := readU32(r)
	if err != nil {
		return nil, err
	}
	fn.LocalCount = int(localCount)

	codeCount, err := readU32(r)
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < codeCount; i++ {
		ins, err := readInstruction(r)
		if err != nil {
			return nil, err
		}
		fn.Code = append(fn.Code, ins)
	}
	return fn, nil
}

func readInstruction(r *bufio.Reader) (Instruction, error) {
	var ins Instruction

	opByte, err := r.ReadByte()
	if err != nil {
		return ins, err
	}
	ins.Op = OpCode(opByte)

	if ins.Int, err = readI64(r); err != nil {
		return ins, err
	}
	if ins.Float, err = readF64(r); err != nil {
		return ins, err
	}
	if ins.Str, err = readString(r); err != nil {
		return ins, err
	}
	ch, err := readU32(r)
	if err != nil {
		return ins, err
	}
	ins.Char = rune(ch)
	if ins.Bool, err = readBool(r); err != nil {
		return ins, err
	}
	idx, err := readU32(r)
	if err != nil {
		return ins, err
	}
	ins.Index = int(idx)
	jmp, err := readU32(r)
	if err != nil {
		return ins, err
	}
	ins.Jump = int(jmp)
	argc, err := readU32(r)
	if err != nil {
		return ins, err
	}
	ins.Argc = int(argc)
	if ins.Name, err = readString(r); err != nil {
		return ins, err
	}
	line, err := readU32(r)
	if err != nil {
		return ins, err
	}
	ins.Line = int(line)

	return ins, nil
}

func writeU32(w *bufio.Writer, v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readU32(r *bufio.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

func writeI64(w *bufio.Writer, v int64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	_, err := w.Write(buf[:])
	return err
}

func readI64(r *bufio.Reader) (int64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(buf[:])), nil
}

func writeF64(w *bufio.Writer, v float64) error {
	return writeU64(w, math.Float64bits(v))
}

func readF64(r *bufio.Reader) (float64, error) {
	bits, err := readU64(r)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

func writeU64(w *bufio.Writer, v uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readU64(r *bufio.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}

func writeBool(w *bufio.Writer, v bool) error {
	if v {
		return w.WriteByte(1)
	}
	return w.WriteByte(0)
}

func readBool(r *bufio.Reader) (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

func writeString(w *bufio.Writer, s string) error {
	if err := writeU32(w, uint32(len(s))); err != nil {
		return err
	}
	_, err := w.WriteString(s)
	return err
}

func readString(r *bufio.Reader) (string, error) {
	n, err := readU32(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
