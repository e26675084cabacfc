package serial

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Encoder writes a graph as one stream. Shared references (the same
// *Object, *ClassDesc, *Array, *Enum or *Class pointer, or equal strings)
// are written once and back-referenced afterwards.
type Encoder struct {
	w       *bufio.Writer
	refs    map[any]int32
	strings map[string]int32
	next    int32
	err     error
}

// NewEncoder creates an encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{
		w:       bufio.NewWriter(w),
		refs:    make(map[any]int32),
		strings: make(map[string]int32),
		next:    baseHandle,
	}
}

// Encode writes the stream header and root, then flushes.
func Encode(w io.Writer, root any) error {
	e := NewEncoder(w)
	if err := e.WriteHeader(); err != nil {
		return err
	}
	if err := e.WriteContent(root); err != nil {
		return err
	}
	return e.Flush()
}

// WriteHeader writes magic and version.
func (e *Encoder) WriteHeader() error {
	e.u16(streamMagic)
	e.u16(streamVersion)
	return e.err
}

// WriteContent writes one content item.
func (e *Encoder) WriteContent(v any) error {
	if err := e.content(v); err != nil {
		return err
	}
	return e.err
}

// Flush flushes buffered output.
func (e *Encoder) Flush() error {
	if e.err != nil {
		return e.err
	}
	return e.w.Flush()
}

// ---- primitive writes ----

func (e *Encoder) byte1(b byte) {
	if e.err == nil {
		e.err = e.w.WriteByte(b)
	}
}

func (e *Encoder) raw(b []byte) {
	if e.err == nil {
		_, e.err = e.w.Write(b)
	}
}

func (e *Encoder) u16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	e.raw(b[:])
}

func (e *Encoder) i32(v int32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	e.raw(b[:])
}

func (e *Encoder) i64(v int64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	e.raw(b[:])
}

func (e *Encoder) utf(s string) error {
	b := encodeMUTF8(s)
	if len(b) > math.MaxUint16 {
		return fmt.Errorf("string too long for UTF field: %d bytes", len(b))
	}
	e.u16(uint16(len(b)))
	e.raw(b)
	return nil
}

func (e *Encoder) primitive(t byte, v any) error {
	switch t {
	case 'B':
		if x, ok := v.(int8); ok {
			e.byte1(byte(x))
			return nil
		}
	case 'Z':
		if x, ok := v.(bool); ok {
			if x {
				e.byte1(1)
			} else {
				e.byte1(0)
			}
			return nil
		}
	case 'C':
		if x, ok := v.(uint16); ok {
			e.u16(x)
			return nil
		}
	case 'S':
		if x, ok := v.(int16); ok {
			e.u16(uint16(x))
			return nil
		}
	case 'I':
		if x, ok := v.(int32); ok {
			e.i32(x)
			return nil
		}
	case 'J':
		if x, ok := v.(int64); ok {
			e.i64(x)
			return nil
		}
	case 'F':
		if x, ok := v.(float32); ok {
			e.i32(int32(math.Float32bits(x)))
			return nil
		}
	case 'D':
		if x, ok := v.(float64); ok {
			e.i64(int64(math.Float64bits(x)))
			return nil
		}
	}
	return fmt.Errorf("cannot write %T as primitive %q", v, t)
}

// ---- handles ----

func (e *Encoder) assign(v any) {
	e.refs[v] = e.next
	e.next++
}

func (e *Encoder) backRef(v any) bool {
	h, ok := e.refs[v]
	if !ok {
		return false
	}
	e.byte1(tcReference)
	e.i32(h)
	return true
}

// ---- content ----

func (e *Encoder) content(v any) error {
	switch x := v.(type) {
	case nil:
		e.byte1(tcNull)
	case string:
		e.str(x)
	case *Object:
		if x == nil {
			e.byte1(tcNull)
			return nil
		}
		return e.object(x)
	case *ClassDesc:
		return e.classDesc(x)
	case *Array:
		if x == nil {
			e.byte1(tcNull)
			return nil
		}
		return e.array(x)
	case *Enum:
		if x == nil {
			e.byte1(tcNull)
			return nil
		}
		return e.enum(x)
	case *Class:
		if x == nil {
			e.byte1(tcNull)
			return nil
		}
		if e.backRef(x) {
			return nil
		}
		e.byte1(tcClass)
		if err := e.classDesc(x.Desc); err != nil {
			return err
		}
		e.assign(x)
	case BlockData:
		if len(x) <= 0xFF {
			e.byte1(tcBlockData)
			e.byte1(byte(len(x)))
		} else {
			e.byte1(tcBlockDataLong)
			e.i32(int32(len(x)))
		}
		e.raw(x)
	default:
		return fmt.Errorf("cannot serialize %T", v)
	}
	return nil
}

func (e *Encoder) str(s string) {
	if h, ok := e.strings[s]; ok {
		e.byte1(tcReference)
		e.i32(h)
		return
	}
	b := encodeMUTF8(s)
	if len(b) <= math.MaxUint16 {
		e.byte1(tcString)
		e.u16(uint16(len(b)))
	} else {
		e.byte1(tcLongString)
		e.i64(int64(len(b)))
	}
	e.raw(b)
	e.strings[s] = e.next
	e.next++
}

func (e *Encoder) classDesc(c *ClassDesc) error {
	if c == nil {
		e.byte1(tcNull)
		return nil
	}
	if e.backRef(c) {
		return nil
	}
	e.byte1(tcClassDesc)
	e.assign(c)
	if err := e.utf(c.Name); err != nil {
		return err
	}
	e.i64(c.SUID)
	e.byte1(c.Flags)
	e.u16(uint16(len(c.Fields)))
	for _, f := range c.Fields {
		e.byte1(f.Type)
		if err := e.utf(f.Name); err != nil {
			return err
		}
		if !f.IsPrimitive() {
			e.str(f.ClassName)
		}
	}
	if err := e.annotations(c.Annotations); err != nil {
		return err
	}
	return e.classDesc(c.Super)
}

func (e *Encoder) annotations(items []any) error {
	for _, a := range items {
		if err := e.content(a); err != nil {
			return err
		}
	}
	e.byte1(tcEndBlockData)
	return nil
}

func (e *Encoder) object(o *Object) error {
	if e.backRef(o) {
		return nil
	}
	if o.Class == nil {
		return fmt.Errorf("object without class descriptor")
	}
	e.byte1(tcObject)
	if err := e.classDesc(o.Class); err != nil {
		return err
	}
	e.assign(o)

	if o.Class.IsExternalizable() {
		var ann []any
		if len(o.Data) > 0 {
			ann = o.Data[0].Annotations
		}
		return e.annotations(ann)
	}

	hier := o.Class.Hierarchy()
	if len(hier) != len(o.Data) {
		return fmt.Errorf("%s: %d class data entries for %d classes", o.Class.Name, len(o.Data), len(hier))
	}
	for i, cd := range hier {
		data := o.Data[i]
		if data.Desc != cd || len(data.Values) != len(cd.Fields) {
			return fmt.Errorf("%s: class data for %s does not match descriptor", o.Class.Name, cd.Name)
		}
		for j, f := range cd.Fields {
			if !f.IsPrimitive() {
				continue
			}
			if err := e.primitive(f.Type, data.Values[j]); err != nil {
				return fmt.Errorf("%s.%s: %w", cd.Name, f.Name, err)
			}
		}
		for j, f := range cd.Fields {
			if f.IsPrimitive() {
				continue
			}
			if err := e.content(data.Values[j]); err != nil {
				return fmt.Errorf("%s.%s: %w", cd.Name, f.Name, err)
			}
		}
		if cd.HasWriteMethod() {
			if err := e.annotations(data.Annotations); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Encoder) array(a *Array) error {
	if e.backRef(a) {
		return nil
	}
	if a.Class == nil || len(a.Class.Name) < 2 {
		return fmt.Errorf("array without valid class descriptor")
	}
	e.byte1(tcArray)
	if err := e.classDesc(a.Class); err != nil {
		return err
	}
	e.assign(a)
	e.i32(int32(len(a.Elems)))
	elem := a.Class.Name[1]
	for i, v := range a.Elems {
		var err error
		if elem == 'L' || elem == '[' {
			err = e.content(v)
		} else {
			err = e.primitive(elem, v)
		}
		if err != nil {
			return fmt.Errorf("%s[%d]: %w", a.Class.Name, i, err)
		}
	}
	return nil
}

func (e *Encoder) enum(en *Enum) error {
	if e.backRef(en) {
		return nil
	}
	e.byte1(tcEnum)
	if err := e.classDesc(en.Class); err != nil {
		return err
	}
	e.assign(en)
	e.str(en.Constant)
	return nil
}
