// Package serial reads and writes the object serialization stream format
// used by the game's save files, as a plain in-memory graph.
//
// Values in the graph are represented as:
//
//	nil                  null reference
//	bool, int8, uint16, int16, int32, int64, float32, float64
//	                     primitive field values (Z, B, C, S, I, J, F, D)
//	string               java.lang.String
//	*Object, *Array, *Enum, *Class
//	                     reference values
//	BlockData            raw primitive data inside custom write annotations
package serial

import (
	"fmt"
	"strings"
)

const (
	streamMagic   uint16 = 0xACED
	streamVersion uint16 = 5
	baseHandle    int32  = 0x7E0000
)

const (
	tcNull           byte = 0x70
	tcReference      byte = 0x71
	tcClassDesc      byte = 0x72
	tcObject         byte = 0x73
	tcString         byte = 0x74
	tcArray          byte = 0x75
	tcClass          byte = 0x76
	tcBlockData      byte = 0x77
	tcEndBlockData   byte = 0x78
	tcReset          byte = 0x79
	tcBlockDataLong  byte = 0x7A
	tcException      byte = 0x7B
	tcLongString     byte = 0x7C
	tcProxyClassDesc byte = 0x7D
	tcEnum           byte = 0x7E
)

// Class descriptor flags.
const (
	ScWriteMethod    byte = 0x01
	ScSerializable   byte = 0x02
	ScExternalizable byte = 0x04
	ScBlockData      byte = 0x08
	ScEnum           byte = 0x10
)

// StringSig is the field signature of java.lang.String.
const StringSig = "Ljava/lang/String;"

// Field is one serializable field of a class descriptor.
type Field struct {
	Type      byte // B C D F I J S Z L [
	Name      string
	ClassName string // signature for L and [ fields, e.g. "Ljava/lang/String;"
}

// IsPrimitive reports whether the field holds a primitive value.
func (f Field) IsPrimitive() bool {
	return f.Type != 'L' && f.Type != '['
}

// ClassDesc describes one class in a stream.
type ClassDesc struct {
	Name        string
	SUID        int64
	Flags       byte
	Fields      []Field
	Annotations []any
	Super       *ClassDesc
}

// Hierarchy returns the descriptor chain, topmost superclass first.
func (c *ClassDesc) Hierarchy() []*ClassDesc {
	var chain []*ClassDesc
	for cur := c; cur != nil; cur = cur.Super {
		chain = append(chain, cur)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// FieldIndex returns the index of the named field, or -1.
func (c *ClassDesc) FieldIndex(name string) int {
	for i, f := range c.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// HasWriteMethod reports whether instances carry custom annotation data.
func (c *ClassDesc) HasWriteMethod() bool {
	return c.Flags&ScWriteMethod != 0
}

// IsExternalizable reports whether the class controls its own encoding.
func (c *ClassDesc) IsExternalizable() bool {
	return c.Flags&ScExternalizable != 0
}

// Is reports whether the class or one of its superclasses is named name.
func (c *ClassDesc) Is(name string) bool {
	for cur := c; cur != nil; cur = cur.Super {
		if cur.Name == name {
			return true
		}
	}
	return false
}

// ClassData holds the field values one class in the hierarchy contributes.
type ClassData struct {
	Desc        *ClassDesc
	Values      []any
	Annotations []any
}

// Object is a serialized instance.
type Object struct {
	Class *ClassDesc
	Data  []*ClassData
}

// NewObject creates an instance of desc with zero-valued fields.
func NewObject(desc *ClassDesc) *Object {
	o := &Object{Class: desc}
	if desc.IsExternalizable() {
		o.Data = []*ClassData{{Desc: desc}}
		return o
	}
	for _, cd := range desc.Hierarchy() {
		vals := make([]any, len(cd.Fields))
		for i, f := range cd.Fields {
			vals[i] = ZeroValue(f.Type)
		}
		o.Data = append(o.Data, &ClassData{Desc: cd, Values: vals})
	}
	return o
}

// ClassName returns the most-derived class name.
func (o *Object) ClassName() string {
	if o == nil || o.Class == nil {
		return ""
	}
	return o.Class.Name
}

// DataFor returns the class data contributed by the named class.
func (o *Object) DataFor(className string) (*ClassData, bool) {
	for _, cd := range o.Data {
		if cd.Desc.Name == className {
			return cd, true
		}
	}
	return nil, false
}

// slot finds a field by name, most-derived class first.
func (o *Object) slot(name string) (*ClassData, int, bool) {
	for i := len(o.Data) - 1; i >= 0; i-- {
		cd := o.Data[i]
		if idx := cd.Desc.FieldIndex(name); idx >= 0 && idx < len(cd.Values) {
			return cd, idx, true
		}
	}
	return nil, -1, false
}

// SlotType returns the type code and signature of the named field.
func (o *Object) SlotType(name string) (byte, string, bool) {
	cd, idx, ok := o.slot(name)
	if !ok {
		return 0, "", false
	}
	f := cd.Desc.Fields[idx]
	return f.Type, f.ClassName, true
}

// SlotValue returns the current value of the named field. Boxed
// primitives come back as their Go value.
func (o *Object) SlotValue(name string) (any, bool) {
	cd, idx, ok := o.slot(name)
	if !ok {
		return nil, false
	}
	v, _ := Unbox(cd.Values[idx])
	return v, true
}

// SetSlot writes v into the named field. v must already have the Go type
// matching the field's type code; for boxed wrapper fields it may also be
// the wrapped primitive's Go type.
func (o *Object) SetSlot(name string, v any) error {
	cd, idx, ok := o.slot(name)
	if !ok {
		return fmt.Errorf("%s: no field %q", o.ClassName(), name)
	}
	f := cd.Desc.Fields[idx]
	if f.Type == 'L' {
		if boxed, ok := Box(f.ClassName, v); ok {
			v = boxed
		}
	}
	if !Assignable(f, v) {
		return fmt.Errorf("%s.%s: cannot assign %T to %s", o.ClassName(), name, v, f.signature())
	}
	cd.Values[idx] = v
	return nil
}

// Assignable reports whether v can be stored in field f without conversion.
func Assignable(f Field, v any) bool {
	switch f.Type {
	case 'B':
		_, ok := v.(int8)
		return ok
	case 'C':
		_, ok := v.(uint16)
		return ok
	case 'D':
		_, ok := v.(float64)
		return ok
	case 'F':
		_, ok := v.(float32)
		return ok
	case 'I':
		_, ok := v.(int32)
		return ok
	case 'J':
		_, ok := v.(int64)
		return ok
	case 'S':
		_, ok := v.(int16)
		return ok
	case 'Z':
		_, ok := v.(bool)
		return ok
	case '[':
		switch a := v.(type) {
		case nil:
			return true
		case *Array:
			return a.Class != nil && a.Class.Name == strings.ReplaceAll(f.ClassName, "/", ".")
		}
		return false
	case 'L':
		if v == nil {
			return true
		}
		if _, ok := v.(string); ok {
			return AcceptsString(f.ClassName)
		}
		if f.ClassName == StringSig {
			return false
		}
		if bt, ok := boxedTypes[f.ClassName]; ok {
			o, isObj := v.(*Object)
			return isObj && o.Class != nil && o.Class.Name == bt.desc.Name
		}
		switch v.(type) {
		case *Object, *Array, *Enum, *Class:
			return true
		}
	}
	return false
}

func (f Field) signature() string {
	if f.IsPrimitive() {
		return string(f.Type)
	}
	return f.ClassName
}

// ZeroValue returns the default value for a field type code.
func ZeroValue(t byte) any {
	switch t {
	case 'B':
		return int8(0)
	case 'C':
		return uint16(0)
	case 'D':
		return float64(0)
	case 'F':
		return float32(0)
	case 'I':
		return int32(0)
	case 'J':
		return int64(0)
	case 'S':
		return int16(0)
	case 'Z':
		return false
	default:
		return nil
	}
}

// Array is a serialized array; Class.Name is the array type name such as "[I".
type Array struct {
	Class *ClassDesc
	Elems []any
}

// Enum is a serialized enum constant.
type Enum struct {
	Class    *ClassDesc
	Constant string
}

// Class is a serialized class literal.
type Class struct {
	Desc *ClassDesc
}

// BlockData is a chunk of primitive data written by a custom write method.
type BlockData []byte
