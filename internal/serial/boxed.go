package serial

import "strings"

// Boxed primitive wrappers. A reference slot typed as one of these holds an
// *Object of that class; SetSlot boxes plain Go values and SlotValue unboxes
// them again.

var numberDesc = &ClassDesc{
	Name:  "java.lang.Number",
	SUID:  -8742448824652078965,
	Flags: ScSerializable,
}

type boxedType struct {
	code byte
	desc *ClassDesc
}

var boxedTypes = map[string]boxedType{
	"Ljava/lang/Integer;":   {'I', boxedDesc("java.lang.Integer", 1360826667806852920, 'I', numberDesc)},
	"Ljava/lang/Long;":      {'J', boxedDesc("java.lang.Long", 4290774380558885855, 'J', numberDesc)},
	"Ljava/lang/Short;":     {'S', boxedDesc("java.lang.Short", 7515723908773894738, 'S', numberDesc)},
	"Ljava/lang/Byte;":      {'B', boxedDesc("java.lang.Byte", -7183698231559129828, 'B', numberDesc)},
	"Ljava/lang/Double;":    {'D', boxedDesc("java.lang.Double", -9172774392245257468, 'D', numberDesc)},
	"Ljava/lang/Float;":     {'F', boxedDesc("java.lang.Float", -2671257302660747028, 'F', numberDesc)},
	"Ljava/lang/Boolean;":   {'Z', boxedDesc("java.lang.Boolean", -3665804199014368530, 'Z', nil)},
	"Ljava/lang/Character;": {'C', boxedDesc("java.lang.Character", 3786198910865385080, 'C', nil)},
}

func boxedDesc(name string, suid int64, code byte, super *ClassDesc) *ClassDesc {
	return &ClassDesc{
		Name:   name,
		SUID:   suid,
		Flags:  ScSerializable,
		Fields: []Field{{Type: code, Name: "value"}},
		Super:  super,
	}
}

// BoxedCode returns the primitive type code wrapped by a boxed signature
// such as "Ljava/lang/Integer;".
func BoxedCode(sig string) (byte, bool) {
	bt, ok := boxedTypes[sig]
	return bt.code, ok
}

// Box wraps a primitive Go value in the wrapper object for sig. v must
// already have the Go type of the wrapped primitive.
func Box(sig string, v any) (*Object, bool) {
	bt, ok := boxedTypes[sig]
	if !ok || !Assignable(Field{Type: bt.code}, v) {
		return nil, false
	}
	o := NewObject(bt.desc)
	cd, _ := o.DataFor(bt.desc.Name)
	cd.Values[0] = v
	return o, true
}

// Unbox returns the primitive held by a wrapper object. Any other value is
// returned unchanged with ok false.
func Unbox(v any) (any, bool) {
	o, ok := v.(*Object)
	if !ok || o == nil || o.Class == nil {
		return v, false
	}
	bt, ok := boxedTypes["L"+strings.ReplaceAll(o.Class.Name, ".", "/")+";"]
	if !ok || o.Class.Name != bt.desc.Name {
		return v, false
	}
	cd, ok := o.DataFor(o.Class.Name)
	if !ok {
		return v, false
	}
	idx := cd.Desc.FieldIndex("value")
	if idx < 0 || idx >= len(cd.Values) {
		return v, false
	}
	return cd.Values[idx], true
}

// stringSlots are the reference signatures a java.lang.String fits.
var stringSlots = map[string]bool{
	StringSig:                  true,
	"Ljava/lang/Object;":       true,
	"Ljava/lang/CharSequence;": true,
	"Ljava/lang/Comparable;":   true,
	"Ljava/io/Serializable;":   true,
}

// AcceptsString reports whether a reference slot with signature sig can
// hold a string.
func AcceptsString(sig string) bool {
	return stringSlots[sig]
}
