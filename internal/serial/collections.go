package serial

import (
	"encoding/binary"
	"fmt"
)

const (
	ArrayListClass = "java.util.ArrayList"
	ColorClass     = "java.awt.Color"
)

// Well-known colors as packed ARGB values.
const (
	ColorWhite int32 = -1
	ColorBlack int32 = -16777216
)

// IsList reports whether v is an ArrayList instance.
func IsList(v any) bool {
	o, ok := v.(*Object)
	return ok && o != nil && o.Class != nil && o.Class.Is(ArrayListClass)
}

// ListElements returns the elements of an ArrayList. The elements are the
// non-block-data annotations written after the size.
func ListElements(v any) ([]any, bool) {
	o, ok := v.(*Object)
	if !ok || !IsList(o) {
		return nil, false
	}
	cd, ok := o.DataFor(ArrayListClass)
	if !ok {
		return nil, false
	}
	elems := make([]any, 0, len(cd.Annotations))
	for _, a := range cd.Annotations {
		if _, isBlock := a.(BlockData); isBlock {
			continue
		}
		elems = append(elems, a)
	}
	return elems, true
}

// SetListElements replaces the contents of an ArrayList.
func SetListElements(o *Object, elems []any) error {
	cd, ok := o.DataFor(ArrayListClass)
	if !ok {
		return fmt.Errorf("%s is not an ArrayList", o.ClassName())
	}
	if idx := cd.Desc.FieldIndex("size"); idx >= 0 {
		cd.Values[idx] = int32(len(elems))
	}
	size := make([]byte, 4)
	binary.BigEndian.PutUint32(size, uint32(len(elems)))
	ann := make([]any, 0, len(elems)+1)
	ann = append(ann, BlockData(size))
	ann = append(ann, elems...)
	cd.Annotations = ann
	return nil
}

// NewArrayList creates an ArrayList instance of desc holding elems.
func NewArrayList(desc *ClassDesc, elems []any) (*Object, error) {
	o := NewObject(desc)
	if err := SetListElements(o, elems); err != nil {
		return nil, err
	}
	return o, nil
}

// NewColor creates a Color instance of desc with the packed ARGB value.
func NewColor(desc *ClassDesc, argb int32) (*Object, error) {
	o := NewObject(desc)
	if err := o.SetSlot("value", argb); err != nil {
		return nil, err
	}
	return o, nil
}

// ColorARGB returns the packed ARGB value of a Color instance.
func ColorARGB(v any) (int32, bool) {
	o, ok := v.(*Object)
	if !ok || o == nil || o.Class == nil || !o.Class.Is(ColorClass) {
		return 0, false
	}
	raw, ok := o.SlotValue("value")
	if !ok {
		return 0, false
	}
	argb, ok := raw.(int32)
	return argb, ok
}

// HexColor formats a Color instance as #rrggbb.
func HexColor(v any) string {
	argb, ok := ColorARGB(v)
	if !ok {
		return "null"
	}
	return fmt.Sprintf("#%02x%02x%02x", byte(argb>>16), byte(argb>>8), byte(argb))
}
