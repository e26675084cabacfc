package serial

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"

	"github.com/ryanadelino-stack/compiler-api/internal/guard"
)

// ErrNotStream is returned when the input does not start with the stream header.
var ErrNotStream = errors.New("not an object serialization stream")

// ErrCyclicClass is returned when a class descriptor is its own ancestor.
var ErrCyclicClass = errors.New("cyclic class hierarchy")

// errEndBlock signals TC_ENDBLOCKDATA to annotation readers.
var errEndBlock = errors.New("end of block data")

// Decoder reads one stream under a guard. A Decoder is not safe for
// concurrent use; create one per load.
type Decoder struct {
	r       *bufio.Reader
	guard   *guard.Guard
	n       int64
	pending int
	handles []any
	depth   int
	refs    int
	// building holds the class descriptors whose super chain is still
	// being read, outermost first.
	building []*ClassDesc
}

// NewDecoder creates a decoder. A nil guard means guard.Default().
func NewDecoder(r io.Reader, g *guard.Guard) *Decoder {
	if g == nil {
		g = guard.Default()
	}
	return &Decoder{r: bufio.NewReader(r), guard: g, pending: -1}
}

// Decode reads the stream header and the first content item.
func Decode(r io.Reader, g *guard.Guard) (any, error) {
	d := NewDecoder(r, g)
	if err := d.ReadHeader(); err != nil {
		return nil, err
	}
	return d.ReadContent()
}

// BytesRead returns the number of stream bytes consumed so far.
func (d *Decoder) BytesRead() int64 {
	return d.n
}

// ReadHeader checks magic and version.
func (d *Decoder) ReadHeader() error {
	magic, err := d.readUint16()
	if err != nil {
		return fmt.Errorf("read magic: %w", err)
	}
	if magic != streamMagic {
		return ErrNotStream
	}
	version, err := d.readUint16()
	if err != nil {
		return fmt.Errorf("read version: %w", err)
	}
	if version != streamVersion {
		return fmt.Errorf("unsupported stream version %d", version)
	}
	return nil
}

// ReadContent reads the next top-level content item.
func (d *Decoder) ReadContent() (any, error) {
	return d.readContent(false)
}

// ---- primitive reads ----

func (d *Decoder) readByte() (byte, error) {
	if d.pending >= 0 {
		b := byte(d.pending)
		d.pending = -1
		return b, nil
	}
	b, err := d.r.ReadByte()
	if err != nil {
		return 0, eof(err)
	}
	d.n++
	if err := d.guard.CheckBytes(d.n); err != nil {
		return 0, err
	}
	return b, nil
}

func (d *Decoder) unreadByte(b byte) {
	d.pending = int(b)
}

func (d *Decoder) readFull(n int64) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative length %d", n)
	}
	if err := d.guard.CheckRead(d.n, n); err != nil {
		return nil, err
	}
	var buf []byte
	if d.pending >= 0 && n > 0 {
		buf = append(buf, byte(d.pending))
		d.pending = -1
		n--
	}
	rest, err := io.ReadAll(io.LimitReader(d.r, n))
	if err != nil {
		return nil, err
	}
	d.n += int64(len(rest))
	if int64(len(rest)) != n {
		return nil, io.ErrUnexpectedEOF
	}
	return append(buf, rest...), nil
}

func (d *Decoder) readUint16() (uint16, error) {
	b, err := d.readFull(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (d *Decoder) readInt32() (int32, error) {
	b, err := d.readFull(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

func (d *Decoder) readInt64() (int64, error) {
	b, err := d.readFull(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

func (d *Decoder) readUTF() (string, error) {
	n, err := d.readUint16()
	if err != nil {
		return "", err
	}
	b, err := d.readFull(int64(n))
	if err != nil {
		return "", err
	}
	return decodeMUTF8(b)
}

func (d *Decoder) readPrimitive(t byte) (any, error) {
	switch t {
	case 'B':
		b, err := d.readByte()
		return int8(b), err
	case 'Z':
		b, err := d.readByte()
		return b != 0, err
	case 'C':
		v, err := d.readUint16()
		return v, err
	case 'S':
		v, err := d.readUint16()
		return int16(v), err
	case 'I':
		return d.readInt32()
	case 'J':
		return d.readInt64()
	case 'F':
		v, err := d.readInt32()
		return math.Float32frombits(uint32(v)), err
	case 'D':
		v, err := d.readInt64()
		return math.Float64frombits(uint64(v)), err
	}
	return nil, fmt.Errorf("invalid primitive type code %q", t)
}

// ---- handles ----

func (d *Decoder) newHandle(v any) int {
	d.handles = append(d.handles, v)
	return len(d.handles) - 1
}

func (d *Decoder) setHandle(h int, v any) {
	d.handles[h] = v
}

func (d *Decoder) lookup(h int32) (any, error) {
	idx := int(h - baseHandle)
	if idx < 0 || idx >= len(d.handles) {
		return nil, fmt.Errorf("invalid handle 0x%x", h)
	}
	return d.handles[idx], nil
}

func (d *Decoder) countRef() error {
	d.refs++
	return d.guard.CheckRefs(d.refs)
}

// ---- content ----

func (d *Decoder) readContent(allowBlock bool) (any, error) {
	d.depth++
	defer func() { d.depth-- }()
	if err := d.guard.CheckDepth(d.depth); err != nil {
		return nil, err
	}

	for {
		tc, err := d.readByte()
		if err != nil {
			return nil, err
		}
		if tc != tcNull && tc != tcReset {
			if err := d.countRef(); err != nil {
				return nil, err
			}
		}

		switch tc {
		case tcNull:
			return nil, nil
		case tcReset:
			d.handles = d.handles[:0]
			continue
		case tcReference:
			h, err := d.readInt32()
			if err != nil {
				return nil, err
			}
			return d.lookup(h)
		case tcClassDesc, tcProxyClassDesc:
			d.unreadByte(tc)
			return d.readClassDesc()
		case tcObject:
			return d.readObject()
		case tcString:
			n, err := d.readUint16()
			if err != nil {
				return nil, err
			}
			return d.readString(int64(n))
		case tcLongString:
			n, err := d.readInt64()
			if err != nil {
				return nil, err
			}
			return d.readString(n)
		case tcArray:
			return d.readArray()
		case tcEnum:
			return d.readEnum()
		case tcClass:
			desc, err := d.readClassDesc()
			if err != nil {
				return nil, err
			}
			c := &Class{Desc: desc}
			d.newHandle(c)
			return c, nil
		case tcBlockData, tcBlockDataLong:
			if !allowBlock {
				return nil, errors.New("unexpected block data")
			}
			var n int64
			if tc == tcBlockData {
				b, err := d.readByte()
				if err != nil {
					return nil, err
				}
				n = int64(b)
			} else {
				v, err := d.readInt32()
				if err != nil {
					return nil, err
				}
				n = int64(v)
			}
			b, err := d.readFull(n)
			if err != nil {
				return nil, err
			}
			return BlockData(b), nil
		case tcEndBlockData:
			if !allowBlock {
				return nil, errors.New("unexpected end of block data")
			}
			return nil, errEndBlock
		case tcException:
			return nil, errors.New("stream contains a serialized exception")
		default:
			return nil, fmt.Errorf("unknown type code 0x%02x", tc)
		}
	}
}

func (d *Decoder) readString(n int64) (string, error) {
	b, err := d.readFull(n)
	if err != nil {
		return "", err
	}
	s, err := decodeMUTF8(b)
	if err != nil {
		return "", err
	}
	d.newHandle(s)
	return s, nil
}

// readClassDesc reads TC_CLASSDESC, TC_PROXYCLASSDESC, TC_NULL or TC_REFERENCE.
func (d *Decoder) readClassDesc() (*ClassDesc, error) {
	tc, err := d.readByte()
	if err != nil {
		return nil, err
	}
	switch tc {
	case tcNull:
		return nil, nil
	case tcReference:
		h, err := d.readInt32()
		if err != nil {
			return nil, err
		}
		v, err := d.lookup(h)
		if err != nil {
			return nil, err
		}
		desc, ok := v.(*ClassDesc)
		if !ok {
			return nil, fmt.Errorf("handle 0x%x is %T, not a class descriptor", h, v)
		}
		return desc, nil
	case tcProxyClassDesc:
		return nil, d.rejectProxy()
	case tcClassDesc:
	default:
		return nil, fmt.Errorf("expected class descriptor, got 0x%02x", tc)
	}

	desc := &ClassDesc{}
	d.newHandle(desc)
	d.building = append(d.building, desc)
	defer func() { d.building = d.building[:len(d.building)-1] }()
	if err := d.guard.CheckDepth(len(d.building)); err != nil {
		return nil, err
	}

	if desc.Name, err = d.readUTF(); err != nil {
		return nil, err
	}
	if err := d.guard.Check(desc.Name); err != nil {
		return nil, err
	}
	if desc.SUID, err = d.readInt64(); err != nil {
		return nil, err
	}
	if desc.Flags, err = d.readByte(); err != nil {
		return nil, err
	}
	count, err := d.readUint16()
	if err != nil {
		return nil, err
	}
	desc.Fields = make([]Field, 0, count)
	for i := 0; i < int(count); i++ {
		f, err := d.readFieldDesc()
		if err != nil {
			return nil, fmt.Errorf("%s field %d: %w", desc.Name, i, err)
		}
		desc.Fields = append(desc.Fields, f)
	}
	if desc.Annotations, err = d.readAnnotations(); err != nil {
		return nil, err
	}
	super, err := d.readClassDesc()
	if err != nil {
		return nil, err
	}
	if err := d.checkSuper(desc, super); err != nil {
		return nil, err
	}
	desc.Super = super
	return desc, nil
}

// checkSuper refuses a superclass chain that loops back into a descriptor
// still being read, and bounds the chain length by the depth limit.
// Finished descriptors always have finite chains, so the walk ends.
func (d *Decoder) checkSuper(desc, super *ClassDesc) error {
	length := 1
	for cur := super; cur != nil; cur = cur.Super {
		if slices.Contains(d.building, cur) {
			return fmt.Errorf("%w: %s extends %s", ErrCyclicClass, desc.Name, cur.Name)
		}
		length++
		if err := d.guard.CheckDepth(length); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) readFieldDesc() (Field, error) {
	t, err := d.readByte()
	if err != nil {
		return Field{}, err
	}
	name, err := d.readUTF()
	if err != nil {
		return Field{}, err
	}
	f := Field{Type: t, Name: name}
	switch t {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z':
		return f, nil
	case 'L', '[':
		v, err := d.readContent(false)
		if err != nil {
			return Field{}, err
		}
		s, ok := v.(string)
		if !ok {
			return Field{}, fmt.Errorf("field %q: type name is %T", name, v)
		}
		f.ClassName = s
		return f, nil
	}
	return Field{}, fmt.Errorf("field %q: invalid type code %q", name, t)
}

// rejectProxy reads the interface list of a dynamic proxy and refuses it.
func (d *Decoder) rejectProxy() error {
	n, err := d.readInt32()
	if err != nil {
		return err
	}
	if n < 0 || n > 65535 {
		return fmt.Errorf("invalid proxy interface count %d", n)
	}
	names := make([]string, 0, n)
	for i := int32(0); i < n; i++ {
		s, err := d.readUTF()
		if err != nil {
			return err
		}
		names = append(names, s)
	}
	return &guard.BlockedClassError{Class: "proxy(" + strings.Join(names, ",") + ")"}
}

// readAnnotations reads contents up to TC_ENDBLOCKDATA.
func (d *Decoder) readAnnotations() ([]any, error) {
	var out []any
	for {
		v, err := d.readContent(true)
		if errors.Is(err, errEndBlock) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}

func (d *Decoder) readObject() (*Object, error) {
	desc, err := d.readClassDesc()
	if err != nil {
		return nil, err
	}
	if desc == nil {
		return nil, errors.New("object with null class descriptor")
	}
	obj := &Object{Class: desc}
	d.newHandle(obj)

	if desc.IsExternalizable() {
		if desc.Flags&ScBlockData == 0 {
			return nil, fmt.Errorf("%s: externalizable data without block mode is not supported", desc.Name)
		}
		ann, err := d.readAnnotations()
		if err != nil {
			return nil, err
		}
		obj.Data = []*ClassData{{Desc: desc, Annotations: ann}}
		return obj, nil
	}

	for _, cd := range desc.Hierarchy() {
		data := &ClassData{Desc: cd, Values: make([]any, len(cd.Fields))}
		for i, f := range cd.Fields {
			if !f.IsPrimitive() {
				continue
			}
			if data.Values[i], err = d.readPrimitive(f.Type); err != nil {
				return nil, fmt.Errorf("%s.%s: %w", cd.Name, f.Name, err)
			}
		}
		for i, f := range cd.Fields {
			if f.IsPrimitive() {
				continue
			}
			if data.Values[i], err = d.readContent(false); err != nil {
				return nil, fmt.Errorf("%s.%s: %w", cd.Name, f.Name, err)
			}
		}
		if cd.HasWriteMethod() {
			if data.Annotations, err = d.readAnnotations(); err != nil {
				return nil, fmt.Errorf("%s annotations: %w", cd.Name, err)
			}
		}
		obj.Data = append(obj.Data, data)
	}
	return obj, nil
}

func (d *Decoder) readArray() (*Array, error) {
	desc, err := d.readClassDesc()
	if err != nil {
		return nil, err
	}
	if desc == nil || len(desc.Name) < 2 || desc.Name[0] != '[' {
		return nil, errors.New("array with invalid class descriptor")
	}
	arr := &Array{Class: desc}
	d.newHandle(arr)

	n, err := d.readInt32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("negative array length %d", n)
	}
	arr.Elems = make([]any, 0, min(int(n), 1024))
	elem := desc.Name[1]
	for i := int32(0); i < n; i++ {
		var v any
		if elem == 'L' || elem == '[' {
			v, err = d.readContent(false)
		} else {
			v, err = d.readPrimitive(elem)
		}
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", desc.Name, i, err)
		}
		arr.Elems = append(arr.Elems, v)
	}
	return arr, nil
}

func (d *Decoder) readEnum() (*Enum, error) {
	desc, err := d.readClassDesc()
	if err != nil {
		return nil, err
	}
	e := &Enum{Class: desc}
	h := d.newHandle(e)
	v, err := d.readContent(false)
	if err != nil {
		return nil, err
	}
	name, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("enum constant is %T", v)
	}
	e.Constant = name
	d.setHandle(h, e)
	return e, nil
}

func eof(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
