package serial

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanadelino-stack/compiler-api/internal/guard"
)

// new ArrayList<>(List.of("a")) as written by ObjectOutputStream.
var arrayListOfA = []byte{
	0xAC, 0xED, 0x00, 0x05,
	0x73, 0x72, 0x00, 0x13,
	'j', 'a', 'v', 'a', '.', 'u', 't', 'i', 'l', '.', 'A', 'r', 'r', 'a', 'y', 'L', 'i', 's', 't',
	0x78, 0x81, 0xD2, 0x1D, 0x99, 0xC7, 0x61, 0x9D,
	0x03, 0x00, 0x01,
	'I', 0x00, 0x04, 's', 'i', 'z', 'e',
	0x78, 0x70,
	0x00, 0x00, 0x00, 0x01,
	0x77, 0x04, 0x00, 0x00, 0x00, 0x01,
	0x74, 0x00, 0x01, 'a',
	0x78,
}

func listDesc() *ClassDesc {
	return &ClassDesc{
		Name:   ArrayListClass,
		SUID:   8683452581122892189,
		Flags:  ScWriteMethod | ScSerializable,
		Fields: []Field{{Type: 'I', Name: "size"}},
	}
}

func colorDesc() *ClassDesc {
	return &ClassDesc{
		Name:  ColorClass,
		SUID:  118526816881161077,
		Flags: ScSerializable,
		Fields: []Field{
			{Type: 'F', Name: "falpha"},
			{Type: 'I', Name: "value"},
			{Type: 'L', Name: "cs", ClassName: "Ljava/awt/color/ColorSpace;"},
			{Type: '[', Name: "frgbvalue", ClassName: "[F"},
			{Type: '[', Name: "fvalue", ClassName: "[F"},
		},
	}
}

func playerDesc() *ClassDesc {
	return &ClassDesc{
		Name:  "e.g",
		SUID:  16,
		Flags: ScSerializable,
		Fields: []Field{
			{Type: 'I', Name: "c"},
			{Type: 'I', Name: "d"},
			{Type: 'Z', Name: "j"},
			{Type: 'L', Name: "a", ClassName: StringSig},
		},
	}
}

func teamDesc() *ClassDesc {
	return &ClassDesc{
		Name:  "e.t",
		SUID:  1,
		Flags: ScSerializable,
		Fields: []Field{
			{Type: 'I', Name: "id"},
			{Type: 'Z', Name: "valid"},
			{Type: 'L', Name: "cor1", ClassName: "Ljava/awt/Color;"},
			{Type: 'L', Name: "l", ClassName: "Ljava/util/ArrayList;"},
			{Type: 'L', Name: "m", ClassName: "Ljava/util/ArrayList;"},
			{Type: 'L', Name: "nome", ClassName: StringSig},
		},
	}
}

func buildTeam(t *testing.T, names ...string) *Object {
	t.Helper()
	pd, ld := playerDesc(), listDesc()
	var players []any
	for i, n := range names {
		p := NewObject(pd)
		require.NoError(t, p.SetSlot("a", n))
		require.NoError(t, p.SetSlot("d", int32(20+i)))
		require.NoError(t, p.SetSlot("j", i%2 == 0))
		players = append(players, p)
	}
	seniors, err := NewArrayList(ld, players)
	require.NoError(t, err)
	juniors, err := NewArrayList(ld, nil)
	require.NoError(t, err)
	white, err := NewColor(colorDesc(), ColorWhite)
	require.NoError(t, err)

	team := NewObject(teamDesc())
	require.NoError(t, team.SetSlot("id", int32(42)))
	require.NoError(t, team.SetSlot("valid", true))
	require.NoError(t, team.SetSlot("nome", "Palmeiras"))
	require.NoError(t, team.SetSlot("cor1", white))
	require.NoError(t, team.SetSlot("l", seniors))
	require.NoError(t, team.SetSlot("m", juniors))
	return team
}

func TestDecodeJavaArrayList(t *testing.T) {
	v, err := Decode(bytes.NewReader(arrayListOfA), nil)
	require.NoError(t, err)

	elems, ok := ListElements(v)
	require.True(t, ok, spew.Sdump(v))
	assert.Equal(t, []any{"a"}, elems)

	size, ok := v.(*Object).SlotValue("size")
	require.True(t, ok)
	assert.Equal(t, int32(1), size)
}

func TestEncodeMatchesJavaBytes(t *testing.T) {
	list, err := NewArrayList(listDesc(), []any{"a"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, list))
	assert.Equal(t, arrayListOfA, buf.Bytes())
}

func TestRoundTripTeam(t *testing.T) {
	team := buildTeam(t, "Ana", "Bia", "Ana")

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, team))

	v, err := Decode(&buf, nil)
	require.NoError(t, err)
	got, ok := v.(*Object)
	require.True(t, ok)
	assert.Equal(t, "e.t", got.ClassName())

	name, _ := got.SlotValue("nome")
	assert.Equal(t, "Palmeiras", name)
	id, _ := got.SlotValue("id")
	assert.Equal(t, int32(42), id)

	cor1, _ := got.SlotValue("cor1")
	argb, ok := ColorARGB(cor1)
	require.True(t, ok)
	assert.Equal(t, ColorWhite, argb)
	assert.Equal(t, "#ffffff", HexColor(cor1))

	l, _ := got.SlotValue("l")
	players, ok := ListElements(l)
	require.True(t, ok)
	require.Len(t, players, 3)

	first := players[0].(*Object)
	second := players[1].(*Object)
	assert.Same(t, first.Class, second.Class, "player descriptor should be shared by reference")

	for i, want := range []string{"Ana", "Bia", "Ana"} {
		p := players[i].(*Object)
		n, _ := p.SlotValue("a")
		assert.Equal(t, want, n)
		age, _ := p.SlotValue("d")
		assert.Equal(t, int32(20+i), age)
	}

	m, _ := got.SlotValue("m")
	juniors, ok := ListElements(m)
	require.True(t, ok)
	assert.Empty(t, juniors)
}

func TestRoundTripIsStable(t *testing.T) {
	var first bytes.Buffer
	require.NoError(t, Encode(&first, buildTeam(t, "Ana", "Bia")))

	v, err := Decode(bytes.NewReader(first.Bytes()), nil)
	require.NoError(t, err)

	var second bytes.Buffer
	require.NoError(t, Encode(&second, v))
	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestDecodeBlockedClass(t *testing.T) {
	evil := &ClassDesc{Name: "com.evil.Gadget", SUID: 7, Flags: ScSerializable}
	team := buildTeam(t, "Ana")
	l, _ := team.SlotValue("l")
	require.NoError(t, SetListElements(l.(*Object), []any{NewObject(evil)}))

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, team))

	_, err := Decode(&buf, nil)
	var blocked *guard.BlockedClassError
	require.True(t, errors.As(err, &blocked), "got %v", err)
	assert.Equal(t, "com.evil.Gadget", blocked.Class)
}

func TestDecodeRejectsProxy(t *testing.T) {
	stream := []byte{
		0xAC, 0xED, 0x00, 0x05,
		0x73, 0x7D,
		0x00, 0x00, 0x00, 0x01,
		0x00, 0x04, 'E', 'v', 'i', 'l',
	}
	_, err := Decode(bytes.NewReader(stream), nil)
	var blocked *guard.BlockedClassError
	require.True(t, errors.As(err, &blocked), "got %v", err)
	assert.Equal(t, "proxy(Evil)", blocked.Class)
}

func TestDecodeLimits(t *testing.T) {
	tests := []struct {
		name   string
		limits guard.Limits
		want   string
	}{
		{"depth", guard.Limits{MaxDepth: 1}, "maxdepth"},
		{"refs", guard.Limits{MaxRefs: 2}, "maxrefs"},
		{"bytes", guard.Limits{MaxBytes: 10}, "maxbytes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(bytes.NewReader(arrayListOfA), guard.New(nil, tt.limits))
			var exceeded *guard.ResourceExceededError
			require.True(t, errors.As(err, &exceeded), "got %v", err)
			assert.Equal(t, tt.want, exceeded.Limit)
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("{\"team\":1}")), nil)
	assert.ErrorIs(t, err, ErrNotStream)

	_, err = Decode(bytes.NewReader(arrayListOfA[:20]), nil)
	assert.Error(t, err)

	_, err = Decode(bytes.NewReader(nil), nil)
	assert.Error(t, err)
}

func TestSetSlotTypeChecks(t *testing.T) {
	p := NewObject(playerDesc())
	assert.Error(t, p.SetSlot("d", "twenty"))
	assert.Error(t, p.SetSlot("d", 20))
	assert.Error(t, p.SetSlot("a", int32(1)))
	assert.Error(t, p.SetSlot("missing", int32(1)))
	assert.NoError(t, p.SetSlot("a", nil))

	typ, sig, ok := p.SlotType("a")
	require.True(t, ok)
	assert.Equal(t, byte('L'), typ)
	assert.Equal(t, StringSig, sig)
}

func TestModifiedUTF8(t *testing.T) {
	for _, s := range []string{"", "Palmeiras", "São Paulo", "a\x00b", "gol \U0001F600"} {
		got, err := decodeMUTF8(encodeMUTF8(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	assert.Equal(t, []byte{'a', 0xC0, 0x80}, encodeMUTF8("a\x00"))

	_, err := decodeMUTF8([]byte{0xC3})
	assert.Error(t, err)
}

func TestLongStringAndBlockData(t *testing.T) {
	long := string(bytes.Repeat([]byte{'x'}, 70000))
	list, err := NewArrayList(listDesc(), []any{long})
	require.NoError(t, err)
	cd, _ := list.DataFor(ArrayListClass)
	cd.Annotations = append([]any{BlockData(bytes.Repeat([]byte{1}, 300))}, cd.Annotations...)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, list))

	v, err := Decode(&buf, nil)
	require.NoError(t, err)
	elems, ok := ListElements(v)
	require.True(t, ok)
	assert.Equal(t, []any{long}, elems)
}

// newDescBytes is a TC_CLASSDESC for a field-less serializable class, up to
// but not including its superclass descriptor.
func newDescBytes(name string) []byte {
	b := []byte{tcClassDesc, 0x00, byte(len(name))}
	b = append(b, name...)
	b = append(b, 0, 0, 0, 0, 0, 0, 0, 1, ScSerializable, 0x00, 0x00, tcEndBlockData)
	return b
}

func stream(parts ...[]byte) []byte {
	out := []byte{0xAC, 0xED, 0x00, 0x05}
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func TestDecodeRejectsCyclicSuperclass(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{
			"self",
			stream([]byte{tcObject}, newDescBytes("e.x"), []byte{tcReference, 0x00, 0x7E, 0x00, 0x00}),
		},
		{
			"through parent",
			stream([]byte{tcObject}, newDescBytes("e.x"), newDescBytes("e.y"), []byte{tcReference, 0x00, 0x7E, 0x00, 0x00}),
		},
		{
			"class literal",
			stream([]byte{tcClass}, newDescBytes("e.x"), newDescBytes("e.y"), []byte{tcReference, 0x00, 0x7E, 0x00, 0x01}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(bytes.NewReader(tt.data), nil)
			assert.ErrorIs(t, err, ErrCyclicClass)
		})
	}
}

func TestDecodeSharedSuperclassIsNotACycle(t *testing.T) {
	// Two classes extending the same parent; the second refers to the
	// finished parent descriptor by handle.
	data := stream(
		[]byte{tcArray}, []byte{tcClassDesc, 0x00, 0x13},
		[]byte("[Ljava.lang.Object;"),
		[]byte{0, 0, 0, 0, 0, 0, 0, 2, ScSerializable, 0x00, 0x00, tcEndBlockData, tcNull},
		[]byte{0x00, 0x00, 0x00, 0x02},
		[]byte{tcObject}, newDescBytes("e.a"), newDescBytes("e.p"), []byte{tcNull},
		[]byte{tcObject}, newDescBytes("e.b"), []byte{tcReference, 0x00, 0x7E, 0x00, 0x03},
	)
	v, err := Decode(bytes.NewReader(data), nil)
	require.NoError(t, err)
	arr := v.(*Array)
	require.Len(t, arr.Elems, 2)
	a, b := arr.Elems[0].(*Object), arr.Elems[1].(*Object)
	assert.Same(t, a.Class.Super, b.Class.Super)
	assert.Len(t, b.Class.Hierarchy(), 2)
}

func TestDecodeBoundsSuperclassChain(t *testing.T) {
	parts := [][]byte{{tcObject}}
	for i := 0; i < 30; i++ {
		parts = append(parts, newDescBytes(fmt.Sprintf("e.c%02d", i)))
	}
	parts = append(parts, []byte{tcNull})

	_, err := Decode(bytes.NewReader(stream(parts...)), guard.New(nil, guard.Limits{MaxDepth: 20}))
	var exceeded *guard.ResourceExceededError
	require.True(t, errors.As(err, &exceeded), "got %v", err)
	assert.Equal(t, "maxdepth", exceeded.Limit)
}

func TestDecodeHugeDeclaredLength(t *testing.T) {
	payload := bytes.Repeat([]byte{'x'}, 64)
	for _, n := range []uint64{math.MaxInt64, math.MaxInt64 - 3, 6 << 20} {
		header := []byte{tcLongString, 0, 0, 0, 0, 0, 0, 0, 0}
		binary.BigEndian.PutUint64(header[1:], n)
		d := NewDecoder(bytes.NewReader(stream(header, payload)), nil)
		require.NoError(t, d.ReadHeader())

		_, err := d.ReadContent()
		var exceeded *guard.ResourceExceededError
		require.True(t, errors.As(err, &exceeded), "length %d: got %v", n, err)
		assert.Equal(t, "maxbytes", exceeded.Limit)
		assert.Positive(t, exceeded.Value)
		assert.LessOrEqual(t, d.BytesRead(), int64(13), "payload must not be consumed")
	}
}

func TestDecodeRejectsNegativeLengths(t *testing.T) {
	long := stream([]byte{tcLongString, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
	_, err := Decode(bytes.NewReader(long), nil)
	assert.ErrorContains(t, err, "negative length")
}

// Truncating a valid stream at every offset must fail cleanly.
func TestDecodeTruncatedStreams(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, buildTeam(t, "Ana", "Bia")))
	full := buf.Bytes()
	for i := 0; i < len(full); i++ {
		_, err := Decode(bytes.NewReader(full[:i]), nil)
		require.Error(t, err, "offset %d", i)
	}
}

func TestSetSlotReferenceTypes(t *testing.T) {
	team := NewObject(teamDesc())
	assert.Error(t, team.SetSlot("l", "not a list"))
	assert.Error(t, team.SetSlot("cor1", "#ffffff"))
	assert.Error(t, team.SetSlot("l", int32(3)))

	desc := &ClassDesc{
		Name:  "e.z",
		SUID:  3,
		Flags: ScSerializable,
		Fields: []Field{
			{Type: 'L', Name: "age", ClassName: "Ljava/lang/Integer;"},
			{Type: 'L', Name: "any", ClassName: "Ljava/lang/Object;"},
		},
	}
	o := NewObject(desc)
	require.NoError(t, o.SetSlot("age", int32(27)))
	require.NoError(t, o.SetSlot("any", "free text"))
	assert.Error(t, o.SetSlot("age", int64(27)))
	assert.Error(t, o.SetSlot("age", "27"))
	list, err := NewArrayList(listDesc(), nil)
	require.NoError(t, err)
	assert.Error(t, o.SetSlot("age", list))

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, o))
	v, err := Decode(&buf, nil)
	require.NoError(t, err)
	age, ok := v.(*Object).SlotValue("age")
	require.True(t, ok)
	assert.Equal(t, int32(27), age)
}
