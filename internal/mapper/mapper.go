// Package mapper reads and writes named slots on save-format records whose
// field names vary between builds. Every write tries an ordered list of
// candidate names and coerces the value to the slot's type.
package mapper

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/ryanadelino-stack/compiler-api/internal/serial"
)

// Record is a keyed view over one object of the target schema. Slot lookup
// covers the whole class hierarchy, most-derived class first.
type Record interface {
	// SlotType returns the type code (B C D F I J S Z L [) and, for
	// reference slots, the type signature.
	SlotType(name string) (typ byte, sig string, ok bool)
	SlotValue(name string) (any, bool)
	// SetSlot stores a value that already has the slot's Go type.
	SetSlot(name string, v any) error
}

// Result describes the outcome of a Set.
type Result struct {
	Slot string // slot written, empty on a miss
	Miss bool
}

// Mapper applies values through candidate names. It holds no per-record
// state and is safe for concurrent use.
type Mapper struct {
	log *slog.Logger
}

// New creates a mapper. A nil logger means slog.Default().
func New(log *slog.Logger) *Mapper {
	if log == nil {
		log = slog.Default()
	}
	return &Mapper{log: log}
}

// Set writes value into the first candidate slot that exists and accepts
// it. A miss is logged at debug level and reported in the result, never as
// an error.
func (m *Mapper) Set(target Record, value any, names ...string) Result {
	for _, name := range names {
		typ, sig, ok := target.SlotType(name)
		if !ok {
			continue
		}
		v, ok := Coerce(value, typ, sig)
		if !ok {
			m.log.Debug("slot rejected value", "slot", name, "type", string(typ), "value", value)
			continue
		}
		if err := target.SetSlot(name, v); err != nil {
			m.log.Debug("slot write failed", "slot", name, "error", err)
			continue
		}
		return Result{Slot: name}
	}
	m.log.Debug("no slot matched", "candidates", names)
	return Result{Miss: true}
}

// Get returns the value of the first candidate slot that exists.
func (m *Mapper) Get(target Record, names ...string) (any, bool) {
	for _, name := range names {
		if v, ok := target.SlotValue(name); ok {
			return v, true
		}
	}
	return nil, false
}

// GetInt returns the first candidate slot value converted to int.
func (m *Mapper) GetInt(target Record, names ...string) (int, bool) {
	v, ok := m.Get(target, names...)
	if !ok {
		return 0, false
	}
	n, ok := toInt64(v)
	return int(n), ok
}

// Has reports whether any candidate slot exists.
func (m *Mapper) Has(target Record, names ...string) bool {
	for _, name := range names {
		if _, _, ok := target.SlotType(name); ok {
			return true
		}
	}
	return false
}

// Coerce converts v to the Go type stored in a slot of type typ. The second
// result is false when no sensible conversion exists or v is nil for a
// primitive slot.
func Coerce(v any, typ byte, sig string) (any, bool) {
	switch typ {
	case 'I':
		n, ok := toInt64(v)
		return int32(n), ok
	case 'J':
		n, ok := toInt64(v)
		return n, ok
	case 'S':
		n, ok := toInt64(v)
		return int16(n), ok
	case 'B':
		n, ok := toInt64(v)
		return int8(n), ok
	case 'C':
		if s, ok := v.(string); ok {
			r := []rune(s)
			if len(r) == 1 && r[0] <= math.MaxUint16 {
				return uint16(r[0]), true
			}
			return nil, false
		}
		n, ok := toInt64(v)
		return uint16(n), ok
	case 'D':
		f, ok := toFloat64(v)
		return f, ok
	case 'F':
		f, ok := toFloat64(v)
		return float32(f), ok
	case 'Z':
		return toBool(v)
	case 'L':
		if code, ok := serial.BoxedCode(sig); ok {
			if v == nil {
				return nil, true
			}
			return Coerce(v, code, "")
		}
		if sig == serial.StringSig {
			if v == nil {
				return nil, true
			}
			return Text(v), true
		}
		switch v.(type) {
		case string:
			return v, serial.AcceptsString(sig)
		case bool, int, int8, int16, int32, int64, uint16, float32, float64, json.Number:
			return nil, false
		}
		return v, true
	case '[':
		return v, true
	}
	return nil, false
}

// Text renders a value in its canonical text form.
func Text(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}

func toInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint16:
		return int64(x), true
	case float32:
		return truncate(float64(x))
	case float64:
		return truncate(x)
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n, true
		}
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		return truncate(f)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		return n, err == nil
	}
	return 0, false
}

func truncate(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(f), true
}

func toFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	}
	n, ok := toInt64(v)
	return float64(n), ok
}

var boolWords = map[string]bool{
	"yes": true, "y": true, "sim": true, "s": true, "on": true,
	"no": false, "n": false, "nao": false, "não": false, "off": false,
}

func toBool(v any) (any, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		w := strings.ToLower(strings.TrimSpace(x))
		if b, ok := boolWords[w]; ok {
			return b, true
		}
		b, err := strconv.ParseBool(w)
		if err != nil {
			return nil, false
		}
		return b, true
	case nil:
		return nil, false
	}
	if n, ok := toInt64(v); ok {
		return n != 0, true
	}
	return nil, false
}
