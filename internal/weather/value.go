package weather

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindNumber
	KindString
	KindBool
	KindTime
	KindList
	KindRecord
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	case KindList:
		return "list"
	case KindRecord:
		return "record"
	default:
		return "unknown"
	}
}

// Value is a single member of a Record: a scalar, a point in time, a list
// of values or a nested group of variables.
type Value struct {
	kind Kind
	num  float64
	str  string
	b    bool
	t    time.Time
	list []Value
	rec  *Record
}

func Null() Value { return Value{} }
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }
func String(s string) Value { return Value{kind: KindString, str: s} }
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }
func TimeValue(t time.Time) Value { return Value{kind: KindTime, t: t} }
func ListValue(vs []Value) Value { return Value{kind: KindList, list: vs} }
func RecordValue(r *Record) Value { return Value{kind: KindRecord, rec: r} }

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }
func (v Value) IsGroup() bool { return v.kind == KindRecord }

// Float returns the numeric value, if v is a number.
func (v Value) Float() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Text returns the string value, if v is a string.
func (v Value) Text() (string, bool) {
	return v.str, v.kind == KindString
}

// BoolValue returns the boolean value, if v is a bool.
func (v Value) BoolValue() (bool, bool) {
	return v.b, v.kind == KindBool
}

// Time returns the point in time, if v holds one.
func (v Value) Time() (time.Time, bool) {
	return v.t, v.kind == KindTime
}

// List returns the elements, if v is a list.
func (v Value) List() ([]Value, bool) {
	return v.list, v.kind == KindList
}

// Record returns the nested group, if v is one.
func (v Value) Record() (*Record, bool) {
	return v.rec, v.kind == KindRecord
}

// Interface converts v to plain Go values: nil, float64, string, bool,
// time.Time, []any or map[string]any for nested groups.
func (v Value) Interface() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindString:
		return v.str
	case KindBool:
		return v.b
	case KindTime:
		return v.t
	case KindList:
		out := make([]any, len(v.list))
		for i, e := range v.list {
			out[i] = e.Interface()
		}
		return out
	case KindRecord:
		out := make(map[string]any, v.rec.Len())
		for _, name := range v.rec.Members() {
			out[name] = v.rec.members[name].Interface()
		}
		return out
	default:
		return nil
	}
}

// Equal reports whether two values hold the same variant and content.
// Nested groups compare by identity.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindNumber:
		return v.num == o.num
	case KindString:
		return v.str == o.str
	case KindBool:
		return v.b == o.b
	case KindTime:
		return v.t.Equal(o.t)
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	default:
		return v.rec == o.rec
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindString:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindTime:
		return v.t.Format(time.RFC3339)
	case KindList:
		parts := make([]string, len(v.list))
		for i, e := range v.list {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return v.rec.String()
	}
}

// valueOf converts a decoded JSON scalar into a Value.
func valueOf(raw any) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return Null(), nil
	case float64:
		return Number(x), nil
	case string:
		return String(x), nil
	case bool:
		return Bool(x), nil
	default:
		return Value{}, fmt.Errorf("%w: unexpected value of type %T", ErrInvalidPayload, raw)
	}
}
