// Package sqlvalue defines the tagged value type columns use to talk to
// their callers. It deliberately knows nothing about columns, RowMaps, or
// storage — it is the sole value-level interchange type at that boundary.
package sqlvalue

import "fmt"

// Type is the observable tag of a Value.
type Type uint8

const (
	TypeNull Type = iota
	TypeLong
	TypeDouble
	TypeString
)

func (t Type) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeLong:
		return "long"
	case TypeDouble:
		return "double"
	case TypeString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is a sum type over {Null, Long(int64), Double(float64), String}.
// The column engine only ever produces Null, Long or String; Double exists
// so the type is a faithful external interchange type for hosts that need
// it (e.g. a future aggregate layer), per spec §6.
type Value struct {
	typ    Type
	long   int64
	double float64
	str    string
}

// Null is the SQL null value. It compares unequal to every value,
// including itself.
func Null() Value { return Value{typ: TypeNull} }

// Long wraps a 64-bit signed integer.
func Long(v int64) Value { return Value{typ: TypeLong, long: v} }

// Double wraps a 64-bit float.
func Double(v float64) Value { return Value{typ: TypeDouble, double: v} }

// String wraps a UTF-8 string.
func String(v string) Value { return Value{typ: TypeString, str: v} }

// Type returns the value's tag.
func (v Value) Type() Type { return v.typ }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.typ == TypeNull }

// Long returns the wrapped long. Precondition: Type() == TypeLong.
func (v Value) Long() int64 { return v.long }

// Double returns the wrapped double. Precondition: Type() == TypeDouble.
func (v Value) Double() float64 { return v.double }

// Str returns the wrapped string. Precondition: Type() == TypeString.
func (v Value) Str() string { return v.str }

// Equal implements SQL equality semantics: null never equals anything,
// including another null. Non-null values are equal only when their tag
// and content both match.
func (v Value) Equal(other Value) bool {
	if v.typ == TypeNull || other.typ == TypeNull {
		return false
	}
	if v.typ != other.typ {
		return false
	}
	switch v.typ {
	case TypeLong:
		return v.long == other.long
	case TypeDouble:
		return v.double == other.double
	case TypeString:
		return v.str == other.str
	default:
		return false
	}
}

func (v Value) String() string {
	switch v.typ {
	case TypeNull:
		return "NULL"
	case TypeLong:
		return fmt.Sprintf("%d", v.long)
	case TypeDouble:
		return fmt.Sprintf("%g", v.double)
	case TypeString:
		return v.str
	default:
		return "<invalid>"
	}
}
