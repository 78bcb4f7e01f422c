package value

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"math"
	"time"
)

// Value is a single cell value from a flux query result after type coercion.
// Values are immutable once constructed; Equal is structural and values of
// different kinds are never equal (Long(42) != UnsignedLong(42)).
type Value interface {
	isValue()
	Equal(v Value) bool
	String() string
	Clone() Value
}

var _ Value = String("")
var _ Value = Double(0)
var _ Value = Bool(true)
var _ Value = Long(0)
var _ Value = UnsignedLong(0)
var _ Value = Duration(0)
var _ Value = Binary(nil)
var _ Value = Time{}
var _ Value = nil_{}

type String string

func (s String) isValue() {}
func (s String) Equal(v Value) bool {
	switch v := v.(type) {
	case String:
		return v == s
	default:
		return false
	}
}
func (s String) String() string {
	return fmt.Sprintf("String(%s)", string(s))
}
func (s String) Clone() Value {
	return s
}

type Double float64

func (d Double) isValue() {}

// Equal compares bit patterns so that NaN equals NaN and decoding the same
// payload twice yields structurally equal records.
func (d Double) Equal(v Value) bool {
	switch v := v.(type) {
	case Double:
		return math.Float64bits(float64(v)) == math.Float64bits(float64(d))
	default:
		return false
	}
}
func (d Double) String() string {
	return fmt.Sprintf("Double(%v)", float64(d))
}
func (d Double) Clone() Value {
	return d
}

type Bool bool

func (b Bool) isValue() {}
func (b Bool) Equal(v Value) bool {
	switch v := v.(type) {
	case Bool:
		return v == b
	default:
		return false
	}
}
func (b Bool) String() string {
	return fmt.Sprintf("Bool(%v)", bool(b))
}
func (b Bool) Clone() Value {
	return b
}

type Long int64

func (l Long) isValue() {}
func (l Long) Equal(v Value) bool {
	switch v := v.(type) {
	case Long:
		return v == l
	default:
		return false
	}
}
func (l Long) String() string {
	return fmt.Sprintf("Long(%v)", int64(l))
}
func (l Long) Clone() Value {
	return l
}

type UnsignedLong uint64

func (u UnsignedLong) isValue() {}
func (u UnsignedLong) Equal(v Value) bool {
	switch v := v.(type) {
	case UnsignedLong:
		return v == u
	default:
		return false
	}
}
func (u UnsignedLong) String() string {
	return fmt.Sprintf("UnsignedLong(%v)", uint64(u))
}
func (u UnsignedLong) Clone() Value {
	return u
}

// Duration is a span of time in nanoseconds.
type Duration time.Duration

func (d Duration) isValue() {}
func (d Duration) Equal(v Value) bool {
	switch v := v.(type) {
	case Duration:
		return v == d
	default:
		return false
	}
}
func (d Duration) String() string {
	return fmt.Sprintf("Duration(%dns)", time.Duration(d).Nanoseconds())
}
func (d Duration) Clone() Value {
	return d
}

// Binary is raw bytes decoded from a base64Binary column.
type Binary []byte

func (b Binary) isValue() {}
func (b Binary) Equal(v Value) bool {
	switch v := v.(type) {
	case Binary:
		return bytes.Equal(v, b)
	default:
		return false
	}
}
func (b Binary) String() string {
	return fmt.Sprintf("Binary(%s)", base64.StdEncoding.EncodeToString(b))
}
func (b Binary) Clone() Value {
	clone := make([]byte, len(b))
	copy(clone, b)
	return Binary(clone)
}

// Time is an RFC3339 instant with its numeric UTC offset preserved from the
// wire form.
type Time struct {
	T time.Time
}

func NewTime(t time.Time) Time {
	return Time{T: t}
}

func (t Time) isValue() {}

// Equal compares instants; two timestamps naming the same moment in
// different offsets are equal.
func (t Time) Equal(v Value) bool {
	switch v := v.(type) {
	case Time:
		return v.T.Equal(t.T)
	default:
		return false
	}
}
func (t Time) String() string {
	return fmt.Sprintf("Time(%s)", t.T.Format(time.RFC3339Nano))
}
func (t Time) Clone() Value {
	return t
}

type nil_ struct{}

// Nil is the null cell value.
var Nil = nil_{}

func (n nil_) isValue() {}
func (n nil_) Equal(v Value) bool {
	switch v.(type) {
	case nil_:
		return true
	default:
		return false
	}
}
func (n nil_) String() string {
	return "Nil"
}
func (n nil_) Clone() Value {
	return Nil
}
