package types

import (
	"fmt"
	"strconv"

	"svcore/internal/source"
	"svcore/internal/typeerr"
)

// Precision selects the floating point flavour of a Real.
type Precision uint8

const (
	PrecisionReal Precision = iota
	PrecisionRealtime
	PrecisionShortreal
)

func (p Precision) String() string {
	switch p {
	case PrecisionReal:
		return "real"
	case PrecisionRealtime:
		return "realtime"
	case PrecisionShortreal:
		return "shortreal"
	default:
		return fmt.Sprintf("Precision(%d)", p)
	}
}

// Wide reports whether the precision is double width.
func (p Precision) Wide() bool { return p != PrecisionShortreal }

// Real is a floating point type. shortreal values are stored rounded to
// single precision.
type Real struct {
	decl
	precision Precision
	value     *float64
}

func NewReal(name string, origin *source.Origin, precision Precision) *Real {
	return &Real{decl: declOf(name, origin), precision: precision}
}

func (t *Real) Kind() Kind           { return KindReal }
func (t *Real) Precision() Precision { return t.precision }
func (t *Real) HasValue() bool       { return t.value != nil }

// Set stores x, rounding it for shortreal.
func (t *Real) Set(x float64) {
	if !t.precision.Wide() {
		x = float64(float32(x))
	}
	t.value = &x
}

func (t *Real) Float64() (float64, error) {
	if t.value == nil {
		return 0, uninitialized("real_value", t.origin, t.label(t.precision.String()))
	}
	return *t.value, nil
}

func (t *Real) Clear() { t.value = nil }

func (t *Real) String() string { return t.label(t.precision.String()) }

// Void is the absence of a value.
type Void struct {
	decl
}

func NewVoid(name string, origin *source.Origin) *Void {
	return &Void{decl: declOf(name, origin)}
}

func (t *Void) Kind() Kind     { return KindVoid }
func (t *Void) String() string { return t.label("void") }

// Chandle holds an opaque pointer-sized value owned by foreign code.
type Chandle struct {
	decl
	value *uintptr
}

func NewChandle(name string, origin *source.Origin) *Chandle {
	return &Chandle{decl: declOf(name, origin)}
}

func (t *Chandle) Kind() Kind     { return KindChandle }
func (t *Chandle) HasValue() bool { return t.value != nil }
func (t *Chandle) Set(h uintptr)  { t.value = &h }
func (t *Chandle) Clear()         { t.value = nil }

func (t *Chandle) Handle() (uintptr, error) {
	if t.value == nil {
		return 0, uninitialized("chandle_value", t.origin, t.label("chandle"))
	}
	return *t.value, nil
}

// IsNull reports whether the handle holds the null value. An unset handle is
// not null, it is uninitialized.
func (t *Chandle) IsNull() bool { return t.value != nil && *t.value == 0 }

func (t *Chandle) String() string { return t.label("chandle") }

// ClassHandle references a class object. Objects live outside this layer;
// the zero handle is null.
type ClassHandle uint64

// NullHandle is the class handle that refers to no object.
const NullHandle ClassHandle = 0

// Class is a class handle type. Only its identifier distinguishes it.
type Class struct {
	decl
	value *ClassHandle
}

func NewClass(name string, origin *source.Origin) *Class {
	return &Class{decl: declOf(name, origin)}
}

func (t *Class) Kind() Kind        { return KindClass }
func (t *Class) HasValue() bool    { return t.value != nil }
func (t *Class) Set(h ClassHandle) { t.value = &h }
func (t *Class) Clear()            { t.value = nil }
func (t *Class) IsNull() bool      { return t.value != nil && *t.value == NullHandle }
func (t *Class) String() string    { return t.label("class") }

func (t *Class) Handle() (ClassHandle, error) {
	if t.value == nil {
		return NullHandle, uninitialized("class_value", t.origin, t.label("class"))
	}
	return *t.value, nil
}

// String is a variable length byte string.
type String struct {
	decl
	value *stringValue
}

type stringValue struct {
	bytes []byte
}

func NewString(name string, origin *source.Origin) *String {
	return &String{decl: declOf(name, origin)}
}

func (t *String) Kind() Kind     { return KindString }
func (t *String) HasValue() bool { return t.value != nil }
func (t *String) Clear()         { t.value = nil }

// Set stores s. NUL bytes are dropped, a string never contains them.
func (t *String) Set(s string) {
	b := make([]byte, 0, len(s))
	for i := range len(s) {
		if s[i] != 0 {
			b = append(b, s[i])
		}
	}
	t.value = &stringValue{bytes: b}
}

func (t *String) Value() (string, error) {
	if t.value == nil {
		return "", uninitialized("string_value", t.origin, t.label("string"))
	}
	return string(t.value.bytes), nil
}

func (t *String) Len() (int, error) {
	if t.value == nil {
		return 0, uninitialized("string_len", t.origin, t.label("string"))
	}
	return len(t.value.bytes), nil
}

// At returns the i-th byte.
func (t *String) At(i int) (byte, error) {
	if t.value == nil {
		return 0, uninitialized("string_at", t.origin, t.label("string"))
	}
	if i < 0 || i >= len(t.value.bytes) {
		return 0, t.outOfRange("string_at", i)
	}
	return t.value.bytes[i], nil
}

// SetAt replaces the i-th byte. Writing 0 leaves the string unchanged.
func (t *String) SetAt(i int, c byte) error {
	if t.value == nil {
		return uninitialized("string_set", t.origin, t.label("string"))
	}
	if i < 0 || i >= len(t.value.bytes) {
		return t.outOfRange("string_set", i)
	}
	if c != 0 {
		t.value.bytes[i] = c
	}
	return nil
}

func (t *String) outOfRange(op string, i int) error {
	return typeerr.New(typeerr.KindIndexOutOfRange).
		Op(op).
		At(t.origin).
		Detail("index %d outside string of length %d", i, len(t.value.bytes)).
		Build()
}

func (t *String) String() string { return t.label("string") }

// Quote renders the held value as a SystemVerilog literal.
func (t *String) Quote() string {
	if t.value == nil {
		return "<uninitialized>"
	}
	return strconv.Quote(string(t.value.bytes))
}

func uninitialized(op string, origin *source.Origin, what string) error {
	return typeerr.New(typeerr.KindUninitializedValue).Op(op).At(origin).Detail("%s", what).Build()
}
