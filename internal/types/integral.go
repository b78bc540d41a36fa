package types

import (
	"strings"

	"svcore/internal/layout"
	"svcore/internal/source"
	"svcore/internal/typeerr"
)

// Integral is a packed bit vector type, optionally holding a value.
//
// The value is bound to the shape it was materialized with, so bit access
// needs no target once a value exists.
type Integral struct {
	decl
	vec   layout.Vector
	shape *layout.Shape
	value *layout.Value
}

// NewIntegral declares an integral type with no value.
func NewIntegral(name string, origin *source.Origin, vec layout.Vector) *Integral {
	return &Integral{decl: declOf(name, origin), vec: vec}
}

func (t *Integral) Kind() Kind { return KindIntegral }

// Vector returns the structural description of the type.
func (t *Integral) Vector() layout.Vector { return t.vec }

func (t *Integral) FourState() bool { return t.vec.FourState }
func (t *Integral) Signed() bool    { return t.vec.Signed }
func (t *Integral) Sized() bool     { return t.vec.Sized }

// Shape lays the type out for target.
func (t *Integral) Shape(target layout.Target) (layout.Shape, error) {
	s, err := layout.Compute(target, t.vec)
	return s, typeerr.WithOrigin(err, t.origin)
}

// Bits is $bits of the type.
func (t *Integral) Bits() (uint64, error) {
	n, err := layout.BitsOf(t.vec)
	return n, typeerr.WithOrigin(err, t.origin)
}

// Rename copies the descriptor under a new identity, without its value.
func (t *Integral) Rename(name string, origin *source.Origin) *Integral {
	return NewIntegral(name, origin, t.vec)
}

// HasValue reports whether a value has been materialized.
func (t *Integral) HasValue() bool { return t.value != nil }

// Value returns a copy of the held value, nil when uninitialized.
func (t *Integral) Value() *layout.Value { return t.value.Clone() }

// Layout returns the shape the value was materialized with.
func (t *Integral) Layout() (layout.Shape, bool) {
	if t.shape == nil {
		return layout.Shape{}, false
	}
	return *t.shape, true
}

// Materialize gives the type its default value on target: all X for
// four-state vectors, all 0 otherwise.
func (t *Integral) Materialize(target layout.Target) error {
	s, err := t.Shape(target)
	if err != nil {
		return err
	}
	t.shape, t.value = &s, s.Unknown()
	return nil
}

// Assign stores a copy of v, which must match the layout on target.
func (t *Integral) Assign(target layout.Target, v *layout.Value) error {
	s, err := t.Shape(target)
	if err != nil {
		return err
	}
	if v == nil {
		return typeerr.New(typeerr.KindUninitializedValue).Op("assign").At(t.origin).Build()
	}
	if len(v.Words) != s.TotalWords {
		return typeerr.New(typeerr.KindShapeMismatch).
			Op("assign").
			At(t.origin).
			Detail("got %d words, layout holds %d", len(v.Words), s.TotalWords).
			Build()
	}
	t.shape, t.value = &s, v.Clone()
	return nil
}

// AssignBits packs logical states (element 0 first, LSB first) into a value.
func (t *Integral) AssignBits(target layout.Target, states []layout.State) error {
	s, err := t.Shape(target)
	if err != nil {
		return err
	}
	v, err := s.Pack(states)
	if err != nil {
		return typeerr.WithOrigin(err, t.origin)
	}
	t.shape, t.value = &s, v
	return nil
}

// AssignInt stores x into every unpacked element, truncated or extended to
// the element width.
func (t *Integral) AssignInt(target layout.Target, x int64) error {
	s, err := t.Shape(target)
	if err != nil {
		return err
	}
	v := s.Zero()
	for _, idx := range elementIndices(s.Unpacked) {
		if err := s.SetInt64(v, idx, x); err != nil {
			return typeerr.WithOrigin(err, t.origin)
		}
	}
	t.shape, t.value = &s, v
	return nil
}

// Clear drops the held value.
func (t *Integral) Clear() {
	t.shape, t.value = nil, nil
}

// ReadBit reads one bit of the held value.
func (t *Integral) ReadBit(packed, unpacked []int64) (layout.State, error) {
	if t.value == nil {
		return layout.Bit0, t.uninitialized("read_bit")
	}
	st, err := t.shape.ReadBit(t.value, packed, unpacked)
	return st, typeerr.WithOrigin(err, t.origin)
}

// WriteBit writes one bit of the held value.
func (t *Integral) WriteBit(packed, unpacked []int64, st layout.State) error {
	if t.value == nil {
		return t.uninitialized("write_bit")
	}
	return typeerr.WithOrigin(t.shape.WriteBit(t.value, packed, unpacked, st), t.origin)
}

// States unpacks the held value into logical order.
func (t *Integral) States() ([]layout.State, error) {
	if t.value == nil {
		return nil, t.uninitialized("unpack")
	}
	states, err := t.shape.Unpack(t.value)
	return states, typeerr.WithOrigin(err, t.origin)
}

// Int64 reads the element selected by unpacked as an integer.
func (t *Integral) Int64(unpacked ...int64) (int64, error) {
	if t.value == nil {
		return 0, t.uninitialized("int_value")
	}
	x, err := t.shape.Int64(t.value, unpacked)
	return x, typeerr.WithOrigin(err, t.origin)
}

func (t *Integral) uninitialized(op string) error {
	return uninitialized(op, t.origin, t.String())
}

// String renders the declaration form, e.g. "logic signed [7:0]".
func (t *Integral) String() string {
	if t.name != "" {
		return t.name
	}
	var sb strings.Builder
	switch {
	case !t.vec.Sized:
		sb.WriteString("unsized")
	case t.vec.FourState:
		sb.WriteString("logic")
	default:
		sb.WriteString("bit")
	}
	if t.vec.Signed {
		sb.WriteString(" signed")
	}
	if t.vec.Packed.Len() > 0 {
		sb.WriteByte(' ')
		sb.WriteString(t.vec.Packed.String())
	}
	if t.vec.Unpacked.Len() > 0 {
		sb.WriteString(" (unpacked ")
		sb.WriteString(t.vec.Unpacked.String())
		sb.WriteByte(')')
	}
	return sb.String()
}

// elementIndices enumerates one index tuple per unpacked element, row-major,
// matching the element order of the layout.
func elementIndices(dims []layout.Dimension) [][]int64 {
	out := [][]int64{nil}
	for _, d := range dims {
		step := int64(1)
		if d.Left < d.Right {
			step = -1
		}
		next := make([][]int64, 0, len(out))
		for _, prefix := range out {
			for i := d.Right; ; i += step {
				idx := make([]int64, len(prefix), len(prefix)+1)
				copy(idx, prefix)
				next = append(next, append(idx, i))
				if i == d.Left {
					break
				}
			}
		}
		out = next
	}
	return out
}

func twoState(signed bool, msb int64) layout.Vector {
	return vector(false, signed, msb)
}

func fourState(signed bool, msb int64) layout.Vector {
	return vector(true, signed, msb)
}

func vector(four, signed bool, msb int64) layout.Vector {
	v := layout.Vector{FourState: four, Sized: true, Signed: signed}
	if msb > 0 {
		v.Packed = layout.Ranges(layout.Dim(msb, 0))
	}
	return v
}

// Bit is the two-state scalar "bit".
func Bit() *Integral { return NewIntegral("bit", nil, twoState(false, 0)) }

// Logic is the four-state scalar "logic".
func Logic() *Integral { return NewIntegral("logic", nil, fourState(false, 0)) }

// Reg is the four-state scalar "reg".
func Reg() *Integral { return NewIntegral("reg", nil, fourState(false, 0)) }

// Byte is the two-state signed 8-bit "byte".
func Byte() *Integral { return NewIntegral("byte", nil, twoState(true, 7)) }

// Shortint is the two-state signed 16-bit "shortint".
func Shortint() *Integral { return NewIntegral("shortint", nil, twoState(true, 15)) }

// Int is the two-state signed 32-bit "int".
func Int() *Integral { return NewIntegral("int", nil, twoState(true, 31)) }

// Longint is the two-state signed 64-bit "longint".
func Longint() *Integral { return NewIntegral("longint", nil, twoState(true, 63)) }

// Integer is the four-state signed 32-bit "integer".
func Integer() *Integral { return NewIntegral("integer", nil, fourState(true, 31)) }

// Time is the four-state unsigned 64-bit "time".
func Time() *Integral { return NewIntegral("time", nil, fourState(false, 63)) }

// BuiltinIntegral returns a fresh descriptor for an integral keyword.
func BuiltinIntegral(keyword string) (*Integral, bool) {
	switch keyword {
	case "bit":
		return Bit(), true
	case "logic":
		return Logic(), true
	case "reg":
		return Reg(), true
	case "byte":
		return Byte(), true
	case "shortint":
		return Shortint(), true
	case "int":
		return Int(), true
	case "longint":
		return Longint(), true
	case "integer":
		return Integer(), true
	case "time":
		return Time(), true
	default:
		return nil, false
	}
}
