package types

import "fmt"

// Level grades how a value of one type meets another, strictest first.
type Level uint8

const (
	Matching Level = iota
	Equivalent
	AssignmentCompatible
	CastCompatible
	NonEquivalent
)

func (l Level) String() string {
	switch l {
	case Matching:
		return "matching"
	case Equivalent:
		return "equivalent"
	case AssignmentCompatible:
		return "assignment_compatible"
	case CastCompatible:
		return "cast_compatible"
	case NonEquivalent:
		return "non_equivalent"
	default:
		return fmt.Sprintf("Level(%d)", l)
	}
}

// ParseLevel is the inverse of Level.String.
func ParseLevel(name string) (Level, bool) {
	for l := Matching; l <= NonEquivalent; l++ {
		if l.String() == name {
			return l, true
		}
	}
	return NonEquivalent, false
}

// AtLeast reports whether l is as strict as want or stricter.
func (l Level) AtLeast(want Level) bool { return l <= want }

// Classify grades a value of type src flowing into dst. Resolved typedefs are
// looked through. The result is not necessarily symmetric.
func Classify(dst, src Type) Level {
	if dst == nil || src == nil {
		return NonEquivalent
	}
	if dst == src {
		return Matching
	}
	d, derr := Underlying(dst)
	s, serr := Underlying(src)
	if derr != nil || serr != nil {
		return NonEquivalent
	}
	if d == s {
		return Matching
	}
	return Visit[Level](d, classifier{src: s})
}

type classifier struct {
	src Type
}

// byName grades two entries of the same variant that carry no structure.
func byName(a, b Type) Level {
	if a.Name() == b.Name() {
		return Matching
	}
	return Equivalent
}

// numeric reports whether t takes part in numeric casts.
func numeric(t Type) bool {
	switch t.(type) {
	case *Integral, *Enum, *Real:
		return true
	}
	return false
}

// crossVariant grades src meeting a dst of another variant.
func crossVariant(dst, src Type) Level {
	if numeric(dst) && numeric(src) {
		return CastCompatible
	}
	_, dstStr := dst.(*String)
	_, srcStr := src.(*String)
	_, dstInt := dst.(*Integral)
	_, srcInt := src.(*Integral)
	if (dstStr && srcInt) || (dstInt && srcStr) {
		return CastCompatible
	}
	return NonEquivalent
}

func (c classifier) Integral(dst *Integral) Level {
	src, ok := c.src.(*Integral)
	if !ok {
		return crossVariant(dst, c.src)
	}
	if !dst.vec.Equal(src.vec) {
		return AssignmentCompatible
	}
	return byName(dst, src)
}

func (c classifier) Real(dst *Real) Level {
	src, ok := c.src.(*Real)
	if !ok {
		return crossVariant(dst, c.src)
	}
	if dst.precision.Wide() != src.precision.Wide() {
		return AssignmentCompatible
	}
	if dst.precision != src.precision {
		return Equivalent
	}
	return byName(dst, src)
}

func (c classifier) Void(dst *Void) Level {
	if src, ok := c.src.(*Void); ok {
		return byName(dst, src)
	}
	return NonEquivalent
}

func (c classifier) Chandle(dst *Chandle) Level {
	if src, ok := c.src.(*Chandle); ok {
		return byName(dst, src)
	}
	return NonEquivalent
}

func (c classifier) Class(dst *Class) Level {
	if src, ok := c.src.(*Class); ok && dst.name == src.name {
		return Matching
	}
	return NonEquivalent
}

func (c classifier) String(dst *String) Level {
	if src, ok := c.src.(*String); ok {
		return byName(dst, src)
	}
	return crossVariant(dst, c.src)
}

func (c classifier) Event(dst *Event) Level {
	if src, ok := c.src.(*Event); ok {
		return byName(dst, src)
	}
	return NonEquivalent
}

// Typedef is unreachable: Classify looks through aliases first.
func (c classifier) Typedef(*Typedef) Level { return NonEquivalent }

// Enum types are nominal: distinct enums only meet through a cast.
func (c classifier) Enum(dst *Enum) Level {
	if _, ok := c.src.(*Enum); ok {
		return CastCompatible
	}
	return crossVariant(dst, c.src)
}
