package types

import (
	"math"
	"strings"

	"go.uber.org/zap"

	"svcore/internal/layout"
	"svcore/internal/source"
	"svcore/internal/typeerr"
)

// EnumMemberSpec describes one member as written in a declaration. A nil
// Value continues from the previous member (the first defaults to 0).
type EnumMemberSpec struct {
	Name   string
	Value  *int64
	Origin *source.Origin
}

// EnumMember is a named constant of the enum's base type.
type EnumMember struct {
	Name   string
	Origin *source.Origin
	// Constant holds the encoded member value.
	Constant *Integral
	index    int
	number   int64
}

// Int64 returns the member value.
func (m *EnumMember) Int64() int64 { return m.number }

// Index is the declaration position of the member.
func (m *EnumMember) Index() int { return m.index }

// Enum is a named set of constants over an integral base.
type Enum struct {
	decl
	base    *Integral
	members []*EnumMember
	byName  map[string]*EnumMember
	byValue map[int64]*EnumMember
}

// DefaultEnumBase is the base of an enum declared without one: "int".
func DefaultEnumBase() *Integral { return Int() }

// NewEnum validates the base and members and encodes every member value on
// target. A nil base selects DefaultEnumBase.
func NewEnum(name string, origin *source.Origin, base *Integral, target layout.Target, specs []EnumMemberSpec) (*Enum, error) {
	const op = "enum"
	if base == nil {
		base = DefaultEnumBase()
	}
	if !base.Sized() {
		return nil, typeerr.New(typeerr.KindUnsizedEnumBase).Op(op).At(origin).Detail("enum %s", name).Build()
	}
	if base.Vector().Unpacked.Len() > 0 {
		return nil, typeerr.New(typeerr.KindInvalidEnumBase).
			Op(op).
			At(origin).
			Detail("base %s has unpacked dimensions", base).
			Build()
	}
	shape, err := base.Shape(target)
	if err != nil {
		return nil, typeerr.New(typeerr.KindInvalidEnumBase).Op(op).At(origin).Cause(err).Build()
	}

	e := &Enum{
		decl:    declOf(name, origin),
		base:    base.Rename(base.Name(), base.origin),
		byName:  make(map[string]*EnumMember, len(specs)),
		byValue: make(map[int64]*EnumMember, len(specs)),
	}
	var next int64
	nextValid := true
	for i, spec := range specs {
		if prev, ok := e.byName[spec.Name]; ok {
			return nil, typeerr.New(typeerr.KindDuplicateEnumMember).
				Op(op).
				At(spec.Origin).
				Detail("%s already declared at index %d", spec.Name, prev.index).
				Build()
		}
		value := next
		switch {
		case spec.Value != nil:
			value = *spec.Value
		case !nextValid:
			return nil, typeerr.New(typeerr.KindEnumValueOverflow).
				Op(op).
				At(spec.Origin).
				Detail("%s: implicit value overflows int64", spec.Name).
				Build()
		}
		if !shape.Fits(value) {
			return nil, typeerr.New(typeerr.KindEnumValueOverflow).
				Op(op).
				At(spec.Origin).
				Detail("%s = %d does not fit %s", spec.Name, value, base).
				Build()
		}
		if prev, ok := e.byValue[value]; ok {
			return nil, typeerr.New(typeerr.KindDuplicateEnumValue).
				Op(op).
				At(spec.Origin).
				Detail("%s = %d repeats %s", spec.Name, value, prev.Name).
				Build()
		}
		constant := base.Rename(spec.Name, spec.Origin)
		if err := constant.AssignInt(target, value); err != nil {
			return nil, err
		}
		m := &EnumMember{
			Name:     spec.Name,
			Origin:   cloneOrigin(spec.Origin),
			Constant: constant,
			index:    i,
			number:   value,
		}
		e.members = append(e.members, m)
		e.byName[m.Name] = m
		e.byValue[value] = m
		nextValid = value != math.MaxInt64
		next = value + 1
	}
	Logger().Debug("enum declared", zap.String("enum", name), zap.Int("members", len(e.members)))
	return e, nil
}

func (t *Enum) Kind() Kind { return KindEnum }

// Base returns the base type descriptor.
func (t *Enum) Base() *Integral { return t.base }

// Num is the member count.
func (t *Enum) Num() int { return len(t.members) }

// Members returns the members in declaration order.
func (t *Enum) Members() []*EnumMember {
	out := make([]*EnumMember, len(t.members))
	copy(out, t.members)
	return out
}

func (t *Enum) Member(name string) (*EnumMember, bool) {
	m, ok := t.byName[name]
	return m, ok
}

func (t *Enum) MemberByValue(x int64) (*EnumMember, bool) {
	m, ok := t.byValue[x]
	return m, ok
}

// First returns the first declared member, nil for an empty enum.
func (t *Enum) First() *EnumMember {
	if len(t.members) == 0 {
		return nil
	}
	return t.members[0]
}

// Last returns the last declared member, nil for an empty enum.
func (t *Enum) Last() *EnumMember {
	if len(t.members) == 0 {
		return nil
	}
	return t.members[len(t.members)-1]
}

// Next steps n members forward, wrapping past the end.
func (t *Enum) Next(m *EnumMember, n int) *EnumMember {
	return t.step(m, n)
}

// Prev steps n members backward, wrapping past the start.
func (t *Enum) Prev(m *EnumMember, n int) *EnumMember {
	return t.step(m, -n)
}

func (t *Enum) step(m *EnumMember, n int) *EnumMember {
	count := len(t.members)
	if m == nil || count == 0 || m.index >= count || t.members[m.index] != m {
		return nil
	}
	i := (m.index + n) % count
	if i < 0 {
		i += count
	}
	return t.members[i]
}

func (t *Enum) String() string {
	if t.name != "" {
		return t.name
	}
	names := make([]string, len(t.members))
	for i, m := range t.members {
		names[i] = m.Name
	}
	return "enum " + t.base.String() + " {" + strings.Join(names, ", ") + "}"
}

func cloneOrigin(o *source.Origin) *source.Origin {
	if o == nil {
		return nil
	}
	cp := *o
	return &cp
}
