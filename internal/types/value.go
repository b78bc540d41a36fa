package types

import (
	"svcore/internal/layout"
	"svcore/internal/source"
	"svcore/internal/typeerr"
)

// NewValue constructs a fresh instance of t holding its default value:
// integrals hold all X (four-state) or all 0, reals 0, strings "", handles
// null and events an empty queue. Typedefs are followed, so an unresolved
// alias has no value. An enum instantiates to an integral of its base
// carrying the enum's name.
func NewValue(t Type, target layout.Target) (Type, error) {
	if t == nil {
		return nil, typeerr.New(typeerr.KindUnknownType).Op("new_value").Detail("nil type").Build()
	}
	u, err := Underlying(t)
	if err != nil {
		return nil, err
	}
	return Visit[instance](u, instantiator{target: target}).unwrap()
}

type instance struct {
	t   Type
	err error
}

func (i instance) unwrap() (Type, error) { return i.t, i.err }

type instantiator struct {
	target layout.Target
}

func (v instantiator) integral(name string, origin *source.Origin, vec layout.Vector) instance {
	out := NewIntegral(name, origin, vec)
	if err := out.Materialize(v.target); err != nil {
		return instance{err: err}
	}
	return instance{t: out}
}

func (v instantiator) Integral(t *Integral) instance {
	return v.integral(t.name, t.origin, t.vec)
}

func (v instantiator) Real(t *Real) instance {
	out := NewReal(t.name, t.origin, t.precision)
	out.Set(0)
	return instance{t: out}
}

func (v instantiator) Void(t *Void) instance { return instance{t: NewVoid(t.name, t.origin)} }

func (v instantiator) Chandle(t *Chandle) instance {
	out := NewChandle(t.name, t.origin)
	out.Set(0)
	return instance{t: out}
}

func (v instantiator) Class(t *Class) instance {
	out := NewClass(t.name, t.origin)
	out.Set(NullHandle)
	return instance{t: out}
}

func (v instantiator) String(t *String) instance {
	out := NewString(t.name, t.origin)
	out.Set("")
	return instance{t: out}
}

func (v instantiator) Event(t *Event) instance { return instance{t: NewEvent(t.name, t.origin)} }

// Typedef is unreachable: NewValue follows aliases first.
func (v instantiator) Typedef(t *Typedef) instance {
	_, err := t.Underlying()
	return instance{err: err}
}

func (v instantiator) Enum(t *Enum) instance {
	return v.integral(t.name, t.origin, t.base.vec)
}
