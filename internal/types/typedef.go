package types

import (
	"go.uber.org/zap"

	"svcore/internal/source"
	"svcore/internal/typeerr"
)

// TypedefState is either Unresolved or Resolved.
type TypedefState interface {
	typedefState()
}

// Unresolved is the state of a forward typedef whose target is not known yet.
type Unresolved struct {
	Name string
	// Expect is the kind promised by the forward declaration, KindInvalid
	// when none was given.
	Expect Kind
}

// Resolved is the state of a typedef bound to its target.
type Resolved struct {
	Target Type
}

func (Unresolved) typedefState() {}
func (Resolved) typedefState()   {}

// Typedef names another type. It starts unresolved when forward declared and
// is bound exactly once.
type Typedef struct {
	decl
	state TypedefState
}

// ForwardTypedef declares name without a target. expect may be KindInvalid.
func ForwardTypedef(name string, origin *source.Origin, expect Kind) *Typedef {
	return &Typedef{
		decl:  declOf(name, origin),
		state: Unresolved{Name: name, Expect: expect},
	}
}

// NewTypedef declares name as an alias of target.
func NewTypedef(name string, origin *source.Origin, target Type) (*Typedef, error) {
	t := ForwardTypedef(name, origin, KindInvalid)
	if err := t.Resolve(target); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Typedef) Kind() Kind { return KindTypedef }

// State returns the current lifecycle state.
func (t *Typedef) State() TypedefState { return t.state }

func (t *Typedef) Resolved() bool {
	_, ok := t.state.(Resolved)
	return ok
}

// Target returns the direct target, false while unresolved.
func (t *Typedef) Target() (Type, bool) {
	r, ok := t.state.(Resolved)
	if !ok {
		return nil, false
	}
	return r.Target, true
}

// Resolve binds the typedef to target. A typedef resolves once; binding it so
// that the alias chain leads back to itself is rejected.
func (t *Typedef) Resolve(target Type) error {
	const op = "resolve_typedef"
	u, ok := t.state.(Unresolved)
	if !ok {
		return typeerr.New(typeerr.KindAlreadyResolved).Op(op).At(t.origin).Detail("typedef %s", t.name).Build()
	}
	if target == nil {
		return typeerr.New(typeerr.KindUnknownType).Op(op).At(t.origin).Detail("typedef %s has no target", t.name).Build()
	}
	for cur := target; ; {
		if cur == Type(t) {
			return typeerr.New(typeerr.KindTypedefCycle).Op(op).At(t.origin).Detail("typedef %s refers to itself", t.name).Build()
		}
		td, isTypedef := cur.(*Typedef)
		if !isTypedef {
			break
		}
		next, resolved := td.Target()
		if !resolved {
			break
		}
		cur = next
	}
	if u.Expect != KindInvalid && !kindAgrees(u.Expect, target) {
		return typeerr.New(typeerr.KindForwardMismatch).
			Op(op).
			At(t.origin).
			Detail("typedef %s was declared %s, got %s", t.name, u.Expect, target.Kind()).
			Build()
	}
	t.state = Resolved{Target: target}
	Logger().Debug("typedef resolved", zap.String("typedef", t.name), zap.Stringer("target", target))
	return nil
}

// kindAgrees checks a forward kind against the target, looking through
// resolved aliases. A target that is itself still unresolved cannot be
// checked yet and is accepted.
func kindAgrees(expect Kind, target Type) bool {
	if target.Kind() == expect {
		return true
	}
	u, err := Underlying(target)
	if err != nil {
		return true
	}
	return u.Kind() == expect
}

// Underlying follows the alias chain to the first non-typedef type.
func (t *Typedef) Underlying() (Type, error) {
	return Underlying(t)
}

// Underlying returns t itself unless it is a typedef, in which case the alias
// chain is followed. Any unresolved link fails with UnresolvedTypedef.
func Underlying(t Type) (Type, error) {
	seen := make(map[*Typedef]struct{})
	for {
		td, ok := t.(*Typedef)
		if !ok {
			return t, nil
		}
		if _, dup := seen[td]; dup {
			return nil, typeerr.New(typeerr.KindTypedefCycle).Op("underlying").At(td.origin).Detail("typedef %s", td.name).Build()
		}
		seen[td] = struct{}{}
		next, resolved := td.Target()
		if !resolved {
			return nil, typeerr.New(typeerr.KindUnresolvedTypedef).Op("underlying").At(td.origin).Detail("typedef %s", td.name).Build()
		}
		t = next
	}
}

func (t *Typedef) String() string { return t.name }
