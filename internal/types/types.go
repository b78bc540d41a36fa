package types

import (
	"fmt"

	"svcore/internal/source"
)

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindIntegral
	KindReal
	KindVoid
	KindChandle
	KindClass
	KindString
	KindEvent
	KindTypedef
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindIntegral:
		return "integral"
	case KindReal:
		return "real"
	case KindVoid:
		return "void"
	case KindChandle:
		return "chandle"
	case KindClass:
		return "class"
	case KindString:
		return "string"
	case KindEvent:
		return "event"
	case KindTypedef:
		return "typedef"
	case KindEnum:
		return "enum"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// KindByName maps the lower-case kind name back to its Kind.
func KindByName(name string) (Kind, bool) {
	for k := KindIntegral; k <= KindEnum; k++ {
		if k.String() == name {
			return k, true
		}
	}
	return KindInvalid, false
}

// Type is a catalog entry. The set of implementations is closed: every
// variant lives in this package.
type Type interface {
	Kind() Kind
	// Name is the declared identifier, empty for anonymous types.
	Name() string
	// Origin is the declaration position, nil when unknown.
	Origin() *source.Origin
	String() string

	entry()
}

// decl carries the identity shared by every variant.
type decl struct {
	name   string
	origin *source.Origin
}

func declOf(name string, origin *source.Origin) decl {
	d := decl{name: name}
	if origin != nil {
		o := *origin
		d.origin = &o
	}
	return d
}

func (d *decl) Name() string { return d.name }

func (d *decl) Origin() *source.Origin {
	if d.origin == nil {
		return nil
	}
	o := *d.origin
	return &o
}

func (d *decl) entry() {}

// label renders "name" for named entries and fallback otherwise.
func (d *decl) label(fallback string) string {
	if d.name != "" {
		return d.name
	}
	return fallback
}

// Visitor dispatches over every variant. Adding a variant breaks every
// implementation at compile time.
type Visitor[R any] interface {
	Integral(*Integral) R
	Real(*Real) R
	Void(*Void) R
	Chandle(*Chandle) R
	Class(*Class) R
	String(*String) R
	Event(*Event) R
	Typedef(*Typedef) R
	Enum(*Enum) R
}

// Visit calls the visitor method matching t's variant.
func Visit[R any](t Type, v Visitor[R]) R {
	switch t := t.(type) {
	case *Integral:
		return v.Integral(t)
	case *Real:
		return v.Real(t)
	case *Void:
		return v.Void(t)
	case *Chandle:
		return v.Chandle(t)
	case *Class:
		return v.Class(t)
	case *String:
		return v.String(t)
	case *Event:
		return v.Event(t)
	case *Typedef:
		return v.Typedef(t)
	case *Enum:
		return v.Enum(t)
	default:
		panic(fmt.Sprintf("types: unexpected entry %T", t))
	}
}
