package types

import (
	"fmt"
	"iter"

	"fortio.org/safecast"
	"go.uber.org/zap"

	"svcore/internal/layout"
	"svcore/internal/source"
	"svcore/internal/typeerr"
)

// TypeID uniquely identifies an entry inside the catalog.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Builtins stores TypeIDs for the keyword types.
type Builtins struct {
	Bit       TypeID
	Logic     TypeID
	Reg       TypeID
	Byte      TypeID
	Shortint  TypeID
	Int       TypeID
	Longint   TypeID
	Integer   TypeID
	Time      TypeID
	Real      TypeID
	Shortreal TypeID
	Realtime  TypeID
	String    TypeID
	Chandle   TypeID
	Event     TypeID
	Void      TypeID
}

// Catalog owns every declared type of a design and hands out stable TypeIDs.
// Named entries are also indexed by identifier. A catalog is built by one
// goroutine; once built it may be read concurrently.
type Catalog struct {
	target   layout.Target
	types    []Type
	byName   map[string]TypeID
	builtins Builtins
}

// NewCatalog constructs a catalog for target seeded with the keyword types.
func NewCatalog(target layout.Target) *Catalog {
	c := &Catalog{
		target: target,
		types:  []Type{nil}, // reserve 0 as invalid sentinel
		byName: make(map[string]TypeID, 64),
	}
	b := &c.builtins
	b.Bit = c.seed(Bit())
	b.Logic = c.seed(Logic())
	b.Reg = c.seed(Reg())
	b.Byte = c.seed(Byte())
	b.Shortint = c.seed(Shortint())
	b.Int = c.seed(Int())
	b.Longint = c.seed(Longint())
	b.Integer = c.seed(Integer())
	b.Time = c.seed(Time())
	b.Real = c.seed(NewReal("real", nil, PrecisionReal))
	b.Shortreal = c.seed(NewReal("shortreal", nil, PrecisionShortreal))
	b.Realtime = c.seed(NewReal("realtime", nil, PrecisionRealtime))
	b.String = c.seed(NewString("string", nil))
	b.Chandle = c.seed(NewChandle("chandle", nil))
	b.Event = c.seed(NewEvent("event", nil))
	b.Void = c.seed(NewVoid("void", nil))
	return c
}

func (c *Catalog) seed(t Type) TypeID {
	id := c.appendRaw(t)
	c.byName[t.Name()] = id
	return id
}

// appendRaw adds the entry to the storage without consulting the name index.
func (c *Catalog) appendRaw(t Type) TypeID {
	n, err := safecast.Conv[uint32](len(c.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(n)
	c.types = append(c.types, t)
	return id
}

// Builtins returns TypeIDs for the keyword types.
func (c *Catalog) Builtins() Builtins { return c.builtins }

// Target is the storage target member values are encoded for.
func (c *Catalog) Target() layout.Target { return c.target }

// Len counts the entries, builtins included.
func (c *Catalog) Len() int { return len(c.types) - 1 }

// Declare adds t. Anonymous entries are never indexed by name.
func (c *Catalog) Declare(t Type) (TypeID, error) {
	if t == nil {
		return NoTypeID, typeerr.New(typeerr.KindUnknownType).Op("declare").Detail("nil type").Build()
	}
	if name := t.Name(); name != "" {
		if prev, ok := c.byName[name]; ok {
			return NoTypeID, c.duplicate("declare", t, prev)
		}
		id := c.appendRaw(t)
		c.byName[name] = id
		Logger().Debug("type declared", zap.String("name", name), zap.Stringer("kind", t.Kind()), zap.Uint32("id", uint32(id)))
		return id, nil
	}
	return c.appendRaw(t), nil
}

// Forward declares name as a typedef to be resolved later. Repeating the
// forward declaration of a still unresolved typedef returns the same entry.
func (c *Catalog) Forward(name string, origin *source.Origin, expect Kind) (TypeID, error) {
	if prev, ok := c.byName[name]; ok {
		if td, isTypedef := c.types[prev].(*Typedef); isTypedef && !td.Resolved() {
			return prev, nil
		}
		return NoTypeID, c.duplicate("forward", ForwardTypedef(name, origin, expect), prev)
	}
	return c.Declare(ForwardTypedef(name, origin, expect))
}

// Define binds name to target. A pending forward declaration is resolved in
// place; otherwise a new typedef entry is declared.
func (c *Catalog) Define(name string, origin *source.Origin, target Type) (TypeID, error) {
	if id, ok := c.byName[name]; ok {
		if td, isTypedef := c.types[id].(*Typedef); isTypedef && !td.Resolved() {
			return id, c.Resolve(name, target)
		}
	}
	td, err := NewTypedef(name, origin, target)
	if err != nil {
		return NoTypeID, err
	}
	return c.Declare(td)
}

// Resolve binds the forward typedef called name to target.
func (c *Catalog) Resolve(name string, target Type) error {
	id, ok := c.byName[name]
	if !ok {
		return typeerr.New(typeerr.KindUnknownType).Op("resolve").Detail("%s", name).Build()
	}
	td, ok := c.types[id].(*Typedef)
	if !ok {
		return typeerr.New(typeerr.KindAlreadyResolved).
			Op("resolve").
			At(c.types[id].Origin()).
			Detail("%s is a %s, not a typedef", name, c.types[id].Kind()).
			Build()
	}
	return td.Resolve(target)
}

// Lookup returns the entry for a TypeID.
func (c *Catalog) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(c.types) {
		return nil, false
	}
	return c.types[id], true
}

// MustLookup panics when id is invalid.
func (c *Catalog) MustLookup(id TypeID) Type {
	t, ok := c.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return t
}

// ByName finds a named entry.
func (c *Catalog) ByName(name string) (TypeID, Type, bool) {
	id, ok := c.byName[name]
	if !ok {
		return NoTypeID, nil, false
	}
	return id, c.types[id], true
}

// LookupName is ByName returning a typed error for unknown identifiers.
func (c *Catalog) LookupName(name string) (Type, error) {
	_, t, ok := c.ByName(name)
	if !ok {
		return nil, typeerr.New(typeerr.KindUnknownType).Op("lookup").Detail("%s", name).Build()
	}
	return t, nil
}

// Entries iterates all entries in declaration order, builtins first.
func (c *Catalog) Entries() iter.Seq2[TypeID, Type] {
	return func(yield func(TypeID, Type) bool) {
		for i := 1; i < len(c.types); i++ {
			if !yield(TypeID(i), c.types[i]) { //nolint:gosec // bounded by appendRaw
				return
			}
		}
	}
}

// IsBuiltin reports whether id is one of the seeded keyword types.
func (c *Catalog) IsBuiltin(id TypeID) bool {
	return id != NoTypeID && id <= c.builtins.Void
}

// Unresolved lists the typedefs still waiting for a target.
func (c *Catalog) Unresolved() []*Typedef {
	var out []*Typedef
	for _, t := range c.types[1:] {
		if td, ok := t.(*Typedef); ok && !td.Resolved() {
			out = append(out, td)
		}
	}
	return out
}

func (c *Catalog) duplicate(op string, t Type, prev TypeID) error {
	b := typeerr.New(typeerr.KindDuplicateDeclaration).Op(op).At(t.Origin())
	if o := c.types[prev].Origin(); o != nil {
		return b.Detail("%s already declared at %s", t.Name(), o).Build()
	}
	return b.Detail("%s already declared", t.Name()).Build()
}
