package types

import (
	"testing"

	"svcore/internal/layout"
	"svcore/internal/typeerr"
)

func TestTypedefGatesValueConstruction(t *testing.T) {
	td := ForwardTypedef("word_t", nil, KindInvalid)
	if _, err := NewValue(td, layout.Word64()); typeerr.KindOf(err) != typeerr.KindUnresolvedTypedef {
		t.Fatalf("expected unresolved_typedef, got %v", err)
	}
	if _, ok := td.State().(Unresolved); !ok {
		t.Fatalf("state = %T, want Unresolved", td.State())
	}
	if err := td.Resolve(Int()); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if _, ok := td.State().(Resolved); !ok {
		t.Fatalf("state = %T, want Resolved", td.State())
	}
	v, err := NewValue(td, layout.Word64())
	if err != nil {
		t.Fatalf("NewValue: %v", err)
	}
	x, err := v.(*Integral).Int64()
	if err != nil || x != 0 {
		t.Fatalf("default int = %d (%v), want 0", x, err)
	}
}

func TestTypedefResolveOnce(t *testing.T) {
	td, err := NewTypedef("a_t", nil, Bit())
	if err != nil {
		t.Fatalf("NewTypedef: %v", err)
	}
	if err := td.Resolve(Logic()); typeerr.KindOf(err) != typeerr.KindAlreadyResolved {
		t.Fatalf("expected already_resolved, got %v", err)
	}
}

func TestTypedefCycles(t *testing.T) {
	a := ForwardTypedef("a_t", nil, KindInvalid)
	b, err := NewTypedef("b_t", nil, a)
	if err != nil {
		t.Fatalf("NewTypedef: %v", err)
	}
	if err := a.Resolve(b); typeerr.KindOf(err) != typeerr.KindTypedefCycle {
		t.Fatalf("expected typedef_cycle, got %v", err)
	}
	if err := a.Resolve(a); typeerr.KindOf(err) != typeerr.KindTypedefCycle {
		t.Fatalf("expected typedef_cycle for self reference, got %v", err)
	}
	if _, err := b.Underlying(); typeerr.KindOf(err) != typeerr.KindUnresolvedTypedef {
		t.Fatalf("expected unresolved_typedef, got %v", err)
	}
}

func TestTypedefChain(t *testing.T) {
	base := Integer()
	a, _ := NewTypedef("a_t", nil, base)
	b, _ := NewTypedef("b_t", nil, a)
	u, err := Underlying(b)
	if err != nil {
		t.Fatalf("Underlying: %v", err)
	}
	if u != Type(base) {
		t.Fatalf("underlying = %s, want integer", u)
	}
}

func TestForwardKindMismatch(t *testing.T) {
	td := ForwardTypedef("e_t", nil, KindEnum)
	if err := td.Resolve(Int()); typeerr.KindOf(err) != typeerr.KindForwardMismatch {
		t.Fatalf("expected forward_mismatch, got %v", err)
	}
	if td.Resolved() {
		t.Fatalf("failed resolve must leave the typedef unresolved")
	}
	e, err := NewEnum("", nil, nil, layout.Word64(), members("A"))
	if err != nil {
		t.Fatalf("NewEnum: %v", err)
	}
	alias, _ := NewTypedef("alias_t", nil, e)
	if err := td.Resolve(alias); err != nil {
		t.Fatalf("resolve through alias: %v", err)
	}
}
