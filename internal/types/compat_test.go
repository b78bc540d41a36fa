package types

import (
	"testing"

	"svcore/internal/layout"
)

func vec(four, signed bool, dims ...layout.Dimension) layout.Vector {
	v := layout.Vector{FourState: four, Sized: true, Signed: signed}
	if len(dims) > 0 {
		v.Packed = layout.Ranges(dims...)
	}
	return v
}

func TestClassify(t *testing.T) {
	byte8 := vec(false, false, layout.Dim(7, 0))
	a := NewIntegral("a_t", nil, byte8)
	b := NewIntegral("b_t", nil, byte8)
	a2 := NewIntegral("a_t", nil, byte8)
	signed := NewIntegral("a_t", nil, vec(false, true, layout.Dim(7, 0)))
	reversed := NewIntegral("a_t", nil, vec(false, false, layout.Dim(0, 7)))
	alias, _ := NewTypedef("alias_t", nil, a)
	pending := ForwardTypedef("pending_t", nil, KindInvalid)
	e1, _ := NewEnum("e1", nil, nil, layout.Word64(), members("A"))
	e2, _ := NewEnum("e2", nil, nil, layout.Word64(), members("A"))

	tests := []struct {
		name     string
		dst, src Type
		want     Level
	}{
		{"same entry", a, a, Matching},
		{"same name and shape", a, a2, Matching},
		{"identifier only", a, b, Equivalent},
		{"signedness differs", a, signed, AssignmentCompatible},
		{"range direction differs", a, reversed, AssignmentCompatible},
		{"through typedef", alias, a, Matching},
		{"unresolved typedef", pending, a, NonEquivalent},
		{"unresolved typedef itself", pending, pending, Matching},
		{"real realtime", NewReal("", nil, PrecisionReal), NewReal("", nil, PrecisionRealtime), Equivalent},
		{"real shortreal", NewReal("", nil, PrecisionReal), NewReal("", nil, PrecisionShortreal), AssignmentCompatible},
		{"integral to real", NewReal("", nil, PrecisionReal), a, CastCompatible},
		{"enum to integral", Int(), e1, CastCompatible},
		{"integral to enum", e1, Int(), CastCompatible},
		{"distinct enums", e1, e2, CastCompatible},
		{"same enum", e1, e1, Matching},
		{"string from integral", NewString("", nil), a, CastCompatible},
		{"string from event", NewString("", nil), NewEvent("", nil), NonEquivalent},
		{"class same name", NewClass("pkt", nil), NewClass("pkt", nil), Matching},
		{"class other name", NewClass("pkt", nil), NewClass("cfg", nil), NonEquivalent},
		{"chandle anonymous", NewChandle("", nil), NewChandle("", nil), Matching},
		{"void to integral", NewVoid("", nil), a, NonEquivalent},
		{"nil", nil, a, NonEquivalent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.dst, tt.src); got != tt.want {
				t.Fatalf("Classify = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestLevelOrdering(t *testing.T) {
	levels := []Level{Matching, Equivalent, AssignmentCompatible, CastCompatible, NonEquivalent}
	for i, l := range levels {
		for j, o := range levels {
			if got := l.AtLeast(o); got != (i <= j) {
				t.Fatalf("%s.AtLeast(%s) = %v", l, o, got)
			}
		}
		if p, ok := ParseLevel(l.String()); !ok || p != l {
			t.Fatalf("ParseLevel(%s) = %s, %v", l, p, ok)
		}
	}
	if _, ok := ParseLevel("compatible"); ok {
		t.Fatalf("ParseLevel accepted an unknown name")
	}
}

func TestClassifyDoesNotMutate(t *testing.T) {
	a := NewIntegral("a_t", nil, vec(true, false, layout.Dim(3, 0)))
	if err := a.AssignInt(layout.Word64(), 5); err != nil {
		t.Fatalf("AssignInt: %v", err)
	}
	before := a.Value()
	_ = Classify(a, Logic())
	if !a.Value().Equal(before) {
		t.Fatalf("classification changed the value")
	}
}
