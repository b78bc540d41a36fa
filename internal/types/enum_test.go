package types

import (
	"errors"
	"math"
	"testing"

	"svcore/internal/layout"
	"svcore/internal/typeerr"
)

func val(x int64) *int64 { return &x }

func members(names ...string) []EnumMemberSpec {
	out := make([]EnumMemberSpec, len(names))
	for i, n := range names {
		out[i] = EnumMemberSpec{Name: n}
	}
	return out
}

func TestEnumImplicitValues(t *testing.T) {
	specs := []EnumMemberSpec{
		{Name: "IDLE"},
		{Name: "RUN"},
		{Name: "WAIT", Value: val(10)},
		{Name: "DONE"},
	}
	e, err := NewEnum("state_t", nil, nil, layout.Word64(), specs)
	if err != nil {
		t.Fatalf("NewEnum: %v", err)
	}
	want := map[string]int64{"IDLE": 0, "RUN": 1, "WAIT": 10, "DONE": 11}
	for name, x := range want {
		m, ok := e.Member(name)
		if !ok {
			t.Fatalf("member %s missing", name)
		}
		if m.Int64() != x {
			t.Fatalf("%s = %d, want %d", name, m.Int64(), x)
		}
		got, err := m.Constant.Int64()
		if err != nil || got != x {
			t.Fatalf("%s encoded as %d (%v), want %d", name, got, err, x)
		}
	}
	if e.Base().Name() != "int" {
		t.Fatalf("default base = %s, want int", e.Base())
	}
}

func TestEnumErrors(t *testing.T) {
	unsized := NewIntegral("", nil, layout.Vector{FourState: true})
	unpacked := NewIntegral("", nil, layout.Vector{
		Sized:    true,
		Packed:   layout.Ranges(layout.Dim(3, 0)),
		Unpacked: layout.Ranges(layout.Dim(0, 1)),
	})
	nibble := NewIntegral("", nil, layout.Vector{Sized: true, Packed: layout.Ranges(layout.Dim(3, 0))})

	tests := []struct {
		name  string
		base  *Integral
		specs []EnumMemberSpec
		want  typeerr.Kind
	}{
		{"duplicate member", nil, members("A", "B", "A"), typeerr.KindDuplicateEnumMember},
		{"unsized base", unsized, members("A"), typeerr.KindUnsizedEnumBase},
		{"unpacked base", unpacked, members("A"), typeerr.KindInvalidEnumBase},
		{"explicit overflow", nibble, []EnumMemberSpec{{Name: "A", Value: val(16)}}, typeerr.KindEnumValueOverflow},
		{"negative unsigned", nibble, []EnumMemberSpec{{Name: "A", Value: val(-1)}}, typeerr.KindEnumValueOverflow},
		{"implicit overflow", nibble, []EnumMemberSpec{{Name: "A", Value: val(15)}, {Name: "B"}}, typeerr.KindEnumValueOverflow},
		{"int64 wrap", Longint(), []EnumMemberSpec{{Name: "A", Value: val(math.MaxInt64)}, {Name: "B"}}, typeerr.KindEnumValueOverflow},
		{"duplicate value", nil, []EnumMemberSpec{{Name: "A", Value: val(1)}, {Name: "B", Value: val(0)}, {Name: "C"}}, typeerr.KindDuplicateEnumValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEnum("e_t", nil, tt.base, layout.Word64(), tt.specs)
			if err == nil {
				t.Fatalf("expected %s", tt.want)
			}
			if got := typeerr.KindOf(err); got != tt.want {
				t.Fatalf("kind = %s, want %s (%v)", got, tt.want, err)
			}
		})
	}
}

func TestEnumErrorIsSentinel(t *testing.T) {
	_, err := NewEnum("e_t", nil, nil, layout.Word64(), members("A", "A"))
	if !errors.Is(err, typeerr.ErrDuplicateEnumMember) {
		t.Fatalf("errors.Is failed for %v", err)
	}
}

func TestEnumNavigationWraps(t *testing.T) {
	e, err := NewEnum("color_t", nil, nil, layout.Word64(), members("RED", "GREEN", "BLUE"))
	if err != nil {
		t.Fatalf("NewEnum: %v", err)
	}
	if e.Num() != 3 || e.First().Name != "RED" || e.Last().Name != "BLUE" {
		t.Fatalf("unexpected bounds %s..%s (%d)", e.First().Name, e.Last().Name, e.Num())
	}
	if got := e.Next(e.Last(), 1); got.Name != "RED" {
		t.Fatalf("next(BLUE) = %s", got.Name)
	}
	if got := e.Prev(e.First(), 1); got.Name != "BLUE" {
		t.Fatalf("prev(RED) = %s", got.Name)
	}
	if got := e.Next(e.First(), 5); got.Name != "BLUE" {
		t.Fatalf("next(RED, 5) = %s", got.Name)
	}
	m, ok := e.MemberByValue(1)
	if !ok || m.Name != "GREEN" {
		t.Fatalf("MemberByValue(1) = %v", m)
	}
	other, _ := NewEnum("other_t", nil, nil, layout.Word64(), members("RED"))
	if e.Next(other.First(), 1) != nil {
		t.Fatalf("foreign member must not navigate")
	}
}

func TestEnumFourStateBase(t *testing.T) {
	base := NewIntegral("", nil, layout.Vector{FourState: true, Sized: true, Packed: layout.Ranges(layout.Dim(1, 0))})
	e, err := NewEnum("", nil, base, layout.Word32(), members("A", "B", "C"))
	if err != nil {
		t.Fatalf("NewEnum: %v", err)
	}
	states, err := e.Last().Constant.States()
	if err != nil {
		t.Fatalf("States: %v", err)
	}
	if got := layout.FormatBits(states); got != "10" {
		t.Fatalf("C encoded as %s, want 10", got)
	}
	if got := e.String(); got != "enum logic [1:0] {A, B, C}" {
		t.Fatalf("String() = %q", got)
	}
}
