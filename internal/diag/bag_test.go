package diag

import (
	"testing"

	"svcore/internal/source"
)

func origin(t *testing.T, path string, line, col uint32) *source.Origin {
	t.Helper()
	o, err := source.NewOrigin(path, line, col, line, col+1)
	if err != nil {
		t.Fatalf("NewOrigin: %v", err)
	}
	return &o
}

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	for range 3 {
		b.Add(NewError(TypUnknownType, nil, "x"))
	}
	if b.Len() != 2 {
		t.Fatalf("Len = %d, want 2", b.Len())
	}
	if !b.HasErrors() || !b.HasWarnings() {
		t.Fatalf("error diagnostics count as errors and warnings")
	}
}

func TestBagSortAndDedup(t *testing.T) {
	b := NewBag(10)
	b.Add(New(SevWarning, TypTypedefCycle, origin(t, "b.sv", 1, 1), "w"))
	b.Add(NewError(TypUnknownType, origin(t, "a.sv", 2, 1), "late"))
	b.Add(NewError(TypUnknownType, origin(t, "a.sv", 1, 4), "early"))
	b.Add(NewError(TypUnknownType, origin(t, "a.sv", 1, 4), "early"))
	b.Add(NewError(IOLoadFileError, nil, "io"))
	b.Dedup()
	b.Sort()
	got := make([]string, 0, b.Len())
	for _, d := range b.Items() {
		got = append(got, d.Message)
	}
	want := []string{"io", "early", "late", "w"}
	if len(got) != len(want) {
		t.Fatalf("items = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("items = %v, want %v", got, want)
		}
	}
}

func TestBagMergeAndFilter(t *testing.T) {
	a := NewBag(1)
	a.Add(New(SevInfo, ObsInfo, nil, "info"))
	other := NewBag(4)
	other.Add(NewError(TypUnknownType, nil, "e"))
	other.Add(New(SevWarning, DclUnknownField, nil, "w"))
	a.Merge(other)
	if a.Len() != 3 {
		t.Fatalf("merged Len = %d, want 3", a.Len())
	}
	a.Filter(SevWarning)
	if a.Len() != 2 {
		t.Fatalf("filtered Len = %d, want 2", a.Len())
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: bag})
	o := origin(t, "top.sv", 3, 2)
	ReportError(r, TypUnknownType, o, "missing").Emit()
	ReportError(r, TypUnknownType, origin(t, "top.sv", 3, 2), "missing").Emit()
	ReportWarning(r, TypUnknownType, o, "missing").Emit()
	if bag.Len() != 2 {
		t.Fatalf("Len = %d, want 2", bag.Len())
	}
}

func TestSeverityParse(t *testing.T) {
	for _, s := range []Severity{SevInfo, SevWarning, SevError} {
		got, err := ParseSeverity(s.Label())
		if err != nil || got != s {
			t.Fatalf("ParseSeverity(%s) = %s, %v", s.Label(), got, err)
		}
	}
	if _, err := ParseSeverity("fatal"); err == nil {
		t.Fatalf("expected error for unknown severity")
	}
}
