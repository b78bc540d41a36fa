package diag

import (
	"fmt"
	"sort"

	"fortio.org/safecast"
)

type Bag struct {
	items []Diagnostic
	limit uint16
}

// NewBag creates a bag holding at most limit diagnostics. Limits beyond
// the uint16 range are clamped.
func NewBag(limit int) *Bag {
	capped, err := safecast.Conv[uint16](limit)
	if err != nil {
		capped = ^uint16(0)
		if limit < 0 {
			capped = 0
		}
	}
	return &Bag{
		items: make([]Diagnostic, 0, min(int(capped), 64)),
		limit: capped,
	}
}

// Add appends d unless the limit is reached. It reports whether d was kept.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.limit) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() uint16 {
	return b.limit
}

// HasErrors reports whether any diagnostic has Severity >= Error.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any diagnostic has Severity >= Warning.
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevWarning {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the backing slice. Callers must not modify it.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge appends every diagnostic of other, raising the limit when needed.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	if total := len(b.items) + len(other.items); total > int(b.limit) {
		if n, err := safecast.Conv[uint16](total); err == nil {
			b.limit = n
		} else {
			b.limit = ^uint16(0)
		}
	}
	room := int(b.limit) - len(b.items)
	b.items = append(b.items, other.items[:min(room, len(other.items))]...)
}

// Filter keeps diagnostics at or above sev.
func (b *Bag) Filter(sev Severity) {
	kept := b.items[:0]
	for _, d := range b.items {
		if d.Severity >= sev {
			kept = append(kept, d)
		}
	}
	b.items = kept
}

// Sort orders diagnostics by path, begin, end, severity (desc) and code for
// deterministic output. Diagnostics without an origin come first.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		pi, pj := di.Primary, dj.Primary
		switch {
		case pi == nil && pj != nil:
			return true
		case pi != nil && pj == nil:
			return false
		case pi != nil:
			if pi.Path != pj.Path {
				return pi.Path < pj.Path
			}
			if pi.Begin() != pj.Begin() {
				return pi.Begin().Before(pj.Begin())
			}
			if pi.End() != pj.End() {
				return pi.End().Before(pj.End())
			}
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}

// Dedup drops repeated diagnostics with the same code, origin and message.
func (b *Bag) Dedup() {
	seen := make(map[string]bool)
	kept := make([]Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		where := "-"
		if d.Primary != nil {
			where = d.Primary.String()
		}
		key := fmt.Sprintf("%s:%s:%s", d.Code.ID(), where, d.Message)
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, d)
	}
	b.items = kept
}
