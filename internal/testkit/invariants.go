// Package testkit holds invariant checks shared by tests and fuzz harnesses.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"svcore/internal/layout"
	"svcore/internal/source"
	"svcore/internal/types"
)

// CheckShapeInvariants verifies the arithmetic that ties a Shape together:
// 1) element storage is rows times row words times planes
// 2) total storage is elements times element words, within MaxWords
// 3) $bits is element bits times elements
// 4) every row fits its words
func CheckShapeInvariants(s layout.Shape) error {
	if s.Planes != 1 && s.Planes != 2 {
		return fmt.Errorf("planes = %d", s.Planes)
	}
	if s.FourState != (s.Planes == 2) {
		return fmt.Errorf("four-state %v with %d planes", s.FourState, s.Planes)
	}
	if got := s.Rows * s.RowWords * s.Planes; got != s.ElementWords {
		return fmt.Errorf("element words %d, rows give %d", s.ElementWords, got)
	}
	if got := s.Elements * s.ElementWords; got != s.TotalWords {
		return fmt.Errorf("total words %d, elements give %d", s.TotalWords, got)
	}
	if s.TotalWords > layout.MaxWords {
		return fmt.Errorf("total words %d above limit", s.TotalWords)
	}
	elements, err := safecast.Conv[uint64](s.Elements)
	if err != nil {
		return fmt.Errorf("elements: %w", err)
	}
	if s.ElementBits*elements != s.Bits {
		return fmt.Errorf("bits %d, elements give %d", s.Bits, s.ElementBits*elements)
	}
	wordBits, err := safecast.Conv[uint64](s.Target.WordBits)
	if err != nil {
		return fmt.Errorf("word bits: %w", err)
	}
	rowWords, err := safecast.Conv[uint64](s.RowWords)
	if err != nil {
		return fmt.Errorf("row words: %w", err)
	}
	if s.RowBits > rowWords*wordBits {
		return fmt.Errorf("row of %d bits in %d words", s.RowBits, s.RowWords)
	}
	return nil
}

// CheckCatalogOrigins verifies that every origin pointing into f lies
// within its lines, with the end not before the begin.
func CheckCatalogOrigins(c *types.Catalog, f *source.File) error {
	if c == nil || f == nil {
		return nil
	}
	lines, err := safecast.Conv[uint32](len(f.LineIdx) + 1)
	if err != nil {
		return fmt.Errorf("line count overflow: %w", err)
	}
	for id, t := range c.Entries() {
		o := t.Origin()
		if o == nil || o.Path != f.Path {
			continue
		}
		if o.BeginLine == 0 || o.BeginLine > lines || o.EndLine > lines {
			return fmt.Errorf("entry %d (%s): origin %s outside %d lines", id, t.Name(), o, lines)
		}
		if o.End().Before(o.Begin()) {
			return fmt.Errorf("entry %d (%s): origin %s ends before it begins", id, t.Name(), o)
		}
	}
	return nil
}
