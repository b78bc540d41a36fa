package source

import (
	"fmt"
	"strconv"
	"strings"
)

// Origin is the textual range where an entity was declared. Lines and columns
// are 1-based; the end position is inclusive of the last character.
type Origin struct {
	Path        string
	BeginLine   uint32
	BeginColumn uint32
	EndLine     uint32
	EndColumn   uint32
}

// NewOrigin validates the coordinates and returns an Origin.
func NewOrigin(path string, beginLine, beginCol, endLine, endCol uint32) (Origin, error) {
	if beginLine == 0 || beginCol == 0 || endLine == 0 || endCol == 0 {
		return Origin{}, fmt.Errorf("origin %s: lines and columns are 1-based", path)
	}
	if endLine < beginLine || (endLine == beginLine && endCol < beginCol) {
		return Origin{}, fmt.Errorf("origin %s: end %d:%d precedes begin %d:%d", path, endLine, endCol, beginLine, beginCol)
	}
	return Origin{
		Path:        normalizePath(path),
		BeginLine:   beginLine,
		BeginColumn: beginCol,
		EndLine:     endLine,
		EndColumn:   endCol,
	}, nil
}

// Begin returns the first position of the origin.
func (o Origin) Begin() LineCol { return LineCol{Line: o.BeginLine, Col: o.BeginColumn} }

// End returns the last position of the origin.
func (o Origin) End() LineCol { return LineCol{Line: o.EndLine, Col: o.EndColumn} }

func (o Origin) String() string {
	return fmt.Sprintf("%s:%d:%d-%d:%d", o.Path, o.BeginLine, o.BeginColumn, o.EndLine, o.EndColumn)
}

// Contains reports whether pos lies inside the origin.
func (o Origin) Contains(pos LineCol) bool {
	return !pos.Before(o.Begin()) && !o.End().Before(pos)
}

// Cover returns the smallest origin spanning both o and other. Origins from
// different files are not merged; o is returned unchanged.
func (o Origin) Cover(other Origin) Origin {
	if o.Path != other.Path {
		return o
	}
	if other.Begin().Before(o.Begin()) {
		o.BeginLine, o.BeginColumn = other.BeginLine, other.BeginColumn
	}
	if o.End().Before(other.End()) {
		o.EndLine, o.EndColumn = other.EndLine, other.EndColumn
	}
	return o
}

// ParseOrigin parses the "path:line:col-line:col" form produced by String.
// The short form "path:line:col" denotes a single position.
func ParseOrigin(s string) (Origin, error) {
	s = strings.TrimSpace(s)
	rest, colTok, ok := cutLast(s)
	if !ok {
		return Origin{}, fmt.Errorf("origin %q: missing position", s)
	}
	rest, lineTok, ok := cutLast(rest)
	if !ok {
		return Origin{}, fmt.Errorf("origin %q: missing line", s)
	}

	var bl, bc, el, ec uint64
	var err error
	if beginCol, endLine, isRange := strings.Cut(lineTok, "-"); isRange {
		var beginLine string
		rest, beginLine, ok = cutLast(rest)
		if !ok {
			return Origin{}, fmt.Errorf("origin %q: missing begin line", s)
		}
		if bl, err = parseCoord(beginLine); err != nil {
			return Origin{}, fmt.Errorf("origin %q: %w", s, err)
		}
		if bc, err = parseCoord(beginCol); err != nil {
			return Origin{}, fmt.Errorf("origin %q: %w", s, err)
		}
		if el, err = parseCoord(endLine); err != nil {
			return Origin{}, fmt.Errorf("origin %q: %w", s, err)
		}
		if ec, err = parseCoord(colTok); err != nil {
			return Origin{}, fmt.Errorf("origin %q: %w", s, err)
		}
	} else {
		if bl, err = parseCoord(lineTok); err != nil {
			return Origin{}, fmt.Errorf("origin %q: %w", s, err)
		}
		if bc, err = parseCoord(colTok); err != nil {
			return Origin{}, fmt.Errorf("origin %q: %w", s, err)
		}
		el, ec = bl, bc
	}
	if rest == "" {
		return Origin{}, fmt.Errorf("origin %q: empty path", s)
	}
	return NewOrigin(rest, uint32(bl), uint32(bc), uint32(el), uint32(ec))
}

// cutLast splits s around its last ':'; the path may itself contain colons.
func cutLast(s string) (head, tail string, ok bool) {
	i := strings.LastIndexByte(s, ':')
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+1:], true
}

func parseCoord(s string) (uint64, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("bad coordinate %q: %w", s, err)
	}
	return n, nil
}
