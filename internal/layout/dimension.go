package layout

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Dimension is one packed or unpacked range, written [Left:Right] in source.
// Left is the upper (most significant) bound; Right the lower one. Either may
// be numerically larger.
type Dimension struct {
	Left  int64
	Right int64
}

// Dim is shorthand for Dimension{Left: left, Right: right}.
func Dim(left, right int64) Dimension {
	return Dimension{Left: left, Right: right}
}

// Width returns |Left-Right|+1.
func (d Dimension) Width() (uint64, error) {
	var span uint64
	if d.Left >= d.Right {
		span = uint64(d.Left) - uint64(d.Right) //nolint:gosec // two's complement difference is exact for Left >= Right
	} else {
		span = uint64(d.Right) - uint64(d.Left) //nolint:gosec // two's complement difference is exact for Right > Left
	}
	if span == math.MaxUint64 {
		return 0, errMalformed(d, "width does not fit in 64 bits")
	}
	return span + 1, nil
}

// offset returns the position of idx counted from the Right bound.
func (d Dimension) offset(idx int64) (uint64, bool) {
	lo, hi := d.Right, d.Left
	if lo > hi {
		lo, hi = hi, lo
	}
	if idx < lo || idx > hi {
		return 0, false
	}
	if d.Left >= d.Right {
		return uint64(idx) - uint64(d.Right), true //nolint:gosec // idx >= Right
	}
	return uint64(d.Right) - uint64(idx), true //nolint:gosec // idx <= Right
}

func (d Dimension) String() string {
	return fmt.Sprintf("[%d:%d]", d.Left, d.Right)
}

// Dimensions is an optional ordered list of ranges. The zero value means the
// declaration carried no dimension list at all (a plain scalar), which is
// distinct from a declared list that happens to be empty.
type Dimensions struct {
	ranges   []Dimension
	declared bool
}

// Ranges declares a dimension list, outermost first.
func Ranges(ds ...Dimension) Dimensions {
	return Dimensions{ranges: slices.Clone(ds), declared: true}
}

// Declared reports whether a dimension list was given.
func (d Dimensions) Declared() bool { return d.declared }

// Len returns the number of ranges.
func (d Dimensions) Len() int { return len(d.ranges) }

// At returns the i-th range, outermost first.
func (d Dimensions) At(i int) Dimension { return d.ranges[i] }

// List returns a copy of the ranges.
func (d Dimensions) List() []Dimension { return slices.Clone(d.ranges) }

// Equal compares the declared flag and every range in order.
func (d Dimensions) Equal(o Dimensions) bool {
	return d.declared == o.declared && slices.Equal(d.ranges, o.ranges)
}

// Width returns the product of all range widths (1 for none).
func (d Dimensions) Width() (uint64, error) {
	total := uint64(1)
	for _, r := range d.ranges {
		w, err := r.Width()
		if err != nil {
			return 0, err
		}
		total, err = mulWidth(total, w)
		if err != nil {
			return 0, errMalformed(r, "total width overflows")
		}
	}
	return total, nil
}

func (d Dimensions) String() string {
	if !d.declared {
		return ""
	}
	var b strings.Builder
	for _, r := range d.ranges {
		b.WriteString(r.String())
	}
	return b.String()
}

// Vector describes an integral type as far as storage is concerned.
type Vector struct {
	FourState bool
	Sized     bool
	Signed    bool
	Packed    Dimensions
	Unpacked  Dimensions
}

// Equal reports whether two vectors are structurally identical.
func (v Vector) Equal(o Vector) bool {
	return v.FourState == o.FourState &&
		v.Sized == o.Sized &&
		v.Signed == o.Signed &&
		v.Packed.Equal(o.Packed) &&
		v.Unpacked.Equal(o.Unpacked)
}
