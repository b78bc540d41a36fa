package layout

import (
	"math/bits"
	"slices"

	"fortio.org/safecast"
)

// MaxWords bounds the storage of one value.
const MaxWords = 1 << 24

// Shape is the storage layout computed for a sized Vector.
//
// The innermost packed dimension forms a row stored LSB first, spanning
// RowWords consecutive words. Every index of an outer packed dimension starts
// a new row, and every unpacked element starts a new word. For four-state
// vectors each value word is immediately followed by its control word.
type Shape struct {
	Target    Target
	FourState bool
	Signed    bool
	Packed    []Dimension
	Unpacked  []Dimension

	// PackedDeclared and UnpackedDeclared keep a declared but empty list
	// apart from an absent one.
	PackedDeclared   bool
	UnpackedDeclared bool

	// Planes is 2 for four-state storage and 1 otherwise.
	Planes int

	// RowBits is the width of the innermost packed dimension (1 for scalars)
	// and RowWords the number of value words one row occupies. Rows counts
	// the rows of one element.
	RowBits  uint64
	RowWords int
	Rows     int

	// PackedWords[i] is the number of value words spanned by packed dimension i.
	PackedWords []int

	// ElementBits is the packed width of one unpacked element; ElementWords
	// counts its value and control words.
	ElementBits  uint64
	ElementWords int

	// Elements is the product of the unpacked widths, TotalWords the length
	// of Value.Words and Bits is $bits (ElementBits * Elements).
	Elements   int
	TotalWords int
	Bits       uint64

	wordBits uint64
}

// Compute lays out v for the target. Unsized vectors have no layout.
func Compute(target Target, v Vector) (Shape, error) {
	if err := target.Validate(); err != nil {
		return Shape{}, err
	}
	if !v.Sized {
		return Shape{}, errUnsized()
	}

	s := Shape{
		Target:    target,
		FourState: v.FourState,
		Signed:    v.Signed,
		Packed:    v.Packed.List(),
		Unpacked:  v.Unpacked.List(),
		Planes:    1,
		RowBits:   1,

		PackedDeclared:   v.Packed.Declared(),
		UnpackedDeclared: v.Unpacked.Declared(),
	}
	if v.FourState {
		s.Planes = 2
	}

	packedWidths := make([]uint64, len(s.Packed))
	for i, d := range s.Packed {
		w, err := d.Width()
		if err != nil {
			return Shape{}, err
		}
		packedWidths[i] = w
	}
	if n := len(packedWidths); n > 0 {
		s.RowBits = packedWidths[n-1]
	}

	wordBits, err := safecast.Conv[uint64](target.WordBits)
	if err != nil {
		return Shape{}, err
	}
	s.wordBits = wordBits
	rowWords := (s.RowBits + wordBits - 1) / wordBits
	if rowWords > MaxWords {
		return Shape{}, errTooLarge(rowWords)
	}

	// PackedWords is filled innermost first; an outer dimension repeats the
	// dimension inside it once per index.
	s.PackedWords = make([]int, len(s.Packed))
	span := rowWords
	rows := uint64(1)
	for i := len(s.Packed) - 1; i >= 0; i-- {
		if i < len(s.Packed)-1 {
			if span, err = mulWords(span, packedWidths[i]); err != nil {
				return Shape{}, err
			}
			if rows, err = mulWords(rows, packedWidths[i]); err != nil {
				return Shape{}, err
			}
		}
		if s.PackedWords[i], err = safecast.Conv[int](span); err != nil {
			return Shape{}, errTooLarge(span)
		}
	}
	valueWords := span

	elementBits, err := v.Packed.Width()
	if err != nil {
		return Shape{}, err
	}
	elements, err := v.Unpacked.Width()
	if err != nil {
		return Shape{}, err
	}
	elementWords, err := mulWords(valueWords, uint64(s.Planes))
	if err != nil {
		return Shape{}, err
	}
	total, err := mulWords(elementWords, elements)
	if err != nil {
		return Shape{}, err
	}
	totalBits, err := mulWidth(elementBits, elements)
	if err != nil {
		return Shape{}, errTooLarge(total)
	}

	counts := [...]struct {
		dst *int
		n   uint64
	}{
		{&s.RowWords, rowWords},
		{&s.Rows, rows},
		{&s.ElementWords, elementWords},
		{&s.Elements, elements},
		{&s.TotalWords, total},
	}
	for _, c := range counts {
		if *c.dst, err = safecast.Conv[int](c.n); err != nil {
			return Shape{}, errTooLarge(total)
		}
	}
	s.ElementBits = elementBits
	s.Bits = totalBits
	return s, nil
}

// BitsOf returns $bits for v.
func BitsOf(v Vector) (uint64, error) {
	if !v.Sized {
		return 0, errUnsized()
	}
	packed, err := v.Packed.Width()
	if err != nil {
		return 0, err
	}
	unpacked, err := v.Unpacked.Width()
	if err != nil {
		return 0, err
	}
	total, err := mulWidth(packed, unpacked)
	if err != nil {
		return 0, errMalformed(Dimension{}, "$bits overflows 64 bits")
	}
	return total, nil
}

// Vector returns the descriptor the shape was computed from (always sized).
func (s Shape) Vector() Vector {
	v := Vector{FourState: s.FourState, Sized: true, Signed: s.Signed}
	if s.PackedDeclared || len(s.Packed) > 0 {
		v.Packed = Ranges(s.Packed...)
	}
	if s.UnpackedDeclared || len(s.Unpacked) > 0 {
		v.Unpacked = Ranges(s.Unpacked...)
	}
	return v
}

// Equal compares two shapes field by field.
func (s Shape) Equal(o Shape) bool {
	return s.Target == o.Target &&
		s.FourState == o.FourState &&
		s.Signed == o.Signed &&
		s.PackedDeclared == o.PackedDeclared &&
		s.UnpackedDeclared == o.UnpackedDeclared &&
		slices.Equal(s.Packed, o.Packed) &&
		slices.Equal(s.Unpacked, o.Unpacked) &&
		s.TotalWords == o.TotalWords
}

func mulWidth(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, errMalformed(Dimension{}, "width overflows 64 bits")
	}
	return lo, nil
}

func mulWords(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 || lo > MaxWords {
		if hi != 0 {
			return 0, errTooLarge(^uint64(0))
		}
		return 0, errTooLarge(lo)
	}
	return lo, nil
}
