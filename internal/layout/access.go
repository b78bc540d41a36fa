package layout

import (
	"fmt"
)

// position addresses one bit inside Value.Words.
type position struct {
	word  int // index of the value word; the control word follows it
	shift uint
}

func (s Shape) elementIndex(op string, unpacked []int64) (int, error) {
	if len(unpacked) != len(s.Unpacked) {
		return 0, errIndex(op, "expected %d unpacked indices, got %d", len(s.Unpacked), len(unpacked))
	}
	elem := 0
	for i, d := range s.Unpacked {
		off, ok := d.offset(unpacked[i])
		if !ok {
			return 0, errIndex(op, "unpacked index %d outside %s", unpacked[i], d)
		}
		w, _ := d.Width() // validated by Compute
		elem = elem*int(w) + int(off) //nolint:gosec // product bounded by Elements
	}
	return elem, nil
}

func (s Shape) packedIndex(op string, packed []int64) (row int, bit uint64, err error) {
	if len(packed) != len(s.Packed) {
		return 0, 0, errIndex(op, "expected %d packed indices, got %d", len(s.Packed), len(packed))
	}
	n := len(s.Packed)
	for i, d := range s.Packed {
		off, ok := d.offset(packed[i])
		if !ok {
			return 0, 0, errIndex(op, "packed index %d outside %s", packed[i], d)
		}
		if i == n-1 {
			bit = off
			break
		}
		w, _ := d.Width()
		row = row*int(w) + int(off) //nolint:gosec // product bounded by Rows
	}
	return row, bit, nil
}

// locate maps (element, row, bit within row) to its storage position.
func (s Shape) locate(elem, row int, bit uint64) position {
	valueWord := row*s.RowWords + int(bit/s.wordBits) //nolint:gosec // bit < RowBits
	return position{
		word:  elem*s.ElementWords + valueWord*s.Planes,
		shift: uint(bit % s.wordBits),
	}
}

// locateLogical maps the k-th bit (LSB first) of element elem.
func (s Shape) locateLogical(elem int, k uint64) position {
	row := int(k / s.RowBits) //nolint:gosec // k < ElementBits
	return s.locate(elem, row, k%s.RowBits)
}

// computed rejects shapes that did not come from Compute, or whose target
// was changed afterwards.
func (s Shape) computed(op string) error {
	if s.wordBits == 0 || s.Target.WordBits <= 0 || uint64(s.Target.WordBits) != s.wordBits {
		return errShape(op, "shape was not computed for target %q", s.Target.Name)
	}
	return nil
}

func (s Shape) check(op string, v *Value) error {
	if err := s.computed(op); err != nil {
		return err
	}
	if v == nil {
		return errUninitialized(op)
	}
	if len(v.Words) != s.TotalWords {
		return errShape(op, "value has %d words, layout needs %d", len(v.Words), s.TotalWords)
	}
	return nil
}

func (s Shape) get(v *Value, p position) State {
	val := v.Words[p.word] >> p.shift
	if s.Planes == 1 {
		return stateOf(val, 0)
	}
	return stateOf(val, v.Words[p.word+1]>>p.shift)
}

func (s Shape) put(v *Value, p position, st State) {
	val, ctrl := st.planes()
	mask := uint64(1) << p.shift
	v.Words[p.word] = v.Words[p.word]&^mask | val<<p.shift
	if s.Planes == 2 {
		v.Words[p.word+1] = v.Words[p.word+1]&^mask | ctrl<<p.shift
	}
}

func (s Shape) admit(op string, st State) error {
	if !st.Valid() {
		return errShape(op, "invalid bit state %d", uint8(st))
	}
	if s.Planes == 1 && !st.Known() {
		return errTwoState(op, st)
	}
	return nil
}

// ReadBit returns the bit selected by one index per packed dimension and one
// per unpacked dimension. It never modifies v.
func (s Shape) ReadBit(v *Value, packed, unpacked []int64) (State, error) {
	const op = "read_bit"
	if err := s.check(op, v); err != nil {
		return Bit0, err
	}
	elem, err := s.elementIndex(op, unpacked)
	if err != nil {
		return Bit0, err
	}
	row, bit, err := s.packedIndex(op, packed)
	if err != nil {
		return Bit0, err
	}
	return s.get(v, s.locate(elem, row, bit)), nil
}

// WriteBit stores st at the selected bit. X and Z are rejected for two-state
// vectors.
func (s Shape) WriteBit(v *Value, packed, unpacked []int64, st State) error {
	const op = "write_bit"
	if err := s.check(op, v); err != nil {
		return err
	}
	if err := s.admit(op, st); err != nil {
		return err
	}
	elem, err := s.elementIndex(op, unpacked)
	if err != nil {
		return err
	}
	row, bit, err := s.packedIndex(op, packed)
	if err != nil {
		return err
	}
	s.put(v, s.locate(elem, row, bit), st)
	return nil
}

// Pack encodes Bits logical states (element 0 first, LSB first within each
// element) into storage. Padding bits are zero.
func (s Shape) Pack(states []State) (*Value, error) {
	const op = "pack"
	if err := s.computed(op); err != nil {
		return nil, err
	}
	if uint64(len(states)) != s.Bits {
		return nil, errShape(op, "got %d bits, layout holds %d", len(states), s.Bits)
	}
	v := &Value{Words: make([]uint64, s.TotalWords)}
	i := 0
	for elem := range s.Elements {
		for k := range s.ElementBits {
			st := states[i]
			if err := s.admit(op, st); err != nil {
				return nil, fmt.Errorf("bit %d: %w", i, err)
			}
			s.put(v, s.locateLogical(elem, k), st)
			i++
		}
	}
	return v, nil
}

// Unpack is the inverse of Pack. Padding bits are ignored.
func (s Shape) Unpack(v *Value) ([]State, error) {
	const op = "unpack"
	if err := s.check(op, v); err != nil {
		return nil, err
	}
	out := make([]State, 0, s.Bits)
	for elem := range s.Elements {
		for k := range s.ElementBits {
			out = append(out, s.get(v, s.locateLogical(elem, k)))
		}
	}
	return out, nil
}

// Fill returns a value with every bit set to st.
func (s Shape) Fill(st State) (*Value, error) {
	if err := s.computed("fill"); err != nil {
		return nil, err
	}
	if err := s.admit("fill", st); err != nil {
		return nil, err
	}
	v := &Value{Words: make([]uint64, s.TotalWords)}
	val, ctrl := st.planes()
	if val == 0 && ctrl == 0 {
		return v, nil
	}
	wb := s.wordBits
	for elem := range s.Elements {
		for row := range s.Rows {
			for w := range s.RowWords {
				used := min(wb, s.RowBits-uint64(w)*wb) //nolint:gosec // w < RowWords
				mask := ^uint64(0)
				if used < 64 {
					mask = uint64(1)<<used - 1
				}
				p := s.locate(elem, row, uint64(w)*wb) //nolint:gosec // w < RowWords
				if val != 0 {
					v.Words[p.word] = mask
				}
				if ctrl != 0 {
					v.Words[p.word+1] = mask
				}
			}
		}
	}
	return v, nil
}

// Zero returns an all-zero value.
func (s Shape) Zero() *Value {
	return &Value{Words: make([]uint64, s.TotalWords)}
}

// Unknown returns the default value of an uninitialized variable: all X for
// four-state vectors, all 0 for two-state ones.
func (s Shape) Unknown() *Value {
	if s.Planes == 1 {
		return s.Zero()
	}
	v, _ := s.Fill(BitX) // X is admitted for four-state shapes
	return v
}

// Element returns a copy of the storage words of one unpacked element, in
// storage order (value and control words interleaved for four-state shapes).
func (s Shape) Element(v *Value, unpacked []int64) ([]uint64, error) {
	const op = "element"
	if err := s.check(op, v); err != nil {
		return nil, err
	}
	elem, err := s.elementIndex(op, unpacked)
	if err != nil {
		return nil, err
	}
	start := elem * s.ElementWords
	return append([]uint64(nil), v.Words[start:start+s.ElementWords]...), nil
}

// SetElement overwrites one unpacked element with words laid out as Element
// returns them. Bits above the row width are cleared.
func (s Shape) SetElement(v *Value, unpacked []int64, words []uint64) error {
	const op = "set_element"
	if err := s.check(op, v); err != nil {
		return err
	}
	elem, err := s.elementIndex(op, unpacked)
	if err != nil {
		return err
	}
	if len(words) != s.ElementWords {
		return errShape(op, "got %d words, element holds %d", len(words), s.ElementWords)
	}
	wb := s.wordBits
	for row := range s.Rows {
		for w := range s.RowWords {
			used := min(wb, s.RowBits-uint64(w)*wb) //nolint:gosec // w < RowWords
			mask := ^uint64(0)
			if used < 64 {
				mask = uint64(1)<<used - 1
			}
			p := s.locate(elem, row, uint64(w)*wb) //nolint:gosec // w < RowWords
			rel := p.word - elem*s.ElementWords
			for plane := range s.Planes {
				v.Words[p.word+plane] = words[rel+plane] & mask
			}
		}
	}
	return nil
}
