package layout

// Fits reports whether x is representable in one element of the shape,
// honouring its signedness.
func (s Shape) Fits(x int64) bool {
	n := s.ElementBits
	if s.Signed {
		if n >= 64 {
			return true
		}
		limit := int64(1) << (n - 1)
		return x >= -limit && x < limit
	}
	if x < 0 {
		return false
	}
	if n >= 64 {
		return true
	}
	return uint64(x) < uint64(1)<<n
}

// SetInt64 stores x into the element selected by unpacked, two's complement
// extended (or truncated) to ElementBits. The element becomes fully known.
func (s Shape) SetInt64(v *Value, unpacked []int64, x int64) error {
	const op = "set_int"
	if err := s.check(op, v); err != nil {
		return err
	}
	elem, err := s.elementIndex(op, unpacked)
	if err != nil {
		return err
	}
	raw := uint64(x) //nolint:gosec // two's complement reinterpretation is intended
	for k := range s.ElementBits {
		var st State
		switch {
		case k < 64:
			st = State(raw >> k & 1)
		case x < 0:
			st = Bit1
		default:
			st = Bit0
		}
		s.put(v, s.locateLogical(elem, k), st)
	}
	return nil
}

// Int64 reads the selected element as an integer. Signed shapes are sign
// extended; elements wider than 64 bits keep their low 64 bits. An element
// holding X or Z has no integer value.
func (s Shape) Int64(v *Value, unpacked []int64) (int64, error) {
	const op = "int_value"
	if err := s.check(op, v); err != nil {
		return 0, err
	}
	elem, err := s.elementIndex(op, unpacked)
	if err != nil {
		return 0, err
	}
	var raw uint64
	for k := range s.ElementBits {
		st := s.get(v, s.locateLogical(elem, k))
		if !st.Known() {
			return 0, errIndeterminate(op, k, st)
		}
		if k < 64 && st == Bit1 {
			raw |= 1 << k
		}
	}
	if s.Signed && s.ElementBits < 64 && raw>>(s.ElementBits-1)&1 == 1 {
		raw |= ^uint64(0) << s.ElementBits
	}
	return int64(raw), nil //nolint:gosec // two's complement reinterpretation is intended
}
