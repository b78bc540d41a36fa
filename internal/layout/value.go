package layout

import (
	"fmt"
	"slices"
	"strings"
)

// State is the logical value of one bit.
type State uint8

const (
	Bit0 State = iota
	Bit1
	BitX
	BitZ
)

func (s State) String() string {
	switch s {
	case Bit0:
		return "0"
	case Bit1:
		return "1"
	case BitX:
		return "x"
	case BitZ:
		return "z"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Valid reports whether s is one of the four defined states.
func (s State) Valid() bool { return s <= BitZ }

// Known reports whether s is 0 or 1.
func (s State) Known() bool { return s == Bit0 || s == Bit1 }

// planes returns the (value, control) bit pair: 0=(0,0) 1=(1,0) X=(0,1) Z=(1,1).
func (s State) planes() (val, ctrl uint64) {
	switch s {
	case Bit1:
		return 1, 0
	case BitX:
		return 0, 1
	case BitZ:
		return 1, 1
	default:
		return 0, 0
	}
}

func stateOf(val, ctrl uint64) State {
	return State(val&1 | (ctrl&1)<<1)
}

// Value is the storage of one concrete integral instance. A nil *Value means
// the entity has a type but no value.
type Value struct {
	Words []uint64
}

// Clone returns a deep copy; nil stays nil.
func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}
	return &Value{Words: slices.Clone(v.Words)}
}

// Equal compares the stored words; two nil values are equal.
func (v *Value) Equal(o *Value) bool {
	if v == nil || o == nil {
		return v == nil && o == nil
	}
	return slices.Equal(v.Words, o.Words)
}

// ParseBits reads an MSB-first literal such as "01xz" into LSB-first states.
// Underscores are ignored; '?' is a synonym for z.
func ParseBits(lit string) ([]State, error) {
	out := make([]State, 0, len(lit))
	for i := len(lit) - 1; i >= 0; i-- {
		switch lit[i] {
		case '0':
			out = append(out, Bit0)
		case '1':
			out = append(out, Bit1)
		case 'x', 'X':
			out = append(out, BitX)
		case 'z', 'Z', '?':
			out = append(out, BitZ)
		case '_':
		default:
			return nil, fmt.Errorf("invalid bit %q at offset %d in %q", lit[i], i, lit)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty bit literal %q", lit)
	}
	return out, nil
}

// FormatBits renders LSB-first states MSB first, the inverse of ParseBits.
func FormatBits(states []State) string {
	var b strings.Builder
	b.Grow(len(states))
	for i := len(states) - 1; i >= 0; i-- {
		b.WriteString(states[i].String())
	}
	return b.String()
}
