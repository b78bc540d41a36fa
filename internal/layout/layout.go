package layout

// Engine computes storage layouts for one Target. It holds no mutable state,
// so a single Engine may be shared by concurrent readers.
type Engine struct {
	Target Target
}

// New creates a new Engine for the specified target.
func New(target Target) *Engine {
	return &Engine{Target: target}
}

// LayoutOf computes the storage shape of v.
func (e *Engine) LayoutOf(v Vector) (Shape, error) {
	if e == nil {
		return Compute(Host(), v)
	}
	return Compute(e.Target, v)
}

// BitsOf returns $bits of v.
func (e *Engine) BitsOf(v Vector) (uint64, error) {
	return BitsOf(v)
}

// SizeOf returns the storage size of one value of v in bytes, control words
// included.
func (e *Engine) SizeOf(v Vector) (int, error) {
	s, err := e.LayoutOf(v)
	if err != nil {
		return 0, err
	}
	return s.TotalWords * s.Target.WordBits / 8, nil
}

// Default returns the value an uninitialized variable of v holds.
func (e *Engine) Default(v Vector) (*Value, error) {
	s, err := e.LayoutOf(v)
	if err != nil {
		return nil, err
	}
	return s.Unknown(), nil
}
