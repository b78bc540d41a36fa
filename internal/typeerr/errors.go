package typeerr

import (
	"errors"
	"fmt"
	"strings"

	"svcore/internal/source"
)

// Kind categorizes the error.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindMalformedDimension
	KindUnsizedWidth
	KindIndexOutOfRange
	KindUninitializedValue
	KindTwoStateOverflow
	KindDuplicateEnumMember
	KindUnsizedEnumBase
	KindUnresolvedTypedef
	KindShapeMismatch
	KindEnumValueOverflow
	KindDuplicateEnumValue
	KindInvalidEnumBase
	KindTypedefCycle
	KindAlreadyResolved
	KindUnknownType
	KindDuplicateDeclaration
	KindIndeterminate
	KindForwardMismatch
)

var kindNames = [...]string{
	KindUnknown:              "unknown",
	KindMalformedDimension:   "malformed_dimension",
	KindUnsizedWidth:         "unsized_width",
	KindIndexOutOfRange:      "index_out_of_range",
	KindUninitializedValue:   "uninitialized_value",
	KindTwoStateOverflow:     "two_state_overflow",
	KindDuplicateEnumMember:  "duplicate_enum_member",
	KindUnsizedEnumBase:      "unsized_enum_base",
	KindUnresolvedTypedef:    "unresolved_typedef",
	KindShapeMismatch:        "shape_mismatch",
	KindEnumValueOverflow:    "enum_value_overflow",
	KindDuplicateEnumValue:   "duplicate_enum_value",
	KindInvalidEnumBase:      "invalid_enum_base",
	KindTypedefCycle:         "typedef_cycle",
	KindAlreadyResolved:      "already_resolved",
	KindUnknownType:          "unknown_type",
	KindDuplicateDeclaration: "duplicate_declaration",
	KindIndeterminate:        "indeterminate",
	KindForwardMismatch:      "forward_mismatch",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Kinds lists every defined kind except KindUnknown.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kindNames)-1)
	for k := KindMalformedDimension; int(k) < len(kindNames); k++ {
		out = append(out, k)
	}
	return out
}

// Sentinels for errors.Is.
var (
	ErrMalformedDimension   = &Error{Kind: KindMalformedDimension}
	ErrUnsizedWidth         = &Error{Kind: KindUnsizedWidth}
	ErrIndexOutOfRange      = &Error{Kind: KindIndexOutOfRange}
	ErrUninitializedValue   = &Error{Kind: KindUninitializedValue}
	ErrTwoStateOverflow     = &Error{Kind: KindTwoStateOverflow}
	ErrDuplicateEnumMember  = &Error{Kind: KindDuplicateEnumMember}
	ErrUnsizedEnumBase      = &Error{Kind: KindUnsizedEnumBase}
	ErrUnresolvedTypedef    = &Error{Kind: KindUnresolvedTypedef}
	ErrShapeMismatch        = &Error{Kind: KindShapeMismatch}
	ErrEnumValueOverflow    = &Error{Kind: KindEnumValueOverflow}
	ErrDuplicateEnumValue   = &Error{Kind: KindDuplicateEnumValue}
	ErrInvalidEnumBase      = &Error{Kind: KindInvalidEnumBase}
	ErrTypedefCycle         = &Error{Kind: KindTypedefCycle}
	ErrAlreadyResolved      = &Error{Kind: KindAlreadyResolved}
	ErrUnknownType          = &Error{Kind: KindUnknownType}
	ErrDuplicateDeclaration = &Error{Kind: KindDuplicateDeclaration}
	ErrIndeterminate        = &Error{Kind: KindIndeterminate}
	ErrForwardMismatch      = &Error{Kind: KindForwardMismatch}
)

// Error is the structured error used throughout the core.
type Error struct {
	Cause  error
	Origin *source.Origin
	Op     string
	Detail string
	Kind   Kind
}

// Error implements the error interface
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Origin != nil {
		b.WriteString(" (at ")
		b.WriteString(e.Origin.String())
		b.WriteByte(')')
	}
	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}
	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target has the same Kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return KindUnknown
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(kind Kind) *Builder {
	return &Builder{err: Error{Kind: kind}}
}

// Op sets the name of the failing operation.
func (b *Builder) Op(op string) *Builder {
	b.err.Op = op
	return b
}

// At records the declaration origin, if any.
func (b *Builder) At(origin *source.Origin) *Builder {
	if origin != nil {
		o := *origin
		b.err.Origin = &o
	}
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	e := b.err
	return &e
}

// WithOrigin returns a copy of err annotated with origin when err is an
// *Error without one. Other errors are returned unchanged.
func WithOrigin(err error, origin *source.Origin) error {
	var te *Error
	if origin == nil || !errors.As(err, &te) || te.Origin != nil {
		return err
	}
	cp := *te
	o := *origin
	cp.Origin = &o
	return &cp
}
