package typeerr

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"svcore/internal/source"
)

func TestError_Error(t *testing.T) {
	origin := &source.Origin{Path: "top.sv", BeginLine: 3, BeginColumn: 1, EndLine: 3, EndColumn: 9}
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name:     "full error",
			err:      New(KindDuplicateEnumMember).Op("enum").At(origin).Detail("member %q declared twice", "A").Build(),
			contains: []string{"enum: ", "duplicate_enum_member", `member "A" declared twice`, "top.sv:3:1-3:9"},
		},
		{
			name:     "minimal error",
			err:      &Error{Kind: KindUnsizedWidth},
			contains: []string{"unsized_width"},
		},
		{
			name:     "error with cause",
			err:      New(KindMalformedDimension).Cause(errors.New("overflow")).Build(),
			contains: []string{"malformed_dimension", "caused by", "overflow"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_IsMatchesKind(t *testing.T) {
	err := New(KindUnresolvedTypedef).Op("instantiate").Detail("fwd_t").Build()
	wrapped := fmt.Errorf("declare x: %w", err)

	if !errors.Is(wrapped, ErrUnresolvedTypedef) {
		t.Fatal("wrapped error must match its sentinel")
	}
	if errors.Is(wrapped, ErrTwoStateOverflow) {
		t.Fatal("different kinds must not match")
	}
	if KindOf(wrapped) != KindUnresolvedTypedef {
		t.Fatalf("KindOf = %v", KindOf(wrapped))
	}
	if KindOf(errors.New("plain")) != KindUnknown {
		t.Fatal("plain errors have no kind")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := New(KindShapeMismatch).Cause(cause).Build()
	if !errors.Is(err, cause) {
		t.Fatal("cause must be reachable through errors.Is")
	}
}

func TestWithOrigin(t *testing.T) {
	origin := &source.Origin{Path: "a.sv", BeginLine: 1, BeginColumn: 1, EndLine: 1, EndColumn: 4}
	base := New(KindIndexOutOfRange).Build()

	got := WithOrigin(base, origin)
	var te *Error
	if !errors.As(got, &te) || te.Origin == nil || *te.Origin != *origin {
		t.Fatalf("origin not attached: %v", got)
	}
	if base.Origin != nil {
		t.Fatal("WithOrigin must not mutate its input")
	}

	other := &source.Origin{Path: "b.sv", BeginLine: 2, BeginColumn: 1, EndLine: 2, EndColumn: 1}
	if again := WithOrigin(got, other); again != got {
		t.Fatal("an existing origin must be kept")
	}
}

func TestKindNames(t *testing.T) {
	seen := make(map[string]Kind)
	for _, k := range Kinds() {
		name := k.String()
		if name == "" || strings.HasPrefix(name, "Kind(") {
			t.Fatalf("kind %d has no name", k)
		}
		if prev, dup := seen[name]; dup {
			t.Fatalf("kinds %d and %d share name %q", prev, k, name)
		}
		seen[name] = k
	}
}
