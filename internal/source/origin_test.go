package source

import (
	"testing"
)

func TestNewOriginRejectsBadCoordinates(t *testing.T) {
	tests := []struct {
		name           string
		bl, bc, el, ec uint32
	}{
		{name: "zero begin line", bl: 0, bc: 1, el: 1, ec: 1},
		{name: "zero end column", bl: 1, bc: 1, el: 1, ec: 0},
		{name: "end line before begin", bl: 3, bc: 1, el: 2, ec: 9},
		{name: "end column before begin on same line", bl: 2, bc: 5, el: 2, ec: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewOrigin("a.sv", tt.bl, tt.bc, tt.el, tt.ec); err == nil {
				t.Fatalf("expected error for %d:%d-%d:%d", tt.bl, tt.bc, tt.el, tt.ec)
			}
		})
	}
}

func TestParseOrigin(t *testing.T) {
	tests := []struct {
		in   string
		want Origin
	}{
		{
			in:   "rtl/top.sv:3:5-4:12",
			want: Origin{Path: "rtl/top.sv", BeginLine: 3, BeginColumn: 5, EndLine: 4, EndColumn: 12},
		},
		{
			in:   "my-core.sv:7:1",
			want: Origin{Path: "my-core.sv", BeginLine: 7, BeginColumn: 1, EndLine: 7, EndColumn: 1},
		},
		{
			in:   "C:/work/a-b.sv:1:2-1:9",
			want: Origin{Path: "C:/work/a-b.sv", BeginLine: 1, BeginColumn: 2, EndLine: 1, EndColumn: 9},
		},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOrigin(tt.in)
			if err != nil {
				t.Fatalf("ParseOrigin(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("ParseOrigin(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseOriginRoundTripsString(t *testing.T) {
	o, err := NewOrigin("pkg/alu.sv", 10, 3, 12, 1)
	if err != nil {
		t.Fatal(err)
	}
	back, err := ParseOrigin(o.String())
	if err != nil {
		t.Fatal(err)
	}
	if back != o {
		t.Fatalf("round trip mismatch: %+v vs %+v", back, o)
	}
}

func TestParseOriginErrors(t *testing.T) {
	for _, in := range []string{"", "top.sv", "top.sv:1", ":1:1", "top.sv:x:1", "top.sv:2:1-1:1"} {
		if _, err := ParseOrigin(in); err == nil {
			t.Errorf("ParseOrigin(%q): expected error", in)
		}
	}
}

func TestOriginCover(t *testing.T) {
	a := Origin{Path: "a.sv", BeginLine: 2, BeginColumn: 4, EndLine: 2, EndColumn: 10}
	b := Origin{Path: "a.sv", BeginLine: 1, BeginColumn: 8, EndLine: 3, EndColumn: 1}
	got := a.Cover(b)
	want := Origin{Path: "a.sv", BeginLine: 1, BeginColumn: 8, EndLine: 3, EndColumn: 1}
	if got != want {
		t.Fatalf("Cover = %+v, want %+v", got, want)
	}

	other := Origin{Path: "b.sv", BeginLine: 1, BeginColumn: 1, EndLine: 1, EndColumn: 1}
	if a.Cover(other) != a {
		t.Fatal("origins from different files must not merge")
	}
}

func TestOriginContains(t *testing.T) {
	o := Origin{Path: "a.sv", BeginLine: 2, BeginColumn: 4, EndLine: 3, EndColumn: 2}
	if !o.Contains(LineCol{Line: 2, Col: 4}) || !o.Contains(LineCol{Line: 3, Col: 2}) {
		t.Fatal("bounds must be inclusive")
	}
	if o.Contains(LineCol{Line: 2, Col: 3}) || o.Contains(LineCol{Line: 3, Col: 3}) {
		t.Fatal("positions outside the range must not be contained")
	}
}
