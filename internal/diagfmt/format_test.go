package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"svcore/internal/diag"
	"svcore/internal/source"
)

func mustOrigin(t *testing.T, s string) *source.Origin {
	t.Helper()
	o, err := source.ParseOrigin(s)
	if err != nil {
		t.Fatalf("ParseOrigin(%q): %v", s, err)
	}
	return &o
}

func TestShort(t *testing.T) {
	diags := []diag.Diagnostic{
		diag.NewError(diag.TypDuplicateEnumMember, mustOrigin(t, "rtl/pkg.sv:3:5-3:9"), "first line\nsecond").
			WithNote(mustOrigin(t, "rtl/pkg.sv:2:5"), "previous here").
			WithNote(nil, "caused by: nothing"),
		diag.New(diag.SevWarning, diag.DclUnknownField, mustOrigin(t, "rtl/pkg.sv:1:1"), "another"),
		diag.NewError(diag.IOLoadFileError, nil, "no such file"),
	}

	expected := "error IO9001 - no such file\n" +
		"warning DCL5002 rtl/pkg.sv:1:1 another\n" +
		"note TYP4006 rtl/pkg.sv:2:5 previous here\n" +
		"error TYP4006 rtl/pkg.sv:3:5 first line second"

	if got := Short(diags, true); got != expected {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestPrettyContext(t *testing.T) {
	fs := source.NewFileSet()
	fs.AddVirtual("top.sv", []byte("module top;\n\tlogic [7:0] data;\nendmodule\n"))

	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.TypUnknownType, mustOrigin(t, "top.sv:2:8-2:12"), "unknown dimension"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: true, ShowNotes: true})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %q", buf.String())
	}
	if lines[0] != "top.sv:2:8: ERROR TYP4015: unknown dimension" {
		t.Fatalf("header = %q", lines[0])
	}
	if lines[1] != "      logic [7:0] data;" {
		t.Fatalf("context = %q", lines[1])
	}
	if lines[2] != "            ^~~~~" {
		t.Fatalf("underline = %q", lines[2])
	}
}

func TestPathModes(t *testing.T) {
	tests := []struct {
		mode PathMode
		want string
	}{
		{PathModeAbsolute, "/work/rtl/top.sv"},
		{PathModeRelative, "rtl/top.sv"},
		{PathModeBasename, "top.sv"},
		{PathModeAuto, "rtl/top.sv"},
	}
	for _, tt := range tests {
		if got := formatPath("/work/rtl/top.sv", tt.mode, "/work"); got != tt.want {
			t.Fatalf("mode %d: got %s, want %s", tt.mode, got, tt.want)
		}
	}
	if got := formatPath("/other/top.sv", PathModeAuto, "/work"); got != "/other/top.sv" {
		t.Fatalf("auto outside base = %s", got)
	}
}

func TestJSON(t *testing.T) {
	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.TypTypedefCycle, mustOrigin(t, "a.sv:4:1-4:20"), "typedef a_t refers to itself").
		WithNote(nil, "caused by: x"))
	bag.Add(diag.New(diag.SevWarning, diag.DclUnresolvedAtEOF, nil, "b_t never resolved"))

	var buf bytes.Buffer
	if err := JSON(&buf, bag, JSONOpts{IncludeNotes: true}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	if output.Count != 2 {
		t.Fatalf("Expected count=2, got %d", output.Count)
	}
	first := output.Diagnostics[0]
	if first.Code != "TYP4013" || first.Location == nil || first.Location.EndCol != 20 {
		t.Fatalf("unexpected first diagnostic %+v", first)
	}
	if len(first.Notes) != 1 || first.Notes[0].Location != nil {
		t.Fatalf("notes = %+v", first.Notes)
	}
	if output.Diagnostics[1].Location != nil {
		t.Fatalf("diagnostic without origin must omit location")
	}

	buf.Reset()
	if err := JSON(&buf, bag, JSONOpts{Max: 1}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	if !strings.Contains(buf.String(), `"count": 1`) {
		t.Fatalf("Max not honoured: %s", buf.String())
	}
}
