package diagfmt

import (
	"fmt"
	"sort"
	"strings"

	"svcore/internal/diag"
	"svcore/internal/source"
)

type shortDiagnostic struct {
	Severity string
	Code     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// Short renders diagnostics one per line in a stable order, e.g.
//
//	error TYP4006 pkg.sv:3:5 A already declared at index 0
//
// Diagnostics without an origin print "-" as their location.
func Short(diags []diag.Diagnostic, includeNotes bool) string {
	if len(diags) == 0 {
		return ""
	}

	rendered := make([]shortDiagnostic, 0, len(diags))
	for i := range diags {
		rendered = appendDiagnostic(rendered, &diags[i], includeNotes)
	}

	sort.SliceStable(rendered, func(i, j int) bool {
		di, dj := rendered[i], rendered[j]
		if di.Path != dj.Path {
			return di.Path < dj.Path
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		if di.Column != dj.Column {
			return di.Column < dj.Column
		}
		if di.Severity != dj.Severity {
			return di.Severity < dj.Severity
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		return di.Message < dj.Message
	})

	var b strings.Builder
	for i, d := range rendered {
		loc := "-"
		if d.Path != "" {
			loc = fmt.Sprintf("%s:%d:%d", d.Path, d.Line, d.Column)
		}
		fmt.Fprintf(&b, "%s %s %s %s", d.Severity, d.Code, loc, d.Message)
		if i < len(rendered)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func appendDiagnostic(out []shortDiagnostic, d *diag.Diagnostic, includeNotes bool) []shortDiagnostic {
	out = append(out, at(d.Primary, shortDiagnostic{
		Severity: d.Severity.Label(),
		Code:     d.Code.ID(),
		Message:  sanitizeMessage(d.Message),
	}))
	if includeNotes {
		for _, note := range d.Notes {
			if note.Origin == nil {
				continue
			}
			out = append(out, at(note.Origin, shortDiagnostic{
				Severity: "note",
				Code:     d.Code.ID(),
				Message:  sanitizeMessage(note.Msg),
			}))
		}
	}
	return out
}

func at(o *source.Origin, d shortDiagnostic) shortDiagnostic {
	if o != nil {
		d.Path = normalizePath(o.Path)
		d.Line = o.BeginLine
		d.Column = o.BeginColumn
	}
	return d
}

func normalizePath(path string) string {
	p := strings.ReplaceAll(path, "\\", "/")
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return p
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
