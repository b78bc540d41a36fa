package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"svcore/internal/diag"
	"svcore/internal/source"
)

type palette struct {
	err, warn, info, note, code, loc, caret *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:   mk(color.FgRed, color.Bold),
		warn:  mk(color.FgYellow, color.Bold),
		info:  mk(color.FgCyan),
		note:  mk(color.FgBlue),
		code:  mk(color.Faint),
		loc:   mk(color.Bold),
		caret: mk(color.FgGreen, color.Bold),
	}
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty prints bag.Items() (sort the bag first) in a human readable form:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// followed, when fs knows the file, by the source line underlined ^~~~ over
// the origin, and then the notes in the same layout. fs may be nil.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		fmt.Fprintf(w, "%s%s %s: %s\n",
			p.loc.Sprint(location(d.Primary, opts)),
			p.severity(d.Severity).Sprint(d.Severity.String()),
			p.code.Sprint(d.Code.ID()),
			sanitizeMessage(d.Message))
		if opts.Context {
			writeContext(w, fs, d.Primary, p)
		}
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s%s %s\n", p.loc.Sprint(location(n.Origin, opts)), p.note.Sprint("note:"), sanitizeMessage(n.Msg))
			if opts.Context {
				writeContext(w, fs, n.Origin, p)
			}
		}
	}
}

func location(o *source.Origin, opts PrettyOpts) string {
	if o == nil {
		return ""
	}
	return fmt.Sprintf("%s:%d:%d: ", formatPath(o.Path, opts.PathMode, opts.BaseDir), o.BeginLine, o.BeginColumn)
}

func writeContext(w io.Writer, fs *source.FileSet, o *source.Origin, p palette) {
	if fs == nil || o == nil {
		return
	}
	id, ok := fs.GetLatest(o.Path)
	if !ok {
		return
	}
	f, ok := fs.Get(id)
	if !ok {
		return
	}
	raw := f.GetLine(o.BeginLine)
	if raw == "" {
		return
	}
	lead, mark := underline(raw, o)
	fmt.Fprintf(w, "  %s\n  %s%s\n", strings.ReplaceAll(raw, "\t", "    "), strings.Repeat(" ", lead), p.caret.Sprint(mark))
}

// underline measures display columns so wide runes and tabs stay aligned
// with the printed line.
func underline(line string, o *source.Origin) (lead int, mark string) {
	begin := int(o.BeginColumn) - 1
	end := len(line)
	if o.EndLine == o.BeginLine {
		end = min(int(o.EndColumn), len(line))
	}
	begin = min(max(begin, 0), len(line))
	end = max(end, begin)
	lead = displayWidth(line[:begin])
	span := max(displayWidth(line[begin:end]), 1)
	return lead, "^" + strings.Repeat("~", span-1)
}

func displayWidth(s string) int {
	return runewidth.StringWidth(strings.ReplaceAll(s, "\t", "    "))
}
