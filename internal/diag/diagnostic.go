package diag

import (
	"svcore/internal/source"
)

type Note struct {
	Origin *source.Origin
	Msg    string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  *source.Origin
	Notes    []Note
}

func New(sev Severity, code Code, primary *source.Origin, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary *source.Origin, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(o *source.Origin, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Origin: o, Msg: msg})
	return d
}

// Path is the primary file, empty when the diagnostic has no origin.
func (d Diagnostic) Path() string {
	if d.Primary == nil {
		return ""
	}
	return d.Primary.Path
}
