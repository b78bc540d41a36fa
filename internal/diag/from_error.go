package diag

import (
	"errors"

	"svcore/internal/typeerr"
)

// FromError turns a core error into an error diagnostic. Structured errors
// keep their kind, origin and cause chain; anything else becomes UnknownCode.
func FromError(err error) Diagnostic {
	var te *typeerr.Error
	if !errors.As(err, &te) {
		return NewError(UnknownCode, nil, err.Error())
	}
	msg := te.Kind.String()
	if te.Detail != "" {
		msg = te.Detail
	}
	if te.Op != "" {
		msg = te.Op + ": " + msg
	}
	d := NewError(CodeFor(te.Kind), te.Origin, msg)
	for cause := te.Cause; cause != nil; {
		var inner *typeerr.Error
		if !errors.As(cause, &inner) {
			d = d.WithNote(nil, "caused by: "+cause.Error())
			break
		}
		d = d.WithNote(inner.Origin, "caused by: "+inner.Kind.String()+detailSuffix(inner.Detail))
		cause = inner.Cause
	}
	return d
}

// ReportErr emits err through r as an error diagnostic.
func ReportErr(r Reporter, err error) {
	if r == nil || err == nil {
		return
	}
	d := FromError(err)
	r.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes)
}

func detailSuffix(detail string) string {
	if detail == "" {
		return ""
	}
	return ": " + detail
}
