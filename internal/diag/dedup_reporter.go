package diag

import "svcore/internal/source"

// DedupReporter forwards each distinct (code, severity, origin, message)
// once. The declaration loader uses it so a name that fails the same way in
// several passes is reported a single time.
type DedupReporter struct {
	next Reporter
	seen map[dedupKey]struct{}
}

type dedupKey struct {
	code   Code
	sev    Severity
	origin source.Origin
	msg    string
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: make(map[dedupKey]struct{})}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary *source.Origin, msg string, notes []Note) {
	if r == nil || r.next == nil {
		return
	}
	key := dedupKey{code: code, sev: sev, msg: msg}
	if primary != nil {
		key.origin = *primary
	}
	if _, dup := r.seen[key]; dup {
		return
	}
	r.seen[key] = struct{}{}
	r.next.Report(code, sev, primary, msg, notes)
}
