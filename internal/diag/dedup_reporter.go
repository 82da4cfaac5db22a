package diag

import "dada/internal/source"

// DedupReporter forwards the first diagnostic for each (code, severity,
// span, message) and drops repeats. The validator revisits argument lists
// and scopes from more than one rule, so the same finding can be raised
// twice for one node.
type DedupReporter struct {
	next    Reporter
	seen    map[dedupKey]struct{}
	dropped int
}

type dedupKey struct {
	code Code
	sev  Severity
	span source.Span
	msg  string
}

// NewDedupReporter wraps next.
func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: make(map[dedupKey]struct{})}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r == nil {
		return
	}
	key := dedupKey{code: code, sev: sev, span: primary, msg: msg}
	if _, dup := r.seen[key]; dup {
		r.dropped++
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(code, sev, primary, msg, notes)
	}
}

// Dropped returns the number of suppressed repeats.
func (r *DedupReporter) Dropped() int { return r.dropped }
