package diag

import (
	"slices"

	"dada/internal/source"
)

type Note struct {
	Span source.Span `json:"span"`
	Msg  string      `json:"msg"`
}

type Diagnostic struct {
	Severity Severity    `json:"severity"`
	Code     Code        `json:"code"`
	Message  string      `json:"message"`
	Primary  source.Span `json:"primary"`
	Notes    []Note      `json:"notes,omitempty"`
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(slices.Clip(d.Notes), Note{Span: sp, Msg: msg})
	return d
}

// Equal reports whether two diagnostics carry the same content.
func (d Diagnostic) Equal(o Diagnostic) bool {
	return d.Severity == o.Severity &&
		d.Code == o.Code &&
		d.Message == o.Message &&
		d.Primary == o.Primary &&
		slices.Equal(d.Notes, o.Notes)
}

// EqualSlices compares two diagnostic lists element-wise.
func EqualSlices(a, b []Diagnostic) bool {
	return slices.EqualFunc(a, b, Diagnostic.Equal)
}
