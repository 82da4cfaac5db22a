package diag

import (
	"fmt"
	"strings"

	"dada/internal/source"
)

// FormatShort renders diagnostics one per line as
// "SEVERITY CODE path:line:col message", in the order given. Notes follow
// their diagnostic as indented "note" lines when includeNotes is set.
func FormatShort(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}
	var b strings.Builder
	for i := range diags {
		d := &diags[i]
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s %s %s %s", d.Severity, d.Code.ID(), location(fs, d.Primary), d.Message)
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(&b, "\n  note %s %s", location(fs, n.Span), n.Msg)
		}
	}
	return b.String()
}

func location(fs *source.FileSet, sp source.Span) string {
	if int(sp.File) >= fs.Len() {
		return fmt.Sprintf("<file %d>:%d", sp.File, sp.Start)
	}
	f := fs.Get(sp.File)
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", f.FormatPath("relative", fs.BaseDir()), start.Line, start.Col)
}
