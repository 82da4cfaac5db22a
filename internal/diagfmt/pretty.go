package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"dada/internal/diag"
	"dada/internal/source"
)

type palette struct {
	err, warn, info *color.Color
	gutter, caret   *color.Color
	note, path      *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgCyan),
		path:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.gutter, p.caret, p.note, p.path} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Ожидает уже отсортированный список. Для каждой диагностики печатает
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// затем строки исходника с подчёркиванием ^~~~ по Span и заметки.
func Pretty(w io.Writer, items []diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) error {
	pr := prettyPrinter{
		fs:   fs,
		opts: opts,
		pal:  newPalette(opts.Color),
		tab:  opts.TabWidth,
	}
	if pr.tab <= 0 {
		pr.tab = 4
	}
	for i, d := range items {
		if i > 0 {
			pr.sb.WriteByte('\n')
		}
		pr.diagnostic(d)
	}
	_, err := io.WriteString(w, pr.sb.String())
	return err
}

type prettyPrinter struct {
	sb   strings.Builder
	fs   *source.FileSet
	opts PrettyOpts
	pal  palette
	tab  int
}

func (pr *prettyPrinter) location(span source.Span) (*source.File, source.LineCol, source.LineCol, string) {
	f := pr.fs.Get(span.File)
	start, end := pr.fs.Resolve(span)
	loc := fmt.Sprintf("%s:%d:%d", pr.opts.PathMode.format(f, pr.fs), start.Line, start.Col)
	return f, start, end, loc
}

func (pr *prettyPrinter) diagnostic(d diag.Diagnostic) {
	f, start, end, loc := pr.location(d.Primary)
	fmt.Fprintf(&pr.sb, "%s: %s %s: %s\n",
		pr.pal.path.Sprint(loc),
		pr.pal.severity(d.Severity).Sprint(d.Severity.String()),
		pr.pal.severity(d.Severity).Sprint(d.Code.ID()),
		d.Message,
	)
	pr.snippet(f, start, end)

	if !pr.opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		nf, ns, ne, nloc := pr.location(n.Span)
		fmt.Fprintf(&pr.sb, "  %s %s: %s\n", pr.pal.note.Sprint("note:"), nloc, n.Msg)
		pr.snippet(nf, ns, ne)
	}
}

func (pr *prettyPrinter) snippet(f *source.File, start, end source.LineCol) {
	ctx := uint32(max(pr.opts.Context, 0))
	first := start.Line - min(ctx, start.Line-1)
	last := start.Line + ctx
	width := len(strconv.FormatUint(uint64(last), 10))

	for ln := first; ln <= last; ln++ {
		if ln > start.Line && !pr.hasLine(f, ln) {
			break
		}
		text := pr.expand(f.GetLine(ln))
		fmt.Fprintf(&pr.sb, "%s %s\n", pr.pal.gutter.Sprintf("%*d |", width, ln), text)
		if ln != start.Line {
			continue
		}
		line := f.GetLine(ln)
		from := clampCol(start.Col, line)
		to := len(line)
		if end.Line == start.Line {
			to = clampCol(end.Col, line)
		}
		pad := runewidth.StringWidth(pr.expand(line[:from]))
		span := max(runewidth.StringWidth(pr.expand(line[from:max(from, to)])), 1)
		fmt.Fprintf(&pr.sb, "%s %s%s\n",
			pr.pal.gutter.Sprintf("%*s |", width, ""),
			strings.Repeat(" ", pad),
			pr.pal.caret.Sprint("^"+strings.Repeat("~", span-1)),
		)
	}
}

func (pr *prettyPrinter) hasLine(f *source.File, ln uint32) bool {
	return int(ln) <= len(f.LineIdx)+1 && (int(ln) <= len(f.LineIdx) || f.GetLine(ln) != "")
}

func (pr *prettyPrinter) expand(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", pr.tab))
}

// clampCol переводит 1-based колонку в байтовый индекс строки.
func clampCol(col uint32, line string) int {
	if col == 0 {
		return 0
	}
	return min(int(col-1), len(line))
}
