package lexer

import (
	"dada/internal/diag"
	"dada/internal/source"
)

// DefaultMaxTokenLen bounds a single token; longer tokens are reported and
// cut.
const DefaultMaxTokenLen = 4096

type Options struct {
	Reporter    diag.Reporter // может быть nil - тогда ошибки игнорируем (но продолжаем лексить)
	MaxTokenLen uint32        // 0 means DefaultMaxTokenLen
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		diag.ReportError(lx.opts.Reporter, code, sp, msg).Emit()
	}
}
