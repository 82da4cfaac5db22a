package lexer

import (
	"fmt"

	"dada/internal/source"

	"fortio.org/safecast"
)

// Cursor представляет собой позицию внутри фрагмента исходника.
// Src - байты фрагмента, Base - смещение фрагмента в файле, так что
// спаны всегда выражены в координатах файла.
type Cursor struct {
	Src  []byte
	File source.FileID
	Base uint32
	Off  uint32 // относительно Src
	// Limit is the exclusive upper bound for Off; equals len(Src).
	Limit uint32
}

// NewCursor creates a cursor over src, which starts at byte base of file.
func NewCursor(src []byte, file source.FileID, base uint32) Cursor {
	limit, err := safecast.Conv[uint32](len(src))
	if err != nil {
		panic(fmt.Errorf("len source overflow: %w", err))
	}
	return Cursor{
		Src:   src,
		File:  file,
		Base:  base,
		Limit: limit,
	}
}

// EOF проверяет, достигнут ли конец фрагмента
func (c *Cursor) EOF() bool {
	return c.Off >= c.Limit
}

// Peek читает текущий байт, если есть, иначе возвращает 0
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.Src[c.Off]
}

// Peek2 читает текущий и следующий байт, если есть, иначе возвращает 0, 0, false
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if c.Off+1 >= c.Limit {
		return 0, 0, false
	}
	return c.Src[c.Off], c.Src[c.Off+1], true
}

// Bump перемещает курсор на один байт вперед и возвращает прочитанный байт
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.Src[c.Off]
	c.Off++
	return b
}

// Mark это метка, что бы быстро получать Span читаемого фрагмента
type Mark uint32

// Mark сохраняет текущую позицию курсора
func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// SpanFrom получает Span для фрагмента, начиная с метки
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{
		File:  c.File,
		Start: c.Base + uint32(m),
		End:   c.Base + c.Off,
	}
}

// TextFrom returns the bytes read since m.
func (c *Cursor) TextFrom(m Mark) []byte {
	return c.Src[m:c.Off]
}

// Reset возвращает курсор назад к метке
func (c *Cursor) Reset(m Mark) {
	c.Off = uint32(m)
}

// Eat consumes the next byte if it matches the provided byte.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOF() && c.Src[c.Off] == b {
		c.Off++
		return true
	}
	return false
}
