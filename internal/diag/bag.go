package diag

import (
	"cmp"
	"slices"
)

type Bag struct {
	items []Diagnostic
	max   int
}

// NewBag creates a bag that keeps at most max diagnostics; max <= 0 means
// no limit.
func NewBag(max int) *Bag {
	capHint := max
	if capHint <= 0 || capHint > 64 {
		capHint = 16
	}
	return &Bag{
		items: make([]Diagnostic, 0, capHint),
		max:   max,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() int {
	return b.max
}

// HasErrors возвращает true, если есть хотя бы одна диагностика с Severity >= Error
func (b *Bag) HasErrors() bool {
	return slices.ContainsFunc(b.items, func(d Diagnostic) bool { return d.Severity.IsError() })
}

// HasWarnings возвращает true, если есть хотя бы одна диагностика с Severity >= Warning
func (b *Bag) HasWarnings() bool {
	return slices.ContainsFunc(b.items, func(d Diagnostic) bool { return d.Severity >= SevWarning })
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
// ВАЖНО: не модифицируйте возвращаемый срез! (он указывает на внутренний массив Bag)
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge объединяет диагностики из другого Bag.
// Увеличивает max, если нужно вместить все элементы.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.AddAll(other.items)
}

// AddAll appends diagnostics ignoring the limit.
func (b *Bag) AddAll(ds []Diagnostic) {
	if newTotal := len(b.items) + len(ds); b.max > 0 && newTotal > b.max {
		b.max = newTotal
	}
	b.items = append(b.items, ds...)
}

// Sort сортирует диагностики по: file, start, end, severity (desc), code (asc)
// для стабильного и детерминированного порядка вывода.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, Compare)
}

// Compare orders diagnostics by file, start, end, severity (desc), code,
// then message.
func Compare(di, dj Diagnostic) int {
	return cmp.Or(
		cmp.Compare(di.Primary.File, dj.Primary.File),
		cmp.Compare(di.Primary.Start, dj.Primary.Start),
		cmp.Compare(di.Primary.End, dj.Primary.End),
		cmp.Compare(dj.Severity, di.Severity),
		cmp.Compare(di.Code, dj.Code),
		cmp.Compare(di.Message, dj.Message),
	)
}

// простая дедупликация (по Code+Primary+Message)
func (b *Bag) Dedup() {
	type key struct {
		code    Code
		primary [3]uint32
		msg     string
	}
	seen := make(map[key]struct{}, len(b.items))
	newitems := b.items[:0]
	for _, d := range b.items {
		k := key{d.Code, [3]uint32{uint32(d.Primary.File), d.Primary.Start, d.Primary.End}, d.Message}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		newitems = append(newitems, d)
	}
	clear(b.items[len(newitems):])
	b.items = newitems
}
