package source

import (
	"slices"
	"sync"
)

// Word is an interned string (identifier, literal text, path).
type Word uint32

const NoWord Word = 0

// Interner maps strings to Words and back. It is safe for concurrent use:
// parser runs for different functions intern identifiers in parallel.
type Interner struct {
	mu    sync.RWMutex
	byID  []string        // индекс -> строка (byID[0] = "" для NoWord)
	index map[string]Word // строка -> ID
}

func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]Word{"": NoWord},
	}
}

// Intern вставляет строку и возвращает её Word.
// Если строка уже есть, возвращает существующий Word.
func (i *Interner) Intern(s string) Word {
	i.mu.RLock()
	id, ok := i.index[s]
	i.mu.RUnlock()
	if ok {
		return id
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if id, ok := i.index[s]; ok {
		return id
	}
	// собственная копия, чтобы не зависеть от исходного буфера
	cpy := string([]byte(s))
	id = Word(len(i.byID))
	i.byID = append(i.byID, cpy)
	i.index[cpy] = id
	return id
}

// InternBytes interns the string form of b.
func (i *Interner) InternBytes(b []byte) Word {
	return i.Intern(string(b))
}

// Lookup returns the string for id, or "" and false for unknown ids.
func (i *Interner) Lookup(id Word) (string, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if int(id) >= len(i.byID) {
		return "", false
	}
	return i.byID[id], true
}

// MustLookup returns the string for id and panics on unknown ids.
func (i *Interner) MustLookup(id Word) string {
	s, ok := i.Lookup(id)
	if !ok {
		panic("invalid word")
	}
	return s
}

// Has reports whether id was issued by this interner.
func (i *Interner) Has(id Word) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return int(id) < len(i.byID)
}

// Len returns the number of interned strings, NoWord included.
func (i *Interner) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.byID)
}

// Snapshot returns a copy of all interned strings indexed by Word.
func (i *Interner) Snapshot() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return slices.Clone(i.byID)
}
