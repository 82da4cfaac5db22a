package source

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestFileSetStableIDs(t *testing.T) {
	fs := NewFileSet()

	id1, changed := fs.SetVirtual("main.dada", []byte("fn f() {}"))
	if !changed {
		t.Fatal("first Set must report a change")
	}
	v1 := fs.Get(id1)

	id2, changed := fs.SetVirtual("main.dada", []byte("fn f() {}"))
	if changed {
		t.Error("identical content must not report a change")
	}
	if id2 != id1 {
		t.Errorf("same path must keep its FileID: %d != %d", id2, id1)
	}
	if fs.Get(id1) != v1 {
		t.Error("unchanged content must keep the published File")
	}

	id3, changed := fs.SetVirtual("./main.dada", []byte("fn g() {}"))
	if !changed || id3 != id1 {
		t.Fatalf("update: id=%d changed=%v", id3, changed)
	}
	v2 := fs.Get(id1)
	if v2.Version != v1.Version+1 {
		t.Errorf("version = %d, want %d", v2.Version, v1.Version+1)
	}
	if string(v1.Content) != "fn f() {}" {
		t.Error("old File must stay immutable")
	}
	if v1.Hash == v2.Hash {
		t.Error("different content should have different digests")
	}
}

func TestFileSetResolve(t *testing.T) {
	fs := NewFileSet()
	id, _ := fs.SetVirtual("a.dada", []byte("ab\ncd\n\nef"))

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}}, // '\n' belongs to its line
		{3, LineCol{2, 1}},
		{6, LineCol{3, 1}},
		{8, LineCol{4, 2}},
	}
	for _, tt := range tests {
		start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if start != tt.want {
			t.Errorf("offset %d: got %+v, want %+v", tt.off, start, tt.want)
		}
	}

	f := fs.Get(id)
	if got := f.GetLine(2); got != "cd" {
		t.Errorf("GetLine(2) = %q", got)
	}
	if got := f.GetLine(3); got != "" {
		t.Errorf("GetLine(3) = %q", got)
	}
	if got := f.GetLine(9); got != "" {
		t.Errorf("GetLine(9) = %q", got)
	}
}

func TestFileSetLoadNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.dada")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFfn f() {\r\n}\r\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	fs := NewFileSet()
	id, _, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "fn f() {\n}\n" {
		t.Errorf("content = %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("flags = %b", f.Flags)
	}
}

func TestInternerConcurrent(t *testing.T) {
	in := NewInterner()
	words := []string{"x", "y", "share", "lease", "give"}

	var wg sync.WaitGroup
	results := make([][]Word, 8)
	for g := range results {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for _, w := range words {
				results[g] = append(results[g], in.Intern(w))
			}
		}(g)
	}
	wg.Wait()

	for g := 1; g < len(results); g++ {
		for i := range words {
			if results[g][i] != results[0][i] {
				t.Fatalf("goroutine %d got a different word for %q", g, words[i])
			}
		}
	}
	if in.Len() != len(words)+1 {
		t.Errorf("Len() = %d, want %d", in.Len(), len(words)+1)
	}
	if s := in.MustLookup(results[0][2]); s != "share" {
		t.Errorf("lookup = %q", s)
	}
}
