package words

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/robalobadob/wordle/apps/daily-server/internal/game"
)

func TestParsePuzzle(t *testing.T) {
	p, err := ParsePuzzle([]byte(`{"theme":" Fruits ","words":["Pomme","  ","Poire ","arc-en-ciel","Pêche"]}`))
	if err != nil {
		t.Fatal(err)
	}
	want := Puzzle{Theme: "Fruits", Words: []string{"Pomme", "Poire", "Pêche"}}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("ParsePuzzle mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePuzzleErrors(t *testing.T) {
	if _, err := ParsePuzzle([]byte(`{"theme":"x","words":[]}`)); !errors.Is(err, ErrEmptyPuzzle) {
		t.Errorf("empty words error = %v, want ErrEmptyPuzzle", err)
	}
	if _, err := ParsePuzzle([]byte(`{"theme":"x","words":["a-b", " "]}`)); !errors.Is(err, ErrEmptyPuzzle) {
		t.Errorf("unplayable words error = %v, want ErrEmptyPuzzle", err)
	}
	if _, err := ParsePuzzle([]byte(`not json`)); err == nil {
		t.Error("expected decode error")
	}
}

func TestSourceImplementsWordSource(t *testing.T) {
	src, err := NewSource(Puzzle{Theme: "Fruits", Words: []string{"Pomme", "Poire"}})
	if err != nil {
		t.Fatal(err)
	}
	if src.Len() != 2 || src.Theme() != "Fruits" {
		t.Errorf("Len=%d Theme=%q", src.Len(), src.Theme())
	}
	if w, ok := src.Word(1); !ok || w != "Poire" {
		t.Errorf("Word(1) = %q, %v", w, ok)
	}
	for _, i := range []int{-1, 2} {
		if _, ok := src.Word(i); ok {
			t.Errorf("Word(%d) ok, want missing", i)
		}
	}

	st, err := game.Create(src, 1)
	if err != nil {
		t.Fatal(err)
	}
	if st.Target != "poire" || st.Theme != "Fruits" || st.TotalWords != 2 {
		t.Errorf("state = %+v", st)
	}
}

func TestPuzzleReturnsCopy(t *testing.T) {
	src, _ := NewSource(Puzzle{Words: []string{"Pomme"}})
	p := src.Puzzle()
	p.Words[0] = "Poire"
	if w, _ := src.Word(0); w != "Pomme" {
		t.Errorf("source changed through Puzzle(): %q", w)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "puzzle.json")
	if err := os.WriteFile(path, []byte(`{"theme":"Plage","words":["Sable","Vague"]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	src, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if src.Theme() != "Plage" || src.Len() != 2 {
		t.Errorf("Theme=%q Len=%d", src.Theme(), src.Len())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want ErrNotExist", err)
	}
}

func TestInitEmbeddedDefault(t *testing.T) {
	if err := Init(""); err != nil {
		t.Fatal(err)
	}
	src := Current()
	if src == nil || src.Len() == 0 {
		t.Fatalf("Current() = %+v", src)
	}
	for i := 0; i < src.Len(); i++ {
		if _, err := game.Create(src, i); err != nil {
			t.Errorf("embedded word %d: %v", i, err)
		}
	}
}
