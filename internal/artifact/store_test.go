package artifact

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type payload struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	in := payload{Name: "svd", Value: 0.87}
	if err := s.Save(NameSVD, in); err != nil {
		t.Fatal(err)
	}

	var out payload
	if err := s.Load(NameSVD, &out); err != nil {
		t.Fatal(err)
	}
	if out != in {
		t.Fatalf("round-trip: %+v != %+v", out, in)
	}
}

func TestLoadMissingIsErrNotFound(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	var out payload
	err = s.Load(NameNeural, &out)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("esperaba ErrNotFound, vino %v", err)
	}
}

func TestSaveReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Save(NameContent, payload{Name: "v1"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(NameContent, payload{Name: "v2"}); err != nil {
		t.Fatal(err)
	}

	var out payload
	if err := s.Load(NameContent, &out); err != nil {
		t.Fatal(err)
	}
	if out.Name != "v2" {
		t.Fatalf("esperaba el snapshot nuevo, vino %q", out.Name)
	}

	// el temporal nunca queda tirado después de publicar
	if _, err := os.Stat(filepath.Join(dir, NameContent+".json.tmp")); !os.IsNotExist(err) {
		t.Fatal("el archivo temporal quedó en el directorio")
	}
}

func TestExistsAndModTime(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if s.Exists(NameCollaborative) {
		t.Fatal("Exists sobre snapshot inexistente devolvió true")
	}
	if _, ok := s.ModTime(NameCollaborative); ok {
		t.Fatal("ModTime sobre snapshot inexistente devolvió ok")
	}

	if err := s.Save(NameCollaborative, payload{}); err != nil {
		t.Fatal(err)
	}
	if !s.Exists(NameCollaborative) {
		t.Fatal("Exists tras Save devolvió false")
	}
	if _, ok := s.ModTime(NameCollaborative); !ok {
		t.Fatal("ModTime tras Save devolvió !ok")
	}
}
