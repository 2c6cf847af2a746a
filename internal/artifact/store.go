// Package artifact guarda los snapshots de modelos entrenados en disco:
// un archivo JSON por algoritmo, siempre "el último completo". La
// publicación es atómica (escribir archivo nuevo + rename), así un
// scorer concurrente nunca abre un snapshot a medio escribir.
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrNotFound: se pidió un modelo que todavía no fue entrenado. El
// caller debe indicarle al operador que entrene primero, no hay
// sustitución automática.
var ErrNotFound = errors.New("modelo no encontrado: entrenar primero")

// Nombres de snapshot (direccionados solo por algoritmo, sin versiones:
// siempre "latest").
const (
	NameCollaborative = "collaborative"
	NameSVD           = "svd"
	NameContent       = "content"
	NameNeural        = "neural"
	NameHybridConfig  = "hybrid_config"
)

type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creando directorio de modelos: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Save serializa el artefacto y lo publica de forma atómica: primero
// el archivo temporal, después el rename. Nunca se muta en el lugar.
func (s *Store) Save(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("serializando snapshot %s: %w", name, err)
	}

	tmp := s.path(name) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("escribiendo snapshot %s: %w", name, err)
	}
	if err := os.Rename(tmp, s.path(name)); err != nil {
		return fmt.Errorf("publicando snapshot %s: %w", name, err)
	}
	return nil
}

// Load deserializa el último snapshot completo de `name` en dest.
func (s *Store) Load(name string, dest any) error {
	data, err := os.ReadFile(s.path(name))
	if os.IsNotExist(err) {
		return fmt.Errorf("snapshot %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("leyendo snapshot %s: %w", name, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("deserializando snapshot %s: %w", name, err)
	}
	return nil
}

// Exists reporta si hay snapshot publicado (para el resumen del admin).
func (s *Store) Exists(name string) bool {
	_, err := os.Stat(s.path(name))
	return err == nil
}

// ModTime devuelve cuándo se publicó el snapshot por última vez.
func (s *Store) ModTime(name string) (time.Time, bool) {
	fi, err := os.Stat(s.path(name))
	if err != nil {
		return time.Time{}, false
	}
	return fi.ModTime(), true
}
