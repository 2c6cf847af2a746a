// Package feature materializa las matrices de entrenamiento a partir
// de los eventos persistidos (ratings e interacciones), desacoplado del
// motor de almacenamiento: consume fuentes abstractas que los repos de
// Mongo implementan y los tests llenan en memoria.
package feature

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/Ridakhan15/movie-recommender/internal/models"
)

// ErrEmptyDataset: cero ratings en el sistema. El trainer que lo reciba
// debe tratarlo como "no se puede entrenar", no como crash.
var ErrEmptyDataset = errors.New("dataset vacío: no hay ratings para entrenar")

// Texto centinela para películas sin ningún campo de contenido. Evita
// que el vectorizador TF-IDF reciba un vocabulario global de tamaño cero.
const EmptyTextSentinel = "unknown movie metadata"

type RatingSource interface {
	All(ctx context.Context) ([]models.RatingDoc, error)
}

type InteractionSource interface {
	All(ctx context.Context) ([]models.InteractionDoc, error)
}

type MovieSource interface {
	All(ctx context.Context) ([]models.MovieDoc, error)
}

type Store struct {
	ratings      RatingSource
	interactions InteractionSource
	movies       MovieSource
}

func NewStore(r RatingSource, i InteractionSource, m MovieSource) *Store {
	return &Store{ratings: r, interactions: i, movies: m}
}

// UserItemMatrix: matriz densa usuario×película con los mapeos de índice
// congelados al momento de construirla. Artefacto inmutable: en cada
// reentreno se reemplaza entera, nunca se muta.
type UserItemMatrix struct {
	Matrix   [][]float64 `json:"matrix"`
	UserIDs  []int       `json:"userIds"`
	MovieIDs []int       `json:"movieIds"`
	UserIdx  map[int]int `json:"userIdToIdx"`
	MovieIdx map[int]int `json:"movieIdToIdx"`
}

// BuildUserItemMatrix arma la matriz (#usuarios vistos, #películas
// vistas) con 0 en los pares no observados. Los órdenes de fila/columna
// son los ids ordenados ascendente: con el mismo input la matriz sale
// idéntica en cada reentreno.
func (s *Store) BuildUserItemMatrix(ctx context.Context) (*UserItemMatrix, error) {
	ratings, err := s.ratings.All(ctx)
	if err != nil {
		return nil, err
	}
	if len(ratings) == 0 {
		return nil, ErrEmptyDataset
	}

	userSet := make(map[int]struct{})
	movieSet := make(map[int]struct{})
	for _, r := range ratings {
		userSet[r.UserID] = struct{}{}
		movieSet[r.MovieID] = struct{}{}
	}

	userIDs := sortedKeys(userSet)
	movieIDs := sortedKeys(movieSet)

	m := &UserItemMatrix{
		Matrix:   zeros(len(userIDs), len(movieIDs)),
		UserIDs:  userIDs,
		MovieIDs: movieIDs,
		UserIdx:  indexMap(userIDs),
		MovieIdx: indexMap(movieIDs),
	}

	for _, r := range ratings {
		ui := m.UserIdx[r.UserID]
		mi := m.MovieIdx[r.MovieID]
		m.Matrix[ui][mi] = r.Rating
	}
	return m, nil
}

// BuildImplicitMatrix arma una matriz con la misma forma y mapeos que
// `base`, llenada con los pesos de feedback implícito. El peso por celda
// es el PROMEDIO de las interacciones del par: repetir una vista no
// acumula peso hasta superar un rating explícito. Sin interacciones
// devuelve la matriz en cero (no es un error: el feedback implícito es
// opcional).
func (s *Store) BuildImplicitMatrix(ctx context.Context, base *UserItemMatrix) ([][]float64, error) {
	out := zeros(len(base.UserIDs), len(base.MovieIDs))
	counts := zeros(len(base.UserIDs), len(base.MovieIDs))

	interactions, err := s.interactions.All(ctx)
	if err != nil {
		return nil, err
	}

	for _, it := range interactions {
		ui, okU := base.UserIdx[it.UserID]
		mi, okM := base.MovieIdx[it.MovieID]
		if !okU || !okM {
			// interacción de un usuario/película sin ratings: queda
			// fuera de la forma congelada de la matriz
			continue
		}
		out[ui][mi] += models.ImplicitWeight(it.Type)
		counts[ui][mi]++
	}

	for i := range out {
		for j := range out[i] {
			if counts[i][j] > 0 {
				out[i][j] /= counts[i][j]
			}
		}
	}
	return out, nil
}

// Movies expone el catálogo para el trainer de contenido.
func (s *Store) Movies(ctx context.Context) ([]models.MovieDoc, error) {
	return s.movies.All(ctx)
}

// ExtractTextFeatures concatena los campos textuales de la película.
// Garantiza string no vacío: si todo está en blanco devuelve el
// centinela (el caso fatal para TF-IDF es que TODOS los documentos
// queden vacíos, no uno suelto).
func ExtractTextFeatures(m models.MovieDoc) string {
	parts := []string{
		strings.Join(m.Genres, " "),
		m.Director,
		strings.Join(m.Cast, " "),
		m.Plot,
	}
	text := strings.TrimSpace(strings.Join(parts, " "))
	if text == "" {
		return EmptyTextSentinel
	}
	return text
}

func sortedKeys(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

func indexMap(ids []int) map[int]int {
	m := make(map[int]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}

func zeros(rows, cols int) [][]float64 {
	out := make([][]float64, rows)
	for i := range out {
		out[i] = make([]float64, cols)
	}
	return out
}
