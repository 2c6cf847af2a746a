package feature

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/Ridakhan15/movie-recommender/internal/models"
)

type fakeRatings struct{ docs []models.RatingDoc }

func (f *fakeRatings) All(ctx context.Context) ([]models.RatingDoc, error) { return f.docs, nil }

type fakeInteractions struct{ docs []models.InteractionDoc }

func (f *fakeInteractions) All(ctx context.Context) ([]models.InteractionDoc, error) {
	return f.docs, nil
}

type fakeMovies struct{ docs []models.MovieDoc }

func (f *fakeMovies) All(ctx context.Context) ([]models.MovieDoc, error) { return f.docs, nil }

func newTestStore(ratings []models.RatingDoc, interactions []models.InteractionDoc, movies []models.MovieDoc) *Store {
	return NewStore(
		&fakeRatings{docs: ratings},
		&fakeInteractions{docs: interactions},
		&fakeMovies{docs: movies},
	)
}

func TestBuildUserItemMatrixEmpty(t *testing.T) {
	s := newTestStore(nil, nil, nil)

	_, err := s.BuildUserItemMatrix(context.Background())
	if !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("esperaba ErrEmptyDataset, vino %v", err)
	}
}

func TestBuildUserItemMatrixShapeAndOrder(t *testing.T) {
	ratings := []models.RatingDoc{
		{UserID: 7, MovieID: 30, Rating: 4},
		{UserID: 2, MovieID: 10, Rating: 5},
		{UserID: 7, MovieID: 10, Rating: 3},
	}
	s := newTestStore(ratings, nil, nil)

	m, err := s.BuildUserItemMatrix(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	// ids ordenados ascendente, independiente del orden de los ratings
	if !reflect.DeepEqual(m.UserIDs, []int{2, 7}) {
		t.Fatalf("UserIDs = %v", m.UserIDs)
	}
	if !reflect.DeepEqual(m.MovieIDs, []int{10, 30}) {
		t.Fatalf("MovieIDs = %v", m.MovieIDs)
	}

	want := [][]float64{
		{5, 0},
		{3, 4},
	}
	if !reflect.DeepEqual(m.Matrix, want) {
		t.Fatalf("Matrix = %v, esperaba %v", m.Matrix, want)
	}

	if m.UserIdx[7] != 1 || m.MovieIdx[30] != 1 {
		t.Fatalf("mapeos de índice incorrectos: %v %v", m.UserIdx, m.MovieIdx)
	}
}

func TestBuildUserItemMatrixDeterministic(t *testing.T) {
	ratings := []models.RatingDoc{
		{UserID: 3, MovieID: 1, Rating: 2},
		{UserID: 1, MovieID: 2, Rating: 4},
		{UserID: 2, MovieID: 3, Rating: 5},
	}
	s := newTestStore(ratings, nil, nil)

	a, err := s.BuildUserItemMatrix(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.BuildUserItemMatrix(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(a, b) {
		t.Fatal("dos construcciones con el mismo input dieron matrices distintas")
	}
}

func TestBuildImplicitMatrix(t *testing.T) {
	ratings := []models.RatingDoc{
		{UserID: 1, MovieID: 10, Rating: 4},
		{UserID: 2, MovieID: 20, Rating: 3},
	}
	interactions := []models.InteractionDoc{
		{UserID: 1, MovieID: 10, Type: models.InteractionView},
		{UserID: 1, MovieID: 10, Type: models.InteractionWatchlist},
		// usuario sin ratings: queda fuera de la forma congelada
		{UserID: 99, MovieID: 10, Type: models.InteractionView},
	}
	s := newTestStore(ratings, interactions, nil)

	base, err := s.BuildUserItemMatrix(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	implicit, err := s.BuildImplicitMatrix(context.Background(), base)
	if err != nil {
		t.Fatal(err)
	}

	// promedio de view 0.3 y watchlist 0.5
	if got := implicit[base.UserIdx[1]][base.MovieIdx[10]]; got != 0.4 {
		t.Fatalf("peso implícito = %v, esperaba 0.4", got)
	}
	if got := implicit[base.UserIdx[2]][base.MovieIdx[20]]; got != 0 {
		t.Fatalf("celda sin interacciones = %v, esperaba 0", got)
	}
}

// Ver la misma película muchas veces no acumula peso: la celda es el
// promedio del par, nunca más que el peso implícito máximo.
func TestBuildImplicitMatrixRepeatedViewsDoNotAccumulate(t *testing.T) {
	ratings := []models.RatingDoc{{UserID: 1, MovieID: 10, Rating: 4}}
	var interactions []models.InteractionDoc
	for i := 0; i < 20; i++ {
		interactions = append(interactions, models.InteractionDoc{
			UserID: 1, MovieID: 10, Type: models.InteractionView,
		})
	}
	s := newTestStore(ratings, interactions, nil)

	base, err := s.BuildUserItemMatrix(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	implicit, err := s.BuildImplicitMatrix(context.Background(), base)
	if err != nil {
		t.Fatal(err)
	}

	if got := implicit[0][0]; got != models.ImplicitWeight(models.InteractionView) {
		t.Fatalf("20 views dieron peso %v, esperaba el peso de una", got)
	}
}

func TestBuildImplicitMatrixWithoutInteractions(t *testing.T) {
	ratings := []models.RatingDoc{{UserID: 1, MovieID: 10, Rating: 4}}
	s := newTestStore(ratings, nil, nil)

	base, err := s.BuildUserItemMatrix(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	implicit, err := s.BuildImplicitMatrix(context.Background(), base)
	if err != nil {
		t.Fatalf("sin interacciones no es un error: %v", err)
	}
	if implicit[0][0] != 0 {
		t.Fatalf("matriz implícita debería estar en cero, vino %v", implicit)
	}
}

func TestExtractTextFeatures(t *testing.T) {
	m := models.MovieDoc{
		Genres:   []string{"Action", "Sci-Fi"},
		Director: "Lana Wachowski",
		Cast:     []string{"Keanu Reeves"},
		Plot:     "A hacker discovers reality is a simulation",
	}
	text := ExtractTextFeatures(m)
	for _, want := range []string{"Action", "Sci-Fi", "Wachowski", "Keanu", "hacker"} {
		if !contains(text, want) {
			t.Fatalf("el texto %q no contiene %q", text, want)
		}
	}

	// película sin metadata: centinela, nunca string vacío
	if got := ExtractTextFeatures(models.MovieDoc{}); got != EmptyTextSentinel {
		t.Fatalf("ExtractTextFeatures(vacía) = %q", got)
	}
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
