package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/Ridakhan15/movie-recommender/internal/models"
)

type fakeRatingStore struct {
	// un doc por par (user, movie)
	docs map[string]*models.RatingDoc
}

func ratingKey(userID, movieID int) string { return fmt.Sprintf("%d/%d", userID, movieID) }

func (f *fakeRatingStore) GetOne(ctx context.Context, userID, movieID int) (*models.RatingDoc, error) {
	if d, ok := f.docs[ratingKey(userID, movieID)]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeRatingStore) UpsertRating(ctx context.Context, userID, movieID int, rating float64, recommendedBy string) (bool, error) {
	k := ratingKey(userID, movieID)
	_, existed := f.docs[k]
	f.docs[k] = &models.RatingDoc{
		UserID:                 userID,
		MovieID:                movieID,
		Rating:                 rating,
		RecommendedByAlgorithm: recommendedBy,
	}
	return !existed, nil
}

func (f *fakeRatingStore) GetByUser(ctx context.Context, userID, limit, offset int) ([]models.RatingDoc, error) {
	var out []models.RatingDoc
	for _, d := range f.docs {
		if d.UserID == userID {
			out = append(out, *d)
		}
	}
	return out, nil
}

type fakeCatalog struct {
	movies map[int]*models.MovieDoc
}

func (f *fakeCatalog) GetByID(ctx context.Context, movieID int) (*models.MovieDoc, error) {
	if m, ok := f.movies[movieID]; ok {
		return m, nil
	}
	return nil, nil
}

func (f *fakeCatalog) Update(ctx context.Context, m *models.MovieDoc) error {
	f.movies[m.MovieID] = m
	return nil
}

type fakeTaskQueue struct {
	tasks []*models.ModelUpdateTask
}

func (f *fakeTaskQueue) Insert(ctx context.Context, task *models.ModelUpdateTask) error {
	f.tasks = append(f.tasks, task)
	return nil
}

// fakeLedger registra cada llamada al ledger de experimentos.
type fakeLedger struct {
	variant    string
	ratedCalls []string // variantes con rated++
	refreshes  []string // variantes re-agregadas
}

func (f *fakeLedger) AssignedAlgorithm(ctx context.Context, userID int) (string, error) {
	return f.variant, nil
}

func (f *fakeLedger) RecordRated(ctx context.Context, userID int, variant string) error {
	f.ratedCalls = append(f.ratedCalls, variant)
	f.refreshes = append(f.refreshes, variant)
	return nil
}

func (f *fakeLedger) RefreshAvgRating(ctx context.Context, userID int, variant string) error {
	f.refreshes = append(f.refreshes, variant)
	return nil
}

func newTestRatingService(variant string) (*RatingService, *fakeRatingStore, *fakeCatalog, *fakeTaskQueue, *fakeLedger) {
	ratings := &fakeRatingStore{docs: make(map[string]*models.RatingDoc)}
	movies := &fakeCatalog{movies: map[int]*models.MovieDoc{
		10: {MovieID: 10, Title: "The Matrix"},
	}}
	tasks := &fakeTaskQueue{}
	ledger := &fakeLedger{variant: variant}
	return NewRatingService(ratings, movies, tasks, ledger), ratings, movies, tasks, ledger
}

func TestAddOrUpdateValidation(t *testing.T) {
	svc, _, _, _, _ := newTestRatingService("hybrid")
	ctx := context.Background()

	if err := svc.AddOrUpdate(ctx, 1, 10, 0); err == nil {
		t.Fatal("rating 0 debería rechazarse")
	}
	if err := svc.AddOrUpdate(ctx, 1, 10, 6); err == nil {
		t.Fatal("rating 6 debería rechazarse")
	}
	if err := svc.AddOrUpdate(ctx, 1, 999, 4); err == nil {
		t.Fatal("película inexistente debería rechazarse")
	}
}

func TestAddOrUpdateNewRating(t *testing.T) {
	svc, ratings, movies, tasks, ledger := newTestRatingService("hybrid")
	ctx := context.Background()

	if err := svc.AddOrUpdate(ctx, 1, 10, 5); err != nil {
		t.Fatal(err)
	}

	doc, _ := ratings.GetOne(ctx, 1, 10)
	if doc == nil || doc.Rating != 5 || doc.RecommendedByAlgorithm != "hybrid" {
		t.Fatalf("rating guardado = %+v", doc)
	}

	rs := movies.movies[10].RatingStats
	if rs == nil || rs.Count != 1 || rs.Average != 5 {
		t.Fatalf("stats de la película = %+v", rs)
	}

	if len(ledger.ratedCalls) != 1 || ledger.ratedCalls[0] != "hybrid" {
		t.Fatalf("rated en ledger = %v, esperaba [hybrid]", ledger.ratedCalls)
	}
	if len(tasks.tasks) != 1 || tasks.tasks[0].TaskType != models.TaskTypeIncrementalUpdate {
		t.Fatalf("tareas encoladas = %+v", tasks.tasks)
	}
}

// Un re-rating no vuelve a contar como "rated", pero avgRatingGiven se
// re-agrega igual: el valor del rating acaba de cambiar.
func TestAddOrUpdateReRateRefreshesLedgerAvg(t *testing.T) {
	svc, ratings, movies, _, ledger := newTestRatingService("hybrid")
	ctx := context.Background()

	if err := svc.AddOrUpdate(ctx, 1, 10, 5); err != nil {
		t.Fatal(err)
	}
	if err := svc.AddOrUpdate(ctx, 1, 10, 1); err != nil {
		t.Fatal(err)
	}

	doc, _ := ratings.GetOne(ctx, 1, 10)
	if doc.Rating != 1 {
		t.Fatalf("el re-rating no sobreescribió: %+v", doc)
	}
	rs := movies.movies[10].RatingStats
	if rs.Count != 1 || rs.Average != 1 {
		t.Fatalf("stats tras re-rating = %+v", rs)
	}

	if len(ledger.ratedCalls) != 1 {
		t.Fatalf("rated debería contarse una sola vez, vino %v", ledger.ratedCalls)
	}
	// una re-agregación por el alta y otra por el re-rating
	if len(ledger.refreshes) != 2 || ledger.refreshes[1] != "hybrid" {
		t.Fatalf("re-agregaciones de avgRatingGiven = %v", ledger.refreshes)
	}
}

// Si la variante asignada cambió entre el rating y el re-rating, el tag
// de atribución migra y las DOS filas del ledger se re-agregan.
func TestAddOrUpdateReRateMigratedVariant(t *testing.T) {
	svc, ratings, _, _, ledger := newTestRatingService("content")
	ctx := context.Background()

	// rating original atribuido a otra variante
	if _, err := ratings.UpsertRating(ctx, 1, 10, 5, "collaborative"); err != nil {
		t.Fatal(err)
	}

	if err := svc.AddOrUpdate(ctx, 1, 10, 2); err != nil {
		t.Fatal(err)
	}

	doc, _ := ratings.GetOne(ctx, 1, 10)
	if doc.RecommendedByAlgorithm != "content" {
		t.Fatalf("el tag no migró: %+v", doc)
	}
	if len(ledger.ratedCalls) != 0 {
		t.Fatalf("re-rating contó como rated: %v", ledger.ratedCalls)
	}

	want := map[string]bool{"content": false, "collaborative": false}
	for _, v := range ledger.refreshes {
		want[v] = true
	}
	if !want["content"] || !want["collaborative"] {
		t.Fatalf("re-agregaciones = %v, esperaba ambas variantes", ledger.refreshes)
	}
}
