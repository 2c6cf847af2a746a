package ml

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/Ridakhan15/movie-recommender/internal/models"
)

func TestTrainSVDShapes(t *testing.T) {
	ratings := []models.RatingDoc{
		{UserID: 1, MovieID: 10, Rating: 5},
		{UserID: 1, MovieID: 20, Rating: 3},
		{UserID: 2, MovieID: 10, Rating: 4},
		{UserID: 2, MovieID: 30, Rating: 2},
		{UserID: 3, MovieID: 20, Rating: 5},
		{UserID: 3, MovieID: 40, Rating: 4},
	}
	fs := newTestFeatureStore(ratings, nil, nil)

	m, err := TrainSVD(context.Background(), fs)
	if err != nil {
		t.Fatal(err)
	}

	// 3 usuarios x 4 películas: k acotado a min(3,4)-1 = 2
	if m.NComponents != 2 {
		t.Fatalf("NComponents = %d, esperaba 2", m.NComponents)
	}
	if len(m.UserFactors) != 3 || len(m.UserFactors[0]) != 2 {
		t.Fatalf("UserFactors %dx%d", len(m.UserFactors), len(m.UserFactors[0]))
	}
	if len(m.MovieFactors) != 4 || len(m.MovieFactors[0]) != 2 {
		t.Fatalf("MovieFactors %dx%d", len(m.MovieFactors), len(m.MovieFactors[0]))
	}

	if m.VarianceExplained <= 0 || m.VarianceExplained > 1 {
		t.Fatalf("VarianceExplained = %v", m.VarianceExplained)
	}

	for id, idx := range m.UserIdx {
		if m.UserIDs[idx] != id {
			t.Fatalf("mapeo usuario inconsistente: %d -> %d", id, idx)
		}
	}
}

func TestTrainSVDInsufficientData(t *testing.T) {
	// un solo usuario: la matriz no tiene rango para factorizar
	ratings := []models.RatingDoc{
		{UserID: 1, MovieID: 10, Rating: 5},
		{UserID: 1, MovieID: 20, Rating: 3},
	}
	fs := newTestFeatureStore(ratings, nil, nil)

	_, err := TrainSVD(context.Background(), fs)
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("esperaba ErrInsufficientData, vino %v", err)
	}
}

func TestTrainSVDImplicitFeedbackChangesFactors(t *testing.T) {
	ratings := []models.RatingDoc{
		{UserID: 1, MovieID: 10, Rating: 5},
		{UserID: 1, MovieID: 20, Rating: 1},
		{UserID: 2, MovieID: 10, Rating: 2},
		{UserID: 2, MovieID: 20, Rating: 5},
	}
	interactions := []models.InteractionDoc{
		{UserID: 1, MovieID: 20, Type: models.InteractionWatchlist},
		{UserID: 1, MovieID: 20, Type: models.InteractionView},
	}

	plain, err := TrainSVD(context.Background(), newTestFeatureStore(ratings, nil, nil))
	if err != nil {
		t.Fatal(err)
	}
	enriched, err := TrainSVD(context.Background(), newTestFeatureStore(ratings, interactions, nil))
	if err != nil {
		t.Fatal(err)
	}

	var diff float64
	for i := range plain.UserFactors {
		for j := range plain.UserFactors[i] {
			diff += math.Abs(plain.UserFactors[i][j] - enriched.UserFactors[i][j])
		}
	}
	if diff == 0 {
		t.Fatal("el feedback implícito no movió los factores")
	}
}
