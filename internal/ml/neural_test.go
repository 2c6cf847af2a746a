package ml

import (
	"context"
	"errors"
	"testing"

	"github.com/Ridakhan15/movie-recommender/internal/models"
)

func TestNeuralAvailable(t *testing.T) {
	cases := []struct {
		enabled             bool
		numUsers, numMovies int
		want                bool
	}{
		{true, 2, 2, true},
		{true, 10, 100, true},
		{false, 10, 100, false},
		{true, 1, 100, false},
		{true, 100, 1, false},
	}
	for _, c := range cases {
		if got := NeuralAvailable(c.enabled, c.numUsers, c.numMovies); got != c.want {
			t.Fatalf("NeuralAvailable(%v, %d, %d) = %v",
				c.enabled, c.numUsers, c.numMovies, got)
		}
	}
}

func TestTrainNeuralPredictRange(t *testing.T) {
	ratings := []models.RatingDoc{
		{UserID: 1, MovieID: 10, Rating: 5},
		{UserID: 1, MovieID: 20, Rating: 1},
		{UserID: 2, MovieID: 10, Rating: 4},
		{UserID: 2, MovieID: 20, Rating: 2},
		{UserID: 3, MovieID: 10, Rating: 5},
		{UserID: 3, MovieID: 30, Rating: 3},
	}
	fs := newTestFeatureStore(ratings, nil, nil)

	m, err := TrainNeural(context.Background(), fs)
	if err != nil {
		t.Fatal(err)
	}

	for _, userID := range m.UserIDs {
		for _, movieID := range m.MovieIDs {
			pred, ok := m.Predict(userID, movieID)
			if !ok {
				t.Fatalf("Predict(%d, %d) no disponible", userID, movieID)
			}
			if pred < 1 || pred > 5 {
				t.Fatalf("Predict(%d, %d) = %v fuera de [1,5]", userID, movieID, pred)
			}
		}
	}

	// usuario desconocido: sin embedding no hay predicción
	if _, ok := m.Predict(999, 10); ok {
		t.Fatal("Predict de usuario desconocido devolvió ok")
	}
}

func TestTrainNeuralInsufficientData(t *testing.T) {
	ratings := []models.RatingDoc{{UserID: 1, MovieID: 10, Rating: 5}}
	fs := newTestFeatureStore(ratings, nil, nil)

	_, err := TrainNeural(context.Background(), fs)
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("esperaba ErrInsufficientData, vino %v", err)
	}
}

func TestTrainNeuralDeterministicSeed(t *testing.T) {
	ratings := []models.RatingDoc{
		{UserID: 1, MovieID: 10, Rating: 5},
		{UserID: 2, MovieID: 20, Rating: 2},
		{UserID: 1, MovieID: 20, Rating: 3},
	}

	a, err := TrainNeural(context.Background(), newTestFeatureStore(ratings, nil, nil))
	if err != nil {
		t.Fatal(err)
	}
	b, err := TrainNeural(context.Background(), newTestFeatureStore(ratings, nil, nil))
	if err != nil {
		t.Fatal(err)
	}

	predA, _ := a.Predict(1, 10)
	predB, _ := b.Predict(1, 10)
	if predA != predB {
		t.Fatalf("semilla fija pero predicciones distintas: %v != %v", predA, predB)
	}
}
