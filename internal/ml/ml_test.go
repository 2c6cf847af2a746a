package ml

import (
	"context"

	"github.com/Ridakhan15/movie-recommender/internal/feature"
	"github.com/Ridakhan15/movie-recommender/internal/models"
)

// Fuentes en memoria para armar feature stores de test.

type memRatings struct{ docs []models.RatingDoc }

func (m *memRatings) All(ctx context.Context) ([]models.RatingDoc, error) { return m.docs, nil }

type memInteractions struct{ docs []models.InteractionDoc }

func (m *memInteractions) All(ctx context.Context) ([]models.InteractionDoc, error) {
	return m.docs, nil
}

type memMovies struct{ docs []models.MovieDoc }

func (m *memMovies) All(ctx context.Context) ([]models.MovieDoc, error) { return m.docs, nil }

func newTestFeatureStore(
	ratings []models.RatingDoc,
	interactions []models.InteractionDoc,
	movies []models.MovieDoc,
) *feature.Store {
	return feature.NewStore(
		&memRatings{docs: ratings},
		&memInteractions{docs: interactions},
		&memMovies{docs: movies},
	)
}
