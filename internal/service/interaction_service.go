package service

import (
	"context"
	"fmt"
	"log"

	"github.com/Ridakhan15/movie-recommender/internal/models"
	"github.com/Ridakhan15/movie-recommender/internal/repository"
)

type InteractionService struct {
	interactions *repository.InteractionRepository
	movies       *repository.MovieRepository
}

func NewInteractionService(
	i *repository.InteractionRepository,
	m *repository.MovieRepository,
) *InteractionService {
	return &InteractionService{interactions: i, movies: m}
}

// Track registra una interacción implícita (view, watchlist, etc.) y
// actualiza los contadores de la película. La colección es append-only:
// cada evento cuenta, no hay dedupe.
func (s *InteractionService) Track(ctx context.Context, doc *models.InteractionDoc) error {
	if !models.ValidInteractionType(doc.Type) {
		return fmt.Errorf("tipo de interacción desconocido: %q", doc.Type)
	}
	if doc.WatchProgress < 0 || doc.WatchProgress > 100 {
		return fmt.Errorf("watchProgress fuera de rango [0,100]: %d", doc.WatchProgress)
	}

	movie, err := s.movies.GetByID(ctx, doc.MovieID)
	if err != nil {
		return err
	}
	if movie == nil {
		return fmt.Errorf("movie %d no encontrada", doc.MovieID)
	}

	if err := s.interactions.Insert(ctx, doc); err != nil {
		return err
	}

	if err := s.movies.BumpInteractionCounter(ctx, doc.MovieID, doc.Type); err != nil {
		log.Printf("[interaction] error actualizando contador de movie %d: %v", doc.MovieID, err)
	}
	return nil
}
