package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Ridakhan15/movie-recommender/internal/models"
)

// Fuentes abstractas del flujo de ratings: los repos de Mongo las
// implementan y los tests las llenan en memoria.
type ratingStore interface {
	GetOne(ctx context.Context, userID, movieID int) (*models.RatingDoc, error)
	UpsertRating(ctx context.Context, userID, movieID int, rating float64, recommendedBy string) (bool, error)
	GetByUser(ctx context.Context, userID, limit, offset int) ([]models.RatingDoc, error)
}

type movieCatalog interface {
	GetByID(ctx context.Context, movieID int) (*models.MovieDoc, error)
	Update(ctx context.Context, m *models.MovieDoc) error
}

type taskQueue interface {
	Insert(ctx context.Context, task *models.ModelUpdateTask) error
}

type variantLedger interface {
	AssignedAlgorithm(ctx context.Context, userID int) (string, error)
	RecordRated(ctx context.Context, userID int, variant string) error
	RefreshAvgRating(ctx context.Context, userID int, variant string) error
}

type RatingService struct {
	ratings     ratingStore
	movies      movieCatalog
	tasks       taskQueue
	experiments variantLedger
}

func NewRatingService(r ratingStore, m movieCatalog, t taskQueue, e variantLedger) *RatingService {
	return &RatingService{
		ratings:     r,
		movies:      m,
		tasks:       t,
		experiments: e,
	}
}

// AddOrUpdate guarda el rating del usuario sobre la película. Un
// re-rating sobreescribe el anterior (único por par user/movie) y el
// tag de atribución pasa a ser la variante vigente del usuario. Además:
// actualiza stats de la película, toca el ledger, encola la
// actualización incremental de modelos e invalida el cache.
func (s *RatingService) AddOrUpdate(ctx context.Context, userID, movieID int, rating float64) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating fuera de rango [1,5]: %v", rating)
	}

	movie, err := s.movies.GetByID(ctx, movieID)
	if err != nil {
		return err
	}
	if movie == nil {
		return fmt.Errorf("movie %d no encontrada", movieID)
	}

	variant, err := s.experiments.AssignedAlgorithm(ctx, userID)
	if err != nil {
		return err
	}

	// 1) rating previo (para el ajuste incremental de stats)
	prev, err := s.ratings.GetOne(ctx, userID, movieID)
	if err != nil {
		return err
	}

	// 2) upsert
	created, err := s.ratings.UpsertRating(ctx, userID, movieID, rating, variant)
	if err != nil {
		return err
	}

	// 3) stats de la película, fórmula incremental en float64
	if movie.RatingStats == nil {
		movie.RatingStats = &models.RatingStats{}
	}
	rs := movie.RatingStats

	if prev == nil {
		total := rs.Average*float64(rs.Count) + rating
		rs.Count++
		rs.Average = total / float64(rs.Count)
	} else if rs.Count > 0 {
		total := rs.Average*float64(rs.Count) - prev.Rating + rating
		rs.Average = total / float64(rs.Count)
	}

	nowStr := time.Now().Format(time.RFC3339)
	rs.LastRatedAt = nowStr
	movie.UpdatedAt = nowStr
	if err := s.movies.Update(ctx, movie); err != nil {
		return err
	}

	// 4) ledger: un re-rating no vuelve a contar como "rated", pero el
	// promedio sí se re-agrega siempre (cambió el valor, y el tag de
	// atribución puede haber migrado de variante)
	if created {
		if err := s.experiments.RecordRated(ctx, userID, variant); err != nil {
			log.Printf("[rating] error registrando rated en ledger: %v", err)
		}
	} else {
		if err := s.experiments.RefreshAvgRating(ctx, userID, variant); err != nil {
			log.Printf("[rating] error refrescando avgRatingGiven: %v", err)
		}
		if prev != nil && prev.RecommendedByAlgorithm != "" && prev.RecommendedByAlgorithm != variant {
			// la variante que perdió el rating también queda desactualizada
			if err := s.experiments.RefreshAvgRating(ctx, userID, prev.RecommendedByAlgorithm); err != nil {
				log.Printf("[rating] error refrescando avgRatingGiven de %s: %v", prev.RecommendedByAlgorithm, err)
			}
		}
	}

	// 5) encolar actualización incremental (el trainer la drena después)
	task := &models.ModelUpdateTask{
		TaskType:         models.TaskTypeIncrementalUpdate,
		TriggeredByUser:  &userID,
		TriggeredByMovie: &movieID,
	}
	if err := s.tasks.Insert(ctx, task); err != nil {
		log.Printf("[rating] error encolando tarea de modelos: %v", err)
	}

	// 6) las listas cacheadas del usuario quedaron viejas
	InvalidateCache(ctx, userID)

	return nil
}

func (s *RatingService) GetByUser(ctx context.Context, userID, limit, offset int) ([]models.RatingDoc, error) {
	return s.ratings.GetByUser(ctx, userID, limit, offset)
}
