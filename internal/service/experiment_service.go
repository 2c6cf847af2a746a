package service

import (
	"context"
	"log"
	"math/rand"

	"github.com/Ridakhan15/movie-recommender/internal/models"
	"github.com/Ridakhan15/movie-recommender/internal/repository"
)

// ExperimentService administra el experimento A/B: asignación pegajosa
// de variante por usuario y el ledger de contadores con sus tasas
// derivadas.
type ExperimentService struct {
	users        *repository.UserRepository
	experiments  *repository.ExperimentRepository
	ratings      *repository.RatingRepository
	performances *repository.PerformanceRepository
}

func NewExperimentService(
	u *repository.UserRepository,
	e *repository.ExperimentRepository,
	r *repository.RatingRepository,
	p *repository.PerformanceRepository,
) *ExperimentService {
	return &ExperimentService{
		users:        u,
		experiments:  e,
		ratings:      r,
		performances: p,
	}
}

// AssignedAlgorithm devuelve la variante del usuario. La primera vez se
// sortea uniformemente entre las variantes asignables y queda fija. La
// escritura condicionada del repo resuelve la carrera: si dos requests
// sortean a la vez, gana una sola y acá releemos la ganadora.
func (s *ExperimentService) AssignedAlgorithm(ctx context.Context, userID int) (string, error) {
	if err := s.users.EnsureUser(ctx, userID); err != nil {
		return "", err
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if u != nil && u.AssignedAlgorithm != "" {
		return u.AssignedAlgorithm, nil
	}

	candidate := models.AssignableAlgorithms[rand.Intn(len(models.AssignableAlgorithms))]
	if err := s.users.AssignAlgorithmIfEmpty(ctx, userID, candidate); err != nil {
		return "", err
	}

	u, err = s.users.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if u == nil || u.AssignedAlgorithm == "" {
		// no debería pasar: EnsureUser ya materializó el documento
		return candidate, nil
	}
	return u.AssignedAlgorithm, nil
}

// RecordShown suma n recomendaciones servidas a la fila (user, variante).
func (s *ExperimentService) RecordShown(ctx context.Context, userID int, variant string, n int) error {
	if n <= 0 {
		return nil
	}
	_, err := s.experiments.IncrementAndRecompute(ctx, userID, variant, repository.FieldShown, n)
	return err
}

// RecordClicked suma un click sobre una recomendación servida.
func (s *ExperimentService) RecordClicked(ctx context.Context, userID int, variant string) error {
	_, err := s.experiments.IncrementAndRecompute(ctx, userID, variant, repository.FieldClicked, 1)
	return err
}

// RecordRated suma un rating atribuido a la variante y refresca
// avgRatingGiven desde la colección de ratings (fuente autoritativa).
func (s *ExperimentService) RecordRated(ctx context.Context, userID int, variant string) error {
	if _, err := s.experiments.IncrementAndRecompute(ctx, userID, variant, repository.FieldRated, 1); err != nil {
		return err
	}
	return s.RefreshAvgRating(ctx, userID, variant)
}

// RefreshAvgRating re-agrega avgRatingGiven de la fila (user, variante)
// desde la colección de ratings. Se llama en cada rating, también en los
// re-ratings: el valor y el tag de atribución pueden haber cambiado. Sin
// ratings atribuidos a la variante, el promedio guardado queda como está.
func (s *ExperimentService) RefreshAvgRating(ctx context.Context, userID int, variant string) error {
	avg, found, err := s.ratings.AvgForAlgorithm(ctx, userID, variant)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	return s.experiments.SetAvgRating(ctx, userID, variant, avg)
}

// RecordPerformance guarda una muestra de performance de una servida.
// Best-effort: un fallo acá no debe romper la respuesta al usuario.
func (s *ExperimentService) RecordPerformance(ctx context.Context, doc *models.PerformanceDoc) {
	if err := s.performances.Insert(ctx, doc); err != nil {
		log.Printf("[experiment] error guardando muestra de performance: %v", err)
	}
}

func (s *ExperimentService) ListExperiments(ctx context.Context, limit, offset int) ([]models.ExperimentDoc, error) {
	return s.experiments.List(ctx, limit, offset)
}

// PerformanceDashboard: agregado por algoritmo para el panel admin.
func (s *ExperimentService) PerformanceDashboard(ctx context.Context) (map[string]models.AlgorithmStats, error) {
	return s.performances.AggregateByAlgorithm(ctx)
}
