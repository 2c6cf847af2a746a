package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Ridakhan15/movie-recommender/internal/cache"
	"github.com/Ridakhan15/movie-recommender/internal/ml"
	"github.com/Ridakhan15/movie-recommender/internal/models"
	"github.com/Ridakhan15/movie-recommender/internal/repository"
)

// TTL del cache de listas rankeadas (1 hora).
const recCacheTTLSeconds = 60 * 60

type RecommendService struct {
	ratings     *repository.RatingRepository
	movies      *repository.MovieRepository
	recRepo     *repository.RecommendationRepository
	experiments *ExperimentService
	scorer      *ml.Scorer
}

func NewRecommendService(
	r *repository.RatingRepository,
	m *repository.MovieRepository,
	recRepo *repository.RecommendationRepository,
	experiments *ExperimentService,
	scorer *ml.Scorer,
) *RecommendService {
	return &RecommendService{
		ratings:     r,
		movies:      m,
		recRepo:     recRepo,
		experiments: experiments,
		scorer:      scorer,
	}
}

type RecRequest struct {
	UserID int
	// Variante explícita (admin/debug). Vacío = la asignada al usuario.
	Algorithm string
	// Refresh ignora el cache Redis pero no lo invalida
	Refresh bool
}

func recCacheKey(userID int, algorithm string) string {
	return fmt.Sprintf("rec:user:%d:algo:%s", userID, algorithm)
}

// InvalidateCache borra las listas cacheadas del usuario para todas las
// variantes (se llama al entrar un rating nuevo).
func InvalidateCache(ctx context.Context, userID int) {
	keys := make([]string, 0, len(models.AllAlgorithms))
	for _, algo := range models.AllAlgorithms {
		keys = append(keys, recCacheKey(userID, algo))
	}
	if err := cache.Del(ctx, keys...); err != nil {
		log.Printf("[recommend] error invalidando cache de user %d: %v", userID, err)
	}
}

// Recommend sirve la lista rankeada del usuario con la variante del
// experimento (o la pedida explícitamente). Cada servida fresca toca el
// ledger, guarda historial y una muestra de performance.
func (s *RecommendService) Recommend(ctx context.Context, req RecRequest) ([]models.RecItem, string, error) {
	variant := req.Algorithm
	if variant == "" {
		var err error
		variant, err = s.experiments.AssignedAlgorithm(ctx, req.UserID)
		if err != nil {
			return nil, "", err
		}
	} else if !models.ValidAlgorithm(variant) {
		return nil, "", fmt.Errorf("algoritmo desconocido: %q", variant)
	}

	// 1) cache Redis (salvo refresh)
	if !req.Refresh {
		var cached []models.RecItem
		if ok, err := cache.GetJSON(ctx, recCacheKey(req.UserID, variant), &cached); err == nil && ok {
			if err := s.experiments.RecordShown(ctx, req.UserID, variant, len(cached)); err != nil {
				log.Printf("[recommend] error registrando shown (cache): %v", err)
			}
			return cached, variant, nil
		}
	}

	// 2) scoring contra el snapshot congelado
	start := time.Now()

	ratings, err := s.ratings.GetAllByUser(ctx, req.UserID)
	if err != nil {
		return nil, "", err
	}

	scored, err := s.scorer.Score(variant, req.UserID, ratings)
	if err != nil {
		return nil, "", err
	}

	items, avgMovieRating, err := s.enrich(ctx, scored)
	if err != nil {
		return nil, "", err
	}

	elapsed := time.Since(start)

	// 3) ledger + historial + performance (la respuesta no se rompe si
	// alguno de estos pasos secundarios falla)
	if err := s.experiments.RecordShown(ctx, req.UserID, variant, len(items)); err != nil {
		log.Printf("[recommend] error registrando shown: %v", err)
	}

	if len(items) > 0 {
		hist := &models.Recommendation{
			UserID:    req.UserID,
			Algorithm: variant,
			Params: map[string]any{
				"refresh":    req.Refresh,
				"numRatings": len(ratings),
			},
			Items:     items,
			CreatedAt: time.Now(),
		}
		if err := s.recRepo.Insert(ctx, hist); err != nil {
			log.Printf("[recommend] error guardando historial: %v", err)
		}

		s.experiments.RecordPerformance(ctx, &models.PerformanceDoc{
			Algorithm:          variant,
			UserID:             req.UserID,
			NumRecommendations: len(items),
			AverageRating:      avgMovieRating,
			ResponseTime:       elapsed.Seconds(),
			DiversityScore:     diversityScore(items),
		})
	}

	// 4) cachear
	if err := cache.SetJSON(ctx, recCacheKey(req.UserID, variant), items, recCacheTTLSeconds); err != nil {
		log.Printf("[recommend] error cacheando: %v", err)
	}

	return items, variant, nil
}

// History devuelve las últimas listas servidas al usuario.
func (s *RecommendService) History(ctx context.Context, userID int, limit int64) ([]models.Recommendation, error) {
	return s.recRepo.FindByUser(ctx, userID, limit)
}

// enrich convierte ids puntuados en items con título y géneros en una
// sola consulta, y devuelve el promedio de los ratings promedio de las
// películas recomendadas (para la muestra de performance). Películas
// borradas del catálogo se saltan.
func (s *RecommendService) enrich(ctx context.Context, scored []ml.Scored) ([]models.RecItem, float64, error) {
	ids := make([]int, len(scored))
	for i, sc := range scored {
		ids[i] = sc.MovieID
	}

	docs, err := s.movies.GetByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	items := make([]models.RecItem, 0, len(scored))
	var ratingSum float64
	var rated int
	for _, sc := range scored {
		m, ok := docs[sc.MovieID]
		if !ok {
			continue
		}
		items = append(items, models.RecItem{
			MovieID: m.MovieID,
			Title:   m.Title,
			Genres:  m.Genres,
		})
		if m.RatingStats != nil && m.RatingStats.Count > 0 {
			ratingSum += m.RatingStats.Average
			rated++
		}
	}

	var avg float64
	if rated > 0 {
		avg = ratingSum / float64(rated)
	}
	return items, avg, nil
}

// diversityScore: géneros distintos sobre menciones totales de género
// en la lista. 1.0 = todos distintos, valores bajos = lista monotemática.
func diversityScore(items []models.RecItem) float64 {
	distinct := make(map[string]struct{})
	var mentions int
	for _, it := range items {
		for _, g := range it.Genres {
			distinct[g] = struct{}{}
			mentions++
		}
	}
	if mentions == 0 {
		return 0
	}
	return float64(len(distinct)) / float64(mentions)
}

