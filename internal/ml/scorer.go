package ml

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/Ridakhan15/movie-recommender/internal/artifact"
	"github.com/Ridakhan15/movie-recommender/internal/feature"
	"github.com/Ridakhan15/movie-recommender/internal/models"

	"gonum.org/v1/gonum/floats"
)

const (
	// vecinos más similares que contribuyen al filtrado colaborativo
	topSimilarUsers = 50
	// tamaño de la lista rankeada que devolvemos
	topN = 10
	// un rating >= 4 cuenta como "le gustó" para el perfil de contenido
	contentLikeThreshold = 4
)

// Scored: candidato rankeado. El score es interno, solo ordena.
type Scored struct {
	MovieID int
	Score   float64
}

// Scorer calcula la lista rankeada de candidatos para un usuario contra
// el snapshot congelado del algoritmo pedido. Solo lecturas en memoria:
// sin estado mutable compartido, el scoring concurrente es trivialmente
// seguro mientras la publicación de snapshots sea atómica.
type Scorer struct {
	store *artifact.Store
}

func NewScorer(store *artifact.Store) *Scorer {
	return &Scorer{store: store}
}

// Score despacha al camino del algoritmo asignado. Si el artefacto no
// está en disco devuelve artifact.ErrNotFound: acá no hay sustitución
// silenciosa, el orden de fallback es política que aplica solo la
// mezcla híbrida.
func (s *Scorer) Score(algorithm string, userID int, ratings []models.RatingDoc) ([]Scored, error) {
	switch algorithm {
	case models.AlgoCollaborative:
		var m feature.UserItemMatrix
		if err := s.store.Load(artifact.NameCollaborative, &m); err != nil {
			return nil, err
		}
		return scoreCollaborative(&m, ratings), nil

	case models.AlgoSVD:
		var m SVDModel
		if err := s.store.Load(artifact.NameSVD, &m); err != nil {
			return nil, err
		}
		return scoreSVD(&m, userID, ratings), nil

	case models.AlgoContent:
		var m ContentModel
		if err := s.store.Load(artifact.NameContent, &m); err != nil {
			return nil, err
		}
		return scoreContent(&m, ratings), nil

	case models.AlgoNeural:
		var m NeuralModel
		if err := s.store.Load(artifact.NameNeural, &m); err != nil {
			return nil, err
		}
		return scoreNeural(&m, userID, ratings), nil

	case models.AlgoHybrid:
		return s.scoreHybrid(userID, ratings)

	default:
		return nil, fmt.Errorf("algoritmo desconocido: %q", algorithm)
	}
}

// ---------------------- colaborativo (user-based) ----------------------

// scoreCollaborative: vector del usuario sobre el orden de películas
// entrenado, coseno contra cada fila de usuario, top-50 vecinos con
// similitud estrictamente positiva, acumulación sim×rating por película.
func scoreCollaborative(m *feature.UserItemMatrix, ratings []models.RatingDoc) []Scored {
	ratedBy := ratingMap(ratings)

	userVec := make([]float64, len(m.MovieIDs))
	for movieID, r := range ratedBy {
		if idx, ok := m.MovieIdx[movieID]; ok {
			userVec[idx] = r
		}
	}

	type neighbor struct {
		row int
		sim float64
	}
	neighbors := make([]neighbor, 0, len(m.Matrix))
	for i, row := range m.Matrix {
		sim := cosine(userVec, row)
		if sim > 0 {
			neighbors = append(neighbors, neighbor{row: i, sim: sim})
		}
	}

	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].sim > neighbors[j].sim
	})
	if len(neighbors) > topSimilarUsers {
		neighbors = neighbors[:topSimilarUsers]
	}

	scores := make([]float64, len(m.MovieIDs))
	for _, nb := range neighbors {
		floats.AddScaled(scores, nb.sim, m.Matrix[nb.row])
	}

	return rank(scores, m.MovieIDs, ratedBy)
}

// ---------------------- svd ----------------------

func scoreSVD(m *SVDModel, userID int, ratings []models.RatingDoc) []Scored {
	uIdx, ok := m.UserIdx[userID]
	if !ok {
		// usuario no visto al entrenar: sin factores no hay predicción
		return nil
	}

	ratedBy := ratingMap(ratings)
	scores := make([]float64, len(m.MovieIDs))
	for i := range m.MovieIDs {
		scores[i] = floats.Dot(m.UserFactors[uIdx], m.MovieFactors[i])
	}

	return rank(scores, m.MovieIDs, ratedBy)
}

// ---------------------- contenido ----------------------

// scoreContent: suma las filas de similitud de las películas que al
// usuario le gustaron, ponderadas por su rating.
func scoreContent(m *ContentModel, ratings []models.RatingDoc) []Scored {
	ratedBy := ratingMap(ratings)

	scores := make([]float64, len(m.MovieIDs))
	var liked int
	for movieID, r := range ratedBy {
		if r < contentLikeThreshold {
			continue
		}
		idx, ok := m.MovieIdx[movieID]
		if !ok {
			continue
		}
		floats.AddScaled(scores, r, m.Sim[idx])
		liked++
	}
	if liked == 0 {
		return nil
	}

	return rank(scores, m.MovieIDs, ratedBy)
}

// ---------------------- neural ----------------------

func scoreNeural(m *NeuralModel, userID int, ratings []models.RatingDoc) []Scored {
	if _, ok := m.UserIdx[userID]; !ok {
		return nil
	}

	ratedBy := ratingMap(ratings)
	scores := make([]float64, len(m.MovieIDs))
	for i, movieID := range m.MovieIDs {
		if pred, ok := m.Predict(userID, movieID); ok {
			scores[i] = pred
		}
	}

	return rank(scores, m.MovieIDs, ratedBy)
}

// ---------------------- híbrido ----------------------

// scoreHybrid mezcla los componentes elegibles con los pesos de la
// config. Los artefactos por algoritmo que falten se toleran (cadena de
// fallback); recién si ningún componente produce scores y el fallback
// tampoco, se reporta modelo-no-encontrado.
func (s *Scorer) scoreHybrid(userID int, ratings []models.RatingDoc) ([]Scored, error) {
	cfg := DefaultHybridConfig()
	if err := s.store.Load(artifact.NameHybridConfig, &cfg); err != nil && !errors.Is(err, artifact.ErrNotFound) {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config híbrida inválida: %w", err)
	}

	blended := make(map[int]float64)
	var componentsUsed int

	addComponent := func(items []Scored, weight float64) {
		if len(items) == 0 || weight <= 0 {
			return
		}
		componentsUsed++
		for _, it := range normalizeScores(items) {
			blended[it.MovieID] += weight * it.Score
		}
	}

	// colaborativo y svd solo con historial suficiente (umbral de config)
	if len(ratings) >= cfg.MinRatingsForCollaborative {
		var m feature.UserItemMatrix
		if err := s.store.Load(artifact.NameCollaborative, &m); err == nil {
			addComponent(scoreCollaborative(&m, ratings), cfg.Weights.Collaborative)
		}
	}
	if len(ratings) >= cfg.MinRatingsForSVD {
		var m SVDModel
		if err := s.store.Load(artifact.NameSVD, &m); err == nil {
			addComponent(scoreSVD(&m, userID, ratings), cfg.Weights.SVD)
		}
	}

	var content ContentModel
	contentLoaded := s.store.Load(artifact.NameContent, &content) == nil
	if contentLoaded {
		addComponent(scoreContent(&content, ratings), cfg.Weights.Content)
	}

	var neural NeuralModel
	if err := s.store.Load(artifact.NameNeural, &neural); err == nil {
		addComponent(scoreNeural(&neural, userID, ratings), cfg.Weights.Neural)
	}

	if componentsUsed == 0 {
		return s.fallback(cfg, userID, ratings)
	}

	if cfg.DiversityBoost && contentLoaded {
		applyDiversityBoost(blended, &content, cfg.DiversityWeight)
	}

	items := make([]Scored, 0, len(blended))
	for movieID, score := range blended {
		if score > 0 {
			items = append(items, Scored{MovieID: movieID, Score: score})
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].MovieID < items[j].MovieID
	})
	if len(items) > topN {
		items = items[:topN]
	}
	return items, nil
}

// fallback recorre el orden configurado probando algoritmos
// individuales hasta que alguno produzca resultados.
func (s *Scorer) fallback(cfg HybridConfig, userID int, ratings []models.RatingDoc) ([]Scored, error) {
	for _, algo := range cfg.FallbackOrder {
		if algo == models.AlgoHybrid {
			continue
		}
		items, err := s.Score(algo, userID, ratings)
		if err != nil {
			continue
		}
		if len(items) > 0 {
			return items, nil
		}
	}
	return nil, fmt.Errorf("híbrido sin componentes disponibles: %w", artifact.ErrNotFound)
}

// applyDiversityBoost premia candidatos cuyo género todavía no domina
// la lista mezclada.
func applyDiversityBoost(blended map[int]float64, content *ContentModel, weight float64) {
	genreMass := make(map[string]float64)
	for movieID, score := range blended {
		idx, ok := content.MovieIdx[movieID]
		if !ok {
			continue
		}
		for _, g := range content.MovieGenres[idx] {
			genreMass[g] += score
		}
	}

	var total float64
	for _, v := range genreMass {
		total += v
	}
	if total == 0 {
		return
	}

	for movieID, score := range blended {
		idx, ok := content.MovieIdx[movieID]
		if !ok || len(content.MovieGenres[idx]) == 0 {
			continue
		}
		var rarity float64
		for _, g := range content.MovieGenres[idx] {
			rarity += 1 - genreMass[g]/total
		}
		rarity /= float64(len(content.MovieGenres[idx]))
		blended[movieID] = score * (1 + weight*rarity)
	}
}

// ---------------------- helpers ----------------------

func ratingMap(ratings []models.RatingDoc) map[int]float64 {
	out := make(map[int]float64, len(ratings))
	for _, r := range ratings {
		out[r.MovieID] = r.Rating
	}
	return out
}

func cosine(a, b []float64) float64 {
	dot := floats.Dot(a, b)
	na := floats.Norm(a, 2)
	nb := floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (na * nb)
}

// rank arma el top-N: excluye lo ya valorado, se queda con score
// positivo y ordena descendente con desempate estable por el orden de
// películas entrenado.
func rank(scores []float64, movieIDs []int, ratedBy map[int]float64) []Scored {
	items := make([]Scored, 0, len(scores))
	for i, score := range scores {
		movieID := movieIDs[i]
		if _, rated := ratedBy[movieID]; rated {
			continue
		}
		if score <= 0 {
			continue
		}
		items = append(items, Scored{MovieID: movieID, Score: score})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
	if len(items) > topN {
		items = items[:topN]
	}
	return items
}

// normalizeScores escala min-max a [0,1] para que los componentes de la
// mezcla sean comparables entre sí.
func normalizeScores(items []Scored) []Scored {
	if len(items) == 0 {
		return items
	}

	minS, maxS := math.Inf(1), math.Inf(-1)
	for _, it := range items {
		minS = math.Min(minS, it.Score)
		maxS = math.Max(maxS, it.Score)
	}

	out := make([]Scored, len(items))
	span := maxS - minS
	for i, it := range items {
		norm := 1.0
		if span > 0 {
			norm = (it.Score - minS) / span
		}
		out[i] = Scored{MovieID: it.MovieID, Score: norm}
	}
	return out
}
