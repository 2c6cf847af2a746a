package ml

import (
	"fmt"
	"math"

	"github.com/Ridakhan15/movie-recommender/internal/models"
)

// Pesos de mezcla por algoritmo. Deben sumar ~1.
type HybridWeights struct {
	Collaborative float64 `json:"collaborative"`
	SVD           float64 `json:"svd"`
	Content       float64 `json:"content"`
	Neural        float64 `json:"neural"`
}

func (w HybridWeights) Sum() float64 {
	return w.Collaborative + w.SVD + w.Content + w.Neural
}

// HybridConfig es política, no modelo aprendido: se escribe a mano,
// se persiste como snapshot y se lee al momento de puntuar.
type HybridConfig struct {
	Weights HybridWeights `json:"weights"`

	// Orden en que se intentan algoritmos individuales cuando ningún
	// componente de la mezcla es elegible.
	FallbackOrder []string `json:"fallbackOrder"`

	// Umbrales que habilitan los componentes que dependen de historial
	MinRatingsForCollaborative int `json:"minRatingsForCollaborative"`
	MinRatingsForSVD           int `json:"minRatingsForSvd"`

	EnableImplicitFeedback bool    `json:"enableImplicitFeedback"`
	ImplicitWeight         float64 `json:"implicitWeight"`

	DiversityBoost  bool    `json:"diversityBoost"`
	DiversityWeight float64 `json:"diversityWeight"`
}

// DefaultHybridConfig: los valores operativos del sistema.
func DefaultHybridConfig() HybridConfig {
	return HybridConfig{
		Weights: HybridWeights{
			Collaborative: 0.35,
			SVD:           0.30,
			Content:       0.25,
			Neural:        0.10,
		},
		FallbackOrder: []string{
			models.AlgoSVD,
			models.AlgoCollaborative,
			models.AlgoContent,
		},
		MinRatingsForCollaborative: 5,
		MinRatingsForSVD:           10,
		EnableImplicitFeedback:     true,
		ImplicitWeight:             0.3,
		DiversityBoost:             true,
		DiversityWeight:            0.15,
	}
}

// Validate se corre al cargar la config: pesos en [0,1] sumando 1±0.01,
// umbrales no negativos y fallback con variantes conocidas.
func (c HybridConfig) Validate() error {
	for name, w := range map[string]float64{
		"collaborative": c.Weights.Collaborative,
		"svd":           c.Weights.SVD,
		"content":       c.Weights.Content,
		"neural":        c.Weights.Neural,
	} {
		if w < 0 || w > 1 {
			return fmt.Errorf("peso %s fuera de rango [0,1]: %v", name, w)
		}
	}

	if diff := math.Abs(c.Weights.Sum() - 1.0); diff > 0.01 {
		return fmt.Errorf("los pesos deben sumar 1.0 (±0.01), suman %.4f", c.Weights.Sum())
	}

	if c.MinRatingsForCollaborative < 0 || c.MinRatingsForSVD < 0 {
		return fmt.Errorf("los umbrales de ratings mínimos no pueden ser negativos")
	}

	for _, algo := range c.FallbackOrder {
		if !models.ValidAlgorithm(algo) {
			return fmt.Errorf("algoritmo desconocido en fallbackOrder: %q", algo)
		}
	}

	if c.DiversityWeight < 0 || c.DiversityWeight > 1 {
		return fmt.Errorf("diversityWeight fuera de rango [0,1]: %v", c.DiversityWeight)
	}
	return nil
}
