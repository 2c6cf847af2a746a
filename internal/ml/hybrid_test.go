package ml

import (
	"testing"

	"github.com/Ridakhan15/movie-recommender/internal/models"
)

func TestDefaultHybridConfigIsValid(t *testing.T) {
	if err := DefaultHybridConfig().Validate(); err != nil {
		t.Fatalf("la config default no valida: %v", err)
	}
}

func TestHybridConfigValidate(t *testing.T) {
	base := DefaultHybridConfig()

	cases := []struct {
		name   string
		mutate func(*HybridConfig)
	}{
		{"peso fuera de rango", func(c *HybridConfig) { c.Weights.Collaborative = 1.5 }},
		{"pesos no suman 1", func(c *HybridConfig) { c.Weights.Neural = 0.5 }},
		{"umbral negativo", func(c *HybridConfig) { c.MinRatingsForSVD = -1 }},
		{"fallback desconocido", func(c *HybridConfig) { c.FallbackOrder = []string{"bogus"} }},
		{"diversityWeight fuera de rango", func(c *HybridConfig) { c.DiversityWeight = 2 }},
	}

	for _, c := range cases {
		cfg := base
		cfg.FallbackOrder = append([]string{}, base.FallbackOrder...)
		c.mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: Validate no detectó el problema", c.name)
		}
	}
}

func TestHybridWeightsSum(t *testing.T) {
	w := HybridWeights{Collaborative: 0.1, SVD: 0.2, Content: 0.3, Neural: 0.4}
	if got := w.Sum(); got != 1.0 {
		t.Fatalf("Sum = %v", got)
	}
}

func TestDefaultFallbackOrderSkipsHybrid(t *testing.T) {
	for _, algo := range DefaultHybridConfig().FallbackOrder {
		if algo == models.AlgoHybrid {
			t.Fatal("el fallback no puede contener hybrid (recursión)")
		}
	}
}
