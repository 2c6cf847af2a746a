package models

import "testing"

func TestRecomputeRatesZeroShown(t *testing.T) {
	e := ExperimentDoc{Clicked: 3, Rated: 2}
	e.RecomputeRates()

	if e.CTR != 0 || e.ConversionRate != 0 {
		t.Fatalf("con shown=0 las tasas deben ser 0, vino ctr=%v conv=%v", e.CTR, e.ConversionRate)
	}
}

func TestRecomputeRatesScenario(t *testing.T) {
	var e ExperimentDoc

	// se sirven 5 recomendaciones
	e.Shown += 5
	e.RecomputeRates()
	if e.CTR != 0 {
		t.Fatalf("ctr tras solo shown = %v", e.CTR)
	}

	// 2 clicks
	e.Clicked += 2
	e.RecomputeRates()
	if e.CTR != 40 {
		t.Fatalf("ctr = %v, esperaba 40", e.CTR)
	}

	// 1 rating
	e.Rated++
	e.RecomputeRates()
	if e.ConversionRate != 20 {
		t.Fatalf("conversionRate = %v, esperaba 20", e.ConversionRate)
	}
	if e.CTR != 40 {
		t.Fatalf("ctr cambió al registrar un rating: %v", e.CTR)
	}
}

func TestValidAlgorithm(t *testing.T) {
	for _, algo := range AllAlgorithms {
		if !ValidAlgorithm(algo) {
			t.Fatalf("%q debería ser válido", algo)
		}
	}
	if ValidAlgorithm("bogus") || ValidAlgorithm("") {
		t.Fatal("variante desconocida aceptada")
	}
}

func TestAssignableAlgorithmsSubset(t *testing.T) {
	for _, algo := range AssignableAlgorithms {
		if !ValidAlgorithm(algo) {
			t.Fatalf("variante asignable desconocida: %q", algo)
		}
		if algo == AlgoNeural || algo == AlgoSVD {
			t.Fatalf("%q no debería sortearse como variante inicial", algo)
		}
	}
}

func TestImplicitWeight(t *testing.T) {
	if ImplicitWeight(InteractionWatchlist) != 0.5 {
		t.Fatal("watchlist debería pesar 0.5")
	}
	for _, typ := range []string{InteractionView, InteractionWatched, InteractionShare} {
		if ImplicitWeight(typ) != 0.3 {
			t.Fatalf("%q debería pesar 0.3", typ)
		}
	}
}
