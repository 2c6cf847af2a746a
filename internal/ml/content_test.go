package ml

import (
	"context"
	"errors"
	"testing"

	"github.com/Ridakhan15/movie-recommender/internal/feature"
	"github.com/Ridakhan15/movie-recommender/internal/models"
)

func sciFiCatalog() []models.MovieDoc {
	return []models.MovieDoc{
		{
			MovieID: 1, Title: "The Matrix",
			Genres:   []string{"Action", "Sci-Fi"},
			Director: "Wachowski",
			Plot:     "hacker discovers simulated reality machines",
		},
		{
			MovieID: 2, Title: "The Matrix Reloaded",
			Genres:   []string{"Action", "Sci-Fi"},
			Director: "Wachowski",
			Plot:     "hacker fights machines inside simulated reality",
		},
		{
			MovieID: 3, Title: "Notting Hill",
			Genres:   []string{"Romance", "Comedy"},
			Director: "Michell",
			Plot:     "bookshop owner falls for famous actress",
		},
	}
}

func TestTrainContentSimilarity(t *testing.T) {
	fs := newTestFeatureStore(nil, nil, sciFiCatalog())

	m, err := TrainContent(context.Background(), fs)
	if err != nil {
		t.Fatal(err)
	}

	if len(m.Vocabulary) == 0 {
		t.Fatal("vocabulario vacío")
	}
	for i := range m.Sim {
		if m.Sim[i][i] != 1 {
			t.Fatalf("diagonal de similitud = %v", m.Sim[i][i])
		}
	}

	// las dos Matrix se parecen más entre sí que con la comedia romántica
	i1, i2, i3 := m.MovieIdx[1], m.MovieIdx[2], m.MovieIdx[3]
	if m.Sim[i1][i2] <= m.Sim[i1][i3] {
		t.Fatalf("sim(matrix, reloaded)=%v <= sim(matrix, notting hill)=%v",
			m.Sim[i1][i2], m.Sim[i1][i3])
	}

	if m.Sim[i1][i2] != m.Sim[i2][i1] {
		t.Fatal("la matriz de similitud no es simétrica")
	}
}

func TestTrainContentEmptyMetadata(t *testing.T) {
	// películas sin ningún campo de contenido: el centinela evita que el
	// vocabulario global quede en cero
	movies := []models.MovieDoc{
		{MovieID: 1, Title: "A"},
		{MovieID: 2, Title: "B"},
	}
	fs := newTestFeatureStore(nil, nil, movies)

	m, err := TrainContent(context.Background(), fs)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Vocabulary) == 0 {
		t.Fatal("vocabulario vacío con centinela presente")
	}
	// documentos idénticos (ambos centinela): similitud 1
	if got := m.Sim[0][1]; got < 0.999 {
		t.Fatalf("sim entre centinelas = %v", got)
	}
}

func TestTrainContentEmptyCatalog(t *testing.T) {
	fs := newTestFeatureStore(nil, nil, nil)

	_, err := TrainContent(context.Background(), fs)
	if !errors.Is(err, feature.ErrEmptyDataset) {
		t.Fatalf("esperaba ErrEmptyDataset, vino %v", err)
	}
}

func TestTokenize(t *testing.T) {
	got := tokenize("The Hacker's REALITY, and a simulation!")
	want := []string{"hacker", "reality", "simulation"}
	if len(got) != len(want) {
		t.Fatalf("tokenize = %v, esperaba %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tokenize = %v, esperaba %v", got, want)
		}
	}
}

func TestNgrams(t *testing.T) {
	got := ngrams([]string{"a1", "b2", "c3"}, 2)
	want := []string{"a1", "b2", "c3", "a1 b2", "b2 c3"}
	if len(got) != len(want) {
		t.Fatalf("ngrams = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ngrams = %v, esperaba %v", got, want)
		}
	}
}

func TestBuildVocabularyCapAndDeterminism(t *testing.T) {
	docs := [][]string{
		{"aa", "aa", "bb", "cc"},
		{"aa", "bb", "dd"},
	}

	vocab := buildVocabulary(docs, 3)
	if len(vocab) != 3 {
		t.Fatalf("vocab = %v, esperaba 3 términos", vocab)
	}
	// el término menos frecuente (cc o dd, empate alfabético -> cc) queda
	// afuera; el resultado final sale ordenado
	want := []string{"aa", "bb", "cc"}
	for i := range want {
		if vocab[i] != want[i] {
			t.Fatalf("vocab = %v, esperaba %v", vocab, want)
		}
	}
}
