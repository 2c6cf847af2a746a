package ml

import (
	"context"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/Ridakhan15/movie-recommender/internal/feature"

	"gonum.org/v1/gonum/floats"
)

const (
	tfidfMaxFeatures = 1000
	tfidfMaxNgram    = 2
)

// Stopwords en inglés (el catálogo base es MovieLens). Lista corta: el
// corte por max_features se encarga del resto.
var englishStopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "has": {}, "he": {}, "in": {}, "is": {},
	"it": {}, "its": {}, "of": {}, "on": {}, "that": {}, "the": {}, "to": {},
	"was": {}, "were": {}, "will": {}, "with": {}, "his": {}, "her": {},
	"she": {}, "they": {}, "this": {}, "but": {}, "not": {}, "or": {},
	"who": {}, "their": {}, "them": {}, "when": {}, "while": {}, "after": {},
	"into": {}, "about": {}, "him": {}, "out": {}, "up": {},
}

// Artefacto del modelo de contenido: estado del vectorizador, matriz
// TF-IDF, matriz completa de similitud coseno por pares y mapeos de id.
// Guarda también los géneros para el boost de diversidad del híbrido.
type ContentModel struct {
	Vocabulary  []string    `json:"vocabulary"`
	IDF         []float64   `json:"idf"`
	TFIDF       [][]float64 `json:"tfidfMatrix"`
	Sim         [][]float64 `json:"cosineSim"`
	MovieIDs    []int       `json:"movieIds"`
	MovieIdx    map[int]int `json:"movieIdToIdx"`
	MovieGenres [][]string  `json:"movieGenres"`
}

// TrainContent vectoriza el texto por película (géneros + director +
// cast + plot) con TF-IDF acotado (1-2 gramas, máx 1000 términos,
// términos raros incluidos) y calcula la similitud coseno de todos los
// pares. ErrEmptyVocabulary solo puede saltar si TODOS los documentos
// quedaron sin tokens, caso que el centinela del feature store ya evita.
func TrainContent(ctx context.Context, fs *feature.Store) (*ContentModel, error) {
	movies, err := fs.Movies(ctx)
	if err != nil {
		return nil, err
	}
	if len(movies) == 0 {
		return nil, feature.ErrEmptyDataset
	}

	docs := make([][]string, len(movies))
	movieIDs := make([]int, len(movies))
	movieGenres := make([][]string, len(movies))
	for i, m := range movies {
		docs[i] = ngrams(tokenize(feature.ExtractTextFeatures(m)), tfidfMaxNgram)
		movieIDs[i] = m.MovieID
		movieGenres[i] = m.Genres
	}

	vocab := buildVocabulary(docs, tfidfMaxFeatures)
	if len(vocab) == 0 {
		return nil, ErrEmptyVocabulary
	}

	termIdx := make(map[string]int, len(vocab))
	for i, t := range vocab {
		termIdx[t] = i
	}

	// document frequency -> idf suavizado: ln((1+n)/(1+df)) + 1
	df := make([]int, len(vocab))
	for _, doc := range docs {
		seen := make(map[int]struct{})
		for _, t := range doc {
			if idx, ok := termIdx[t]; ok {
				seen[idx] = struct{}{}
			}
		}
		for idx := range seen {
			df[idx]++
		}
	}

	n := float64(len(docs))
	idf := make([]float64, len(vocab))
	for i, d := range df {
		idf[i] = math.Log((1+n)/(1+float64(d))) + 1
	}

	// tf * idf con normalización l2 por fila
	tfidf := make([][]float64, len(docs))
	for i, doc := range docs {
		row := make([]float64, len(vocab))
		for _, t := range doc {
			if idx, ok := termIdx[t]; ok {
				row[idx]++
			}
		}
		for j := range row {
			row[j] *= idf[j]
		}
		if norm := floats.Norm(row, 2); norm > 0 {
			floats.Scale(1/norm, row)
		}
		tfidf[i] = row
	}

	// filas normalizadas: el coseno es el producto punto directo
	sim := make([][]float64, len(docs))
	for i := range docs {
		sim[i] = make([]float64, len(docs))
		sim[i][i] = 1
	}
	for i := 0; i < len(docs); i++ {
		for j := i + 1; j < len(docs); j++ {
			s := floats.Dot(tfidf[i], tfidf[j])
			sim[i][j] = s
			sim[j][i] = s
		}
	}

	idx := make(map[int]int, len(movieIDs))
	for i, id := range movieIDs {
		idx[id] = i
	}

	return &ContentModel{
		Vocabulary:  vocab,
		IDF:         idf,
		TFIDF:       tfidf,
		Sim:         sim,
		MovieIDs:    movieIDs,
		MovieIdx:    idx,
		MovieGenres: movieGenres,
	}, nil
}

// tokenize: minúsculas, palabras de 2+ caracteres alfanuméricos, sin
// stopwords.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	out := fields[:0]
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, stop := englishStopwords[f]; stop {
			continue
		}
		out = append(out, f)
	}
	return out
}

// ngrams expande los tokens con los n-gramas contiguos hasta maxN.
func ngrams(tokens []string, maxN int) []string {
	out := make([]string, 0, len(tokens)*maxN)
	out = append(out, tokens...)
	for n := 2; n <= maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}

// buildVocabulary se queda con los maxFeatures términos más frecuentes
// del corpus (min_df=1: los términos raros se quedan). Desempate
// alfabético para que el vocabulario salga determinístico.
func buildVocabulary(docs [][]string, maxFeatures int) []string {
	counts := make(map[string]int)
	for _, doc := range docs {
		for _, t := range doc {
			counts[t]++
		}
	}

	terms := make([]string, 0, len(counts))
	for t := range counts {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})

	if len(terms) > maxFeatures {
		terms = terms[:maxFeatures]
	}
	sort.Strings(terms)
	return terms
}
