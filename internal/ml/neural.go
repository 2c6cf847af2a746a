package ml

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/Ridakhan15/movie-recommender/internal/feature"

	"gonum.org/v1/gonum/floats"
)

// Hiperparámetros del modelo neuronal (NCF chico).
const (
	neuralEmbeddingDim = 50
	neuralEpochs       = 10
	neuralBatchSize    = 128
	neuralLearningRate = 0.001
	neuralDropout      = 0.2
)

var neuralHiddenLayers = []int{64, 32, 16}

// Capa densa serializable: W es [out][in].
type DenseLayer struct {
	W [][]float64 `json:"w"`
	B []float64   `json:"b"`
}

// Artefacto del modelo neuronal: embeddings + pesos del MLP + mapeos.
type NeuralModel struct {
	EmbeddingDim int          `json:"embeddingDim"`
	UserEmb      [][]float64  `json:"userEmbeddings"`
	MovieEmb     [][]float64  `json:"movieEmbeddings"`
	Layers       []DenseLayer `json:"layers"`
	UserIDs      []int        `json:"userIds"`
	MovieIDs     []int        `json:"movieIds"`
	UserIdx      map[int]int  `json:"userIdToIdx"`
	MovieIdx     map[int]int  `json:"movieIdToIdx"`
}

// NeuralAvailable es el chequeo de capacidad del entrenador opcional:
// deshabilitado por config o con datos degenerados se salta el paso con
// un warning, nunca se aborta el pipeline por esto.
func NeuralAvailable(enabled bool, numUsers, numMovies int) bool {
	return enabled && numUsers >= 2 && numMovies >= 2
}

// TrainNeural entrena NCF: embeddings de usuario y película
// concatenados, MLP [64,32,16] con dropout, MSE sobre el rating
// reescalado a [0,1], SGD por mini-batches por un número fijo de épocas.
func TrainNeural(ctx context.Context, fs *feature.Store) (*NeuralModel, error) {
	base, err := fs.BuildUserItemMatrix(ctx)
	if err != nil {
		return nil, err
	}

	numUsers := len(base.UserIDs)
	numMovies := len(base.MovieIDs)
	if numUsers < 2 || numMovies < 2 {
		return nil, fmt.Errorf("matriz %dx%d: %w", numUsers, numMovies, ErrInsufficientData)
	}

	// triples (uIdx, mIdx, target) desde las celdas observadas;
	// target reescalado linealmente de [1,5] a [0,1]
	type sample struct {
		u, m int
		y    float64
	}
	var samples []sample
	for u, row := range base.Matrix {
		for m, r := range row {
			if r > 0 {
				samples = append(samples, sample{u: u, m: m, y: (r - 1) / 4})
			}
		}
	}

	rng := rand.New(rand.NewSource(42))
	model := newNeuralModel(rng, base)

	for epoch := 0; epoch < neuralEpochs; epoch++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		rng.Shuffle(len(samples), func(i, j int) {
			samples[i], samples[j] = samples[j], samples[i]
		})

		for start := 0; start < len(samples); start += neuralBatchSize {
			end := start + neuralBatchSize
			if end > len(samples) {
				end = len(samples)
			}
			for _, s := range samples[start:end] {
				model.sgdStep(rng, s.u, s.m, s.y)
			}
		}
	}

	return model, nil
}

func newNeuralModel(rng *rand.Rand, base *feature.UserItemMatrix) *NeuralModel {
	m := &NeuralModel{
		EmbeddingDim: neuralEmbeddingDim,
		UserEmb:      randMatrix(rng, len(base.UserIDs), neuralEmbeddingDim),
		MovieEmb:     randMatrix(rng, len(base.MovieIDs), neuralEmbeddingDim),
		UserIDs:      base.UserIDs,
		MovieIDs:     base.MovieIDs,
		UserIdx:      base.UserIdx,
		MovieIdx:     base.MovieIdx,
	}

	in := neuralEmbeddingDim * 2
	for _, out := range append(append([]int{}, neuralHiddenLayers...), 1) {
		m.Layers = append(m.Layers, DenseLayer{
			W: randMatrix(rng, out, in),
			B: make([]float64, out),
		})
		in = out
	}
	return m
}

// sgdStep: forward con dropout + backprop de una muestra.
func (m *NeuralModel) sgdStep(rng *rand.Rand, uIdx, mIdx int, target float64) {
	x := make([]float64, m.EmbeddingDim*2)
	copy(x, m.UserEmb[uIdx])
	copy(x[m.EmbeddingDim:], m.MovieEmb[mIdx])

	// forward guardando activaciones y máscaras de dropout
	acts := [][]float64{x}
	masks := make([][]float64, len(m.Layers))
	for li, layer := range m.Layers {
		out := forwardLayer(layer, acts[li])
		if li < len(m.Layers)-1 {
			relu(out)
			masks[li] = dropoutMask(rng, len(out))
			for i := range out {
				out[i] *= masks[li][i]
			}
		}
		acts = append(acts, out)
	}

	pred := sigmoid(acts[len(acts)-1][0])
	// MSE: dL/dpred = 2*(pred-target); dpred/dz = pred*(1-pred)
	delta := []float64{2 * (pred - target) * pred * (1 - pred)}

	// backprop capa por capa
	for li := len(m.Layers) - 1; li >= 0; li-- {
		layer := &m.Layers[li]
		input := acts[li]

		prevDelta := make([]float64, len(input))
		for o := range layer.W {
			for i := range layer.W[o] {
				prevDelta[i] += layer.W[o][i] * delta[o]
				layer.W[o][i] -= neuralLearningRate * delta[o] * input[i]
			}
			layer.B[o] -= neuralLearningRate * delta[o]
		}

		if li > 0 {
			// atravesar dropout y ReLU de la capa anterior
			for i := range prevDelta {
				prevDelta[i] *= masks[li-1][i]
				if acts[li][i] <= 0 {
					prevDelta[i] = 0
				}
			}
		}
		delta = prevDelta
	}

	// gradiente hacia los embeddings
	for i := 0; i < m.EmbeddingDim; i++ {
		m.UserEmb[uIdx][i] -= neuralLearningRate * delta[i]
		m.MovieEmb[mIdx][i] -= neuralLearningRate * delta[m.EmbeddingDim+i]
	}
}

// Predict devuelve el rating estimado en la escala original [1,5].
// Forward sin dropout (inferencia).
func (m *NeuralModel) Predict(userID, movieID int) (float64, bool) {
	uIdx, okU := m.UserIdx[userID]
	mIdx, okM := m.MovieIdx[movieID]
	if !okU || !okM {
		return 0, false
	}

	x := make([]float64, m.EmbeddingDim*2)
	copy(x, m.UserEmb[uIdx])
	copy(x[m.EmbeddingDim:], m.MovieEmb[mIdx])

	for li, layer := range m.Layers {
		x = forwardLayer(layer, x)
		if li < len(m.Layers)-1 {
			relu(x)
		}
	}

	y := sigmoid(x[0])
	return 1 + 4*y, true
}

func forwardLayer(l DenseLayer, in []float64) []float64 {
	out := make([]float64, len(l.W))
	for o := range l.W {
		out[o] = floats.Dot(l.W[o], in) + l.B[o]
	}
	return out
}

func relu(v []float64) {
	for i := range v {
		if v[i] < 0 {
			v[i] = 0
		}
	}
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// dropoutMask con escalado inverso: en inferencia no hay que corregir.
func dropoutMask(rng *rand.Rand, n int) []float64 {
	mask := make([]float64, n)
	scale := 1 / (1 - neuralDropout)
	for i := range mask {
		if rng.Float64() >= neuralDropout {
			mask[i] = scale
		}
	}
	return mask
}

// inicialización uniforme chica tipo Xavier
func randMatrix(rng *rand.Rand, rows, cols int) [][]float64 {
	limit := math.Sqrt(6.0 / float64(rows+cols))
	out := make([][]float64, rows)
	for i := range out {
		out[i] = make([]float64, cols)
		for j := range out[i] {
			out[i][j] = (rng.Float64()*2 - 1) * limit
		}
	}
	return out
}
