package ml

import (
	"context"
	"fmt"

	"github.com/Ridakhan15/movie-recommender/internal/feature"

	"gonum.org/v1/gonum/mat"
)

const maxSVDComponents = 50

// Artefacto del modelo SVD. Autocontenido: lleva sus propios mapeos
// id<->índice para que el scoring no dependa del orden vivo de la base.
type SVDModel struct {
	UserFactors       [][]float64 `json:"userFactors"`
	MovieFactors      [][]float64 `json:"movieFactors"`
	UserIDs           []int       `json:"userIds"`
	MovieIDs          []int       `json:"movieIds"`
	UserIdx           map[int]int `json:"userIdToIdx"`
	MovieIdx          map[int]int `json:"movieIdToIdx"`
	NComponents       int         `json:"nComponents"`
	VarianceExplained float64     `json:"varianceExplained"`
}

// TrainSVD factoriza la matriz combinada (ratings explícitos + pesos
// implícitos) con SVD truncada. El número de componentes se acota a
// min(50, min(dim)-1): nunca puede superar el headroom de rango de la
// matriz o la factorización falla.
func TrainSVD(ctx context.Context, fs *feature.Store) (*SVDModel, error) {
	base, err := fs.BuildUserItemMatrix(ctx)
	if err != nil {
		return nil, err
	}

	implicit, err := fs.BuildImplicitMatrix(ctx, base)
	if err != nil {
		return nil, err
	}

	rows := len(base.UserIDs)
	cols := len(base.MovieIDs)
	if rows < 2 || cols < 2 {
		return nil, fmt.Errorf("matriz %dx%d: %w", rows, cols, ErrInsufficientData)
	}

	combined := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			combined.Set(i, j, base.Matrix[i][j]+implicit[i][j])
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(combined, mat.SVDThin); !ok {
		return nil, fmt.Errorf("factorización SVD no convergió: %w", ErrInsufficientData)
	}

	nComponents := maxSVDComponents
	if m := min(rows, cols) - 1; m < nComponents {
		nComponents = m
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	sigma := svd.Values(nil)

	// userFactors = U_k * Sigma_k, movieFactors = V_k
	userFactors := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		userFactors[i] = make([]float64, nComponents)
		for j := 0; j < nComponents; j++ {
			userFactors[i][j] = u.At(i, j) * sigma[j]
		}
	}

	movieFactors := make([][]float64, cols)
	for i := 0; i < cols; i++ {
		movieFactors[i] = make([]float64, nComponents)
		for j := 0; j < nComponents; j++ {
			movieFactors[i][j] = v.At(i, j)
		}
	}

	// varianza explicada por las k componentes retenidas (observabilidad)
	var kept, total float64
	for i, s := range sigma {
		sq := s * s
		total += sq
		if i < nComponents {
			kept += sq
		}
	}
	variance := 0.0
	if total > 0 {
		variance = kept / total
	}

	return &SVDModel{
		UserFactors:       userFactors,
		MovieFactors:      movieFactors,
		UserIDs:           base.UserIDs,
		MovieIDs:          base.MovieIDs,
		UserIdx:           base.UserIdx,
		MovieIdx:          base.MovieIdx,
		NComponents:       nComponents,
		VarianceExplained: variance,
	}, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
