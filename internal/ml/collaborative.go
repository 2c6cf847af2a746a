package ml

import (
	"context"

	"github.com/Ridakhan15/movie-recommender/internal/feature"
)

// TrainCollaborative materializa la matriz usuario-película con sus
// mapeos de índice congelados. No hay paso de ajuste: la similitud
// entre usuarios se calcula perezosamente al puntuar, porque la matriz
// cambia seguido y precomputar todos los pares es trabajo tirado para
// la fracción chica de usuarios activos.
func TrainCollaborative(ctx context.Context, fs *feature.Store) (*feature.UserItemMatrix, error) {
	return fs.BuildUserItemMatrix(ctx)
}
