package models

// Variantes de algoritmo que un usuario puede tener asignadas.
const (
	AlgoCollaborative = "collaborative"
	AlgoSVD           = "svd"
	AlgoContent       = "content"
	AlgoHybrid        = "hybrid"
	AlgoNeural        = "neural"
)

// AllAlgorithms en el orden que usamos para reportes.
var AllAlgorithms = []string{AlgoCollaborative, AlgoSVD, AlgoContent, AlgoHybrid, AlgoNeural}

// Variantes entre las que se sortea la asignación inicial de un usuario.
var AssignableAlgorithms = []string{AlgoCollaborative, AlgoContent, AlgoHybrid}

// Lo que está en Mongo. Único por (userId, movieId): un re-rating
// sobreescribe, nunca agrega.
type RatingDoc struct {
	UserID  int     `json:"userId" bson:"userId"`
	MovieID int     `json:"movieId" bson:"movieId"`
	Rating  float64 `json:"rating" bson:"rating"`
	// Qué algoritmo le recomendó la película (vacío = descubrimiento propio).
	// En re-rating gana la asignación más reciente del usuario.
	RecommendedByAlgorithm string `json:"recommendedByAlgorithm,omitempty" bson:"recommendedByAlgorithm,omitempty"`
	Timestamp              int64  `json:"timestamp" bson:"timestamp"`
}

func ValidAlgorithm(a string) bool {
	for _, v := range AllAlgorithms {
		if v == a {
			return true
		}
	}
	return false
}
