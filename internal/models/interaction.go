package models

// Tipos de interacción implícita.
const (
	InteractionView      = "view"
	InteractionWatchlist = "watchlist"
	InteractionWatching  = "watching"
	InteractionWatched   = "watched"
	InteractionShare     = "share"
)

// Documento append-only de la colección interactions.
type InteractionDoc struct {
	UserID        int    `json:"userId" bson:"userId"`
	MovieID       int    `json:"movieId" bson:"movieId"`
	Type          string `json:"type" bson:"type"`
	WatchProgress int    `json:"watchProgress" bson:"watchProgress"` // 0..100
	Timestamp     int64  `json:"timestamp" bson:"timestamp"`
}

func ValidInteractionType(t string) bool {
	switch t {
	case InteractionView, InteractionWatchlist, InteractionWatching,
		InteractionWatched, InteractionShare:
		return true
	}
	return false
}

// ImplicitWeight: peso de preferencia débil que aporta una interacción
// al entrenamiento SVD (watchlist pesa más que una vista suelta).
func ImplicitWeight(interactionType string) float64 {
	if interactionType == InteractionWatchlist {
		return 0.5
	}
	return 0.3
}
