package models

type UserDoc struct {
	UserID int    `json:"userId" bson:"userId"`
	Email  string `json:"email" bson:"email"`
	Role   string `json:"role" bson:"role"`

	// Perfil de experimentación: variante asignada de forma pegajosa
	// (una vez sorteada no cambia sola, eso da buckets A/B estables).
	AssignedAlgorithm string `json:"assignedAlgorithm,omitempty" bson:"assignedAlgorithm,omitempty"`

	FavoriteGenres []string `json:"favoriteGenres,omitempty" bson:"favoriteGenres,omitempty"`
	CreatedAt      string   `json:"createdAt" bson:"createdAt"`
	UpdatedAt      string   `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}
