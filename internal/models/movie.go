package models

type RatingStats struct {
	Average     float64 `json:"average" bson:"average"`
	Count       int     `json:"count" bson:"count"`
	LastRatedAt string  `json:"lastRatedAt,omitempty" bson:"lastRatedAt,omitempty"`
}

type MovieDoc struct {
	MovieID int      `json:"movieId" bson:"movieId"`
	Title   string   `json:"title" bson:"title"`
	Year    *int     `json:"year,omitempty" bson:"year,omitempty"`
	Genres  []string `json:"genres" bson:"genres"`

	// Campos de contenido (alimentan el modelo TF-IDF)
	Director string   `json:"director,omitempty" bson:"director,omitempty"`
	Cast     []string `json:"cast,omitempty" bson:"cast,omitempty"`
	Plot     string   `json:"plot,omitempty" bson:"plot,omitempty"`
	Runtime  int      `json:"runtime,omitempty" bson:"runtime,omitempty"`

	// Contadores de feedback implícito
	ViewCount      int `json:"viewCount" bson:"viewCount"`
	WatchlistCount int `json:"watchlistCount" bson:"watchlistCount"`

	RatingStats *RatingStats `json:"ratingStats,omitempty" bson:"ratingStats,omitempty"`
	CreatedAt   string       `json:"createdAt" bson:"createdAt"`
	UpdatedAt   string       `json:"updatedAt" bson:"updatedAt"`
}

// Payload para crear/actualizar una película desde el admin.
type MovieCreateRequest struct {
	Title    string   `json:"title"` // obligatorio
	Year     *int     `json:"year,omitempty"`
	Genres   []string `json:"genres,omitempty"`
	Director string   `json:"director,omitempty"`
	Cast     []string `json:"cast,omitempty"`
	Plot     string   `json:"plot,omitempty"`
	Runtime  int      `json:"runtime,omitempty"`
}
