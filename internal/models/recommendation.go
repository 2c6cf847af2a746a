package models

import "time"

// Item de la lista rankeada que devolvemos por API. El score interno se
// usa solo para ordenar, nunca se expone crudo.
type RecItem struct {
	MovieID int      `json:"movieId" bson:"movieId"`
	Title   string   `json:"title" bson:"title"`
	Genres  []string `json:"genres" bson:"genres"`
}

// Historial de recomendaciones servidas (colección recommendations).
type Recommendation struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    int       `bson:"userId" json:"userId"`
	Algorithm string    `bson:"algorithm" json:"algorithm"`
	Params    any       `bson:"params" json:"params"`
	Items     []RecItem `bson:"items" json:"items"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
