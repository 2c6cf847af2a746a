package repository

import (
	"context"
	"time"

	"github.com/Ridakhan15/movie-recommender/internal/db"
	"github.com/Ridakhan15/movie-recommender/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type InteractionRepository struct {
	col *mongo.Collection
}

func NewInteractionRepository() *InteractionRepository {
	return &InteractionRepository{col: db.DB().Collection("interactions")}
}

// Insert agrega una interacción. La colección es append-only: nunca
// se actualiza ni se borra.
func (r *InteractionRepository) Insert(ctx context.Context, doc *models.InteractionDoc) error {
	if doc.Timestamp == 0 {
		doc.Timestamp = time.Now().Unix()
	}
	_, err := r.col.InsertOne(ctx, doc)
	return err
}

// All devuelve todas las interacciones (fuente del feedback implícito).
func (r *InteractionRepository) All(ctx context.Context) ([]models.InteractionDoc, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.InteractionDoc
	for cur.Next(ctx) {
		var doc models.InteractionDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, cur.Err()
}
