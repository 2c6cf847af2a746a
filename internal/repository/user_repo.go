package repository

import (
	"context"
	"time"

	"github.com/Ridakhan15/movie-recommender/internal/db"
	"github.com/Ridakhan15/movie-recommender/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository() *UserRepository {
	return &UserRepository{col: db.DB().Collection("users")}
}

func (r *UserRepository) FindByID(ctx context.Context, userID int) (*models.UserDoc, error) {
	var u models.UserDoc
	err := r.col.FindOne(ctx, bson.M{"userId": userID}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// EnsureUser crea el documento del usuario si todavía no existe
// (los usuarios los da de alta el sistema de auth externo, acá solo
// materializamos el perfil de experimentación).
func (r *UserRepository) EnsureUser(ctx context.Context, userID int) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$setOnInsert": bson.M{
			"userId":    userID,
			"role":      "user",
			"createdAt": time.Now().Format(time.RFC3339),
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

// AssignAlgorithmIfEmpty setea la variante solo si el usuario aún no
// tiene una (asignación pegajosa). El filtro hace la operación atómica:
// dos requests concurrentes no pueden pisarse la asignación.
func (r *UserRepository) AssignAlgorithmIfEmpty(ctx context.Context, userID int, algorithm string) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{
			"userId": userID,
			"$or": bson.A{
				bson.M{"assignedAlgorithm": bson.M{"$exists": false}},
				bson.M{"assignedAlgorithm": ""},
			},
		},
		bson.M{"$set": bson.M{
			"assignedAlgorithm": algorithm,
			"updatedAt":         time.Now().Format(time.RFC3339),
		}},
	)
	return err
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]models.UserDoc, error) {
	cur, err := r.col.Find(ctx, bson.M{},
		options.Find().SetLimit(int64(limit)).SetSkip(int64(offset)))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.UserDoc
	for cur.Next(ctx) {
		var u models.UserDoc
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, cur.Err()
}
