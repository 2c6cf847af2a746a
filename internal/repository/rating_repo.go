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

type RatingRepository struct {
	col *mongo.Collection
}

func NewRatingRepository() *RatingRepository {
	return &RatingRepository{col: db.DB().Collection("ratings")}
}

// UpsertRating guarda o sobreescribe el rating de (userId, movieId).
// Devuelve true si el rating es nuevo (no existía antes). El tag de
// algoritmo se sobreescribe siempre: gana la asignación más reciente.
func (r *RatingRepository) UpsertRating(
	ctx context.Context,
	userID, movieID int,
	rating float64,
	recommendedBy string,
) (bool, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"userId": userID, "movieId": movieID},
		bson.M{"$set": bson.M{
			"rating":                 rating,
			"recommendedByAlgorithm": recommendedBy,
			// guardamos epoch (int64)
			"timestamp": time.Now().Unix(),
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}

func (r *RatingRepository) GetOne(ctx context.Context, userID, movieID int) (*models.RatingDoc, error) {
	var doc models.RatingDoc
	err := r.col.FindOne(ctx, bson.M{"userId": userID, "movieId": movieID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *RatingRepository) GetByUser(ctx context.Context, userID, limit, offset int) ([]models.RatingDoc, error) {
	cur, err := r.col.Find(ctx,
		bson.M{"userId": userID},
		options.Find().SetLimit(int64(limit)).SetSkip(int64(offset)),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.RatingDoc
	for cur.Next(ctx) {
		var doc models.RatingDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, cur.Err()
}

func (r *RatingRepository) GetAllByUser(ctx context.Context, userID int) ([]models.RatingDoc, error) {
	return r.GetByUser(ctx, userID, 10000, 0)
}

// All devuelve todos los ratings (lo consume el feature store al entrenar).
func (r *RatingRepository) All(ctx context.Context) ([]models.RatingDoc, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.RatingDoc
	for cur.Next(ctx) {
		var doc models.RatingDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, cur.Err()
}

// AvgForAlgorithm promedia los ratings del usuario atribuidos a una
// variante. Se recalcula siempre desde la colección (fuente autoritativa)
// para que avgRatingGiven nunca quede desfasado.
func (r *RatingRepository) AvgForAlgorithm(ctx context.Context, userID int, variant string) (float64, bool, error) {
	pipeline := bson.A{
		bson.M{"$match": bson.M{
			"userId":                 userID,
			"recommendedByAlgorithm": variant,
		}},
		bson.M{"$group": bson.M{
			"_id": nil,
			"avg": bson.M{"$avg": "$rating"},
		}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, false, err
	}
	defer cur.Close(ctx)

	if cur.Next(ctx) {
		var doc struct {
			Avg float64 `bson:"avg"`
		}
		if err := cur.Decode(&doc); err != nil {
			return 0, false, err
		}
		return doc.Avg, true, nil
	}
	return 0, false, cur.Err()
}
