package repository

import (
	"context"

	"github.com/Ridakhan15/movie-recommender/internal/db"
	"github.com/Ridakhan15/movie-recommender/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ExperimentRepository struct {
	col *mongo.Collection
}

func NewExperimentRepository() *ExperimentRepository {
	return &ExperimentRepository{col: db.DB().Collection("experiments")}
}

// Campos de contador de la fila de experimento.
const (
	FieldShown   = "recommendationsShown"
	FieldClicked = "recommendationsClicked"
	FieldRated   = "recommendationsRated"
)

// IncrementAndRecompute incrementa un contador y recalcula ctr y
// conversionRate en UN solo update con pipeline de agregación. Mongo
// aplica el update de forma atómica sobre el documento, así que dos
// requests concurrentes para la misma fila (user, variante) no pierden
// incrementos. El upsert crea la fila en cero en el primer toque.
func (r *ExperimentRepository) IncrementAndRecompute(
	ctx context.Context,
	userID int,
	variant string,
	field string,
	n int,
) (*models.ExperimentDoc, error) {

	filter := bson.M{"userId": userID, "algorithmVariant": variant}

	pipeline := bson.A{
		// 1) fila nueva: materializar contadores en cero
		bson.M{"$set": bson.M{
			"userId":           userID,
			"algorithmVariant": variant,
			FieldShown:         bson.M{"$ifNull": bson.A{"$" + FieldShown, 0}},
			FieldClicked:       bson.M{"$ifNull": bson.A{"$" + FieldClicked, 0}},
			FieldRated:         bson.M{"$ifNull": bson.A{"$" + FieldRated, 0}},
			"avgRatingGiven":   bson.M{"$ifNull": bson.A{"$avgRatingGiven", 0.0}},
			"createdAt":        bson.M{"$ifNull": bson.A{"$createdAt", "$$NOW"}},
		}},
		// 2) incremento del contador pedido
		bson.M{"$set": bson.M{
			field: bson.M{"$add": bson.A{"$" + field, n}},
		}},
		// 3) recálculo sincrónico de las tasas derivadas
		bson.M{"$set": bson.M{
			"ctr": bson.M{"$cond": bson.A{
				bson.M{"$gt": bson.A{"$" + FieldShown, 0}},
				bson.M{"$multiply": bson.A{
					bson.M{"$divide": bson.A{"$" + FieldClicked, "$" + FieldShown}},
					100,
				}},
				0,
			}},
			"conversionRate": bson.M{"$cond": bson.A{
				bson.M{"$gt": bson.A{"$" + FieldShown, 0}},
				bson.M{"$multiply": bson.A{
					bson.M{"$divide": bson.A{"$" + FieldRated, "$" + FieldShown}},
					100,
				}},
				0,
			}},
			"updatedAt": "$$NOW",
		}},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc models.ExperimentDoc
	if err := r.col.FindOneAndUpdate(ctx, filter, pipeline, opts).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// SetAvgRating actualiza avgRatingGiven (recalculado afuera desde la
// colección de ratings).
func (r *ExperimentRepository) SetAvgRating(ctx context.Context, userID int, variant string, avg float64) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"userId": userID, "algorithmVariant": variant},
		bson.M{"$set": bson.M{"avgRatingGiven": avg}},
	)
	return err
}

func (r *ExperimentRepository) Get(ctx context.Context, userID int, variant string) (*models.ExperimentDoc, error) {
	var doc models.ExperimentDoc
	err := r.col.FindOne(ctx, bson.M{"userId": userID, "algorithmVariant": variant}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *ExperimentRepository) List(ctx context.Context, limit, offset int) ([]models.ExperimentDoc, error) {
	cur, err := r.col.Find(ctx, bson.M{},
		options.Find().SetLimit(int64(limit)).SetSkip(int64(offset)))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ExperimentDoc
	for cur.Next(ctx) {
		var doc models.ExperimentDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, cur.Err()
}
