package repository

import (
	"context"
	"time"

	"github.com/Ridakhan15/movie-recommender/internal/db"
	"github.com/Ridakhan15/movie-recommender/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type PerformanceRepository struct {
	col *mongo.Collection
}

func NewPerformanceRepository() *PerformanceRepository {
	return &PerformanceRepository{col: db.DB().Collection("performances")}
}

func (r *PerformanceRepository) Insert(ctx context.Context, doc *models.PerformanceDoc) error {
	if doc.TestDate.IsZero() {
		doc.TestDate = time.Now()
	}
	_, err := r.col.InsertOne(ctx, doc)
	return err
}

// AggregateByAlgorithm arma el resumen que consume el dashboard:
// promedio de rating / tiempo / diversidad, usuarios distintos y total
// de muestras por algoritmo.
func (r *PerformanceRepository) AggregateByAlgorithm(ctx context.Context) (map[string]models.AlgorithmStats, error) {
	pipeline := bson.A{
		bson.M{"$group": bson.M{
			"_id":          "$algorithm",
			"avgRating":    bson.M{"$avg": "$averageRating"},
			"avgTime":      bson.M{"$avg": "$responseTime"},
			"avgDiversity": bson.M{"$avg": "$diversityScore"},
			"users":        bson.M{"$addToSet": "$userId"},
			"totalTests":   bson.M{"$sum": 1},
		}},
		bson.M{"$project": bson.M{
			"avgRating":    1,
			"avgTime":      1,
			"avgDiversity": 1,
			"totalUsers":   bson.M{"$size": "$users"},
			"totalTests":   1,
		}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make(map[string]models.AlgorithmStats)
	for cur.Next(ctx) {
		var s models.AlgorithmStats
		if err := cur.Decode(&s); err != nil {
			return nil, err
		}
		out[s.Algorithm] = s
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	// algoritmos sin muestras aparecen en cero, igual que el dashboard
	// original
	for _, algo := range models.AllAlgorithms {
		if _, ok := out[algo]; !ok {
			out[algo] = models.AlgorithmStats{Algorithm: algo}
		}
	}
	return out, nil
}
