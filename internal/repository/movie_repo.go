package repository

import (
	"context"

	"github.com/Ridakhan15/movie-recommender/internal/db"
	"github.com/Ridakhan15/movie-recommender/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MovieRepository struct {
	col *mongo.Collection
}

func NewMovieRepository() *MovieRepository {
	return &MovieRepository{col: db.DB().Collection("movies")}
}

func (r *MovieRepository) GetByID(ctx context.Context, movieID int) (*models.MovieDoc, error) {
	var m models.MovieDoc
	err := r.col.FindOne(ctx, bson.M{"movieId": movieID}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &m, err
}

// GetByIDs trae varias películas de una sola consulta (para armar la
// lista rankeada con título y géneros).
func (r *MovieRepository) GetByIDs(ctx context.Context, movieIDs []int) (map[int]models.MovieDoc, error) {
	out := make(map[int]models.MovieDoc, len(movieIDs))
	if len(movieIDs) == 0 {
		return out, nil
	}

	cur, err := r.col.Find(ctx, bson.M{"movieId": bson.M{"$in": movieIDs}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var m models.MovieDoc
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out[m.MovieID] = m
	}
	return out, cur.Err()
}

// All devuelve el catálogo completo (lo consume el feature store al entrenar).
func (r *MovieRepository) All(ctx context.Context) ([]models.MovieDoc, error) {
	cur, err := r.col.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "movieId", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.MovieDoc
	for cur.Next(ctx) {
		var m models.MovieDoc
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, cur.Err()
}

func (r *MovieRepository) Insert(ctx context.Context, m *models.MovieDoc) error {
	_, err := r.col.InsertOne(ctx, m)
	return err
}

func (r *MovieRepository) Update(ctx context.Context, m *models.MovieDoc) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"movieId": m.MovieID},
		bson.M{"$set": m},
	)
	return err
}

// NextMovieID asigna el siguiente id disponible (max + 1).
func (r *MovieRepository) NextMovieID(ctx context.Context) (int, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "movieId", Value: -1}})
	var m models.MovieDoc
	err := r.col.FindOne(ctx, bson.M{}, opts).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return m.MovieID + 1, nil
}

// BumpInteractionCounter incrementa viewCount o watchlistCount según el tipo.
func (r *MovieRepository) BumpInteractionCounter(ctx context.Context, movieID int, interactionType string) error {
	field := ""
	switch interactionType {
	case models.InteractionView:
		field = "viewCount"
	case models.InteractionWatchlist:
		field = "watchlistCount"
	default:
		return nil
	}
	_, err := r.col.UpdateOne(ctx,
		bson.M{"movieId": movieID},
		bson.M{"$inc": bson.M{field: 1}},
	)
	return err
}

// Search por título (regex case-insensitive) con paginación simple.
func (r *MovieRepository) Search(ctx context.Context, q string, limit, offset int) ([]models.MovieDoc, error) {
	filter := bson.M{}
	if q != "" {
		filter["title"] = bson.M{"$regex": q, "$options": "i"}
	}

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.MovieDoc
	for cur.Next(ctx) {
		var m models.MovieDoc
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, cur.Err()
}
