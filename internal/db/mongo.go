package db

import (
	"context"
	"log"
	"time"

	"github.com/Ridakhan15/movie-recommender/internal/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var mongoClient *mongo.Client
var mongoDB *mongo.Database

func InitMongo(cfg *config.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("[mongo] error conectando: %v", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("[mongo] ping falló: %v", err)
	}

	mongoClient = client
	mongoDB = client.Database(cfg.MongoDB)
	log.Printf("[mongo] conectado a %s / DB=%s\n", cfg.MongoURI, cfg.MongoDB)

	ensureIndexes(ctx)
}

// ensureIndexes materializa los índices únicos que sostienen las
// invariantes de unicidad: un rating por (userId, movieId) y una fila
// de experimento por (userId, algorithmVariant).
func ensureIndexes(ctx context.Context) {
	unique := options.Index().SetUnique(true)

	_, err := mongoDB.Collection("ratings").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "movieId", Value: 1}},
		Options: unique,
	})
	if err != nil {
		log.Printf("[mongo] error creando índice de ratings: %v", err)
	}

	_, err = mongoDB.Collection("experiments").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "algorithmVariant", Value: 1}},
		Options: unique,
	})
	if err != nil {
		log.Printf("[mongo] error creando índice de experiments: %v", err)
	}
}

func DB() *mongo.Database {
	return mongoDB
}
