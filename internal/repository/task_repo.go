package repository

import (
	"context"
	"time"

	"github.com/Ridakhan15/movie-recommender/internal/db"
	"github.com/Ridakhan15/movie-recommender/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TaskRepository struct {
	col *mongo.Collection
}

func NewTaskRepository() *TaskRepository {
	return &TaskRepository{col: db.DB().Collection("model_tasks")}
}

func (r *TaskRepository) Insert(ctx context.Context, task *models.ModelUpdateTask) error {
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	if task.Status == "" {
		task.Status = models.TaskStatusPending
	}
	_, err := r.col.InsertOne(ctx, task)
	return err
}

// FindPending devuelve las tareas pendientes más antiguas primero
// (orden de creación), acotado a limit.
func (r *TaskRepository) FindPending(ctx context.Context, limit int) ([]models.ModelUpdateTask, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, bson.M{"status": models.TaskStatusPending}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ModelUpdateTask
	for cur.Next(ctx) {
		var t models.ModelUpdateTask
		if err := cur.Decode(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, cur.Err()
}

// MarkProcessing transiciona pending -> processing. El filtro por estado
// garantiza que ninguna transición se salte processing ni pise un
// estado terminal.
func (r *TaskRepository) MarkProcessing(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now()
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.TaskStatusPending},
		bson.M{"$set": bson.M{
			"status":    models.TaskStatusProcessing,
			"startedAt": now,
		}},
	)
	return err
}

// MarkCompleted transiciona processing -> completed.
func (r *TaskRepository) MarkCompleted(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now()
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.TaskStatusProcessing},
		bson.M{"$set": bson.M{
			"status":      models.TaskStatusCompleted,
			"completedAt": now,
		}},
	)
	return err
}

// MarkFailed transiciona processing -> failed guardando el texto del error.
func (r *TaskRepository) MarkFailed(ctx context.Context, id primitive.ObjectID, errMsg string) error {
	now := time.Now()
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.TaskStatusProcessing},
		bson.M{"$set": bson.M{
			"status":       models.TaskStatusFailed,
			"completedAt":  now,
			"errorMessage": errMsg,
		}},
	)
	return err
}

// FailStaleProcessing marca como failed las tareas que quedaron en
// processing de un proceso que murió (startedAt más viejo que cutoff).
// Devuelve cuántas reconcilió.
func (r *TaskRepository) FailStaleProcessing(ctx context.Context, cutoff time.Time, errMsg string) (int64, error) {
	res, err := r.col.UpdateMany(ctx,
		bson.M{
			"status":    models.TaskStatusProcessing,
			"startedAt": bson.M{"$lt": cutoff},
		},
		bson.M{"$set": bson.M{
			"status":       models.TaskStatusFailed,
			"completedAt":  time.Now(),
			"errorMessage": errMsg,
		}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *TaskRepository) List(ctx context.Context, status string, limit, offset int) ([]models.ModelUpdateTask, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ModelUpdateTask
	for cur.Next(ctx) {
		var t models.ModelUpdateTask
		if err := cur.Decode(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, cur.Err()
}

// CountByStatus para el resumen del admin.
func (r *TaskRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	pipeline := bson.A{
		bson.M{"$group": bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make(map[string]int64)
	for cur.Next(ctx) {
		var doc struct {
			Status string `bson:"_id"`
			Count  int64  `bson:"count"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out[doc.Status] = doc.Count
	}
	return out, cur.Err()
}
