// Package tasks drena la cola de tareas de actualización de modelos.
// La cola vive en Mongo (colección model_tasks) y el runner corre en el
// proceso trainer: la API solo encola.
package tasks

import (
	"context"
	"log"
	"time"

	"github.com/Ridakhan15/movie-recommender/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// cuántas tareas pendientes se toman por pasada
	batchSize = 10
	// una tarea en processing más vieja que esto pertenece a un proceso
	// muerto
	staleAfter = 30 * time.Minute
)

const staleErrMsg = "abandonada: proceso reiniciado durante el procesamiento"

// TaskStore es lo que el runner necesita de la cola. Lo implementa
// repository.TaskRepository; los tests usan una versión en memoria.
type TaskStore interface {
	Insert(ctx context.Context, task *models.ModelUpdateTask) error
	FindPending(ctx context.Context, limit int) ([]models.ModelUpdateTask, error)
	MarkProcessing(ctx context.Context, id primitive.ObjectID) error
	MarkCompleted(ctx context.Context, id primitive.ObjectID) error
	MarkFailed(ctx context.Context, id primitive.ObjectID, errMsg string) error
	FailStaleProcessing(ctx context.Context, cutoff time.Time, errMsg string) (int64, error)
}

// Pipeline ejecuta el trabajo de una tarea (reentrenar modelos).
type Pipeline interface {
	Run(ctx context.Context, task models.ModelUpdateTask) error
}

type Runner struct {
	store    TaskStore
	pipeline Pipeline

	pollInterval  time.Duration
	trainInterval time.Duration
}

func NewRunner(store TaskStore, pipeline Pipeline, pollInterval, trainInterval time.Duration) *Runner {
	return &Runner{
		store:         store,
		pipeline:      pipeline,
		pollInterval:  pollInterval,
		trainInterval: trainInterval,
	}
}

// RecoverStale marca como failed las tareas que quedaron colgadas en
// processing por un proceso anterior que murió. Se corre una vez al
// arrancar, antes del primer drenado.
func (r *Runner) RecoverStale(ctx context.Context) error {
	n, err := r.store.FailStaleProcessing(ctx, time.Now().Add(-staleAfter), staleErrMsg)
	if err != nil {
		return err
	}
	if n > 0 {
		log.Printf("[tasks] %d tareas colgadas reconciliadas como failed", n)
	}
	return nil
}

// Start corre los dos loops del runner hasta que el contexto se cancele:
// drenado periódico de la cola y encolado del reentreno completo
// programado.
func (r *Runner) Start(ctx context.Context) {
	poll := time.NewTicker(r.pollInterval)
	defer poll.Stop()

	train := time.NewTicker(r.trainInterval)
	defer train.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-poll.C:
			r.ProcessBatch(ctx)
		case <-train.C:
			r.EnqueueFullRetrain(ctx, nil)
		}
	}
}

// ProcessBatch toma hasta batchSize tareas pendientes (las más viejas
// primero) y las procesa en orden. Una tarea que falla se marca failed
// con su mensaje y el batch sigue: un rating con datos raros no puede
// frenar la cola entera.
func (r *Runner) ProcessBatch(ctx context.Context) {
	pending, err := r.store.FindPending(ctx, batchSize)
	if err != nil {
		log.Printf("[tasks] error leyendo pendientes: %v", err)
		return
	}

	for _, task := range pending {
		if ctx.Err() != nil {
			return
		}

		if err := r.store.MarkProcessing(ctx, task.ID); err != nil {
			log.Printf("[tasks] error marcando %s processing: %v", task.ID.Hex(), err)
			continue
		}

		if err := r.pipeline.Run(ctx, task); err != nil {
			log.Printf("[tasks] tarea %s (%s) falló: %v", task.ID.Hex(), task.TaskType, err)
			if markErr := r.store.MarkFailed(ctx, task.ID, err.Error()); markErr != nil {
				log.Printf("[tasks] error marcando %s failed: %v", task.ID.Hex(), markErr)
			}
			continue
		}

		if err := r.store.MarkCompleted(ctx, task.ID); err != nil {
			log.Printf("[tasks] error marcando %s completed: %v", task.ID.Hex(), err)
		}
	}
}

// EnqueueFullRetrain agrega una tarea de reentreno completo a la cola.
func (r *Runner) EnqueueFullRetrain(ctx context.Context, triggeredBy *int) {
	task := &models.ModelUpdateTask{
		TaskType:        models.TaskTypeFullRetrain,
		TriggeredByUser: triggeredBy,
	}
	if err := r.store.Insert(ctx, task); err != nil {
		log.Printf("[tasks] error encolando reentreno completo: %v", err)
	}
}
