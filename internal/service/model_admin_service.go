package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Ridakhan15/movie-recommender/internal/artifact"
	"github.com/Ridakhan15/movie-recommender/internal/cluster"
	"github.com/Ridakhan15/movie-recommender/internal/models"
	"github.com/Ridakhan15/movie-recommender/internal/repository"
)

// ModelAdminService expone el estado del registry de modelos y permite
// disparar reentrenos on-demand contra el nodo trainer.
type ModelAdminService struct {
	artifacts *artifact.Store
	tasks     *repository.TaskRepository

	// dirección TCP del trainer
	trainerAddr string
}

func NewModelAdminService(as *artifact.Store, t *repository.TaskRepository, trainerAddr string) *ModelAdminService {
	return &ModelAdminService{
		artifacts:   as,
		tasks:       t,
		trainerAddr: trainerAddr,
	}
}

// Estado de un snapshot publicado.
type ModelStatus struct {
	Name        string     `json:"name"`
	Trained     bool       `json:"trained"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

type ModelsSummary struct {
	Models     []ModelStatus    `json:"models"`
	TaskCounts map[string]int64 `json:"taskCounts"`
}

// Summary lista qué modelos tienen snapshot publicado y el conteo de
// tareas por estado.
func (s *ModelAdminService) Summary(ctx context.Context) (*ModelsSummary, error) {
	names := []string{
		artifact.NameCollaborative,
		artifact.NameSVD,
		artifact.NameContent,
		artifact.NameNeural,
		artifact.NameHybridConfig,
	}

	out := &ModelsSummary{}
	for _, name := range names {
		st := ModelStatus{Name: name, Trained: s.artifacts.Exists(name)}
		if ts, ok := s.artifacts.ModTime(name); ok {
			st.PublishedAt = &ts
		}
		out.Models = append(out.Models, st)
	}

	counts, err := s.tasks.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	out.TaskCounts = counts
	return out, nil
}

// TriggerRetrain manda la solicitud al trainer y devuelve el ack. El
// trainer encola y responde enseguida: esto nunca bloquea esperando el
// entrenamiento.
func (s *ModelAdminService) TriggerRetrain(ctx context.Context, kind, algorithm string, triggeredBy int) (*cluster.TrainAck, error) {
	switch kind {
	case models.TaskTypeFullRetrain, models.TaskTypeIncrementalUpdate:
	default:
		return nil, fmt.Errorf("tipo de reentreno desconocido: %q", kind)
	}
	if algorithm != "" && !models.ValidAlgorithm(algorithm) {
		return nil, fmt.Errorf("algoritmo desconocido: %q", algorithm)
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return cluster.SendTrainRequest(ctxTimeout, s.trainerAddr, &cluster.TrainRequest{
		Kind:            kind,
		Algorithm:       algorithm,
		TriggeredByUser: &triggeredBy,
	})
}

func (s *ModelAdminService) ListTasks(ctx context.Context, status string, limit, offset int) ([]models.ModelUpdateTask, error) {
	if status != "" {
		switch status {
		case models.TaskStatusPending, models.TaskStatusProcessing,
			models.TaskStatusCompleted, models.TaskStatusFailed:
		default:
			return nil, fmt.Errorf("estado desconocido: %q", status)
		}
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.tasks.List(ctx, status, limit, offset)
}
