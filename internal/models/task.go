package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Estados posibles de una tarea de actualización de modelos.
// pending -> processing -> completed | failed. Ninguna transición
// se salta processing y un estado terminal nunca retrocede.
const (
	TaskStatusPending    = "pending"
	TaskStatusProcessing = "processing"
	TaskStatusCompleted  = "completed"
	TaskStatusFailed     = "failed"
)

const (
	TaskTypeIncrementalUpdate = "incremental_update"
	TaskTypeFullRetrain       = "full_retrain"
)

// Documento de la colección model_tasks. Log de auditoría append-only:
// nunca se borra.
type ModelUpdateTask struct {
	ID       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TaskType string             `json:"taskType" bson:"taskType"`
	Status   string             `json:"status" bson:"status"`

	// Algoritmo puntual a reentrenar; vacío = ciclo completo
	Algorithm string `json:"algorithm,omitempty" bson:"algorithm,omitempty"`

	// Referencias opcionales a lo que disparó la tarea
	TriggeredByUser  *int `json:"triggeredByUser,omitempty" bson:"triggeredByUser,omitempty"`
	TriggeredByMovie *int `json:"triggeredByMovie,omitempty" bson:"triggeredByMovie,omitempty"`

	CreatedAt    time.Time  `json:"createdAt" bson:"createdAt"`
	StartedAt    *time.Time `json:"startedAt,omitempty" bson:"startedAt,omitempty"`
	CompletedAt  *time.Time `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	ErrorMessage string     `json:"errorMessage,omitempty" bson:"errorMessage,omitempty"`
}
