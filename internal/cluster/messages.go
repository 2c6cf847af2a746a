package cluster

// Solicitud de entrenamiento enviada desde la API al nodo trainer.
type TrainRequest struct {
	// full_retrain | incremental_update
	Kind string `json:"kind"`
	// Algoritmo puntual a reentrenar; vacío = ciclo completo
	Algorithm string `json:"algorithm,omitempty"`
	// Usuario que disparó la solicitud (para el log de auditoría)
	TriggeredByUser *int `json:"triggeredByUser,omitempty"`
}

// Respuesta del trainer: la solicitud quedó encolada o fue rechazada.
type TrainAck struct {
	Accepted bool   `json:"accepted"`
	TaskID   string `json:"taskId,omitempty"`
	Message  string `json:"message,omitempty"`
}
