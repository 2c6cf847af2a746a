package main

import (
	"bufio"
	"context"
	"encoding/json"
	"log"
	"net"

	"github.com/Ridakhan15/movie-recommender/internal/artifact"
	"github.com/Ridakhan15/movie-recommender/internal/cluster"
	"github.com/Ridakhan15/movie-recommender/internal/config"
	"github.com/Ridakhan15/movie-recommender/internal/db"
	"github.com/Ridakhan15/movie-recommender/internal/feature"
	"github.com/Ridakhan15/movie-recommender/internal/models"
	"github.com/Ridakhan15/movie-recommender/internal/repository"
	"github.com/Ridakhan15/movie-recommender/internal/service"
	"github.com/Ridakhan15/movie-recommender/internal/tasks"
)

func main() {
	cfg := config.Load()
	db.InitMongo(cfg)

	artifacts, err := artifact.NewStore(cfg.ModelsDir)
	if err != nil {
		log.Fatalf("[trainer] error abriendo directorio de modelos: %v", err)
	}

	ratingRepo := repository.NewRatingRepository()
	interactionRepo := repository.NewInteractionRepository()
	movieRepo := repository.NewMovieRepository()
	taskRepo := repository.NewTaskRepository()

	features := feature.NewStore(ratingRepo, interactionRepo, movieRepo)
	trainingSvc := service.NewTrainingService(features, artifacts, cfg.NeuralEnabled)

	runner := tasks.NewRunner(taskRepo, &trainPipeline{svc: trainingSvc},
		cfg.TaskPollInterval, cfg.TrainInterval)

	ctx := context.Background()

	// tareas colgadas de un proceso anterior que murió
	if err := runner.RecoverStale(ctx); err != nil {
		log.Printf("[trainer] error reconciliando tareas colgadas: %v", err)
	}

	go runner.Start(ctx)

	// canal de control: la API manda solicitudes de reentreno por acá
	ln, err := net.Listen("tcp", ":"+trainerPort(cfg))
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("[trainer] escuchando en %s", ln.Addr())

	for {
		conn, err := ln.Accept()
		if err != nil {
			log.Println("accept error:", err)
			continue
		}
		go handleConn(conn, taskRepo)
	}
}

// trainerPort saca el puerto de TRAINER_ADDR (host:puerto).
func trainerPort(cfg *config.Config) string {
	_, port, err := net.SplitHostPort(cfg.TrainerAddr)
	if err != nil || port == "" {
		return "9001"
	}
	return port
}

// handleConn atiende una solicitud de reentreno: la encola y responde
// el ack de inmediato. El entrenamiento lo drena el runner después.
func handleConn(conn net.Conn, taskRepo *repository.TaskRepository) {
	defer conn.Close()

	dec := json.NewDecoder(bufio.NewReader(conn))
	var req cluster.TrainRequest
	if err := dec.Decode(&req); err != nil {
		log.Printf("[trainer] decode request error: %v", err)
		return
	}

	ack := enqueue(context.Background(), taskRepo, &req)

	if err := json.NewEncoder(conn).Encode(ack); err != nil {
		log.Printf("[trainer] encode ack error: %v", err)
	}
}

func enqueue(ctx context.Context, taskRepo *repository.TaskRepository, req *cluster.TrainRequest) *cluster.TrainAck {
	switch req.Kind {
	case models.TaskTypeFullRetrain, models.TaskTypeIncrementalUpdate:
	default:
		return &cluster.TrainAck{
			Accepted: false,
			Message:  "tipo de reentreno desconocido: " + req.Kind,
		}
	}
	if req.Algorithm != "" && !models.ValidAlgorithm(req.Algorithm) {
		return &cluster.TrainAck{
			Accepted: false,
			Message:  "algoritmo desconocido: " + req.Algorithm,
		}
	}

	task := &models.ModelUpdateTask{
		TaskType:        req.Kind,
		Algorithm:       req.Algorithm,
		TriggeredByUser: req.TriggeredByUser,
	}
	if err := taskRepo.Insert(ctx, task); err != nil {
		log.Printf("[trainer] error encolando tarea: %v", err)
		return &cluster.TrainAck{Accepted: false, Message: err.Error()}
	}

	log.Printf("[trainer] tarea encolada: %s kind=%s algo=%q", task.ID.Hex(), req.Kind, req.Algorithm)
	return &cluster.TrainAck{Accepted: true, TaskID: task.ID.Hex()}
}

// trainPipeline adapta el TrainingService al runner de tareas.
type trainPipeline struct {
	svc *service.TrainingService
}

func (p *trainPipeline) Run(ctx context.Context, task models.ModelUpdateTask) error {
	if task.Algorithm != "" {
		return p.svc.TrainOne(ctx, task.Algorithm)
	}
	return p.svc.RunCycle(ctx)
}
