package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Ridakhan15/movie-recommender/internal/artifact"
	"github.com/Ridakhan15/movie-recommender/internal/feature"
	"github.com/Ridakhan15/movie-recommender/internal/ml"
	"github.com/Ridakhan15/movie-recommender/internal/models"
)

// TrainingService corre el ciclo de entrenamiento y publica cada modelo
// como snapshot atómico. Cada algoritmo es best-effort: si uno falla se
// loguea y se sigue con el siguiente, los snapshots previos quedan
// intactos.
type TrainingService struct {
	features  *feature.Store
	artifacts *artifact.Store

	// habilita el entrenador neuronal opcional
	neuralEnabled bool
}

func NewTrainingService(fs *feature.Store, as *artifact.Store, neuralEnabled bool) *TrainingService {
	return &TrainingService{
		features:      fs,
		artifacts:     as,
		neuralEnabled: neuralEnabled,
	}
}

// RunCycle entrena los algoritmos en secuencia (colaborativo, svd,
// contenido, config híbrida, neuronal). Devuelve error solo si ningún
// snapshot pudo publicarse.
func (s *TrainingService) RunCycle(ctx context.Context) error {
	var published int

	for _, algo := range []string{
		models.AlgoCollaborative,
		models.AlgoSVD,
		models.AlgoContent,
		models.AlgoHybrid,
		models.AlgoNeural,
	} {
		start := time.Now()
		if err := s.TrainOne(ctx, algo); err != nil {
			log.Printf("[trainer] %s: entrenamiento omitido: %v", algo, err)
			continue
		}
		log.Printf("[trainer] %s: snapshot publicado en %s", algo, time.Since(start))
		published++
	}

	if published == 0 {
		return errors.New("ciclo de entrenamiento: ningún modelo pudo publicarse")
	}
	return nil
}

// TrainOne entrena y publica un solo algoritmo.
func (s *TrainingService) TrainOne(ctx context.Context, algorithm string) error {
	switch algorithm {
	case models.AlgoCollaborative:
		m, err := ml.TrainCollaborative(ctx, s.features)
		if err != nil {
			return err
		}
		return s.artifacts.Save(artifact.NameCollaborative, m)

	case models.AlgoSVD:
		m, err := ml.TrainSVD(ctx, s.features)
		if err != nil {
			return err
		}
		return s.artifacts.Save(artifact.NameSVD, m)

	case models.AlgoContent:
		m, err := ml.TrainContent(ctx, s.features)
		if err != nil {
			return err
		}
		return s.artifacts.Save(artifact.NameContent, m)

	case models.AlgoHybrid:
		// la config híbrida no se aprende: se publica la default solo si
		// no hay una ya escrita por el operador
		if s.artifacts.Exists(artifact.NameHybridConfig) {
			return nil
		}
		cfg := ml.DefaultHybridConfig()
		if err := cfg.Validate(); err != nil {
			return err
		}
		return s.artifacts.Save(artifact.NameHybridConfig, cfg)

	case models.AlgoNeural:
		base, err := s.features.BuildUserItemMatrix(ctx)
		if err != nil {
			return err
		}
		if !ml.NeuralAvailable(s.neuralEnabled, len(base.UserIDs), len(base.MovieIDs)) {
			return fmt.Errorf("entrenador neuronal no disponible (habilitado=%v, %dx%d)",
				s.neuralEnabled, len(base.UserIDs), len(base.MovieIDs))
		}
		m, err := ml.TrainNeural(ctx, s.features)
		if err != nil {
			return err
		}
		return s.artifacts.Save(artifact.NameNeural, m)

	default:
		return fmt.Errorf("algoritmo desconocido: %q", algorithm)
	}
}
