package workout

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/Jeshoorin/Gym-Suggestions/services/nn"
)

var ErrModelNotLoaded = errors.New("workout model is not loaded")

const (
	modelFile   = "workout_model.json"
	scalerXFile = "scaler_x.json"
	scalerYFile = "scaler_y.json"
)

// Model is the regressor plus the scalers it was trained with. It is never
// modified after construction.
type Model struct {
	Net     *nn.Regressor
	ScalerX nn.StandardScaler
	ScalerY nn.StandardScaler
}

// Predict returns the unscaled [reps, weight] for a feature vector.
func (m *Model) Predict(features []float64) ([]float64, error) {
	if len(features) != m.Net.InputDim() || len(m.ScalerX.Mean) != len(features) {
		return nil, fmt.Errorf("model expects %d features, got %d", m.Net.InputDim(), len(features))
	}
	out := m.Net.Predict(m.ScalerX.Transform(features))
	return m.ScalerY.InverseTransform(out), nil
}

func (m *Model) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}
	if err := m.Net.Save(filepath.Join(dir, modelFile)); err != nil {
		return err
	}
	if err := nn.SaveScaler(filepath.Join(dir, scalerXFile), &m.ScalerX); err != nil {
		return err
	}
	return nn.SaveScaler(filepath.Join(dir, scalerYFile), &m.ScalerY)
}

func LoadModel(dir string) (*Model, error) {
	net, err := nn.LoadRegressor(filepath.Join(dir, modelFile))
	if err != nil {
		return nil, err
	}
	m := &Model{Net: net}
	if err := nn.LoadScaler(filepath.Join(dir, scalerXFile), &m.ScalerX); err != nil {
		return nil, err
	}
	if err := nn.LoadScaler(filepath.Join(dir, scalerYFile), &m.ScalerY); err != nil {
		return nil, err
	}
	return m, nil
}

// ModelExists reports whether all three model files are present in dir.
func ModelExists(dir string) bool {
	for _, name := range []string{modelFile, scalerXFile, scalerYFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return false
		}
	}
	return true
}

// Registry holds the model served to requests. Retraining publishes a new
// model with Swap; readers never see a partially loaded one.
type Registry struct {
	current atomic.Pointer[Model]
}

func (r *Registry) Current() *Model {
	return r.current.Load()
}

func (r *Registry) Swap(m *Model) *Model {
	return r.current.Swap(m)
}

// LoadOrTrain loads the model from dir, training and saving one first when
// the files are missing.
func (r *Registry) LoadOrTrain(dir string, trainer *Trainer) error {
	if !ModelExists(dir) {
		m, _, err := trainer.Train()
		if err != nil {
			return fmt.Errorf("train workout model: %w", err)
		}
		if err := m.Save(dir); err != nil {
			return fmt.Errorf("save workout model: %w", err)
		}
		r.Swap(m)
		return nil
	}
	m, err := LoadModel(dir)
	if err != nil {
		return fmt.Errorf("load workout model: %w", err)
	}
	r.Swap(m)
	return nil
}
