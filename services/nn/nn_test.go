package nn

import (
	"math"
	"math/rand"
	"path/filepath"
	"testing"
)

func TestMinMaxScaler(t *testing.T) {
	var s MinMaxScaler
	if err := s.Fit([][]float64{{0, 10}, {5, 10}, {10, 10}}); err != nil {
		t.Fatalf("fit: %v", err)
	}
	got := s.Transform([]float64{5, 10})
	if got[0] != 0.5 || got[1] != 0 {
		t.Fatalf("unexpected transform: %v", got)
	}
	back := s.InverseTransform(got)
	if back[0] != 5 || back[1] != 10 {
		t.Fatalf("unexpected inverse: %v", back)
	}
	if err := new(MinMaxScaler).Fit(nil); err != ErrEmptyData {
		t.Fatalf("expected ErrEmptyData, got %v", err)
	}
}

func TestStandardScaler(t *testing.T) {
	var s StandardScaler
	if err := s.Fit([][]float64{{1, 4}, {2, 4}, {3, 4}}); err != nil {
		t.Fatalf("fit: %v", err)
	}
	if s.Mean[0] != 2 || math.Abs(s.Scale[0]-math.Sqrt(2.0/3.0)) > 1e-12 {
		t.Fatalf("unexpected column stats: mean=%v scale=%v", s.Mean, s.Scale)
	}
	if s.Scale[1] != 1 {
		t.Fatalf("constant column should keep unit scale, got %v", s.Scale[1])
	}
	got := s.Transform([]float64{2, 4})
	if got[0] != 0 || got[1] != 0 {
		t.Fatalf("unexpected transform: %v", got)
	}
}

func linearSamples(n int, seed int64) ([][]float64, [][]float64) {
	rng := rand.New(rand.NewSource(seed))
	x := make([][]float64, n)
	y := make([][]float64, n)
	for i := range x {
		a, b := rng.Float64(), rng.Float64()
		x[i] = []float64{a, b}
		y[i] = []float64{0.5*a + 0.3*b, 0.2 * a}
	}
	return x, y
}

func TestRegressorLearnsLinearTarget(t *testing.T) {
	xTrain, yTrain := linearSamples(200, 1)
	xVal, yVal := linearSamples(50, 2)

	r := NewRegressor(2, 2, 42)
	before := r.Loss(xVal, yVal)
	history, err := r.Fit(xTrain, yTrain, xVal, yVal, TrainConfig{Epochs: 100, BatchSize: 16, Patience: 10, Seed: 42})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	after := r.Loss(xVal, yVal)
	if !(after < before) || after > 0.05 {
		t.Fatalf("expected validation loss to drop, before=%v after=%v", before, after)
	}
	if len(history.ValLoss) == 0 || history.BestEpoch >= len(history.ValLoss) {
		t.Fatalf("unexpected history: %+v", history)
	}
	if math.Abs(after-history.ValLoss[history.BestEpoch]) > 1e-12 {
		t.Fatalf("best weights were not restored: after=%v best=%v", after, history.ValLoss[history.BestEpoch])
	}
}

func TestRegressorSaveAndLoad(t *testing.T) {
	r := NewRegressor(3, 1, 7)
	path := filepath.Join(t.TempDir(), "model.json")
	if err := r.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := LoadRegressor(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.InputDim() != 3 || loaded.OutputDim() != 1 {
		t.Fatalf("unexpected dims %d -> %d", loaded.InputDim(), loaded.OutputDim())
	}
	x := []float64{0.1, -0.4, 2}
	if a, b := r.Predict(x)[0], loaded.Predict(x)[0]; a != b {
		t.Fatalf("prediction changed after reload: %v vs %v", a, b)
	}

	if _, err := LoadRegressor(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, err := RegressorFromSnapshot(RegressorSnapshot{Layers: []LayerSnapshot{{In: 2, Out: 2, Weights: []float64{1}}}}); err == nil {
		t.Fatal("expected error for malformed snapshot")
	}
}

func TestScalerPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scaler.json")
	src := StandardScaler{Mean: []float64{1, 2}, Scale: []float64{3, 4}}
	if err := SaveScaler(path, &src); err != nil {
		t.Fatalf("save: %v", err)
	}
	var dst StandardScaler
	if err := LoadScaler(path, &dst); err != nil {
		t.Fatalf("load: %v", err)
	}
	if dst.Mean[1] != 2 || dst.Scale[0] != 3 {
		t.Fatalf("unexpected scaler: %+v", dst)
	}
}

func TestLSTMFitReducesLoss(t *testing.T) {
	var xs [][][]float64
	var ys [][]float64
	for start := 0; start < 40; start++ {
		seq := make([][]float64, 7)
		for i := range seq {
			v := 0.5 + 0.3*math.Sin(float64(start+i)/3)
			seq[i] = []float64{v, v / 2}
		}
		next := 0.5 + 0.3*math.Sin(float64(start+7)/3)
		xs = append(xs, seq)
		ys = append(ys, []float64{next, next / 2})
	}

	m := NewLSTM(2, 16, 2, 42)
	before := m.Loss(xs, ys)
	history, err := m.Fit(xs, ys, TrainConfig{Epochs: 20, BatchSize: 8, Seed: 42})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if len(history.Loss) != 20 {
		t.Fatalf("expected 20 epochs, got %d", len(history.Loss))
	}
	after := m.Loss(xs, ys)
	if !(after < before) {
		t.Fatalf("expected loss to drop, before=%v after=%v", before, after)
	}
	for _, v := range m.Predict(xs[0]) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("non-finite prediction %v", v)
		}
	}

	if _, err := m.Fit(nil, nil, TrainConfig{Epochs: 1}); err != ErrEmptyData {
		t.Fatalf("expected ErrEmptyData, got %v", err)
	}
}
