package nn

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
)

// Regressor is a feed-forward network: in -> 128 relu -> 64 relu -> out,
// with dropout after both hidden layers while training.
type Regressor struct {
	layers  []*denseLayer
	dropout float64
}

type TrainConfig struct {
	Epochs       int
	BatchSize    int
	Patience     int
	LearningRate float64
	Seed         int64
}

// History records the per-epoch losses of a Fit call.
type History struct {
	Loss      []float64
	ValLoss   []float64
	BestEpoch int
}

type LayerSnapshot struct {
	In         int       `json:"in"`
	Out        int       `json:"out"`
	Weights    []float64 `json:"weights"`
	Bias       []float64 `json:"bias"`
	Activation string    `json:"activation"`
}

type RegressorSnapshot struct {
	Dropout float64         `json:"dropout"`
	Layers  []LayerSnapshot `json:"layers"`
}

func NewRegressor(in, out int, seed int64) *Regressor {
	rng := rand.New(rand.NewSource(seed))
	return &Regressor{
		layers: []*denseLayer{
			newDenseLayer(in, 128, ActivationReLU, rng),
			newDenseLayer(128, 64, ActivationReLU, rng),
			newDenseLayer(64, out, ActivationLinear, rng),
		},
		dropout: 0.2,
	}
}

func (r *Regressor) InputDim() int {
	return r.layers[0].in
}

func (r *Regressor) OutputDim() int {
	return r.layers[len(r.layers)-1].out
}

func (r *Regressor) Predict(x []float64) []float64 {
	a := x
	for _, l := range r.layers {
		_, a = l.forward(a)
	}
	return a
}

// Loss is the mean squared error over rows.
func (r *Regressor) Loss(x, y [][]float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	total := 0.0
	for i := range x {
		total += mse(r.Predict(x[i]), y[i])
	}
	return total / float64(len(x))
}

// Fit trains with minibatch Adam and stops once the validation loss has not
// improved for cfg.Patience epochs, restoring the best weights seen. With no
// validation rows the training loss is monitored instead.
func (r *Regressor) Fit(xTrain, yTrain, xVal, yVal [][]float64, cfg TrainConfig) (History, error) {
	var history History
	if len(xTrain) == 0 {
		return history, ErrEmptyData
	}
	if len(xTrain) != len(yTrain) || len(xVal) != len(yVal) {
		return history, fmt.Errorf("feature/target length mismatch")
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 32
	}
	if cfg.Epochs <= 0 {
		cfg.Epochs = 1
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	opt := NewAdam(cfg.LearningRate)
	order := make([]int, len(xTrain))
	for i := range order {
		order[i] = i
	}

	best := math.Inf(1)
	var bestWeights RegressorSnapshot
	wait := 0
	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		for start := 0; start < len(order); start += cfg.BatchSize {
			end := start + cfg.BatchSize
			if end > len(order) {
				end = len(order)
			}
			for _, idx := range order[start:end] {
				r.accumulate(xTrain[idx], yTrain[idx], float64(end-start), rng)
			}
			opt.Tick()
			for _, l := range r.layers {
				l.step(opt)
			}
		}

		loss := r.Loss(xTrain, yTrain)
		history.Loss = append(history.Loss, loss)
		monitored := loss
		if len(xVal) > 0 {
			monitored = r.Loss(xVal, yVal)
			history.ValLoss = append(history.ValLoss, monitored)
		}

		if monitored < best {
			best = monitored
			bestWeights = r.Snapshot()
			history.BestEpoch = epoch
			wait = 0
			continue
		}
		wait++
		if cfg.Patience > 0 && wait >= cfg.Patience {
			break
		}
	}

	if bestWeights.Layers != nil {
		r.restore(bestWeights)
	}
	return history, nil
}

// accumulate runs one sample forward with dropout and adds its gradients.
func (r *Regressor) accumulate(x, y []float64, batch float64, rng *rand.Rand) {
	n := len(r.layers)
	inputs := make([][]float64, n)
	zs := make([][]float64, n)
	masks := make([][]float64, n)

	a := x
	keep := 1 - r.dropout
	for i, l := range r.layers {
		inputs[i] = a
		var z []float64
		z, a = l.forward(a)
		zs[i] = z
		if i < n-1 && r.dropout > 0 {
			mask := make([]float64, len(a))
			for j := range a {
				if rng.Float64() < keep {
					mask[j] = 1 / keep
				}
				a[j] *= mask[j]
			}
			masks[i] = mask
		}
	}

	da := make([]float64, len(a))
	for j := range a {
		da[j] = 2 * (a[j] - y[j]) / float64(len(a)) / batch
	}
	for i := n - 1; i >= 0; i-- {
		if masks[i] != nil {
			for j := range da {
				da[j] *= masks[i][j]
			}
		}
		da = r.layers[i].backward(inputs[i], zs[i], da)
	}
}

func (r *Regressor) Snapshot() RegressorSnapshot {
	s := RegressorSnapshot{Dropout: r.dropout}
	for _, l := range r.layers {
		s.Layers = append(s.Layers, l.snapshot())
	}
	return s
}

func (r *Regressor) restore(s RegressorSnapshot) {
	r.dropout = s.Dropout
	r.layers = r.layers[:0]
	for _, ls := range s.Layers {
		r.layers = append(r.layers, layerFromSnapshot(ls))
	}
}

func RegressorFromSnapshot(s RegressorSnapshot) (*Regressor, error) {
	if len(s.Layers) == 0 {
		return nil, fmt.Errorf("snapshot has no layers")
	}
	for i, ls := range s.Layers {
		if len(ls.Weights) != ls.In*ls.Out || len(ls.Bias) != ls.Out {
			return nil, fmt.Errorf("layer %d: weights do not match %dx%d", i, ls.Out, ls.In)
		}
	}
	r := &Regressor{}
	r.restore(s)
	return r, nil
}

func (r *Regressor) Save(path string) error {
	return writeJSON(path, r.Snapshot())
}

func LoadRegressor(path string) (*Regressor, error) {
	var s RegressorSnapshot
	if err := readJSON(path, &s); err != nil {
		return nil, err
	}
	return RegressorFromSnapshot(s)
}

func mse(pred, target []float64) float64 {
	sum := 0.0
	for j := range pred {
		d := pred[j] - target[j]
		sum += d * d
	}
	return sum / float64(len(pred))
}

func writeJSON(path string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	return os.Rename(tmp, path)
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// SaveScaler and LoadScaler persist either scaler type as JSON.
func SaveScaler(path string, scaler interface{}) error {
	return writeJSON(path, scaler)
}

func LoadScaler(path string, scaler interface{}) error {
	return readJSON(path, scaler)
}
