package diet

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"sort"
	"sync"

	"github.com/Jeshoorin/Gym-Suggestions/services/dataset"
	"github.com/Jeshoorin/Gym-Suggestions/services/nn"
	"github.com/Jeshoorin/Gym-Suggestions/structs"
	"github.com/Jeshoorin/Gym-Suggestions/utils"

	"golang.org/x/sync/singleflight"
)

const macroWidth = 4

// TrendSource tells where a trend prediction came from.
type TrendSource string

const (
	SourceFallback TrendSource = "fallback"
	SourceModel    TrendSource = "model"
	SourceCache    TrendSource = "cache"
)

// TrendPredictor predicts the next day's macros from a user's daily totals.
// Predictions are cached per user against a fingerprint of the series they
// were trained on, so a model is only fitted again once new logs arrive.
type TrendPredictor struct {
	Window  int
	MinRows int
	Epochs  int
	Hidden  int
	Seed    int64

	mu     sync.RWMutex
	cache  map[string]cachedTrend
	flight singleflight.Group
}

type cachedTrend struct {
	fingerprint string
	target      structs.MacroTarget
}

func NewTrendPredictor() *TrendPredictor {
	return &TrendPredictor{
		Window:  utils.EnvConfig.Trend.Window,
		MinRows: utils.EnvConfig.Trend.MinRows,
		Epochs:  utils.EnvConfig.Trend.Epochs,
		Hidden:  utils.EnvConfig.Trend.Hidden,
		Seed:    utils.EnvConfig.Model.Seed,
		cache:   make(map[string]cachedTrend),
	}
}

// DailySeries sums the logs per date, oldest date first, skipping NaN cells.
// Each row is calories, protein, carbs, fat.
func DailySeries(logs []dataset.DietLog) [][]float64 {
	byDate := make(map[string][]float64)
	var dates []string
	for _, entry := range logs {
		day, ok := byDate[entry.Date]
		if !ok {
			day = make([]float64, macroWidth)
			byDate[entry.Date] = day
			dates = append(dates, entry.Date)
		}
		for k, v := range [macroWidth]float64{entry.Calories, entry.ProteinG, entry.CarbsG, entry.FatG} {
			// blank cells are NaN and count as nothing logged
			if !math.IsNaN(v) {
				day[k] += v
			}
		}
	}
	sort.Strings(dates)
	series := make([][]float64, len(dates))
	for i, d := range dates {
		series[i] = byDate[d]
	}
	return series
}

// Windows pairs every run of window consecutive days with the day after it.
func Windows(series [][]float64, window int) (xs [][][]float64, ys [][]float64) {
	for i := 0; i+window < len(series); i++ {
		xs = append(xs, series[i:i+window])
		ys = append(ys, series[i+window])
	}
	return xs, ys
}

// Fingerprint identifies a daily series.
func Fingerprint(series [][]float64) string {
	h := sha256.New()
	buf := make([]byte, 8)
	for _, row := range series {
		for _, v := range row {
			binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
			h.Write(buf)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Predict returns the predicted macros for username, or fallback when the user
// has fewer than MinRows log rows or too few distinct days to form a window.
func (p *TrendPredictor) Predict(username string, logs []dataset.DietLog, fallback structs.MacroTarget) (structs.MacroTarget, TrendSource, error) {
	if len(logs) == 0 || len(logs) < p.MinRows {
		return fallback, SourceFallback, nil
	}
	series := DailySeries(logs)
	if len(series) <= p.Window {
		return fallback, SourceFallback, nil
	}

	fingerprint := Fingerprint(series)
	if target, ok := p.cached(username, fingerprint); ok {
		return target, SourceCache, nil
	}

	// concurrent misses for the same series share one training run
	v, err, _ := p.flight.Do(username+"/"+fingerprint, func() (interface{}, error) {
		target, err := p.fit(series)
		if err != nil {
			return nil, err
		}
		p.store(username, fingerprint, target)
		return target, nil
	})
	if err != nil {
		return structs.MacroTarget{}, SourceModel, err
	}
	return v.(structs.MacroTarget), SourceModel, nil
}

// Precompute fills the cache for username. trained is false when the user
// takes the fallback path or the cached value is still current.
func (p *TrendPredictor) Precompute(username string, logs []dataset.DietLog) (trained bool, err error) {
	_, source, err := p.Predict(username, logs, structs.MacroTarget{})
	return source == SourceModel, err
}

func (p *TrendPredictor) fit(series [][]float64) (structs.MacroTarget, error) {
	var scaler nn.MinMaxScaler
	if err := scaler.Fit(series); err != nil {
		return structs.MacroTarget{}, err
	}
	scaled := nn.TransformAll(series, scaler.Transform)
	xs, ys := Windows(scaled, p.Window)

	model := nn.NewLSTM(macroWidth, p.Hidden, macroWidth, p.Seed)
	if _, err := model.Fit(xs, ys, nn.TrainConfig{Epochs: p.Epochs, BatchSize: 32, Seed: p.Seed}); err != nil {
		return structs.MacroTarget{}, err
	}

	latest := scaled[len(scaled)-p.Window:]
	pred := scaler.InverseTransform(model.Predict(latest))
	return structs.MacroTarget{Calories: pred[0], Protein: pred[1], Carbs: pred[2], Fat: pred[3]}, nil
}

func (p *TrendPredictor) cached(username, fingerprint string) (structs.MacroTarget, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	entry, ok := p.cache[username]
	if !ok || entry.fingerprint != fingerprint {
		return structs.MacroTarget{}, false
	}
	return entry.target, true
}

func (p *TrendPredictor) store(username, fingerprint string, target structs.MacroTarget) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cache == nil {
		p.cache = make(map[string]cachedTrend)
	}
	p.cache[username] = cachedTrend{fingerprint: fingerprint, target: target}
}

