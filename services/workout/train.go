package workout

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/Jeshoorin/Gym-Suggestions/services/dataset"
	"github.com/Jeshoorin/Gym-Suggestions/services/nn"
	"github.com/Jeshoorin/Gym-Suggestions/services/trackLog"
	"github.com/Jeshoorin/Gym-Suggestions/utils"

	"github.com/sirupsen/logrus"
)

const validationShare = 0.2

// TrainOptions mirrors the model section of the config.
type TrainOptions struct {
	Epochs     int
	BatchSize  int
	Patience   int
	SampleFrac float64
	Seed       int64
}

func DefaultTrainOptions() TrainOptions {
	return TrainOptions{
		Epochs:     utils.EnvConfig.Model.Epochs,
		BatchSize:  utils.EnvConfig.Model.BatchSize,
		Patience:   utils.EnvConfig.Model.Patience,
		SampleFrac: utils.EnvConfig.Model.SampleFrac,
		Seed:       utils.EnvConfig.Model.Seed,
	}
}

type Trainer struct {
	Store   *dataset.Store
	Options TrainOptions
}

// UnmappedIntensityError lists intensity labels that have no score.
type UnmappedIntensityError struct {
	Values []string
}

func (e *UnmappedIntensityError) Error() string {
	return fmt.Sprintf("unmapped intensity values found: %s", strings.Join(e.Values, ", "))
}

// trainingRow is a cleaned feedback row before overload is known.
type trainingRow struct {
	username  string
	date      string
	session   session
	intensity float64
	gender    float64
	fitness   float64
}

// TrainingSet turns feedback rows into feature and target matrices. Rows that
// are not in the exercise catalog or carry a non-numeric value are dropped;
// an intensity label without a score fails the whole set. Overload is the
// change in volume against the same user's previous row by date.
func TrainingSet(rows []dataset.Feedback) (x, y [][]float64, err error) {
	unmapped := make(map[string]bool)
	for _, f := range rows {
		if _, ok := IntensityScore(f.Intensity); !ok {
			unmapped[normalize(f.Intensity)] = true
		}
	}
	if len(unmapped) > 0 {
		values := make([]string, 0, len(unmapped))
		for v := range unmapped {
			values = append(values, v)
		}
		sort.Strings(values)
		return nil, nil, &UnmappedIntensityError{Values: values}
	}

	cleaned := make([]trainingRow, 0, len(rows))
	for _, f := range rows {
		if f.ExerciseType == "" {
			continue
		}
		s, err := parseSession(f)
		if err != nil {
			continue
		}
		intensity, _ := IntensityScore(f.Intensity)
		cleaned = append(cleaned, trainingRow{
			username:  f.Username,
			date:      f.Date,
			session:   s,
			intensity: intensity,
			gender:    GenderFlag(f.Gender),
			fitness:   FitnessCode(f.FitnessLevel),
		})
	}

	sort.SliceStable(cleaned, func(i, j int) bool {
		if cleaned[i].username != cleaned[j].username {
			return cleaned[i].username < cleaned[j].username
		}
		return cleaned[i].date < cleaned[j].date
	})

	for i, r := range cleaned {
		hasPrevious := i > 0 && cleaned[i-1].username == r.username
		previous := 0.0
		if hasPrevious {
			previous = cleaned[i-1].session.volume()
		}
		overload := Overload(r.session.volume(), previous, hasPrevious)
		x = append(x, r.session.vector(r.intensity, r.gender, r.fitness, overload))
		y = append(y, []float64{r.session.reps, r.session.weight})
	}
	return x, y, nil
}

// Train fits a new model on the feedback files.
func (t *Trainer) Train() (*Model, nn.History, error) {
	logger := trackLog.Entry().WithFields(logrus.Fields{"task": "workout-train"})

	rows, err := t.Store.LoadFeedback()
	if err != nil {
		return nil, nn.History{}, err
	}
	rng := rand.New(rand.NewSource(t.Options.Seed))
	if t.Options.SampleFrac > 0 && t.Options.SampleFrac < 1 {
		rows = sample(rows, t.Options.SampleFrac, rng)
		logger.Info(fmt.Sprintf("sampled %d feedback rows", len(rows)))
	}

	x, y, err := TrainingSet(rows)
	if err != nil {
		return nil, nn.History{}, err
	}
	if len(x) < 2 {
		return nil, nn.History{}, fmt.Errorf("need at least 2 usable feedback rows, have %d", len(x))
	}
	logger.Info(fmt.Sprintf("training on %d rows", len(x)))

	m := &Model{}
	if err := m.ScalerX.Fit(x); err != nil {
		return nil, nn.History{}, err
	}
	if err := m.ScalerY.Fit(y); err != nil {
		return nil, nn.History{}, err
	}
	xs := nn.TransformAll(x, m.ScalerX.Transform)
	ys := nn.TransformAll(y, m.ScalerY.Transform)
	xTrain, yTrain, xVal, yVal := split(xs, ys, rng)

	m.Net = nn.NewRegressor(FeatureCount, 2, t.Options.Seed)
	history, err := m.Net.Fit(xTrain, yTrain, xVal, yVal, nn.TrainConfig{
		Epochs:    t.Options.Epochs,
		BatchSize: t.Options.BatchSize,
		Patience:  t.Options.Patience,
		Seed:      t.Options.Seed,
	})
	if err != nil {
		return nil, history, err
	}
	logger.WithFields(logrus.Fields{"epochs": len(history.Loss), "best_epoch": history.BestEpoch}).Info("workout model trained")
	return m, history, nil
}

func sample(rows []dataset.Feedback, frac float64, rng *rand.Rand) []dataset.Feedback {
	n := int(math.Round(frac * float64(len(rows))))
	out := make([]dataset.Feedback, 0, n)
	for _, i := range rng.Perm(len(rows))[:n] {
		out = append(out, rows[i])
	}
	return out
}

// split holds out a shuffled fifth of the rows for validation.
func split(x, y [][]float64, rng *rand.Rand) (xTrain, yTrain, xVal, yVal [][]float64) {
	nVal := int(math.Ceil(validationShare * float64(len(x))))
	for rank, i := range rng.Perm(len(x)) {
		if rank < nVal {
			xVal = append(xVal, x[i])
			yVal = append(yVal, y[i])
			continue
		}
		xTrain = append(xTrain, x[i])
		yTrain = append(yTrain, y[i])
	}
	return xTrain, yTrain, xVal, yVal
}
