package nn

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// LSTM is a single recurrent layer followed by a linear read-out of the last
// hidden state. Gate rows are stacked input, forget, cell, output.
type LSTM struct {
	In     int
	Hidden int
	Out    int

	Wx *mat.Dense // 4H x In
	Wh *mat.Dense // 4H x H
	B  []float64
	Wy *mat.Dense // Out x H
	By []float64

	gWx, gWh, gWy          *mat.Dense
	gB, gBy                []float64
	sWx, sWh, sB, sWy, sBy adamSlot
}

type lstmStep struct {
	x, hPrev, cPrev []float64
	i, f, g, o      []float64
	c, tanhC, h     []float64
}

func NewLSTM(in, hidden, out int, seed int64) *LSTM {
	rng := rand.New(rand.NewSource(seed))
	m := &LSTM{
		In:     in,
		Hidden: hidden,
		Out:    out,
		Wx:     glorot(4*hidden, in, rng),
		Wh:     glorot(4*hidden, hidden, rng),
		B:      make([]float64, 4*hidden),
		Wy:     glorot(out, hidden, rng),
		By:     make([]float64, out),
	}
	for j := hidden; j < 2*hidden; j++ {
		m.B[j] = 1
	}
	m.gWx = mat.NewDense(4*hidden, in, nil)
	m.gWh = mat.NewDense(4*hidden, hidden, nil)
	m.gWy = mat.NewDense(out, hidden, nil)
	m.gB = make([]float64, 4*hidden)
	m.gBy = make([]float64, out)
	m.sWx = newSlot(4 * hidden * in)
	m.sWh = newSlot(4 * hidden * hidden)
	m.sB = newSlot(4 * hidden)
	m.sWy = newSlot(out * hidden)
	m.sBy = newSlot(out)
	return m
}

func glorot(rows, cols int, rng *rand.Rand) *mat.Dense {
	limit := math.Sqrt(6 / float64(rows+cols))
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = (rng.Float64()*2 - 1) * limit
	}
	return mat.NewDense(rows, cols, data)
}

func (m *LSTM) run(seq [][]float64) ([]lstmStep, []float64) {
	H := m.Hidden
	h := make([]float64, H)
	c := make([]float64, H)
	steps := make([]lstmStep, len(seq))
	for t, x := range seq {
		pre := make([]float64, 4*H)
		for r := 0; r < 4*H; r++ {
			pre[r] = floats.Dot(m.Wx.RawRowView(r), x) + floats.Dot(m.Wh.RawRowView(r), h) + m.B[r]
		}
		st := lstmStep{
			x: x, hPrev: h, cPrev: c,
			i: make([]float64, H), f: make([]float64, H), g: make([]float64, H), o: make([]float64, H),
			c: make([]float64, H), tanhC: make([]float64, H), h: make([]float64, H),
		}
		for j := 0; j < H; j++ {
			st.i[j] = sigmoid(pre[j])
			st.f[j] = sigmoid(pre[H+j])
			st.g[j] = math.Tanh(pre[2*H+j])
			st.o[j] = sigmoid(pre[3*H+j])
			st.c[j] = st.f[j]*c[j] + st.i[j]*st.g[j]
			st.tanhC[j] = math.Tanh(st.c[j])
			st.h[j] = st.o[j] * st.tanhC[j]
		}
		steps[t] = st
		h, c = st.h, st.c
	}
	y := make([]float64, m.Out)
	for k := 0; k < m.Out; k++ {
		y[k] = floats.Dot(m.Wy.RawRowView(k), h) + m.By[k]
	}
	return steps, y
}

// Predict returns the read-out for one sequence of In-wide rows.
func (m *LSTM) Predict(seq [][]float64) []float64 {
	_, y := m.run(seq)
	return y
}

func (m *LSTM) Loss(xs [][][]float64, ys [][]float64) float64 {
	total := 0.0
	for i := range xs {
		total += mse(m.Predict(xs[i]), ys[i])
	}
	return total / float64(len(xs))
}

// Fit trains for a fixed number of epochs with minibatch Adam and
// backpropagation through time.
func (m *LSTM) Fit(xs [][][]float64, ys [][]float64, cfg TrainConfig) (History, error) {
	var history History
	if len(xs) == 0 {
		return history, ErrEmptyData
	}
	if len(xs) != len(ys) {
		return history, fmt.Errorf("sequence/target length mismatch")
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 32
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	opt := NewAdam(cfg.LearningRate)
	order := make([]int, len(xs))
	for i := range order {
		order[i] = i
	}

	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		for start := 0; start < len(order); start += cfg.BatchSize {
			end := start + cfg.BatchSize
			if end > len(order) {
				end = len(order)
			}
			for _, idx := range order[start:end] {
				m.accumulate(xs[idx], ys[idx], float64(end-start))
			}
			opt.Tick()
			m.step(opt)
		}
		history.Loss = append(history.Loss, m.Loss(xs, ys))
	}
	history.BestEpoch = len(history.Loss) - 1
	return history, nil
}

func (m *LSTM) accumulate(seq [][]float64, target []float64, batch float64) {
	H := m.Hidden
	steps, y := m.run(seq)
	hLast := make([]float64, H)
	if len(steps) > 0 {
		hLast = steps[len(steps)-1].h
	}

	dh := make([]float64, H)
	for k := range y {
		dy := 2 * (y[k] - target[k]) / float64(len(y)) / batch
		floats.AddScaled(m.gWy.RawRowView(k), dy, hLast)
		m.gBy[k] += dy
		floats.AddScaled(dh, dy, m.Wy.RawRowView(k))
	}

	dc := make([]float64, H)
	dpre := make([]float64, 4*H)
	for t := len(steps) - 1; t >= 0; t-- {
		st := steps[t]
		dcPrev := make([]float64, H)
		for j := 0; j < H; j++ {
			do := dh[j] * st.tanhC[j]
			dC := dc[j] + dh[j]*st.o[j]*(1-st.tanhC[j]*st.tanhC[j])
			di := dC * st.g[j]
			dg := dC * st.i[j]
			df := dC * st.cPrev[j]
			dcPrev[j] = dC * st.f[j]

			dpre[j] = di * st.i[j] * (1 - st.i[j])
			dpre[H+j] = df * st.f[j] * (1 - st.f[j])
			dpre[2*H+j] = dg * (1 - st.g[j]*st.g[j])
			dpre[3*H+j] = do * st.o[j] * (1 - st.o[j])
		}

		dhPrev := make([]float64, H)
		for r := 0; r < 4*H; r++ {
			if dpre[r] == 0 {
				continue
			}
			floats.AddScaled(m.gWx.RawRowView(r), dpre[r], st.x)
			floats.AddScaled(m.gWh.RawRowView(r), dpre[r], st.hPrev)
			m.gB[r] += dpre[r]
			floats.AddScaled(dhPrev, dpre[r], m.Wh.RawRowView(r))
		}
		dh, dc = dhPrev, dcPrev
	}
}

func (m *LSTM) step(opt *Adam) {
	opt.apply(&m.sWx, m.Wx.RawMatrix().Data, m.gWx.RawMatrix().Data)
	opt.apply(&m.sWh, m.Wh.RawMatrix().Data, m.gWh.RawMatrix().Data)
	opt.apply(&m.sB, m.B, m.gB)
	opt.apply(&m.sWy, m.Wy.RawMatrix().Data, m.gWy.RawMatrix().Data)
	opt.apply(&m.sBy, m.By, m.gBy)
	m.gWx.Zero()
	m.gWh.Zero()
	m.gWy.Zero()
	for i := range m.gB {
		m.gB[i] = 0
	}
	for i := range m.gBy {
		m.gBy[i] = 0
	}
}
