package nn

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	ActivationReLU   = "relu"
	ActivationLinear = "linear"
)

// denseLayer stores W as out x in so each output unit is one raw row.
type denseLayer struct {
	W   *mat.Dense
	B   []float64
	Act string

	gW    *mat.Dense
	gB    []float64
	slotW adamSlot
	slotB adamSlot
	in    int
	out   int
}

func newDenseLayer(in, out int, act string, rng *rand.Rand) *denseLayer {
	l := &denseLayer{W: glorot(out, in, rng), B: make([]float64, out), Act: act, in: in, out: out}
	l.initTraining()
	return l
}

func (l *denseLayer) initTraining() {
	l.gW = mat.NewDense(l.out, l.in, nil)
	l.gB = make([]float64, l.out)
	l.slotW = newSlot(l.out * l.in)
	l.slotB = newSlot(l.out)
}

// forward returns the pre-activation and the activation for x.
func (l *denseLayer) forward(x []float64) (z, a []float64) {
	z = make([]float64, l.out)
	a = make([]float64, l.out)
	for i := 0; i < l.out; i++ {
		z[i] = floats.Dot(l.W.RawRowView(i), x) + l.B[i]
		a[i] = activate(l.Act, z[i])
	}
	return z, a
}

// backward accumulates gradients for one sample given dL/da and returns dL/dx.
func (l *denseLayer) backward(x, z, da []float64) []float64 {
	dx := make([]float64, l.in)
	for i := 0; i < l.out; i++ {
		dz := da[i] * activateGrad(l.Act, z[i])
		if dz == 0 {
			continue
		}
		floats.AddScaled(l.gW.RawRowView(i), dz, x)
		l.gB[i] += dz
		floats.AddScaled(dx, dz, l.W.RawRowView(i))
	}
	return dx
}

func (l *denseLayer) step(opt *Adam) {
	opt.apply(&l.slotW, l.W.RawMatrix().Data, l.gW.RawMatrix().Data)
	opt.apply(&l.slotB, l.B, l.gB)
	l.gW.Zero()
	for i := range l.gB {
		l.gB[i] = 0
	}
}

func (l *denseLayer) snapshot() LayerSnapshot {
	return LayerSnapshot{
		In:         l.in,
		Out:        l.out,
		Weights:    append([]float64(nil), l.W.RawMatrix().Data...),
		Bias:       append([]float64(nil), l.B...),
		Activation: l.Act,
	}
}

func layerFromSnapshot(s LayerSnapshot) *denseLayer {
	l := &denseLayer{
		W:   mat.NewDense(s.Out, s.In, append([]float64(nil), s.Weights...)),
		B:   append([]float64(nil), s.Bias...),
		Act: s.Activation,
		in:  s.In,
		out: s.Out,
	}
	l.initTraining()
	return l
}

func activate(act string, z float64) float64 {
	if act == ActivationReLU && z < 0 {
		return 0
	}
	return z
}

func activateGrad(act string, z float64) float64 {
	if act == ActivationReLU && z <= 0 {
		return 0
	}
	return 1
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
