package nn

import "math"

// Adam keeps the step count shared by every parameter slot of one model.
type Adam struct {
	LR      float64
	Beta1   float64
	Beta2   float64
	Epsilon float64
	t       int
}

func NewAdam(lr float64) *Adam {
	if lr <= 0 {
		lr = 0.001
	}
	return &Adam{LR: lr, Beta1: 0.9, Beta2: 0.999, Epsilon: 1e-7}
}

type adamSlot struct {
	m []float64
	v []float64
}

func newSlot(n int) adamSlot {
	return adamSlot{m: make([]float64, n), v: make([]float64, n)}
}

// Tick starts a new optimisation step; call it once per batch.
func (a *Adam) Tick() {
	a.t++
}

func (a *Adam) apply(slot *adamSlot, params, grads []float64) {
	c1 := 1 - math.Pow(a.Beta1, float64(a.t))
	c2 := 1 - math.Pow(a.Beta2, float64(a.t))
	for i, g := range grads {
		slot.m[i] = a.Beta1*slot.m[i] + (1-a.Beta1)*g
		slot.v[i] = a.Beta2*slot.v[i] + (1-a.Beta2)*g*g
		mHat := slot.m[i] / c1
		vHat := slot.v[i] / c2
		params[i] -= a.LR * mHat / (math.Sqrt(vHat) + a.Epsilon)
	}
}
