package predictor

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	armijo        = 1e-4
	maxBacktracks = 30
)

// logistic is an L2-regularised binary logistic regression. The bias is an
// extra always-one input and is regularised like any other weight.
type logistic struct {
	weights    []float64 // last entry is the bias
	iterations int
	converged  bool
}

// fitLogistic minimises 0.5*|w|^2 + c*sum(log(1+exp(-y_i*w.x_i))) with
// Newton steps and backtracking line search.
func fitLogistic(x [][]float64, y []bool, c float64, maxIter int, tol float64) (*logistic, error) {
	n := len(x)
	if n == 0 {
		return nil, errNoRows
	}
	p := len(x[0]) + 1

	data := make([]float64, 0, n*p)
	sign := make([]float64, n)
	for i, row := range x {
		data = append(data, row...)
		data = append(data, 1)
		sign[i] = -1
		if y[i] {
			sign[i] = 1
		}
	}
	design := mat.NewDense(n, p, data)

	w := mat.NewVecDense(p, nil)
	margins := mat.NewVecDense(n, nil)
	grad := mat.NewVecDense(p, nil)
	step := mat.NewVecDense(p, nil)
	trial := mat.NewVecDense(p, nil)
	scaled := mat.NewDense(n, p, nil)
	hess := mat.NewSymDense(p, nil)
	var chol mat.Cholesky

	objective := func(v *mat.VecDense) float64 {
		margins.MulVec(design, v)
		loss := 0.5 * mat.Dot(v, v)
		for i := 0; i < n; i++ {
			loss += c * logLoss(sign[i]*margins.AtVec(i))
		}
		return loss
	}

	model := &logistic{}
	f := objective(w)
	var g0 float64
	for model.iterations < maxIter {
		// margins hold X·w for the current w
		weights := make([]float64, n)
		coef := make([]float64, n)
		for i := 0; i < n; i++ {
			s := sigmoid(sign[i] * margins.AtVec(i))
			coef[i] = c * (s - 1) * sign[i]
			weights[i] = c * s * (1 - s)
		}
		grad.MulVec(design.T(), mat.NewVecDense(n, coef))
		grad.AddVec(grad, w)

		norm := mat.Norm(grad, 2)
		if model.iterations == 0 {
			g0 = math.Max(norm, 1)
		}
		if norm <= tol*g0 {
			model.converged = true
			break
		}

		for i := 0; i < n; i++ {
			r := math.Sqrt(weights[i])
			for j := 0; j < p; j++ {
				scaled.Set(i, j, r*design.At(i, j))
			}
		}
		hess.SymOuterK(1, scaled.T())
		for j := 0; j < p; j++ {
			hess.SetSym(j, j, hess.At(j, j)+1)
		}
		if ok := chol.Factorize(hess); !ok {
			return nil, errSingular
		}
		if err := chol.SolveVecTo(step, grad); err != nil {
			return nil, fmt.Errorf("newton step: %w", err)
		}
		step.ScaleVec(-1, step)

		slope := mat.Dot(grad, step)
		alpha := 1.0
		next := math.Inf(1)
		for k := 0; k < maxBacktracks; k++ {
			trial.AddScaledVec(w, alpha, step)
			next = objective(trial)
			if next <= f+armijo*alpha*slope {
				break
			}
			alpha /= 2
		}
		if math.IsNaN(next) || math.IsInf(next, 0) {
			return nil, errNonFinite
		}
		model.iterations++
		if next >= f {
			// no further decrease is representable
			model.converged = true
			break
		}
		w.CopyVec(trial)
		margins.MulVec(design, w)
		f = next
	}

	model.weights = make([]float64, p)
	for j := range model.weights {
		model.weights[j] = w.AtVec(j)
	}
	for _, v := range model.weights {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errNonFinite
		}
	}
	return model, nil
}

// probability of the positive class for an encoded input.
func (m *logistic) probability(x []float64) float64 {
	p := len(m.weights) - 1
	z := floats.Dot(m.weights[:p], x) + m.weights[p]
	return sigmoid(z)
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// logLoss is log(1+exp(-m)) without overflow.
func logLoss(m float64) float64 {
	if m > 0 {
		return math.Log1p(math.Exp(-m))
	}
	return -m + math.Log1p(math.Exp(m))
}
