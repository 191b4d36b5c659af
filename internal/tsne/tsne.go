// Package tsne projects high-dimensional embeddings onto the plane with
// exact t-distributed stochastic neighbour embedding.
//
// The implementation is O(n²) in time and memory per iteration, which is
// fine for the few hundred nodes of a routing instance.
package tsne

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
)

var (
	// ErrTooFewPoints is returned for fewer than two input rows.
	ErrTooFewPoints = errors.New("tsne: need at least two points")
	// ErrRagged is returned when input rows differ in length or are empty.
	ErrRagged = errors.New("tsne: rows must be non-empty and of equal length")
)

// Options configures Embed. Zero fields take the values of DefaultOptions.
type Options struct {
	Perplexity   float64
	Iterations   int
	LearningRate float64
	// Exaggeration multiplies P during the first ExaggerationIters iterations.
	Exaggeration      float64
	ExaggerationIters int
	Seed              int64
}

// DefaultOptions mirrors common t-SNE defaults with a fixed seed of 42.
func DefaultOptions() Options {
	return Options{
		Perplexity:        30,
		Iterations:        1000,
		LearningRate:      200,
		Exaggeration:      12,
		ExaggerationIters: 250,
		Seed:              42,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Perplexity <= 0 {
		o.Perplexity = d.Perplexity
	}
	if o.Iterations <= 0 {
		o.Iterations = d.Iterations
	}
	if o.LearningRate <= 0 {
		o.LearningRate = d.LearningRate
	}
	if o.Exaggeration <= 0 {
		o.Exaggeration = d.Exaggeration
	}
	if o.ExaggerationIters <= 0 {
		o.ExaggerationIters = d.ExaggerationIters
	}
	if o.Seed == 0 {
		o.Seed = d.Seed
	}
	return o
}

// Embed returns a 2D embedding of x, one point per row. The result is
// deterministic for a given input and seed. Perplexity is clamped to
// (n−1)/3, and to at least 1, so small inputs still converge.
func Embed(ctx context.Context, x [][]float64, opts Options) ([][2]float64, error) {
	n := len(x)
	if n < 2 {
		return nil, ErrTooFewPoints
	}
	dim := len(x[0])
	for _, row := range x {
		if len(row) == 0 || len(row) != dim {
			return nil, ErrRagged
		}
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("tsne: non-finite input value %v", v)
			}
		}
	}
	opts = opts.withDefaults()
	if limit := float64(n-1) / 3; opts.Perplexity > limit {
		opts.Perplexity = math.Max(limit, 1)
	}

	p := jointProbabilities(squaredDistances(x), n, opts.Perplexity)

	rng := rand.New(rand.NewSource(opts.Seed))
	y := make([]float64, 2*n)
	for i := range y {
		y[i] = rng.NormFloat64() * 1e-4
	}
	var (
		grad  = make([]float64, 2*n)
		vel   = make([]float64, 2*n)
		gains = make([]float64, 2*n)
		num   = make([]float64, n*n)
	)
	for i := range gains {
		gains[i] = 1
	}

	for iter := 0; iter < opts.Iterations; iter++ {
		if iter%50 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		exag := 1.0
		momentum := 0.8
		if iter < opts.ExaggerationIters {
			exag = opts.Exaggeration
			momentum = 0.5
		}

		// Student-t kernel and its normaliser.
		var sumNum float64
		for i := 0; i < n; i++ {
			num[i*n+i] = 0
			for j := i + 1; j < n; j++ {
				dx := y[2*i] - y[2*j]
				dy := y[2*i+1] - y[2*j+1]
				v := 1 / (1 + dx*dx + dy*dy)
				num[i*n+j] = v
				num[j*n+i] = v
				sumNum += 2 * v
			}
		}
		sumNum = math.Max(sumNum, 1e-12)

		for i := 0; i < n; i++ {
			var gx, gy float64
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				q := math.Max(num[i*n+j]/sumNum, 1e-12)
				mult := (exag*p[i*n+j] - q) * num[i*n+j]
				gx += mult * (y[2*i] - y[2*j])
				gy += mult * (y[2*i+1] - y[2*j+1])
			}
			grad[2*i] = 4 * gx
			grad[2*i+1] = 4 * gy
		}

		for k := range y {
			if (grad[k] > 0) != (vel[k] > 0) {
				gains[k] += 0.2
			} else {
				gains[k] *= 0.8
			}
			gains[k] = math.Max(gains[k], 0.01)
			vel[k] = momentum*vel[k] - opts.LearningRate*gains[k]*grad[k]
			y[k] += vel[k]
		}
		center(y, n)
	}

	out := make([][2]float64, n)
	for i := range out {
		out[i] = [2]float64{y[2*i], y[2*i+1]}
	}
	return out, nil
}

func squaredDistances(x [][]float64) []float64 {
	n := len(x)
	d := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			var s float64
			for k := range x[i] {
				diff := x[i][k] - x[j][k]
				s += diff * diff
			}
			d[i*n+j] = s
			d[j*n+i] = s
		}
	}
	return d
}

// jointProbabilities calibrates a Gaussian per point so its conditional
// distribution has the requested perplexity, then symmetrises:
// P = (P_cond + P_condᵀ) / 2n.
func jointProbabilities(d []float64, n int, perplexity float64) []float64 {
	const (
		tol      = 1e-5
		maxTries = 50
	)
	target := math.Log(perplexity)
	cond := make([]float64, n*n)
	row := make([]float64, n)

	for i := 0; i < n; i++ {
		beta, lo, hi := 1.0, math.Inf(-1), math.Inf(1)
		for try := 0; try < maxTries; try++ {
			var sumP, sumDP float64
			for j := 0; j < n; j++ {
				if j == i {
					row[j] = 0
					continue
				}
				row[j] = math.Exp(-d[i*n+j] * beta)
				sumP += row[j]
				sumDP += d[i*n+j] * row[j]
			}
			if sumP == 0 {
				sumP = 1e-12
			}
			h := math.Log(sumP) + beta*sumDP/sumP
			for j := 0; j < n; j++ {
				row[j] /= sumP
			}
			diff := h - target
			if math.Abs(diff) < tol {
				break
			}
			if diff > 0 {
				lo = beta
				if math.IsInf(hi, 1) {
					beta *= 2
				} else {
					beta = (beta + hi) / 2
				}
			} else {
				hi = beta
				if math.IsInf(lo, -1) {
					beta /= 2
				} else {
					beta = (beta + lo) / 2
				}
			}
		}
		copy(cond[i*n:(i+1)*n], row)
	}

	p := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			p[i*n+j] = math.Max((cond[i*n+j]+cond[j*n+i])/(2*float64(n)), 1e-12)
		}
	}
	return p
}

func center(y []float64, n int) {
	var mx, my float64
	for i := 0; i < n; i++ {
		mx += y[2*i]
		my += y[2*i+1]
	}
	mx /= float64(n)
	my /= float64(n)
	for i := 0; i < n; i++ {
		y[2*i] -= mx
		y[2*i+1] -= my
	}
}
