package power

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by the estimator.
var (
	ErrNilMap        = errors.New("power: nil map function")
	ErrInvalidLength = errors.New("power: vector length must be positive")
	ErrBadLength     = errors.New("power: map returned wrong vector length")
	ErrNotConverged  = errors.New("power: estimate did not converge")
)

// MapFunc applies a self-adjoint linear map to a flat vector and
// returns the result as a new vector of the same length.
type MapFunc func(x []float64) ([]float64, error)

// Option configures an Estimator.
type Option func(*config)

type config struct {
	tol     float64
	maxIter int
	seed    int64
	autoRun bool
}

func defaultConfig() config {
	return config{
		tol:     1e-6,
		maxIter: 100,
		seed:    1,
	}
}

// WithTolerance sets the relative tolerance on successive norm
// estimates at which iteration stops.
func WithTolerance(tol float64) Option {
	return func(cfg *config) {
		if tol > 0 {
			cfg.tol = tol
		}
	}
}

// WithMaxIterations bounds the number of map applications per estimate.
func WithMaxIterations(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.maxIter = n
		}
	}
}

// WithSeed sets the seed of the random starting vector.
func WithSeed(seed int64) Option {
	return func(cfg *config) {
		cfg.seed = seed
	}
}

// WithAutoRun computes the estimate eagerly inside New instead of on
// the first Norm call.
func WithAutoRun() Option {
	return func(cfg *config) {
		cfg.autoRun = true
	}
}

// Estimator lazily computes and caches the spectral norm of a
// self-adjoint map.
type Estimator struct {
	apply MapFunc
	n     int
	cfg   config

	norm     float64
	iters    int
	computed bool
}

// New creates an estimator for a map over vectors of length n.
// Unless WithAutoRun is given, no computation happens until Norm is
// first called.
func New(apply MapFunc, n int, opts ...Option) (*Estimator, error) {
	if apply == nil {
		return nil, ErrNilMap
	}
	if n <= 0 {
		return nil, ErrInvalidLength
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	e := &Estimator{apply: apply, n: n, cfg: cfg}

	if cfg.autoRun {
		if _, err := e.Recompute(); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Norm returns the cached spectral norm estimate, computing it on the
// first call.
func (e *Estimator) Norm() (float64, error) {
	if e.computed {
		return e.norm, nil
	}

	return e.Recompute()
}

// Recompute discards any cached value and runs power iteration from a
// fresh random starting vector. Call this after mutating the data the
// underlying map closes over.
func (e *Estimator) Recompute() (float64, error) {
	e.computed = false

	rng := rand.New(rand.NewSource(e.cfg.seed))
	x := make([]float64, e.n)
	for i := range x {
		x[i] = rng.Float64()*2 - 1
	}
	normalize(x)

	var estimate float64
	converged := false

	for it := 0; it < e.cfg.maxIter; it++ {
		y, err := e.apply(x)
		if err != nil {
			return 0, fmt.Errorf("power: map application failed: %w", err)
		}
		if len(y) != e.n {
			return 0, fmt.Errorf("%w: got %d, want %d", ErrBadLength, len(y), e.n)
		}

		next := math.Sqrt(vecmath.DotProduct(y, y))
		e.iters = it + 1

		// A zero image maps to zero: the operator annihilated the
		// start vector, the norm along this direction is zero.
		if next == 0 {
			estimate = 0
			converged = true

			break
		}

		if it > 0 && math.Abs(next-estimate) <= e.cfg.tol*next {
			estimate = next
			converged = true

			break
		}

		estimate = next
		copy(x, y)
		normalize(x)
	}

	if !converged {
		// Keep the last estimate available but report the bound hit.
		e.norm = estimate
		e.computed = true

		return estimate, fmt.Errorf("%w after %d iterations", ErrNotConverged, e.cfg.maxIter)
	}

	e.norm = estimate
	e.computed = true

	return estimate, nil
}

// Iterations returns the number of map applications used by the most
// recent estimate.
func (e *Estimator) Iterations() int {
	return e.iters
}

func normalize(x []float64) {
	norm := math.Sqrt(vecmath.DotProduct(x, x))
	if norm == 0 {
		return
	}

	vecmath.ScaleBlock(x, x, 1/norm)
}
