package deconv

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-psf/psf/grad"
	"github.com/cwbudde/algo-psf/psf/grid"
	"github.com/cwbudde/algo-psf/psf/imstats"
	"github.com/cwbudde/algo-psf/psf/power"
)

// Result holds the restored estimate and the run's calibration values.
type Result struct {
	// X is the restored image or cube.
	X *grid.Cube

	// Iterations is the total number of iterations executed across
	// all reweighting passes.
	Iterations int

	// SpectralNorm is the composed map's dominant eigenvalue used to
	// size the gradient step.
	SpectralNorm float64

	// NoiseSigma is the noise estimate that scaled the thresholds.
	NoiseSigma float64

	// Residual is the final data-fidelity cost 0.5*||Mx - y||^2.
	Residual float64
}

// Deconvolve restores data blurred by a fixed or object-variant PSF.
func Deconvolve(data, psf *grid.Cube, opts Options) (*Result, error) {
	op, err := NewOperator(data, psf, opts)
	if err != nil {
		return nil, err
	}

	return Run(op, data, opts)
}

// DeconvolvePixelVariant restores data blurred by a pixel-variant PSF
// given as a PCA basis plus coefficient cubes.
func DeconvolvePixelVariant(data *grid.Cube, basis []*grid.Map, coef []*grid.Cube, opts Options) (*Result, error) {
	op, err := NewPixelVariantOperator(data, basis, coef, opts)
	if err != nil {
		return nil, err
	}

	return Run(op, data, opts)
}

// Run drives the configured method over an already-built operator.
// The observed data seeds the first iterate.
func Run(op grad.Operator, data *grid.Cube, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if data == nil || data.Len() == 0 {
		return nil, grad.ErrEmptyData
	}

	sigma := opts.NoiseEst
	if sigma == 0 {
		sigma = imstats.SigmaMAD(data.Pix)
	}

	beta, err := spectralNorm(op)
	if err != nil {
		// A hit max-iteration bound still yields a usable estimate;
		// anything else aborts the run.
		if !errors.Is(err, power.ErrNotConverged) {
			return nil, err
		}
	}

	rs := &runState{
		opts:  opts,
		data:  data,
		op:    op,
		sigma: sigma,
		beta:  beta,
	}
	if opts.Mode == ModeAll || opts.Mode == ModeSparse {
		rs.sparse = newSparseThresholder(data.Width, data.Height, data.Planes, opts, sigma)
	}

	var iterate func(x *grid.Cube) (int, error)
	switch opts.Method {
	case MethodCondat:
		iterate = condatMethod(op, rs)
	case MethodForwardBackward:
		iterate = forwardBackwardMethod(op, rs)
	case MethodGenForwardBackward:
		iterate = genForwardBackwardMethod(op, rs)
	}

	x := data.Clone()
	if opts.WarmStart != nil {
		if !opts.WarmStart.SameShape(data) {
			return nil, fmt.Errorf("%w: warm start %dx%dx%d, data %dx%dx%d",
				grid.ErrShapeMatch,
				opts.WarmStart.Width, opts.WarmStart.Height, opts.WarmStart.Planes,
				data.Width, data.Height, data.Planes)
		}
		x = opts.WarmStart.Clone()
	}

	passes := 1
	if rs.sparse != nil {
		passes += opts.NReweights
	}

	total := 0
	for pass := 0; pass < passes; pass++ {
		if pass > 0 {
			if err := rs.sparse.reweight(x); err != nil {
				return nil, err
			}
		}

		n, err := iterate(x)
		if err != nil {
			return nil, err
		}
		total += n
	}

	residual, err := dataResidual(op, x, data)
	if err != nil {
		return nil, err
	}

	return &Result{
		X:            x,
		Iterations:   total,
		SpectralNorm: beta,
		NoiseSigma:   sigma,
		Residual:     residual,
	}, nil
}

// runState carries the calibration shared by all methods.
type runState struct {
	opts   Options
	data   *grid.Cube
	op     grad.Operator
	sigma  float64
	beta   float64
	sparse *sparseThresholder
}

// stepSize returns the gradient step 1/beta, or 1 when the operator
// contributes no curvature (zero-gradient runs).
func (rs *runState) stepSize() float64 {
	if rs.beta > 0 {
		return 1 / rs.beta
	}

	return 1
}

// lowRankThresh returns the unscaled low-rank threshold.
func (rs *runState) lowRankThresh() float64 {
	return rs.opts.LowRankFactor * rs.sigma
}

// lowRankProx applies the configured low-rank variant.
func (rs *runState) lowRankProx(x *grid.Cube, thresh float64) (*grid.Cube, error) {
	if rs.opts.LowRankType == LowRankNgole {
		return LowRankThresholdCoef(x, rs.op.Forward, thresh, rs.opts.LowRankThreshType)
	}

	return LowRankThreshold(x, thresh, rs.opts.LowRankThreshType)
}

// proxPrimal applies the mode's proximity operators to x in place,
// thresholds scaled by the gradient step tau.
func (rs *runState) proxPrimal(x *grid.Cube, tau float64) error {
	if rs.sparse != nil {
		if err := rs.sparse.apply(x, tau); err != nil {
			return err
		}
	}

	if rs.opts.Mode == ModeAll || rs.opts.Mode == ModeLowRank {
		lr, err := rs.lowRankProx(x, tau*rs.lowRankThresh())
		if err != nil {
			return err
		}
		copy(x.Pix, lr.Pix)
	}

	if rs.opts.Positivity {
		Positivity(x.Pix)
	}

	return nil
}

// spectralNorm extracts the power-iteration estimate from the
// data-fidelity operators, unwrapping the zero-gradient shell.
func spectralNorm(op grad.Operator) (float64, error) {
	type normer interface {
		SpectralNorm() (float64, error)
	}

	switch t := op.(type) {
	case normer:
		return t.SpectralNorm()
	case *grad.ZeroGradient:
		return spectralNorm(t.Unwrap())
	default:
		return 0, nil
	}
}

// dataResidual computes 0.5*||Mx - y||^2.
func dataResidual(op grad.Operator, x, y *grid.Cube) (float64, error) {
	fx, err := op.Forward(x.Pix)
	if err != nil {
		return 0, err
	}
	if len(fx) != y.Len() {
		return 0, fmt.Errorf("%w: forward returned %d values for %d observations",
			grad.ErrInputLength, len(fx), y.Len())
	}

	var sum float64
	for i, v := range fx {
		d := v - y.Pix[i]
		sum += d * d
	}

	return 0.5 * sum, nil
}

// RecoveryError returns the relative Frobenius error
// ||x - clean|| / ||clean|| of a restored cube against a clean
// reference, e.g. for simulation studies where the unblurred data is
// known. A zero reference yields the absolute error.
func RecoveryError(x, clean *grid.Cube) (float64, error) {
	if x == nil || clean == nil || !x.SameShape(clean) {
		return 0, fmt.Errorf("%w: restored and clean cubes", grid.ErrShapeMatch)
	}

	var num, den float64
	for i := range x.Pix {
		d := x.Pix[i] - clean.Pix[i]
		num += d * d
		den += clean.Pix[i] * clean.Pix[i]
	}

	if den == 0 {
		return math.Sqrt(num), nil
	}

	return math.Sqrt(num / den), nil
}

// axpy computes dst += a*src.
func axpy(dst, src []float64, a float64) {
	for i, v := range src {
		dst[i] += a * v
	}
}

// relaxInto blends x += relax*(cand - x).
func relaxInto(x, cand []float64, relax float64) {
	for i := range x {
		x[i] += relax * (cand[i] - x[i])
	}
}
