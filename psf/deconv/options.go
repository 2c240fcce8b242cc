package deconv

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-psf/psf/grid"
	"github.com/cwbudde/algo-psf/psf/wavelet"
)

// Configuration errors.
var (
	ErrInvalidMode        = errors.New("deconv: invalid mode, options are all, sparse, lowr or grad")
	ErrInvalidMethod      = errors.New("deconv: invalid method, options are condat, fwbw or gfwbw")
	ErrInvalidThreshold   = errors.New("deconv: invalid threshold type, options are soft or hard")
	ErrInvalidLowRankType = errors.New("deconv: invalid low-rank type, options are standard or ngole")
	ErrInvalidOption      = errors.New("deconv: invalid option value")
)

// Mode selects which regularization terms combine with the
// data-fidelity gradient.
type Mode int

const (
	// ModeAll combines sparse and low-rank regularization.
	ModeAll Mode = iota

	// ModeSparse penalizes wavelet-domain L1 norm.
	ModeSparse

	// ModeLowRank penalizes the nuclear norm of the stacked planes.
	ModeLowRank

	// ModeGradOnly runs the plain data-fidelity gradient, optionally
	// with a positivity constraint.
	ModeGradOnly
)

// Valid reports whether m is a recognized mode.
func (m Mode) Valid() bool {
	return m >= ModeAll && m <= ModeGradOnly
}

// String returns the tag used by the command line.
func (m Mode) String() string {
	switch m {
	case ModeAll:
		return "all"
	case ModeSparse:
		return "sparse"
	case ModeLowRank:
		return "lowr"
	case ModeGradOnly:
		return "grad"
	default:
		return "unknown"
	}
}

// ParseMode converts a tag to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "all":
		return ModeAll, nil
	case "sparse":
		return ModeSparse, nil
	case "lowr":
		return ModeLowRank, nil
	case "grad":
		return ModeGradOnly, nil
	default:
		return 0, ErrInvalidMode
	}
}

// Method selects the outer proximal-splitting algorithm.
type Method int

const (
	// MethodCondat is the Condat-Vu primal-dual algorithm.
	MethodCondat Method = iota

	// MethodForwardBackward is plain forward-backward splitting.
	MethodForwardBackward

	// MethodGenForwardBackward is generalized forward-backward
	// splitting over multiple proximity terms.
	MethodGenForwardBackward
)

// Valid reports whether m is a recognized method.
func (m Method) Valid() bool {
	return m >= MethodCondat && m <= MethodGenForwardBackward
}

// String returns the tag used by the command line.
func (m Method) String() string {
	switch m {
	case MethodCondat:
		return "condat"
	case MethodForwardBackward:
		return "fwbw"
	case MethodGenForwardBackward:
		return "gfwbw"
	default:
		return "unknown"
	}
}

// ParseMethod converts a tag to a Method.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "condat":
		return MethodCondat, nil
	case "fwbw":
		return MethodForwardBackward, nil
	case "gfwbw":
		return MethodGenForwardBackward, nil
	default:
		return 0, ErrInvalidMethod
	}
}

// ThresholdType selects soft or hard thresholding of singular values.
type ThresholdType int

const (
	ThresholdSoft ThresholdType = iota
	ThresholdHard
)

// Valid reports whether t is a recognized threshold type.
func (t ThresholdType) Valid() bool {
	return t == ThresholdSoft || t == ThresholdHard
}

// String returns the tag used by the command line.
func (t ThresholdType) String() string {
	switch t {
	case ThresholdSoft:
		return "soft"
	case ThresholdHard:
		return "hard"
	default:
		return "unknown"
	}
}

// ParseThresholdType converts a tag to a ThresholdType.
func ParseThresholdType(s string) (ThresholdType, error) {
	switch s {
	case "soft":
		return ThresholdSoft, nil
	case "hard":
		return ThresholdHard, nil
	default:
		return 0, ErrInvalidThreshold
	}
}

// LowRankType selects how the low-rank penalty thresholds the
// decomposition.
type LowRankType int

const (
	// LowRankStandard thresholds the singular values directly.
	LowRankStandard LowRankType = iota

	// LowRankNgole thresholds the singular-vector coefficients, each
	// component's threshold scaled by the measurement operator's
	// response to that principal image.
	LowRankNgole
)

// Valid reports whether t is a recognized low-rank type.
func (t LowRankType) Valid() bool {
	return t == LowRankStandard || t == LowRankNgole
}

// String returns the tag used by the command line.
func (t LowRankType) String() string {
	switch t {
	case LowRankStandard:
		return "standard"
	case LowRankNgole:
		return "ngole"
	default:
		return "unknown"
	}
}

// ParseLowRankType converts a tag to a LowRankType.
func ParseLowRankType(s string) (LowRankType, error) {
	switch s {
	case "standard":
		return LowRankStandard, nil
	case "ngole":
		return LowRankNgole, nil
	default:
		return 0, ErrInvalidLowRankType
	}
}

// Options configures a deconvolution run.
type Options struct {
	// PSFType and Format describe the PSF family and data layout for
	// the standard operator.
	PSFType grid.PSFType
	Format  grid.Format

	// Mode selects the regularization terms, Method the outer
	// algorithm.
	Mode   Mode
	Method Method

	// Sparse regularization: wavelet dictionary, decomposition depth
	// and per-level threshold factors (the last factor broadcasts to
	// deeper levels).
	WaveletType       wavelet.Type
	WaveletLevels     int
	WaveThreshFactors []float64

	// Low-rank regularization: threshold factor, soft/hard type and
	// the standard or ngole thresholding variant.
	LowRankFactor     float64
	LowRankThreshType ThresholdType
	LowRankType       LowRankType

	// NReweights is the number of L1 reweighting passes after the
	// initial run. NIter is the iteration budget per pass.
	NReweights int
	NIter      int

	// Relax is the relaxation parameter rho_n in (0, 1].
	Relax float64

	// KernelSigma, when positive, convolves the PSF kernels with a
	// Gaussian of that sigma before the operator is built.
	KernelSigma float64

	// Positivity projects each iterate onto the non-negative orthant.
	Positivity bool

	// Gradient toggles the data-fidelity gradient; when false the
	// operator is wrapped so its gradient is identically zero.
	Gradient bool

	// NoiseEst is the noise standard deviation; 0 means estimate it
	// from the data via the MAD.
	NoiseEst float64

	// Seed feeds the power-iteration starting vector.
	Seed int64

	// WarmStart, when non-nil, seeds the first iterate instead of the
	// observed data, e.g. with the result of a previous run. Its shape
	// must match the observation.
	WarmStart *grid.Cube
}

// DefaultOptions returns the defaults used by the psfdeconv command.
func DefaultOptions() Options {
	return Options{
		PSFType:           grid.PSFObjVar,
		Format:            grid.FormatCube,
		Mode:              ModeLowRank,
		Method:            MethodCondat,
		WaveletType:       wavelet.TypeStarlet,
		WaveletLevels:     3,
		WaveThreshFactors: []float64{3, 3, 4},
		LowRankFactor:     1,
		LowRankThreshType: ThresholdSoft,
		LowRankType:       LowRankStandard,
		NReweights:        1,
		NIter:             150,
		Relax:             0.8,
		Positivity:        true,
		Gradient:          true,
		Seed:              1,
	}
}

// Validate checks every tag and numeric range. It returns the first
// violation found.
func (o Options) Validate() error {
	if !o.PSFType.Valid() {
		return fmt.Errorf("%w: PSF type %d", grid.ErrInvalidTag, int(o.PSFType))
	}
	if !o.Format.Valid() {
		return fmt.Errorf("%w: data format %d", grid.ErrInvalidTag, int(o.Format))
	}
	if !o.Mode.Valid() {
		return fmt.Errorf("%w: got %d", ErrInvalidMode, int(o.Mode))
	}
	if !o.Method.Valid() {
		return fmt.Errorf("%w: got %d", ErrInvalidMethod, int(o.Method))
	}
	if !o.LowRankThreshType.Valid() {
		return fmt.Errorf("%w: got %d", ErrInvalidThreshold, int(o.LowRankThreshType))
	}
	if !o.LowRankType.Valid() {
		return fmt.Errorf("%w: got %d", ErrInvalidLowRankType, int(o.LowRankType))
	}
	if !o.WaveletType.Valid() {
		return fmt.Errorf("%w: wavelet type %d", wavelet.ErrInvalidType, int(o.WaveletType))
	}
	if o.WaveletLevels <= 0 {
		return fmt.Errorf("%w: wavelet levels must be positive, got %d", ErrInvalidOption, o.WaveletLevels)
	}
	if len(o.WaveThreshFactors) == 0 {
		return fmt.Errorf("%w: at least one wavelet threshold factor required", ErrInvalidOption)
	}
	for i, f := range o.WaveThreshFactors {
		if f < 0 {
			return fmt.Errorf("%w: wavelet threshold factor %d is negative", ErrInvalidOption, i)
		}
	}
	if o.LowRankFactor < 0 {
		return fmt.Errorf("%w: low-rank threshold factor is negative", ErrInvalidOption)
	}
	if o.NReweights < 0 {
		return fmt.Errorf("%w: reweight count is negative", ErrInvalidOption)
	}
	if o.NIter <= 0 {
		return fmt.Errorf("%w: iteration count must be positive, got %d", ErrInvalidOption, o.NIter)
	}
	if o.Relax <= 0 || o.Relax > 1 {
		return fmt.Errorf("%w: relaxation must be in (0, 1], got %g", ErrInvalidOption, o.Relax)
	}
	if o.KernelSigma < 0 {
		return fmt.Errorf("%w: kernel sigma is negative", ErrInvalidOption)
	}
	if o.NoiseEst < 0 {
		return fmt.Errorf("%w: noise estimate is negative", ErrInvalidOption)
	}

	return nil
}

// waveFactor returns the threshold factor for level j, broadcasting
// the last configured factor to deeper levels.
func (o Options) waveFactor(j int) float64 {
	if j < len(o.WaveThreshFactors) {
		return o.WaveThreshFactors[j]
	}

	return o.WaveThreshFactors[len(o.WaveThreshFactors)-1]
}
