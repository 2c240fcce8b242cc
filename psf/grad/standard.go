package grad

import (
	"fmt"

	"github.com/cwbudde/algo-psf/psf/convolve"
	"github.com/cwbudde/algo-psf/psf/grid"
	"github.com/cwbudde/algo-psf/psf/power"
)

// StandardPSF models a spatially fixed or object-variant PSF: the
// forward map convolves each plane with its kernel, the adjoint
// convolves with the rotated kernel.
type StandardPSF struct {
	data    *grid.Cube
	psf     *grid.Cube
	psfType grid.PSFType
	format  grid.Format
	est     *power.Estimator
}

// NewStandardPSF binds an observation and a PSF kernel family.
// The kernel cube holds a single plane for PSFFixed and one plane per
// data plane for PSFObjVar. Tag validation fails here; the spectral
// norm estimator is registered over the data shape but not run.
func NewStandardPSF(data, psf *grid.Cube, psfType grid.PSFType, format grid.Format, opts ...power.Option) (*StandardPSF, error) {
	if !psfType.Valid() {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPSFType, int(psfType))
	}
	if !format.Valid() {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidFormat, int(format))
	}
	if data == nil || data.Len() == 0 {
		return nil, ErrEmptyData
	}
	if psf == nil || psf.Len() == 0 {
		return nil, ErrEmptyPSF
	}

	s := &StandardPSF{
		data:    data,
		psf:     psf,
		psfType: psfType,
		format:  format,
	}

	est, err := power.New(s.Composed, data.Len(), opts...)
	if err != nil {
		return nil, err
	}
	s.est = est

	return s, nil
}

// Forward applies the PSF convolution without kernel rotation.
func (s *StandardPSF) Forward(x []float64) ([]float64, error) {
	xc, err := s.wrap(x)
	if err != nil {
		return nil, err
	}

	out, err := convolve.PSFConvolve(xc, s.psf, false, s.psfType, s.format)
	if err != nil {
		return nil, err
	}

	return out.Pix, nil
}

// Adjoint applies the PSF convolution with the rotated kernel.
func (s *StandardPSF) Adjoint(y []float64) ([]float64, error) {
	yc, err := s.wrap(y)
	if err != nil {
		return nil, err
	}

	out, err := convolve.PSFConvolve(yc, s.psf, true, s.psfType, s.format)
	if err != nil {
		return nil, err
	}

	return out.Pix, nil
}

// Composed returns Adjoint(Forward(x)).
func (s *StandardPSF) Composed(x []float64) ([]float64, error) {
	return composed(s, x)
}

// Gradient returns Mᵗ(Mx − y) for the bound observation.
func (s *StandardPSF) Gradient(x []float64) ([]float64, error) {
	return dataGradient(s, x, s.data.Pix)
}

// SpectralNorm returns the cached dominant eigenvalue of the composed
// map, computing it on first call.
func (s *StandardPSF) SpectralNorm() (float64, error) {
	return s.est.Norm()
}

// Estimator exposes the power-iteration estimator, e.g. to force a
// recompute after kernel data changed.
func (s *StandardPSF) Estimator() *power.Estimator {
	return s.est
}

// Observation returns the bound observation cube.
func (s *StandardPSF) Observation() *grid.Cube {
	return s.data
}

func (s *StandardPSF) wrap(x []float64) (*grid.Cube, error) {
	if len(x) != s.data.Len() {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInputLength, len(x), s.data.Len())
	}

	return grid.WrapCube(s.data.Width, s.data.Height, s.data.Planes, x)
}
