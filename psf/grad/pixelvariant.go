package grad

import (
	"fmt"

	"github.com/cwbudde/algo-psf/psf/convolve"
	"github.com/cwbudde/algo-psf/psf/grid"
	"github.com/cwbudde/algo-psf/psf/power"
)

// PixelVariant models a PSF that varies across the field of view,
// represented by a PCA basis of component kernels plus per-pixel
// coefficient fields reconstructing the local kernel.
type PixelVariant struct {
	data     *grid.Cube
	basis    []*grid.Map
	coef     []*grid.Cube
	format   grid.Format
	strategy pcaStrategy
	est      *power.Estimator
}

// NewPixelVariant binds an observation, a PCA basis and the component
// coefficients. coef holds one cube per basis component; for FormatMap
// each cube has a single plane, for FormatCube the planes are
// index-aligned with the data. The spectral norm estimator is
// registered over the coefficient fields' spatial shape, lazily.
func NewPixelVariant(data *grid.Cube, basis []*grid.Map, coef []*grid.Cube, format grid.Format, opts ...power.Option) (*PixelVariant, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidFormat, int(format))
	}
	if data == nil || data.Len() == 0 {
		return nil, ErrEmptyData
	}
	if len(basis) == 0 || len(coef) == 0 {
		return nil, ErrEmptyPSF
	}
	if len(basis) != len(coef) {
		return nil, fmt.Errorf("%w: %d components, %d coefficient cubes",
			convolve.ErrBasisCoef, len(basis), len(coef))
	}

	p := &PixelVariant{
		data:   data,
		basis:  basis,
		coef:   coef,
		format: format,
	}

	// The map and cube paths index coefficients differently; the
	// dispatch is fixed at construction.
	switch format {
	case grid.FormatMap:
		p.strategy = pcaMapStrategy{}
	case grid.FormatCube:
		p.strategy = pcaCubeStrategy{}
	}

	// The unknown being reconstructed has the coefficient fields'
	// spatial shape.
	n := coef[0].Len()

	est, err := power.New(p.Composed, n, opts...)
	if err != nil {
		return nil, err
	}
	p.est = est

	return p, nil
}

// Forward applies the pixel-variant measurement map.
func (p *PixelVariant) Forward(x []float64) ([]float64, error) {
	return p.strategy.convolve(p, x, false)
}

// Adjoint applies the transposed map, with the basis kernels rotated.
func (p *PixelVariant) Adjoint(y []float64) ([]float64, error) {
	return p.strategy.convolve(p, y, true)
}

// Composed returns Adjoint(Forward(x)).
func (p *PixelVariant) Composed(x []float64) ([]float64, error) {
	return composed(p, x)
}

// Gradient returns Mᵗ(Mx − y) for the bound observation.
func (p *PixelVariant) Gradient(x []float64) ([]float64, error) {
	return dataGradient(p, x, p.data.Pix)
}

// SpectralNorm returns the cached dominant eigenvalue of the composed
// map, computing it on first call.
func (p *PixelVariant) SpectralNorm() (float64, error) {
	return p.est.Norm()
}

// Estimator exposes the power-iteration estimator.
func (p *PixelVariant) Estimator() *power.Estimator {
	return p.est
}

// Observation returns the bound observation cube.
func (p *PixelVariant) Observation() *grid.Cube {
	return p.data
}

// pcaStrategy is the closed format dispatch for the pixel-variant
// operator. The two implementations differ in coefficient indexing:
// a single spatial field versus a per-plane field.
type pcaStrategy interface {
	convolve(p *PixelVariant, x []float64, rot bool) ([]float64, error)
}

type pcaMapStrategy struct{}

func (pcaMapStrategy) convolve(p *PixelVariant, x []float64, rot bool) ([]float64, error) {
	ref := p.coef[0]
	if len(x) != ref.Width*ref.Height {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInputLength, len(x), ref.Width*ref.Height)
	}

	xm, err := grid.WrapMap(ref.Width, ref.Height, x)
	if err != nil {
		return nil, err
	}

	coefMaps := make([]*grid.Map, len(p.coef))
	for i, c := range p.coef {
		if c.Planes != 1 {
			return nil, fmt.Errorf("%w: map format requires single-plane coefficients, component %d has %d",
				convolve.ErrShapeMismatch, i, c.Planes)
		}
		coefMaps[i] = c.Plane(0)
	}

	out, err := convolve.PCAConvolve(xm, p.basis, coefMaps, rot)
	if err != nil {
		return nil, err
	}

	return out.Pix, nil
}

type pcaCubeStrategy struct{}

func (pcaCubeStrategy) convolve(p *PixelVariant, x []float64, rot bool) ([]float64, error) {
	ref := p.coef[0]
	if len(x) != ref.Len() {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInputLength, len(x), ref.Len())
	}

	xc, err := grid.WrapCube(ref.Width, ref.Height, ref.Planes, x)
	if err != nil {
		return nil, err
	}

	out, err := convolve.PCAConvolveStack(xc, p.basis, p.coef, rot)
	if err != nil {
		return nil, err
	}

	return out.Pix, nil
}
