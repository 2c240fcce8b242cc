package deconv

import (
	"github.com/cwbudde/algo-psf/psf/convolve"
	"github.com/cwbudde/algo-psf/psf/grad"
	"github.com/cwbudde/algo-psf/psf/grid"
	"github.com/cwbudde/algo-psf/psf/power"
)

// NewOperator builds the standard (fixed or object-variant) gradient
// operator selected by the options, applying the optional Gaussian
// kernel smoothing to the PSF and the zero-gradient wrapper when the
// data-fidelity term is disabled.
func NewOperator(data, psf *grid.Cube, opts Options) (grad.Operator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	psf, err := smoothPSF(psf, opts.KernelSigma)
	if err != nil {
		return nil, err
	}

	op, err := grad.NewStandardPSF(data, psf, opts.PSFType, opts.Format, power.WithSeed(opts.Seed))
	if err != nil {
		return nil, err
	}

	return wrapGradient(op, opts)
}

// NewPixelVariantOperator builds the pixel-variant (PCA basis)
// gradient operator selected by the options.
func NewPixelVariantOperator(data *grid.Cube, basis []*grid.Map, coef []*grid.Cube, opts Options) (grad.Operator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	op, err := grad.NewPixelVariant(data, basis, coef, opts.Format, power.WithSeed(opts.Seed))
	if err != nil {
		return nil, err
	}

	return wrapGradient(op, opts)
}

func wrapGradient(op grad.Operator, opts Options) (grad.Operator, error) {
	if opts.Gradient {
		return op, nil
	}

	return grad.NewZeroGradient(op)
}

// smoothPSF convolves every kernel plane with a Gaussian of the given
// sigma. A sigma of zero leaves the PSF untouched.
func smoothPSF(psf *grid.Cube, sigma float64) (*grid.Cube, error) {
	if sigma == 0 {
		return psf, nil
	}

	kernel := GaussianKernel(sigma)
	out := grid.NewCube(psf.Width, psf.Height, psf.Planes)

	for i := 0; i < psf.Planes; i++ {
		plane, err := convolve.Convolve(psf.Plane(i), kernel, false)
		if err != nil {
			return nil, err
		}
		copy(out.Plane(i).Pix, plane.Pix)
	}

	return out, nil
}
