package convolve

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-psf/psf/grid"
)

// PCAConvolve applies a pixel-variant PSF expressed as a PCA basis plus
// per-pixel coefficient fields to a single 2D image.
//
// The forward map convolves the image with each principal component and
// weights the result by that component's coefficient field:
//
//	out = sum_i coef[i] .* (basis[i] * x)
//
// With rot=true the exact transpose is applied: the image is weighted
// first and then correlated with each component:
//
//	out = sum_i basis[i]^T * (coef[i] .* x)
func PCAConvolve(x *grid.Map, basis, coef []*grid.Map, rot bool) (*grid.Map, error) {
	if x == nil || x.Len() == 0 {
		return nil, ErrEmptyInput
	}
	if len(basis) == 0 {
		return nil, ErrEmptyKernel
	}
	if len(basis) != len(coef) {
		return nil, fmt.Errorf("%w: %d components, %d coefficient fields", ErrBasisCoef, len(basis), len(coef))
	}

	out := grid.NewMap(x.Width, x.Height)
	scratch := grid.NewMap(x.Width, x.Height)

	for i := range basis {
		if !coef[i].SameShape(x) {
			return nil, fmt.Errorf("%w: coefficient field %d is %dx%d, data is %dx%d",
				ErrShapeMismatch, i, coef[i].Width, coef[i].Height, x.Width, x.Height)
		}

		if rot {
			vecmath.MulBlock(scratch.Pix, x.Pix, coef[i].Pix)
			conv, err := Convolve(scratch, basis[i], true)
			if err != nil {
				return nil, err
			}
			vecmath.AddBlockInPlace(out.Pix, conv.Pix)

			continue
		}

		conv, err := Convolve(x, basis[i], false)
		if err != nil {
			return nil, err
		}
		vecmath.MulBlockInPlace(conv.Pix, coef[i].Pix)
		vecmath.AddBlockInPlace(out.Pix, conv.Pix)
	}

	return out, nil
}

// PCAConvolveStack applies a pixel-variant PSF independently to every
// plane of a cube. The basis is shared across planes; each component's
// coefficients form a cube index-aligned with the data.
func PCAConvolveStack(x *grid.Cube, basis []*grid.Map, coef []*grid.Cube, rot bool) (*grid.Cube, error) {
	if x == nil || x.Len() == 0 {
		return nil, ErrEmptyInput
	}
	if len(basis) == 0 {
		return nil, ErrEmptyKernel
	}
	if len(basis) != len(coef) {
		return nil, fmt.Errorf("%w: %d components, %d coefficient cubes", ErrBasisCoef, len(basis), len(coef))
	}

	planeCoef := make([]*grid.Map, len(coef))
	out := grid.NewCube(x.Width, x.Height, x.Planes)

	for p := 0; p < x.Planes; p++ {
		for i := range coef {
			if !coef[i].SameShape(x) {
				return nil, fmt.Errorf("%w: coefficient cube %d is %dx%dx%d, data is %dx%dx%d",
					ErrShapeMismatch, i,
					coef[i].Width, coef[i].Height, coef[i].Planes,
					x.Width, x.Height, x.Planes)
			}
			planeCoef[i] = coef[i].Plane(p)
		}

		plane, err := PCAConvolve(x.Plane(p), basis, planeCoef, rot)
		if err != nil {
			return nil, err
		}
		copy(out.Plane(p).Pix, plane.Pix)
	}

	return out, nil
}
