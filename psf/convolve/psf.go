package convolve

import (
	"fmt"

	"github.com/cwbudde/algo-psf/psf/grid"
)

// PSFConvolve applies a fixed or object-variant PSF to map- or
// cube-formatted data. The kernel family is passed as a cube: a single
// plane for PSFFixed, one plane per data plane for PSFObjVar. With
// rot=true the adjoint map is applied.
//
// The data format selects one of two closed strategies: FormatMap
// requires single-plane data and a fixed kernel, FormatCube convolves
// each plane independently against its kernel.
func PSFConvolve(x, psf *grid.Cube, rot bool, psfType grid.PSFType, format grid.Format) (*grid.Cube, error) {
	if x == nil || x.Len() == 0 {
		return nil, ErrEmptyInput
	}
	if psf == nil || psf.Len() == 0 {
		return nil, ErrEmptyKernel
	}
	if !psfType.Valid() {
		return nil, fmt.Errorf("%w: invalid PSF type %d", grid.ErrInvalidTag, int(psfType))
	}

	strategy, ok := formatStrategies[format]
	if !ok {
		return nil, fmt.Errorf("%w: invalid data format %d", grid.ErrInvalidTag, int(format))
	}

	return strategy.apply(x, psf, rot, psfType)
}

// formatStrategy is the closed dispatch over data formats. Adding a
// format means adding a strategy here rather than growing tag
// comparisons across the operators.
type formatStrategy interface {
	apply(x, psf *grid.Cube, rot bool, psfType grid.PSFType) (*grid.Cube, error)
}

var formatStrategies = map[grid.Format]formatStrategy{
	grid.FormatMap:  mapStrategy{},
	grid.FormatCube: cubeStrategy{},
}

// mapStrategy convolves a single 2D image with a single kernel.
type mapStrategy struct{}

func (mapStrategy) apply(x, psf *grid.Cube, rot bool, psfType grid.PSFType) (*grid.Cube, error) {
	if x.Planes != 1 {
		return nil, fmt.Errorf("%w: map format requires a single plane, got %d", ErrShapeMismatch, x.Planes)
	}
	if psf.Planes != 1 {
		return nil, fmt.Errorf("%w: map format requires a single kernel, got %d", ErrShapeMismatch, psf.Planes)
	}

	out, err := Convolve(x.Plane(0), psf.Plane(0), rot)
	if err != nil {
		return nil, err
	}

	return out.AsCube(), nil
}

// cubeStrategy convolves each plane independently, broadcasting a
// fixed kernel or indexing per-plane kernels for object-variant PSFs.
type cubeStrategy struct{}

func (cubeStrategy) apply(x, psf *grid.Cube, rot bool, psfType grid.PSFType) (*grid.Cube, error) {
	if psfType == grid.PSFObjVar && psf.Planes != x.Planes {
		return nil, fmt.Errorf("%w: %d kernels for %d planes", ErrShapeMismatch, psf.Planes, x.Planes)
	}
	if psfType == grid.PSFFixed && psf.Planes != 1 {
		return nil, fmt.Errorf("%w: fixed PSF requires a single kernel, got %d", ErrShapeMismatch, psf.Planes)
	}

	out := grid.NewCube(x.Width, x.Height, x.Planes)
	for i := 0; i < x.Planes; i++ {
		kernel := psf.Plane(0)
		if psfType == grid.PSFObjVar {
			kernel = psf.Plane(i)
		}

		plane, err := Convolve(x.Plane(i), kernel, rot)
		if err != nil {
			return nil, err
		}
		copy(out.Plane(i).Pix, plane.Pix)
	}

	return out, nil
}
