package wavelet

import (
	"errors"

	"github.com/cwbudde/algo-psf/psf/grid"
)

// Errors returned by the transform.
var (
	ErrEmptyInput    = errors.New("wavelet: empty input")
	ErrInvalidLevels = errors.New("wavelet: level count must be positive")
	ErrNoScales      = errors.New("wavelet: no scales to reconstruct")
	ErrInvalidType   = errors.New("wavelet: unknown wavelet type")
)

// Type identifies a wavelet dictionary.
type Type int

const (
	// TypeStarlet is the isotropic undecimated B3-spline transform.
	TypeStarlet Type = iota
)

// Valid reports whether t is a recognized wavelet type.
func (t Type) Valid() bool {
	return t == TypeStarlet
}

// String returns the type name.
func (t Type) String() string {
	if t == TypeStarlet {
		return "starlet"
	}
	return "unknown"
}

// ParseType converts a name to a Type.
func ParseType(s string) (Type, error) {
	if s == "starlet" || s == "b3" {
		return TypeStarlet, nil
	}
	return 0, ErrInvalidType
}

// b3Kernel is the 1D B3-spline smoothing kernel applied separably.
var b3Kernel = [5]float64{1.0 / 16, 4.0 / 16, 6.0 / 16, 4.0 / 16, 1.0 / 16}

// Decompose computes levels detail planes plus one coarse plane
// (levels+1 maps in total, details first, coarse last). The transform
// is undecimated: every plane has the input's shape. Boundaries are
// mirrored.
func Decompose(x *grid.Map, levels int) ([]*grid.Map, error) {
	if x == nil || x.Len() == 0 {
		return nil, ErrEmptyInput
	}
	if levels <= 0 {
		return nil, ErrInvalidLevels
	}

	scales := make([]*grid.Map, 0, levels+1)

	current := x.Clone()
	for j := 0; j < levels; j++ {
		smooth := smoothB3(current, 1<<j)

		detail := grid.NewMap(x.Width, x.Height)
		for i := range detail.Pix {
			detail.Pix[i] = current.Pix[i] - smooth.Pix[i]
		}
		scales = append(scales, detail)

		current = smooth
	}

	return append(scales, current), nil
}

// Reconstruct inverts Decompose by summing all scales. The round trip
// Reconstruct(Decompose(x)) reproduces x exactly.
func Reconstruct(scales []*grid.Map) (*grid.Map, error) {
	if len(scales) == 0 {
		return nil, ErrNoScales
	}

	out := scales[0].Clone()
	for _, s := range scales[1:] {
		if !s.SameShape(out) {
			return nil, grid.ErrShapeMatch
		}
		for i := range out.Pix {
			out.Pix[i] += s.Pix[i]
		}
	}

	return out, nil
}

// smoothB3 convolves separably with the B3 kernel dilated by step
// (the "à trous" holes), mirroring at the boundaries.
func smoothB3(x *grid.Map, step int) *grid.Map {
	w, h := x.Width, x.Height

	// Rows.
	tmp := grid.NewMap(w, h)
	for r := 0; r < h; r++ {
		row := x.Pix[r*w : (r+1)*w]
		dst := tmp.Pix[r*w : (r+1)*w]
		for c := 0; c < w; c++ {
			var acc float64
			for k := -2; k <= 2; k++ {
				acc += b3Kernel[k+2] * row[mirror(c+k*step, w)]
			}
			dst[c] = acc
		}
	}

	// Columns.
	out := grid.NewMap(w, h)
	for c := 0; c < w; c++ {
		for r := 0; r < h; r++ {
			var acc float64
			for k := -2; k <= 2; k++ {
				acc += b3Kernel[k+2] * tmp.Pix[mirror(r+k*step, h)*w+c]
			}
			out.Pix[r*w+c] = acc
		}
	}

	return out
}

// mirror reflects index i into [0, n) without repeating the edge
// sample. Falls back to clamping for dilations wider than the image.
func mirror(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*(n-1) - i
		}
	}
	return i
}
