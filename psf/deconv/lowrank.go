package deconv

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-psf/psf/grid"
)

// ErrSVDFailed indicates the singular value decomposition did not
// converge.
var ErrSVDFailed = errors.New("deconv: SVD factorization failed")

// LowRankThreshold applies the nuclear-norm proximity operator to a
// cube: the planes are unfolded into a planes x pixels matrix, its
// singular values are soft- or hard-thresholded, and the matrix is
// refolded. A stack of similar objects is well approximated by few
// principal planes, which is what this penalty exploits.
func LowRankThreshold(c *grid.Cube, thresh float64, tt ThresholdType) (*grid.Cube, error) {
	if c == nil || c.Len() == 0 {
		return nil, fmt.Errorf("%w: empty cube", ErrInvalidOption)
	}
	if !tt.Valid() {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidThreshold, int(tt))
	}

	rows := c.Planes
	cols := c.Width * c.Height

	// The cube's plane-major layout is exactly the row-major unfolding.
	a := mat.NewDense(rows, cols, append([]float64(nil), c.Pix...))

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, ErrSVDFailed
	}

	values := svd.Values(nil)
	switch tt {
	case ThresholdSoft:
		SoftThreshold(values, thresh)
	case ThresholdHard:
		HardThreshold(values, thresh)
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	var scaled, rebuilt mat.Dense
	scaled.Mul(&u, mat.NewDiagDense(len(values), values))
	rebuilt.Mul(&scaled, v.T())

	out := grid.NewCube(c.Width, c.Height, c.Planes)
	copy(out.Pix, rebuilt.RawMatrix().Data)

	return out, nil
}

// LowRankThresholdCoef is the ngole variant of the low-rank proximity
// operator: instead of shrinking the singular values, it thresholds
// the per-plane coefficients of each principal image, with component
// thresholds scaled by the measurement operator's response to that
// image. Components the instrument barely transmits are cheap to keep;
// strongly measured ones must earn their coefficients.
func LowRankThresholdCoef(c *grid.Cube, forward func([]float64) ([]float64, error), thresh float64, tt ThresholdType) (*grid.Cube, error) {
	if c == nil || c.Len() == 0 {
		return nil, fmt.Errorf("%w: empty cube", ErrInvalidOption)
	}
	if forward == nil {
		return nil, fmt.Errorf("%w: nil forward map", ErrInvalidOption)
	}
	if !tt.Valid() {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidThreshold, int(tt))
	}

	rows := c.Planes
	cols := c.Width * c.Height
	if rows > cols {
		return nil, fmt.Errorf("%w: %d planes exceed %d pixels, principal images are underdetermined",
			ErrInvalidOption, rows, cols)
	}

	a := mat.NewDense(rows, cols, append([]float64(nil), c.Pix...))

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, ErrSVDFailed
	}

	values := svd.Values(nil)
	k := len(values)

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	// The right singular vectors are the principal images; refold them
	// into a cube and measure each through the forward map. rows <= cols
	// makes k == rows, so the cube is observation-shaped.
	pc := grid.NewCube(c.Width, c.Height, k)
	for i := 0; i < k; i++ {
		plane := pc.Plane(i).Pix
		for j := 0; j < cols; j++ {
			plane[j] = v.At(j, i)
		}
	}

	fx, err := forward(pc.Pix)
	if err != nil {
		return nil, err
	}

	scale := make([]float64, k)
	for i := 0; i < k; i++ {
		seg := fx[i*cols : (i+1)*cols]
		scale[i] = math.Sqrt(vecmath.DotProduct(seg, seg))
	}

	// Per-plane coefficients of each component, thresholded columnwise.
	coef := mat.NewDense(rows, k, nil)
	for p := 0; p < rows; p++ {
		for i := 0; i < k; i++ {
			coef.Set(p, i, u.At(p, i)*values[i])
		}
	}

	col := make([]float64, rows)
	for i := 0; i < k; i++ {
		mat.Col(col, i, coef)
		switch tt {
		case ThresholdSoft:
			SoftThreshold(col, thresh*scale[i])
		case ThresholdHard:
			HardThreshold(col, thresh*scale[i])
		}
		coef.SetCol(i, col)
	}

	var rebuilt mat.Dense
	rebuilt.Mul(coef, v.T())

	out := grid.NewCube(c.Width, c.Height, c.Planes)
	copy(out.Pix, rebuilt.RawMatrix().Data)

	return out, nil
}
