package convolve

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-psf/internal/testutil"
	"github.com/cwbudde/algo-psf/psf/grid"
)

func randomBasis(seed int64, n, size int) []*grid.Map {
	basis := make([]*grid.Map, n)
	for i := range basis {
		basis[i] = testutil.RandomMap(seed+int64(i), size, size)
	}
	return basis
}

func randomCoefMaps(seed int64, n, w, h int) []*grid.Map {
	coef := make([]*grid.Map, n)
	for i := range coef {
		coef[i] = testutil.RandomMap(seed+int64(i), w, h)
	}
	return coef
}

func TestPCAConvolveDeltaBasis(t *testing.T) {
	// A single delta component with unit coefficients is the identity.
	x := testutil.RandomMap(1, 6, 6)
	basis := []*grid.Map{testutil.DeltaKernel(3)}
	coef := []*grid.Map{testutil.OnesMap(6, 6)}

	got, err := PCAConvolve(x, basis, coef, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, got.Pix, x.Pix, 1e-12)
}

func TestPCAConvolveAdjointIdentity(t *testing.T) {
	x := testutil.RandomMap(10, 8, 8)
	y := testutil.RandomMap(11, 8, 8)
	basis := randomBasis(12, 3, 3)
	coef := randomCoefMaps(15, 3, 8, 8)

	fx, err := PCAConvolve(x, basis, coef, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	aty, err := PCAConvolve(y, basis, coef, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lhs := testutil.Dot(t, fx.Pix, y.Pix)
	rhs := testutil.Dot(t, x.Pix, aty.Pix)
	if diff := lhs - rhs; diff > 1e-10 || diff < -1e-10 {
		t.Errorf("<Mx,y> = %v but <x,Mty> = %v", lhs, rhs)
	}
}

func TestPCAConvolveStackAdjointIdentity(t *testing.T) {
	const planes = 3

	x := testutil.RandomCube(20, 8, 8, planes)
	y := testutil.RandomCube(21, 8, 8, planes)
	basis := randomBasis(22, 2, 3)
	coef := []*grid.Cube{
		testutil.RandomCube(25, 8, 8, planes),
		testutil.RandomCube(26, 8, 8, planes),
	}

	fx, err := PCAConvolveStack(x, basis, coef, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	aty, err := PCAConvolveStack(y, basis, coef, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lhs := testutil.Dot(t, fx.Pix, y.Pix)
	rhs := testutil.Dot(t, x.Pix, aty.Pix)
	if diff := lhs - rhs; diff > 1e-10 || diff < -1e-10 {
		t.Errorf("<Mx,y> = %v but <x,Mty> = %v", lhs, rhs)
	}
}

func TestPCAConvolveStackSinglePlaneMatchesMap(t *testing.T) {
	x := testutil.RandomMap(30, 8, 8)
	basis := randomBasis(31, 2, 3)
	coefMaps := randomCoefMaps(34, 2, 8, 8)

	coefCubes := []*grid.Cube{coefMaps[0].AsCube(), coefMaps[1].AsCube()}

	for _, rot := range []bool{false, true} {
		mapOut, err := PCAConvolve(x, basis, coefMaps, rot)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		cubeOut, err := PCAConvolveStack(x.AsCube(), basis, coefCubes, rot)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		testutil.RequireSliceNearlyEqual(t, cubeOut.Pix, mapOut.Pix, 1e-12)
	}
}

func TestPCAConvolveErrors(t *testing.T) {
	x := testutil.RandomMap(40, 6, 6)
	basis := randomBasis(41, 2, 3)

	if _, err := PCAConvolve(x, basis, randomCoefMaps(43, 1, 6, 6), false); !errors.Is(err, ErrBasisCoef) {
		t.Errorf("expected ErrBasisCoef, got %v", err)
	}
	if _, err := PCAConvolve(x, nil, nil, false); !errors.Is(err, ErrEmptyKernel) {
		t.Errorf("expected ErrEmptyKernel, got %v", err)
	}
	if _, err := PCAConvolve(x, basis, randomCoefMaps(44, 2, 5, 5), false); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}
}
