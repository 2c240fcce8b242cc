package grad

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-psf/internal/testutil"
	"github.com/cwbudde/algo-psf/psf/grid"
)

func TestNewZeroGradientNil(t *testing.T) {
	if _, err := NewZeroGradient(nil); !errors.Is(err, ErrNilOperator) {
		t.Errorf("got %v, want ErrNilOperator", err)
	}
}

func TestZeroGradientDelegates(t *testing.T) {
	data := testutil.RandomCube(1, 8, 6, 2)
	psf := testutil.RandomCube(2, 3, 3, 2)

	inner, err := NewStandardPSF(data, psf, grid.PSFObjVar, grid.FormatCube)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	z, err := NewZeroGradient(inner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if z.Unwrap() != Operator(inner) {
		t.Error("Unwrap should return the wrapped operator")
	}

	x := testutil.RandomCube(3, 8, 6, 2).Pix

	wantF, err := inner.Forward(x)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gotF, err := z.Forward(x)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, gotF, wantF, 0)

	wantA, err := inner.Adjoint(x)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gotA, err := z.Adjoint(x)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, gotA, wantA, 0)

	wantC, err := inner.Composed(x)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gotC, err := z.Composed(x)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, gotC, wantC, 0)
}

func TestZeroGradientIsZero(t *testing.T) {
	data := testutil.RandomCube(1, 8, 6, 2)
	psf := testutil.RandomCube(2, 3, 3, 2)

	inner, err := NewStandardPSF(data, psf, grid.PSFObjVar, grid.FormatCube)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	z, err := NewZeroGradient(inner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	x := testutil.RandomCube(3, 8, 6, 2).Pix

	g, err := z.Gradient(x)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(g) != len(x) {
		t.Fatalf("gradient length = %d, want %d", len(g), len(x))
	}
	testutil.RequireSliceNearlyEqual(t, g, make([]float64, len(x)), 0)
}

// ZeroGradient must satisfy the Operator interface.
var _ Operator = (*ZeroGradient)(nil)
var _ Operator = (*StandardPSF)(nil)
var _ Operator = (*PixelVariant)(nil)
