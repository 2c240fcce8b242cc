package convolve

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/cwbudde/algo-psf/internal/testutil"
	"github.com/cwbudde/algo-psf/psf/grid"
)

func TestDirectDeltaKernel(t *testing.T) {
	x := testutil.OnesMap(4, 4)
	k := testutil.DeltaKernel(3)

	got, err := Direct(x, k, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, got.Pix, x.Pix, 1e-12)

	// The delta kernel is self-adjoint: the rotated map is the
	// identity too.
	got, err = Direct(x, k, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, got.Pix, x.Pix, 1e-12)
}

func TestDirectKnownValues(t *testing.T) {
	// 2x2 image, 3x3 averaging cross. Zero padding truncates the
	// kernel support at the borders.
	x, err := grid.WrapMap(2, 2, []float64{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	k, err := grid.WrapMap(3, 3, []float64{
		0, 1, 0,
		1, 1, 1,
		0, 1, 0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := Direct(x, k, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// out[0,0] = x00 + x01 + x10 = 1 + 2 + 3
	want := []float64{6, 7, 8, 9}
	testutil.RequireSliceNearlyEqual(t, got.Pix, want, 1e-12)
}

func TestDirectShiftedDelta(t *testing.T) {
	// A kernel with the impulse off center shifts the image; the
	// adjoint shifts it back.
	x := testutil.RandomMap(3, 5, 5)
	k := grid.NewMap(3, 3)
	k.Set(2, 1, 1) // one column right of center

	fwd, err := Direct(x, k, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			want := 0.0
			if c >= 1 {
				want = x.At(c-1, r)
			}
			if diff := fwd.At(c, r) - want; diff > 1e-12 || diff < -1e-12 {
				t.Fatalf("forward shift wrong at (%d,%d): got %v, want %v", c, r, fwd.At(c, r), want)
			}
		}
	}
}

func TestAdjointIdentityDirect(t *testing.T) {
	kernels := []*grid.Map{
		testutil.RandomMap(11, 3, 3),
		testutil.RandomMap(12, 5, 5),
		testutil.RandomMap(13, 4, 4), // even size must hold too
		testutil.RandomMap(14, 5, 3),
	}

	for i, k := range kernels {
		x := testutil.RandomMap(int64(20+i), 8, 8)
		y := testutil.RandomMap(int64(30+i), 8, 8)

		fx, err := Direct(x, k, false)
		if err != nil {
			t.Fatalf("kernel %d: unexpected error: %v", i, err)
		}
		aty, err := Direct(y, k, true)
		if err != nil {
			t.Fatalf("kernel %d: unexpected error: %v", i, err)
		}

		lhs := testutil.Dot(t, fx.Pix, y.Pix)
		rhs := testutil.Dot(t, x.Pix, aty.Pix)

		if diff := lhs - rhs; diff > 1e-10 || diff < -1e-10 {
			t.Errorf("kernel %d: <Mx,y> = %v but <x,Mty> = %v", i, lhs, rhs)
		}
	}
}

func TestFFTMatchesDirect(t *testing.T) {
	tests := []struct {
		name   string
		kw, kh int
	}{
		{"3x3", 3, 3},
		{"5x5", 5, 5},
		{"4x4 even", 4, 4},
		{"7x3 rect", 7, 3},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := testutil.RandomMap(int64(40+i), 9, 7)
			k := testutil.RandomMap(int64(50+i), tt.kw, tt.kh)

			for _, rot := range []bool{false, true} {
				direct, err := Direct(x, k, rot)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				fft, err := FFT(x, k, rot)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}

				testutil.RequireSliceNearlyEqual(t, fft.Pix, direct.Pix, 1e-9)
			}
		})
	}
}

func TestConvolveSelectsFFTForLargeKernels(t *testing.T) {
	// A kernel above the direct threshold still matches the direct
	// computation.
	x := testutil.RandomMap(60, 24, 24)
	k := testutil.RandomMap(61, 17, 17)

	auto, err := Convolve(x, k, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	direct, err := Direct(x, k, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, auto.Pix, direct.Pix, 1e-9)
}

func TestConvolveErrors(t *testing.T) {
	x := testutil.OnesMap(4, 4)

	if _, err := Convolve(nil, x, false); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
	if _, err := Convolve(x, nil, false); !errors.Is(err, ErrEmptyKernel) {
		t.Errorf("expected ErrEmptyKernel, got %v", err)
	}
	if _, err := Direct(nil, x, false); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
	if _, err := FFT(x, nil, true); !errors.Is(err, ErrEmptyKernel) {
		t.Errorf("expected ErrEmptyKernel, got %v", err)
	}
}

func BenchmarkDirect9x9(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	x := grid.NewMap(64, 64)
	k := grid.NewMap(9, 9)
	for i := range x.Pix {
		x.Pix[i] = rng.Float64()
	}
	for i := range k.Pix {
		k.Pix[i] = rng.Float64()
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Direct(x, k, false); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFFT17x17(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	x := grid.NewMap(64, 64)
	k := grid.NewMap(17, 17)
	for i := range x.Pix {
		x.Pix[i] = rng.Float64()
	}
	for i := range k.Pix {
		k.Pix[i] = rng.Float64()
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := FFT(x, k, false); err != nil {
			b.Fatal(err)
		}
	}
}
