package convolve

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-psf/psf/grid"
)

// FFT computes same-mode 2D convolution in the frequency domain.
// The 2D transform is composed from 1D row and column passes on
// power-of-2 padded grids. With rot=true the adjoint map is applied.
//
// The full linear convolution is computed on the padded grid and the
// input-shaped center is extracted, so the result matches Direct within
// floating tolerance.
func FFT(x, kernel *grid.Map, rot bool) (*grid.Map, error) {
	if x == nil || x.Len() == 0 {
		return nil, ErrEmptyInput
	}
	if kernel == nil || kernel.Len() == 0 {
		return nil, ErrEmptyKernel
	}

	w, h := x.Width, x.Height
	kw, kh := kernel.Width, kernel.Height
	cy := (kh - 1) / 2
	cx := (kw - 1) / 2

	fh := nextPowerOf2(h + kh - 1)
	fw := nextPowerOf2(w + kw - 1)

	xGrid := make([]complex128, fh*fw)
	kGrid := make([]complex128, fh*fw)

	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			xGrid[r*fw+c] = complex(x.At(c, r), 0)
		}
	}

	// The adjoint convolves with the 180-degree rotated kernel; the
	// extraction offset shifts accordingly so that even kernel sizes
	// remain exact transposes of the forward map.
	startRow, startCol := cy, cx
	if rot {
		kernel = kernel.Rot180()
		startRow = kh - 1 - cy
		startCol = kw - 1 - cx
	}

	for r := 0; r < kh; r++ {
		for c := 0; c < kw; c++ {
			kGrid[r*fw+c] = complex(kernel.At(c, r), 0)
		}
	}

	rowPlan, err := algofft.NewPlan64(fw)
	if err != nil {
		return nil, fmt.Errorf("convolve: failed to create row FFT plan: %w", err)
	}
	colPlan, err := algofft.NewPlan64(fh)
	if err != nil {
		return nil, fmt.Errorf("convolve: failed to create column FFT plan: %w", err)
	}

	if err := fft2(xGrid, fh, fw, rowPlan, colPlan, false); err != nil {
		return nil, err
	}
	if err := fft2(kGrid, fh, fw, rowPlan, colPlan, false); err != nil {
		return nil, err
	}

	for i := range xGrid {
		xGrid[i] *= kGrid[i]
	}

	if err := fft2(xGrid, fh, fw, rowPlan, colPlan, true); err != nil {
		return nil, err
	}

	out := grid.NewMap(w, h)
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			out.Set(c, r, real(xGrid[(r+startRow)*fw+c+startCol]))
		}
	}

	return out, nil
}

// fft2 applies a 2D transform in place on a fh x fw row-major grid by
// running the row plan over every row and the column plan over every
// column.
func fft2(data []complex128, fh, fw int, rowPlan, colPlan *algofft.Plan[complex128], inverse bool) error {
	transform := func(plan *algofft.Plan[complex128], buf []complex128) error {
		if inverse {
			return plan.Inverse(buf, buf)
		}
		return plan.Forward(buf, buf)
	}

	for r := 0; r < fh; r++ {
		if err := transform(rowPlan, data[r*fw:(r+1)*fw]); err != nil {
			return fmt.Errorf("convolve: row FFT failed: %w", err)
		}
	}

	col := make([]complex128, fh)
	for c := 0; c < fw; c++ {
		for r := 0; r < fh; r++ {
			col[r] = data[r*fw+c]
		}
		if err := transform(colPlan, col); err != nil {
			return fmt.Errorf("convolve: column FFT failed: %w", err)
		}
		for r := 0; r < fh; r++ {
			data[r*fw+c] = col[r]
		}
	}

	return nil
}
