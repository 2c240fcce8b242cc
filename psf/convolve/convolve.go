package convolve

import (
	"errors"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-psf/psf/grid"
)

// Errors returned by convolution functions.
var (
	ErrEmptyInput    = errors.New("convolve: empty input")
	ErrEmptyKernel   = errors.New("convolve: empty kernel")
	ErrShapeMismatch = errors.New("convolve: incompatible shapes")
	ErrBasisCoef     = errors.New("convolve: basis and coefficient counts differ")
)

// directThreshold is the kernel pixel count above which Convolve
// switches from direct shift-and-add to the FFT path.
const directThreshold = 225

// Convolve computes the same-mode 2D convolution of x with kernel,
// selecting the best algorithm based on kernel size. With rot=true the
// adjoint (kernel-rotated) map is applied instead.
func Convolve(x, kernel *grid.Map, rot bool) (*grid.Map, error) {
	if x == nil || x.Len() == 0 {
		return nil, ErrEmptyInput
	}
	if kernel == nil || kernel.Len() == 0 {
		return nil, ErrEmptyKernel
	}

	if kernel.Len() <= directThreshold {
		return Direct(x, kernel, rot)
	}

	return FFT(x, kernel, rot)
}

// Direct computes same-mode 2D convolution by shift-and-add in the
// spatial domain. O(N*K) in the kernel pixel count, best for small
// kernels.
func Direct(x, kernel *grid.Map, rot bool) (*grid.Map, error) {
	if x == nil || x.Len() == 0 {
		return nil, ErrEmptyInput
	}
	if kernel == nil || kernel.Len() == 0 {
		return nil, ErrEmptyKernel
	}

	out := grid.NewMap(x.Width, x.Height)
	directTo(out, x, kernel, rot)

	return out, nil
}

// directTo accumulates the convolution of x with kernel into dst,
// which must be zero-filled and input-shaped.
//
// Each kernel tap contributes a scaled, shifted copy of the input rows.
// For the forward map the source offset of tap (kr, kc) is
// (cy-kr, cx-kc); the adjoint negates the offsets, which is exactly
// cross-correlation with the unrotated kernel.
func directTo(dst, x, kernel *grid.Map, rot bool) {
	w, h := x.Width, x.Height
	cy := (kernel.Height - 1) / 2
	cx := (kernel.Width - 1) / 2

	scratch := make([]float64, w)

	for kr := 0; kr < kernel.Height; kr++ {
		for kc := 0; kc < kernel.Width; kc++ {
			weight := kernel.At(kc, kr)
			if weight == 0 {
				continue
			}

			dy := cy - kr
			dx := cx - kc
			if rot {
				dy, dx = -dy, -dx
			}

			// Clip the shifted copy to the image bounds.
			colStart := 0
			if dx < 0 {
				colStart = -dx
			}
			colEnd := w
			if dx > 0 {
				colEnd = w - dx
			}
			if colStart >= colEnd {
				continue
			}
			n := colEnd - colStart

			for r := 0; r < h; r++ {
				sr := r + dy
				if sr < 0 || sr >= h {
					continue
				}

				src := x.Pix[sr*w+colStart+dx : sr*w+colStart+dx+n]
				dstRow := dst.Pix[r*w+colStart : r*w+colStart+n]

				vecmath.ScaleBlock(scratch[:n], src, weight)
				vecmath.AddBlockInPlace(dstRow, scratch[:n])
			}
		}
	}
}

// nextPowerOf2 returns the next power of 2 >= n.
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
