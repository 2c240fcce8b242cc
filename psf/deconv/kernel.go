package deconv

import (
	"math"

	"github.com/cwbudde/algo-psf/psf/grid"
)

// GaussianKernel returns a normalized 2D Gaussian kernel of the given
// sigma. The kernel is square with odd side length covering three
// sigma on each side of the center.
func GaussianKernel(sigma float64) *grid.Map {
	radius := int(math.Ceil(3 * sigma))
	if radius < 1 {
		radius = 1
	}
	size := 2*radius + 1

	kernel := grid.NewMap(size, size)
	inv := 1 / (2 * sigma * sigma)

	var sum float64
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			v := math.Exp(-float64(x*x+y*y) * inv)
			kernel.Set(x+radius, y+radius, v)
			sum += v
		}
	}

	for i := range kernel.Pix {
		kernel.Pix[i] /= sum
	}

	return kernel
}
