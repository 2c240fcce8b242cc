package testutil

import (
	"math/rand"

	"github.com/cwbudde/algo-psf/psf/grid"
)

// RandomMap returns a map filled with uniform values in [-1, 1) from a
// fixed seed for reproducibility.
func RandomMap(seed int64, width, height int) *grid.Map {
	m := grid.NewMap(width, height)
	rng := rand.New(rand.NewSource(seed))
	for i := range m.Pix {
		m.Pix[i] = rng.Float64()*2 - 1
	}
	return m
}

// RandomCube returns a cube filled with uniform values in [-1, 1) from
// a fixed seed.
func RandomCube(seed int64, width, height, planes int) *grid.Cube {
	c := grid.NewCube(width, height, planes)
	rng := rand.New(rand.NewSource(seed))
	for i := range c.Pix {
		c.Pix[i] = rng.Float64()*2 - 1
	}
	return c
}

// DeltaKernel returns a size x size kernel with 1 at the center and 0
// elsewhere: the identity element of same-mode convolution for odd
// sizes.
func DeltaKernel(size int) *grid.Map {
	k := grid.NewMap(size, size)
	k.Set(size/2, size/2, 1)
	return k
}

// OnesMap returns a map with every pixel set to 1.
func OnesMap(width, height int) *grid.Map {
	m := grid.NewMap(width, height)
	m.Fill(1)
	return m
}
