// Package grid provides the image containers shared by the PSF
// deconvolution packages: a Map is a single 2D image or kernel, a Cube
// is an ordered stack of equally-sized planes (e.g. postage stamps of
// individual objects, or a stack of per-object PSF kernels).
//
// Both types store pixels in a flat, row-major []float64 so that they
// can be handed to vectorized block operations and to linear-operator
// callables without copying. Cube planes are contiguous; Plane returns
// an aliasing Map view into the cube's backing slice.
//
// # Usage
//
//	m := grid.NewMap(64, 64)
//	m.Set(32, 32, 1)
//
//	c := grid.NewCube(64, 64, 10)
//	p := c.Plane(3)      // aliasing view, writes are visible in c
//
// The Format tag selects between the two container shapes where an
// algorithm treats them differently, and the PSFType tag describes how
// a kernel family relates to the planes of a data cube.
package grid
