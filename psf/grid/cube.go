package grid

// Cube is an ordered stack of equally-sized 2D planes. Planes are
// stored contiguously in a flat row-major slice, plane-major order.
type Cube struct {
	Width  int
	Height int
	Planes int
	Pix    []float64
}

// NewCube returns a zero-filled cube of the given dimensions.
func NewCube(width, height, planes int) *Cube {
	if width <= 0 || height <= 0 || planes <= 0 {
		panic(ErrInvalidSize)
	}

	return &Cube{
		Width:  width,
		Height: height,
		Planes: planes,
		Pix:    make([]float64, width*height*planes),
	}
}

// WrapCube wraps an existing plane-major slice without copying.
// The slice length must equal width*height*planes.
func WrapCube(width, height, planes int, pix []float64) (*Cube, error) {
	if width <= 0 || height <= 0 || planes <= 0 {
		return nil, ErrInvalidSize
	}
	if len(pix) != width*height*planes {
		return nil, ErrLengthMatch
	}

	return &Cube{Width: width, Height: height, Planes: planes, Pix: pix}, nil
}

// Plane returns an aliasing Map view of plane i. Writes through the
// view are visible in the cube.
func (c *Cube) Plane(i int) *Map {
	if i < 0 || i >= c.Planes {
		panic(ErrPlaneBounds)
	}

	n := c.Width * c.Height

	return &Map{
		Width:  c.Width,
		Height: c.Height,
		Pix:    c.Pix[i*n : (i+1)*n],
	}
}

// Len returns the total number of pixels across all planes.
func (c *Cube) Len() int {
	return c.Width * c.Height * c.Planes
}

// Clone returns a deep copy.
func (c *Cube) Clone() *Cube {
	out := NewCube(c.Width, c.Height, c.Planes)
	copy(out.Pix, c.Pix)

	return out
}

// SameShape reports whether c and o have identical dimensions.
func (c *Cube) SameShape(o *Cube) bool {
	return c.Width == o.Width && c.Height == o.Height && c.Planes == o.Planes
}

// Fill sets every pixel to v.
func (c *Cube) Fill(v float64) {
	for i := range c.Pix {
		c.Pix[i] = v
	}
}
