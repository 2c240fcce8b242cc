package grid

// Map is a single 2D image or kernel with row-major float64 pixels.
type Map struct {
	Width  int
	Height int
	Pix    []float64
}

// NewMap returns a zero-filled Width x Height map.
func NewMap(width, height int) *Map {
	if width <= 0 || height <= 0 {
		panic(ErrInvalidSize)
	}

	return &Map{
		Width:  width,
		Height: height,
		Pix:    make([]float64, width*height),
	}
}

// WrapMap wraps an existing row-major slice without copying.
// The slice length must equal width*height.
func WrapMap(width, height int, pix []float64) (*Map, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidSize
	}
	if len(pix) != width*height {
		return nil, ErrLengthMatch
	}

	return &Map{Width: width, Height: height, Pix: pix}, nil
}

// At returns the pixel at column x, row y. No bounds checking beyond
// the backing slice's own.
func (m *Map) At(x, y int) float64 {
	return m.Pix[y*m.Width+x]
}

// Set writes the pixel at column x, row y.
func (m *Map) Set(x, y int, v float64) {
	m.Pix[y*m.Width+x] = v
}

// Len returns the number of pixels.
func (m *Map) Len() int {
	return m.Width * m.Height
}

// Clone returns a deep copy.
func (m *Map) Clone() *Map {
	out := NewMap(m.Width, m.Height)
	copy(out.Pix, m.Pix)

	return out
}

// SameShape reports whether m and o have identical dimensions.
func (m *Map) SameShape(o *Map) bool {
	return m.Width == o.Width && m.Height == o.Height
}

// Fill sets every pixel to v.
func (m *Map) Fill(v float64) {
	for i := range m.Pix {
		m.Pix[i] = v
	}
}

// Rot180 returns a copy of m rotated by 180 degrees (both axes
// reversed). This is the reflected kernel used by adjoint convolution.
func (m *Map) Rot180() *Map {
	out := NewMap(m.Width, m.Height)
	n := len(m.Pix)
	for i, v := range m.Pix {
		out.Pix[n-1-i] = v
	}

	return out
}

// AsCube returns a single-plane cube sharing m's backing slice.
func (m *Map) AsCube() *Cube {
	return &Cube{Width: m.Width, Height: m.Height, Planes: 1, Pix: m.Pix}
}
