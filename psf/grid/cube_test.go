package grid

import (
	"errors"
	"testing"
)

func TestCubePlaneAliases(t *testing.T) {
	c := NewCube(2, 2, 3)

	c.Plane(1).Set(1, 1, 5)

	if got := c.Pix[1*4+3]; got != 5 {
		t.Errorf("expected plane write to land in the cube backing, got %v", c.Pix)
	}
}

func TestCubePlaneBounds(t *testing.T) {
	c := NewCube(2, 2, 2)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for out-of-range plane")
		}
	}()
	c.Plane(2)
}

func TestWrapCube(t *testing.T) {
	pix := make([]float64, 2*3*4)

	c, err := WrapCube(2, 3, 4, pix)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Len() != 24 {
		t.Errorf("Len = %d, want 24", c.Len())
	}

	if _, err := WrapCube(2, 3, 5, pix); !errors.Is(err, ErrLengthMatch) {
		t.Errorf("expected ErrLengthMatch, got %v", err)
	}
	if _, err := WrapCube(2, 3, 0, nil); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("expected ErrInvalidSize, got %v", err)
	}
}

func TestMapAsCube(t *testing.T) {
	m := NewMap(4, 4)
	m.Set(1, 1, 2)

	c := m.AsCube()
	if c.Planes != 1 || c.Width != 4 || c.Height != 4 {
		t.Fatalf("unexpected cube shape %dx%dx%d", c.Width, c.Height, c.Planes)
	}
	if c.Plane(0).At(1, 1) != 2 {
		t.Error("expected AsCube to share pixels")
	}
}
