package gridio

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/algo-psf/internal/testutil"
)

func TestReadSinglePlane(t *testing.T) {
	in := "1 2 3\n4 5 6\n"

	c, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.Width != 3 || c.Height != 2 || c.Planes != 1 {
		t.Fatalf("shape %dx%dx%d, want 3x2x1", c.Width, c.Height, c.Planes)
	}
	testutil.RequireSliceNearlyEqual(t, c.Pix, []float64{1, 2, 3, 4, 5, 6}, 0)
}

func TestReadMultiPlane(t *testing.T) {
	in := "1 2\n3 4\n\n5 6\n7 8\n"

	c, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.Width != 2 || c.Height != 2 || c.Planes != 2 {
		t.Fatalf("shape %dx%dx%d, want 2x2x2", c.Width, c.Height, c.Planes)
	}
	testutil.RequireSliceNearlyEqual(t, c.Pix, []float64{1, 2, 3, 4, 5, 6, 7, 8}, 0)
}

func TestReadTolerantOfWhitespace(t *testing.T) {
	in := "  1   2  \n 3 4\n\n\n5 6\n7 8\n\n"

	c, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Planes != 2 {
		t.Fatalf("planes = %d, want 2", c.Planes)
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr error
	}{
		{"empty", "", ErrEmptyFile},
		{"blank only", "\n\n", ErrEmptyFile},
		{"ragged rows", "1 2\n3\n", ErrRaggedRows},
		{"ragged planes", "1 2\n3 4\n\n5 6\n", ErrRaggedPlanes},
		{"bad number", "1 x\n", ErrInvalidNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.in))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	c := testutil.RandomCube(1, 5, 4, 3)

	var buf bytes.Buffer
	if err := Write(&buf, c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !got.SameShape(c) {
		t.Fatalf("shape %dx%dx%d, want %dx%dx%d",
			got.Width, got.Height, got.Planes, c.Width, c.Height, c.Planes)
	}
	testutil.RequireSliceNearlyEqual(t, got.Pix, c.Pix, 0)
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cube.txt")
	c := testutil.RandomCube(2, 4, 4, 2)

	if err := WriteFile(path, c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, got.Pix, c.Pix, 0)
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
