// Package gridio loads and saves maps and cubes as plain text: one row
// of space-separated values per line, planes separated by blank lines.
package gridio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-psf/psf/grid"
)

// Errors returned by the reader.
var (
	ErrEmptyFile     = errors.New("gridio: no data found")
	ErrRaggedRows    = errors.New("gridio: rows have differing lengths")
	ErrRaggedPlanes  = errors.New("gridio: planes have differing shapes")
	ErrInvalidNumber = errors.New("gridio: invalid number")
)

// Read parses a cube from r. A single-plane file yields a one-plane
// cube.
func Read(r io.Reader) (*grid.Cube, error) {
	var (
		planes  [][]float64
		current []float64
		width   int
		height  int
		rows    int
	)

	flushPlane := func() error {
		if rows == 0 {
			return nil
		}
		if len(planes) > 0 && len(current) != len(planes[0]) {
			return ErrRaggedPlanes
		}
		if height == 0 {
			height = rows
		} else if rows != height {
			return ErrRaggedPlanes
		}
		planes = append(planes, current)
		current = nil
		rows = 0
		return nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			if err := flushPlane(); err != nil {
				return nil, err
			}
			continue
		}

		fields := strings.Fields(line)
		if width == 0 {
			width = len(fields)
		} else if len(fields) != width {
			return nil, fmt.Errorf("%w: line %d has %d values, want %d", ErrRaggedRows, lineNo, len(fields), width)
		}

		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %q", ErrInvalidNumber, lineNo, f)
			}
			current = append(current, v)
		}
		rows++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := flushPlane(); err != nil {
		return nil, err
	}
	if len(planes) == 0 {
		return nil, ErrEmptyFile
	}

	pix := make([]float64, 0, len(planes)*len(planes[0]))
	for _, p := range planes {
		pix = append(pix, p...)
	}

	return grid.WrapCube(width, height, len(planes), pix)
}

// Write serializes a cube to w in the format Read parses.
func Write(w io.Writer, c *grid.Cube) error {
	bw := bufio.NewWriter(w)

	for p := 0; p < c.Planes; p++ {
		if p > 0 {
			if _, err := fmt.Fprintln(bw); err != nil {
				return err
			}
		}

		plane := c.Plane(p)
		for r := 0; r < c.Height; r++ {
			for col := 0; col < c.Width; col++ {
				if col > 0 {
					if err := bw.WriteByte(' '); err != nil {
						return err
					}
				}
				if _, err := bw.WriteString(strconv.FormatFloat(plane.At(col, r), 'g', -1, 64)); err != nil {
					return err
				}
			}
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

// ReadFile reads a cube from the named file.
func ReadFile(path string) (*grid.Cube, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(f)
}

// WriteFile writes a cube to the named file.
func WriteFile(path string, c *grid.Cube) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := Write(f, c); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
