package grid

import "errors"

// Errors returned by grid constructors and accessors.
var (
	ErrInvalidSize  = errors.New("grid: width, height and planes must be positive")
	ErrLengthMatch  = errors.New("grid: backing slice length does not match dimensions")
	ErrPlaneBounds  = errors.New("grid: plane index out of range")
	ErrShapeMatch   = errors.New("grid: shapes do not match")
	ErrInvalidTag   = errors.New("grid: invalid tag value")
)

// Format identifies how observed data is laid out.
type Format int

const (
	// FormatMap marks a single 2D image.
	FormatMap Format = iota

	// FormatCube marks an ordered stack of independent 2D planes.
	FormatCube
)

// Valid reports whether f is a recognized data format.
func (f Format) Valid() bool {
	return f == FormatMap || f == FormatCube
}

// String returns the configuration tag name.
func (f Format) String() string {
	switch f {
	case FormatMap:
		return "map"
	case FormatCube:
		return "cube"
	default:
		return "unknown"
	}
}

// ParseFormat converts a tag name to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "map":
		return FormatMap, nil
	case "cube":
		return FormatCube, nil
	default:
		return 0, ErrInvalidTag
	}
}

// PSFType identifies how a PSF kernel family relates to the data.
type PSFType int

const (
	// PSFFixed is a single kernel shared by every plane.
	PSFFixed PSFType = iota

	// PSFObjVar is a cube of kernels, one per data plane, index-aligned
	// with the data cube.
	PSFObjVar
)

// Valid reports whether t is a recognized PSF type.
func (t PSFType) Valid() bool {
	return t == PSFFixed || t == PSFObjVar
}

// String returns the configuration tag name.
func (t PSFType) String() string {
	switch t {
	case PSFFixed:
		return "fixed"
	case PSFObjVar:
		return "obj_var"
	default:
		return "unknown"
	}
}

// ParsePSFType converts a tag name to a PSFType.
func ParsePSFType(s string) (PSFType, error) {
	switch s {
	case "fixed":
		return PSFFixed, nil
	case "obj_var":
		return PSFObjVar, nil
	default:
		return 0, ErrInvalidTag
	}
}
