package grad

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-vecmath"
)

// Errors returned at operator construction. All tag validation happens
// here; call-time failures are shape mismatches propagated unchanged
// from the convolution primitives.
var (
	ErrInvalidPSFType = errors.New("grad: invalid PSF type, options are fixed or obj_var")
	ErrInvalidFormat  = errors.New("grad: invalid data format, options are map or cube")
	ErrEmptyData      = errors.New("grad: empty observation data")
	ErrEmptyPSF       = errors.New("grad: empty PSF")
	ErrNilOperator    = errors.New("grad: nil wrapped operator")
	ErrInputLength    = errors.New("grad: input length does not match bound shape")
)

// Operator is the contract every gradient operator satisfies.
// See the package documentation for the adjoint invariant.
type Operator interface {
	// Forward applies the measurement map M to a candidate image or
	// cube, producing an observation-shaped vector.
	Forward(x []float64) ([]float64, error)

	// Adjoint applies the transpose Mᵗ to an observation-shaped
	// vector, producing an input-shaped vector.
	Adjoint(y []float64) ([]float64, error)

	// Composed returns Adjoint(Forward(x)).
	Composed(x []float64) ([]float64, error)

	// Gradient returns Mᵗ(Mx − y) for the bound observation y.
	Gradient(x []float64) ([]float64, error)
}

// composed is the shared Composed implementation: always the literal
// composition of the two primitives.
func composed(op Operator, x []float64) ([]float64, error) {
	fx, err := op.Forward(x)
	if err != nil {
		return nil, err
	}

	return op.Adjoint(fx)
}

// dataGradient computes Mᵗ(Mx − y) from an operator's primitives and
// its bound observation.
func dataGradient(op Operator, x, y []float64) ([]float64, error) {
	fx, err := op.Forward(x)
	if err != nil {
		return nil, err
	}
	if len(fx) != len(y) {
		return nil, fmt.Errorf("%w: forward returned %d values for %d observations",
			ErrInputLength, len(fx), len(y))
	}

	residual := make([]float64, len(y))
	vecmath.ScaleBlock(residual, y, -1)
	vecmath.AddBlockInPlace(residual, fx)

	return op.Adjoint(residual)
}
