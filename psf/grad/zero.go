package grad

// ZeroGradient wraps an operator and disables its data-fidelity
// gradient: Gradient always returns zeros of the input's shape while
// Forward, Adjoint and Composed delegate unchanged. It substitutes
// anywhere an Operator is expected, e.g. for pure-regularization runs.
type ZeroGradient struct {
	op Operator
}

// NewZeroGradient wraps op.
func NewZeroGradient(op Operator) (*ZeroGradient, error) {
	if op == nil {
		return nil, ErrNilOperator
	}

	return &ZeroGradient{op: op}, nil
}

// Forward delegates to the wrapped operator.
func (z *ZeroGradient) Forward(x []float64) ([]float64, error) {
	return z.op.Forward(x)
}

// Adjoint delegates to the wrapped operator.
func (z *ZeroGradient) Adjoint(y []float64) ([]float64, error) {
	return z.op.Adjoint(y)
}

// Composed delegates to the wrapped operator.
func (z *ZeroGradient) Composed(x []float64) ([]float64, error) {
	return z.op.Composed(x)
}

// Gradient returns an all-zero vector shaped like x, independent of
// the bound data and maps.
func (z *ZeroGradient) Gradient(x []float64) ([]float64, error) {
	return make([]float64, len(x)), nil
}

// Unwrap returns the wrapped operator.
func (z *ZeroGradient) Unwrap() Operator {
	return z.op
}
