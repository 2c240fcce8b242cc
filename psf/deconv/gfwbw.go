package deconv

import (
	"github.com/cwbudde/algo-psf/psf/grad"
	"github.com/cwbudde/algo-psf/psf/grid"
)

// proxFn applies one proximity operator to x in place with the given
// threshold scale.
type proxFn func(x *grid.Cube, scale float64) error

// genForwardBackwardMethod iterates generalized forward-backward
// splitting: one auxiliary variable per regularization term, each
// updated against its own proximity operator, the iterate being their
// average.
func genForwardBackwardMethod(op grad.Operator, rs *runState) func(x *grid.Cube) (int, error) {
	terms := rs.proxTerms()
	tau := rs.stepSize()

	return func(x *grid.Cube) (int, error) {
		n := len(terms)
		weight := 1 / float64(n)

		aux := make([]*grid.Cube, n)
		for i := range aux {
			aux[i] = x.Clone()
		}
		cand := grid.NewCube(x.Width, x.Height, x.Planes)

		for it := 0; it < rs.opts.NIter; it++ {
			g, err := op.Gradient(x.Pix)
			if err != nil {
				return it, err
			}

			for i, z := range aux {
				// cand = 2x - z_i - tau*grad
				for k := range cand.Pix {
					cand.Pix[k] = 2*x.Pix[k] - z.Pix[k]
				}
				axpy(cand.Pix, g, -tau)

				// The term's weight rescales its threshold.
				if err := terms[i](cand, tau*float64(n)); err != nil {
					return it, err
				}

				// z_i += relax*(cand - x)
				for k := range z.Pix {
					z.Pix[k] += rs.opts.Relax * (cand.Pix[k] - x.Pix[k])
				}
			}

			for k := range x.Pix {
				var sum float64
				for _, z := range aux {
					sum += z.Pix[k]
				}
				x.Pix[k] = sum * weight
			}
		}

		return rs.opts.NIter, nil
	}
}

// proxTerms splits the mode's regularization into independent
// proximity operators for the generalized splitting.
func (rs *runState) proxTerms() []proxFn {
	var terms []proxFn

	if rs.sparse != nil {
		terms = append(terms, func(x *grid.Cube, scale float64) error {
			return rs.sparse.apply(x, scale)
		})
	}

	if rs.opts.Mode == ModeAll || rs.opts.Mode == ModeLowRank {
		terms = append(terms, func(x *grid.Cube, scale float64) error {
			lr, err := rs.lowRankProx(x, scale*rs.lowRankThresh())
			if err != nil {
				return err
			}
			copy(x.Pix, lr.Pix)

			return nil
		})
	}

	if rs.opts.Positivity {
		terms = append(terms, func(x *grid.Cube, _ float64) error {
			Positivity(x.Pix)

			return nil
		})
	}

	if len(terms) == 0 {
		// Pure gradient descent: a single identity term.
		terms = append(terms, func(*grid.Cube, float64) error { return nil })
	}

	return terms
}
