package deconv

import (
	"github.com/cwbudde/algo-psf/psf/grad"
	"github.com/cwbudde/algo-psf/psf/grid"
)

// forwardBackwardMethod iterates plain forward-backward splitting:
// a gradient step of size 1/beta followed by the mode's proximity
// operators, with relaxed updates.
func forwardBackwardMethod(op grad.Operator, rs *runState) func(x *grid.Cube) (int, error) {
	tau := rs.stepSize()

	return func(x *grid.Cube) (int, error) {
		cand := grid.NewCube(x.Width, x.Height, x.Planes)

		for it := 0; it < rs.opts.NIter; it++ {
			g, err := op.Gradient(x.Pix)
			if err != nil {
				return it, err
			}

			copy(cand.Pix, x.Pix)
			axpy(cand.Pix, g, -tau)

			if err := rs.proxPrimal(cand, tau); err != nil {
				return it, err
			}

			relaxInto(x.Pix, cand.Pix, rs.opts.Relax)
		}

		return rs.opts.NIter, nil
	}
}
