package deconv

import (
	"math"

	"github.com/cwbudde/algo-psf/psf/grid"
	"github.com/cwbudde/algo-psf/psf/wavelet"
)

// Positivity projects x onto the non-negative orthant in place.
func Positivity(x []float64) {
	for i, v := range x {
		if v < 0 {
			x[i] = 0
		}
	}
}

// SoftThreshold shrinks every element of x toward zero by thresh in
// place.
func SoftThreshold(x []float64, thresh float64) {
	for i, v := range x {
		switch {
		case v > thresh:
			x[i] = v - thresh
		case v < -thresh:
			x[i] = v + thresh
		default:
			x[i] = 0
		}
	}
}

// HardThreshold zeroes every element of x not exceeding thresh in
// magnitude, in place.
func HardThreshold(x []float64, thresh float64) {
	for i, v := range x {
		if math.Abs(v) <= thresh {
			x[i] = 0
		}
	}
}

// softThresholdWeighted shrinks element-wise with per-coefficient
// weights scaled by mult.
func softThresholdWeighted(x, weights []float64, mult float64) {
	for i, v := range x {
		t := weights[i] * mult
		switch {
		case v > t:
			x[i] = v - t
		case v < -t:
			x[i] = v + t
		default:
			x[i] = 0
		}
	}
}

// sparseThresholder applies weighted soft thresholding in the wavelet
// detail domain, one weight field per plane and level. Weights start
// at factor[level] * sigma everywhere and tighten around significant
// coefficients on reweighting.
type sparseThresholder struct {
	levels  int
	base    []*grid.Map // original thresholds, [plane*levels+level]
	weights []*grid.Map // current thresholds, same indexing
}

func newSparseThresholder(width, height, planes int, opts Options, sigma float64) *sparseThresholder {
	s := &sparseThresholder{
		levels:  opts.WaveletLevels,
		base:    make([]*grid.Map, planes*opts.WaveletLevels),
		weights: make([]*grid.Map, planes*opts.WaveletLevels),
	}

	for p := 0; p < planes; p++ {
		for j := 0; j < opts.WaveletLevels; j++ {
			w := grid.NewMap(width, height)
			w.Fill(opts.waveFactor(j) * sigma)
			s.base[p*opts.WaveletLevels+j] = w
			s.weights[p*opts.WaveletLevels+j] = w.Clone()
		}
	}

	return s
}

// apply soft-thresholds the detail scales of every plane of x in
// place, with thresholds scaled by mult.
func (s *sparseThresholder) apply(x *grid.Cube, mult float64) error {
	for p := 0; p < x.Planes; p++ {
		scales, err := wavelet.Decompose(x.Plane(p), s.levels)
		if err != nil {
			return err
		}

		for j := 0; j < s.levels; j++ {
			softThresholdWeighted(scales[j].Pix, s.weights[p*s.levels+j].Pix, mult)
		}

		rec, err := wavelet.Reconstruct(scales)
		if err != nil {
			return err
		}
		copy(x.Plane(p).Pix, rec.Pix)
	}

	return nil
}

// reweight tightens the thresholds around the current solution's
// significant wavelet coefficients:
//
//	w <- w0 / (1 + |Wx| / w0)
//
// so that strong features are penalized less on the next pass.
func (s *sparseThresholder) reweight(x *grid.Cube) error {
	for p := 0; p < x.Planes; p++ {
		scales, err := wavelet.Decompose(x.Plane(p), s.levels)
		if err != nil {
			return err
		}

		for j := 0; j < s.levels; j++ {
			base := s.base[p*s.levels+j].Pix
			cur := s.weights[p*s.levels+j].Pix
			coef := scales[j].Pix

			for i := range cur {
				if base[i] == 0 {
					cur[i] = 0

					continue
				}
				cur[i] = base[i] / (1 + math.Abs(coef[i])/base[i])
			}
		}
	}

	return nil
}
