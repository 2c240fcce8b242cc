// Package imstats provides the image statistics used to calibrate
// deconvolution thresholds: mean, standard deviation, median and the
// MAD-based noise sigma estimate.
package imstats

import (
	"math"
	"sort"
)

// Mean returns the arithmetic mean of x, 0 for an empty slice.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	var sum float64
	for _, v := range x {
		sum += v
	}

	return sum / float64(len(x))
}

// StdDev returns the population standard deviation of x using
// Welford's online algorithm for numerical stability.
func StdDev(x []float64) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}

	var mean, m2 float64
	for i, v := range x {
		delta := v - mean
		mean += delta / float64(i+1)
		m2 += delta * (v - mean)
	}

	return math.Sqrt(m2 / float64(n))
}

// Median returns the median of x, 0 for an empty slice. The input is
// not modified.
func Median(x []float64) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, x)
	sort.Float64s(sorted)

	if n%2 == 1 {
		return sorted[n/2]
	}

	return 0.5 * (sorted[n/2-1] + sorted[n/2])
}

// MAD returns the median absolute deviation from the median.
func MAD(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	med := Median(x)
	dev := make([]float64, len(x))
	for i, v := range x {
		dev[i] = math.Abs(v - med)
	}

	return Median(dev)
}

// SigmaMAD returns the robust noise standard deviation estimate
// 1.4826 * MAD, the consistency constant for Gaussian noise. This is
// the default noise estimate when no explicit one is configured.
func SigmaMAD(x []float64) float64 {
	return 1.4826 * MAD(x)
}
