// Package deconv drives PSF deconvolution runs: it selects and builds
// the gradient operator from a configuration, sizes the gradient step
// from the operator's spectral norm, and iterates one of three
// proximal-splitting methods until the iteration budget is spent.
//
// The configuration is a flat Options struct: the
// optimization mode picks which regularization terms combine with the
// data-fidelity gradient (all, sparse, lowr, grad), the method picks
// the outer algorithm (condat, fwbw, gfwbw), and the remaining knobs
// tune wavelet levels and thresholds, the low-rank threshold,
// reweighting, iteration count, relaxation, positivity and the noise
// estimate. All tags are validated up front; an invalid configuration
// never produces a partially usable run.
//
//	opts := deconv.DefaultOptions()
//	opts.Mode = deconv.ModeSparse
//	res, err := deconv.Deconvolve(data, psf, opts)
package deconv
