// Package wavelet implements the starlet transform (isotropic
// undecimated wavelet transform) used by the sparse regularization
// stage of PSF deconvolution.
//
// Decompose splits an image into per-level detail planes plus a final
// coarse plane by repeated smoothing with a dilated B3-spline kernel;
// each detail plane is the difference between successive smoothings,
// so Reconstruct is the plain sum of all planes and the round trip is
// exact to floating precision. Astronomical sources are sparse in this
// dictionary, which is what soft-thresholding the detail planes
// exploits.
package wavelet
