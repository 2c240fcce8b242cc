// Package convolve provides the 2D convolution primitives used by the
// PSF deconvolution operators.
//
// All routines compute zero-padded "same" convolution: the output has
// the shape of the input, and the kernel is centered at
// ((Kh-1)/2, (Kw-1)/2). Every routine takes a rot flag selecting
// between the forward map and its exact adjoint:
//
//   - rot=false convolves with the kernel as given.
//   - rot=true applies the transposed map, i.e. convolution with the
//     180-degree rotated kernel. It is implemented as cross-correlation
//     with the original kernel so that <Convolve(x), y> == <x, Adjoint(y)>
//     holds exactly for even kernel sizes as well.
//
// Two strategies are available, mirroring the selection scheme used for
// 1D signals:
//
//   - Direct shift-and-add convolution, best for small kernels.
//   - FFT-based convolution built from row/column 1D transforms,
//     efficient for large kernels.
//
// Convolve selects between them automatically. On top of the plain 2D
// primitives the package provides the PSF-family entry points consumed
// by the gradient operators: PSFConvolve for fixed and object-variant
// kernels over map- or cube-formatted data, and PCAConvolve /
// PCAConvolveStack for pixel-variant kernels expressed as a PCA basis
// plus coefficient fields.
package convolve
