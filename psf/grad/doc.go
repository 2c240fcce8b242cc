// Package grad defines the gradient operators of the PSF deconvolution
// problem: matrix-free linear maps modeling how the instrument blurs a
// candidate image, together with their exact adjoints.
//
// Every operator satisfies the Operator contract:
//
//   - Forward applies the measurement map M.
//   - Adjoint applies the transpose Mᵗ, satisfying
//     <Forward(x), y> == <x, Adjoint(y)> within floating tolerance.
//   - Composed is exactly Adjoint(Forward(x)), never a specialized
//     shortcut, so it cannot drift from the two primitives.
//   - Gradient returns Mᵗ(Mx − y) against the bound observation y.
//
// Adjoint exactness is the invariant everything downstream depends on:
// the proximal optimization loops consuming these operators silently
// diverge or converge to the wrong image if the transpose is off even
// by a pixel of kernel centering.
//
// Three variants cover the PSF regimes:
//
//   - StandardPSF: one kernel shared by all planes (fixed) or one
//     kernel per plane (object-variant).
//   - PixelVariant: a spatially varying kernel reconstructed per pixel
//     from a PCA basis and coefficient fields.
//   - ZeroGradient: wraps any operator and forces a zero gradient, for
//     pure-regularization runs that keep the rest of the contract.
//
// Vectors cross the operator boundary as flat []float64 slices; each
// operator knows its bound shapes and wraps them into grid views
// internally. The data-fidelity operators hold a power.Estimator over
// their composed map, registered lazily at construction: the spectral
// norm is only computed when first requested, and is NOT invalidated
// if the caller mutates kernel data afterwards (call
// Estimator().Recompute() in that case).
package grad
