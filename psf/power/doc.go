// Package power estimates the spectral norm of a self-adjoint linear
// map by power iteration.
//
// The map is supplied as a callable over flat []float64 vectors, which
// is how the gradient operators expose their composed forward-adjoint
// map. The dominant eigenvalue of that composed map is the squared
// Lipschitz constant sizing gradient step lengths in the optimization
// loops.
//
// The estimate is computed lazily: New registers the map without
// running it, Norm computes on first request and caches, and Recompute
// forces a fresh run. There is no implicit invalidation: a caller that
// mutates the underlying kernel data after construction owns calling
// Recompute, otherwise the cached value is stale.
package power
