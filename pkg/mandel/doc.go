// Package mandel holds what the renderer's packages share: the error
// taxonomy (configuration errors are returned, protocol violations panic)
// and the package-level structured logger.
//
// The work itself lives in the sub-packages: plane maps pixels to complex
// points, escape colors one point, row colors one row, worker and master run
// the pull-based row protocol over the core star transport, grid is the
// image the master fills, export persists it and render wires a full run.
package mandel
