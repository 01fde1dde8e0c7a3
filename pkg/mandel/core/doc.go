// Package core contains the message plumbing between the scheduler and its
// workers: a star of rendezvous channels carrying encoded frames, and the
// launch options (process count, frame compression) that travel in the
// context. It does not know what a row means; master and worker give the
// messages their semantics.
package core
