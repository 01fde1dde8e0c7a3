// Package master implements the scheduler side of the row protocol.
//
// The scheduler owns the image and an integer cursor over unassigned rows.
// It hands the first K rows to the K workers, then reacts to every result:
// record the row under its embedded index, and answer the worker that sent
// it with either the next row (CONTINUE) or a STOP. All decisions are made
// by one goroutine, so each row is dispatched and recorded exactly once.
//
// For W rows and K workers a run sends exactly W CONTINUE requests and K STOP
// requests, and receives exactly W results.
package master
