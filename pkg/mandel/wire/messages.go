// Package wire defines the two messages exchanged between the scheduler and
// its workers and their binary frame encoding.
package wire

import (
	"fmt"
	"time"
)

type Directive uint8

const (
	Continue Directive = iota
	Stop
)

func (d Directive) String() string {
	switch d {
	case Continue:
		return "CONTINUE"
	case Stop:
		return "STOP"
	default:
		return fmt.Sprintf("Directive(%d)", uint8(d))
	}
}

// RowRequest is sent scheduler -> worker. A Stop request repeats the last
// dispatched index; the worker only looks at the directive.
type RowRequest struct {
	RowIndex  int32
	Directive Directive
}

// RowResult is sent worker -> scheduler.
type RowResult struct {
	RowIndex int32
	Values   []float32
}

// Envelope is a decoded RowResult together with the identity of the worker
// that sent it and the time it was received.
type Envelope struct {
	Source     int
	Result     RowResult
	ReceivedAt time.Time
}
