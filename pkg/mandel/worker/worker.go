// Package worker runs the worker side of the row protocol: wait for an
// assignment, color the row, report it, repeat until told to stop.
package worker

import (
	"context"
	"time"

	"github.com/ib-77/mandel/pkg/mandel"
	"github.com/ib-77/mandel/pkg/mandel/row"
	"github.com/ib-77/mandel/pkg/mandel/wire"
)

// Link is the worker's end of the transport. *core.WorkerEnd implements it.
type Link interface {
	ID() int
	Receive(ctx context.Context) (wire.RowRequest, error)
	Send(ctx context.Context, res wire.RowResult) error
}

type Stats struct {
	ID   int
	Rows int
	Busy time.Duration
}

// Run serves assignments until a STOP arrives, in which case it returns a
// nil error, or until ctx is done or the link fails. onSuccess, if not nil,
// is called after each result has been accepted by the scheduler.
func Run(ctx context.Context, link Link, computer *row.Computer,
	onSuccess func(ctx context.Context, res wire.RowResult)) (Stats, error) {

	stats := Stats{ID: link.ID()}
	log := mandel.Logger().With("worker", link.ID())
	width := computer.Plane().Width()

	for {
		req, err := link.Receive(ctx)
		if err != nil {
			return stats, err
		}

		switch req.Directive {
		case wire.Stop:
			log.Info("worker stopped", "rows", stats.Rows, "busy", stats.Busy)
			return stats, nil
		case wire.Continue:
		default:
			mandel.Violate("worker %d got directive %v", link.ID(), req.Directive)
		}

		i := int(req.RowIndex)
		if i < 0 || i >= width {
			mandel.Violate("worker %d assigned row %d outside [0,%d)", link.ID(), i, width)
		}

		start := time.Now()
		res := wire.RowResult{RowIndex: req.RowIndex, Values: computer.Compute(i)}
		stats.Busy += time.Since(start)

		if err := link.Send(ctx, res); err != nil {
			return stats, err
		}
		stats.Rows++
		log.Debug("row reported", "row", i)

		if onSuccess != nil {
			onSuccess(ctx, res)
		}
	}
}
