package master

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ib-77/mandel/pkg/mandel"
	"github.com/ib-77/mandel/pkg/mandel/grid"
	"github.com/ib-77/mandel/pkg/mandel/wire"
)

type State int

const (
	Idle State = iota
	DispatchingInitial
	AwaitingResults
	DispatchingNext
	Assembling
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case DispatchingInitial:
		return "dispatching-initial"
	case AwaitingResults:
		return "awaiting-results"
	case DispatchingNext:
		return "dispatching-next"
	case Assembling:
		return "assembling"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Link is the scheduler's end of the transport. *core.MasterEnd implements
// it. Workers are addressed 1..Workers().
type Link interface {
	Workers() int
	Send(ctx context.Context, worker int, req wire.RowRequest) error
	Receive(ctx context.Context) (wire.Envelope, error)
}

type Report struct {
	RunID   uuid.UUID
	Width   int
	Height  int
	Workers int

	Continues int
	Stops     int
	Results   int

	RowsByWorker  map[int]int
	StopsByWorker map[int]int

	Started time.Time
	Elapsed time.Duration
}

const unassigned = -1

type Scheduler struct {
	link   Link
	width  int
	height int

	state       State
	image       *grid.Image
	next        int
	last        int32
	outstanding []int
	report      Report
}

func New(link Link, width, height int, runID uuid.UUID) *Scheduler {
	return &Scheduler{
		link:   link,
		width:  width,
		height: height,
		report: Report{
			RunID:         runID,
			Width:         width,
			Height:        height,
			Workers:       link.Workers(),
			RowsByWorker:  make(map[int]int),
			StopsByWorker: make(map[int]int),
		},
	}
}

func (s *Scheduler) State() State { return s.state }

// Run drives the whole protocol. On success the returned image is complete
// and the scheduler no longer references it.
func (s *Scheduler) Run(ctx context.Context) (*grid.Image, Report, error) {
	log := mandel.Logger().With("run", s.report.RunID)
	s.report.Started = time.Now().UTC()

	k := s.link.Workers()
	if k < 1 {
		return nil, s.finish(), mandel.Invalidf("scheduler needs at least one worker")
	}

	s.state = DispatchingInitial
	s.image = grid.New(s.width, s.height)
	s.outstanding = make([]int, k+1)

	log.Info("render started", "width", s.width, "height", s.height, "workers", k)

	for w := 1; w <= k; w++ {
		s.outstanding[w] = unassigned
		if s.next < s.width {
			if err := s.dispatch(ctx, w, int32(s.next)); err != nil {
				return nil, s.finish(), err
			}
			s.next++
			continue
		}
		// more workers than rows: this one will never get work
		if err := s.stop(ctx, w); err != nil {
			return nil, s.finish(), err
		}
	}

	for !s.image.Complete() {
		s.state = AwaitingResults
		env, err := s.link.Receive(ctx)
		if err != nil {
			return nil, s.finish(), err
		}
		s.record(env)

		s.state = DispatchingNext
		if s.next < s.width {
			err = s.dispatch(ctx, env.Source, int32(s.next))
			s.next++
		} else {
			err = s.stop(ctx, env.Source)
		}
		if err != nil {
			return nil, s.finish(), err
		}
	}

	s.state = Assembling
	img := s.image
	s.image = nil
	report := s.finish()
	s.state = Done

	log.Info("render finished", "rows", report.Results, "elapsed", report.Elapsed)
	return img, report, nil
}

func (s *Scheduler) record(env wire.Envelope) {
	w := env.Source
	if w < 1 || w >= len(s.outstanding) {
		mandel.Violate("result from unknown worker %d", w)
	}
	i := int(env.Result.RowIndex)
	if s.outstanding[w] != i {
		mandel.Violate("worker %d reported row %d but was assigned %d", w, i, s.outstanding[w])
	}
	s.image.Record(i, env.Result.Values)
	s.outstanding[w] = unassigned

	s.report.Results++
	s.report.RowsByWorker[w]++
	mandel.Logger().Debug("row recorded", "run", s.report.RunID, "worker", w, "row", i,
		"completed", s.image.Recorded())
}

func (s *Scheduler) dispatch(ctx context.Context, w int, i int32) error {
	if err := s.link.Send(ctx, w, wire.RowRequest{RowIndex: i, Directive: wire.Continue}); err != nil {
		return err
	}
	s.outstanding[w] = int(i)
	s.last = i
	s.report.Continues++
	return nil
}

// stop repeats the last dispatched index; workers only read the directive.
func (s *Scheduler) stop(ctx context.Context, w int) error {
	if err := s.link.Send(ctx, w, wire.RowRequest{RowIndex: s.last, Directive: wire.Stop}); err != nil {
		return err
	}
	s.report.Stops++
	s.report.StopsByWorker[w]++
	return nil
}

func (s *Scheduler) finish() Report {
	s.report.Elapsed = time.Since(s.report.Started)
	return s.report
}
