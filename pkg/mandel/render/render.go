// Package render wires a complete run: it checks the process topology,
// builds the plane and the evaluator, starts the workers and the scheduler
// over a core.Star, and hands the finished image to an Exporter.
package render

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/ib-77/mandel/pkg/mandel"
	"github.com/ib-77/mandel/pkg/mandel/core"
	"github.com/ib-77/mandel/pkg/mandel/escape"
	"github.com/ib-77/mandel/pkg/mandel/grid"
	"github.com/ib-77/mandel/pkg/mandel/master"
	"github.com/ib-77/mandel/pkg/mandel/plane"
	"github.com/ib-77/mandel/pkg/mandel/row"
	"github.com/ib-77/mandel/pkg/mandel/wire"
	"github.com/ib-77/mandel/pkg/mandel/worker"
)

// Exporter receives the completed image exactly once per successful run.
type Exporter interface {
	Export(ctx context.Context, img *grid.Image) error
}

// Computer builds the row computer described by cfg.
func Computer(cfg Config) (*row.Computer, error) {
	p, err := plane.New(cfg.Plane.XLimit, cfg.Plane.YLimit, cfg.Plane.Step)
	if err != nil {
		return nil, err
	}
	params, err := cfg.EscapeParams()
	if err != nil {
		return nil, err
	}
	eval, err := escape.New(params)
	if err != nil {
		return nil, err
	}
	return row.NewComputer(p, eval), nil
}

// Run renders the plane described by cfg with cfg.Processes-1 workers. A
// launched process count (core.GetProcessCount) other than cfg.Processes
// aborts the run before any row is computed.
func Run(ctx context.Context, cfg Config, exp Exporter) (master.Report, error) {
	log := mandel.Logger()

	expected := cfg.Processes
	actual := core.GetProcessCount(ctx, expected)
	if expected != actual {
		err := mandel.ProcessMismatch(expected, actual)
		log.Error("topology mismatch", "expected", expected, "actual", actual)
		return master.Report{}, err
	}
	if expected < 2 {
		return master.Report{}, mandel.Invalidf("need a scheduler and at least one worker, got %d processes", expected)
	}

	computer, err := Computer(cfg)
	if err != nil {
		return master.Report{}, err
	}
	compression, err := wire.ParseCompression(cfg.Compression)
	if err != nil {
		return master.Report{}, mandel.Invalidf("%v", err)
	}
	codec, err := wire.NewCodec(core.GetCompression(ctx, compression))
	if err != nil {
		return master.Report{}, err
	}
	defer codec.Close()

	if err := ctx.Err(); err != nil {
		return master.Report{}, err
	}

	star := core.NewStar(actual-1, codec)
	runID := uuid.New()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for id := 1; id <= star.Workers(); id++ {
		id := id
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := worker.Run(ctx, star.Worker(id), computer, cfg.OnRow); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("worker %d: %w", id, err))
				mu.Unlock()
			}
		}()
	}

	p := computer.Plane()
	img, report, err := master.New(star.Master(), p.Width(), p.Height(), runID).Run(ctx)
	if err != nil {
		cancel()
		wg.Wait()
		return report, err
	}
	wg.Wait()
	if err := errors.Join(errs...); err != nil {
		return report, err
	}

	if err := exp.Export(ctx, img); err != nil {
		return report, fmt.Errorf("export: %w", err)
	}
	return report, nil
}

// Sequential computes the same image on the calling goroutine, row by row.
func Sequential(cfg Config) (*grid.Image, error) {
	computer, err := Computer(cfg)
	if err != nil {
		return nil, err
	}
	p := computer.Plane()
	img := grid.New(p.Width(), p.Height())
	for i := 0; i < p.Width(); i++ {
		img.Record(i, computer.Compute(i))
	}
	return img, nil
}
