package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ib-77/mandel/pkg/mandel"
	"github.com/ib-77/mandel/pkg/mandel/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStar(t *testing.T, workers int, c wire.Compression) *Star {
	t.Helper()
	codec, err := wire.NewCodec(c)
	require.NoError(t, err)
	t.Cleanup(codec.Close)
	return NewStar(workers, codec)
}

func TestStar_SendIsRendezvous(t *testing.T) {
	t.Parallel()

	s := newStar(t, 1, wire.CompressionNone)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// nobody is receiving on worker 1
	err := s.Master().Send(ctx, 1, wire.RowRequest{RowIndex: 0})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, mandel.IsCancellationError(err))
	assert.Zero(t, s.Stats().Continues)
}

func TestStar_ReceiveFromAnyWorker(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	s := newStar(t, 3, wire.CompressionZstd)

	var wg sync.WaitGroup
	for id := 1; id <= s.Workers(); id++ {
		id := id
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := s.Worker(id)
			req, err := w.Receive(ctx)
			if !assert.NoError(t, err) {
				return
			}
			assert.Equal(t, wire.Continue, req.Directive)
			assert.NoError(t, w.Send(ctx, wire.RowResult{RowIndex: req.RowIndex, Values: []float32{float32(w.ID())}}))
		}()
	}

	m := s.Master()
	for id := 1; id <= m.Workers(); id++ {
		require.NoError(t, m.Send(ctx, id, wire.RowRequest{RowIndex: int32(10 * id), Directive: wire.Continue}))
	}

	seen := map[int]int32{}
	for i := 0; i < m.Workers(); i++ {
		env, err := m.Receive(ctx)
		require.NoError(t, err)
		seen[env.Source] = env.Result.RowIndex
		assert.Equal(t, []float32{float32(env.Source)}, env.Result.Values)
	}
	wg.Wait()

	assert.Equal(t, map[int]int32{1: 10, 2: 20, 3: 30}, seen)
	assert.Equal(t, Stats{Continues: 3, Results: 3}, s.Stats())
}

func TestStar_CountsStops(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	s := newStar(t, 1, wire.CompressionNone)
	done := make(chan wire.RowRequest)
	go func() {
		req, _ := s.Worker(1).Receive(ctx)
		done <- req
	}()

	require.NoError(t, s.Master().Send(ctx, 1, wire.RowRequest{RowIndex: 4, Directive: wire.Stop}))
	assert.Equal(t, wire.RowRequest{RowIndex: 4, Directive: wire.Stop}, <-done)
	assert.Equal(t, Stats{Stops: 1}, s.Stats())
}

func TestStar_WorkerIDs(t *testing.T) {
	t.Parallel()

	s := newStar(t, 2, wire.CompressionNone)
	assert.Panics(t, func() { s.Worker(MasterID) })
	assert.Panics(t, func() { s.Worker(3) })
	assert.Equal(t, 2, s.Worker(2).ID())
}

func TestOptions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assert.Equal(t, 4, GetProcessCount(ctx, 4))
	assert.Equal(t, wire.CompressionNone, GetCompression(ctx, wire.CompressionNone))

	ctx = WithCompression(WithProcesses(ctx, 3), wire.CompressionZstd)
	assert.Equal(t, 3, GetProcessCount(ctx, 4))
	assert.Equal(t, wire.CompressionZstd, GetCompression(ctx, wire.CompressionNone))
}
