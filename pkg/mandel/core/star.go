package core

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ib-77/mandel/pkg/mandel"
	"github.com/ib-77/mandel/pkg/mandel/wire"
)

// MasterID is the identity reserved for the scheduler. Workers are 1..K.
const MasterID = 0

type packet struct {
	source int
	frame  []byte
}

// Star connects one scheduler to K workers. Every link is an unbuffered
// channel, so a send completes only once the peer has received it. All
// workers share one result channel, which gives the scheduler its
// receive-from-any-worker primitive. Messages cross as encoded frames; the
// two sides never share memory.
type Star struct {
	codec    *wire.Codec
	requests []chan []byte
	results  chan packet
	stats    counters
}

type counters struct {
	continues atomic.Int64
	stops     atomic.Int64
	results   atomic.Int64
}

// Stats counts the frames that went through the star.
type Stats struct {
	Continues int
	Stops     int
	Results   int
}

func NewStar(workers int, codec *wire.Codec) *Star {
	s := &Star{
		codec:    codec,
		requests: make([]chan []byte, workers),
		results:  make(chan packet),
	}
	for k := range s.requests {
		s.requests[k] = make(chan []byte)
	}
	return s
}

func (s *Star) Workers() int { return len(s.requests) }

func (s *Star) Master() *MasterEnd { return &MasterEnd{star: s} }

// Worker returns the end of worker id, 1 <= id <= Workers().
func (s *Star) Worker(id int) *WorkerEnd {
	if id <= MasterID || id > len(s.requests) {
		panic(fmt.Sprintf("worker id %d outside [1,%d]", id, len(s.requests)))
	}
	return &WorkerEnd{id: id, star: s}
}

func (s *Star) Stats() Stats {
	return Stats{
		Continues: int(s.stats.continues.Load()),
		Stops:     int(s.stats.stops.Load()),
		Results:   int(s.stats.results.Load()),
	}
}

type MasterEnd struct {
	star *Star
}

func (m *MasterEnd) Workers() int { return m.star.Workers() }

// Send blocks until worker accepts req or ctx is done.
func (m *MasterEnd) Send(ctx context.Context, worker int, req wire.RowRequest) error {
	ch := m.star.requests[worker-1]
	frame := m.star.codec.EncodeRequest(req)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case ch <- frame:
		if req.Directive == wire.Stop {
			m.star.stats.stops.Add(1)
		} else {
			m.star.stats.continues.Add(1)
		}
		return nil
	}
}

// Receive blocks until any worker reports. An undecodable frame is a
// protocol violation.
func (m *MasterEnd) Receive(ctx context.Context) (wire.Envelope, error) {
	select {
	case <-ctx.Done():
		return wire.Envelope{}, ctx.Err()
	case p := <-m.star.results:
		res, err := m.star.codec.DecodeResult(p.frame)
		if err != nil {
			mandel.Violate("worker %d sent %v", p.source, err)
		}
		m.star.stats.results.Add(1)
		return wire.Envelope{Source: p.source, Result: res, ReceivedAt: time.Now().UTC()}, nil
	}
}

type WorkerEnd struct {
	id   int
	star *Star
}

func (w *WorkerEnd) ID() int { return w.id }

// Receive blocks until the scheduler sends the next assignment. An
// undecodable frame is a protocol violation.
func (w *WorkerEnd) Receive(ctx context.Context) (wire.RowRequest, error) {
	select {
	case <-ctx.Done():
		return wire.RowRequest{}, ctx.Err()
	case frame := <-w.star.requests[w.id-1]:
		req, err := w.star.codec.DecodeRequest(frame)
		if err != nil {
			mandel.Violate("worker %d received %v", w.id, err)
		}
		return req, nil
	}
}

func (w *WorkerEnd) Send(ctx context.Context, res wire.RowResult) error {
	p := packet{source: w.id, frame: w.star.codec.EncodeResult(res)}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case w.star.results <- p:
		return nil
	}
}
