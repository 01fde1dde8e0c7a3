package core

import (
	"context"

	"github.com/ib-77/mandel/pkg/mandel/wire"
)

type OptionKey string

const (
	ProcessOptionKey   OptionKey = "process_options"
	TransportOptionKey OptionKey = "transport_options"
)

// ProcessOptions describes what the launcher actually started, scheduler
// included.
type ProcessOptions struct {
	Count int
}

type TransportOptions struct {
	Compression wire.Compression
}

func WithProcesses(ctx context.Context, count int) context.Context {
	return context.WithValue(ctx, ProcessOptionKey, ProcessOptions{Count: count})
}

func WithCompression(ctx context.Context, c wire.Compression) context.Context {
	return context.WithValue(ctx, TransportOptionKey, TransportOptions{Compression: c})
}

func GetProcessCount(ctx context.Context, defaultCount int) int {
	options, ok := ctx.Value(ProcessOptionKey).(ProcessOptions)
	if ok {
		return options.Count
	}
	return defaultCount
}

func GetCompression(ctx context.Context, defaultCompression wire.Compression) wire.Compression {
	options, ok := ctx.Value(TransportOptionKey).(TransportOptions)
	if ok {
		return options.Compression
	}
	return defaultCompression
}
