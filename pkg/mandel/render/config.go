package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ib-77/mandel/pkg/mandel/escape"
	"github.com/ib-77/mandel/pkg/mandel/export"
	"github.com/ib-77/mandel/pkg/mandel/wire"
	"gopkg.in/yaml.v3"
)

type PlaneConfig struct {
	XLimit float64 `yaml:"x_limit"`
	YLimit float64 `yaml:"y_limit"`
	Step   float64 `yaml:"step"`
}

type EscapeConfig struct {
	Limit    int     `yaml:"limit"`
	Radius   float64 `yaml:"radius"`
	Extra    int     `yaml:"extra"`
	Coloring string  `yaml:"coloring"`
}

type OutputConfig struct {
	Path   string `yaml:"path"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Scaler string `yaml:"scaler"`
}

type Config struct {
	Plane  PlaneConfig  `yaml:"plane"`
	Escape EscapeConfig `yaml:"escape"`

	// Processes is the fixed topology the run is built for: one scheduler
	// plus Processes-1 workers. The launched count comes from the context
	// (core.WithProcesses) and must match.
	Processes int `yaml:"processes"`

	Compression string       `yaml:"compression"`
	Output      OutputConfig `yaml:"output"`

	// OnRow, if set, is called by a worker after each row it reported.
	OnRow func(ctx context.Context, res wire.RowResult) `yaml:"-"`
}

func Default() Config {
	return Config{
		Plane: PlaneConfig{
			XLimit: escape.DefaultRadius,
			YLimit: escape.DefaultRadius,
			Step:   0.001,
		},
		Escape: EscapeConfig{
			Limit:    escape.DefaultLimit,
			Radius:   escape.DefaultRadius,
			Extra:    escape.DefaultExtra,
			Coloring: escape.Continuous.String(),
		},
		Processes:   4,
		Compression: wire.CompressionNone.String(),
		Output: OutputConfig{
			Path:   export.DefaultPath,
			Width:  export.DefaultWidth,
			Height: export.DefaultHeight,
			Scaler: "nearest",
		},
	}
}

// LoadConfig overlays YAML from r onto Default. Unknown keys are rejected.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return LoadConfig(f)
}

func (c Config) EscapeParams() (escape.Params, error) {
	mode, err := escape.ParseMode(c.Escape.Coloring)
	if err != nil {
		return escape.Params{}, err
	}
	return escape.Params{
		Limit:  c.Escape.Limit,
		Radius: c.Escape.Radius,
		Extra:  c.Escape.Extra,
		Mode:   mode,
	}, nil
}

// PNGExporter builds the file exporter described by the output section.
func (c Config) PNGExporter() (export.PNG, error) {
	scaler, err := export.ParseScaler(c.Output.Scaler)
	if err != nil {
		return export.PNG{}, err
	}
	return export.PNG{
		Path:   c.Output.Path,
		Width:  c.Output.Width,
		Height: c.Output.Height,
		Scaler: scaler,
	}, nil
}
