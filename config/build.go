package config

import (
	"fmt"
	"io"

	"github.com/rustyeddy/signalflow/feed"
	"github.com/rustyeddy/signalflow/indicators"
	"github.com/rustyeddy/signalflow/node"
	"github.com/rustyeddy/signalflow/stats"
)

// Pipeline is a compiled configuration: the graph universe, the named sink
// nodes requested as outputs, and the feed that must be closed when the run
// ends.
type Pipeline struct {
	Space  *node.Space
	Sinks  map[string]node.Node
	Source io.Closer
}

// Close releases the pipeline's feed.
func (p *Pipeline) Close() error {
	if p.Source == nil {
		return nil
	}
	return p.Source.Close()
}

// Build wires the configured graph. The caller owns the returned pipeline
// and must Close it.
func (c *Config) Build() (*Pipeline, error) {
	var spaceOpts []node.SpaceOption
	if c.SafeNone != nil {
		spaceOpts = append(spaceOpts, node.WithDefaultSafeNone(*c.SafeNone))
	}
	sp := node.NewSpace(spaceOpts...)

	src, err := feed.OpenCSV(c.Source.CSV, c.Source.Column)
	if err != nil {
		return nil, err
	}

	named := map[string]node.Node{
		c.Source.Name: sp.RawSource(src),
	}
	for _, ind := range c.Indicators {
		of := named[ind.Of]
		var (
			n    node.Node
			nerr error
		)
		switch ind.Type {
		case "sma":
			n, nerr = stats.NewSMA(sp, of, ind.Window)
		case "variance":
			n, nerr = stats.NewVariance(sp, of, ind.Window)
		case "min", "max", "median":
			var h *stats.Historical
			h, nerr = stats.NewHistorical(sp, of, ind.Window)
			if nerr == nil {
				switch ind.Type {
				case "min":
					n = h.Min()
				case "max":
					n = h.Max()
				default:
					n = h
				}
			}
		case "ema":
			n, nerr = indicators.NewEMA(sp, of, ind.Weight)
		case "diff":
			n = indicators.NewPrevDiff(sp, of)
		case "aging":
			n = indicators.NewAging(sp, of)
		}
		if nerr != nil {
			src.Close()
			return nil, fmt.Errorf("config: build indicator %q: %w", ind.Name, nerr)
		}
		named[ind.Name] = n
	}

	sinks := make(map[string]node.Node, len(c.Outputs))
	for _, out := range c.Outputs {
		sinks[out] = named[out]
	}
	return &Pipeline{Space: sp, Sinks: sinks, Source: src}, nil
}
