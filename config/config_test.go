package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/signalflow/config"
	"github.com/rustyeddy/signalflow/node"
	"github.com/rustyeddy/signalflow/orchestrate"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "pipeline.yaml", `
source:
  csv: prices.csv
indicators:
  - name: fast
    type: sma
    window: 5
  - name: smooth
    type: ema
    of: fast
    weight: 0.3
outputs: [price, fast, smooth]
journal:
  type: sqlite
  db_path: out.db
`)

	cfg, err := config.LoadFromFile(path)
	require.NoError(t, err)

	// Defaults fill in the source name, column and derivation targets.
	assert.Equal(t, "price", cfg.Source.Name)
	assert.Equal(t, "close", cfg.Source.Column)
	require.Len(t, cfg.Indicators, 2)
	assert.Equal(t, "price", cfg.Indicators[0].Of)
	assert.Equal(t, "fast", cfg.Indicators[1].Of)
	assert.Equal(t, "sqlite", cfg.Journal.Type)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "pipeline.json", `{
  "source": {"csv": "prices.csv", "column": "open"},
  "indicators": [{"name": "m", "type": "median", "window": 3}],
  "outputs": ["m"]
}`)

	cfg, err := config.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "open", cfg.Source.Column)
	assert.Equal(t, "median", cfg.Indicators[0].Type)
}

func TestValidate(t *testing.T) {
	base := func() *config.Config {
		return &config.Config{
			Source:  config.SourceConfig{Name: "price", CSV: "p.csv", Column: "close"},
			Outputs: []string{"price"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"missing csv", func(c *config.Config) { c.Source.CSV = "" }},
		{"no outputs", func(c *config.Config) { c.Outputs = nil }},
		{"unknown output", func(c *config.Config) { c.Outputs = []string{"ghost"} }},
		{"empty indicator name", func(c *config.Config) {
			c.Indicators = []config.IndicatorConfig{{Type: "sma", Of: "price", Window: 3}}
		}},
		{"duplicate name", func(c *config.Config) {
			c.Indicators = []config.IndicatorConfig{{Name: "price", Type: "sma", Of: "price", Window: 3}}
		}},
		{"unknown derivation", func(c *config.Config) {
			c.Indicators = []config.IndicatorConfig{{Name: "a", Type: "sma", Of: "ghost", Window: 3}}
		}},
		{"bad window", func(c *config.Config) {
			c.Indicators = []config.IndicatorConfig{{Name: "a", Type: "sma", Of: "price"}}
		}},
		{"bad weight", func(c *config.Config) {
			c.Indicators = []config.IndicatorConfig{{Name: "a", Type: "ema", Of: "price", Weight: 2}}
		}},
		{"unknown type", func(c *config.Config) {
			c.Indicators = []config.IndicatorConfig{{Name: "a", Type: "rsi", Of: "price", Window: 3}}
		}},
		{"unknown journal", func(c *config.Config) { c.Journal.Type = "kafka" }},
		{"sqlite without path", func(c *config.Config) { c.Journal.Type = "sqlite" }},
		{"csv without file", func(c *config.Config) { c.Journal.Type = "csv" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, base().Validate())
}

func TestBuildAndRun(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "prices.csv")
	require.NoError(t, os.WriteFile(csvPath,
		[]byte("time,close\n1,2\n2,3\n3,5\n4,8\n5,13\n6,\n7,21\n"), 0o644))

	cfgPath := filepath.Join(dir, "pipeline.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
source:
  csv: `+csvPath+`
indicators:
  - name: avg
    type: sma
    window: 3
outputs: [price, avg]
`), 0o644))

	cfg, err := config.LoadFromFile(cfgPath)
	require.NoError(t, err)

	pipeline, err := cfg.Build()
	require.NoError(t, err)
	defer pipeline.Close()
	require.Contains(t, pipeline.Sinks, "price")
	require.Contains(t, pipeline.Sinks, "avg")

	session, err := orchestrate.New(pipeline.Sinks)
	require.NoError(t, err)

	var avgs []node.Value
	err = session.Run(context.Background(), func(rec orchestrate.Record) error {
		avgs = append(avgs, rec["avg"])
		return nil
	})
	require.NoError(t, err)

	require.Len(t, avgs, 7)
	assert.Equal(t, node.Some(2), avgs[0])
	assert.InDelta(t, 16.0/3, avgs[3].F, 1e-9)
	assert.Equal(t, node.Some(10.5), avgs[5])
	assert.Equal(t, node.Some(17), avgs[6])
}

func TestBuildBadIndicator(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "prices.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("time,close\n1,2\n"), 0o644))

	cfg := &config.Config{
		Source:  config.SourceConfig{Name: "price", CSV: csvPath, Column: "close"},
		Outputs: []string{"price"},
	}
	require.NoError(t, cfg.Validate())

	// Validation passed, but the weight is rejected at wiring time.
	cfg.Indicators = []config.IndicatorConfig{
		{Name: "e", Type: "ema", Of: "price", Weight: 0},
	}
	_, err := cfg.Build()
	assert.Error(t, err)
}
