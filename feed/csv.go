// Package feed adapts external data to raw-source sequences.
package feed

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rustyeddy/signalflow/node"
)

// CSV yields one numeric column of a CSV file as a sequence of samples.
// Empty or unparseable cells yield missing samples; the stream ends at EOF.
// Read errors surface through Err after the sequence reports exhaustion.
type CSV struct {
	f   *os.File
	r   *csv.Reader
	col int
	err error
}

// OpenCSV opens path and locates column by header name.
func OpenCSV(path, column string) (*CSV, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r := csv.NewReader(f)
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("feed: read header of %s: %w", path, err)
	}
	col := -1
	for i, name := range header {
		if name == column {
			col = i
			break
		}
	}
	if col < 0 {
		f.Close()
		return nil, fmt.Errorf("feed: column %q not found in %s", column, path)
	}
	return &CSV{f: f, r: r, col: col}, nil
}

func (c *CSV) Next() (node.Value, bool) {
	if c.err != nil {
		return node.None, false
	}
	rec, err := c.r.Read()
	if err != nil {
		if err != io.EOF {
			c.err = err
		}
		return node.None, false
	}
	if c.col >= len(rec) {
		return node.None, true
	}
	f, err := strconv.ParseFloat(rec[c.col], 64)
	if err != nil {
		return node.None, true
	}
	return node.Some(f), true
}

// Err reports the first read error encountered, if any.
func (c *CSV) Err() error { return c.err }

func (c *CSV) Close() error { return c.f.Close() }
