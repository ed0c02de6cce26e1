package journal

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/rustyeddy/signalflow/orchestrate"
)

// CSV journals tick records into a CSV file with a fixed column order:
// tick, then every sink name given at construction. Missing samples are
// written as empty cells.
type CSV struct {
	w     *csv.Writer
	f     *os.File
	names []string
	row   []string
}

func NewCSV(path string, names []string) (*CSV, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := csv.NewWriter(f)

	header := append([]string{"tick"}, names...)
	if err := w.Write(header); err != nil {
		f.Close()
		return nil, err
	}
	return &CSV{w: w, f: f, names: names, row: make([]string, len(header))}, nil
}

func (j *CSV) WriteTick(tick int, rec orchestrate.Record) error {
	j.row[0] = strconv.Itoa(tick)
	for i, name := range j.names {
		v := rec[name]
		if v.Valid {
			j.row[i+1] = strconv.FormatFloat(v.F, 'g', -1, 64)
		} else {
			j.row[i+1] = ""
		}
	}
	return j.w.Write(j.row)
}

func (j *CSV) Close() error {
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		j.f.Close()
		return err
	}
	return j.f.Close()
}
