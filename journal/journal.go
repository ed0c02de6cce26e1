// Package journal persists orchestrated tick records. Sinks are plain
// consumers of the record sequence; nothing here feeds back into the graph.
package journal

import "github.com/rustyeddy/signalflow/orchestrate"

// TickWriter receives one record per tick, in tick order.
type TickWriter interface {
	WriteTick(tick int, rec orchestrate.Record) error
	Close() error
}
