package orchestrate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/signalflow/graph"
	"github.com/rustyeddy/signalflow/node"
	"github.com/rustyeddy/signalflow/orchestrate"
)

func runAll(t *testing.T, session *orchestrate.Session) []orchestrate.Record {
	t.Helper()
	var recs []orchestrate.Record
	err := session.Run(context.Background(), func(rec orchestrate.Record) error {
		recs = append(recs, rec)
		return nil
	})
	require.NoError(t, err)
	return recs
}

func TestArithmeticPipeline(t *testing.T) {
	sp := node.NewSpace()
	x := sp.RawSource(node.FromFloats(1, 2, 3, 4))
	y := sp.RawSource(node.FromFloats(10, 20, 30, 40))
	sum := sp.Add(x, y)
	scaled := sp.Mul(sum, 0.5)
	diff := sp.Sub(scaled, x)
	flag := sp.Greater(diff, 10.0)

	session, err := orchestrate.New(map[string]node.Node{
		"sum": sum, "scaled": scaled, "diff": diff, "flag": flag,
	})
	require.NoError(t, err)

	recs := runAll(t, session)
	require.Len(t, recs, 4)
	assert.Equal(t, 4, session.Ticks())

	wantDiff := []float64{4.5, 9, 13.5, 18}
	wantFlag := []float64{0, 0, 1, 1}
	for i, rec := range recs {
		assert.Equal(t, node.Some(float64(i+1)*11), rec["sum"], "tick %d", i)
		assert.Equal(t, node.Some(wantDiff[i]), rec["diff"], "tick %d", i)
		assert.Equal(t, node.Some(wantFlag[i]), rec["flag"], "tick %d", i)
	}
}

func buildPipeline(concurrent bool) (*orchestrate.Session, error) {
	sp := node.NewSpace()
	price := sp.RawSource(node.FromFloats(100, 101, 99, 103, 102))

	ch := make(chan node.Value, 5)
	for _, f := range []float64{10, 20, 15, 5, 25} {
		ch <- node.Some(f)
	}
	close(ch)
	volume := sp.AsyncRawSource(node.FromChannel(ch))

	notional := sp.Mul(price, volume)
	spike := sp.Greater(volume, 18.0)

	var opts []orchestrate.SessionOption
	if concurrent {
		opts = append(opts, orchestrate.Concurrent())
	}
	return orchestrate.New(map[string]node.Node{
		"price": price, "volume": volume, "notional": notional, "spike": spike,
	}, opts...)
}

func TestConcurrentMatchesSequential(t *testing.T) {
	seq, err := buildPipeline(false)
	require.NoError(t, err)
	conc, err := buildPipeline(true)
	require.NoError(t, err)

	seqRecs := runAll(t, seq)
	concRecs := runAll(t, conc)
	assert.Equal(t, seqRecs, concRecs)
	require.Len(t, seqRecs, 5)
	assert.Equal(t, node.Some(100*10), seqRecs[0]["notional"])
	assert.Equal(t, node.Some(1), seqRecs[1]["spike"])
}

// Repeated construction of the same graph must yield the same records, no
// matter how map iteration shuffles sink registration or layer membership.
func TestDeterministicAcrossRuns(t *testing.T) {
	var first []orchestrate.Record
	for run := 0; run < 10; run++ {
		session, err := buildPipeline(run%2 == 1)
		require.NoError(t, err)
		recs := runAll(t, session)
		if first == nil {
			first = recs
			continue
		}
		require.Equal(t, first, recs, "run %d", run)
	}
}

func TestCleanExhaustion(t *testing.T) {
	sp := node.NewSpace()
	x := sp.Series(node.Some(1), node.Some(2))

	session, err := orchestrate.New(map[string]node.Node{"x": x})
	require.NoError(t, err)

	recs := runAll(t, session)
	assert.Len(t, recs, 2)

	// A finished session keeps reporting clean termination.
	for i := 0; i < 3; i++ {
		rec, ok, err := session.Next(context.Background())
		assert.Nil(t, rec)
		assert.False(t, ok)
		assert.NoError(t, err)
	}
}

func TestEvaluationFailureSticks(t *testing.T) {
	errBoom := errors.New("boom")

	sp := node.NewSpace()
	x := sp.Series(node.Some(1), node.Some(2), node.Some(3))
	bad := sp.Apply(func(args []node.Value) (node.Value, error) {
		if args[0].F > 1 {
			return node.Value{}, errBoom
		}
		return args[0], nil
	}, []node.Node{x})

	session, err := orchestrate.New(map[string]node.Node{"bad": bad})
	require.NoError(t, err)

	rec, ok, err := session.Next(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, node.Some(1), rec["bad"])

	_, ok, err = session.Next(context.Background())
	assert.False(t, ok)
	require.ErrorIs(t, err, errBoom)

	// The failure is remembered verbatim.
	_, ok, err2 := session.Next(context.Background())
	assert.False(t, ok)
	assert.Equal(t, err, err2)
}

func TestRunStopsOnCallbackError(t *testing.T) {
	errStop := errors.New("stop")

	sp := node.NewSpace()
	x := sp.Series(node.Some(1), node.Some(2), node.Some(3))
	session, err := orchestrate.New(map[string]node.Node{"x": x})
	require.NoError(t, err)

	seen := 0
	err = session.Run(context.Background(), func(orchestrate.Record) error {
		seen++
		if seen == 2 {
			return errStop
		}
		return nil
	})
	assert.ErrorIs(t, err, errStop)
	assert.Equal(t, 2, seen)
}

func TestContextCancellation(t *testing.T) {
	sp := node.NewSpace()
	x := sp.Series(node.Some(1))
	session, err := orchestrate.New(map[string]node.Node{"x": x})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, ok, err := session.Next(ctx)
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestZeroSinks(t *testing.T) {
	_, err := orchestrate.New(nil)
	assert.Error(t, err)
}

// cyclicStub hand-wires a dependency cycle that the public constructors
// refuse to build.
type cyclicStub struct {
	id   int64
	pres []node.Node
	deps []node.Node
}

func (s *cyclicStub) ID() int64                           { return s.id }
func (s *cyclicStub) At(int) (node.Value, error)          { return node.None, nil }
func (s *cyclicStub) Default() node.Value                 { return node.None }
func (s *cyclicStub) PreRequisites() []node.Node          { return s.pres }
func (s *cyclicStub) Dependents() []node.Node             { return s.deps }
func (s *cyclicStub) GrowHistory(int)                     {}
func (s *cyclicStub) Sync() bool                          { return true }
func (s *cyclicStub) Evaluate() error                     { return nil }
func (s *cyclicStub) EvaluateAsync(context.Context) error { return nil }

func TestStructuralErrorSurfacesAtConstruction(t *testing.T) {
	a := &cyclicStub{id: 9000}
	b := &cyclicStub{id: 9001}
	a.pres = []node.Node{b}
	b.pres = []node.Node{a}
	a.deps = []node.Node{b}
	b.deps = []node.Node{a}

	_, err := orchestrate.New(map[string]node.Node{"a": a})
	assert.ErrorIs(t, err, graph.ErrCannotResolve)
}

// failingSequence errors on the first pull.
type failingSequence struct{ err error }

func (f failingSequence) Next(context.Context) (node.Value, bool, error) {
	return node.Value{}, false, f.err
}

func TestConcurrentFailureCancelsBatch(t *testing.T) {
	errFeed := errors.New("feed down")

	sp := node.NewSpace()
	bad := sp.AsyncRawSource(failingSequence{err: errFeed})
	// This source never delivers; only batch cancellation unblocks it.
	stuck := sp.AsyncRawSource(node.FromChannel(make(chan node.Value)))
	both := sp.Add(bad, stuck)

	session, err := orchestrate.New(map[string]node.Node{"both": both},
		orchestrate.Concurrent())
	require.NoError(t, err)

	_, ok, err := session.Next(context.Background())
	assert.False(t, ok)
	assert.ErrorIs(t, err, errFeed)
}
