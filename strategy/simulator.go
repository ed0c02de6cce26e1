// Package strategy is a consumer of the dataflow core: a long/short
// position simulator wired into the graph as just another node. It reads a
// price node and an entry-condition node and publishes its equity curve.
package strategy

import (
	"errors"

	"github.com/rustyeddy/signalflow/node"
)

// Config controls the simulator's trading behavior.
type Config struct {
	// InitBalance is the starting cash balance. Must be positive.
	InitBalance float64
	// TrailingStop is the fractional retrace from the best price since
	// entry that forces an exit. Zero disables the stop.
	TrailingStop float64
	// Fee is the fractional fee charged on each entry and exit notional.
	Fee float64
	// Slippage worsens every fill price by this fraction.
	Slippage float64
}

// Simulator turns an entry-condition signal into simulated positions and
// publishes equity (cash plus unrealized PnL) as its node value.
//
// The entry condition follows the usual convention: positive means long,
// negative means short, zero holds the current state, and a missing value
// closes any open position.
type Simulator struct {
	node.Base
	price node.Node
	entry node.Node
	cfg   Config

	balance  float64
	realized float64
	pos      Position
	trades   int
}

func New(sp *node.Space, price, entry node.Node, cfg Config) (*Simulator, error) {
	if cfg.InitBalance <= 0 {
		return nil, errors.New("strategy: initial balance must be positive")
	}
	if cfg.TrailingStop < 0 || cfg.Fee < 0 || cfg.Slippage < 0 {
		return nil, errors.New("strategy: trailing stop, fee and slippage must be non-negative")
	}
	s := &Simulator{
		Base:    node.NewBase(sp, []node.Node{price, entry}, node.WithDefault(node.Some(cfg.InitBalance))),
		price:   price,
		entry:   entry,
		cfg:     cfg,
		balance: cfg.InitBalance,
	}
	node.Link(s)
	return s, nil
}

func (s *Simulator) Evaluate() error {
	price := node.Current(s.price)
	if !price.Valid {
		// No tradable price this tick; hold state and republish equity
		// at the last known marks.
		s.Set(node.Current(s))
		return nil
	}
	p := price.F
	signal := node.Current(s.entry)

	s.pos.track(p)
	switch {
	case !signal.Valid:
		s.close(p)
	case s.pos.retraced(p, s.cfg.TrailingStop):
		s.close(p)
	case signal.F > 0 && s.pos.Amount <= 0:
		s.close(p)
		s.open(p, true)
	case signal.F < 0 && s.pos.Amount >= 0:
		s.close(p)
		s.open(p, false)
	}

	s.Set(node.Some(s.balance + s.pos.PnL(p)))
	return nil
}

// open commits the whole cash balance to a position at p, worsened by
// slippage, charging the entry fee up front.
func (s *Simulator) open(p float64, long bool) {
	fill := p * (1 + s.cfg.Slippage)
	if !long {
		fill = p * (1 - s.cfg.Slippage)
	}
	if fill <= 0 {
		return
	}
	notional := s.balance
	s.balance -= notional * s.cfg.Fee
	amount := notional / fill
	if !long {
		amount = -amount
	}
	s.pos = Position{Amount: amount, Entry: fill, Best: fill}
	s.trades++
}

// close realizes the open position at p, worsened by slippage, charging the
// exit fee on the closed notional.
func (s *Simulator) close(p float64) {
	if !s.pos.Open() {
		return
	}
	fill := p * (1 - s.cfg.Slippage)
	if s.pos.Amount < 0 {
		fill = p * (1 + s.cfg.Slippage)
	}
	pnl := s.pos.PnL(fill)
	s.balance += pnl
	s.balance -= s.pos.Entry * abs(s.pos.Amount) * s.cfg.Fee
	s.realized += pnl
	s.pos = Position{}
}

// Balance is the current cash balance, excluding unrealized PnL.
func (s *Simulator) Balance() float64 { return s.balance }

// RealizedPnL is the cumulative profit of all closed positions.
func (s *Simulator) RealizedPnL() float64 { return s.realized }

// Position is the currently open position, zero when flat.
func (s *Simulator) Position() Position { return s.pos }

// Trades is the number of positions opened so far.
func (s *Simulator) Trades() int { return s.trades }

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
