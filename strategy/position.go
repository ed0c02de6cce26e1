package strategy

// Position is one isolated position. Amount is positive for long, negative
// for short and zero when flat; Best tracks the most favorable price seen
// since entry for trailing-stop purposes.
type Position struct {
	Amount float64
	Entry  float64
	Best   float64
}

// Open reports whether the position holds any amount.
func (p Position) Open() bool {
	return p.Amount != 0
}

// PnL is the profit of closing the position at exitPrice.
func (p Position) PnL(exitPrice float64) float64 {
	return p.Amount * (exitPrice - p.Entry)
}

// track updates the most favorable price seen since entry.
func (p *Position) track(price float64) {
	if p.Amount > 0 && price > p.Best {
		p.Best = price
	}
	if p.Amount < 0 && price < p.Best {
		p.Best = price
	}
}

// retraced reports whether price has given back more than the stop fraction
// from the best price since entry.
func (p Position) retraced(price, stop float64) bool {
	if !p.Open() || stop <= 0 || p.Best == 0 {
		return false
	}
	if p.Amount > 0 {
		return price <= p.Best*(1-stop)
	}
	return price >= p.Best*(1+stop)
}
