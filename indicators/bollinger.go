package indicators

import (
	"fmt"

	"github.com/rustyeddy/signalflow/node"
	"github.com/rustyeddy/signalflow/stats"
)

// Bollinger is the three bands of a Bollinger channel: the window SMA plus
// and minus a multiple of the window standard deviation.
type Bollinger struct {
	Upper  node.Node
	Middle node.Node
	Lower  node.Node
}

func NewBollinger(sp *node.Space, source node.Node, window int, mult float64) (Bollinger, error) {
	if mult <= 0 {
		return Bollinger{}, fmt.Errorf("indicators: bollinger multiplier must be positive, got %v", mult)
	}
	middle, err := stats.NewSMA(sp, source, window)
	if err != nil {
		return Bollinger{}, err
	}
	variance, err := stats.NewVariance(sp, source, window)
	if err != nil {
		return Bollinger{}, err
	}
	band := sp.Mul(sp.Pow(variance, 0.5), mult)
	return Bollinger{
		Upper:  sp.Add(middle, band),
		Middle: middle,
		Lower:  sp.Sub(middle, band),
	}, nil
}
