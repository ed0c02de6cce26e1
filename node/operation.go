package node

import (
	"fmt"
	"math"
)

// OpFunc is the pure function an Operation node applies to its
// pre-requisites' current values, in pre-requisite order. When the node's
// none-safety is disabled the function must define its own missing-value
// behavior; returning ErrMissingValue aborts the tick.
type OpFunc func(args []Value) (Value, error)

// Operation is an n-ary pure function of its pre-requisites' current
// values. With none-safety enabled, any missing operand short-circuits the
// node to its default value without invoking the function.
type Operation struct {
	Base
	fn       OpFunc
	safeNone bool
	scratch  []Value
}

// Apply builds an Operation over explicit pre-requisite nodes.
func (s *Space) Apply(fn OpFunc, pres []Node, opts ...Option) *Operation {
	cfg := s.newConfig(opts)
	o := &Operation{
		Base:     NewBase(s, pres, opts...),
		fn:       fn,
		safeNone: cfg.safeNone,
		scratch:  make([]Value, 0, len(pres)),
	}
	Link(o)
	return o
}

func (o *Operation) Evaluate() error {
	args := o.scratch[:0]
	for _, p := range o.PreRequisites() {
		args = append(args, Current(p))
	}
	if o.safeNone {
		for _, a := range args {
			if !a.Valid {
				o.Set(o.Default())
				return nil
			}
		}
	}
	v, err := o.fn(args)
	if err != nil {
		return fmt.Errorf("node %d: %w", o.ID(), err)
	}
	o.Set(v)
	return nil
}

// coerce turns a mixed operand list of Nodes and numeric literals into
// nodes, wrapping literals as Const. Any other operand kind is a
// construction-time programming error.
func (s *Space) coerce(operands []any) []Node {
	pres := make([]Node, len(operands))
	for i, op := range operands {
		switch v := op.(type) {
		case Node:
			pres[i] = v
		case float64:
			pres[i] = s.Const(v)
		case float32:
			pres[i] = s.Const(float64(v))
		case int:
			pres[i] = s.Const(float64(v))
		case int64:
			pres[i] = s.Const(float64(v))
		case Value:
			pres[i] = s.ConstValue(v)
		default:
			panic(fmt.Sprintf("node: operand %d is %T, want Node or number", i, op))
		}
	}
	return pres
}

func require(args []Value) ([]Value, error) {
	for _, a := range args {
		if !a.Valid {
			return nil, ErrMissingValue
		}
	}
	return args, nil
}

// Add sums its operands. Numeric literals are wrapped as Const nodes.
func (s *Space) Add(operands ...any) *Operation {
	return s.Apply(func(args []Value) (Value, error) {
		args, err := require(args)
		if err != nil {
			return Value{}, err
		}
		sum := 0.0
		for _, a := range args {
			sum += a.F
		}
		return Some(sum), nil
	}, s.coerce(operands))
}

// Sub subtracts y from x.
func (s *Space) Sub(x, y any) *Operation {
	return s.Apply(func(args []Value) (Value, error) {
		args, err := require(args)
		if err != nil {
			return Value{}, err
		}
		return Some(args[0].F - args[1].F), nil
	}, s.coerce([]any{x, y}))
}

// Mul multiplies its operands.
func (s *Space) Mul(operands ...any) *Operation {
	return s.Apply(func(args []Value) (Value, error) {
		args, err := require(args)
		if err != nil {
			return Value{}, err
		}
		prod := 1.0
		for _, a := range args {
			prod *= a.F
		}
		return Some(prod), nil
	}, s.coerce(operands))
}

// Neg negates x.
func (s *Space) Neg(x any) *Operation {
	return s.Mul(x, -1.0)
}

// Div divides x by y. A zero denominator publishes the node's default
// value instead of failing.
func (s *Space) Div(x, y any, opts ...Option) *Operation {
	cfg := s.newConfig(opts)
	return s.Apply(func(args []Value) (Value, error) {
		args, err := require(args)
		if err != nil {
			return Value{}, err
		}
		if args[1].F == 0 {
			return cfg.def, nil
		}
		return Some(args[0].F / args[1].F), nil
	}, s.coerce([]any{x, y}), opts...)
}

// Pow raises x to the y-th power.
func (s *Space) Pow(x, y any) *Operation {
	return s.Apply(func(args []Value) (Value, error) {
		args, err := require(args)
		if err != nil {
			return Value{}, err
		}
		return Some(math.Pow(args[0].F, args[1].F)), nil
	}, s.coerce([]any{x, y}))
}

func (s *Space) chainedCompare(cmp func(a, b float64) bool, operands []any) *Operation {
	return s.Apply(func(args []Value) (Value, error) {
		args, err := require(args)
		if err != nil {
			return Value{}, err
		}
		for i := 1; i < len(args); i++ {
			if !cmp(args[i-1].F, args[i].F) {
				return FromBool(false), nil
			}
		}
		return FromBool(true), nil
	}, s.coerce(operands))
}

// Less publishes 1 when operands[0] < operands[1] < ... holds, else 0.
func (s *Space) Less(operands ...any) *Operation {
	return s.chainedCompare(func(a, b float64) bool { return a < b }, operands)
}

// LessEq publishes 1 when operands[0] <= operands[1] <= ... holds, else 0.
func (s *Space) LessEq(operands ...any) *Operation {
	return s.chainedCompare(func(a, b float64) bool { return a <= b }, operands)
}

// Greater publishes 1 when operands[0] > operands[1] > ... holds, else 0.
func (s *Space) Greater(operands ...any) *Operation {
	return s.chainedCompare(func(a, b float64) bool { return a > b }, operands)
}

// GreaterEq publishes 1 when operands[0] >= operands[1] >= ... holds, else 0.
func (s *Space) GreaterEq(operands ...any) *Operation {
	return s.chainedCompare(func(a, b float64) bool { return a >= b }, operands)
}

func (s *Space) chainedLogic(op func(a, b bool) bool, operands []any) *Operation {
	return s.Apply(func(args []Value) (Value, error) {
		args, err := require(args)
		if err != nil {
			return Value{}, err
		}
		acc := args[0].Bool()
		for i := 1; i < len(args); i++ {
			acc = op(acc, args[i].Bool())
		}
		return FromBool(acc), nil
	}, s.coerce(operands))
}

// And publishes the logical conjunction of its operands' truthiness.
func (s *Space) And(operands ...any) *Operation {
	return s.chainedLogic(func(a, b bool) bool { return a && b }, operands)
}

// Or publishes the logical disjunction of its operands' truthiness.
func (s *Space) Or(operands ...any) *Operation {
	return s.chainedLogic(func(a, b bool) bool { return a || b }, operands)
}

// Xor publishes the logical exclusive-or of its operands' truthiness.
func (s *Space) Xor(operands ...any) *Operation {
	return s.chainedLogic(func(a, b bool) bool { return a != b }, operands)
}

// Not publishes 1 when x is falsy, else 0.
func (s *Space) Not(x any) *Operation {
	return s.Apply(func(args []Value) (Value, error) {
		args, err := require(args)
		if err != nil {
			return Value{}, err
		}
		return FromBool(!args[0].Bool()), nil
	}, s.coerce([]any{x}))
}

// Bool publishes the truthiness of x as 1 or 0.
func (s *Space) Bool(x any) *Operation {
	return s.Apply(func(args []Value) (Value, error) {
		args, err := require(args)
		if err != nil {
			return Value{}, err
		}
		return FromBool(args[0].Bool()), nil
	}, s.coerce([]any{x}))
}

// Lag publishes its pre-requisite's value from k ticks ago. Missing values
// pass through unchanged; the pre-requisite's history is grown to cover the
// offset.
type Lag struct {
	Base
	k int
}

func (s *Space) Lag(n Node, k int, opts ...Option) *Lag {
	if k < 0 {
		panic(fmt.Sprintf("node: negative lag %d", k))
	}
	n.GrowHistory(k + 1)
	l := &Lag{Base: NewBase(s, []Node{n}, opts...), k: k}
	Link(l)
	return l
}

func (l *Lag) Evaluate() error {
	v, err := l.PreRequisites()[0].At(l.k)
	if err != nil {
		return err
	}
	l.Set(v)
	return nil
}
