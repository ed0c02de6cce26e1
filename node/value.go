package node

import (
	"fmt"
	"strconv"
)

// Value is one optional sample in a node's history. The zero value is the
// missing sample; a missing sample propagates through operations according
// to each node's none-safety setting.
type Value struct {
	F     float64
	Valid bool
}

// Some wraps f as a present sample.
func Some(f float64) Value {
	return Value{F: f, Valid: true}
}

// None is the missing sample.
var None = Value{}

// FromBool encodes a boolean as 1 or 0. Comparison and logical nodes
// publish their results in this form.
func FromBool(b bool) Value {
	if b {
		return Some(1)
	}
	return Some(0)
}

// Or returns the sample's value, or fallback if the sample is missing.
func (v Value) Or(fallback float64) float64 {
	if v.Valid {
		return v.F
	}
	return fallback
}

// Bool reports whether the sample is present and non-zero.
func (v Value) Bool() bool {
	return v.Valid && v.F != 0
}

func (v Value) String() string {
	if !v.Valid {
		return "none"
	}
	return strconv.FormatFloat(v.F, 'g', -1, 64)
}

// GoString makes test failure output readable.
func (v Value) GoString() string {
	if !v.Valid {
		return "node.None"
	}
	return fmt.Sprintf("node.Some(%v)", v.F)
}
