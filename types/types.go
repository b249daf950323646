package types

import (
	"fmt"
	"strconv"
)

// ElemKind enumerates the element kinds a typed value can have.
type ElemKind int

const (
	KindNothing ElemKind = iota // The absence of a value (eg. a subroutine result).
	KindBool
	KindInt
	KindFloat
	KindComplex
	KindString
)

// Repr returns the canonical name of the element kind.
func (k ElemKind) Repr() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindComplex:
		return "complex"
	case KindString:
		return "str"
	default:
		return "nothing"
	}
}

// Order enumerates the memory orders an array-valued expression can have.
type Order int

const (
	OrderNone Order = iota // Scalar values and rank-1 arrays carry no order.
	OrderC                 // Row-major.
	OrderF                 // Column-major.
)

// Repr returns the single-letter order name used by array constructors.
func (o Order) Repr() string {
	switch o {
	case OrderC:
		return "C"
	case OrderF:
		return "F"
	default:
		return ""
	}
}

// DefaultPrecision marks a value as having the backend's native width for its
// element kind.  A default-precision value must never be printed with an
// explicit width suffix.
const DefaultPrecision = -1

// Descriptor is the resolved type of a typed expression node: its element
// kind, its precision in bytes (or DefaultPrecision), its rank (0 for a
// scalar), and its memory order.  Descriptors are plain values: describing the
// type of a node is pure and never mutates the node.
type Descriptor struct {
	Kind      ElemKind
	Precision int
	Rank      int
	Order     Order
}

// Scalar returns a scalar descriptor of the given kind at default precision.
func Scalar(kind ElemKind) Descriptor {
	return Descriptor{Kind: kind, Precision: DefaultPrecision}
}

// ScalarOf returns a scalar descriptor of the given kind and precision.
func ScalarOf(kind ElemKind, precision int) Descriptor {
	return Descriptor{Kind: kind, Precision: precision}
}

// Array returns an array descriptor of the given kind, rank, and order at
// default precision.
func Array(kind ElemKind, rank int, order Order) Descriptor {
	return Descriptor{Kind: kind, Precision: DefaultPrecision, Rank: rank, Order: order}
}

// IsScalar returns whether the descriptor describes a scalar value.
func (d Descriptor) IsScalar() bool {
	return d.Rank == 0
}

// HasDefaultPrecision returns whether the descriptor uses the backend-native
// width for its kind.
func (d Descriptor) HasDefaultPrecision() bool {
	return d.Precision == DefaultPrecision
}

// Repr returns a human readable representation of the descriptor used in
// diagnostics.
func (d Descriptor) Repr() string {
	s := d.Kind.Repr()
	if !d.HasDefaultPrecision() {
		s += strconv.Itoa(d.Precision * 8)
	}

	if d.Rank > 0 {
		s += fmt.Sprintf("[%dD", d.Rank)
		if o := d.Order.Repr(); o != "" {
			s += "," + o
		}
		s += "]"
	}

	return s
}

// -----------------------------------------------------------------------------

// RequiresCast is the predicate printers use to decide whether an expression
// of type `have` must be wrapped in an explicit conversion to be used where
// type `want` is expected.  The decision is type-only: a kind or precision
// mismatch requires a cast, syntax never does.
func RequiresCast(have, want Descriptor) bool {
	return have.Kind != want.Kind || have.Precision != want.Precision
}
