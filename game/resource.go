package game

import (
	"fmt"
	"strings"
)

// ResourceKind represents one of the three stockpiled resources.
type ResourceKind int

const (
	Food ResourceKind = iota
	Wood
	Metal
)

var resourceKinds = []ResourceKind{Food, Wood, Metal}

func (k ResourceKind) String() string {
	switch k {
	case Food:
		return "Food"
	case Wood:
		return "Wood"
	case Metal:
		return "Metal"
	default:
		return fmt.Sprintf("ResourceKind(%d)", int(k))
	}
}

// ParseResourceKind accepts the kind name in any case.
func ParseResourceKind(s string) (ResourceKind, error) {
	for _, k := range resourceKinds {
		if strings.EqualFold(s, k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown resource kind %q: %w", s, ErrInvalidMove)
}

// Amount is a typed quantity of a single resource kind.
type Amount struct {
	Kind  ResourceKind
	Value float64
}

func NewAmount(kind ResourceKind, value float64) (Amount, error) {
	if value < 0 {
		return Amount{}, ErrNegativeAmount
	}
	return Amount{Kind: kind, Value: value}, nil
}

func (a Amount) Add(other Amount) (Amount, error) {
	if a.Kind != other.Kind {
		return a, ErrTypeMismatch
	}
	return Amount{Kind: a.Kind, Value: a.Value + other.Value}, nil
}

// Sub never produces a negative amount.
func (a Amount) Sub(other Amount) (Amount, error) {
	if a.Kind != other.Kind {
		return a, ErrTypeMismatch
	}
	if other.Value > a.Value {
		return a, ErrInsufficientResources
	}
	return Amount{Kind: a.Kind, Value: a.Value - other.Value}, nil
}

func (a Amount) Less(other Amount) (bool, error) {
	if a.Kind != other.Kind {
		return false, ErrTypeMismatch
	}
	return a.Value < other.Value, nil
}

func (a Amount) String() string {
	return fmt.Sprintf("%g %s", a.Value, a.Kind)
}

// Bundle is a multi-kind quantity, used for costs, treasure and stock snapshots.
type Bundle struct {
	Food  float64 `json:"food" yaml:"food"`
	Wood  float64 `json:"wood" yaml:"wood"`
	Metal float64 `json:"metal" yaml:"metal"`
}

func BundleOf(amounts ...Amount) Bundle {
	var b Bundle
	for _, a := range amounts {
		b = b.With(a.Kind, b.Get(a.Kind)+a.Value)
	}
	return b
}

func (b Bundle) Get(kind ResourceKind) float64 {
	switch kind {
	case Food:
		return b.Food
	case Wood:
		return b.Wood
	case Metal:
		return b.Metal
	}
	return 0
}

func (b Bundle) With(kind ResourceKind, value float64) Bundle {
	switch kind {
	case Food:
		b.Food = value
	case Wood:
		b.Wood = value
	case Metal:
		b.Metal = value
	}
	return b
}

func (b Bundle) Plus(other Bundle) Bundle {
	return Bundle{Food: b.Food + other.Food, Wood: b.Wood + other.Wood, Metal: b.Metal + other.Metal}
}

func (b Bundle) Scale(f float64) Bundle {
	return Bundle{Food: b.Food * f, Wood: b.Wood * f, Metal: b.Metal * f}
}

// Covers reports whether b holds at least other in every kind.
func (b Bundle) Covers(other Bundle) bool {
	return b.Food >= other.Food && b.Wood >= other.Wood && b.Metal >= other.Metal
}

func (b Bundle) IsZero() bool {
	return b == Bundle{}
}

func (b Bundle) hasNegative() bool {
	return b.Food < 0 || b.Wood < 0 || b.Metal < 0
}

// Amounts lists the non-zero components in kind order.
func (b Bundle) Amounts() []Amount {
	var out []Amount
	for _, k := range resourceKinds {
		if v := b.Get(k); v != 0 {
			out = append(out, Amount{Kind: k, Value: v})
		}
	}
	return out
}

// Ledger is a faction's resource stock. Stock never goes negative.
type Ledger struct {
	stock Bundle
}

func (l *Ledger) Add(a Amount) error {
	if a.Value < 0 {
		return ErrNegativeAmount
	}
	l.stock = l.stock.With(a.Kind, l.stock.Get(a.Kind)+a.Value)
	return nil
}

// Subtract fails without mutating when the stock would go negative.
func (l *Ledger) Subtract(a Amount) error {
	if a.Value < 0 {
		return ErrNegativeAmount
	}
	current := l.Balance(a.Kind)
	next, err := current.Sub(a)
	if err != nil {
		return fmt.Errorf("cannot subtract %s from %s: %w", a, current, err)
	}
	l.stock = l.stock.With(a.Kind, next.Value)
	return nil
}

func (l *Ledger) HasAtLeast(b Bundle) bool {
	return l.stock.Covers(b)
}

func (l *Ledger) Balance(kind ResourceKind) Amount {
	return Amount{Kind: kind, Value: l.stock.Get(kind)}
}

// Stock returns a copy of the current holdings.
func (l *Ledger) Stock() Bundle {
	return l.stock
}
