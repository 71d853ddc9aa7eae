package domain

import (
	"fmt"
	"strings"
)

// Operator is the closed set of relations a condition can apply between a
// recorded value and its target.
type Operator string

const (
	OpEq Operator = "eq"
	OpNe Operator = "ne"
	OpLt Operator = "lt"
	OpLe Operator = "le"
	OpGt Operator = "gt"
	OpGe Operator = "ge"
)

// ParseOperator accepts both the tag names and the usual symbols.
func ParseOperator(s string) (Operator, error) {
	switch s {
	case "eq", "=", "==":
		return OpEq, nil
	case "ne", "!=":
		return OpNe, nil
	case "lt", "<":
		return OpLt, nil
	case "le", "<=":
		return OpLe, nil
	case "gt", ">":
		return OpGt, nil
	case "ge", ">=":
		return OpGe, nil
	}
	return "", fmt.Errorf("%w: %q", ErrBadOperator, s)
}

// Matches reports whether candidate stands in the operator's relation to
// target. Ints and floats compare numerically across types; ordering values
// that have no order is simply false, never an error.
func (op Operator) Matches(candidate, target Value) bool {
	switch op {
	case OpEq:
		return equalValues(candidate, target)
	case OpNe:
		return !equalValues(candidate, target)
	case OpLt, OpLe, OpGt, OpGe:
		c, ok := compareValues(candidate, target)
		if !ok {
			return false
		}
		switch op {
		case OpLt:
			return c < 0
		case OpLe:
			return c <= 0
		case OpGt:
			return c > 0
		default:
			return c >= 0
		}
	}
	return false
}

func equalValues(a, b Value) bool {
	if x, y, ok := numericPair(a, b); ok {
		return x == y
	}
	return a == b
}

// compareValues orders two values when an order exists: numerically for
// ints and floats, lexicographically for strings.
func compareValues(a, b Value) (int, bool) {
	if x, y, ok := numericPair(a, b); ok {
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		}
		return 0, true
	}
	x, okA := a.(string)
	y, okB := b.(string)
	if okA && okB {
		return strings.Compare(x, y), true
	}
	return 0, false
}

func numericPair(a, b Value) (float64, float64, bool) {
	x, okA := toFloat(a)
	y, okB := toFloat(b)
	if !okA || !okB {
		return 0, 0, false
	}
	return x, y, true
}

func toFloat(v Value) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// Condition relates a parameter of some context to a target value. Inside a
// rule it names the context; Bind substitutes the session's live instance.
type Condition struct {
	Param   string
	Context string
	Op      Operator
	Value   Value
}

func (c Condition) String() string {
	return fmt.Sprintf("%s %s %s %v", c.Param, c.Context, c.Op, c.Value)
}

// Bind resolves the condition against the session's live instances.
func (c Condition) Bind(instances map[string]Instance) (BoundCondition, error) {
	inst, ok := instances[c.Context]
	if !ok {
		return BoundCondition{}, fmt.Errorf("%w: %s (condition %q)", ErrNoInstance, c.Context, c.String())
	}
	return BoundCondition{Param: c.Param, Instance: inst, Op: c.Op, Value: c.Value}, nil
}

// BoundCondition is a Condition bound to a concrete instance.
type BoundCondition struct {
	Param    string
	Instance Instance
	Op       Operator
	Value    Value
}

// String renders the condition with its context name, the same form bound
// and unbound conditions share in rule and trace output.
func (c BoundCondition) String() string {
	return fmt.Sprintf("%s %s %s %v", c.Param, c.Instance.Context, c.Op, c.Value)
}
