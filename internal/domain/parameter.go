package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is a single parameter value. Legal dynamic types are string, int,
// float64, and bool, so values are comparable and usable as map keys.
type Value any

// ValueKind selects the converter that turns raw reply tokens into typed
// values.
type ValueKind string

const (
	KindEnum   ValueKind = "enum"
	KindString ValueKind = "string"
	KindInt    ValueKind = "int"
	KindFloat  ValueKind = "float"
	KindBool   ValueKind = "bool"
)

func ValidValueKind(k string) bool {
	switch ValueKind(k) {
	case KindEnum, KindString, KindInt, KindFloat, KindBool:
		return true
	}
	return false
}

// Parameter is a named attribute of a context's instances. Enum parameters
// carry their closed set of legal values; the other kinds parse free-form
// scalars. AskFirst parameters are queried before any rules are tried.
type Parameter struct {
	Name     string
	Context  string
	Kind     ValueKind
	Enum     []string
	AskFirst bool
}

// Parse converts one raw token into the parameter's value type.
func (p *Parameter) Parse(raw string) (Value, error) {
	switch p.Kind {
	case KindEnum:
		for _, v := range p.Enum {
			if raw == v {
				return v, nil
			}
		}
		return nil, fmt.Errorf("%w: %q must be one of %s for parameter %s",
			ErrBadValue, raw, p.TypeString(), p.Name)
	case KindString:
		return raw, nil
	case KindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an int", ErrBadValue, raw)
		}
		return n, nil
	case KindFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a float", ErrBadValue, raw)
		}
		return f, nil
	case KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a bool", ErrBadValue, raw)
		}
		return b, nil
	}
	return nil, fmt.Errorf("%w: parameter %s has kind %q", ErrBadValue, p.Name, p.Kind)
}

// TypeString describes the parameter's domain for prompts and help output.
func (p *Parameter) TypeString() string {
	if p.Kind == KindEnum {
		return "(" + strings.Join(p.Enum, ", ") + ")"
	}
	return string(p.Kind)
}
