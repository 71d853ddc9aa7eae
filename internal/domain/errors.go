package domain

import "errors"

var (
	ErrUnknownContext     = errors.New("unknown context")
	ErrUnknownParameter   = errors.New("unknown parameter")
	ErrDuplicateContext   = errors.New("context already defined")
	ErrDuplicateParameter = errors.New("parameter already defined")
	ErrDuplicateRule      = errors.New("rule number already defined")
	ErrNoInstance         = errors.New("no live instance for context")
	ErrBadValue           = errors.New("value outside parameter domain")
	ErrBadOperator        = errors.New("unknown relational operator")
)
