package domain

import "context"

// Interactor is the boundary through which the engine asks questions and
// reports output during a consultation. Ask blocks until the host produces
// a raw response; a non-nil error is an infrastructure failure and aborts
// the session. Hosts that need cancellation return "unknown" instead.
type Interactor interface {
	Ask(ctx context.Context, prompt string) (string, error)
	Tell(ctx context.Context, text string) error
}
