package domain

import (
	"fmt"
	"sync"
)

// Context is a class of entity the engine reasons about. Initial parameters
// are resolved as soon as an instance is created; goal parameters drive
// backward chaining. Contexts are immutable once registered.
type Context struct {
	Name    string
	Initial []string
	Goals   []string
}

// Instance is one concrete occurrence of a context within a consultation,
// identified by context name and sequence number. Comparable, usable as a
// map key.
type Instance struct {
	Context string
	Seq     int
}

func (i Instance) String() string {
	return fmt.Sprintf("%s-%d", i.Context, i.Seq)
}

// FactKey identifies the evidence recorded for one parameter of one
// instance.
type FactKey struct {
	Param    string
	Instance Instance
}

// InstanceAllocator issues per-context-name sequence numbers. Counters are
// scoped to the knowledge base and keep growing across consultations, so
// instance identifiers stay unique for its lifetime. Safe for concurrent
// use; sessions running in parallel share the knowledge base.
type InstanceAllocator struct {
	mu   sync.Mutex
	next map[string]int
}

func NewInstanceAllocator() *InstanceAllocator {
	return &InstanceAllocator{next: make(map[string]int)}
}

// Next returns a fresh instance of the named context.
func (a *InstanceAllocator) Next(context string) Instance {
	a.mu.Lock()
	defer a.mu.Unlock()
	seq := a.next[context]
	a.next[context]++
	return Instance{Context: context, Seq: seq}
}
