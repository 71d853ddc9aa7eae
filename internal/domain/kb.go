package domain

import "fmt"

// KnowledgeBase aggregates the static contexts, parameters, and rules of one
// application domain and allocates its instances. Definitions are validated
// as they are registered and immutable afterward; only the instance
// allocator's counters change over the knowledge base's lifetime.
type KnowledgeBase struct {
	Name string

	contexts map[string]*Context
	params   map[string]*Parameter
	rules    map[string][]*Rule
	ruleNums map[int]struct{}

	contextOrder []*Context
	paramOrder   []*Parameter
	ruleOrder    []*Rule

	alloc *InstanceAllocator
}

func NewKnowledgeBase(name string) *KnowledgeBase {
	return &KnowledgeBase{
		Name:     name,
		contexts: make(map[string]*Context),
		params:   make(map[string]*Parameter),
		rules:    make(map[string][]*Rule),
		ruleNums: make(map[int]struct{}),
		alloc:    NewInstanceAllocator(),
	}
}

func (kb *KnowledgeBase) DefineContext(c *Context) error {
	if _, ok := kb.contexts[c.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateContext, c.Name)
	}
	kb.contexts[c.Name] = c
	kb.contextOrder = append(kb.contextOrder, c)
	return nil
}

func (kb *KnowledgeBase) DefineParameter(p *Parameter) error {
	if _, ok := kb.params[p.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateParameter, p.Name)
	}
	if !ValidValueKind(string(p.Kind)) {
		return fmt.Errorf("%w: parameter %s has kind %q", ErrBadValue, p.Name, p.Kind)
	}
	if p.Kind == KindEnum && len(p.Enum) == 0 {
		return fmt.Errorf("%w: enum parameter %s lists no values", ErrBadValue, p.Name)
	}
	if p.Context != "" {
		if _, ok := kb.contexts[p.Context]; !ok {
			return fmt.Errorf("%w: %s (parameter %s)", ErrUnknownContext, p.Context, p.Name)
		}
	}
	kb.params[p.Name] = p
	kb.paramOrder = append(kb.paramOrder, p)
	return nil
}

// DefineRule validates the rule's references and indexes it under every
// parameter it concludes, in declaration order.
func (kb *KnowledgeBase) DefineRule(r *Rule) error {
	if _, ok := kb.ruleNums[r.Num]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicateRule, r.Num)
	}
	if !r.CF.Valid() {
		return fmt.Errorf("%w: rule %d attenuation %v is off the certainty scale", ErrBadValue, r.Num, float64(r.CF))
	}
	for _, c := range append(append([]Condition{}, r.Premises...), r.Conclusions...) {
		if _, ok := kb.params[c.Param]; !ok {
			return fmt.Errorf("%w: %s (rule %d)", ErrUnknownParameter, c.Param, r.Num)
		}
		if _, ok := kb.contexts[c.Context]; !ok {
			return fmt.Errorf("%w: %s (rule %d)", ErrUnknownContext, c.Context, r.Num)
		}
	}
	kb.ruleNums[r.Num] = struct{}{}
	kb.ruleOrder = append(kb.ruleOrder, r)
	for _, c := range r.Conclusions {
		kb.rules[c.Param] = append(kb.rules[c.Param], r)
	}
	return nil
}

func (kb *KnowledgeBase) Context(name string) (*Context, error) {
	c, ok := kb.contexts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownContext, name)
	}
	return c, nil
}

func (kb *KnowledgeBase) Parameter(name string) (*Parameter, error) {
	p, ok := kb.params[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownParameter, name)
	}
	return p, nil
}

// RulesFor returns the rules concluding the named parameter, in declaration
// order. Parameters no rule concludes yield an empty list.
func (kb *KnowledgeBase) RulesFor(param string) []*Rule {
	return kb.rules[param]
}

// Instantiate allocates the next instance of the named context.
func (kb *KnowledgeBase) Instantiate(context string) (Instance, error) {
	if _, ok := kb.contexts[context]; !ok {
		return Instance{}, fmt.Errorf("%w: %s", ErrUnknownContext, context)
	}
	return kb.alloc.Next(context), nil
}

// Contexts lists the registered contexts in declaration order.
func (kb *KnowledgeBase) Contexts() []*Context {
	return kb.contextOrder
}

// Parameters lists the registered parameters in declaration order.
func (kb *KnowledgeBase) Parameters() []*Parameter {
	return kb.paramOrder
}

// Rules lists every registered rule in declaration order.
func (kb *KnowledgeBase) Rules() []*Rule {
	return kb.ruleOrder
}
