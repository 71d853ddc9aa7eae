// Package engine implements goal-directed backward chaining over a
// certainty-factor knowledge base: rules fire when their premises are
// certain enough, missing premise values are resolved recursively or asked
// through the interaction port, and evidence accumulates in a fact store.
package engine

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/inferlab/inquest/internal/domain"
	"github.com/inferlab/inquest/internal/store"
)

// ErrDepthExceeded reports that premise resolution recursed past the
// engine's configured maximum, usually a cycle among rules.
var ErrDepthExceeded = errors.New("resolution depth exceeded")

// DefaultMaxDepth bounds recursive premise resolution unless SetMaxDepth
// overrides it.
const DefaultMaxDepth = 64

// Engine runs consultations against one knowledge base. An engine holds
// per-session mutable state and must not be shared by concurrent sessions;
// give each session its own engine over the shared knowledge base.
type Engine struct {
	kb     *domain.KnowledgeBase
	port   domain.Interactor
	facts  *store.FactStore
	logger *zap.Logger

	maxDepth int

	known     map[domain.FactKey]struct{}
	asked     map[domain.FactKey]struct{}
	instances map[string]domain.Instance
	trace     trace
}

func New(kb *domain.KnowledgeBase, port domain.Interactor, logger *zap.Logger) *Engine {
	return &Engine{
		kb:        kb,
		port:      port,
		facts:     store.NewFactStore(),
		logger:    logger,
		maxDepth:  DefaultMaxDepth,
		known:     make(map[domain.FactKey]struct{}),
		asked:     make(map[domain.FactKey]struct{}),
		instances: make(map[string]domain.Instance),
	}
}

// SetMaxDepth bounds recursive premise resolution.
func (e *Engine) SetMaxDepth(n int) {
	if n > 0 {
		e.maxDepth = n
	}
}

// Facts exposes the session's fact store for reading resolved values.
func (e *Engine) Facts() *store.FactStore {
	return e.facts
}

func (e *Engine) reset() {
	e.facts.Reset()
	e.known = make(map[domain.FactKey]struct{})
	e.asked = make(map[domain.FactKey]struct{})
	e.instances = make(map[string]domain.Instance)
	e.trace = trace{}
}

// FindOut resolves the parameter for the instance, by rules or by
// questioning, and reports whether it now has a value. Resolved values are
// read from the fact store, not returned. Known pairs succeed immediately
// with no rule evaluation and no prompting; failures are not memoized and
// may be retried.
func (e *Engine) FindOut(ctx context.Context, param string, inst domain.Instance) (bool, error) {
	return e.findOut(ctx, param, inst, 0)
}

func (e *Engine) findOut(ctx context.Context, param string, inst domain.Instance, depth int) (bool, error) {
	key := domain.FactKey{Param: param, Instance: inst}
	if _, ok := e.known[key]; ok {
		return true, nil
	}
	if depth > e.maxDepth {
		return false, fmt.Errorf("%w: %s of %s at depth %d", ErrDepthExceeded, param, inst, depth)
	}

	p, err := e.kb.Parameter(param)
	if err != nil {
		return false, err
	}

	e.logger.Debug("finding out",
		zap.String("param", param),
		zap.String("instance", inst.String()),
		zap.Int("depth", depth))

	rules := func() (bool, error) {
		resolve := func(rp string, ri domain.Instance) (bool, error) {
			return e.findOut(ctx, rp, ri, depth+1)
		}
		return e.useRules(e.kb.RulesFor(param), resolve, e.trace.selectRule)
	}

	var success bool
	if p.AskFirst {
		success, err = e.askValues(ctx, p, inst)
		if err == nil && !success {
			success, err = rules()
		}
	} else {
		success, err = rules()
		if err == nil && !success {
			success, err = e.askValues(ctx, p, inst)
		}
	}
	if err != nil {
		return false, err
	}
	if success {
		e.known[key] = struct{}{}
	}
	return success, nil
}

// Execute runs a consultation over the named contexts, in order, and
// returns the goal findings keyed by instance. All session state except the
// knowledge base's instance counters is reset at the start.
func (e *Engine) Execute(ctx context.Context, contextNames []string) (domain.Result, error) {
	e.logger.Info("beginning consultation", zap.Strings("contexts", contextNames))

	if err := e.port.Tell(ctx, `Beginning execution. For help answering questions, type "help".`); err != nil {
		return nil, err
	}
	e.reset()

	results := make(domain.Result)
	for _, name := range contextNames {
		ctxDef, err := e.kb.Context(name)
		if err != nil {
			return nil, err
		}
		inst, err := e.kb.Instantiate(name)
		if err != nil {
			return nil, err
		}
		e.instances[name] = inst

		e.trace.setPhase(phaseInitial)
		for _, param := range ctxDef.Initial {
			if _, err := e.findOut(ctx, param, inst, 0); err != nil {
				return nil, err
			}
		}

		e.trace.setPhase(phaseGoal)
		for _, param := range ctxDef.Goals {
			if _, err := e.findOut(ctx, param, inst, 0); err != nil {
				return nil, err
			}
		}

		if len(ctxDef.Goals) > 0 {
			findings := make(domain.Findings, len(ctxDef.Goals))
			for _, param := range ctxDef.Goals {
				findings[param] = e.facts.Snapshot(param, inst)
			}
			results[inst] = findings
		}
	}
	return results, nil
}

const helpText = `Type one of the following:
?       - to see possible answers for this parameter
rule    - to show the current rule
why     - to see why this question is asked
help    - to show this message
unknown - if the answer to this question is not known
<val>   - a single definite answer to the question
<val1> <cf1> [, <val2> <cf2>, ...]
        - if there are multiple answers with associated certainty factors.`

// askValues prompts for the parameter until a reply parses or the user
// withdraws with "unknown". The pair is marked asked on the first prompt
// and is never prompted again for the rest of the session, whatever the
// outcome.
func (e *Engine) askValues(ctx context.Context, p *domain.Parameter, inst domain.Instance) (bool, error) {
	key := domain.FactKey{Param: p.Name, Instance: inst}
	if _, ok := e.asked[key]; ok {
		return false, nil
	}
	e.asked[key] = struct{}{}

	e.logger.Debug("asking",
		zap.String("param", p.Name),
		zap.String("instance", inst.String()))

	prompt := fmt.Sprintf("What is the %s of %s? ", p.Name, inst)
	for {
		resp, err := e.port.Ask(ctx, prompt)
		if err != nil {
			return false, fmt.Errorf("asking %s of %s: %w", p.Name, inst, err)
		}

		switch resp {
		case "":
			continue
		case "unknown":
			return false, nil
		case "help":
			if err := e.port.Tell(ctx, helpText); err != nil {
				return false, err
			}
		case "why":
			if err := e.why(ctx, p.Name); err != nil {
				return false, err
			}
		case "rule":
			if err := e.port.Tell(ctx, e.trace.describe()); err != nil {
				return false, err
			}
		case "?":
			if err := e.port.Tell(ctx, fmt.Sprintf("%s must be of type %s", p.Name, p.TypeString())); err != nil {
				return false, err
			}
		default:
			entries, perr := parseReply(p, resp)
			if perr != nil {
				if err := e.port.Tell(ctx, "Invalid response. Type ? to see legal ones."); err != nil {
					return false, err
				}
				continue
			}
			for _, ent := range entries {
				e.facts.Accumulate(p.Name, inst, ent.val, ent.cf)
			}
			return true, nil
		}
	}
}
