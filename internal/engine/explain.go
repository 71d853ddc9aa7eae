package engine

import (
	"context"
	"fmt"

	"github.com/inferlab/inquest/internal/domain"
)

// Trace phase markers used while a context's declared parameter lists are
// being resolved and no rule is under consideration.
const (
	phaseInitial = "initial"
	phaseGoal    = "goal"
)

// trace points at the most recently considered rule, or at the consultation
// phase. Rule selection updates it even when the rule goes on to fail, so
// explanations always reference the rule under consideration at the moment
// the question was asked.
type trace struct {
	rule  *domain.Rule
	phase string
}

func (t *trace) selectRule(r *domain.Rule) {
	t.rule = r
	t.phase = ""
}

func (t *trace) setPhase(p string) {
	t.rule = nil
	t.phase = p
}

// describe renders whatever the marker points at, for the "rule" command.
func (t *trace) describe() string {
	switch {
	case t.rule != nil:
		return t.rule.String()
	case t.phase != "":
		return t.phase
	}
	return "no rule is currently under consideration"
}

// why explains the pending question. During the initial and goal phases the
// parameter is simply on the context's declared list. Under a rule, the
// premises already established are reported as known facts, followed by a
// copy of the rule holding only the premises still unresolved.
func (e *Engine) why(ctx context.Context, param string) error {
	if err := e.port.Tell(ctx, fmt.Sprintf("Why is the value of %s being asked for?", param)); err != nil {
		return err
	}

	if e.trace.rule == nil {
		if e.trace.phase != "" {
			return e.port.Tell(ctx, fmt.Sprintf("%s is one of the %s parameters.", param, e.trace.phase))
		}
		return e.port.Tell(ctx, fmt.Sprintf("%s was requested directly.", param))
	}

	rule := e.trace.rule
	premises, err := rule.BoundPremises(e.instances)
	if err != nil {
		return err
	}

	var known, unknown []domain.BoundCondition
	for _, p := range premises {
		if evalCondition(p, e.facts.ValuesOf(p.Param, p.Instance)).True() {
			known = append(known, p)
		} else {
			unknown = append(unknown, p)
		}
	}

	if len(known) > 0 {
		if err := e.port.Tell(ctx, "It is known that:"); err != nil {
			return err
		}
		for _, c := range known {
			if err := e.port.Tell(ctx, c.String()); err != nil {
				return err
			}
		}
		if err := e.port.Tell(ctx, "Therefore,"); err != nil {
			return err
		}
	}

	prems := make([]string, len(unknown))
	for i, c := range unknown {
		prems[i] = c.String()
	}
	concls := make([]string, len(rule.Conclusions))
	for i, c := range rule.Conclusions {
		concls[i] = c.String()
	}
	return e.port.Tell(ctx, domain.RuleText(rule.Num, rule.CF, prems, concls))
}
