package engine

import (
	"go.uber.org/zap"

	"github.com/inferlab/inquest/internal/cf"
	"github.com/inferlab/inquest/internal/domain"
)

// resolver resolves a missing (parameter, instance) pair, usually the
// engine's own findOut.
type resolver func(param string, inst domain.Instance) (bool, error)

// tracker observes every rule the moment it is selected for consideration.
type tracker func(*domain.Rule)

// evalCondition is the certainty that a bound condition holds: the plain
// sum of the certainties of every recorded value satisfying its operator.
// Evaluation sums where accumulation uses cf.Or; the asymmetry is
// deliberate.
func evalCondition(cond domain.BoundCondition, ev domain.Evidence) cf.Factor {
	var total cf.Factor
	for val, c := range ev {
		if cond.Op.Matches(val, cond.Value) {
			total += c
		}
	}
	return total
}

// applicable combines the certainties of the rule's premises. A cheap first
// pass rejects the rule when any premise is already certainly false without
// resolving anything; the second pass resolves each premise in declared
// order, combines with cf.And, and stops the moment the running certainty
// is no longer certainly true.
func (e *Engine) applicable(rule *domain.Rule, resolve resolver) (cf.Factor, error) {
	premises, err := rule.BoundPremises(e.instances)
	if err != nil {
		return cf.False, err
	}

	for _, p := range premises {
		if evalCondition(p, e.facts.ValuesOf(p.Param, p.Instance)).False() {
			return cf.False, nil
		}
	}

	total := cf.True
	for _, p := range premises {
		if _, err := resolve(p.Param, p.Instance); err != nil {
			return cf.False, err
		}
		total = cf.And(total, evalCondition(p, e.facts.ValuesOf(p.Param, p.Instance)))
		if !total.True() {
			return cf.False, nil
		}
	}
	return total, nil
}

// apply fires the rule when its attenuated applicability is certain enough,
// accumulating every conclusion into the fact store. The tracker is
// notified first, whatever the outcome.
func (e *Engine) apply(rule *domain.Rule, resolve resolver, track tracker) (bool, error) {
	if track != nil {
		track(rule)
	}
	e.logger.Debug("attempting rule", zap.Int("rule", rule.Num))

	app, err := e.applicable(rule, resolve)
	if err != nil {
		return false, err
	}
	effective := rule.CF * app
	if !effective.True() {
		e.logger.Debug("rule not applicable",
			zap.Int("rule", rule.Num),
			zap.Float64("cf", float64(effective)))
		return false, nil
	}

	conclusions, err := rule.BoundConclusions(e.instances)
	if err != nil {
		return false, err
	}
	e.logger.Info("applying rule",
		zap.Int("rule", rule.Num),
		zap.Float64("cf", float64(effective)))
	for _, c := range conclusions {
		e.facts.Accumulate(c.Param, c.Instance, c.Value, effective)
		e.logger.Info("concluding",
			zap.String("condition", c.String()),
			zap.Float64("cf", float64(effective)))
	}
	return true, nil
}

// useRules tries the candidate rules in order and stops at the first that
// fires. Later candidates are never attempted in the same pass, even though
// they might add corroborating evidence.
func (e *Engine) useRules(rules []*domain.Rule, resolve resolver, track tracker) (bool, error) {
	for _, r := range rules {
		fired, err := e.apply(r, resolve, track)
		if err != nil {
			return false, err
		}
		if fired {
			return true, nil
		}
	}
	return false, nil
}
