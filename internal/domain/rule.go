package domain

import (
	"fmt"
	"strings"

	"github.com/inferlab/inquest/internal/cf"
)

// Rule concludes values for parameters when its premises hold. The rule's
// own CF attenuates the combined premise certainty before it reaches any
// conclusion.
type Rule struct {
	Num         int
	Premises    []Condition
	Conclusions []Condition
	CF          cf.Factor
}

// BoundPremises resolves every premise against the session's live instances.
func (r *Rule) BoundPremises(instances map[string]Instance) ([]BoundCondition, error) {
	return bindAll(r.Premises, instances)
}

// BoundConclusions resolves every conclusion against the session's live
// instances.
func (r *Rule) BoundConclusions(instances map[string]Instance) ([]BoundCondition, error) {
	return bindAll(r.Conclusions, instances)
}

func bindAll(conds []Condition, instances map[string]Instance) ([]BoundCondition, error) {
	bound := make([]BoundCondition, 0, len(conds))
	for _, c := range conds {
		b, err := c.Bind(instances)
		if err != nil {
			return nil, err
		}
		bound = append(bound, b)
	}
	return bound, nil
}

func (r *Rule) String() string {
	prems := make([]string, len(r.Premises))
	for i, c := range r.Premises {
		prems[i] = c.String()
	}
	concls := make([]string, len(r.Conclusions))
	for i, c := range r.Conclusions {
		concls[i] = c.String()
	}
	return RuleText(r.Num, r.CF, prems, concls)
}

// RuleText renders a rule body in the display template shared by rule
// definitions and the explanation tracer.
func RuleText(num int, attenuation cf.Factor, premises, conclusions []string) string {
	return fmt.Sprintf("RULE %d\nIF\n\t%s\nTHEN %f\n\t%s",
		num, strings.Join(premises, "\n\t"), float64(attenuation), strings.Join(conclusions, "\n\t"))
}
