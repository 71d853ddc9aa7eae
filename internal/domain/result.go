package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/inferlab/inquest/internal/cf"
)

// Evidence maps candidate values to their accumulated certainty.
type Evidence map[Value]cf.Factor

// Findings maps each goal parameter of an instance to its evidence.
type Findings map[string]Evidence

// Result holds the findings of every goal-bearing instance of a
// consultation, keyed by instance.
type Result map[Instance]Findings

// Flatten converts a result into plain JSON-encodable maps keyed by
// instance identifier, for archiving and API responses.
func (r Result) Flatten() map[string]map[string]map[string]float64 {
	out := make(map[string]map[string]map[string]float64, len(r))
	for inst, findings := range r {
		params := make(map[string]map[string]float64, len(findings))
		for param, ev := range findings {
			vals := make(map[string]float64, len(ev))
			for v, c := range ev {
				vals[fmt.Sprint(v)] = float64(c)
			}
			params[param] = vals
		}
		out[inst.String()] = params
	}
	return out
}

// RenderFindings formats a result for the consultation report. Instances,
// parameters, and values are ordered deterministically.
func RenderFindings(r Result) string {
	insts := make([]Instance, 0, len(r))
	for inst := range r {
		insts = append(insts, inst)
	}
	sort.Slice(insts, func(i, j int) bool {
		if insts[i].Context != insts[j].Context {
			return insts[i].Context < insts[j].Context
		}
		return insts[i].Seq < insts[j].Seq
	})

	var b strings.Builder
	for _, inst := range insts {
		fmt.Fprintf(&b, "Findings for %s:\n", inst)
		findings := r[inst]
		params := make([]string, 0, len(findings))
		for param := range findings {
			params = append(params, param)
		}
		sort.Strings(params)
		for _, param := range params {
			ev := findings[param]
			entries := make([]string, 0, len(ev))
			for val, c := range ev {
				entries = append(entries, fmt.Sprintf("%v: %f", val, float64(c)))
			}
			sort.Strings(entries)
			fmt.Fprintf(&b, "%s: %s\n", param, strings.Join(entries, ", "))
		}
	}
	return b.String()
}
