// Package kbfile loads knowledge bases from YAML documents. The loader
// builds through the domain registration methods, so every document passes
// the same validation as a programmatically constructed base, and condition
// values are coerced through the referenced parameter's converter.
package kbfile

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inferlab/inquest/internal/cf"
	"github.com/inferlab/inquest/internal/domain"
)

// ErrInvalidDocument reports a structurally unusable document, before any
// domain validation runs.
var ErrInvalidDocument = errors.New("invalid knowledge base document")

type document struct {
	Name       string         `yaml:"name"`
	Contexts   []contextDoc   `yaml:"contexts"`
	Parameters []parameterDoc `yaml:"parameters"`
	Rules      []ruleDoc      `yaml:"rules"`
}

type contextDoc struct {
	Name    string   `yaml:"name"`
	Initial []string `yaml:"initial"`
	Goals   []string `yaml:"goals"`
}

type parameterDoc struct {
	Name     string   `yaml:"name"`
	Context  string   `yaml:"context"`
	Kind     string   `yaml:"kind"`
	Values   []string `yaml:"values"`
	AskFirst bool     `yaml:"ask_first"`
}

type conditionDoc struct {
	Param   string `yaml:"param"`
	Context string `yaml:"context"`
	Op      string `yaml:"op"`
	Value   string `yaml:"value"`
}

type ruleDoc struct {
	Num  int            `yaml:"num"`
	CF   float64        `yaml:"cf"`
	If   []conditionDoc `yaml:"if"`
	Then []conditionDoc `yaml:"then"`
}

// Load reads and parses the YAML knowledge base at path.
func Load(path string) (*domain.KnowledgeBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading knowledge base: %w", err)
	}
	return Parse(data)
}

// Parse builds a validated knowledge base from a YAML document.
func Parse(data []byte) (*domain.KnowledgeBase, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing knowledge base: %w", err)
	}
	if doc.Name == "" {
		return nil, fmt.Errorf("%w: missing name", ErrInvalidDocument)
	}

	kb := domain.NewKnowledgeBase(doc.Name)

	for _, cd := range doc.Contexts {
		err := kb.DefineContext(&domain.Context{
			Name:    cd.Name,
			Initial: cd.Initial,
			Goals:   cd.Goals,
		})
		if err != nil {
			return nil, fmt.Errorf("context %q: %w", cd.Name, err)
		}
	}

	for _, pd := range doc.Parameters {
		err := kb.DefineParameter(&domain.Parameter{
			Name:     pd.Name,
			Context:  pd.Context,
			Kind:     domain.ValueKind(pd.Kind),
			Enum:     pd.Values,
			AskFirst: pd.AskFirst,
		})
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", pd.Name, err)
		}
	}

	for _, rd := range doc.Rules {
		premises, err := buildConditions(kb, rd.If)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", rd.Num, err)
		}
		conclusions, err := buildConditions(kb, rd.Then)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", rd.Num, err)
		}
		err = kb.DefineRule(&domain.Rule{
			Num:         rd.Num,
			Premises:    premises,
			Conclusions: conclusions,
			CF:          cf.Factor(rd.CF),
		})
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", rd.Num, err)
		}
	}

	return kb, nil
}

func buildConditions(kb *domain.KnowledgeBase, docs []conditionDoc) ([]domain.Condition, error) {
	conds := make([]domain.Condition, 0, len(docs))
	for _, cd := range docs {
		op, err := domain.ParseOperator(cd.Op)
		if err != nil {
			return nil, fmt.Errorf("condition %q: %w", cd.Param, err)
		}
		p, err := kb.Parameter(cd.Param)
		if err != nil {
			return nil, fmt.Errorf("condition %q: %w", cd.Param, err)
		}
		val, err := p.Parse(cd.Value)
		if err != nil {
			return nil, fmt.Errorf("condition %q: %w", cd.Param, err)
		}
		conds = append(conds, domain.Condition{
			Param:   cd.Param,
			Context: cd.Context,
			Op:      op,
			Value:   val,
		})
	}
	return conds, nil
}
