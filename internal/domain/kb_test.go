package domain

import (
	"errors"
	"testing"
)

func testKB(t *testing.T) *KnowledgeBase {
	t.Helper()
	kb := NewKnowledgeBase("test")
	if err := kb.DefineContext(&Context{Name: "culture", Initial: []string{"site"}}); err != nil {
		t.Fatalf("define context: %v", err)
	}
	if err := kb.DefineContext(&Context{Name: "organism", Goals: []string{"identity"}}); err != nil {
		t.Fatalf("define context: %v", err)
	}
	params := []*Parameter{
		{Name: "site", Context: "culture", Kind: KindEnum, Enum: []string{"blood", "sputum"}, AskFirst: true},
		{Name: "identity", Context: "organism", Kind: KindEnum, Enum: []string{"e.coli", "pseudomonas"}},
	}
	for _, p := range params {
		if err := kb.DefineParameter(p); err != nil {
			t.Fatalf("define parameter %s: %v", p.Name, err)
		}
	}
	return kb
}

func TestKnowledgeBase_DefineValidation(t *testing.T) {
	kb := testKB(t)

	if err := kb.DefineContext(&Context{Name: "culture"}); !errors.Is(err, ErrDuplicateContext) {
		t.Errorf("duplicate context error = %v, want ErrDuplicateContext", err)
	}
	if err := kb.DefineParameter(&Parameter{Name: "site", Context: "culture", Kind: KindString}); !errors.Is(err, ErrDuplicateParameter) {
		t.Errorf("duplicate parameter error = %v, want ErrDuplicateParameter", err)
	}
	if err := kb.DefineParameter(&Parameter{Name: "stain", Context: "slide", Kind: KindString}); !errors.Is(err, ErrUnknownContext) {
		t.Errorf("dangling context error = %v, want ErrUnknownContext", err)
	}
	if err := kb.DefineParameter(&Parameter{Name: "mood", Context: "culture", Kind: ValueKind("vibes")}); !errors.Is(err, ErrBadValue) {
		t.Errorf("bad kind error = %v, want ErrBadValue", err)
	}
	if err := kb.DefineParameter(&Parameter{Name: "flavor", Context: "culture", Kind: KindEnum}); !errors.Is(err, ErrBadValue) {
		t.Errorf("empty enum error = %v, want ErrBadValue", err)
	}

	rule := &Rule{
		Num:         1,
		Premises:    []Condition{{Param: "site", Context: "culture", Op: OpEq, Value: "blood"}},
		Conclusions: []Condition{{Param: "identity", Context: "organism", Op: OpEq, Value: "e.coli"}},
		CF:          0.7,
	}
	if err := kb.DefineRule(rule); err != nil {
		t.Fatalf("define rule: %v", err)
	}
	if err := kb.DefineRule(&Rule{Num: 1, Conclusions: rule.Conclusions}); !errors.Is(err, ErrDuplicateRule) {
		t.Errorf("duplicate rule error = %v, want ErrDuplicateRule", err)
	}
	bad := &Rule{
		Num:         2,
		Premises:    []Condition{{Param: "gram", Context: "organism", Op: OpEq, Value: "neg"}},
		Conclusions: rule.Conclusions,
	}
	if err := kb.DefineRule(bad); !errors.Is(err, ErrUnknownParameter) {
		t.Errorf("dangling parameter error = %v, want ErrUnknownParameter", err)
	}
}

func TestKnowledgeBase_RulesForOrder(t *testing.T) {
	kb := testKB(t)
	for i := 1; i <= 3; i++ {
		r := &Rule{
			Num:         i,
			Conclusions: []Condition{{Param: "identity", Context: "organism", Op: OpEq, Value: "e.coli"}},
			CF:          0.5,
		}
		if err := kb.DefineRule(r); err != nil {
			t.Fatalf("define rule %d: %v", i, err)
		}
	}

	rules := kb.RulesFor("identity")
	if len(rules) != 3 {
		t.Fatalf("RulesFor returned %d rules, want 3", len(rules))
	}
	for i, r := range rules {
		if r.Num != i+1 {
			t.Errorf("rules[%d].Num = %d, want %d", i, r.Num, i+1)
		}
	}
	if got := kb.RulesFor("site"); len(got) != 0 {
		t.Errorf("RulesFor(site) returned %d rules, want 0", len(got))
	}
}

func TestKnowledgeBase_InstantiateCountersPersist(t *testing.T) {
	kb := testKB(t)

	first, err := kb.Instantiate("culture")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := kb.Instantiate("culture")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	other, err := kb.Instantiate("organism")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.Seq != 0 || second.Seq != 1 {
		t.Errorf("culture sequences = %d, %d, want 0, 1", first.Seq, second.Seq)
	}
	if other.Seq != 0 {
		t.Errorf("organism sequence = %d, want 0", other.Seq)
	}
	if first.String() != "culture-0" {
		t.Errorf("instance string = %q, want %q", first.String(), "culture-0")
	}

	if _, err := kb.Instantiate("slide"); !errors.Is(err, ErrUnknownContext) {
		t.Errorf("unknown context error = %v, want ErrUnknownContext", err)
	}
}

func TestParameter_Parse(t *testing.T) {
	tests := []struct {
		name    string
		param   Parameter
		raw     string
		want    Value
		wantErr bool
	}{
		{"enum hit", Parameter{Name: "site", Kind: KindEnum, Enum: []string{"blood", "sputum"}}, "blood", "blood", false},
		{"enum miss", Parameter{Name: "site", Kind: KindEnum, Enum: []string{"blood"}}, "urine", nil, true},
		{"int", Parameter{Name: "age", Kind: KindInt}, "42", 42, false},
		{"int junk", Parameter{Name: "age", Kind: KindInt}, "old", nil, true},
		{"float", Parameter{Name: "temp", Kind: KindFloat}, "37.5", 37.5, false},
		{"bool", Parameter{Name: "burned", Kind: KindBool}, "true", true, false},
		{"bool python style", Parameter{Name: "burned", Kind: KindBool}, "True", true, false},
		{"bool junk", Parameter{Name: "burned", Kind: KindBool}, "maybe", nil, true},
		{"string", Parameter{Name: "name", Kind: KindString}, "John Smith", "John Smith", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.param.Parse(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrBadValue) {
					t.Fatalf("Parse(%q) error = %v, want ErrBadValue", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q): unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v (%T), want %v (%T)", tt.raw, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestParameter_TypeString(t *testing.T) {
	enum := Parameter{Name: "site", Kind: KindEnum, Enum: []string{"blood", "sputum", "urine"}}
	if got := enum.TypeString(); got != "(blood, sputum, urine)" {
		t.Errorf("enum TypeString = %q", got)
	}
	scalar := Parameter{Name: "age", Kind: KindInt}
	if got := scalar.TypeString(); got != "int" {
		t.Errorf("int TypeString = %q", got)
	}
}
