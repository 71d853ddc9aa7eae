package kbfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inferlab/inquest/internal/cf"
	"github.com/inferlab/inquest/internal/domain"
)

const sampleDoc = `
name: bacteremia
contexts:
  - name: patient
    initial: [age]
  - name: organism
    goals: [identity]
parameters:
  - name: age
    context: patient
    kind: int
    ask_first: true
  - name: gram
    context: organism
    kind: enum
    values: [pos, neg]
  - name: identity
    context: organism
    kind: enum
    values: [pseudomonas, enterobacteriaceae]
rules:
  - num: 71
    cf: 0.7
    if:
      - {param: gram, context: organism, op: eq, value: pos}
      - {param: age, context: patient, op: ge, value: 17}
    then:
      - {param: identity, context: organism, op: eq, value: enterobacteriaceae}
`

func TestParse(t *testing.T) {
	kb, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)
	require.NotNil(t, kb)

	assert.Equal(t, "bacteremia", kb.Name)

	patient, err := kb.Context("patient")
	require.NoError(t, err)
	assert.Equal(t, []string{"age"}, patient.Initial)
	assert.Empty(t, patient.Goals)

	organism, err := kb.Context("organism")
	require.NoError(t, err)
	assert.Equal(t, []string{"identity"}, organism.Goals)

	age, err := kb.Parameter("age")
	require.NoError(t, err)
	assert.Equal(t, domain.KindInt, age.Kind)
	assert.True(t, age.AskFirst)

	gram, err := kb.Parameter("gram")
	require.NoError(t, err)
	assert.Equal(t, domain.KindEnum, gram.Kind)
	assert.Equal(t, []string{"pos", "neg"}, gram.Enum)

	rules := kb.RulesFor("identity")
	require.Len(t, rules, 1)
	rule := rules[0]
	assert.Equal(t, 71, rule.Num)
	assert.Equal(t, cf.Factor(0.7), rule.CF)
	require.Len(t, rule.Premises, 2)
	assert.Equal(t, domain.Value("pos"), rule.Premises[0].Value)
	assert.Equal(t, domain.OpGe, rule.Premises[1].Op)
	assert.Equal(t, domain.Value(17), rule.Premises[1].Value, "numeric condition values are coerced to the parameter's kind")
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{
			name: "missing name",
			doc:  "contexts:\n  - name: c\n",
			want: ErrInvalidDocument,
		},
		{
			name: "duplicate context",
			doc:  "name: t\ncontexts:\n  - name: c\n  - name: c\n",
			want: domain.ErrDuplicateContext,
		},
		{
			name: "parameter with unknown kind",
			doc:  "name: t\ncontexts:\n  - name: c\nparameters:\n  - {name: p, context: c, kind: blob}\n",
			want: domain.ErrBadValue,
		},
		{
			name: "parameter under unknown context",
			doc:  "name: t\nparameters:\n  - {name: p, context: c, kind: int}\n",
			want: domain.ErrUnknownContext,
		},
		{
			name: "rule with unknown operator",
			doc: "name: t\ncontexts:\n  - name: c\nparameters:\n  - {name: p, context: c, kind: int}\n" +
				"rules:\n  - num: 1\n    cf: 0.5\n    if:\n      - {param: p, context: c, op: near, value: 3}\n" +
				"    then:\n      - {param: p, context: c, op: eq, value: 3}\n",
			want: domain.ErrBadOperator,
		},
		{
			name: "rule condition over unknown parameter",
			doc: "name: t\ncontexts:\n  - name: c\nparameters:\n  - {name: p, context: c, kind: int}\n" +
				"rules:\n  - num: 1\n    cf: 0.5\n    if:\n      - {param: q, context: c, op: eq, value: 3}\n" +
				"    then:\n      - {param: p, context: c, op: eq, value: 3}\n",
			want: domain.ErrUnknownParameter,
		},
		{
			name: "rule condition value outside the enum",
			doc: "name: t\ncontexts:\n  - name: c\nparameters:\n  - {name: p, context: c, kind: enum, values: [a, b]}\n" +
				"rules:\n  - num: 1\n    cf: 0.5\n    if:\n      - {param: p, context: c, op: eq, value: z}\n" +
				"    then:\n      - {param: p, context: c, op: eq, value: a}\n",
			want: domain.ErrBadValue,
		},
		{
			name: "rule attenuation off the scale",
			doc: "name: t\ncontexts:\n  - name: c\nparameters:\n  - {name: p, context: c, kind: int}\n" +
				"rules:\n  - num: 1\n    cf: 1.5\n    if:\n      - {param: p, context: c, op: ge, value: 3}\n" +
				"    then:\n      - {param: p, context: c, op: eq, value: 3}\n",
			want: domain.ErrBadValue,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParse_MalformedYAML(t *testing.T) {
	_, err := Parse([]byte("name: [unclosed"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleDoc), 0o644))

	kb, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "bacteremia", kb.Name)

	_, err = Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
