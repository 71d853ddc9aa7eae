package engine

import (
	"errors"
	"testing"

	"github.com/inferlab/inquest/internal/cf"
	"github.com/inferlab/inquest/internal/domain"
)

func TestParseReply(t *testing.T) {
	site := &domain.Parameter{Name: "site", Context: "c", Kind: domain.KindEnum, Enum: []string{"blood", "urine"}}
	age := &domain.Parameter{Name: "age", Context: "c", Kind: domain.KindInt}
	name := &domain.Parameter{Name: "name", Context: "c", Kind: domain.KindString}

	tests := []struct {
		name  string
		param *domain.Parameter
		raw   string
		want  []replyEntry
	}{
		{
			name:  "single enum value is certain",
			param: site,
			raw:   "blood",
			want:  []replyEntry{{val: "blood", cf: cf.True}},
		},
		{
			name:  "single int value",
			param: age,
			raw:   "15",
			want:  []replyEntry{{val: 15, cf: cf.True}},
		},
		{
			name:  "commaless reply is one value even with spaces",
			param: name,
			raw:   "John Smith",
			want:  []replyEntry{{val: "John Smith", cf: cf.True}},
		},
		{
			name:  "value certainty pairs",
			param: site,
			raw:   "blood 0.3, urine 0.5",
			want:  []replyEntry{{val: "blood", cf: 0.3}, {val: "urine", cf: 0.5}},
		},
		{
			name:  "ragged spacing tolerated in pairs",
			param: site,
			raw:   "blood  0.3 ,  urine   0.5",
			want:  []replyEntry{{val: "blood", cf: 0.3}, {val: "urine", cf: 0.5}},
		},
		{
			name:  "negative certainty is on the scale",
			param: site,
			raw:   "blood -0.4, urine 0.5",
			want:  []replyEntry{{val: "blood", cf: -0.4}, {val: "urine", cf: 0.5}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseReply(tt.param, tt.raw)
			if err != nil {
				t.Fatalf("parseReply(%q) error = %v", tt.raw, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseReply(%q) = %v, want %v", tt.raw, got, tt.want)
			}
			for i := range got {
				if got[i].val != tt.want[i].val || got[i].cf != tt.want[i].cf {
					t.Errorf("entry %d = {%v %v}, want {%v %v}", i, got[i].val, got[i].cf, tt.want[i].val, tt.want[i].cf)
				}
			}
		})
	}
}

func TestParseReply_Errors(t *testing.T) {
	site := &domain.Parameter{Name: "site", Context: "c", Kind: domain.KindEnum, Enum: []string{"blood", "urine"}}

	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"single value outside enum", "sputum", domain.ErrBadValue},
		{"pair value outside enum", "sputum 0.3, urine 0.5", domain.ErrBadValue},
		{"certainty not a number", "blood x, urine 0.5", errBadCertainty},
		{"certainty off the scale", "blood 1.5, urine 0.5", errBadCertainty},
		{"certainty below the scale", "blood -1.5, urine 0.5", errBadCertainty},
		{"pair with extra token", "blood 0.3 extra, urine 0.5", errMalformedPair},
		{"pair missing certainty", "blood, urine 0.5", errMalformedPair},
		{"empty pair between commas", "blood 0.3, , urine 0.5", errMalformedPair},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseReply(site, tt.raw); !errors.Is(err, tt.want) {
				t.Errorf("parseReply(%q) error = %v, want %v", tt.raw, err, tt.want)
			}
		})
	}
}
