package handlers

import (
	"net/http"

	"github.com/inferlab/inquest/internal/domain"
)

// KBHandler exposes a read-only view of the loaded knowledge base.
type KBHandler struct {
	kb *domain.KnowledgeBase
}

func NewKBHandler(kb *domain.KnowledgeBase) *KBHandler {
	return &KBHandler{kb: kb}
}

type kbContextResponse struct {
	Name    string   `json:"name"`
	Initial []string `json:"initial,omitempty"`
	Goals   []string `json:"goals,omitempty"`
}

type kbParameterResponse struct {
	Name     string   `json:"name"`
	Context  string   `json:"context"`
	Kind     string   `json:"kind"`
	Values   []string `json:"values,omitempty"`
	AskFirst bool     `json:"ask_first,omitempty"`
}

type kbRuleResponse struct {
	Num  int     `json:"num"`
	CF   float64 `json:"cf"`
	Text string  `json:"text"`
}

type kbResponse struct {
	Name       string                `json:"name"`
	Contexts   []kbContextResponse   `json:"contexts"`
	Parameters []kbParameterResponse `json:"parameters"`
	Rules      []kbRuleResponse      `json:"rules"`
}

// Get dumps the knowledge base in declaration order.
func (h *KBHandler) Get(w http.ResponseWriter, r *http.Request) {
	resp := kbResponse{Name: h.kb.Name}

	for _, c := range h.kb.Contexts() {
		resp.Contexts = append(resp.Contexts, kbContextResponse{
			Name:    c.Name,
			Initial: c.Initial,
			Goals:   c.Goals,
		})
	}
	for _, p := range h.kb.Parameters() {
		resp.Parameters = append(resp.Parameters, kbParameterResponse{
			Name:     p.Name,
			Context:  p.Context,
			Kind:     string(p.Kind),
			Values:   p.Enum,
			AskFirst: p.AskFirst,
		})
	}
	for _, rule := range h.kb.Rules() {
		resp.Rules = append(resp.Rules, kbRuleResponse{
			Num:  rule.Num,
			CF:   float64(rule.CF),
			Text: rule.String(),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}
