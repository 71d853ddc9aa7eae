package handlers

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKBHandler_Get(t *testing.T) {
	kb := handlerKB(t)
	h := NewKBHandler(kb)
	r := chi.NewRouter()
	r.Get("/v1/kb", h.Get)

	w := doJSON(t, r, http.MethodGet, "/v1/kb", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp kbResponse
	require.NoError(t, decodeInto(w, &resp))

	assert.Equal(t, "threshold", resp.Name)

	require.Len(t, resp.Contexts, 1)
	assert.Equal(t, "c", resp.Contexts[0].Name)
	assert.Equal(t, []string{"x"}, resp.Contexts[0].Initial)
	assert.Equal(t, []string{"y"}, resp.Contexts[0].Goals)

	require.Len(t, resp.Parameters, 2)
	assert.Equal(t, "x", resp.Parameters[0].Name)
	assert.True(t, resp.Parameters[0].AskFirst)
	assert.Equal(t, "y", resp.Parameters[1].Name)
	assert.Equal(t, []string{"lo", "hi"}, resp.Parameters[1].Values)

	require.Len(t, resp.Rules, 1)
	assert.Equal(t, 1, resp.Rules[0].Num)
	assert.InDelta(t, 0.9, resp.Rules[0].CF, 1e-9)
	assert.Contains(t, resp.Rules[0].Text, "RULE 1")
	assert.Contains(t, resp.Rules[0].Text, "x c ge 10")
}
