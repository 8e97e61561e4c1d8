package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaExtract(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		var req struct {
			Model  string `json:"model"`
			Format string `json:"format"`
			Prompt string `json:"prompt"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		assert.Equal(t, "json", req.Format)
		assert.Contains(t, req.Prompt, "3x Kitchen Display")

		resp := map[string]interface{}{
			"model":    req.Model,
			"response": `{"ungroupedItems":[{"productName":"Kitchen Display","quantity":3,"mappedHardwareIds":["kds-screen"]}]}`,
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	ex := NewOllamaExtractor(server.URL, "llama3", nil)
	res, err := ex.Extract(context.Background(), strings.NewReader("3x Kitchen Display"))
	require.NoError(t, err)
	require.Len(t, res.UngroupedItems, 1)
	assert.Equal(t, 3, res.UngroupedItems[0].Quantity)
	assert.Equal(t, []string{"kds-screen"}, res.UngroupedItems[0].MappedHardwareIDs)
}

func TestOllamaExtractNetworkError(t *testing.T) {
	ex := NewOllamaExtractor("http://localhost:99999", "llama3", nil)
	_, err := ex.Extract(context.Background(), strings.NewReader("doc"))
	assert.Error(t, err)
}

func TestOllamaExtractServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ex := NewOllamaExtractor(server.URL, "llama3", nil)
	_, err := ex.Extract(context.Background(), strings.NewReader("doc"))
	assert.Error(t, err)
}
