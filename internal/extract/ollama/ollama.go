package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/vbonduro/installquote/internal/catalog"
	"github.com/vbonduro/installquote/internal/extract"
)

type OllamaExtractor struct {
	host    string
	model   string
	client  *http.Client
	catalog *catalog.Catalog
}

func NewOllamaExtractor(host, model string, c *catalog.Catalog) *OllamaExtractor {
	if c == nil {
		c = catalog.Default()
	}
	return &OllamaExtractor{
		host:    host,
		model:   model,
		client:  &http.Client{},
		catalog: c,
	}
}

func (e *OllamaExtractor) Extract(ctx context.Context, r io.Reader) (*extract.Result, error) {
	doc, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	reqBody := map[string]interface{}{
		"model":  e.model,
		"system": extract.SystemPrompt,
		"prompt": extract.BuildPrompt(e.catalog, string(doc)),
		"format": "json",
		"stream": false,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.host+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	var respBody struct {
		Response string `json:"response"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	res, err := extract.ParseResponse(respBody.Response)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ollama response: %w", err)
	}
	return res, nil
}
