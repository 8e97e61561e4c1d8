package claude

import (
	"context"
	"fmt"
	"io"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/vbonduro/installquote/internal/catalog"
	"github.com/vbonduro/installquote/internal/extract"
)

// maxTokens covers a large multi-station order with room to spare.
const maxTokens = 4096

type ClaudeExtractor struct {
	client  *anthropic.Client
	model   string
	catalog *catalog.Catalog
}

// NewClaudeExtractor builds an extractor. A non-empty baseURL overrides the
// Anthropic API endpoint.
func NewClaudeExtractor(apiKey, model, baseURL string, c *catalog.Catalog) *ClaudeExtractor {
	var opts []anthropic.ClientOption
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	if c == nil {
		c = catalog.Default()
	}
	return &ClaudeExtractor{
		client:  anthropic.NewClient(apiKey, opts...),
		model:   model,
		catalog: c,
	}
}

func (e *ClaudeExtractor) Extract(ctx context.Context, r io.Reader) (*extract.Result, error) {
	doc, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	resp, err := e.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(e.model),
		System:    extract.SystemPrompt,
		MaxTokens: maxTokens,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(extract.BuildPrompt(e.catalog, string(doc))),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call claude: %w", err)
	}

	var text string
	for _, c := range resp.Content {
		if c.Type == anthropic.MessagesContentTypeText {
			text += c.GetText()
		}
	}

	res, err := extract.ParseResponse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse claude response: %w", err)
	}
	return res, nil
}
