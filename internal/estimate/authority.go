package estimate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"

	"github.com/vbonduro/installquote/internal/domain"
	"github.com/vbonduro/installquote/internal/pricing"
)

// ErrAuthority marks a failed or rejected cost-authority call.
var ErrAuthority = errors.New("cost authority failed")

// CostAuthority prices a request. Business rejections come back as a
// response with Success false; transport problems as an error.
type CostAuthority interface {
	Quote(ctx context.Context, req pricing.Request) (pricing.Response, error)
}

// EngineAuthority answers requests with an in-process pricing engine.
type EngineAuthority struct {
	engine *pricing.Engine
}

func NewEngineAuthority(e *pricing.Engine) *EngineAuthority {
	return &EngineAuthority{engine: e}
}

func (a *EngineAuthority) Quote(ctx context.Context, req pricing.Request) (pricing.Response, error) {
	if err := ctx.Err(); err != nil {
		return pricing.Response{}, err
	}
	q, err := a.engine.Quote(req)
	if err != nil {
		return pricing.Response{Success: false, Error: err.Error()}, nil
	}
	return pricing.Response{Success: true, Quote: &q}, nil
}

// HTTPAuthority posts requests to a remote cost authority.
type HTTPAuthority struct {
	url    string
	client *http.Client
}

func NewHTTPAuthority(url string) *HTTPAuthority {
	return &HTTPAuthority{
		url:    url,
		client: &http.Client{},
	}
}

func (a *HTTPAuthority) Quote(ctx context.Context, req pricing.Request) (pricing.Response, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return pricing.Response{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(payload))
	if err != nil {
		return pricing.Response{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return pricing.Response{}, fmt.Errorf("failed to call cost authority: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return pricing.Response{}, fmt.Errorf("failed to read response: %w", err)
	}

	var out pricing.Response
	if err := json.Unmarshal(body, &out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return pricing.Response{}, fmt.Errorf("cost authority returned status %d", resp.StatusCode)
		}
		return pricing.Response{}, fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && out.Success {
		return pricing.Response{}, fmt.Errorf("cost authority returned status %d", resp.StatusCode)
	}
	return out, nil
}

// Compute runs one request through authority and normalizes the answer.
func Compute(ctx context.Context, authority CostAuthority, in Input) (domain.EstimateBreakdown, pricing.Request, error) {
	req := BuildRequest(in)
	resp, err := authority.Quote(ctx, req)
	if err != nil {
		return domain.EstimateBreakdown{}, req, fmt.Errorf("%w: %v", ErrAuthority, err)
	}
	if !resp.Success || resp.Quote == nil {
		msg := resp.Error
		if msg == "" {
			msg = "no quote returned"
		}
		return domain.EstimateBreakdown{}, req, fmt.Errorf("%w: %s", ErrAuthority, msg)
	}
	return Normalize(in.Location.ID, req, *resp.Quote), req, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
