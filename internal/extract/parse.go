package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrNoJSON = errors.New("no JSON object in model response")

// maxQuantity caps station-group and item quantities read from a model
// response.
const maxQuantity = 100

// ParseResponse decodes a model response into a Result. Code fences and
// prose around the JSON object are ignored. Quantities are clamped to
// [1, maxQuantity].
func ParseResponse(raw string) (*Result, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return nil, ErrNoJSON
	}

	res := &Result{}
	if err := json.Unmarshal([]byte(raw[start:end+1]), res); err != nil {
		return nil, fmt.Errorf("failed to decode extraction: %w", err)
	}
	res.RawResponse = raw

	for gi := range res.StationGroups {
		g := &res.StationGroups[gi]
		g.Name = strings.TrimSpace(g.Name)
		g.Quantity = clampQuantity(g.Quantity)
		g.Items = cleanItems(g.Items)
	}
	res.UngroupedItems = cleanItems(res.UngroupedItems)
	if res.ClientInfo != nil && res.ClientInfo.Name == "" && res.ClientInfo.Address == "" {
		res.ClientInfo = nil
	}
	return res, nil
}

func cleanItems(items []Item) []Item {
	out := items[:0]
	for _, it := range items {
		it.ProductName = strings.TrimSpace(it.ProductName)
		if it.ProductName == "" && len(it.MappedHardwareIDs) == 0 {
			continue
		}
		it.Quantity = clampQuantity(it.Quantity)
		out = append(out, it)
	}
	return out
}

func clampQuantity(n int) int {
	return min(max(n, 1), maxQuantity)
}
