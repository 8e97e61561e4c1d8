// Package extract turns a quote or order document into candidate hardware
// line items using a language model.
package extract

import (
	"context"
	"io"
)

// Extractor reads a text document and proposes stations and hardware.
type Extractor interface {
	Extract(ctx context.Context, r io.Reader) (*Result, error)
}

type Item struct {
	ProductName       string   `json:"productName"`
	Quantity          int      `json:"quantity"`
	MappedHardwareIDs []string `json:"mappedHardwareIds"`
}

type StationGroup struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Items    []Item `json:"items"`
}

type ClientInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Contact string `json:"contact,omitempty"`
}

type Software struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Result struct {
	StationGroups  []StationGroup `json:"stationGroups"`
	UngroupedItems []Item         `json:"ungroupedItems"`
	ClientInfo     *ClientInfo    `json:"clientInfo,omitempty"`
	Software       []Software     `json:"software,omitempty"`
	RawResponse    string         `json:"-"`
}
