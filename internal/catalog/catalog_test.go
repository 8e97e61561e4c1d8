package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLookups(t *testing.T) {
	c := Default()

	h, ok := c.Hardware("pos-terminal")
	require.True(t, ok)
	assert.Equal(t, "terminal", h.Category)
	assert.Positive(t, h.InstallMinutes)

	_, ok = c.Hardware("toaster")
	assert.False(t, ok)

	i, ok := c.Integration("loyalty")
	require.True(t, ok)
	assert.Equal(t, "Loyalty Program", i.Name)
}

func TestItemsSorted(t *testing.T) {
	c := Default()
	items := c.HardwareItems()
	require.NotEmpty(t, items)
	for i := 1; i < len(items); i++ {
		assert.Less(t, items[i-1].ID, items[i].ID)
	}
	ints := c.Integrations()
	for i := 1; i < len(ints); i++ {
		assert.Less(t, ints[i-1].ID, ints[i].ID)
	}
}

func TestMatchHardware(t *testing.T) {
	c := Default()
	tests := []struct {
		name    string
		product string
		want    string
		found   bool
	}{
		{name: "exact id", product: "router", want: "router", found: true},
		{name: "display name", product: "Kitchen Display Screen", want: "kds-screen", found: true},
		{name: "kitchen printer before generic printer", product: "Epson Kitchen Printer TM-U220", want: "kitchen-printer", found: true},
		{name: "generic printer", product: "Star TSP143 Printer", want: "receipt-printer", found: true},
		{name: "card reader", product: "Card Reader v2", want: "card-reader", found: true},
		{name: "blank", product: "  ", found: false},
		{name: "unknown", product: "Espresso Machine", found: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.MatchHardware(tt.product)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchIntegration(t *testing.T) {
	c := Default()

	id, ok := c.MatchIntegration("Online Ordering")
	assert.True(t, ok)
	assert.Equal(t, "online-ordering", id)

	id, ok = c.MatchIntegration("payroll")
	assert.True(t, ok)
	assert.Equal(t, "payroll", id)

	_, ok = c.MatchIntegration("Spreadsheet Wizard")
	assert.False(t, ok)
}
