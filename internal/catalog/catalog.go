package catalog

import (
	"sort"
	"strings"

	"github.com/vbonduro/installquote/internal/domain"
)

// Catalog is a read-only lookup of hardware and integration items.
type Catalog struct {
	hardware     map[string]domain.HardwareItem
	integrations map[string]domain.IntegrationItem
	keywords     []keyword
}

// keyword maps a product-name fragment to a hardware id. Earlier entries win.
type keyword struct {
	fragment   string
	hardwareID string
}

var defaultHardware = []domain.HardwareItem{
	{ID: "pos-terminal", Category: "terminal", Name: "POS Terminal", InstallMinutes: 45},
	{ID: "pos-terminal-mini", Category: "terminal", Name: "Compact POS Terminal", InstallMinutes: 30},
	{ID: "handheld", Category: "terminal", Name: "Handheld Order Pad", InstallMinutes: 15},
	{ID: "kiosk", Category: "terminal", Name: "Self-Order Kiosk", InstallMinutes: 60},
	{ID: "guest-display", Category: "display", Name: "Guest-Facing Display", InstallMinutes: 20},
	{ID: "kds-screen", Category: "display", Name: "Kitchen Display Screen", InstallMinutes: 40},
	{ID: "order-ready-board", Category: "display", Name: "Order Ready Board", InstallMinutes: 30},
	{ID: "receipt-printer", Category: "printer", Name: "Receipt Printer", InstallMinutes: 20},
	{ID: "kitchen-printer", Category: "printer", Name: "Kitchen Printer", InstallMinutes: 25},
	{ID: "label-printer", Category: "printer", Name: "Label Printer", InstallMinutes: 20},
	{ID: "cash-drawer", Category: "peripheral", Name: "Cash Drawer", InstallMinutes: 10},
	{ID: "barcode-scanner", Category: "peripheral", Name: "Barcode Scanner", InstallMinutes: 10},
	{ID: "card-reader", Category: "payment", Name: "Card Reader", InstallMinutes: 15},
	{ID: "tap-reader", Category: "payment", Name: "Tap-to-Pay Reader", InstallMinutes: 10},
	{ID: "router", Category: "network", Name: "Router", InstallMinutes: 45},
	{ID: "network-switch", Category: "network", Name: "Network Switch", InstallMinutes: 30},
	{ID: "access-point", Category: "network", Name: "Wireless Access Point", InstallMinutes: 30},
	{ID: "lte-backup", Category: "network", Name: "LTE Failover Modem", InstallMinutes: 20},
}

var defaultIntegrations = []domain.IntegrationItem{
	{ID: "accounting", Name: "Accounting Export", InstallMinutes: 45},
	{ID: "delivery", Name: "Third-Party Delivery", InstallMinutes: 60},
	{ID: "gift-cards", Name: "Gift Cards", InstallMinutes: 20},
	{ID: "inventory", Name: "Inventory Management", InstallMinutes: 90},
	{ID: "loyalty", Name: "Loyalty Program", InstallMinutes: 30},
	{ID: "online-ordering", Name: "Online Ordering", InstallMinutes: 60},
	{ID: "payroll", Name: "Payroll", InstallMinutes: 45},
	{ID: "reservations", Name: "Reservations", InstallMinutes: 30},
}

// Fragments are matched against a lower-cased product name.
var defaultKeywords = []keyword{
	{"kitchen display", "kds-screen"},
	{"kds", "kds-screen"},
	{"order ready", "order-ready-board"},
	{"guest display", "guest-display"},
	{"customer display", "guest-display"},
	{"kitchen printer", "kitchen-printer"},
	{"impact printer", "kitchen-printer"},
	{"label printer", "label-printer"},
	{"receipt printer", "receipt-printer"},
	{"thermal printer", "receipt-printer"},
	{"cash drawer", "cash-drawer"},
	{"scanner", "barcode-scanner"},
	{"tap", "tap-reader"},
	{"card reader", "card-reader"},
	{"payment terminal", "card-reader"},
	{"kiosk", "kiosk"},
	{"handheld", "handheld"},
	{"go ", "handheld"},
	{"mini", "pos-terminal-mini"},
	{"terminal", "pos-terminal"},
	{"router", "router"},
	{"switch", "network-switch"},
	{"access point", "access-point"},
	{"lte", "lte-backup"},
	{"printer", "receipt-printer"},
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return New(defaultHardware, defaultIntegrations)
}

func New(hardware []domain.HardwareItem, integrations []domain.IntegrationItem) *Catalog {
	c := &Catalog{
		hardware:     make(map[string]domain.HardwareItem, len(hardware)),
		integrations: make(map[string]domain.IntegrationItem, len(integrations)),
		keywords:     defaultKeywords,
	}
	for _, h := range hardware {
		c.hardware[h.ID] = h
	}
	for _, i := range integrations {
		c.integrations[i.ID] = i
	}
	return c
}

func (c *Catalog) Hardware(id string) (domain.HardwareItem, bool) {
	h, ok := c.hardware[id]
	return h, ok
}

func (c *Catalog) Integration(id string) (domain.IntegrationItem, bool) {
	i, ok := c.integrations[id]
	return i, ok
}

// HardwareItems returns all hardware entries sorted by id.
func (c *Catalog) HardwareItems() []domain.HardwareItem {
	out := make([]domain.HardwareItem, 0, len(c.hardware))
	for _, h := range c.hardware {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Integrations returns all integration entries sorted by id.
func (c *Catalog) Integrations() []domain.IntegrationItem {
	out := make([]domain.IntegrationItem, 0, len(c.integrations))
	for _, i := range c.integrations {
		out = append(out, i)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// MatchHardware maps a free-text product name onto a catalog hardware id.
// An exact id or display-name match wins over keyword fragments.
func (c *Catalog) MatchHardware(productName string) (string, bool) {
	name := strings.ToLower(strings.TrimSpace(productName))
	if name == "" {
		return "", false
	}
	if _, ok := c.hardware[name]; ok {
		return name, true
	}
	for _, h := range c.hardware {
		if strings.ToLower(h.Name) == name {
			return h.ID, true
		}
	}
	for _, k := range c.keywords {
		if strings.Contains(name+" ", k.fragment) {
			if _, ok := c.hardware[k.hardwareID]; ok {
				return k.hardwareID, true
			}
		}
	}
	return "", false
}

// MatchIntegration maps a software id or name onto a catalog integration id.
func (c *Catalog) MatchIntegration(idOrName string) (string, bool) {
	v := strings.ToLower(strings.TrimSpace(idOrName))
	if v == "" {
		return "", false
	}
	if _, ok := c.integrations[v]; ok {
		return v, true
	}
	for _, i := range c.integrations {
		if strings.ToLower(i.Name) == v || strings.Contains(v, strings.ToLower(i.Name)) {
			return i.ID, true
		}
	}
	return "", false
}
