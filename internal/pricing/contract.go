package pricing

import "github.com/vbonduro/installquote/internal/domain"

// Request is the cost-authority request for one location.
type Request struct {
	Floors                  []domain.Floor        `json:"floors"`
	Travel                  domain.TravelSettings `json:"travel"`
	IntegrationIDs          []string              `json:"integrationIds"`
	SupportTier             int                   `json:"supportTier"`
	SupportPeriod           domain.SupportPeriod  `json:"supportPeriod"`
	GoLiveSupportEnabled    bool                  `json:"goLiveSupportEnabled,omitempty"`
	GoLiveSupportDays       int                   `json:"goLiveSupportDays,omitempty"`
	GoLiveSupportDate       string                `json:"goLiveSupportDate,omitempty"`
	SubscriptionDiscountPct float64               `json:"subscriptionDiscountPct,omitempty"`
}

// Summary carries both support periods; the caller picks one.
type Summary struct {
	HardwareCost      float64 `json:"hardwareCost"`
	OverheadCost      float64 `json:"overheadCost"`
	IntegrationsCost  float64 `json:"integrationsCost"`
	CablingCost       float64 `json:"cablingCost"`
	InstallCost       float64 `json:"installCost"`
	TravelCost        float64 `json:"travelCost"`
	SupportMonthly    float64 `json:"supportMonthly"`
	SupportAnnual     float64 `json:"supportAnnual"`
	GoLiveSupportCost float64 `json:"goLiveSupportCost"`
	GoLiveSupportDays int     `json:"goLiveSupportDays"`
	TotalFirst        float64 `json:"totalFirst"`
}

type Quote struct {
	Items        []domain.LineItem   `json:"items"`
	Summary      Summary             `json:"summary"`
	TimeEstimate domain.TimeEstimate `json:"timeEstimate"`
}

type Response struct {
	Success bool   `json:"success"`
	Quote   *Quote `json:"quote,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Line item types, in display order.
const (
	ItemHardware    = "hardware"
	ItemInstall     = "install"
	ItemOverhead    = "overhead"
	ItemIntegration = "integration"
	ItemCabling     = "cabling"
	ItemTravel      = "travel"
	ItemGoLive      = "goLive"
	ItemSupport     = "support"
)

var itemRank = map[string]int{
	ItemHardware:    0,
	ItemInstall:     1,
	ItemOverhead:    2,
	ItemIntegration: 3,
	ItemCabling:     4,
	ItemTravel:      5,
	ItemGoLive:      6,
	ItemSupport:     7,
}
