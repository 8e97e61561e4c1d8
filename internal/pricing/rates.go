package pricing

import "github.com/vbonduro/installquote/internal/domain"

// TravelFees are the flat on-site travel fees per zone. Zones that need a
// travel discussion still carry a fee so a quote can be produced once the
// discussion flag is cleared.
type TravelFees struct {
	Cape        float64 `mapstructure:"cape" json:"cape"`
	SouthShore  float64 `mapstructure:"south_shore" json:"southShore"`
	SouthernNE  float64 `mapstructure:"southern_ne" json:"southernNE"`
	NE100Plus   float64 `mapstructure:"ne100plus" json:"ne100plus"`
	Island      float64 `mapstructure:"island" json:"island"`
	OutOfRegion float64 `mapstructure:"out_of_region" json:"outOfRegion"`
}

func (f TravelFees) For(zone domain.TravelZone) float64 {
	switch zone {
	case domain.ZoneCape:
		return f.Cape
	case domain.ZoneSouthShore:
		return f.SouthShore
	case domain.ZoneSouthernNE:
		return f.SouthernNE
	case domain.ZoneNE100Plus:
		return f.NE100Plus
	case domain.ZoneIsland:
		return f.Island
	default:
		return f.OutOfRegion
	}
}

// SupportTier is one selectable recurring support plan. MonthlyPct is a
// percentage of the hardware and integrations value charged per month.
type SupportTier struct {
	Name       string  `mapstructure:"name" json:"name"`
	MonthlyPct float64 `mapstructure:"monthly_pct" json:"monthlyPct"`
	MinMonthly float64 `mapstructure:"min_monthly" json:"minMonthly"`
}

// Rates holds every number the engine prices with.
type Rates struct {
	HourlyRate             float64            `mapstructure:"hourly_rate" json:"hourlyRate"`
	StationOverheadMinutes int                `mapstructure:"station_overhead_minutes" json:"stationOverheadMinutes"`
	HardwarePrices         map[string]float64 `mapstructure:"hardware_prices" json:"hardwarePrices"`
	DefaultHardwarePrice   float64            `mapstructure:"default_hardware_price" json:"defaultHardwarePrice"`
	IntegrationPrices      map[string]float64 `mapstructure:"integration_prices" json:"integrationPrices"`
	CableMaterialPerFt     float64            `mapstructure:"cable_material_per_ft" json:"cableMaterialPerFt"`
	Travel                 TravelFees         `mapstructure:"travel" json:"travel"`
	HybridTravelFactor     float64            `mapstructure:"hybrid_travel_factor" json:"hybridTravelFactor"`
	IslandFerryFee         float64            `mapstructure:"island_ferry_fee" json:"islandFerryFee"`
	IslandLodgingFee       float64            `mapstructure:"island_lodging_fee" json:"islandLodgingFee"`
	SupportTiers           []SupportTier      `mapstructure:"support_tiers" json:"supportTiers"`
	AnnualDiscountPct      float64            `mapstructure:"annual_discount_pct" json:"annualDiscountPct"`
	GoLiveDailyRate        float64            `mapstructure:"go_live_daily_rate" json:"goLiveDailyRate"`
	TimeRangeFactor        float64            `mapstructure:"time_range_factor" json:"timeRangeFactor"`
}

// DefaultRates returns the built-in rate table.
func DefaultRates() Rates {
	return Rates{
		HourlyRate:             95,
		StationOverheadMinutes: 15,
		HardwarePrices: map[string]float64{
			"pos-terminal":      1199,
			"pos-terminal-mini": 799,
			"handheld":          549,
			"kiosk":             2499,
			"guest-display":     299,
			"kds-screen":        899,
			"order-ready-board": 649,
			"receipt-printer":   329,
			"kitchen-printer":   449,
			"label-printer":     279,
			"cash-drawer":       149,
			"barcode-scanner":   129,
			"card-reader":       299,
			"tap-reader":        199,
			"router":            349,
			"network-switch":    229,
			"access-point":      259,
			"lte-backup":        399,
		},
		DefaultHardwarePrice: 250,
		IntegrationPrices: map[string]float64{
			"inventory":       250,
			"online-ordering": 150,
			"delivery":        150,
		},
		CableMaterialPerFt: 0.85,
		Travel: TravelFees{
			Cape:        150,
			SouthShore:  200,
			SouthernNE:  300,
			NE100Plus:   550,
			Island:      650,
			OutOfRegion: 900,
		},
		HybridTravelFactor: 0.5,
		IslandFerryFee:     240,
		IslandLodgingFee:   325,
		SupportTiers: []SupportTier{
			{Name: "None"},
			{Name: "Essential", MonthlyPct: 1.5, MinMonthly: 49},
			{Name: "Priority", MonthlyPct: 2.5, MinMonthly: 99},
			{Name: "Premium", MonthlyPct: 4, MinMonthly: 199},
		},
		AnnualDiscountPct: 10,
		GoLiveDailyRate:   760,
		TimeRangeFactor:   1.25,
	}
}

func (r Rates) hardwarePrice(id string) float64 {
	if p, ok := r.HardwarePrices[id]; ok {
		return p
	}
	return r.DefaultHardwarePrice
}
