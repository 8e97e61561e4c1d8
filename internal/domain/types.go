package domain

// Point is a position on a floor canvas, in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// HardwareItem is an immutable catalog entry.
type HardwareItem struct {
	ID             string `json:"id"`
	Category       string `json:"category"`
	Name           string `json:"name"`
	InstallMinutes int    `json:"installMinutes"`
}

// IntegrationItem is an immutable catalog entry for a software integration.
type IntegrationItem struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	InstallMinutes int    `json:"installMinutes"`
}

// HardwareAssociation places one catalog hardware item on a station.
type HardwareAssociation struct {
	HardwareID string `json:"hardwareId"`
	Nickname   string `json:"nickname,omitempty"`
	Notes      string `json:"notes,omitempty"`
	Existing   bool   `json:"existing"`
	Replace    bool   `json:"replace"`
	GroupID    string `json:"groupId,omitempty"`
}

type StationFlags struct {
	Existing bool `json:"existing"`
	Replace  bool `json:"replace"`
}

// Station is a point-of-sale position. Hardware keeps insertion order.
type Station struct {
	ID         string                `json:"id"`
	Name       string                `json:"name"`
	Type       string                `json:"type"`
	Color      string                `json:"color"`
	X          float64               `json:"x"`
	Y          float64               `json:"y"`
	W          float64               `json:"w"`
	H          float64               `json:"h"`
	Department string                `json:"department,omitempty"`
	Flags      StationFlags          `json:"flags"`
	Hardware   []HardwareAssociation `json:"hardware"`
}

// FloorObject is a cosmetic annotation such as a wall or table.
type FloorObject struct {
	ID       string  `json:"id"`
	Kind     string  `json:"kind"`
	Color    string  `json:"color,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	W        float64 `json:"w"`
	H        float64 `json:"h"`
	Rotation float64 `json:"rotation"`
}

// FloorLabel is a cosmetic text annotation.
type FloorLabel struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	W        float64 `json:"w"`
	H        float64 `json:"h"`
	FontSize float64 `json:"fontSize"`
	Rotation float64 `json:"rotation"`
}

// CableRun is a network cable segment. LengthFt and TTIMin are derived from
// the endpoints and the owning floor's scale.
type CableRun struct {
	ID       string  `json:"id"`
	Start    Point   `json:"start"`
	End      Point   `json:"end"`
	LengthFt float64 `json:"lengthFt"`
	TTIMin   int     `json:"ttiMin"`
}

type LayerType string

const (
	LayerBase    LayerType = "base"
	LayerNetwork LayerType = "network"
	LayerGeneric LayerType = "generic"
)

type Layer struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Type      LayerType  `json:"type"`
	Visible   bool       `json:"visible"`
	CableRuns []CableRun `json:"cableRuns"`
}

// MinScalePxPerFt is the lowest floor scale accepted; smaller values are clamped.
const MinScalePxPerFt = 4.0

// DefaultScalePxPerFt is the scale given to newly created floors.
const DefaultScalePxPerFt = 16.0

type Floor struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	ScalePxPerFt float64       `json:"scalePxPerFt"`
	Stations     []Station     `json:"stations"`
	Objects      []FloorObject `json:"objects"`
	Labels       []FloorLabel  `json:"labels"`
	Layers       []Layer       `json:"layers"`
}

type TravelZone string

const (
	ZoneCape        TravelZone = "cape"
	ZoneSouthShore  TravelZone = "southShore"
	ZoneSouthernNE  TravelZone = "southernNE"
	ZoneNE100Plus   TravelZone = "ne100plus"
	ZoneIsland      TravelZone = "island"
	ZoneOutOfRegion TravelZone = "outOfRegion"
)

func (z TravelZone) Valid() bool {
	switch z {
	case ZoneCape, ZoneSouthShore, ZoneSouthernNE, ZoneNE100Plus, ZoneIsland, ZoneOutOfRegion:
		return true
	}
	return false
}

type ServiceMode string

const (
	ModeOnsite ServiceMode = "onsite"
	ModeHybrid ServiceMode = "hybrid"
	ModeRemote ServiceMode = "remote"
)

// Valid reports whether m is one of the known service modes.
func (m ServiceMode) Valid() bool {
	switch m {
	case ModeOnsite, ModeHybrid, ModeRemote:
		return true
	}
	return false
}

type IslandOptions struct {
	VehicleFerry bool `json:"vehicleFerry"`
	Lodging      bool `json:"lodging"`
}

type TravelSettings struct {
	Zone                     TravelZone    `json:"zone"`
	ServiceMode              ServiceMode   `json:"serviceMode"`
	Island                   IslandOptions `json:"island"`
	Remote                   bool          `json:"remote"`
	TravelDiscussionRequired bool          `json:"travelDiscussionRequired"`
}

// GoLiveSettings describes optional on-site support during opening days.
// Date is an ISO-8601 calendar date (YYYY-MM-DD) or empty.
type GoLiveSettings struct {
	Enabled bool   `json:"enabled"`
	Days    int    `json:"days"`
	Date    string `json:"date,omitempty"`
}

// Location is one restaurant site. IntegrationIDs is kept sorted and unique.
type Location struct {
	ID                      string          `json:"id"`
	Name                    string          `json:"name"`
	Address                 string          `json:"address"`
	SubscriptionDiscountPct float64         `json:"subscriptionDiscountPct"`
	IntegrationIDs          []string        `json:"integrationIds"`
	Travel                  TravelSettings  `json:"travel"`
	Floors                  []Floor         `json:"floors"`
	GoLive                  *GoLiveSettings `json:"goLive,omitempty"`
}

// HardwareGroup is a reusable, ordered bundle of catalog hardware ids.
type HardwareGroup struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Color       string   `json:"color"`
	HardwareIDs []string `json:"hardwareIds"`
	Collapsed   bool     `json:"collapsed"`
}

type LineItem struct {
	Type  string  `json:"type"`
	Label string  `json:"label"`
	Cost  float64 `json:"cost"`
}

type SupportPeriod string

const (
	PeriodMonthly SupportPeriod = "monthly"
	PeriodAnnual  SupportPeriod = "annual"
)

type EstimateSummary struct {
	HardwareCost      float64       `json:"hardwareCost"`
	OverheadCost      float64       `json:"overheadCost"`
	IntegrationsCost  float64       `json:"integrationsCost"`
	CablingCost       float64       `json:"cablingCost"`
	InstallCost       float64       `json:"installCost"`
	TravelCost        float64       `json:"travelCost"`
	SupportCost       float64       `json:"supportCost"`
	SupportPeriod     SupportPeriod `json:"supportPeriod"`
	GoLiveSupportCost float64       `json:"goLiveSupportCost"`
	GoLiveSupportDays int           `json:"goLiveSupportDays"`
	TotalFirst        float64       `json:"totalFirst"`
}

type TimeEstimate struct {
	MinHours float64 `json:"minHours"`
	MaxHours float64 `json:"maxHours"`
}

// EstimateBreakdown is the display-ready cost summary for one location.
type EstimateBreakdown struct {
	LocationID          string          `json:"locationId"`
	Items               []LineItem      `json:"items"`
	Summary             EstimateSummary `json:"summary"`
	Time                TimeEstimate    `json:"timeEstimate"`
	TravelToBeDiscussed bool            `json:"travelToBeDiscussed"`
}
