// Package pricing is the reference cost authority: it turns a location's
// floors and settings into priced line items using an injected rate table.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/vbonduro/installquote/internal/cable"
	"github.com/vbonduro/installquote/internal/catalog"
	"github.com/vbonduro/installquote/internal/domain"
)

var ErrInvalidRequest = errors.New("invalid quote request")

// Engine prices requests deterministically: the same request always yields
// the same quote.
type Engine struct {
	rates   Rates
	catalog *catalog.Catalog
}

func NewEngine(rates Rates, c *catalog.Catalog) *Engine {
	if c == nil {
		c = catalog.Default()
	}
	if rates.TimeRangeFactor < 1 {
		rates.TimeRangeFactor = 1
	}
	return &Engine{rates: rates, catalog: c}
}

func (e *Engine) Rates() Rates {
	return e.rates
}

// billable reports whether an item with these flags is charged. Existing
// equipment is free unless it is being replaced.
func billable(existing, replace bool) bool {
	return !existing || replace
}

type hardwareLine struct {
	id    string
	name  string
	count int
	price float64
}

func (e *Engine) Quote(req Request) (Quote, error) {
	if req.SupportTier < 0 || req.SupportTier >= len(e.rates.SupportTiers) {
		return Quote{}, fmt.Errorf("support tier %d: %w", req.SupportTier, ErrInvalidRequest)
	}
	switch req.SupportPeriod {
	case "":
		req.SupportPeriod = domain.PeriodMonthly
	case domain.PeriodMonthly, domain.PeriodAnnual:
	default:
		return Quote{}, fmt.Errorf("support period %q: %w", req.SupportPeriod, ErrInvalidRequest)
	}
	if req.SubscriptionDiscountPct < 0 || req.SubscriptionDiscountPct > 100 {
		return Quote{}, fmt.Errorf("discount %v: %w", req.SubscriptionDiscountPct, ErrInvalidRequest)
	}

	var (
		items        []domain.LineItem
		s            Summary
		laborMinutes int
	)

	hw := map[string]*hardwareLine{}
	var installMinutes, stations, runs int
	var cableFt float64
	var cableMinutes int
	for _, f := range req.Floors {
		for _, st := range f.Stations {
			if billable(st.Flags.Existing, st.Flags.Replace) {
				stations++
			}
			for _, a := range st.Hardware {
				if !billable(a.Existing, a.Replace) {
					continue
				}
				line, ok := hw[a.HardwareID]
				if !ok {
					line = &hardwareLine{id: a.HardwareID, name: a.HardwareID, price: e.rates.hardwarePrice(a.HardwareID)}
					if item, found := e.catalog.Hardware(a.HardwareID); found {
						line.name = item.Name
					}
					hw[a.HardwareID] = line
				}
				line.count++
				if item, found := e.catalog.Hardware(a.HardwareID); found {
					installMinutes += item.InstallMinutes
				}
			}
		}
		for _, l := range f.Layers {
			if l.Type != domain.LayerNetwork {
				continue
			}
			for _, r := range l.CableRuns {
				ft, mins := cable.Resolve(r.Start, r.End, f.ScalePxPerFt)
				runs++
				cableFt += ft
				cableMinutes += mins
			}
		}
	}

	ids := make([]string, 0, len(hw))
	for id := range hw {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		line := hw[id]
		cost := cents(line.price * float64(line.count))
		s.HardwareCost += cost
		items = append(items, domain.LineItem{
			Type:  ItemHardware,
			Label: fmt.Sprintf("%s x%d", line.name, line.count),
			Cost:  cost,
		})
	}
	if installMinutes > 0 {
		s.InstallCost = e.labor(installMinutes)
		items = append(items, domain.LineItem{
			Type:  ItemInstall,
			Label: fmt.Sprintf("Hardware installation (%d min)", installMinutes),
			Cost:  s.InstallCost,
		})
	}
	laborMinutes += installMinutes

	if stations > 0 {
		overheadMinutes := stations * e.rates.StationOverheadMinutes
		s.OverheadCost = e.labor(overheadMinutes)
		items = append(items, domain.LineItem{
			Type:  ItemOverhead,
			Label: fmt.Sprintf("Station setup (%d stations)", stations),
			Cost:  s.OverheadCost,
		})
		laborMinutes += overheadMinutes
	}

	for _, id := range uniqueSorted(req.IntegrationIDs) {
		name, minutes := id, 0
		if item, ok := e.catalog.Integration(id); ok {
			name, minutes = item.Name, item.InstallMinutes
		}
		cost := cents(e.rates.IntegrationPrices[id] + e.labor(minutes))
		s.IntegrationsCost += cost
		laborMinutes += minutes
		items = append(items, domain.LineItem{Type: ItemIntegration, Label: name, Cost: cost})
	}

	if runs > 0 {
		cableFt = math.Round(cableFt*10) / 10
		s.CablingCost = cents(cableFt*e.rates.CableMaterialPerFt + e.labor(cableMinutes))
		items = append(items, domain.LineItem{
			Type:  ItemCabling,
			Label: fmt.Sprintf("Network cabling (%d runs, %.1f ft)", runs, cableFt),
			Cost:  s.CablingCost,
		})
		laborMinutes += cableMinutes
	}

	items = append(items, e.travel(req.Travel, &s)...)

	if req.GoLiveSupportEnabled && req.GoLiveSupportDays > 0 {
		s.GoLiveSupportDays = req.GoLiveSupportDays
		s.GoLiveSupportCost = cents(float64(req.GoLiveSupportDays) * e.rates.GoLiveDailyRate)
		label := fmt.Sprintf("Go-live support (%d days)", req.GoLiveSupportDays)
		if req.GoLiveSupportDate != "" {
			label += " from " + req.GoLiveSupportDate
		}
		items = append(items, domain.LineItem{Type: ItemGoLive, Label: label, Cost: s.GoLiveSupportCost})
	}

	tier := e.rates.SupportTiers[req.SupportTier]
	s.SupportMonthly, s.SupportAnnual = e.support(tier, s.HardwareCost+s.IntegrationsCost, req.SubscriptionDiscountPct)
	support := s.SupportMonthly
	if req.SupportPeriod == domain.PeriodAnnual {
		support = s.SupportAnnual
	}
	if support > 0 {
		items = append(items, domain.LineItem{
			Type:  ItemSupport,
			Label: fmt.Sprintf("%s support (%s)", tier.Name, req.SupportPeriod),
			Cost:  support,
		})
	}

	s.HardwareCost = cents(s.HardwareCost)
	s.IntegrationsCost = cents(s.IntegrationsCost)
	s.TotalFirst = cents(s.HardwareCost + s.InstallCost + s.OverheadCost + s.IntegrationsCost +
		s.CablingCost + s.TravelCost + s.GoLiveSupportCost + support)

	sortItems(items)
	hours := float64(laborMinutes) / 60
	return Quote{
		Items:   items,
		Summary: s,
		TimeEstimate: domain.TimeEstimate{
			MinHours: math.Round(hours*10) / 10,
			MaxHours: math.Round(hours*e.rates.TimeRangeFactor*10) / 10,
		},
	}, nil
}

func (e *Engine) travel(t domain.TravelSettings, s *Summary) []domain.LineItem {
	if t.ServiceMode == domain.ModeRemote || t.Remote {
		return nil
	}
	fee := e.rates.Travel.For(t.Zone)
	label := fmt.Sprintf("Travel (%s)", t.Zone)
	if t.ServiceMode == domain.ModeHybrid {
		fee *= e.rates.HybridTravelFactor
		label = fmt.Sprintf("Travel (%s, hybrid)", t.Zone)
	}
	items := []domain.LineItem{{Type: ItemTravel, Label: label, Cost: cents(fee)}}
	s.TravelCost = cents(fee)
	if t.Zone == domain.ZoneIsland {
		if t.Island.VehicleFerry {
			items = append(items, domain.LineItem{Type: ItemTravel, Label: "Vehicle ferry", Cost: cents(e.rates.IslandFerryFee)})
			s.TravelCost += cents(e.rates.IslandFerryFee)
		}
		if t.Island.Lodging {
			items = append(items, domain.LineItem{Type: ItemTravel, Label: "Lodging", Cost: cents(e.rates.IslandLodgingFee)})
			s.TravelCost += cents(e.rates.IslandLodgingFee)
		}
	}
	s.TravelCost = cents(s.TravelCost)
	return items
}

func (e *Engine) support(tier SupportTier, base, discountPct float64) (monthly, annual float64) {
	if tier.MonthlyPct <= 0 && tier.MinMonthly <= 0 {
		return 0, 0
	}
	monthly = math.Max(base*tier.MonthlyPct/100, tier.MinMonthly)
	monthly = cents(monthly * (1 - discountPct/100))
	annual = cents(monthly * 12 * (1 - e.rates.AnnualDiscountPct/100))
	return monthly, annual
}

func (e *Engine) labor(minutes int) float64 {
	return cents(float64(minutes) / 60 * e.rates.HourlyRate)
}

func cents(v float64) float64 {
	return math.Round(v*100) / 100
}

func uniqueSorted(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// sortItems orders by type rank, then label. Travel keeps its base fee first.
func sortItems(items []domain.LineItem) {
	sort.SliceStable(items, func(i, j int) bool {
		ri, rj := itemRank[items[i].Type], itemRank[items[j].Type]
		if ri != rj {
			return ri < rj
		}
		if items[i].Type == ItemTravel {
			return false
		}
		return items[i].Label < items[j].Label
	})
}
