package estimate

import (
	"github.com/vbonduro/installquote/internal/domain"
	"github.com/vbonduro/installquote/internal/pricing"
)

// Support is the recurring support plan selected for a quote.
type Support struct {
	Tier   int                  `json:"tier"`
	Period domain.SupportPeriod `json:"period"`
}

// Input is everything a breakdown is derived from.
type Input struct {
	Location domain.Location
	Support  Support
}

// BuildRequest serializes the priced fields of in into the authority request.
func BuildRequest(in Input) pricing.Request {
	loc := in.Location.Clone()
	period := in.Support.Period
	if period == "" {
		period = domain.PeriodMonthly
	}
	req := pricing.Request{
		Floors:                  loc.Floors,
		Travel:                  loc.Travel,
		IntegrationIDs:          loc.IntegrationIDs,
		SupportTier:             in.Support.Tier,
		SupportPeriod:           period,
		SubscriptionDiscountPct: loc.SubscriptionDiscountPct,
	}
	if req.Floors == nil {
		req.Floors = []domain.Floor{}
	}
	if req.IntegrationIDs == nil {
		req.IntegrationIDs = []string{}
	}
	if g := loc.GoLive; g != nil {
		req.GoLiveSupportEnabled = g.Enabled
		req.GoLiveSupportDays = g.Days
		req.GoLiveSupportDate = g.Date
	}
	return req
}

const travelToBeDiscussed = "Travel (to be discussed)"

// Normalize converts an authority quote into the breakdown shown for the
// location. The support cost follows the requested period, and a location
// that needs a travel discussion shows a single zero-cost travel line.
func Normalize(locID string, req pricing.Request, q pricing.Quote) domain.EstimateBreakdown {
	s := q.Summary
	b := domain.EstimateBreakdown{
		LocationID: locID,
		Items:      make([]domain.LineItem, 0, len(q.Items)),
		Summary: domain.EstimateSummary{
			HardwareCost:      s.HardwareCost,
			OverheadCost:      s.OverheadCost,
			IntegrationsCost:  s.IntegrationsCost,
			CablingCost:       s.CablingCost,
			InstallCost:       s.InstallCost,
			TravelCost:        s.TravelCost,
			SupportCost:       s.SupportMonthly,
			SupportPeriod:     domain.PeriodMonthly,
			GoLiveSupportCost: s.GoLiveSupportCost,
			GoLiveSupportDays: s.GoLiveSupportDays,
			TotalFirst:        s.TotalFirst,
		},
		Time: q.TimeEstimate,
	}
	if req.SupportPeriod == domain.PeriodAnnual {
		b.Summary.SupportCost = s.SupportAnnual
		b.Summary.SupportPeriod = domain.PeriodAnnual
	}

	discuss := req.Travel.TravelDiscussionRequired
	placed := false
	for _, it := range q.Items {
		if discuss && it.Type == pricing.ItemTravel {
			if !placed {
				b.Items = append(b.Items, domain.LineItem{Type: pricing.ItemTravel, Label: travelToBeDiscussed})
				placed = true
			}
			continue
		}
		b.Items = append(b.Items, it)
	}
	if discuss {
		if !placed {
			b.Items = append(b.Items, domain.LineItem{Type: pricing.ItemTravel, Label: travelToBeDiscussed})
		}
		b.Summary.TotalFirst = round2(b.Summary.TotalFirst - s.TravelCost)
		b.Summary.TravelCost = 0
		b.TravelToBeDiscussed = true
	}
	return b
}
