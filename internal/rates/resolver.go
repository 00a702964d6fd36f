package rates

import (
	"strconv"
	"strings"
)

// Resolver answers exact-match revenue lookups over a fixed price list.
type Resolver struct {
	byKey map[NormKey]Rate
}

// NewResolver indexes the price list by normalized route key. The list must
// be in its natural (creation) order: on duplicate keys the later rate wins,
// which keeps resolution deterministic. Conflicting prices are the conflict
// report's concern, not the resolver's.
func NewResolver(list []Rate) *Resolver {
	byKey := make(map[NormKey]Rate, len(list))
	for _, r := range list {
		byKey[KeyFor(r.Material, r.LocationFrom, r.LocationTo)] = r
	}
	return &Resolver{byKey: byKey}
}

// revenueFor applies the pricing rule for the rate's unit. Units without an
// explicit rule price flat, same as PER_TRIP.
func revenueFor(r Rate, capacity string) float64 {
	switch r.Unit {
	case UnitPerTon:
		tons, err := strconv.ParseFloat(strings.TrimSpace(capacity), 64)
		if err != nil {
			// Missing or unparseable capacity yields zero revenue, not an error.
			return 0
		}
		return r.Price * tons
	case UnitPerTrip, UnitPerHour, UnitPerCubicMeter:
		return r.Price
	default:
		return r.Price
	}
}

// ResolveTrip returns the estimated revenue for a single trip. Only exact
// matches on the full normalized triple count; anything else is unmatched
// and contributes zero.
func (res *Resolver) ResolveTrip(trip TripRef) (revenue float64, matched bool) {
	rate, ok := res.byKey[KeyFor(trip.Material, trip.From, trip.To)]
	if !ok {
		return 0, false
	}
	return revenueFor(rate, trip.VehicleCapacity), true
}

// Lookup returns the resolved rate for a route, if any.
func (res *Resolver) Lookup(material, from, to string) (Rate, bool) {
	rate, ok := res.byKey[KeyFor(material, from, to)]
	return rate, ok
}

// BatchEstimate aggregates estimated revenue over a trip set.
type BatchEstimate struct {
	MatchedCount int     `json:"matched_count"`
	TotalCount   int     `json:"total_count"`
	TotalRevenue float64 `json:"total_revenue"`
}

// EstimateBatch computes total estimated revenue for a set of trips.
// Unmatched trips contribute zero revenue and only show up in the
// mismatch report.
func (res *Resolver) EstimateBatch(trips []TripRef) BatchEstimate {
	est := BatchEstimate{TotalCount: len(trips)}
	for _, trip := range trips {
		revenue, matched := res.ResolveTrip(trip)
		if !matched {
			continue
		}
		est.MatchedCount++
		est.TotalRevenue += revenue
	}
	return est
}
