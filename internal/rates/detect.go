package rates

import "time"

// ConflictEntry identifies one rate participating in a price conflict.
type ConflictEntry struct {
	ContractorName string   `json:"contractor_name"`
	SiteName       string   `json:"site_name"`
	Price          float64  `json:"price"`
	Unit           RateUnit `json:"unit"`
}

// Conflict reports a normalized route key priced inconsistently.
type Conflict struct {
	Material string          `json:"material"`
	From     string          `json:"from"`
	To       string          `json:"to"`
	Entries  []ConflictEntry `json:"entries"`
}

// DetectConflicts groups the full rate list by normalized key and reports
// every key carrying more than one distinct price. The same price offered by
// several contractors is expected (shared routes) and is not reported.
func DetectConflicts(list []Rate) []Conflict {
	groups := make(map[NormKey][]Rate)
	order := make([]NormKey, 0, len(list))
	for _, r := range list {
		key := KeyFor(r.Material, r.LocationFrom, r.LocationTo)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], r)
	}

	var conflicts []Conflict
	for _, key := range order {
		group := groups[key]
		if len(group) < 2 {
			continue
		}
		distinct := make(map[float64]struct{}, len(group))
		for _, r := range group {
			distinct[r.Price] = struct{}{}
		}
		if len(distinct) < 2 {
			continue
		}
		conflict := Conflict{Material: key.Material, From: key.From, To: key.To}
		for _, r := range group {
			conflict.Entries = append(conflict.Entries, ConflictEntry{
				ContractorName: r.ContractorName,
				SiteName:       r.SiteName,
				Price:          r.Price,
				Unit:           r.Unit,
			})
		}
		conflicts = append(conflicts, conflict)
	}
	return conflicts
}

// MismatchCandidate suggests the origin a trip's route probably meant.
type MismatchCandidate struct {
	ExpectedFrom   string `json:"expected_from"`
	ContractorName string `json:"contractor_name"`
}

// TripMismatch flags a trip whose (material, to) matches a priced route but
// whose origin does not.
type TripMismatch struct {
	TripID     int64               `json:"trip_id"`
	Date       time.Time           `json:"date"`
	Material   string              `json:"material"`
	From       string              `json:"from"`
	To         string              `json:"to"`
	Candidates []MismatchCandidate `json:"candidates"`
}

// MismatchResult is the advisory report returned to admins.
type MismatchResult struct {
	Items []TripMismatch `json:"items"`
	Count int            `json:"count"`
}

// DetectMismatches surfaces trips that likely carry a wrong origin. Trips
// matching a full route key are fine; trips with no (material, to)
// candidates at all are simply unmatched and stay out of the report.
func DetectMismatches(list []Rate, trips []TripRef) MismatchResult {
	exact := make(map[NormKey]struct{}, len(list))
	candidates := make(map[RouteKey][]MismatchCandidate)
	for _, r := range list {
		exact[KeyFor(r.Material, r.LocationFrom, r.LocationTo)] = struct{}{}
		partial := PartialKeyFor(r.Material, r.LocationTo)
		candidates[partial] = append(candidates[partial], MismatchCandidate{
			ExpectedFrom:   r.LocationFrom,
			ContractorName: r.ContractorName,
		})
	}

	var result MismatchResult
	for _, trip := range trips {
		if _, ok := exact[KeyFor(trip.Material, trip.From, trip.To)]; ok {
			continue
		}
		found, ok := candidates[PartialKeyFor(trip.Material, trip.To)]
		if !ok {
			continue
		}
		result.Items = append(result.Items, TripMismatch{
			TripID:     trip.ID,
			Date:       trip.Date,
			Material:   trip.Material,
			From:       trip.From,
			To:         trip.To,
			Candidates: found,
		})
	}
	result.Count = len(result.Items)
	return result
}
