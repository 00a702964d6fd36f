package rates

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// RateUnit enumerates pricing units for a haul route.
type RateUnit string

const (
	UnitPerTrip       RateUnit = "PER_TRIP"
	UnitPerTon        RateUnit = "PER_TON"
	UnitPerHour       RateUnit = "PER_HOUR"
	UnitPerCubicMeter RateUnit = "PER_CBM"
)

// displayNames maps enum values to the labels admins see and enter.
var displayNames = map[RateUnit]string{
	UnitPerTrip:       "Per Trip",
	UnitPerTon:        "Per Ton",
	UnitPerHour:       "Per Hour",
	UnitPerCubicMeter: "Per Cubic Meter",
}

// ParseRateUnit converts a display label or enum value to a RateUnit.
// Unknown inputs fall through to UnitPerTrip, which prices flat.
func ParseRateUnit(s string) RateUnit {
	trimmed := strings.TrimSpace(s)
	for unit, label := range displayNames {
		if strings.EqualFold(trimmed, label) || strings.EqualFold(trimmed, string(unit)) {
			return unit
		}
	}
	return UnitPerTrip
}

// Display returns the human-readable label for the unit.
func (u RateUnit) Display() string {
	if label, ok := displayNames[u]; ok {
		return label
	}
	return displayNames[UnitPerTrip]
}

// Rate is a priced route for a material, scoped to a contractor's site.
type Rate struct {
	ID             int64     `json:"id"`
	SiteID         int64     `json:"site_id"`
	SiteName       string    `json:"site_name"`
	ContractorID   int64     `json:"contractor_id"`
	ContractorName string    `json:"contractor_name"`
	Material       string    `json:"material"`
	LocationFrom   string    `json:"location_from"`
	LocationTo     string    `json:"location_to"`
	Price          float64   `json:"price"`
	Unit           RateUnit  `json:"unit"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateRateInput carries fields for creating a rate.
type CreateRateInput struct {
	SiteID       int64
	Material     string
	LocationFrom string
	LocationTo   string
	Price        float64
	Unit         RateUnit
}

// TripRef is the minimal trip view the resolver and detectors consume.
// The trips repository supplies these; the rates package never reaches
// into trip storage itself.
type TripRef struct {
	ID              int64     `json:"id"`
	Date            time.Time `json:"date"`
	Material        string    `json:"material"`
	From            string    `json:"from"`
	To              string    `json:"to"`
	VehicleCapacity string    `json:"vehicle_capacity"`
}

// NormKey is the normalized (material, from, to) tuple used for matching.
// A struct key avoids the corruption a separator character inside a
// location name would cause with concatenated string keys.
type NormKey struct {
	Material string
	From     string
	To       string
}

// RouteKey is the partial (material, to) tuple used by the mismatch check.
type RouteKey struct {
	Material string
	To       string
}

func normalize(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// KeyFor builds the normalized full key for a rate or trip route.
func KeyFor(material, from, to string) NormKey {
	return NormKey{
		Material: normalize(material),
		From:     normalize(from),
		To:       normalize(to),
	}
}

// PartialKeyFor builds the normalized (material, to) key.
func PartialKeyFor(material, to string) RouteKey {
	return RouteKey{
		Material: normalize(material),
		To:       normalize(to),
	}
}
