package rates

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveTripExactMatch(t *testing.T) {
	list := []Rate{
		{Material: "Sand", LocationFrom: "Quarry A", LocationTo: "Site B", Price: 500, Unit: UnitPerTrip},
	}
	res := NewResolver(list)

	revenue, matched := res.ResolveTrip(TripRef{Material: "sand", From: "quarry a", To: "site b"})
	require.True(t, matched)
	require.Equal(t, 500.0, revenue)
}

func TestResolveTripNoMatchYieldsZero(t *testing.T) {
	list := []Rate{
		{Material: "Sand", LocationFrom: "Quarry A", LocationTo: "Site B", Price: 500, Unit: UnitPerTrip},
	}
	res := NewResolver(list)

	revenue, matched := res.ResolveTrip(TripRef{Material: "Sand", From: "Quarry A", To: "Site C"})
	require.False(t, matched)
	require.Equal(t, 0.0, revenue)
}

func TestResolveTripNormalizesWhitespace(t *testing.T) {
	list := []Rate{
		{Material: " Gravel ", LocationFrom: "PIT 1", LocationTo: "site x", Price: 250, Unit: UnitPerTrip},
	}
	res := NewResolver(list)

	revenue, matched := res.ResolveTrip(TripRef{Material: "gravel", From: "Pit 1", To: "Site X "})
	require.True(t, matched)
	require.Equal(t, 250.0, revenue)
}

func TestResolvePerTonUsesCapacity(t *testing.T) {
	list := []Rate{
		{Material: "Sand", LocationFrom: "Quarry A", LocationTo: "Site B", Price: 20, Unit: UnitPerTon},
	}
	res := NewResolver(list)

	revenue, matched := res.ResolveTrip(TripRef{Material: "Sand", From: "Quarry A", To: "Site B", VehicleCapacity: "15"})
	require.True(t, matched)
	require.Equal(t, 300.0, revenue)
}

func TestResolvePerTonBadCapacityYieldsZero(t *testing.T) {
	list := []Rate{
		{Material: "Sand", LocationFrom: "Quarry A", LocationTo: "Site B", Price: 20, Unit: UnitPerTon},
	}
	res := NewResolver(list)

	for _, capacity := range []string{"", "n/a", "twelve"} {
		revenue, matched := res.ResolveTrip(TripRef{Material: "Sand", From: "Quarry A", To: "Site B", VehicleCapacity: capacity})
		require.True(t, matched, "capacity %q", capacity)
		require.Equal(t, 0.0, revenue, "capacity %q", capacity)
	}
}

func TestResolveUnknownUnitPricesFlat(t *testing.T) {
	list := []Rate{
		{Material: "Sand", LocationFrom: "Quarry A", LocationTo: "Site B", Price: 750, Unit: RateUnit("PER_LOAD")},
	}
	res := NewResolver(list)

	revenue, matched := res.ResolveTrip(TripRef{Material: "Sand", From: "Quarry A", To: "Site B", VehicleCapacity: "10"})
	require.True(t, matched)
	require.Equal(t, 750.0, revenue)
}

func TestResolverLastWriteWinsOnDuplicateKeys(t *testing.T) {
	list := []Rate{
		{ID: 1, Material: "Sand", LocationFrom: "Quarry A", LocationTo: "Site B", Price: 500, Unit: UnitPerTrip},
		{ID: 2, Material: "sand", LocationFrom: "quarry a", LocationTo: "site b", Price: 600, Unit: UnitPerTrip},
	}
	res := NewResolver(list)

	revenue, matched := res.ResolveTrip(TripRef{Material: "Sand", From: "Quarry A", To: "Site B"})
	require.True(t, matched)
	require.Equal(t, 600.0, revenue)
}

func TestStructKeysSurviveSeparatorCharacters(t *testing.T) {
	// With concatenated string keys these two routes would collide:
	// "a|b" + "c" vs "a" + "b|c".
	list := []Rate{
		{Material: "Sand", LocationFrom: "Depot|North", LocationTo: "Yard", Price: 100, Unit: UnitPerTrip},
		{Material: "Sand", LocationFrom: "Depot", LocationTo: "North|Yard", Price: 900, Unit: UnitPerTrip},
	}
	res := NewResolver(list)

	revenue, matched := res.ResolveTrip(TripRef{Material: "Sand", From: "Depot|North", To: "Yard"})
	require.True(t, matched)
	require.Equal(t, 100.0, revenue)

	revenue, matched = res.ResolveTrip(TripRef{Material: "Sand", From: "Depot", To: "North|Yard"})
	require.True(t, matched)
	require.Equal(t, 900.0, revenue)
}

func TestEstimateBatchMatchesPerTripSum(t *testing.T) {
	list := []Rate{
		{Material: "Sand", LocationFrom: "Quarry A", LocationTo: "Site B", Price: 500, Unit: UnitPerTrip},
		{Material: "Gravel", LocationFrom: "Pit 1", LocationTo: "Site X", Price: 20, Unit: UnitPerTon},
	}
	res := NewResolver(list)

	trips := []TripRef{
		{Material: "Sand", From: "Quarry A", To: "Site B"},
		{Material: "gravel", From: "pit 1", To: "site x", VehicleCapacity: "10"},
		{Material: "Sand", From: "Quarry A", To: "Site C"}, // unmatched
	}

	est := res.EstimateBatch(trips)
	require.Equal(t, 3, est.TotalCount)
	require.Equal(t, 2, est.MatchedCount)

	var sum float64
	for _, trip := range trips {
		revenue, _ := res.ResolveTrip(trip)
		sum += revenue
	}
	require.Equal(t, sum, est.TotalRevenue)
	require.Equal(t, 700.0, est.TotalRevenue)
}

func TestEstimateBatchOrderIndependent(t *testing.T) {
	list := []Rate{
		{Material: "Sand", LocationFrom: "A", LocationTo: "B", Price: 100, Unit: UnitPerTrip},
		{Material: "Rock", LocationFrom: "C", LocationTo: "D", Price: 50, Unit: UnitPerTrip},
	}
	res := NewResolver(list)

	forward := []TripRef{
		{Material: "Sand", From: "A", To: "B"},
		{Material: "Rock", From: "C", To: "D"},
		{Material: "Mud", From: "E", To: "F"},
	}
	reversed := []TripRef{forward[2], forward[1], forward[0]}

	require.Equal(t, res.EstimateBatch(forward).TotalRevenue, res.EstimateBatch(reversed).TotalRevenue)
}

func TestParseRateUnitDisplayLabels(t *testing.T) {
	require.Equal(t, UnitPerTrip, ParseRateUnit("Per Trip"))
	require.Equal(t, UnitPerTon, ParseRateUnit("per ton"))
	require.Equal(t, UnitPerHour, ParseRateUnit("PER_HOUR"))
	require.Equal(t, UnitPerCubicMeter, ParseRateUnit("Per Cubic Meter"))
	require.Equal(t, UnitPerTrip, ParseRateUnit("Per Furlong"))
}
