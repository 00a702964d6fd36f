package rates

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectConflictsCleanListReportsNothing(t *testing.T) {
	list := []Rate{
		{Material: "Sand", LocationFrom: "Quarry A", LocationTo: "Site B", Price: 500, Unit: UnitPerTrip, ContractorName: "Alpha"},
		{Material: "Gravel", LocationFrom: "Pit 1", LocationTo: "Site X", Price: 250, Unit: UnitPerTrip, ContractorName: "Beta"},
	}
	require.Empty(t, DetectConflicts(list))
}

func TestDetectConflictsSamePriceAcrossContractorsIsFine(t *testing.T) {
	list := []Rate{
		{Material: "Sand", LocationFrom: "Quarry A", LocationTo: "Site B", Price: 500, Unit: UnitPerTrip, ContractorName: "Alpha", SiteName: "North"},
		{Material: "sand", LocationFrom: "quarry a", LocationTo: "site b", Price: 500, Unit: UnitPerTrip, ContractorName: "Beta", SiteName: "South"},
	}
	require.Empty(t, DetectConflicts(list))
}

func TestDetectConflictsDifferentPriceReportsOneConflict(t *testing.T) {
	list := []Rate{
		{Material: "Sand", LocationFrom: "Quarry A", LocationTo: "Site B", Price: 500, Unit: UnitPerTrip, ContractorName: "Alpha", SiteName: "North"},
		{Material: "sand", LocationFrom: "Quarry A", LocationTo: "site b", Price: 650, Unit: UnitPerTrip, ContractorName: "Beta", SiteName: "South"},
	}
	conflicts := DetectConflicts(list)
	require.Len(t, conflicts, 1)
	require.Equal(t, "sand", conflicts[0].Material)
	require.Len(t, conflicts[0].Entries, 2)
	require.Equal(t, "Alpha", conflicts[0].Entries[0].ContractorName)
	require.Equal(t, 650.0, conflicts[0].Entries[1].Price)
}

func TestDetectConflictsSameContractorDifferentSites(t *testing.T) {
	// Same contractor disagreeing with itself across sites is still a
	// conflict; contractor identity does not matter, only the price.
	list := []Rate{
		{Material: "Rock", LocationFrom: "Pit 2", LocationTo: "Yard", Price: 90, Unit: UnitPerTon, ContractorName: "Alpha", SiteName: "East"},
		{Material: "Rock", LocationFrom: "Pit 2", LocationTo: "Yard", Price: 110, Unit: UnitPerTon, ContractorName: "Alpha", SiteName: "West"},
	}
	conflicts := DetectConflicts(list)
	require.Len(t, conflicts, 1)
}

func TestDetectMismatchesSuggestsExpectedOrigin(t *testing.T) {
	list := []Rate{
		{Material: "gravel", LocationFrom: "Pit 1", LocationTo: "Site X", Price: 100, Unit: UnitPerTrip, ContractorName: "Alpha"},
	}
	trips := []TripRef{
		{ID: 7, Material: "gravel", From: "Pit 2", To: "Site X"},
	}
	result := DetectMismatches(list, trips)
	require.Equal(t, 1, result.Count)
	require.Equal(t, int64(7), result.Items[0].TripID)
	require.Len(t, result.Items[0].Candidates, 1)
	require.Equal(t, "Pit 1", result.Items[0].Candidates[0].ExpectedFrom)
	require.Equal(t, "Alpha", result.Items[0].Candidates[0].ContractorName)
}

func TestDetectMismatchesSkipsExactMatches(t *testing.T) {
	list := []Rate{
		{Material: "gravel", LocationFrom: "Pit 1", LocationTo: "Site X", Price: 100, Unit: UnitPerTrip},
	}
	trips := []TripRef{
		{ID: 1, Material: "Gravel", From: "pit 1", To: "site x"},
	}
	result := DetectMismatches(list, trips)
	require.Zero(t, result.Count)
	require.Empty(t, result.Items)
}

func TestDetectMismatchesIgnoresFullyUnmatchedTrips(t *testing.T) {
	list := []Rate{
		{Material: "gravel", LocationFrom: "Pit 1", LocationTo: "Site X", Price: 100, Unit: UnitPerTrip},
	}
	trips := []TripRef{
		{ID: 2, Material: "gravel", From: "Pit 9", To: "Site Z"},
	}
	result := DetectMismatches(list, trips)
	require.Zero(t, result.Count)
}

func TestDetectMismatchesCollectsAllCandidates(t *testing.T) {
	list := []Rate{
		{Material: "sand", LocationFrom: "Quarry A", LocationTo: "Depot", Price: 100, Unit: UnitPerTrip, ContractorName: "Alpha"},
		{Material: "sand", LocationFrom: "Quarry B", LocationTo: "Depot", Price: 100, Unit: UnitPerTrip, ContractorName: "Beta"},
	}
	trips := []TripRef{
		{ID: 3, Material: "sand", From: "Quarry C", To: "Depot"},
	}
	result := DetectMismatches(list, trips)
	require.Equal(t, 1, result.Count)
	require.Len(t, result.Items[0].Candidates, 2)
}
