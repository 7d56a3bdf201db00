package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JewelArimattom/CatchMyBus/models"
)

func testBus(name, from, to, busType string, route ...string) models.Bus {
	return models.Bus{
		Name:  name,
		From:  from,
		To:    to,
		Type:  busType,
		Route: models.RouteFromStops(route...),
	}
}

func runMatch(t *testing.T, buses []models.Bus, from, to, typeFilter string) []models.MatchResult {
	t.Helper()
	return matchBuses(context.Background(), buses, from, to, typeFilter, NewEstimator(nil), StaticTimetable{})
}

func TestMatchBusesAlongRoute(t *testing.T) {
	buses := []models.Bus{
		testBus("City Circular", "Aluva", "Vyttila", "Ordinary",
			"Aluva", "Kalamassery", "Edappally", "Vyttila"),
	}

	results := runMatch(t, buses, "Aluva", "Edappally", "")
	require.Len(t, results, 1)

	m := results[0]
	assert.Equal(t, "City Circular", m.BusName)
	assert.Equal(t, matchedByRoute, m.MatchedBy)
	assert.Equal(t, "Aluva", m.From.StopName)
	assert.Equal(t, 0, m.From.Position)
	assert.Equal(t, "Edappally", m.To.StopName)
	assert.Equal(t, 2, m.To.Position)
	assert.Equal(t, 5.0, m.DistanceKM)
}

func TestMatchBusesRejectsReverseDirection(t *testing.T) {
	buses := []models.Bus{
		testBus("City Circular", "Aluva", "Vyttila", "Ordinary",
			"Aluva", "Kalamassery", "Edappally", "Vyttila"),
	}

	results := runMatch(t, buses, "Edappally", "Aluva", "")
	assert.Empty(t, results)
}

func TestMatchBusesSameStop(t *testing.T) {
	buses := []models.Bus{
		testBus("City Circular", "Aluva", "Vyttila", "Ordinary",
			"Aluva", "Kalamassery", "Edappally", "Vyttila"),
	}

	results := runMatch(t, buses, "Kalamassery", "Kalamassery", "")
	require.Len(t, results, 1)

	m := results[0]
	assert.Equal(t, 1, m.From.Position)
	assert.Equal(t, 1, m.To.Position)
	assert.Equal(t, 0.0, m.DistanceKM)
	assert.Equal(t, 10.0, m.Fare)
}

func TestMatchBusesEndpointFallback(t *testing.T) {
	buses := []models.Bus{
		testBus("Kottayam Fast", "Kochi", "Kottayam", "Ordinary"),
	}

	results := runMatch(t, buses, "Kochi", "Kottayam", "")
	require.Len(t, results, 1)

	m := results[0]
	assert.Equal(t, matchedByEndpoints, m.MatchedBy)
	assert.Equal(t, "Kochi", m.From.StopName)
	assert.Equal(t, 0, m.From.Position)
	assert.Equal(t, "Kottayam", m.To.StopName)
	assert.Equal(t, 1, m.To.Position)
	assert.Equal(t, 2.5, m.DistanceKM)
	assert.Equal(t, 13.0, m.Fare)
}

func TestMatchBusesSameStopEndpointFallback(t *testing.T) {
	buses := []models.Bus{
		testBus("Airport Shuttle", "Aluva", "Vyttila", "Ordinary"),
	}

	// Either declared endpoint may carry the repeated stop.
	results := runMatch(t, buses, "alu", "alu", "")
	require.Len(t, results, 1)

	m := results[0]
	assert.Equal(t, matchedByEndpoints, m.MatchedBy)
	assert.Equal(t, "Aluva", m.From.StopName)
	assert.Equal(t, 0, m.From.Position)
	assert.Equal(t, "Vyttila", m.To.StopName)
	assert.Equal(t, 1, m.To.Position)
	assert.Equal(t, 2.5, m.DistanceKM)

	results = runMatch(t, buses, "vytt", "vytt", "")
	require.Len(t, results, 1)
	assert.Equal(t, matchedByEndpoints, results[0].MatchedBy)

	assert.Empty(t, runMatch(t, buses, "kochi", "kochi", ""))
}

func TestMatchBusesPartialStopNames(t *testing.T) {
	buses := []models.Bus{
		testBus("City Circular", "Aluva", "Vyttila", "Ordinary",
			"Aluva", "Kalamassery", "Edappally", "Vyttila"),
	}

	// Query shorter than the stop name.
	results := runMatch(t, buses, "alu", "edappally", "")
	require.Len(t, results, 1)
	assert.Equal(t, "Aluva", results[0].From.StopName)

	// Query longer than the stop name.
	buses = []models.Bus{
		testBus("South Liner", "Ernakulam South", "Tripunithura", "Ordinary",
			"Ernakulam South", "Tripunithura"),
	}
	results = runMatch(t, buses, "Ernakulam South Bus Stand", "Tripunithura", "")
	require.Len(t, results, 1)
	assert.Equal(t, matchedByRoute, results[0].MatchedBy)
}

func TestMatchBusesFallbackNeedsContainedQuery(t *testing.T) {
	buses := []models.Bus{
		testBus("Harbour Link", "Aluva", "Kochi", "Ordinary"),
	}

	// The endpoint tier only accepts queries contained in the candidate
	// names, so a longer query than the stored endpoint does not match.
	results := runMatch(t, buses, "Aluva Junction", "Kochi", "")
	assert.Empty(t, results)

	results = runMatch(t, buses, "alu", "koch", "")
	require.Len(t, results, 1)
	assert.Equal(t, matchedByEndpoints, results[0].MatchedBy)
}

func TestMatchBusesRouteFillsMissingEndpoints(t *testing.T) {
	buses := []models.Bus{
		testBus("Hill Liner", "Fort Kochi", "Piravom", "Ordinary",
			"Vyttila", "Tripunithura"),
	}

	results := runMatch(t, buses, "Fort Kochi", "Tripunithura", "")
	require.Len(t, results, 1)

	m := results[0]
	assert.Equal(t, matchedByRoute, m.MatchedBy)
	assert.Equal(t, "Fort Kochi", m.From.StopName)
	assert.Equal(t, 0, m.From.Position)
	assert.Equal(t, 2, m.To.Position)
}

func TestMatchBusesRouteFromLine(t *testing.T) {
	bus := testBus("Line Runner", "Kochi", "Piravom", "Ordinary")
	bus.Route = models.RouteFromLine("Kochi - Vyttila - Tripunithura - Piravom")

	results := runMatch(t, []models.Bus{bus}, "Vyttila", "Piravom", "")
	require.Len(t, results, 1)
	assert.Equal(t, matchedByRoute, results[0].MatchedBy)
	assert.Equal(t, 1, results[0].From.Position)
	assert.Equal(t, 3, results[0].To.Position)
}

func TestMatchBusesTypeFilter(t *testing.T) {
	buses := []models.Bus{
		testBus("Slow Coach", "Kochi", "Kottayam", "Ordinary"),
		testBus("Red Express", "Kochi", "Kottayam", "Super Fast"),
		testBus("Garuda", "Kochi", "Kottayam", "Volvo"),
	}

	tests := []struct {
		filter   string
		expected int
	}{
		{"", 3},
		{"all", 3},
		{"All", 3},
		{"volvo", 1},
		{"VOLVO", 1},
		{"Super Fast", 1},
		{"Limited Stop", 0},
	}

	for _, tt := range tests {
		t.Run("filter "+tt.filter, func(t *testing.T) {
			results := runMatch(t, buses, "Kochi", "Kottayam", tt.filter)
			assert.Len(t, results, tt.expected)
		})
	}
}

func TestMatchBusesSortedByDeparture(t *testing.T) {
	late := testBus("Late Bird", "Kochi", "Kottayam", "Ordinary", "Kochi", "Kottayam")
	late.Departure = "10:00"
	early := testBus("Early Bird", "Kochi", "Kottayam", "Ordinary", "Kochi", "Kottayam")
	early.Departure = "06:30"
	mid := testBus("Mid Morning", "Kochi", "Kottayam", "Ordinary", "Kochi", "Kottayam")
	mid.Departure = "08:15"

	results := runMatch(t, []models.Bus{late, early, mid}, "Kochi", "Kottayam", "")
	require.Len(t, results, 3)
	assert.Equal(t, "Early Bird", results[0].BusName)
	assert.Equal(t, "Mid Morning", results[1].BusName)
	assert.Equal(t, "Late Bird", results[2].BusName)
}

func TestMatchBusesMixedTiers(t *testing.T) {
	routed := testBus("City Circular", "Aluva", "Vyttila", "Ordinary",
		"Aluva", "Kalamassery", "Vyttila")
	routed.Departure = "07:00"
	coarse := testBus("Aluva Shuttle", "Aluva", "Vyttila", "Ordinary")
	coarse.Departure = "09:00"

	results := runMatch(t, []models.Bus{coarse, routed}, "Aluva", "Vyttila", "")
	require.Len(t, results, 2)
	assert.Equal(t, matchedByRoute, results[0].MatchedBy)
	assert.Equal(t, matchedByEndpoints, results[1].MatchedBy)
}

func TestMatchBusesEmptyCatalog(t *testing.T) {
	results := runMatch(t, nil, "Kochi", "Kottayam", "")
	assert.Empty(t, results)
}

func TestSearchBusesRequiresBothStops(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"missing to", "/api/v1/buses/search?from=Kochi"},
		{"missing from", "/api/v1/buses/search?to=Kottayam"},
		{"missing both", "/api/v1/buses/search"},
		{"blank values", "/api/v1/buses/search?from=%20&to=%20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			rec := httptest.NewRecorder()

			SearchBuses(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Contains(t, body, "error")
			assert.Equal(t, float64(http.StatusBadRequest), body["code"])
		})
	}
}
