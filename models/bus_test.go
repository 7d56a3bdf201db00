package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusRouteStops(t *testing.T) {
	tests := []struct {
		name     string
		bus      Bus
		expected []string
	}{
		{
			name: "endpoints already present",
			bus: Bus{
				From:  "Kochi",
				To:    "Changanassery",
				Route: RouteFromStops("Kochi", "Kottayam", "Changanassery"),
			},
			expected: []string{"Kochi", "Kottayam", "Changanassery"},
		},
		{
			name: "missing endpoints added",
			bus: Bus{
				From:  "Aluva",
				To:    "Piravom",
				Route: RouteFromStops("Vyttila"),
			},
			expected: []string{"Aluva", "Vyttila", "Piravom"},
		},
		{
			name: "presence check ignores case and punctuation",
			bus: Bus{
				From:  "Kochi.",
				To:    "KOTTAYAM",
				Route: RouteFromStops("KOCHI", "Kottayam"),
			},
			expected: []string{"KOCHI", "Kottayam"},
		},
		{
			name: "substring is not presence",
			bus: Bus{
				From:  "Kochi",
				To:    "Kottayam",
				Route: RouteFromStops("Kochi Junction", "Kottayam"),
			},
			expected: []string{"Kochi", "Kochi Junction", "Kottayam"},
		},
		{
			name: "no declared endpoints",
			bus: Bus{
				Route: RouteFromStops("Adoor", "Pandalam"),
			},
			expected: []string{"Adoor", "Pandalam"},
		},
		{
			name: "origin only",
			bus: Bus{
				From:  "Kollam",
				Route: RouteFromStops("Kottarakkara"),
			},
			expected: []string{"Kollam", "Kottarakkara"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.bus.RouteStops())
		})
	}
}

func TestBusRouteStopsEmptyRoute(t *testing.T) {
	// A bus without route data stays empty; the endpoint fallback owns it.
	bus := Bus{From: "Aluva", To: "Piravom"}
	assert.Empty(t, bus.RouteStops())
}
