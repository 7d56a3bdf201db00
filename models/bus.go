package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/JewelArimattom/CatchMyBus/utils"
)

// Bus is one catalog entry: a named service between two declared endpoints
// with an optional detailed route. Written by the admin endpoint, read-only
// everywhere else.
type Bus struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"bus_name" bson:"bus_name"`
	From      string             `json:"from" bson:"from"`
	To        string             `json:"to" bson:"to"`
	Via       string             `json:"via,omitempty" bson:"via,omitempty"`
	Type      string             `json:"bus_type" bson:"bus_type"`
	Route     RouteSpec          `json:"route" bson:"route"`
	Departure string             `json:"departure_time,omitempty" bson:"departure_time,omitempty"`
	Arrival   string             `json:"arrival_time,omitempty" bson:"arrival_time,omitempty"`
}

// RouteStops returns the route as an ordered stop list with the declared
// endpoints guaranteed present: the origin is prepended and the destination
// appended when no entry already normalizes equal to them. Routes are
// assumed stored in travel order, so the first entry is the departure side;
// the endpoint fallback relies on that. A bus without route data yields an
// empty list and is matched through its declared endpoints instead.
func (b Bus) RouteStops() []string {
	names := b.Route.Names()
	if len(names) == 0 {
		return nil
	}

	stops := make([]string, 0, len(names)+2)
	if b.From != "" && !containsNormalized(names, b.From) {
		stops = append(stops, b.From)
	}
	stops = append(stops, names...)
	if b.To != "" && !containsNormalized(names, b.To) {
		stops = append(stops, b.To)
	}
	return stops
}

func containsNormalized(names []string, target string) bool {
	key := utils.NormalizeStop(target)
	for _, n := range names {
		if utils.NormalizeStop(n) == key {
			return true
		}
	}
	return false
}

// StopTiming is one end of a matched trip: where the bus is boarded or left
// and when. Position is the stop's index within the extracted route.
type StopTiming struct {
	Position  int    `json:"position"`
	StopName  string `json:"stop_name"`
	Arrival   string `json:"arrival_time"`
	Departure string `json:"departure_time"`
}

// TripEstimate carries the computed metadata for a matched trip. Fare is in
// whole rupees.
type TripEstimate struct {
	DistanceKM float64 `json:"distance_km"`
	Duration   string  `json:"duration"`
	Fare       float64 `json:"fare"`
}

// MatchResult is one bus's trip offering for a search query. MatchedBy
// records whether the detailed route or the endpoint fallback produced it.
type MatchResult struct {
	BusID   primitive.ObjectID `json:"bus_id"`
	BusName string             `json:"bus_name"`
	BusType string             `json:"bus_type"`
	Via     string             `json:"via,omitempty"`
	From    StopTiming         `json:"from"`
	To      StopTiming         `json:"to"`
	TripEstimate
	MatchedBy string `json:"matched_by"`
}

// BusTypeCount is one row of the bus type aggregation.
type BusTypeCount struct {
	BusType  string `json:"bus_type" bson:"bus_type"`
	BusCount int    `json:"bus_count" bson:"bus_count"`
}
