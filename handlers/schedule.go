package handlers

import (
	"strings"
	"time"

	"github.com/JewelArimattom/CatchMyBus/models"
)

const (
	defaultDepartureClock = "08:00"
	stopIntervalMinutes   = 5
	stopDwellMinutes      = 2
)

// TimetableProvider resolves arrival/departure times for a bus at a stop.
// The catalog carries no per-stop schedule yet, so implementations are free
// to extrapolate; swapping in a real timetable source only touches this
// interface.
type TimetableProvider interface {
	TimesAt(bus models.Bus, stopName string, position int) models.StopTiming
}

// StaticTimetable extrapolates stop times from the bus's declared clock
// hints. The departure hint anchors the first stop; when the arrival hint
// also parses, the trip span is spread evenly across the stop positions so
// the last stop lands on the arrival hint. Without an arrival hint the
// timetable walks forward a fixed interval per stop, and buses with no
// parseable departure start from a default morning clock.
type StaticTimetable struct{}

func (StaticTimetable) TimesAt(bus models.Bus, stopName string, position int) models.StopTiming {
	base, ok := parseClock(bus.Departure)
	if !ok {
		base, _ = parseClock(defaultDepartureClock)
	}

	offset := time.Duration(position*stopIntervalMinutes) * time.Minute
	if end, ok := parseClock(bus.Arrival); ok {
		span := end.Sub(base)
		if span < 0 {
			// Overnight trip, the arrival clock is past midnight.
			span += 24 * time.Hour
		}
		if last := lastRoutePosition(bus); span > 0 && last > 0 {
			offset = span * time.Duration(position) / time.Duration(last)
		}
	}

	arrive := base.Add(offset)
	depart := arrive
	if position > 0 {
		depart = arrive.Add(stopDwellMinutes * time.Minute)
	}

	return models.StopTiming{
		Position:  position,
		StopName:  stopName,
		Arrival:   arrive.Format("15:04"),
		Departure: depart.Format("15:04"),
	}
}

// lastRoutePosition is the highest stop position the matcher can hand this
// bus: the end of its route list, or 1 for the from/to pair of a bus with
// no usable route.
func lastRoutePosition(bus models.Bus) int {
	if stops := bus.RouteStops(); len(stops) >= 2 {
		return len(stops) - 1
	}
	return 1
}

// parseClock reads a wall-clock string in 24-hour or 12-hour form.
func parseClock(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"15:04", "03:04 PM", "3:04 PM"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
