package handlers

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/JewelArimattom/CatchMyBus/models"
)

const (
	hopKM          = 2.5 // assumed spacing between consecutive stops
	avgBusSpeedKMH = 35.0
	baseFare       = 10.0 // boarding charge in rupees
	defaultRateKM  = 1.0
	lookupTimeout  = 3 * time.Second
)

// farePerKM maps a normalized bus category to its per-kilometre rate in
// rupees.
var farePerKM = map[string]float64{
	"ordinary":       1.0,
	"fast passenger": 1.2,
	"super fast":     1.4,
	"super deluxe":   1.8,
	"low floor ac":   2.2,
	"volvo":          2.5,
}

// DistanceProvider supplies a real-world distance and duration between two
// named stops. An error tells the estimator to fall back to positional
// estimation; it is never surfaced further.
type DistanceProvider interface {
	Lookup(ctx context.Context, from, to string) (km float64, minutes float64, err error)
}

// Estimator computes trip distance, duration and fare. A nil provider means
// every estimate uses the positional fallback.
type Estimator struct {
	provider DistanceProvider
}

func NewEstimator(provider DistanceProvider) *Estimator {
	return &Estimator{provider: provider}
}

// Estimate resolves the trip between two named stops separated by hops route
// positions. One provider attempt is made per call; any failure silently
// falls back to hops times the unit hop distance, so a same-stop trip costs
// zero distance and farther pairs grow proportionally.
func (e *Estimator) Estimate(ctx context.Context, from, to, busType string, hops int) models.TripEstimate {
	var km, minutes float64
	resolved := false

	if e.provider != nil && hops > 0 {
		lookupCtx, cancel := context.WithTimeout(ctx, lookupTimeout)
		d, m, err := e.provider.Lookup(lookupCtx, from, to)
		cancel()
		if err != nil {
			log.Printf("Distance lookup failed for %s -> %s: %v", from, to, err)
			geocodeFallbacks.Inc()
		} else {
			km, minutes = d, m
			resolved = true
		}
	}

	if !resolved {
		km = float64(hops) * hopKM
		minutes = km / avgBusSpeedKMH * 60
	}

	return models.TripEstimate{
		DistanceKM: math.Round(km*10) / 10,
		Duration:   formatTripDuration(minutes),
		Fare:       computeFare(km, busType),
	}
}

// computeFare prices a trip: base fare plus the category's per-kilometre
// rate, rounded to the whole rupee. Unknown categories ride at the default
// rate.
func computeFare(km float64, busType string) float64 {
	rate, ok := farePerKM[strings.ToLower(strings.TrimSpace(busType))]
	if !ok {
		rate = defaultRateKM
	}
	return math.Round(baseFare + rate*km)
}

func formatTripDuration(minutes float64) string {
	total := int(math.Round(minutes))
	hours := total / 60
	mins := total % 60

	if hours > 0 {
		return fmt.Sprintf("%d hours %d minutes", hours, mins)
	}
	return fmt.Sprintf("%d minutes", mins)
}
