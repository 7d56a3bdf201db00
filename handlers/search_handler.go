package handlers

import (
	"context"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/JewelArimattom/CatchMyBus/config"
	"github.com/JewelArimattom/CatchMyBus/models"
	"github.com/JewelArimattom/CatchMyBus/utils"
)

const (
	busCollection = "buses"
	searchTimeout = 10 * time.Second
	busTypeAll    = "all"
	fallbackHops  = 1

	matchedByRoute     = "route"
	matchedByEndpoints = "endpoints"
)

// Search collaborators, wired once at startup.
var (
	searchEstimator = NewEstimator(nil)
	searchTimetable TimetableProvider = StaticTimetable{}
)

// InitSearch wires the search path's distance provider. A nil provider
// leaves the estimator on its positional fallback.
func InitSearch(provider DistanceProvider) {
	searchEstimator = NewEstimator(provider)
}

// SearchBuses handles GET /buses/search?from=&to=&type=.
func SearchBuses(w http.ResponseWriter, r *http.Request) {
	from := strings.TrimSpace(r.URL.Query().Get("from"))
	to := strings.TrimSpace(r.URL.Query().Get("to"))
	busType := strings.TrimSpace(r.URL.Query().Get("type"))

	if from == "" || to == "" {
		sendErrorResponse(w, "Both from and to stops are required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
	defer cancel()

	log.Printf("Searching buses: from=%s, to=%s, type=%s", from, to, busType)

	cacheKey := config.GetCacheKey("bus_search", strings.ToLower(from), strings.ToLower(to), strings.ToLower(busType))
	if config.SearchCache != nil {
		if cached, found := config.SearchCache.Get(cacheKey); found {
			if results, ok := cached.([]models.MatchResult); ok {
				sendJSON(w, searchResponse(results))
				return
			}
		}
	}

	buses, err := fetchAllBuses(ctx)
	if err != nil {
		log.Printf("Error fetching buses: %v", err)
		sendErrorResponse(w, "Error fetching buses", http.StatusInternalServerError)
		return
	}

	searchesTotal.Inc()
	results := matchBuses(ctx, buses, from, to, busType, searchEstimator, searchTimetable)
	matchesTotal.Add(float64(len(results)))

	if config.SearchCache != nil {
		config.SearchCache.Set(cacheKey, results, cache.DefaultExpiration)
	}
	sendJSON(w, searchResponse(results))
}

func searchResponse(results []models.MatchResult) map[string]interface{} {
	if results == nil {
		results = []models.MatchResult{}
	}
	return map[string]interface{}{
		"success": true,
		"buses":   results,
		"count":   len(results),
	}
}

// fetchAllBuses reads the whole catalog. The search works over the full set
// per request; the collection is small and the result is cached upstream.
func fetchAllBuses(ctx context.Context) ([]models.Bus, error) {
	collection := config.MongoDB.Collection(busCollection)

	cursor, err := collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var buses []models.Bus
	if err = cursor.All(ctx, &buses); err != nil {
		return nil, err
	}
	return buses, nil
}

// matchBuses runs the two-tier match over the catalog in order: a detailed
// route match with a strict directional check, then the coarse endpoint
// fallback. Results come back sorted by origin departure time.
func matchBuses(ctx context.Context, buses []models.Bus, fromQuery, toQuery, typeFilter string, est *Estimator, timetable TimetableProvider) []models.MatchResult {
	qFrom := utils.NormalizeStop(fromQuery)
	qTo := utils.NormalizeStop(toQuery)

	var results []models.MatchResult
	for _, bus := range buses {
		if skipByType(bus.Type, typeFilter) {
			continue
		}
		if m, ok := matchOne(ctx, bus, qFrom, qTo, est, timetable); ok {
			results = append(results, m)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].From.Departure < results[j].From.Departure
	})
	return results
}

func skipByType(busType, filter string) bool {
	filter = strings.TrimSpace(filter)
	if filter == "" || strings.EqualFold(filter, busTypeAll) {
		return false
	}
	return !strings.EqualFold(busType, filter)
}

func matchOne(ctx context.Context, bus models.Bus, qFrom, qTo string, est *Estimator, timetable TimetableProvider) (models.MatchResult, bool) {
	stops := bus.RouteStops()
	keys := make([]string, len(stops))
	for i, s := range stops {
		keys[i] = utils.NormalizeStop(s)
	}

	fromIdx, toIdx := -1, -1
	if qFrom == qTo {
		// One-stop trip: a single position serves as both ends.
		if idx := findStopIndex(keys, qFrom); idx != -1 {
			fromIdx, toIdx = idx, idx
		}
	} else {
		fromIdx = findStopIndex(keys, qFrom)
		toIdx = findStopIndex(keys, qTo)
	}

	// The route must visit the origin before the destination. A bus serving
	// both stops in the other order is not a match here; it still gets a
	// shot at the endpoint fallback.
	if fromIdx != -1 && toIdx != -1 && fromIdx <= toIdx {
		estimate := est.Estimate(ctx, stops[fromIdx], stops[toIdx], bus.Type, toIdx-fromIdx)
		return buildMatch(bus, matchedByRoute, stops[fromIdx], fromIdx, stops[toIdx], toIdx, estimate, timetable), true
	}

	return fallbackMatch(ctx, bus, stops, qFrom, qTo, est, timetable)
}

// fallbackMatch tries the coarse endpoints: the extracted route's first and
// last entries when it has at least two, the declared from/to otherwise.
// Containment is one-directional here since the coarse fields already encode
// the travel direction.
func fallbackMatch(ctx context.Context, bus models.Bus, stops []string, qFrom, qTo string, est *Estimator, timetable TimetableProvider) (models.MatchResult, bool) {
	coarseFrom, coarseTo := bus.From, bus.To
	fromPos, toPos := 0, 1
	if len(stops) >= 2 {
		coarseFrom, coarseTo = stops[0], stops[len(stops)-1]
		toPos = len(stops) - 1
	}

	cFrom := utils.NormalizeStop(coarseFrom)
	cTo := utils.NormalizeStop(coarseTo)

	var matched bool
	if qFrom == qTo {
		matched = (cFrom != "" && strings.Contains(cFrom, qFrom)) ||
			(cTo != "" && strings.Contains(cTo, qFrom))
	} else {
		matched = cFrom != "" && cTo != "" &&
			strings.Contains(cFrom, qFrom) && strings.Contains(cTo, qTo)
	}
	if !matched {
		return models.MatchResult{}, false
	}

	estimate := est.Estimate(ctx, coarseFrom, coarseTo, bus.Type, fallbackHops)
	return buildMatch(bus, matchedByEndpoints, coarseFrom, fromPos, coarseTo, toPos, estimate, timetable), true
}

// findStopIndex returns the first position whose normalized key matches the
// query key, -1 when none does.
func findStopIndex(keys []string, query string) int {
	for i, key := range keys {
		if stopKeyMatches(key, query) {
			return i
		}
	}
	return -1
}

// stopKeyMatches is the loose equality rule between normalized stop keys:
// either side contains the other.
func stopKeyMatches(key, query string) bool {
	return strings.Contains(key, query) || strings.Contains(query, key)
}

func buildMatch(bus models.Bus, matchedBy, fromStop string, fromPos int, toStop string, toPos int, estimate models.TripEstimate, timetable TimetableProvider) models.MatchResult {
	return models.MatchResult{
		BusID:        bus.ID,
		BusName:      bus.Name,
		BusType:      bus.Type,
		Via:          bus.Via,
		From:         timetable.TimesAt(bus, fromStop, fromPos),
		To:           timetable.TimesAt(bus, toStop, toPos),
		TripEstimate: estimate,
		MatchedBy:    matchedBy,
	}
}
