package handlers

import (
	"context"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/JewelArimattom/CatchMyBus/config"
	"github.com/JewelArimattom/CatchMyBus/utils"
)

const maxSuggestions = 10

// GetAllStops handles GET /stops and returns every distinct stop name known
// to the catalog, sorted alphabetically.
func GetAllStops(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
	defer cancel()

	stops, err := distinctStops(ctx)
	if err != nil {
		log.Printf("Error fetching stops: %v", err)
		sendErrorResponse(w, "Error fetching stops", http.StatusInternalServerError)
		return
	}

	sendJSON(w, map[string]interface{}{
		"success": true,
		"stops":   stops,
		"count":   len(stops),
	})
}

// GetStopSuggestions handles GET /stops/suggest?q= with a capped
// case-insensitive substring match over the distinct stop names.
func GetStopSuggestions(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		http.Error(w, "Search term is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
	defer cancel()

	stops, err := distinctStops(ctx)
	if err != nil {
		log.Printf("Error fetching stops: %v", err)
		sendErrorResponse(w, "Error fetching stops", http.StatusInternalServerError)
		return
	}

	needle := strings.ToLower(q)
	suggestions := make([]string, 0, maxSuggestions)
	for _, stop := range stops {
		if strings.Contains(strings.ToLower(stop), needle) {
			suggestions = append(suggestions, stop)
			if len(suggestions) == maxSuggestions {
				break
			}
		}
	}

	sendJSON(w, map[string]interface{}{
		"success":     true,
		"suggestions": suggestions,
		"count":       len(suggestions),
		"timestamp":   time.Now().Format(time.RFC3339),
	})
}

// distinctStops collects every stop name across the catalog, deduplicated on
// the normalized key with the first spelling seen kept for display. Routes
// are unpacked in Go rather than in an aggregation because stored route
// shapes vary; string routes have no field to $unwind on.
func distinctStops(ctx context.Context) ([]string, error) {
	cacheKey := config.GetCacheKey("bus_stops", "all")
	if config.SuggestionCache != nil {
		if cached, found := config.SuggestionCache.Get(cacheKey); found {
			if stops, ok := cached.([]string); ok {
				return stops, nil
			}
		}
	}

	buses, err := fetchAllBuses(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]string)
	record := func(name string) {
		name = strings.TrimSpace(name)
		key := utils.NormalizeStop(name)
		if key == "" {
			return
		}
		if _, ok := seen[key]; !ok {
			seen[key] = name
		}
	}

	for _, bus := range buses {
		record(bus.From)
		record(bus.To)
		for _, stop := range bus.Route.Names() {
			record(stop)
		}
	}

	stops := make([]string, 0, len(seen))
	for _, display := range seen {
		stops = append(stops, display)
	}
	sort.Strings(stops)

	if config.SuggestionCache != nil {
		config.SuggestionCache.Set(cacheKey, stops, cache.DefaultExpiration)
	}
	return stops, nil
}
