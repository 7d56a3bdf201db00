package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/JewelArimattom/CatchMyBus/config"
	"github.com/JewelArimattom/CatchMyBus/utils"
)

const geocodeUserAgent = "CatchMyBus/1.0 (bus trip search)"

type geoPoint struct {
	Lat float64
	Lon float64
}

// GeoClient resolves stop names to coordinates through a Nominatim-style
// search endpoint and derives straight-line trip distance from them.
// Coordinates are cached; every failure is left to the estimator's
// positional fallback.
type GeoClient struct {
	baseURL string
	region  string
	httpc   *http.Client
}

func NewGeoClient() *GeoClient {
	return &GeoClient{
		baseURL: config.GeocodeBaseURL(),
		region:  config.GeocodeRegion(),
		httpc:   &http.Client{Timeout: 4 * time.Second},
	}
}

// Lookup implements DistanceProvider.
func (g *GeoClient) Lookup(ctx context.Context, from, to string) (float64, float64, error) {
	origin, err := g.geocode(ctx, from)
	if err != nil {
		return 0, 0, err
	}
	dest, err := g.geocode(ctx, to)
	if err != nil {
		return 0, 0, err
	}

	km := utils.CalculateDistance(origin.Lat, origin.Lon, dest.Lat, dest.Lon)
	minutes := km / avgBusSpeedKMH * 60
	return km, minutes, nil
}

func (g *GeoClient) geocode(ctx context.Context, place string) (geoPoint, error) {
	query := place
	if g.region != "" {
		query = place + ", " + g.region
	}

	cacheKey := config.GetCacheKey("geo", strings.ToLower(query))
	if config.GeocodeCache != nil {
		if cached, found := config.GeocodeCache.Get(cacheKey); found {
			if point, ok := cached.(geoPoint); ok {
				return point, nil
			}
		}
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return geoPoint{}, err
	}
	req.Header.Set("User-Agent", geocodeUserAgent)

	resp, err := g.httpc.Do(req)
	if err != nil {
		return geoPoint{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return geoPoint{}, fmt.Errorf("geocode request returned status %d", resp.StatusCode)
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return geoPoint{}, err
	}
	if len(results) == 0 {
		return geoPoint{}, fmt.Errorf("no geocode result for %q", place)
	}

	point := geoPoint{
		Lat: utils.ParseCoordinate(results[0].Lat),
		Lon: utils.ParseCoordinate(results[0].Lon),
	}
	if config.GeocodeCache != nil {
		config.GeocodeCache.Set(cacheKey, point, cache.DefaultExpiration)
	}
	return point, nil
}
