package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	searchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catchmybus_searches_total",
		Help: "Bus searches processed.",
	})

	matchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catchmybus_matches_total",
		Help: "Match results produced across all searches.",
	})

	geocodeFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catchmybus_geocode_fallbacks_total",
		Help: "Distance lookups that fell back to positional estimates.",
	})
)
