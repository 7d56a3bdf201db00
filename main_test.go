package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

func newTestRouter() *mux.Router {
	r := mux.NewRouter()
	registerRoutes(r.PathPrefix("/api/v1").Subrouter())
	return r
}

func TestRouterRejectsMalformedBusID(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/buses/not-a-hex-id", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid bus id")
}

func TestRouterKeepsFixedBusPaths(t *testing.T) {
	r := newTestRouter()

	// The search route wins over {id}, so its own validation answers, not
	// the id parser.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/buses/search", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "from and to")
}

func TestRouterHealth(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
