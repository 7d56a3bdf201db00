package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/JewelArimattom/CatchMyBus/config"
	"github.com/JewelArimattom/CatchMyBus/handlers"
	"github.com/JewelArimattom/CatchMyBus/middleware"
)

type HealthResponse struct {
	Status    string `json:"status"`
	DBStatus  string `json:"db_status"`
	DBDetails struct {
		Database string `json:"database"`
		Buses    int64  `json:"buses,omitempty"`
	} `json:"db_details"`
	Error string `json:"error,omitempty"`
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status: "ok",
	}

	// Check database connection
	if config.MongoClient == nil {
		response.Status = "error"
		response.DBStatus = "not_initialized"
		response.Error = "Database connection not initialized"
	} else if err := config.CheckMongoHealth(); err != nil {
		response.Status = "error"
		response.DBStatus = "connection_error"
		response.Error = fmt.Sprintf("Database ping failed: %v", err)
	} else {
		response.DBStatus = "connected"
		response.DBDetails.Database = config.MongoDBName()

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if count, err := config.MongoDB.Collection("buses").CountDocuments(ctx, bson.M{}); err == nil {
			response.DBDetails.Buses = count
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func main() {
	startTime := time.Now()
	log.Printf("Starting server initialization at %s", startTime.Format(time.RFC3339))

	// Load environment variables first
	if err := config.LoadEnv(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	port := config.ServerPort()

	// Initialize MongoDB with retries
	log.Println("Initializing MongoDB...")
	if err := config.ConnectWithRetry(config.MongoMaxRetries()); err != nil {
		log.Fatalf("Failed to initialize MongoDB: %v", err)
	}
	log.Println("MongoDB initialized successfully")
	defer config.CloseDB()

	// Initialize caches
	config.InitCache()

	// Wire the search path's distance source
	if config.GeocodeDisabled() {
		log.Println("Geocoding disabled, estimates use route positions")
		handlers.InitSearch(nil)
	} else {
		handlers.InitSearch(handlers.NewGeoClient())
	}

	r := mux.NewRouter()

	// CORS configuration
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:3000",
			"http://localhost:3001",
			"http://localhost:5173",
			"http://localhost:8080",
			"http://127.0.0.1:3000",
			"https://catchmybus.in",
			"http://catchmybus.in",
			"https://www.catchmybus.in",
			"http://www.catchmybus.in",
			"https://catchmybus-backend.onrender.com",
		},
		AllowedMethods: []string{
			"GET", "POST", "PUT", "DELETE", "OPTIONS",
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-CSRF-Token",
			"X-Requested-With",
			"X-Request-ID",
			"Origin",
			"Access-Control-Request-Method",
			"Access-Control-Request-Headers",
		},
		ExposedHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Content-Type-Options",
			"X-Request-ID",
		},
		AllowCredentials: false,
		MaxAge:           86400,
		Debug:            true,
	})

	// Apply middlewares in correct order
	r.Use(middleware.CORSDebugMiddleware)
	r.Use(corsHandler.Handler)
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.RecoveryMiddleware)
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.MetricsMiddleware)
	r.Use(middleware.CompressMiddleware)

	// Prometheus metrics, outside the API prefix
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// API routes
	api := r.PathPrefix("/api/v1").Subrouter()
	registerRoutes(api)
	log.Println("Routes registered successfully")

	// Health check endpoint
	api.HandleFunc("/health/detailed", healthCheck).Methods("GET")

	// Create server with optimized timeouts
	srv := &http.Server{
		Handler:           r,
		Addr:              ":" + port,
		WriteTimeout:      15 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Create error channel for server errors
	serverErrors := make(chan error, 1)

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %s...", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
			serverErrors <- err
		}
	}()

	log.Printf("Server is running at http://localhost:%s", port)
	log.Printf("Health check endpoint: http://localhost:%s/api/v1/health", port)
	log.Printf("Search endpoint: http://localhost:%s/api/v1/buses/search", port)

	// Handle graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Wait for shutdown signal or server error
	select {
	case <-stop:
		log.Println("Shutdown signal received")
	case err := <-serverErrors:
		log.Printf("Server error received: %v", err)
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	} else {
		log.Println("Server shutdown completed successfully")
	}
}

func registerRoutes(api *mux.Router) {
	// Bus search
	api.HandleFunc("/buses/search", handlers.SearchBuses).Methods("GET", "OPTIONS")
	log.Printf("Registered bus search endpoint: /api/v1/buses/search")

	// Bus catalog. The fixed paths are registered before {id} so they win;
	// the handler itself rejects malformed ids.
	api.HandleFunc("/buses/types", handlers.GetBusTypes).Methods("GET")
	api.HandleFunc("/buses/{id}", handlers.GetBusByID).Methods("GET")
	api.HandleFunc("/buses", handlers.GetAllBuses).Methods("GET")
	api.HandleFunc("/buses", handlers.CreateBus).Methods("POST")

	// Stop routes
	api.HandleFunc("/stops", handlers.GetAllStops).Methods("GET")
	api.HandleFunc("/stops/suggest", handlers.GetStopSuggestions).Methods("GET")

	// Health check
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")
}
