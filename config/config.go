package config

import (
	"os"
	"strconv"
)

// Server configuration
func ServerPort() string {
	return getEnvWithDefault("PORT", "8080")
}

// Database configuration
func MongoURI() string {
	return getEnvWithDefault("MONGO_URI", "mongodb://localhost:27017")
}

func MongoDBName() string {
	return getEnvWithDefault("MONGO_DB_NAME", "catchmybus")
}

func MongoMaxRetries() int {
	return getEnvAsInt("MONGO_MAX_RETRIES", 5)
}

// Geocoding configuration
func GeocodeBaseURL() string {
	return getEnvWithDefault("GEOCODE_BASE_URL", "https://nominatim.openstreetmap.org/search")
}

// GeocodeRegion is appended to every stop name before geocoding so short
// names like "Aluva" resolve inside the service area.
func GeocodeRegion() string {
	return getEnvWithDefault("GEOCODE_REGION", "Kerala, India")
}

func GeocodeDisabled() bool {
	return getEnvAsBool("GEOCODE_DISABLED", false)
}

// Helper functions
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
