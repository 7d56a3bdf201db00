package config

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

var (
	MongoDB     *mongo.Database
	MongoClient *mongo.Client
)

const retryDelay = 5 * time.Second

// LoadEnv loads environment variables from .env file
func LoadEnv() error {
	// Try multiple possible locations for .env file
	possiblePaths := []string{
		".env",                      // Current directory
		"../.env",                   // Parent directory
		"../../.env",                // Two levels up
		os.Getenv("CATCHMYBUS_ENV"), // Environment-specified path
	}

	var loadedFile string

	for _, path := range possiblePaths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			loadedFile = path
			log.Printf("Found .env file at: %s", path)
			break
		}
	}

	if loadedFile == "" {
		// If no .env file found, check if MONGO_URI is already set in environment
		if uri := os.Getenv("MONGO_URI"); uri != "" {
			return nil // MONGO_URI already set, no need for .env
		}
		return fmt.Errorf("no .env file found and MONGO_URI not set in environment")
	}

	file, err := os.Open(loadedFile)
	if err != nil {
		return fmt.Errorf("error opening .env file: %v", err)
	}
	defer file.Close()

	log.Printf("Loading environment variables from %s", loadedFile)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		// Remove quotes if present
		value = strings.Trim(value, `"'`)
		os.Setenv(key, value)
		if !strings.Contains(strings.ToLower(key), "password") && !strings.Contains(strings.ToLower(key), "secret") {
			log.Printf("Set environment variable: %s", key)
		}
	}

	return scanner.Err()
}

// ConnectWithRetry attempts to connect to MongoDB with retries
func ConnectWithRetry(maxRetries int) error {
	// Load environment variables from .env file
	if err := LoadEnv(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	mongoURI := MongoURI()

	var err error
	for i := 0; i < maxRetries; i++ {
		err = connectMongo(mongoURI)
		if err == nil {
			return nil
		}
		log.Printf("Failed to connect to MongoDB (attempt %d/%d): %v", i+1, maxRetries, err)
		time.Sleep(retryDelay)
	}
	return fmt.Errorf("failed to connect after %d attempts: %v", maxRetries, err)
}

// connectMongo initializes the MongoDB connection
func connectMongo(uri string) error {
	clientOptions := options.Client().ApplyURI(uri).
		SetMaxPoolSize(100).
		SetMinPoolSize(20).
		SetMaxConnecting(50).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second).
		SetSocketTimeout(30 * time.Second).
		SetRetryWrites(true).
		SetRetryReads(true).
		SetMaxConnIdleTime(60 * time.Minute).
		SetWriteConcern(writeconcern.New(writeconcern.WMajority())).
		SetReadConcern(readconcern.Majority()).
		SetReadPreference(readpref.Primary())

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var err error
	MongoClient, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("error connecting to MongoDB: %v", err)
	}

	if err = MongoClient.Ping(ctx, nil); err != nil {
		return fmt.Errorf("error pinging MongoDB: %v", err)
	}

	dbName := MongoDBName()
	MongoDB = MongoClient.Database(dbName)
	log.Printf("Successfully connected to MongoDB database: %s", dbName)

	if err := createIndexes(ctx); err != nil {
		return fmt.Errorf("error creating indexes: %v", err)
	}

	return nil
}

func createIndexes(ctx context.Context) error {
	busCollection := MongoDB.Collection("buses")
	busIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "from", Value: 1},
				{Key: "to", Value: 1},
			},
			Options: options.Index().SetName("from_to_idx"),
		},
		{
			Keys: bson.D{
				{Key: "bus_type", Value: 1},
			},
			Options: options.Index().SetName("bus_type_idx"),
		},
		{
			Keys: bson.D{
				{Key: "bus_name", Value: "text"},
				{Key: "from", Value: "text"},
				{Key: "to", Value: "text"},
			},
			Options: options.Index().SetName("bus_text_search_idx"),
		},
	}

	// Drop existing indexes before creating new ones
	if _, err := busCollection.Indexes().DropAll(ctx); err != nil {
		log.Printf("Warning: Failed to drop existing bus indexes: %v", err)
	}

	_, err := busCollection.Indexes().CreateMany(ctx, busIndexes)
	if err != nil {
		return fmt.Errorf("error creating bus indexes: %v", err)
	}
	log.Printf("Successfully created bus indexes")

	return nil
}

// Health check functions
func CheckMongoHealth() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := MongoClient.Ping(ctx, nil); err != nil {
		return fmt.Errorf("MongoDB health check failed: %v", err)
	}
	return nil
}

// Graceful shutdown
func CloseDB() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if MongoClient != nil {
		if err := MongoClient.Disconnect(ctx); err != nil {
			log.Printf("Error closing MongoDB connection: %v", err)
		}
	}
}
