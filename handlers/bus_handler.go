package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/JewelArimattom/CatchMyBus/config"
	"github.com/JewelArimattom/CatchMyBus/models"
)

// GetAllBuses handles GET /buses. An optional q parameter narrows the list
// to buses whose name or declared endpoints contain the term.
func GetAllBuses(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
	defer cancel()

	filter := bson.M{}
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		match := bson.M{"$regex": regexp.QuoteMeta(q), "$options": "i"}
		filter = bson.M{"$or": []bson.M{
			{"bus_name": match},
			{"from": match},
			{"to": match},
		}}
	}

	collection := config.MongoDB.Collection(busCollection)
	cursor, err := collection.Find(ctx, filter)
	if err != nil {
		log.Printf("Error fetching buses: %v", err)
		sendErrorResponse(w, "Error fetching buses", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	buses := []models.Bus{}
	if err = cursor.All(ctx, &buses); err != nil {
		log.Printf("Error decoding buses: %v", err)
		sendErrorResponse(w, "Error fetching buses", http.StatusInternalServerError)
		return
	}

	sendJSON(w, map[string]interface{}{
		"success": true,
		"buses":   buses,
		"count":   len(buses),
	})
}

// GetBusByID handles GET /buses/{id}.
func GetBusByID(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	id, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid bus id", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
	defer cancel()

	var bus models.Bus
	collection := config.MongoDB.Collection(busCollection)
	err = collection.FindOne(ctx, bson.M{"_id": id}).Decode(&bus)
	if err == mongo.ErrNoDocuments {
		sendErrorResponse(w, "Bus not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("Error fetching bus %s: %v", vars["id"], err)
		sendErrorResponse(w, "Error fetching bus", http.StatusInternalServerError)
		return
	}

	sendJSON(w, bus)
}

// CreateBus handles POST /buses. New entries invalidate the derived caches
// so searches and suggestions pick them up immediately.
func CreateBus(w http.ResponseWriter, r *http.Request) {
	var bus models.Bus
	if err := json.NewDecoder(r.Body).Decode(&bus); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(bus.Name) == "" || strings.TrimSpace(bus.From) == "" || strings.TrimSpace(bus.To) == "" {
		sendErrorResponse(w, "bus_name, from and to are required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
	defer cancel()

	bus.ID = primitive.NewObjectID()
	collection := config.MongoDB.Collection(busCollection)
	if _, err := collection.InsertOne(ctx, bus); err != nil {
		log.Printf("Error inserting bus: %v", err)
		sendErrorResponse(w, "Error creating bus", http.StatusInternalServerError)
		return
	}

	if config.SearchCache != nil {
		config.SearchCache.Flush()
	}
	if config.SuggestionCache != nil {
		config.SuggestionCache.Flush()
	}

	log.Printf("Created bus %s (%s)", bus.Name, bus.ID.Hex())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"id":      bus.ID.Hex(),
	})
}

// GetBusTypes handles GET /buses/types and returns the distinct bus types
// with a count of buses per type.
func GetBusTypes(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
	defer cancel()

	collection := config.MongoDB.Collection(busCollection)
	pipeline := []bson.M{
		{
			"$group": bson.M{
				"_id":       "$bus_type",
				"bus_count": bson.M{"$sum": 1},
			},
		},
		{
			"$project": bson.M{
				"_id":       0,
				"bus_type":  "$_id",
				"bus_count": 1,
			},
		},
		{
			"$sort": bson.M{"bus_type": 1},
		},
	}

	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		log.Printf("Error aggregating bus types: %v", err)
		sendErrorResponse(w, "Error fetching bus types", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var types []models.BusTypeCount
	if err = cursor.All(ctx, &types); err != nil {
		log.Printf("Error decoding bus types: %v", err)
		sendErrorResponse(w, "Error fetching bus types", http.StatusInternalServerError)
		return
	}
	if types == nil {
		types = []models.BusTypeCount{}
	}

	sendJSON(w, map[string]interface{}{
		"success":   true,
		"types":     types,
		"count":     len(types),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
