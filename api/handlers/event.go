package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/roboclub/club-api/config"
	"github.com/roboclub/club-api/databases"
	"github.com/roboclub/club-api/models"
)

// Event exported for testing purposes
type Event struct {
	DB  databases.EventDatabase
	RDB databases.RegistrationDatabase
	UDB databases.UserDatabase
}

type createEventRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Venue       string `json:"venue"`
	Date        string `json:"date"`
	MaxTeamSize int    `json:"maxTeamSize"`
}

type registerRequest struct {
	UserID string `json:"userId"`
}

// EventsHandler returns all events, soonest first
func (e Event) EventsHandler(w http.ResponseWriter, r *http.Request) {
	events, err := e.DB.Find(r.Context(), bson.M{}, options.Find().SetSort(bson.M{"date": 1}))
	if err != nil {
		config.ErrorStatus("failed to get events", http.StatusNotFound, w, err)
		return
	}
	if len(events) == 0 {
		events = []models.Event{}
	}

	b, err := json.Marshal(events)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// EventByIDHandler returns a single event by ID
func (e Event) EventByIDHandler(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["event_id"]

	eID, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	event, err := e.DB.FindOne(r.Context(), bson.M{"_id": eID})
	if err != nil {
		config.ErrorStatus("event not found", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(event)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CreateEventHandler creates a new event
func (e Event) CreateEventHandler(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.Name == "" {
		config.ErrorStatus("event name is required", http.StatusBadRequest, w, nil)
		return
	}
	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		config.ErrorStatus("failed to parse event date", http.StatusBadRequest, w, err)
		return
	}
	if req.MaxTeamSize < 0 {
		config.ErrorStatus("max team size must not be negative", http.StatusBadRequest, w, nil)
		return
	}

	event := models.Event{
		ID:          primitive.NewObjectID(),
		Name:        req.Name,
		Description: req.Description,
		Venue:       req.Venue,
		Date:        primitive.NewDateTimeFromTime(date),
		MaxTeamSize: req.MaxTeamSize,
		CreatedAt:   primitive.NewDateTimeFromTime(time.Now()),
	}
	if _, err := e.DB.InsertOne(r.Context(), event); err != nil {
		config.ErrorStatus("failed to create event", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(event)
}

// RegisterHandler registers a user for an event. Registration is the
// eligibility gate for team membership.
func (e Event) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["event_id"]

	eID, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	uID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	user, err := e.UDB.FindOne(r.Context(), bson.M{"_id": uID})
	if err != nil {
		config.ErrorStatus("user not found", http.StatusNotFound, w, err)
		return
	}

	if _, err := e.DB.FindOne(r.Context(), bson.M{"_id": eID}); err != nil {
		config.ErrorStatus("event not found", http.StatusNotFound, w, err)
		return
	}

	count, err := e.RDB.CountDocuments(r.Context(), bson.M{"eventId": eventID, "userId": req.UserID})
	if err != nil {
		config.ErrorStatus("failed to check registration", http.StatusInternalServerError, w, err)
		return
	}
	if count > 0 {
		config.ErrorStatus("user is already registered for this event", http.StatusConflict, w, nil)
		return
	}

	registration := models.Registration{
		ID:           primitive.NewObjectID(),
		EventID:      eventID,
		UserID:       req.UserID,
		RollNumber:   user.RollNumber,
		RegisteredAt: primitive.NewDateTimeFromTime(time.Now()),
	}
	if _, err := e.RDB.InsertOne(r.Context(), registration); err != nil {
		config.ErrorStatus("failed to register for event", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(registration)
}

// RegistrationsByEventHandler returns all registrations for an event
func (e Event) RegistrationsByEventHandler(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["event_id"]

	registrations, err := e.RDB.Find(r.Context(), bson.M{"eventId": eventID},
		options.Find().SetSort(bson.M{"registeredAt": 1}))
	if err != nil {
		config.ErrorStatus("failed to get registrations", http.StatusNotFound, w, err)
		return
	}
	if len(registrations) == 0 {
		registrations = []models.Registration{}
	}

	b, err := json.Marshal(registrations)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
