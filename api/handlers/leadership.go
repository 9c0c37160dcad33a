package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/roboclub/club-api/config"
	"github.com/roboclub/club-api/databases"
	"github.com/roboclub/club-api/models"
)

// Leadership exported for testing purposes
type Leadership struct {
	DB databases.LeadershipDatabase
}

type leadershipMemberRequest struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	Rank     int    `json:"rank"`
	Email    string `json:"email"`
	ImageURL string `json:"imageUrl"`
}

// LeadershipHandler returns the public leadership directory ordered by rank
func (l Leadership) LeadershipHandler(w http.ResponseWriter, r *http.Request) {
	members, err := l.DB.Find(r.Context(), bson.M{}, options.Find().SetSort(bson.M{"rank": 1}))
	if err != nil {
		config.ErrorStatus("failed to get leadership directory", http.StatusNotFound, w, err)
		return
	}
	if len(members) == 0 {
		members = []models.LeadershipMember{}
	}

	b, err := json.Marshal(members)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CreateLeadershipMemberHandler adds an entry to the leadership directory
func (l Leadership) CreateLeadershipMemberHandler(w http.ResponseWriter, r *http.Request) {
	var req leadershipMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.Name == "" || req.Role == "" {
		config.ErrorStatus("name and role are required", http.StatusBadRequest, w, nil)
		return
	}

	member := models.LeadershipMember{
		ID:        primitive.NewObjectID(),
		Name:      req.Name,
		Role:      req.Role,
		Rank:      req.Rank,
		Email:     req.Email,
		ImageURL:  req.ImageURL,
		CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
	}
	if _, err := l.DB.InsertOne(r.Context(), member); err != nil {
		config.ErrorStatus("failed to create leadership member", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(member)
}
