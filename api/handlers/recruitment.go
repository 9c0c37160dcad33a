package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/roboclub/club-api/config"
	"github.com/roboclub/club-api/databases"
	"github.com/roboclub/club-api/models"
)

// Recruitment exported for testing purposes
type Recruitment struct {
	DB databases.ApplicationDatabase
}

type applicationRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	RollNumber string `json:"rollNumber"`
	Branch     string `json:"branch"`
	Year       int    `json:"year"`
	Statement  string `json:"statement"`
}

type decisionRequest struct {
	Status    string `json:"status"`
	DecidedBy string `json:"decidedBy"`
}

// SubmitApplicationHandler accepts a recruitment application. One
// application per roll number per drive.
func (rc Recruitment) SubmitApplicationHandler(w http.ResponseWriter, r *http.Request) {
	var req applicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" || email == "" || req.RollNumber == "" {
		config.ErrorStatus("name, email and roll number are required", http.StatusBadRequest, w, nil)
		return
	}

	count, err := rc.DB.CountDocuments(r.Context(), bson.M{"rollNumber": req.RollNumber})
	if err != nil {
		config.ErrorStatus("failed to check existing applications", http.StatusInternalServerError, w, err)
		return
	}
	if count > 0 {
		config.ErrorStatus("an application with that roll number already exists", http.StatusConflict, w, nil)
		return
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	application := models.Application{
		ID:         primitive.NewObjectID(),
		Name:       req.Name,
		Email:      email,
		RollNumber: req.RollNumber,
		Branch:     req.Branch,
		Year:       req.Year,
		Statement:  req.Statement,
		Status:     models.ApplicationStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := rc.DB.InsertOne(r.Context(), application); err != nil {
		config.ErrorStatus("failed to submit application", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(application)
}

// ApplicationsHandler returns all applications, optionally filtered by
// ?status=, newest first
func (rc Recruitment) ApplicationsHandler(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		applicationStatus := models.ApplicationStatus(status)
		if !applicationStatus.IsValid() {
			config.ErrorStatus("invalid application status", http.StatusBadRequest, w, nil)
			return
		}
		filter["status"] = applicationStatus
	}

	limit := int64(getLimit(r))
	skip := int64(getPage(r)) * limit
	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetLimit(limit).
		SetSkip(skip)

	applications, err := rc.DB.Find(r.Context(), filter, opts)
	if err != nil {
		config.ErrorStatus("failed to get applications", http.StatusNotFound, w, err)
		return
	}
	if len(applications) == 0 {
		applications = []models.Application{}
	}

	b, err := json.Marshal(applications)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// DecideApplicationHandler shortlists or rejects an application
func (rc Recruitment) DecideApplicationHandler(w http.ResponseWriter, r *http.Request) {
	applicationID := mux.Vars(r)["application_id"]

	aID, err := primitive.ObjectIDFromHex(applicationID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	status := models.ApplicationStatus(req.Status)
	if status != models.ApplicationStatusShortlisted && status != models.ApplicationStatusRejected {
		config.ErrorStatus("status must be shortlisted or rejected", http.StatusBadRequest, w, nil)
		return
	}

	application, err := rc.DB.FindOneAndUpdate(r.Context(),
		bson.M{"_id": aID},
		bson.M{"$set": bson.M{
			"status":    status,
			"decidedBy": req.DecidedBy,
			"updatedAt": primitive.NewDateTimeFromTime(time.Now()),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if err != nil {
		config.ErrorStatus("application not found", http.StatusNotFound, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(application)
}
