package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/roboclub/club-api/config"
	"github.com/roboclub/club-api/databases"
	"github.com/roboclub/club-api/models"
)

// User exported for testing purposes
type User struct {
	DB databases.UserDatabase
}

type userCreateRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	RollNumber string `json:"rollNumber"`
	University string `json:"university"`
	Branch     string `json:"branch"`
	Phone      string `json:"phone"`
}

type userCheckRequest struct {
	Email string `json:"email"`
}

// UserCreateHandler registers a new member with a unique email and roll number
func (u User) UserCreateHandler(w http.ResponseWriter, r *http.Request) {
	var req userCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" || email == "" || req.Password == "" || req.RollNumber == "" {
		config.ErrorStatus("name, email, password and roll number are required", http.StatusBadRequest, w, nil)
		return
	}

	count, err := u.DB.CountDocuments(r.Context(), bson.M{"$or": []bson.M{
		{"email": email},
		{"rollNumber": req.RollNumber},
	}})
	if err != nil {
		config.ErrorStatus("failed to check existing users", http.StatusInternalServerError, w, err)
		return
	}
	if count > 0 {
		config.ErrorStatus("a user with that email or roll number already exists", http.StatusConflict, w, nil)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
		return
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	user := models.User{
		ID:         primitive.NewObjectID(),
		Name:       req.Name,
		Email:      email,
		Password:   string(hash),
		RollNumber: req.RollNumber,
		University: req.University,
		Branch:     req.Branch,
		Phone:      req.Phone,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := u.DB.InsertOne(r.Context(), user); err != nil {
		config.ErrorStatus("failed to create user", http.StatusInternalServerError, w, err)
		return
	}

	user.Password = ""
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

// UserCheckEmailHandler reports whether an account exists for the given email
func (u User) UserCheckEmailHandler(w http.ResponseWriter, r *http.Request) {
	var req userCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" {
		config.ErrorStatus("email is required", http.StatusBadRequest, w, nil)
		return
	}

	count, err := u.DB.CountDocuments(r.Context(), bson.M{"email": email})
	if err != nil {
		config.ErrorStatus("failed to check user", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"exists": count > 0,
	})
}

// UserHandler returns a user by ID
func (u User) UserHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	uID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	user, err := u.DB.FindOne(r.Context(), bson.M{"_id": uID})
	if err != nil {
		config.ErrorStatus("failed to get user by ID", http.StatusNotFound, w, err)
		return
	}
	user.Password = ""

	b, err := json.Marshal(user)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// UserByRollNumberHandler resolves a user by their roll number. Used by
// captains adding members directly.
func (u User) UserByRollNumberHandler(w http.ResponseWriter, r *http.Request) {
	rollNumber := mux.Vars(r)["roll_number"]

	user, err := u.DB.FindOne(r.Context(), bson.M{"rollNumber": rollNumber})
	if err != nil {
		config.ErrorStatus("no user found with that roll number", http.StatusNotFound, w, err)
		return
	}
	user.Password = ""

	b, err := json.Marshal(user)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
