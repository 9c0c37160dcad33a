package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/roboclub/club-api/config"
	"github.com/roboclub/club-api/databases"
	"github.com/roboclub/club-api/models"
	templates "github.com/roboclub/club-api/templates/html"
)

// maxLoanDays caps how far out a due date may be set
const maxLoanDays = 7

// Issuance exported for testing purposes
type Issuance struct {
	DB  databases.IssuanceDatabase
	CDB databases.ComponentDatabase
	UDB databases.UserDatabase
	NDB databases.NotificationDatabase
}

type issuanceRequest struct {
	ComponentID string `json:"componentId"`
	UserID      string `json:"userId"`
	Quantity    int    `json:"quantity"`
	Purpose     string `json:"purpose"`
	DueDate     string `json:"dueDate"`
}

type issuanceStatusRequest struct {
	Status string `json:"status"`
}

// RequestComponentHandler creates a pending issuance and reserves the
// requested quantity against the component's available stock. The
// reservation is a single conditional decrement, so two racing requests can
// never both claim the last unit.
func (i Issuance) RequestComponentHandler(w http.ResponseWriter, r *http.Request) {
	var req issuanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if req.Quantity <= 0 {
		config.ErrorStatus("quantity must be positive", http.StatusBadRequest, w, nil)
		return
	}

	dueDate, err := time.Parse(time.RFC3339, req.DueDate)
	if err != nil {
		config.ErrorStatus("failed to parse due date", http.StatusBadRequest, w, err)
		return
	}
	now := time.Now()
	if dueDate.Before(now) {
		config.ErrorStatus("due date must be in the future", http.StatusBadRequest, w, nil)
		return
	}
	if dueDate.After(now.AddDate(0, 0, maxLoanDays)) {
		config.ErrorStatus(fmt.Sprintf("loan duration cannot exceed %d days", maxLoanDays), http.StatusBadRequest, w, nil)
		return
	}

	cID, err := primitive.ObjectIDFromHex(req.ComponentID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	uID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	user, err := i.UDB.FindOne(r.Context(), bson.M{"_id": uID})
	if err != nil {
		config.ErrorStatus("user not found", http.StatusNotFound, w, err)
		return
	}
	component, err := i.CDB.FindOne(r.Context(), bson.M{"_id": cID})
	if err != nil {
		config.ErrorStatus("component not found", http.StatusNotFound, w, err)
		return
	}

	ok, err := i.CDB.Reserve(r.Context(), cID, req.Quantity)
	if err != nil {
		config.ErrorStatus("failed to reserve stock", http.StatusInternalServerError, w, err)
		return
	}
	if !ok {
		config.ErrorStatus("requested quantity exceeds available stock", http.StatusConflict, w, nil)
		return
	}

	issuance := models.Issuance{
		ID:             primitive.NewObjectID(),
		ComponentID:    cID,
		ComponentName:  component.Name,
		ComponentImage: component.ImageURL,
		UserID:         req.UserID,
		UserName:       user.Name,
		UserEmail:      user.Email,
		Quantity:       req.Quantity,
		Purpose:        req.Purpose,
		IssueDate:      primitive.NewDateTimeFromTime(now),
		DueDate:        primitive.NewDateTimeFromTime(dueDate),
		Status:         models.IssuanceStatusPending,
		UpdatedAt:      primitive.NewDateTimeFromTime(now),
	}
	if _, err := i.DB.InsertOne(r.Context(), issuance); err != nil {
		// release the reservation so the stock is not stranded
		if restoreErr := i.CDB.Restore(r.Context(), cID, req.Quantity); restoreErr != nil {
			config.ErrorStatus("failed to release reserved stock", http.StatusInternalServerError, w, restoreErr)
			return
		}
		config.ErrorStatus("failed to create issuance", http.StatusInternalServerError, w, err)
		return
	}

	go sendIssuanceEmail(issuance, "Component request received",
		fmt.Sprintf("Hi %s,\n\nYour request for %d x %s has been received and is awaiting approval.\n\nDue date: %s",
			issuance.UserName, issuance.Quantity, issuance.ComponentName,
			dueDate.Format("Mon, 02 Jan 2006")))

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(issuance)
}

// sendIssuanceEmail fires a sendgrid notification email on a goroutine. A
// failed send is logged and never surfaced to the caller.
func sendIssuanceEmail(issuance models.Issuance, subject, body string) {
	defer func() {
		if r := recover(); r != nil {
			zap.S().Errorf("recovered from panic while sending issuance email: %v", r)
		}
	}()

	if issuance.UserEmail == "" {
		return
	}

	from := mail.NewEmail("Robotics Club Inventory", os.Getenv("EMAIL_FROM"))
	to := mail.NewEmail(issuance.UserName, issuance.UserEmail)
	html := templates.RenderGenericEmail(subject, body)
	msg := mail.NewSingleEmail(from, subject, to, body, html)
	client := sendgrid.NewSendClient(os.Getenv("SENDGRID_API_KEY"))
	if _, err := client.Send(msg); err != nil {
		zap.S().Errorw("failed to send issuance email", "to", issuance.UserEmail, "error", err)
	}
}

// IssuancesHandler returns all issuances, optionally filtered by ?status=,
// newest first
func (i Issuance) IssuancesHandler(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		issuanceStatus := models.IssuanceStatus(status)
		if !issuanceStatus.IsValid() {
			config.ErrorStatus("invalid issuance status", http.StatusBadRequest, w, nil)
			return
		}
		filter["status"] = issuanceStatus
	}

	limit := int64(getLimit(r))
	skip := int64(getPage(r)) * limit
	opts := options.Find().
		SetSort(bson.M{"issueDate": -1}).
		SetLimit(limit).
		SetSkip(skip)

	issuances, err := i.DB.Find(r.Context(), filter, opts)
	if err != nil {
		config.ErrorStatus("failed to get issuances", http.StatusNotFound, w, err)
		return
	}
	if len(issuances) == 0 {
		issuances = []models.Issuance{}
	}

	b, err := json.Marshal(issuances)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// IssuancesByUserIDHandler returns a user's issuance history, newest first
func (i Issuance) IssuancesByUserIDHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	issuances, err := i.DB.Find(r.Context(), bson.M{"userId": userID},
		options.Find().SetSort(bson.M{"issueDate": -1}))
	if err != nil {
		config.ErrorStatus("failed to get issuances", http.StatusNotFound, w, err)
		return
	}
	if len(issuances) == 0 {
		issuances = []models.Issuance{}
	}

	b, err := json.Marshal(issuances)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// UpdateIssuanceStatusHandler drives the issuance life-cycle:
// pending -> approved | rejected, approved -> returned. Rejection and return
// restore the reserved quantity to the component's available stock. A repeat
// of an already-applied decision is a no-op 200 so double-clicks and
// concurrent admin sessions stay safe; any other transition is a conflict.
func (i Issuance) UpdateIssuanceStatusHandler(w http.ResponseWriter, r *http.Request) {
	issuanceID := mux.Vars(r)["issuance_id"]

	iID, err := primitive.ObjectIDFromHex(issuanceID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req issuanceStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	target := models.IssuanceStatus(req.Status)
	var from []models.IssuanceStatus
	switch target {
	case models.IssuanceStatusApproved, models.IssuanceStatusRejected:
		from = []models.IssuanceStatus{models.IssuanceStatusPending}
	case models.IssuanceStatusReturned:
		from = []models.IssuanceStatus{models.IssuanceStatusApproved}
	default:
		config.ErrorStatus("invalid issuance status", http.StatusBadRequest, w, nil)
		return
	}

	issuance, err := i.DB.FindOne(r.Context(), bson.M{"_id": iID})
	if err != nil {
		config.ErrorStatus("issuance not found", http.StatusNotFound, w, err)
		return
	}

	ok, err := i.DB.Transition(r.Context(), iID, from, target)
	if err != nil {
		config.ErrorStatus("failed to update issuance status", http.StatusInternalServerError, w, err)
		return
	}
	if !ok {
		if issuance.Status == target {
			// decision already applied
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"message": fmt.Sprintf("Issuance is already %s", target),
			})
			return
		}
		config.ErrorStatus(
			fmt.Sprintf("cannot move issuance from %s to %s", issuance.Status, target),
			http.StatusConflict, w, nil)
		return
	}

	// rejected and returned both hand the reserved units back
	if target == models.IssuanceStatusRejected || target == models.IssuanceStatusReturned {
		if err := i.CDB.Restore(r.Context(), issuance.ComponentID, issuance.Quantity); err != nil {
			config.ErrorStatus("failed to restore stock", http.StatusInternalServerError, w, err)
			return
		}
	}

	go emitNotification(i.NDB, models.Notification{
		UserID:  issuance.UserID,
		Type:    models.NotificationTypeIssuanceDecision,
		Title:   "Issuance update",
		Message: fmt.Sprintf("Your request for %d x %s is now %s", issuance.Quantity, issuance.ComponentName, target),
	})
	go sendIssuanceEmail(*issuance, "Issuance update",
		fmt.Sprintf("Hi %s,\n\nYour request for %d x %s is now %s.",
			issuance.UserName, issuance.Quantity, issuance.ComponentName, target))

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Issuance status updated",
		"status":  target,
	})
}
