package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/roboclub/club-api/api/handlers"
	"github.com/roboclub/club-api/databases"
	"github.com/roboclub/club-api/databases/mocks"
	"github.com/roboclub/club-api/models"
)

func newIssuanceHandler(db *MockDatabaseHelper) handlers.Issuance {
	return handlers.Issuance{
		DB:  databases.NewIssuanceDatabase(db),
		CDB: databases.NewComponentDatabase(db),
		UDB: databases.NewUserDatabase(db),
		NDB: databases.NewNotificationDatabase(db),
	}
}

func TestIssuance_RequestComponentHandlerInvalidQuantity(t *testing.T) {
	body := strings.NewReader(`{"componentId": "608cafe595eb9dc05379b7f4", "userId": "608cafe595eb9dc05379b7f5", "quantity": 0, "dueDate": "2030-01-02T15:04:05Z"}`)
	req, err := http.NewRequest("POST", "/api/v1/issuances", body)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	h := newIssuanceHandler(&MockDatabaseHelper{})

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.RequestComponentHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "quantity must be positive")
}

func TestIssuance_RequestComponentHandlerLoanTooLong(t *testing.T) {
	dueDate := time.Now().AddDate(0, 0, 30).Format(time.RFC3339)
	body := strings.NewReader(`{"componentId": "608cafe595eb9dc05379b7f4", "userId": "608cafe595eb9dc05379b7f5", "quantity": 1, "dueDate": "` + dueDate + `"}`)
	req, err := http.NewRequest("POST", "/api/v1/issuances", body)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	h := newIssuanceHandler(&MockDatabaseHelper{})

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.RequestComponentHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "loan duration cannot exceed 7 days")
}

func TestIssuance_RequestComponentHandlerInsufficientStock(t *testing.T) {
	componentID := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	dueDate := time.Now().AddDate(0, 0, 3).Format(time.RFC3339)

	body := strings.NewReader(`{"componentId": "` + componentID.Hex() + `", "userId": "` + userID.Hex() + `", "quantity": 5, "dueDate": "` + dueDate + `"}`)
	req, err := http.NewRequest("POST", "/api/v1/issuances", body)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	users := &mocks.CollectionHelper{}
	inventory := &mocks.CollectionHelper{}
	userResult := &mocks.SingleResultHelper{}
	componentResult := &mocks.SingleResultHelper{}

	userResult.On("Decode", mock.Anything).Return(nil)
	users.On("FindOne", mock.Anything, mock.Anything).Return(userResult)

	componentResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Component)
		(*arg).ID = componentID
		(*arg).Name = "Ultrasonic Sensor"
		(*arg).AvailableQuantity = 2
	})
	inventory.On("FindOne", mock.Anything, mock.Anything).Return(componentResult)

	// the conditional reservation matches nothing when stock is short
	inventory.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(&mongo.UpdateResult{MatchedCount: 0}, nil)

	db.On("Collection", "users").Return(users)
	db.On("Collection", "inventory").Return(inventory)

	h := newIssuanceHandler(db)

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.RequestComponentHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "requested quantity exceeds available stock")
}

func TestIssuance_RequestComponentHandlerSuccess(t *testing.T) {
	componentID := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	dueDate := time.Now().AddDate(0, 0, 3).Format(time.RFC3339)

	body := strings.NewReader(`{"componentId": "` + componentID.Hex() + `", "userId": "` + userID.Hex() + `", "quantity": 2, "purpose": "line follower bot", "dueDate": "` + dueDate + `"}`)
	req, err := http.NewRequest("POST", "/api/v1/issuances", body)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	users := &mocks.CollectionHelper{}
	inventory := &mocks.CollectionHelper{}
	issuances := &mocks.CollectionHelper{}
	userResult := &mocks.SingleResultHelper{}
	componentResult := &mocks.SingleResultHelper{}
	insertResult := &mocks.InsertOneResultHelper{}

	userResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.User)
		(*arg).ID = userID
		(*arg).Name = "Asha Rao"
		(*arg).Email = "asha@example.com"
	})
	users.On("FindOne", mock.Anything, mock.Anything).Return(userResult)

	componentResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Component)
		(*arg).ID = componentID
		(*arg).Name = "Ultrasonic Sensor"
		(*arg).AvailableQuantity = 5
	})
	inventory.On("FindOne", mock.Anything, mock.Anything).Return(componentResult)
	inventory.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(&mongo.UpdateResult{MatchedCount: 1}, nil)

	insertResult.On("Decode").Return(primitive.NewObjectID())
	issuances.On("InsertOne", mock.Anything, mock.Anything).Return(insertResult, nil)

	db.On("Collection", "users").Return(users)
	db.On("Collection", "inventory").Return(inventory)
	db.On("Collection", "issuances").Return(issuances)

	h := newIssuanceHandler(db)

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.RequestComponentHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), "Ultrasonic Sensor")
	assert.Contains(t, rr.Body.String(), `"status":"pending"`)
}

func TestIssuance_UpdateIssuanceStatusHandlerInvalidStatus(t *testing.T) {
	issuanceID := primitive.NewObjectID()

	body := strings.NewReader(`{"status": "lost"}`)
	req, err := http.NewRequest("PUT", "/api/v1/issuance/"+issuanceID.Hex()+"/status", body)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"issuance_id": issuanceID.Hex()})
	req.Header.Set("Authorization", "Bearer abc123")

	h := newIssuanceHandler(&MockDatabaseHelper{})

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.UpdateIssuanceStatusHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid issuance status")
}

func TestIssuance_UpdateIssuanceStatusHandlerRepeatDecisionIsNoOp(t *testing.T) {
	issuanceID := primitive.NewObjectID()

	body := strings.NewReader(`{"status": "approved"}`)
	req, err := http.NewRequest("PUT", "/api/v1/issuance/"+issuanceID.Hex()+"/status", body)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"issuance_id": issuanceID.Hex()})
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	issuances := &mocks.CollectionHelper{}
	issuanceResult := &mocks.SingleResultHelper{}

	issuanceResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Issuance)
		(*arg).ID = issuanceID
		(*arg).Status = models.IssuanceStatusApproved
	})
	issuances.On("FindOne", mock.Anything, mock.Anything).Return(issuanceResult)

	// the status-filtered transition matches nothing on a repeat decision
	issuances.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(&mongo.UpdateResult{MatchedCount: 0}, nil)
	db.On("Collection", "issuances").Return(issuances)

	h := newIssuanceHandler(db)

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.UpdateIssuanceStatusHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Issuance is already approved")
}

func TestIssuance_UpdateIssuanceStatusHandlerReturnRestoresStock(t *testing.T) {
	issuanceID := primitive.NewObjectID()
	componentID := primitive.NewObjectID()

	body := strings.NewReader(`{"status": "returned"}`)
	req, err := http.NewRequest("PUT", "/api/v1/issuance/"+issuanceID.Hex()+"/status", body)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"issuance_id": issuanceID.Hex()})
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	issuances := &mocks.CollectionHelper{}
	inventory := &mocks.CollectionHelper{}
	notifications := &mocks.CollectionHelper{}
	issuanceResult := &mocks.SingleResultHelper{}
	insertResult := &mocks.InsertOneResultHelper{}

	issuanceResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Issuance)
		(*arg).ID = issuanceID
		(*arg).ComponentID = componentID
		(*arg).ComponentName = "Ultrasonic Sensor"
		(*arg).UserID = "u1"
		(*arg).Quantity = 2
		(*arg).Status = models.IssuanceStatusApproved
	})
	issuances.On("FindOne", mock.Anything, mock.Anything).Return(issuanceResult)
	issuances.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(&mongo.UpdateResult{MatchedCount: 1}, nil)

	inventory.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(&mongo.UpdateResult{MatchedCount: 1}, nil)

	insertResult.On("Decode").Return(primitive.NewObjectID())
	notifications.On("InsertOne", mock.Anything, mock.Anything).Return(insertResult, nil)

	db.On("Collection", "issuances").Return(issuances)
	db.On("Collection", "inventory").Return(inventory)
	db.On("Collection", "notifications").Return(notifications)

	h := newIssuanceHandler(db)

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.UpdateIssuanceStatusHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Issuance status updated")

	inventory.AssertCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}
