package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/roboclub/club-api/api/handlers"
	"github.com/roboclub/club-api/databases"
	"github.com/roboclub/club-api/databases/mocks"
	"github.com/roboclub/club-api/models"
)

func TestTeam_CreateTeamHandlerMissingEventID(t *testing.T) {
	body := strings.NewReader(`{"teamName": "Circuit Breakers", "userId": "608cafe595eb9dc05379b7f4"}`)
	req, err := http.NewRequest("POST", "/api/v1/teams", body)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	h := handlers.Team{
		DB:  databases.NewTeamDatabase(db),
		UDB: databases.NewUserDatabase(db),
		EDB: databases.NewEventDatabase(db),
		RDB: databases.NewRegistrationDatabase(db),
		NDB: databases.NewNotificationDatabase(db),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.CreateTeamHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "event id is required")
}

func TestTeam_CreateTeamHandlerAllocatesSequentialCode(t *testing.T) {
	userID := primitive.NewObjectID()
	eventID := primitive.NewObjectID()

	body := strings.NewReader(`{"eventId": "` + eventID.Hex() + `", "teamName": "Circuit Breakers", "userId": "` + userID.Hex() + `"}`)
	req, err := http.NewRequest("POST", "/api/v1/teams", body)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	client := &mocks.ClientHelper{}
	users := &mocks.CollectionHelper{}
	teams := &mocks.CollectionHelper{}
	events := &mocks.CollectionHelper{}
	registrations := &mocks.CollectionHelper{}
	counters := &mocks.CollectionHelper{}
	userResult := &mocks.SingleResultHelper{}
	eventResult := &mocks.SingleResultHelper{}
	counterResult := &mocks.SingleResultHelper{}
	insertResult := &mocks.InsertOneResultHelper{}

	userResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.User)
		(*arg).ID = userID
		(*arg).Name = "Asha Rao"
		(*arg).RollNumber = "21BRS1234"
	})
	users.On("FindOne", mock.Anything, mock.Anything).Return(userResult)

	eventResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Event)
		(*arg).ID = eventID
		(*arg).MaxTeamSize = 4
	})
	events.On("FindOne", mock.Anything, mock.Anything).Return(eventResult)

	registrations.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(1), nil)
	teams.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil)

	counterResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Counter)
		(*arg).ID = databases.TeamCodeNamespace
		(*arg).Current = 42
	})
	counters.On("FindOneAndUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(counterResult)

	insertResult.On("Decode").Return(primitive.NewObjectID())
	teams.On("InsertOne", mock.Anything, mock.Anything).Return(insertResult, nil)

	client.On("WithTransaction", mock.Anything, mock.Anything).Return(
		func(ctx context.Context, fn func(context.Context) (interface{}, error)) interface{} {
			res, _ := fn(ctx)
			return res
		},
		func(ctx context.Context, fn func(context.Context) (interface{}, error)) error {
			return nil
		},
	)

	db.On("Client").Return(client)
	db.On("Collection", "users").Return(users)
	db.On("Collection", "teams").Return(teams)
	db.On("Collection", "events").Return(events)
	db.On("Collection", "registrations").Return(registrations)
	db.On("Collection", "counters").Return(counters)

	h := handlers.Team{
		DB:  databases.NewTeamDatabase(db),
		UDB: databases.NewUserDatabase(db),
		EDB: databases.NewEventDatabase(db),
		RDB: databases.NewRegistrationDatabase(db),
		NDB: databases.NewNotificationDatabase(db),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.CreateTeamHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), "TEAM-00042")
	assert.Contains(t, rr.Body.String(), "Circuit Breakers")
}

func TestTeam_CreateTeamHandlerAlreadyInTeam(t *testing.T) {
	userID := primitive.NewObjectID()

	body := strings.NewReader(`{"eventId": "evt-1", "teamName": "Circuit Breakers", "userId": "` + userID.Hex() + `"}`)
	req, err := http.NewRequest("POST", "/api/v1/teams", body)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	users := &mocks.CollectionHelper{}
	teams := &mocks.CollectionHelper{}
	registrations := &mocks.CollectionHelper{}
	userResult := &mocks.SingleResultHelper{}

	userResult.On("Decode", mock.Anything).Return(nil)
	users.On("FindOne", mock.Anything, mock.Anything).Return(userResult)
	registrations.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(1), nil)
	teams.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(1), nil)

	db.On("Collection", "users").Return(users)
	db.On("Collection", "teams").Return(teams)
	db.On("Collection", "registrations").Return(registrations)

	h := handlers.Team{
		DB:  databases.NewTeamDatabase(db),
		UDB: databases.NewUserDatabase(db),
		EDB: databases.NewEventDatabase(db),
		RDB: databases.NewRegistrationDatabase(db),
		NDB: databases.NewNotificationDatabase(db),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.CreateTeamHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "user already has a team for this event")
}

func TestTeam_RequestJoinHandlerTeamFull(t *testing.T) {
	teamID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	body := strings.NewReader(`{"userId": "` + userID.Hex() + `"}`)
	req, err := http.NewRequest("POST", "/api/v1/team/"+teamID.Hex()+"/join-requests", body)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"team_id": teamID.Hex()})
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	users := &mocks.CollectionHelper{}
	teams := &mocks.CollectionHelper{}
	userResult := &mocks.SingleResultHelper{}
	teamResult := &mocks.SingleResultHelper{}

	userResult.On("Decode", mock.Anything).Return(nil)
	users.On("FindOne", mock.Anything, mock.Anything).Return(userResult)

	teamResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Team)
		(*arg).ID = teamID
		(*arg).MaxSize = 2
		(*arg).MemberIDs = []string{"a", "b"}
		(*arg).Members = []models.TeamMember{{UID: "a"}, {UID: "b"}}
	})
	teams.On("FindOne", mock.Anything, mock.Anything).Return(teamResult)
	teams.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil)

	db.On("Collection", "users").Return(users)
	db.On("Collection", "teams").Return(teams)

	h := handlers.Team{
		DB:  databases.NewTeamDatabase(db),
		UDB: databases.NewUserDatabase(db),
		EDB: databases.NewEventDatabase(db),
		RDB: databases.NewRegistrationDatabase(db),
		NDB: databases.NewNotificationDatabase(db),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.RequestJoinHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "team is full")
}

func TestTeam_RequestJoinHandlerPendingOnAnotherTeam(t *testing.T) {
	teamID := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	uid := userID.Hex()

	body := strings.NewReader(`{"userId": "` + uid + `"}`)
	req, err := http.NewRequest("POST", "/api/v1/team/"+teamID.Hex()+"/join-requests", body)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"team_id": teamID.Hex()})
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	users := &mocks.CollectionHelper{}
	teams := &mocks.CollectionHelper{}
	userResult := &mocks.SingleResultHelper{}
	teamResult := &mocks.SingleResultHelper{}

	userResult.On("Decode", mock.Anything).Return(nil)
	users.On("FindOne", mock.Anything, mock.Anything).Return(userResult)

	teamResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Team)
		(*arg).ID = teamID
		(*arg).EventID = "evt-1"
		(*arg).MaxSize = 3
		(*arg).MemberIDs = []string{"a"}
		(*arg).Members = []models.TeamMember{{UID: "a"}}
	})
	teams.On("FindOne", mock.Anything, mock.Anything).Return(teamResult)

	// not a member anywhere, but already pending on another team of the event
	teams.On("CountDocuments", mock.Anything, bson.M{"eventId": "evt-1", "memberIds": uid}).Return(int64(0), nil)
	teams.On("CountDocuments", mock.Anything, bson.M{"eventId": "evt-1", "pendingRequests.uid": uid}).Return(int64(1), nil)

	db.On("Collection", "users").Return(users)
	db.On("Collection", "teams").Return(teams)

	h := handlers.Team{
		DB:  databases.NewTeamDatabase(db),
		UDB: databases.NewUserDatabase(db),
		EDB: databases.NewEventDatabase(db),
		RDB: databases.NewRegistrationDatabase(db),
		NDB: databases.NewNotificationDatabase(db),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.RequestJoinHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "user already has a pending request for this event")
	teams.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}

func TestTeam_ApproveRequestHandlerNotCaptain(t *testing.T) {
	teamID := primitive.NewObjectID()

	body := strings.NewReader(`{"captainId": "not-the-captain"}`)
	req, err := http.NewRequest("PUT", "/api/v1/team/"+teamID.Hex()+"/join-requests/u1/approve", body)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"team_id": teamID.Hex(), "user_id": "u1"})
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	teams := &mocks.CollectionHelper{}
	teamResult := &mocks.SingleResultHelper{}

	teamResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Team)
		(*arg).ID = teamID
		(*arg).LeaderID = "the-real-captain"
	})
	teams.On("FindOne", mock.Anything, mock.Anything).Return(teamResult)
	db.On("Collection", "teams").Return(teams)

	h := handlers.Team{
		DB:  databases.NewTeamDatabase(db),
		UDB: databases.NewUserDatabase(db),
		EDB: databases.NewEventDatabase(db),
		RDB: databases.NewRegistrationDatabase(db),
		NDB: databases.NewNotificationDatabase(db),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.ApproveRequestHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "only the team captain can approve requests")
}

func TestTeam_ApproveRequestHandlerNoPendingRequestIsNoOp(t *testing.T) {
	teamID := primitive.NewObjectID()

	body := strings.NewReader(`{"captainId": "cap-1"}`)
	req, err := http.NewRequest("PUT", "/api/v1/team/"+teamID.Hex()+"/join-requests/u1/approve", body)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"team_id": teamID.Hex(), "user_id": "u1"})
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	teams := &mocks.CollectionHelper{}
	teamResult := &mocks.SingleResultHelper{}

	teamResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Team)
		(*arg).ID = teamID
		(*arg).LeaderID = "cap-1"
		(*arg).PendingRequests = []models.JoinRequest{}
	})
	teams.On("FindOne", mock.Anything, mock.Anything).Return(teamResult)
	db.On("Collection", "teams").Return(teams)

	h := handlers.Team{
		DB:  databases.NewTeamDatabase(db),
		UDB: databases.NewUserDatabase(db),
		EDB: databases.NewEventDatabase(db),
		RDB: databases.NewRegistrationDatabase(db),
		NDB: databases.NewNotificationDatabase(db),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.ApproveRequestHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "No pending request for this user")
}

func TestTeam_DeleteTeamHandlerCaptainOnly(t *testing.T) {
	teamID := primitive.NewObjectID()

	req, err := http.NewRequest("DELETE", "/api/v1/team/"+teamID.Hex()+"?captainId=someone-else", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"team_id": teamID.Hex()})
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	teams := &mocks.CollectionHelper{}
	teamResult := &mocks.SingleResultHelper{}

	teamResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Team)
		(*arg).ID = teamID
		(*arg).LeaderID = "cap-1"
	})
	teams.On("FindOne", mock.Anything, mock.Anything).Return(teamResult)
	db.On("Collection", "teams").Return(teams)

	h := handlers.Team{
		DB:  databases.NewTeamDatabase(db),
		UDB: databases.NewUserDatabase(db),
		EDB: databases.NewEventDatabase(db),
		RDB: databases.NewRegistrationDatabase(db),
		NDB: databases.NewNotificationDatabase(db),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.DeleteTeamHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "only the team captain can delete the team")
}

func TestTeam_RejectRequestHandlerNoPendingSkipsNotification(t *testing.T) {
	teamID := primitive.NewObjectID()

	body := strings.NewReader(`{"captainId": "cap-1"}`)
	req, err := http.NewRequest("DELETE", "/api/v1/team/"+teamID.Hex()+"/join-requests/u1", body)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"team_id": teamID.Hex(), "user_id": "u1"})
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	teams := &mocks.CollectionHelper{}
	teamResult := &mocks.SingleResultHelper{}

	teamResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Team)
		(*arg).ID = teamID
		(*arg).LeaderID = "cap-1"
	})
	teams.On("FindOne", mock.Anything, mock.Anything).Return(teamResult)

	// nothing to pull: the user never had a pending request
	teams.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 0}, nil)
	db.On("Collection", "teams").Return(teams)

	h := handlers.Team{
		DB:  databases.NewTeamDatabase(db),
		UDB: databases.NewUserDatabase(db),
		EDB: databases.NewEventDatabase(db),
		RDB: databases.NewRegistrationDatabase(db),
		NDB: databases.NewNotificationDatabase(db),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.RejectRequestHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	db.AssertNotCalled(t, "Collection", "notifications")
}

func TestTeam_AddMemberDirectHandlerRollNumberNotFound(t *testing.T) {
	teamID := primitive.NewObjectID()

	body := strings.NewReader(`{"captainId": "cap-1", "rollNumber": "21BRS9999"}`)
	req, err := http.NewRequest("POST", "/api/v1/team/"+teamID.Hex()+"/members", body)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"team_id": teamID.Hex()})
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	users := &mocks.CollectionHelper{}
	teams := &mocks.CollectionHelper{}
	userResult := &mocks.SingleResultHelper{}
	teamResult := &mocks.SingleResultHelper{}

	teamResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Team)
		(*arg).ID = teamID
		(*arg).LeaderID = "cap-1"
	})
	teams.On("FindOne", mock.Anything, mock.Anything).Return(teamResult)

	userResult.On("Decode", mock.Anything).Return(errors.New("mongo: no documents in result"))
	users.On("FindOne", mock.Anything, mock.Anything).Return(userResult)

	db.On("Collection", "teams").Return(teams)
	db.On("Collection", "users").Return(users)

	h := handlers.Team{
		DB:  databases.NewTeamDatabase(db),
		UDB: databases.NewUserDatabase(db),
		EDB: databases.NewEventDatabase(db),
		RDB: databases.NewRegistrationDatabase(db),
		NDB: databases.NewNotificationDatabase(db),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.AddMemberDirectHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "no user found with that roll number")
}

func TestTeam_AddMemberDirectHandlerNotRegistered(t *testing.T) {
	teamID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	body := strings.NewReader(`{"captainId": "cap-1", "rollNumber": "21BRS1234"}`)
	req, err := http.NewRequest("POST", "/api/v1/team/"+teamID.Hex()+"/members", body)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"team_id": teamID.Hex()})
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	users := &mocks.CollectionHelper{}
	teams := &mocks.CollectionHelper{}
	registrations := &mocks.CollectionHelper{}
	userResult := &mocks.SingleResultHelper{}
	teamResult := &mocks.SingleResultHelper{}

	teamResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Team)
		(*arg).ID = teamID
		(*arg).EventID = "evt-1"
		(*arg).LeaderID = "cap-1"
	})
	teams.On("FindOne", mock.Anything, mock.Anything).Return(teamResult)

	userResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.User)
		(*arg).ID = userID
		(*arg).RollNumber = "21BRS1234"
	})
	users.On("FindOne", mock.Anything, mock.Anything).Return(userResult)

	registrations.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil)

	db.On("Collection", "teams").Return(teams)
	db.On("Collection", "users").Return(users)
	db.On("Collection", "registrations").Return(registrations)

	h := handlers.Team{
		DB:  databases.NewTeamDatabase(db),
		UDB: databases.NewUserDatabase(db),
		EDB: databases.NewEventDatabase(db),
		RDB: databases.NewRegistrationDatabase(db),
		NDB: databases.NewNotificationDatabase(db),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.AddMemberDirectHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "user is not registered for this event")
}

func TestTeam_AddMemberDirectHandlerTeamFull(t *testing.T) {
	teamID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	body := strings.NewReader(`{"captainId": "cap-1", "rollNumber": "21BRS1234"}`)
	req, err := http.NewRequest("POST", "/api/v1/team/"+teamID.Hex()+"/members", body)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"team_id": teamID.Hex()})
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	users := &mocks.CollectionHelper{}
	teams := &mocks.CollectionHelper{}
	registrations := &mocks.CollectionHelper{}
	userResult := &mocks.SingleResultHelper{}
	teamResult := &mocks.SingleResultHelper{}

	teamResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Team)
		(*arg).ID = teamID
		(*arg).EventID = "evt-1"
		(*arg).LeaderID = "cap-1"
		(*arg).MaxSize = 2
		(*arg).MemberIDs = []string{"a", "b"}
		(*arg).Members = []models.TeamMember{{UID: "a"}, {UID: "b"}}
	})
	teams.On("FindOne", mock.Anything, mock.Anything).Return(teamResult)
	teams.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil)

	userResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.User)
		(*arg).ID = userID
		(*arg).RollNumber = "21BRS1234"
	})
	users.On("FindOne", mock.Anything, mock.Anything).Return(userResult)

	registrations.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(1), nil)

	db.On("Collection", "teams").Return(teams)
	db.On("Collection", "users").Return(users)
	db.On("Collection", "registrations").Return(registrations)

	h := handlers.Team{
		DB:  databases.NewTeamDatabase(db),
		UDB: databases.NewUserDatabase(db),
		EDB: databases.NewEventDatabase(db),
		RDB: databases.NewRegistrationDatabase(db),
		NDB: databases.NewNotificationDatabase(db),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.AddMemberDirectHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "team is full")
	teams.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}

func TestTeam_SearchTeamByMemberHandlerMissingParams(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/teams/search", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	h := handlers.Team{
		DB:  databases.NewTeamDatabase(db),
		UDB: databases.NewUserDatabase(db),
		EDB: databases.NewEventDatabase(db),
		RDB: databases.NewRegistrationDatabase(db),
		NDB: databases.NewNotificationDatabase(db),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.SearchTeamByMemberHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "eventId and rollNumber are required")
}

func TestTeam_SearchTeamByMemberHandlerSuccess(t *testing.T) {
	teamID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	req, err := http.NewRequest("GET", "/api/v1/teams/search?eventId=evt-1&rollNumber=21BRS1234", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	users := &mocks.CollectionHelper{}
	teams := &mocks.CollectionHelper{}
	userResult := &mocks.SingleResultHelper{}
	teamResult := &mocks.SingleResultHelper{}

	userResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.User)
		(*arg).ID = userID
		(*arg).RollNumber = "21BRS1234"
	})
	users.On("FindOne", mock.Anything, mock.Anything).Return(userResult)

	teamResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Team)
		(*arg).ID = teamID
		(*arg).EventID = "evt-1"
		(*arg).TeamName = "Circuit Breakers"
		(*arg).TeamCode = "TEAM-00042"
		(*arg).MemberIDs = []string{userID.Hex()}
	})
	teams.On("FindOne", mock.Anything, mock.Anything).Return(teamResult)

	db.On("Collection", "users").Return(users)
	db.On("Collection", "teams").Return(teams)

	h := handlers.Team{
		DB:  databases.NewTeamDatabase(db),
		UDB: databases.NewUserDatabase(db),
		EDB: databases.NewEventDatabase(db),
		RDB: databases.NewRegistrationDatabase(db),
		NDB: databases.NewNotificationDatabase(db),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.SearchTeamByMemberHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Circuit Breakers")
	assert.Contains(t, rr.Body.String(), "TEAM-00042")
}

func TestTeam_PendingTeamHandlerMissingParams(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/teams/pending", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	h := handlers.Team{
		DB:  databases.NewTeamDatabase(db),
		UDB: databases.NewUserDatabase(db),
		EDB: databases.NewEventDatabase(db),
		RDB: databases.NewRegistrationDatabase(db),
		NDB: databases.NewNotificationDatabase(db),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.PendingTeamHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "eventId and userId are required")
}

func TestTeam_TeamsByEventHandlerEmpty(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/teams/event/evt-1", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"event_id": "evt-1"})
	req.Header.Set("Authorization", "Bearer abc123")

	db := &MockDatabaseHelper{}
	teams := &mocks.CollectionHelper{}
	cursor := &mocks.CursorHelper{}

	cursor.On("Decode", mock.Anything).Return(nil)
	teams.On("Find", mock.Anything, mock.Anything).Return(cursor, nil)
	db.On("Collection", "teams").Return(teams)

	h := handlers.Team{
		DB:  databases.NewTeamDatabase(db),
		UDB: databases.NewUserDatabase(db),
		EDB: databases.NewEventDatabase(db),
		RDB: databases.NewRegistrationDatabase(db),
		NDB: databases.NewNotificationDatabase(db),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.TeamsByEventHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rr.Body.String()))
}
