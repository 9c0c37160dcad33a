package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/roboclub/club-api/config"
	"github.com/roboclub/club-api/databases"
	"github.com/roboclub/club-api/models"
)

// defaultTeamSize is the capacity ceiling used when the event does not set
// its own
const defaultTeamSize = 5

// Team exported for testing purposes
type Team struct {
	DB  databases.TeamDatabase
	UDB databases.UserDatabase
	EDB databases.EventDatabase
	RDB databases.RegistrationDatabase
	NDB databases.NotificationDatabase
}

type createTeamRequest struct {
	EventID  string `json:"eventId"`
	TeamName string `json:"teamName"`
	UserID   string `json:"userId"`
}

type joinTeamRequest struct {
	UserID string `json:"userId"`
}

type captainActionRequest struct {
	CaptainID string `json:"captainId"`
}

type addMemberRequest struct {
	CaptainID  string `json:"captainId"`
	RollNumber string `json:"rollNumber"`
}

// CreateTeamHandler creates a team for an event with the caller as captain.
// The sequential team code is allocated inside the same transaction as the
// team insert, so concurrent creations never share a code.
func (t Team) CreateTeamHandler(w http.ResponseWriter, r *http.Request) {
	var req createTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.EventID == "" {
		config.ErrorStatus("event id is required", http.StatusBadRequest, w, nil)
		return
	}
	if req.TeamName == "" {
		config.ErrorStatus("team name is required", http.StatusBadRequest, w, nil)
		return
	}

	uID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	creator, err := t.UDB.FindOne(r.Context(), bson.M{"_id": uID})
	if err != nil {
		config.ErrorStatus("user not found", http.StatusNotFound, w, err)
		return
	}

	regCount, err := t.RDB.CountDocuments(r.Context(), bson.M{"eventId": req.EventID, "userId": req.UserID})
	if err != nil {
		config.ErrorStatus("failed to check event registration", http.StatusInternalServerError, w, err)
		return
	}
	if regCount == 0 {
		config.ErrorStatus("user is not registered for this event", http.StatusForbidden, w, nil)
		return
	}

	// one team per member per event
	existing, err := t.DB.CountDocuments(r.Context(), bson.M{"eventId": req.EventID, "memberIds": req.UserID})
	if err != nil {
		config.ErrorStatus("failed to check existing teams", http.StatusInternalServerError, w, err)
		return
	}
	if existing > 0 {
		config.ErrorStatus("user already has a team for this event", http.StatusConflict, w, nil)
		return
	}

	// best-effort name check; the team code is the real unique handle
	dupes, err := t.DB.CountDocuments(r.Context(), bson.M{"eventId": req.EventID, "teamName": req.TeamName})
	if err != nil {
		config.ErrorStatus("failed to check team name", http.StatusInternalServerError, w, err)
		return
	}
	if dupes > 0 {
		config.ErrorStatus("team name is already taken for this event", http.StatusConflict, w, nil)
		return
	}

	maxSize := defaultTeamSize
	if eID, err := primitive.ObjectIDFromHex(req.EventID); err == nil {
		if event, err := t.EDB.FindOne(r.Context(), bson.M{"_id": eID}); err == nil && event.MaxTeamSize > 0 {
			maxSize = event.MaxTeamSize
		}
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	team := models.Team{
		ID:       primitive.NewObjectID(),
		EventID:  req.EventID,
		TeamName: req.TeamName,
		Members: []models.TeamMember{{
			UID:         req.UserID,
			DisplayName: creator.Name,
			Email:       creator.Email,
			RollNumber:  creator.RollNumber,
			University:  creator.University,
			Phone:       creator.Phone,
			JoinedAt:    now,
		}},
		MemberIDs:       []string{req.UserID},
		LeaderID:        req.UserID,
		MaxSize:         maxSize,
		PendingRequests: []models.JoinRequest{},
		CreatedAt:       now,
	}

	created, err := t.DB.Create(r.Context(), team)
	if err != nil {
		config.ErrorStatus("failed to create team", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// RequestJoinHandler appends the caller to the team's pending requests and
// notifies the captain
func (t Team) RequestJoinHandler(w http.ResponseWriter, r *http.Request) {
	teamID := mux.Vars(r)["team_id"]

	tID, err := primitive.ObjectIDFromHex(teamID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req joinTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	uID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	requester, err := t.UDB.FindOne(r.Context(), bson.M{"_id": uID})
	if err != nil {
		config.ErrorStatus("user not found", http.StatusNotFound, w, err)
		return
	}

	team, err := t.DB.FindOne(r.Context(), bson.M{"_id": tID})
	if err != nil {
		config.ErrorStatus("team not found", http.StatusNotFound, w, err)
		return
	}

	if team.HasMember(req.UserID) {
		config.ErrorStatus("user is already a member of this team", http.StatusConflict, w, nil)
		return
	}

	inTeam, err := t.DB.CountDocuments(r.Context(), bson.M{"eventId": team.EventID, "memberIds": req.UserID})
	if err != nil {
		config.ErrorStatus("failed to check existing teams", http.StatusInternalServerError, w, err)
		return
	}
	if inTeam > 0 {
		config.ErrorStatus("user already has a team for this event", http.StatusConflict, w, nil)
		return
	}

	if team.IsFull() {
		config.ErrorStatus("team is full", http.StatusConflict, w, nil)
		return
	}

	if team.HasPendingRequest(req.UserID) {
		config.ErrorStatus("join request already pending", http.StatusConflict, w, nil)
		return
	}

	// a user holds at most one pending request per event across all teams
	pendingElsewhere, err := t.DB.CountDocuments(r.Context(), bson.M{"eventId": team.EventID, "pendingRequests.uid": req.UserID})
	if err != nil {
		config.ErrorStatus("failed to check pending requests", http.StatusInternalServerError, w, err)
		return
	}
	if pendingElsewhere > 0 {
		config.ErrorStatus("user already has a pending request for this event", http.StatusConflict, w, nil)
		return
	}

	request := models.JoinRequest{
		UID:         req.UserID,
		DisplayName: requester.Name,
		RollNumber:  requester.RollNumber,
		RequestedAt: primitive.NewDateTimeFromTime(time.Now()),
	}
	_, err = t.DB.UpdateOne(r.Context(),
		bson.M{"_id": tID, "pendingRequests.uid": bson.M{"$ne": req.UserID}},
		bson.M{"$push": bson.M{"pendingRequests": request}},
	)
	if err != nil {
		config.ErrorStatus("failed to submit join request", http.StatusInternalServerError, w, err)
		return
	}

	go emitNotification(t.NDB, models.Notification{
		UserID:  team.LeaderID,
		Type:    models.NotificationTypeJoinRequest,
		Title:   "New join request",
		Message: fmt.Sprintf("%s has requested to join %s", requester.Name, team.TeamName),
		TeamID:  team.ID.Hex(),
		EventID: team.EventID,
	})

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Join request submitted",
	})
}

// ApproveRequestHandler moves a pending request into the members list.
// Approving a request that no longer exists is a no-op rather than an
// error, so duplicate approvals from concurrent captain sessions are
// harmless.
func (t Team) ApproveRequestHandler(w http.ResponseWriter, r *http.Request) {
	teamID := mux.Vars(r)["team_id"]
	userID := mux.Vars(r)["user_id"]

	tID, err := primitive.ObjectIDFromHex(teamID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req captainActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	team, err := t.DB.FindOne(r.Context(), bson.M{"_id": tID})
	if err != nil {
		config.ErrorStatus("team not found", http.StatusNotFound, w, err)
		return
	}
	if team.LeaderID != req.CaptainID {
		config.ErrorStatus("only the team captain can approve requests", http.StatusForbidden, w, nil)
		return
	}

	var pending *models.JoinRequest
	for i := range team.PendingRequests {
		if team.PendingRequests[i].UID == userID {
			pending = &team.PendingRequests[i]
			break
		}
	}
	if pending == nil {
		// already approved, rejected, or never requested
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message": "No pending request for this user",
		})
		return
	}

	if team.IsFull() {
		config.ErrorStatus("team is full", http.StatusConflict, w, nil)
		return
	}

	user, err := t.UDB.FindOne(r.Context(), bson.M{"_id": mustObjectID(userID)})
	if err != nil {
		config.ErrorStatus("user not found", http.StatusNotFound, w, err)
		return
	}

	member := models.TeamMember{
		UID:         userID,
		DisplayName: user.Name,
		Email:       user.Email,
		RollNumber:  user.RollNumber,
		University:  user.University,
		Phone:       user.Phone,
		JoinedAt:    primitive.NewDateTimeFromTime(time.Now()),
	}

	// the filter re-checks the pending entry and the capacity ceiling so a
	// racing approval matches nothing instead of pushing past maxSize
	res, err := t.DB.UpdateOne(r.Context(),
		bson.M{
			"_id":                 tID,
			"pendingRequests.uid": userID,
			"memberIds":           bson.M{"$ne": userID},
			"$expr":               bson.M{"$lt": []interface{}{bson.M{"$size": "$members"}, "$maxSize"}},
		},
		bson.M{
			"$push": bson.M{"members": member, "memberIds": userID},
			"$pull": bson.M{"pendingRequests": bson.M{"uid": userID}},
		},
	)
	if err != nil {
		config.ErrorStatus("failed to approve join request", http.StatusInternalServerError, w, err)
		return
	}
	if res.MatchedCount == 0 {
		// lost a race: either the request was already processed or the team
		// filled up underneath us
		refreshed, err := t.DB.FindOne(r.Context(), bson.M{"_id": tID})
		if err == nil && refreshed.HasMember(userID) {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"message": "User is already a member",
			})
			return
		}
		config.ErrorStatus("team is full", http.StatusConflict, w, nil)
		return
	}

	go emitNotification(t.NDB, models.Notification{
		UserID:  userID,
		Type:    models.NotificationTypeRequestApproved,
		Title:   "Join request approved",
		Message: fmt.Sprintf("You are now a member of %s", team.TeamName),
		TeamID:  team.ID.Hex(),
		EventID: team.EventID,
	})

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Join request approved",
	})
}

// RejectRequestHandler removes a pending request without touching the
// members list. No-op if the request is absent.
func (t Team) RejectRequestHandler(w http.ResponseWriter, r *http.Request) {
	teamID := mux.Vars(r)["team_id"]
	userID := mux.Vars(r)["user_id"]

	tID, err := primitive.ObjectIDFromHex(teamID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req captainActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	team, err := t.DB.FindOne(r.Context(), bson.M{"_id": tID})
	if err != nil {
		config.ErrorStatus("team not found", http.StatusNotFound, w, err)
		return
	}
	if team.LeaderID != req.CaptainID {
		config.ErrorStatus("only the team captain can reject requests", http.StatusForbidden, w, nil)
		return
	}

	res, err := t.DB.UpdateOne(r.Context(),
		bson.M{"_id": tID},
		bson.M{"$pull": bson.M{"pendingRequests": bson.M{"uid": userID}}},
	)
	if err != nil {
		config.ErrorStatus("failed to reject join request", http.StatusInternalServerError, w, err)
		return
	}

	// only notify when a pending entry was actually removed
	if res.ModifiedCount > 0 {
		go emitNotification(t.NDB, models.Notification{
			UserID:  userID,
			Type:    models.NotificationTypeRequestRejected,
			Title:   "Join request rejected",
			Message: fmt.Sprintf("Your request to join %s was not accepted", team.TeamName),
			TeamID:  team.ID.Hex(),
			EventID: team.EventID,
		})
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Join request rejected",
	})
}

// AddMemberDirectHandler lets the captain add a registered participant by
// roll number, bypassing the pending-request step
func (t Team) AddMemberDirectHandler(w http.ResponseWriter, r *http.Request) {
	teamID := mux.Vars(r)["team_id"]

	tID, err := primitive.ObjectIDFromHex(teamID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req addMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.RollNumber == "" {
		config.ErrorStatus("roll number is required", http.StatusBadRequest, w, nil)
		return
	}

	team, err := t.DB.FindOne(r.Context(), bson.M{"_id": tID})
	if err != nil {
		config.ErrorStatus("team not found", http.StatusNotFound, w, err)
		return
	}
	if team.LeaderID != req.CaptainID {
		config.ErrorStatus("only the team captain can add members", http.StatusForbidden, w, nil)
		return
	}

	user, err := t.UDB.FindOne(r.Context(), bson.M{"rollNumber": req.RollNumber})
	if err != nil {
		config.ErrorStatus("no user found with that roll number", http.StatusNotFound, w, err)
		return
	}
	uid := user.ID.Hex()

	regCount, err := t.RDB.CountDocuments(r.Context(), bson.M{"eventId": team.EventID, "userId": uid})
	if err != nil {
		config.ErrorStatus("failed to check event registration", http.StatusInternalServerError, w, err)
		return
	}
	if regCount == 0 {
		config.ErrorStatus("user is not registered for this event", http.StatusConflict, w, nil)
		return
	}

	if team.HasMember(uid) {
		config.ErrorStatus("user is already a member of this team", http.StatusConflict, w, nil)
		return
	}

	inTeam, err := t.DB.CountDocuments(r.Context(), bson.M{"eventId": team.EventID, "memberIds": uid})
	if err != nil {
		config.ErrorStatus("failed to check existing teams", http.StatusInternalServerError, w, err)
		return
	}
	if inTeam > 0 {
		config.ErrorStatus("user already has a team for this event", http.StatusConflict, w, nil)
		return
	}

	if team.IsFull() {
		config.ErrorStatus("team is full", http.StatusConflict, w, nil)
		return
	}

	member := models.TeamMember{
		UID:         uid,
		DisplayName: user.Name,
		Email:       user.Email,
		RollNumber:  user.RollNumber,
		University:  user.University,
		Phone:       user.Phone,
		JoinedAt:    primitive.NewDateTimeFromTime(time.Now()),
	}
	res, err := t.DB.UpdateOne(r.Context(),
		bson.M{
			"_id":       tID,
			"memberIds": bson.M{"$ne": uid},
			"$expr":     bson.M{"$lt": []interface{}{bson.M{"$size": "$members"}, "$maxSize"}},
		},
		bson.M{
			"$push": bson.M{"members": member, "memberIds": uid},
			"$pull": bson.M{"pendingRequests": bson.M{"uid": uid}},
		},
	)
	if err != nil {
		config.ErrorStatus("failed to add member", http.StatusInternalServerError, w, err)
		return
	}
	if res.MatchedCount == 0 {
		config.ErrorStatus("team is full", http.StatusConflict, w, nil)
		return
	}

	go emitNotification(t.NDB, models.Notification{
		UserID:  uid,
		Type:    models.NotificationTypeAddedToTeam,
		Title:   "Added to team",
		Message: fmt.Sprintf("You have been added to %s", team.TeamName),
		TeamID:  team.ID.Hex(),
		EventID: team.EventID,
	})

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Member added successfully",
	})
}

// DeleteTeamHandler hard-deletes the team. Pending status of other users is
// derived from team documents, so no cascading cleanup is needed.
func (t Team) DeleteTeamHandler(w http.ResponseWriter, r *http.Request) {
	teamID := mux.Vars(r)["team_id"]
	captainID := r.URL.Query().Get("captainId")

	tID, err := primitive.ObjectIDFromHex(teamID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	team, err := t.DB.FindOne(r.Context(), bson.M{"_id": tID})
	if err != nil {
		config.ErrorStatus("team not found", http.StatusNotFound, w, err)
		return
	}
	if team.LeaderID != captainID {
		config.ErrorStatus("only the team captain can delete the team", http.StatusForbidden, w, nil)
		return
	}

	if err := t.DB.DeleteOne(r.Context(), bson.M{"_id": tID}); err != nil {
		config.ErrorStatus("failed to delete team", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Team deleted successfully",
	})
}

// TeamByIDHandler returns a team by ID
func (t Team) TeamByIDHandler(w http.ResponseWriter, r *http.Request) {
	teamID := mux.Vars(r)["team_id"]

	tID, err := primitive.ObjectIDFromHex(teamID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	team, err := t.DB.FindOne(r.Context(), bson.M{"_id": tID})
	if err != nil {
		config.ErrorStatus("team not found", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(team)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// TeamsByEventHandler returns all teams for an event
func (t Team) TeamsByEventHandler(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["event_id"]

	teams, err := t.DB.Find(r.Context(), bson.M{"eventId": eventID})
	if err != nil {
		config.ErrorStatus("failed to get teams", http.StatusNotFound, w, err)
		return
	}
	if len(teams) == 0 {
		teams = []models.Team{}
	}

	b, err := json.Marshal(teams)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// SearchTeamByMemberHandler resolves a member by roll number and returns
// the (at most one) team containing them for the event
func (t Team) SearchTeamByMemberHandler(w http.ResponseWriter, r *http.Request) {
	eventID := r.URL.Query().Get("eventId")
	rollNumber := r.URL.Query().Get("rollNumber")
	if eventID == "" || rollNumber == "" {
		config.ErrorStatus("eventId and rollNumber are required", http.StatusBadRequest, w, nil)
		return
	}

	user, err := t.UDB.FindOne(r.Context(), bson.M{"rollNumber": rollNumber})
	if err != nil {
		config.ErrorStatus("no user found with that roll number", http.StatusNotFound, w, err)
		return
	}

	team, err := t.DB.FindOne(r.Context(), bson.M{"eventId": eventID, "memberIds": user.ID.Hex()})
	if err != nil {
		config.ErrorStatus("no team found for that member", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(team)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// PendingTeamHandler returns the team a user has a pending join request on
// for an event, if any. This is a direct secondary lookup instead of the
// scan-all-teams view the frontend used to build.
func (t Team) PendingTeamHandler(w http.ResponseWriter, r *http.Request) {
	eventID := r.URL.Query().Get("eventId")
	userID := r.URL.Query().Get("userId")
	if eventID == "" || userID == "" {
		config.ErrorStatus("eventId and userId are required", http.StatusBadRequest, w, nil)
		return
	}

	team, err := t.DB.FindOne(r.Context(), bson.M{"eventId": eventID, "pendingRequests.uid": userID})
	if err != nil {
		config.ErrorStatus("no pending request found", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(team)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// mustObjectID converts a hex string that has already been validated
// upstream; on failure it returns the zero ObjectID, which matches nothing
func mustObjectID(hex string) primitive.ObjectID {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		zap.S().Debugf("invalid object id: '%v'", hex)
		return primitive.NilObjectID
	}
	return id
}
