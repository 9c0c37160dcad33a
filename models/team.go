package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Team holds the structure for the teams collection in mongo.
//
// Members and MemberIDs are kept in lockstep: MemberIDs is the denormalized
// set used for fast containment/authorization filters (array-contains
// queries), Members carries the display data. Both are written in the same
// update.
type Team struct {
	ID              primitive.ObjectID `json:"_id" bson:"_id"`
	EventID         string             `json:"eventId" bson:"eventId"`
	TeamName        string             `json:"teamName" bson:"teamName"`
	TeamCode        string             `json:"teamCode" bson:"teamCode"`
	Members         []TeamMember       `json:"members" bson:"members"`
	MemberIDs       []string           `json:"memberIds" bson:"memberIds"`
	LeaderID        string             `json:"leaderId" bson:"leaderId"`
	MaxSize         int                `json:"maxSize" bson:"maxSize"`
	PendingRequests []JoinRequest      `json:"pendingRequests" bson:"pendingRequests"`
	CreatedAt       primitive.DateTime `json:"createdAt" bson:"createdAt"`
}

// TeamMember is one entry in a team's members list. The first entry is the
// creator.
type TeamMember struct {
	UID         string             `json:"uid" bson:"uid"`
	DisplayName string             `json:"displayName" bson:"displayName"`
	Email       string             `json:"email" bson:"email"`
	RollNumber  string             `json:"rollNumber" bson:"rollNumber"`
	University  string             `json:"university,omitempty" bson:"university,omitempty"`
	Phone       string             `json:"phone,omitempty" bson:"phone,omitempty"`
	JoinedAt    primitive.DateTime `json:"joinedAt" bson:"joinedAt"`
}

// JoinRequest is one entry in a team's pendingRequests list, awaiting the
// captain's decision.
type JoinRequest struct {
	UID         string             `json:"uid" bson:"uid"`
	DisplayName string             `json:"displayName" bson:"displayName"`
	RollNumber  string             `json:"rollNumber" bson:"rollNumber"`
	RequestedAt primitive.DateTime `json:"requestedAt" bson:"requestedAt"`
}

// HasMember reports whether uid is already a member of the team
func (t Team) HasMember(uid string) bool {
	for _, id := range t.MemberIDs {
		if id == uid {
			return true
		}
	}
	return false
}

// HasPendingRequest reports whether uid already has a pending join request
func (t Team) HasPendingRequest(uid string) bool {
	for _, r := range t.PendingRequests {
		if r.UID == uid {
			return true
		}
	}
	return false
}

// IsFull reports whether the team has reached its capacity ceiling
func (t Team) IsFull() bool {
	return len(t.Members) >= t.MaxSize
}
