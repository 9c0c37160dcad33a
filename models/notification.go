package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// NotificationType represents the kinds of notifications emitted by the
// workflow operations
type NotificationType string

// Predefined NotificationType values
const (
	NotificationTypeJoinRequest      NotificationType = "TEAM_JOIN_REQUEST"
	NotificationTypeRequestApproved  NotificationType = "TEAM_REQUEST_APPROVED"
	NotificationTypeRequestRejected  NotificationType = "TEAM_REQUEST_REJECTED"
	NotificationTypeAddedToTeam      NotificationType = "ADDED_TO_TEAM"
	NotificationTypeIssuanceDecision NotificationType = "ISSUANCE_DECISION"
)

// Notification holds the structure for the notifications collection in mongo
type Notification struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	UserID    string             `json:"userId" bson:"userId"`
	Type      NotificationType   `json:"type" bson:"type"`
	Title     string             `json:"title" bson:"title"`
	Message   string             `json:"message" bson:"message"`
	TeamID    string             `json:"teamId,omitempty" bson:"teamId,omitempty"`
	EventID   string             `json:"eventId,omitempty" bson:"eventId,omitempty"`
	Read      bool               `json:"read" bson:"read"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
}
