package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Event holds the structure for the events collection in mongo
type Event struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Venue       string             `json:"venue,omitempty" bson:"venue,omitempty"`
	Date        primitive.DateTime `json:"date" bson:"date"`
	MaxTeamSize int                `json:"maxTeamSize" bson:"maxTeamSize"`
	CreatedAt   primitive.DateTime `json:"createdAt" bson:"createdAt"`
}

// Registration holds the structure for the registrations collection in
// mongo. A registration is the eligibility gate for joining a team: only
// registered participants can be added to a team for that event.
type Registration struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id"`
	EventID      string             `json:"eventId" bson:"eventId"`
	UserID       string             `json:"userId" bson:"userId"`
	RollNumber   string             `json:"rollNumber" bson:"rollNumber"`
	RegisteredAt primitive.DateTime `json:"registeredAt" bson:"registeredAt"`
}
