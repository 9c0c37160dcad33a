package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// LeadershipMember holds the structure for the leadership collection in
// mongo, backing the public leadership directory
type LeadershipMember struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	Name      string             `json:"name" bson:"name"`
	Role      string             `json:"role" bson:"role"`
	Rank      int                `json:"rank" bson:"rank"`
	Email     string             `json:"email,omitempty" bson:"email,omitempty"`
	ImageURL  string             `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
}
