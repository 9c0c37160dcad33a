package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// ApplicationStatus represents the review state of a recruitment application
type ApplicationStatus string

// Predefined ApplicationStatus values
const (
	ApplicationStatusPending     ApplicationStatus = "pending"
	ApplicationStatusShortlisted ApplicationStatus = "shortlisted"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
)

// IsValid checks if the ApplicationStatus value is one of the predefined constants
func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusShortlisted, ApplicationStatusRejected:
		return true
	}
	return false
}

// Application holds the structure for the applications collection in mongo,
// used by the trainee recruitment drive
type Application struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id"`
	Name       string             `json:"name" bson:"name"`
	Email      string             `json:"email" bson:"email"`
	RollNumber string             `json:"rollNumber" bson:"rollNumber"`
	Branch     string             `json:"branch" bson:"branch"`
	Year       int                `json:"year" bson:"year"`
	Statement  string             `json:"statement,omitempty" bson:"statement,omitempty"`
	Status     ApplicationStatus  `json:"status" bson:"status"`
	DecidedBy  string             `json:"decidedBy,omitempty" bson:"decidedBy,omitempty"`
	CreatedAt  primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt  primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}
