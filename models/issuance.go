package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// IssuanceStatus represents the life-cycle state of an issuance
type IssuanceStatus string

// Predefined IssuanceStatus values
const (
	IssuanceStatusPending  IssuanceStatus = "pending"
	IssuanceStatusApproved IssuanceStatus = "approved"
	IssuanceStatusRejected IssuanceStatus = "rejected"
	IssuanceStatusReturned IssuanceStatus = "returned"
)

// IsValid checks if the IssuanceStatus value is one of the predefined constants
func (s IssuanceStatus) IsValid() bool {
	switch s {
	case IssuanceStatusPending, IssuanceStatusApproved, IssuanceStatusRejected, IssuanceStatusReturned:
		return true
	}
	return false
}

// String returns the string representation of the IssuanceStatus
func (s IssuanceStatus) String() string {
	return string(s)
}

// Issuance holds the structure for the issuances collection in mongo.
// Issuances are append-only history: they are never deleted, only
// transitioned between statuses. The requested quantity is reserved against
// the component's availableQuantity for as long as the status is pending or
// approved.
type Issuance struct {
	ID             primitive.ObjectID `json:"_id" bson:"_id"`
	ComponentID    primitive.ObjectID `json:"componentId" bson:"componentId"`
	ComponentName  string             `json:"componentName" bson:"componentName"`
	ComponentImage string             `json:"componentImage,omitempty" bson:"componentImage,omitempty"`
	UserID         string             `json:"userId" bson:"userId"`
	UserName       string             `json:"userName" bson:"userName"`
	UserEmail      string             `json:"userEmail" bson:"userEmail"`
	Quantity       int                `json:"quantity" bson:"quantity"`
	Purpose        string             `json:"purpose,omitempty" bson:"purpose,omitempty"`
	IssueDate      primitive.DateTime `json:"issueDate" bson:"issueDate"`
	DueDate        primitive.DateTime `json:"dueDate" bson:"dueDate"`
	Status         IssuanceStatus     `json:"status" bson:"status"`
	UpdatedAt      primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}
