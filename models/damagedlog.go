package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// DamagedLog holds the structure for the damagedLogs collection in mongo.
// A damage report permanently removes its quantity from both the component's
// quantity and availableQuantity; there is no restore path.
type DamagedLog struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id"`
	ComponentID   primitive.ObjectID `json:"componentId" bson:"componentId"`
	ComponentName string             `json:"componentName" bson:"componentName"`
	Quantity      int                `json:"quantity" bson:"quantity"`
	Reason        string             `json:"reason" bson:"reason"`
	ReportedBy    string             `json:"reportedBy" bson:"reportedBy"`
	Date          primitive.DateTime `json:"date" bson:"date"`
}
