package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// ComponentType represents the standardized categories of inventory items
type ComponentType string

// Predefined ComponentType values
const (
	ComponentTypeMicrocontroller ComponentType = "MICROCONTROLLER"
	ComponentTypeSensor          ComponentType = "SENSOR"
	ComponentTypeActuator        ComponentType = "ACTUATOR"
	ComponentTypePowerSupply     ComponentType = "POWER_SUPPLY"
	ComponentTypeTool            ComponentType = "TOOL"
	ComponentTypeMisc            ComponentType = "MISC"
)

// ValidComponentTypes returns all valid ComponentType values
func ValidComponentTypes() []ComponentType {
	return []ComponentType{
		ComponentTypeMicrocontroller,
		ComponentTypeSensor,
		ComponentTypeActuator,
		ComponentTypePowerSupply,
		ComponentTypeTool,
		ComponentTypeMisc,
	}
}

// IsValid checks if the ComponentType value is one of the predefined constants
func (t ComponentType) IsValid() bool {
	for _, validType := range ValidComponentTypes() {
		if t == validType {
			return true
		}
	}
	return false
}

// String returns the string representation of the ComponentType
func (t ComponentType) String() string {
	return string(t)
}

// Component holds the structure for the inventory collection in mongo.
// AvailableQuantity is the loanable remainder: Quantity minus units out on
// issuance minus units written off as damaged. 0 <= AvailableQuantity <=
// Quantity at all times.
type Component struct {
	ID                primitive.ObjectID `json:"_id" bson:"_id"`
	Name              string             `json:"name" bson:"name"`
	Type              ComponentType      `json:"type" bson:"type"`
	Description       string             `json:"description,omitempty" bson:"description,omitempty"`
	ImageURL          string             `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	Quantity          int                `json:"quantity" bson:"quantity"`
	AvailableQuantity int                `json:"availableQuantity" bson:"availableQuantity"`
	CreatedAt         primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt         primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}
