package databases

// go generate: mockery --name ComponentDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/roboclub/club-api/models"
)

const componentName = "inventory"

// ComponentDatabase contains the methods to use with the inventory database.
//
// Reserve, Restore and WriteOff are the only mutations of availableQuantity;
// all three are single conditional updates keyed on the component document
// itself, never a read-then-write pair, so concurrent requests cannot
// oversubscribe stock.
type ComponentDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Component, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Component, error)
	InsertOne(ctx context.Context, component models.Component) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}) error
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	Reserve(ctx context.Context, id primitive.ObjectID, quantity int) (bool, error)
	Restore(ctx context.Context, id primitive.ObjectID, quantity int) error
	WriteOff(ctx context.Context, id primitive.ObjectID, quantity int) (bool, error)
}

type componentDatabase struct {
	db DatabaseHelper
}

// NewComponentDatabase initializes a new instance of component database with the provided db connection
func NewComponentDatabase(db DatabaseHelper) ComponentDatabase {
	return &componentDatabase{
		db: db,
	}
}

func (c *componentDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Component, error) {
	component := &models.Component{}
	err := c.db.Collection(componentName).FindOne(ctx, filter).Decode(&component)
	if err != nil {
		return nil, err
	}
	return component, nil
}

func (c *componentDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Component, error) {
	var components []models.Component
	cursor, err := c.db.Collection(componentName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cursor.Decode(&components)
	if err != nil {
		return nil, err
	}
	return components, nil
}

func (c *componentDatabase) InsertOne(ctx context.Context, component models.Component) (InsertOneResultHelper, error) {
	return c.db.Collection(componentName).InsertOne(ctx, component)
}

func (c *componentDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return c.db.Collection(componentName).UpdateOne(ctx, filter, update, opts...)
}

func (c *componentDatabase) DeleteOne(ctx context.Context, filter interface{}) error {
	return c.db.Collection(componentName).DeleteOne(ctx, filter)
}

func (c *componentDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return c.db.Collection(componentName).CountDocuments(ctx, filter, opts...)
}

// Reserve decrements availableQuantity by quantity if enough stock is
// loanable. Returns false when the conditional update matched no document,
// i.e. the component is missing or the requested quantity exceeds what is
// available.
func (c *componentDatabase) Reserve(ctx context.Context, id primitive.ObjectID, quantity int) (bool, error) {
	res, err := c.db.Collection(componentName).UpdateOne(ctx,
		bson.M{"_id": id, "availableQuantity": bson.M{"$gte": quantity}},
		bson.M{"$inc": bson.M{"availableQuantity": -quantity}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// Restore returns a previously reserved quantity to availableQuantity. Used
// on rejection and on return.
func (c *componentDatabase) Restore(ctx context.Context, id primitive.ObjectID, quantity int) error {
	_, err := c.db.Collection(componentName).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"availableQuantity": quantity}},
	)
	return err
}

// WriteOff permanently removes quantity units from both quantity and
// availableQuantity. Returns false when there is not enough loanable stock
// to absorb the write-off. This reduction is irreversible.
func (c *componentDatabase) WriteOff(ctx context.Context, id primitive.ObjectID, quantity int) (bool, error) {
	res, err := c.db.Collection(componentName).UpdateOne(ctx,
		bson.M{"_id": id, "availableQuantity": bson.M{"$gte": quantity}},
		bson.M{"$inc": bson.M{"availableQuantity": -quantity, "quantity": -quantity}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}
