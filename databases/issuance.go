package databases

// go generate: mockery --name IssuanceDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/roboclub/club-api/models"
)

const issuanceName = "issuances"

// IssuanceDatabase contains the methods to use with the issuance database
type IssuanceDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Issuance, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Issuance, error)
	InsertOne(ctx context.Context, issuance models.Issuance) (InsertOneResultHelper, error)
	Transition(ctx context.Context, id primitive.ObjectID, from []models.IssuanceStatus, to models.IssuanceStatus) (bool, error)
}

type issuanceDatabase struct {
	db DatabaseHelper
}

// NewIssuanceDatabase initializes a new instance of issuance database with the provided db connection
func NewIssuanceDatabase(db DatabaseHelper) IssuanceDatabase {
	return &issuanceDatabase{
		db: db,
	}
}

func (i *issuanceDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Issuance, error) {
	issuance := &models.Issuance{}
	err := i.db.Collection(issuanceName).FindOne(ctx, filter).Decode(&issuance)
	if err != nil {
		return nil, err
	}
	return issuance, nil
}

func (i *issuanceDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Issuance, error) {
	var issuances []models.Issuance
	cursor, err := i.db.Collection(issuanceName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cursor.Decode(&issuances)
	if err != nil {
		return nil, err
	}
	return issuances, nil
}

func (i *issuanceDatabase) InsertOne(ctx context.Context, issuance models.Issuance) (InsertOneResultHelper, error) {
	return i.db.Collection(issuanceName).InsertOne(ctx, issuance)
}

// Transition moves the issuance from one of the given statuses to the target
// status. The current status is part of the update filter, so a transition
// that lost a race (e.g. a second approval of the same request) matches
// nothing and returns false instead of corrupting state.
func (i *issuanceDatabase) Transition(ctx context.Context, id primitive.ObjectID, from []models.IssuanceStatus, to models.IssuanceStatus) (bool, error) {
	res, err := i.db.Collection(issuanceName).UpdateOne(ctx,
		bson.M{"_id": id, "status": bson.M{"$in": from}},
		bson.M{"$set": bson.M{"status": to, "updatedAt": primitive.NewDateTimeFromTime(time.Now())}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}
