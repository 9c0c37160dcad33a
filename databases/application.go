package databases

// go generate: mockery --name ApplicationDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/roboclub/club-api/models"
)

const applicationName = "applications"

// ApplicationDatabase contains the methods to use with the recruitment application database
type ApplicationDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Application, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Application, error)
	InsertOne(ctx context.Context, application models.Application) (InsertOneResultHelper, error)
	FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts ...*options.FindOneAndUpdateOptions) (*models.Application, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

type applicationDatabase struct {
	db DatabaseHelper
}

// NewApplicationDatabase initializes a new instance of application database with the provided db connection
func NewApplicationDatabase(db DatabaseHelper) ApplicationDatabase {
	return &applicationDatabase{
		db: db,
	}
}

func (a *applicationDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Application, error) {
	application := &models.Application{}
	err := a.db.Collection(applicationName).FindOne(ctx, filter).Decode(&application)
	if err != nil {
		return nil, err
	}
	return application, nil
}

func (a *applicationDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Application, error) {
	var applications []models.Application
	cursor, err := a.db.Collection(applicationName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cursor.Decode(&applications)
	if err != nil {
		return nil, err
	}
	return applications, nil
}

func (a *applicationDatabase) InsertOne(ctx context.Context, application models.Application) (InsertOneResultHelper, error) {
	return a.db.Collection(applicationName).InsertOne(ctx, application)
}

func (a *applicationDatabase) FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts ...*options.FindOneAndUpdateOptions) (*models.Application, error) {
	application := &models.Application{}
	err := a.db.Collection(applicationName).FindOneAndUpdate(ctx, filter, update, opts...).Decode(&application)
	if err != nil {
		return nil, err
	}
	return application, nil
}

func (a *applicationDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return a.db.Collection(applicationName).CountDocuments(ctx, filter, opts...)
}
