package databases

// go generate: mockery --name EventDatabase
// go generate: mockery --name RegistrationDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/roboclub/club-api/models"
)

const (
	eventName        = "events"
	registrationName = "registrations"
)

// EventDatabase contains the methods to use with the event database
type EventDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Event, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Event, error)
	InsertOne(ctx context.Context, event models.Event) (InsertOneResultHelper, error)
}

type eventDatabase struct {
	db DatabaseHelper
}

// NewEventDatabase initializes a new instance of event database with the provided db connection
func NewEventDatabase(db DatabaseHelper) EventDatabase {
	return &eventDatabase{
		db: db,
	}
}

func (e *eventDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Event, error) {
	event := &models.Event{}
	err := e.db.Collection(eventName).FindOne(ctx, filter).Decode(&event)
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (e *eventDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Event, error) {
	var events []models.Event
	cursor, err := e.db.Collection(eventName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cursor.Decode(&events)
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (e *eventDatabase) InsertOne(ctx context.Context, event models.Event) (InsertOneResultHelper, error) {
	return e.db.Collection(eventName).InsertOne(ctx, event)
}

// RegistrationDatabase contains the methods to use with the registration database
type RegistrationDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Registration, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Registration, error)
	InsertOne(ctx context.Context, registration models.Registration) (InsertOneResultHelper, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

type registrationDatabase struct {
	db DatabaseHelper
}

// NewRegistrationDatabase initializes a new instance of registration database with the provided db connection
func NewRegistrationDatabase(db DatabaseHelper) RegistrationDatabase {
	return &registrationDatabase{
		db: db,
	}
}

func (r *registrationDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Registration, error) {
	registration := &models.Registration{}
	err := r.db.Collection(registrationName).FindOne(ctx, filter).Decode(&registration)
	if err != nil {
		return nil, err
	}
	return registration, nil
}

func (r *registrationDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Registration, error) {
	var registrations []models.Registration
	cursor, err := r.db.Collection(registrationName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cursor.Decode(&registrations)
	if err != nil {
		return nil, err
	}
	return registrations, nil
}

func (r *registrationDatabase) InsertOne(ctx context.Context, registration models.Registration) (InsertOneResultHelper, error) {
	return r.db.Collection(registrationName).InsertOne(ctx, registration)
}

func (r *registrationDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return r.db.Collection(registrationName).CountDocuments(ctx, filter, opts...)
}
