package databases

// go generate: mockery --name DamagedLogDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/roboclub/club-api/models"
)

const damagedLogName = "damagedLogs"

// DamagedLogDatabase contains the methods to use with the damaged log database
type DamagedLogDatabase interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.DamagedLog, error)
	InsertOne(ctx context.Context, log models.DamagedLog) (InsertOneResultHelper, error)
}

type damagedLogDatabase struct {
	db DatabaseHelper
}

// NewDamagedLogDatabase initializes a new instance of damaged log database with the provided db connection
func NewDamagedLogDatabase(db DatabaseHelper) DamagedLogDatabase {
	return &damagedLogDatabase{
		db: db,
	}
}

func (d *damagedLogDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.DamagedLog, error) {
	var logs []models.DamagedLog
	cursor, err := d.db.Collection(damagedLogName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cursor.Decode(&logs)
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (d *damagedLogDatabase) InsertOne(ctx context.Context, log models.DamagedLog) (InsertOneResultHelper, error) {
	return d.db.Collection(damagedLogName).InsertOne(ctx, log)
}
