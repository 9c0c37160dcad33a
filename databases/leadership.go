package databases

// go generate: mockery --name LeadershipDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/roboclub/club-api/models"
)

const leadershipName = "leadership"

// LeadershipDatabase contains the methods to use with the leadership directory database
type LeadershipDatabase interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.LeadershipMember, error)
	InsertOne(ctx context.Context, member models.LeadershipMember) (InsertOneResultHelper, error)
}

type leadershipDatabase struct {
	db DatabaseHelper
}

// NewLeadershipDatabase initializes a new instance of leadership database with the provided db connection
func NewLeadershipDatabase(db DatabaseHelper) LeadershipDatabase {
	return &leadershipDatabase{
		db: db,
	}
}

func (l *leadershipDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.LeadershipMember, error) {
	var members []models.LeadershipMember
	cursor, err := l.db.Collection(leadershipName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cursor.Decode(&members)
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (l *leadershipDatabase) InsertOne(ctx context.Context, member models.LeadershipMember) (InsertOneResultHelper, error) {
	return l.db.Collection(leadershipName).InsertOne(ctx, member)
}
