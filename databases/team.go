package databases

// go generate: mockery --name TeamDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/roboclub/club-api/models"
)

const teamName = "teams"

// TeamDatabase contains the methods to use with the team database
type TeamDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Team, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Team, error)
	Create(ctx context.Context, team models.Team) (*models.Team, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}) error
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

type teamDatabase struct {
	db       DatabaseHelper
	counters CounterDatabase
}

// NewTeamDatabase initializes a new instance of team database with the provided db connection
func NewTeamDatabase(db DatabaseHelper) TeamDatabase {
	return &teamDatabase{
		db:       db,
		counters: NewCounterDatabase(db),
	}
}

func (t *teamDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Team, error) {
	team := &models.Team{}
	err := t.db.Collection(teamName).FindOne(ctx, filter).Decode(&team)
	if err != nil {
		return nil, err
	}
	return team, nil
}

func (t *teamDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Team, error) {
	var teams []models.Team
	cursor, err := t.db.Collection(teamName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cursor.Decode(&teams)
	if err != nil {
		return nil, err
	}
	return teams, nil
}

// Create allocates the next sequential team code and inserts the team in a
// single transaction. Mongo aborts and retries the transaction on a
// conflicting counter read, so concurrent creations never commit the same
// code and callers never see a conflict error.
func (t *teamDatabase) Create(ctx context.Context, team models.Team) (*models.Team, error) {
	res, err := t.db.Client().WithTransaction(ctx, func(sessCtx context.Context) (interface{}, error) {
		code, err := t.counters.NextCode(sessCtx, TeamCodeNamespace)
		if err != nil {
			return nil, err
		}
		team.TeamCode = code

		if _, err := t.db.Collection(teamName).InsertOne(sessCtx, team); err != nil {
			return nil, err
		}
		return team, nil
	})
	if err != nil {
		return nil, err
	}
	created := res.(models.Team)
	return &created, nil
}

func (t *teamDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return t.db.Collection(teamName).UpdateOne(ctx, filter, update, opts...)
}

func (t *teamDatabase) DeleteOne(ctx context.Context, filter interface{}) error {
	return t.db.Collection(teamName).DeleteOne(ctx, filter)
}

func (t *teamDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return t.db.Collection(teamName).CountDocuments(ctx, filter, opts...)
}
