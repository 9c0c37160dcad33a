package databases

// go generate: mockery --name CounterDatabase

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/roboclub/club-api/models"
)

const counterName = "counters"

// TeamCodeNamespace is the counter document backing sequential team codes
const TeamCodeNamespace = "team_codes"

const teamCodePrefix = "TEAM"

// CounterDatabase issues unique, monotonically increasing sequence numbers.
// Callers that need the increment to be atomic with another write must pass
// a session context obtained from ClientHelper.WithTransaction.
type CounterDatabase interface {
	Next(ctx context.Context, namespace string) (int64, error)
	NextCode(ctx context.Context, namespace string) (string, error)
}

type counterDatabase struct {
	db DatabaseHelper
}

// NewCounterDatabase initializes a new instance of counter database with the provided db connection
func NewCounterDatabase(db DatabaseHelper) CounterDatabase {
	return &counterDatabase{
		db: db,
	}
}

// Next increments and returns the counter for the given namespace. The
// document is upserted on first use, so a fresh namespace starts at 1.
func (c *counterDatabase) Next(ctx context.Context, namespace string) (int64, error) {
	counter := &models.Counter{}
	err := c.db.Collection(counterName).FindOneAndUpdate(ctx,
		bson.M{"_id": namespace},
		bson.M{"$inc": bson.M{"current": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Current, nil
}

// NextCode increments the namespace counter and formats the new value as a
// zero-padded human-readable code, e.g. TEAM-00042
func (c *counterDatabase) NextCode(ctx context.Context, namespace string) (string, error) {
	n, err := c.Next(ctx, namespace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%05d", teamCodePrefix, n), nil
}
