package databases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/roboclub/club-api/databases"
	"github.com/roboclub/club-api/databases/mocks"
	"github.com/roboclub/club-api/models"
)

func TestCounterDatabase_NextCode(t *testing.T) {
	db := &mocks.DatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	singleResultHelper := &mocks.SingleResultHelper{}

	singleResultHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Counter)
		(*arg).ID = databases.TeamCodeNamespace
		(*arg).Current = 7
	})
	conn.On("FindOneAndUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(singleResultHelper)
	db.On("Collection", "counters").Return(conn)

	counterDatabase := databases.NewCounterDatabase(db)
	code, err := counterDatabase.NextCode(context.Background(), databases.TeamCodeNamespace)

	assert.NoError(t, err)
	assert.Equal(t, "TEAM-00007", code)
}

func TestCounterDatabase_NextError(t *testing.T) {
	db := &mocks.DatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	singleResultHelper := &mocks.SingleResultHelper{}

	singleResultHelper.On("Decode", mock.Anything).Return(errors.New("mocked-error"))
	conn.On("FindOneAndUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(singleResultHelper)
	db.On("Collection", "counters").Return(conn)

	counterDatabase := databases.NewCounterDatabase(db)
	_, err := counterDatabase.Next(context.Background(), databases.TeamCodeNamespace)

	assert.EqualError(t, err, "mocked-error")
}
