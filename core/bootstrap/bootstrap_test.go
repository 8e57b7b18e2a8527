package bootstrap

import (
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/commedeschamps/KieliSan/core/config"
	coredatabase "github.com/commedeschamps/KieliSan/core/database"
)

func noLogger(*coreconfig.Config) error { return nil }

func TestRunSkipsDatabaseWhenDisabled(t *testing.T) {
	called := false
	res, err := Run(Options{
		Config:     &coreconfig.Config{},
		LoggerInit: noLogger,
		Connect: func(coredatabase.Config) (*sqlx.DB, error) {
			called = true
			return nil, nil
		},
	})
	require.NoError(t, err)
	assert.Nil(t, res.DB)
	assert.False(t, called)
	assert.NoError(t, res.Close())
}

func TestRunStopsOnMigrationFailure(t *testing.T) {
	connected := false
	_, err := Run(Options{
		Config:      &coreconfig.Config{},
		UseDatabase: true,
		LoggerInit:  noLogger,
		Migrate:     func(coredatabase.Config) error { return errors.New("dirty") },
		Connect: func(coredatabase.Config) (*sqlx.DB, error) {
			connected = true
			return nil, nil
		},
	})
	assert.ErrorContains(t, err, "migrations failed")
	assert.False(t, connected)
}

func TestRunRequiresConfig(t *testing.T) {
	_, err := Run(Options{})
	assert.Error(t, err)
}

func TestRunConnectsAfterMigrations(t *testing.T) {
	var order []string
	db := &sqlx.DB{}
	res, err := Run(Options{
		Config:      &coreconfig.Config{},
		UseDatabase: true,
		LoggerInit:  noLogger,
		Migrate: func(coredatabase.Config) error {
			order = append(order, "migrate")
			return nil
		},
		Connect: func(coredatabase.Config) (*sqlx.DB, error) {
			order = append(order, "connect")
			return db, nil
		},
	})
	require.NoError(t, err)
	assert.Same(t, db, res.DB)
	assert.Equal(t, []string{"migrate", "connect"}, order)
}
