// Package bootstrap initialises shared infrastructure before the bot starts.
package bootstrap

import (
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	coreconfig "github.com/commedeschamps/KieliSan/core/config"
	coredatabase "github.com/commedeschamps/KieliSan/core/database"
	"github.com/commedeschamps/KieliSan/core/logger"
)

// Options selects what Run sets up. The function fields replace the real
// logger, migrator and connector; nil means the default.
type Options struct {
	Config      *coreconfig.Config
	Database    coredatabase.Config
	UseDatabase bool

	LoggerInit func(*coreconfig.Config) error
	Connect    func(coredatabase.Config) (*sqlx.DB, error)
	Migrate    func(coredatabase.Config) error
}

// Result holds the opened infrastructure. DB stays nil without a database.
type Result struct {
	DB *sqlx.DB
}

// Close releases what Run opened.
func (r *Result) Close() error {
	if r == nil || r.DB == nil {
		return nil
	}
	return r.DB.Close()
}

func (o Options) withDefaults() Options {
	if o.LoggerInit == nil {
		o.LoggerInit = logger.InitLogger
	}
	if o.Migrate == nil {
		o.Migrate = coredatabase.RunMigrations
	}
	if o.Connect == nil {
		o.Connect = coredatabase.Connect
	}
	return o
}

// Run starts logging, then migrates and connects when UseDatabase is set.
// Migrate always runs before Connect.
func Run(opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, errors.New("bootstrap: nil config provided")
	}
	opts = opts.withDefaults()

	if err := opts.LoggerInit(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}
	res := &Result{}
	if !opts.UseDatabase {
		return res, nil
	}
	if err := opts.Migrate(opts.Database); err != nil {
		return nil, fmt.Errorf("bootstrap: migrations failed: %w", err)
	}
	db, err := opts.Connect(opts.Database)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: database connect failed: %w", err)
	}
	res.DB = db
	return res, nil
}
