// Package config loads the KieliSan configuration: the reusable core
// sections plus storage, content, quiz and leaderboard settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	coreconfig "github.com/commedeschamps/KieliSan/core/config"
	coredatabase "github.com/commedeschamps/KieliSan/core/database"
	"github.com/commedeschamps/KieliSan/internal/quiz"
)

const (
	// DriverJSON keeps statistics and feedback in JSON files under the runtime dir.
	DriverJSON = "json"
	// DriverPostgres keeps them in Postgres tables.
	DriverPostgres = "postgres"
)

// Defaults applied by Normalize.
const (
	DefaultRuntimeDir    = "data/runtime"
	DefaultContentDir    = "data/content"
	DefaultAssetsDir     = "assets"
	DefaultLockTimeoutMS = 3000
	DefaultTopLimit      = 10
)

// StorageConfig selects where statistics and feedback are persisted.
type StorageConfig struct {
	Driver        string `yaml:"driver" envconfig:"STORAGE_DRIVER"`
	RuntimeDir    string `yaml:"runtime_dir" envconfig:"RUNTIME_DIR"`
	LockTimeoutMS int    `yaml:"lock_timeout_ms" envconfig:"STORAGE_LOCK_TIMEOUT_MS"`
}

// LockTimeout bounds how long a write waits for the store lock.
func (s StorageConfig) LockTimeout() time.Duration {
	return time.Duration(s.LockTimeoutMS) * time.Millisecond
}

// StatsPath is the JSON statistics document.
func (s StorageConfig) StatsPath() string {
	return filepath.Join(s.RuntimeDir, "stats.json")
}

// FeedbackPath is the JSON feedback log.
func (s StorageConfig) FeedbackPath() string {
	return filepath.Join(s.RuntimeDir, "feedback.json")
}

// ContentConfig locates the static content.
type ContentConfig struct {
	Dir       string `yaml:"dir" envconfig:"CONTENT_DIR"`
	AssetsDir string `yaml:"assets_dir" envconfig:"ASSETS_DIR"`
}

// QuizConfig sets the reward per question level.
type QuizConfig struct {
	Points        map[string]int `yaml:"points"`
	DefaultPoints int            `yaml:"default_points"`
}

// PointTable converts the configured rewards.
func (q QuizConfig) PointTable() quiz.PointTable {
	table := quiz.PointTable{Levels: make(map[quiz.Level]int, len(q.Points)), Default: q.DefaultPoints}
	for level, pts := range q.Points {
		table.Levels[quiz.Level(level)] = pts
	}
	return table
}

// LeaderboardConfig controls the leaderboard view.
type LeaderboardConfig struct {
	TopLimit int `yaml:"top_limit" envconfig:"LEADERBOARD_TOP_LIMIT"`
}

// Config is the full application configuration.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Database    coredatabase.Config `yaml:"database"`
	Storage     StorageConfig       `yaml:"storage"`
	Content     ContentConfig       `yaml:"content"`
	Quiz        QuizConfig          `yaml:"quiz"`
	Leaderboard LeaderboardConfig   `yaml:"leaderboard"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Config
}

// UseDatabase reports whether the postgres driver is selected.
func (c *Config) UseDatabase() bool {
	return c.Storage.Driver == DriverPostgres
}

// Load reads path, applies environment overrides and validates everything.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadContent is Load for tools that only touch content: the Telegram
// sections are not validated and a missing file yields defaults.
func LoadContent(path string) (*Config, error) {
	var cfg Config
	err := coreconfig.Decode(path, &cfg)
	if errors.Is(err, os.ErrNotExist) {
		err = envconfig.Process("", &cfg)
	}
	if err != nil {
		return nil, err
	}
	if err := normalizeApp(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates the core and application sections and fills defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return err
	}
	return normalizeApp(cfg)
}

func normalizeApp(cfg *Config) error {
	st := &cfg.Storage
	st.Driver = strings.ToLower(strings.TrimSpace(st.Driver))
	switch st.Driver {
	case "":
		st.Driver = DriverJSON
	case DriverJSON, DriverPostgres:
	default:
		return fmt.Errorf("invalid storage.driver %q; allowed: json, postgres", cfg.Storage.Driver)
	}
	if strings.TrimSpace(st.RuntimeDir) == "" {
		st.RuntimeDir = DefaultRuntimeDir
	}
	switch {
	case st.LockTimeoutMS == 0:
		st.LockTimeoutMS = DefaultLockTimeoutMS
	case st.LockTimeoutMS < 0:
		return fmt.Errorf("storage.lock_timeout_ms must be >= 0")
	}

	if st.Driver == DriverPostgres {
		if strings.TrimSpace(cfg.Database.Host) == "" || strings.TrimSpace(cfg.Database.Name) == "" {
			return fmt.Errorf("database.host and database.name are required when storage.driver is 'postgres'")
		}
		if cfg.Database.Port == "" {
			cfg.Database.Port = "5432"
		}
	}

	if strings.TrimSpace(cfg.Content.Dir) == "" {
		cfg.Content.Dir = DefaultContentDir
	}
	if strings.TrimSpace(cfg.Content.AssetsDir) == "" {
		cfg.Content.AssetsDir = DefaultAssetsDir
	}

	defaults := quiz.DefaultPoints()
	if cfg.Quiz.Points == nil {
		cfg.Quiz.Points = map[string]int{}
	}
	normalized := make(map[string]int, len(cfg.Quiz.Points))
	for level, pts := range cfg.Quiz.Points {
		if pts <= 0 {
			return fmt.Errorf("quiz.points.%s must be > 0", level)
		}
		normalized[strings.ToLower(strings.TrimSpace(level))] = pts
	}
	for level, pts := range defaults.Levels {
		if _, ok := normalized[string(level)]; !ok {
			normalized[string(level)] = pts
		}
	}
	cfg.Quiz.Points = normalized
	switch {
	case cfg.Quiz.DefaultPoints == 0:
		cfg.Quiz.DefaultPoints = defaults.Default
	case cfg.Quiz.DefaultPoints < 0:
		return fmt.Errorf("quiz.default_points must be > 0")
	}

	switch {
	case cfg.Leaderboard.TopLimit == 0:
		cfg.Leaderboard.TopLimit = DefaultTopLimit
	case cfg.Leaderboard.TopLimit < 0:
		return fmt.Errorf("leaderboard.top_limit must be > 0")
	}
	return nil
}
