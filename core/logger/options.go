package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	coreconfig "github.com/commedeschamps/KieliSan/core/config"
)

// options is the logging section resolved against its defaults.
type options struct {
	level     slog.Level
	format    logFormat
	keyOrder  []string
	stacks    bool
	profile   string
	sampleNum int
	sampleDen int
	dir       string
	file      string
}

func optionsFrom(cfg *coreconfig.Config) options {
	opts := options{
		level:     slog.LevelInfo,
		format:    formatJSON,
		keyOrder:  append([]string(nil), defaultKeyOrder...),
		profile:   "prod",
		sampleNum: 1,
		sampleDen: 50,
	}
	if cfg == nil {
		return opts
	}
	lc := cfg.Logging
	if p := strings.ToLower(strings.TrimSpace(lc.Profile)); p != "" {
		opts.profile = p
	}
	opts.level = parseLevel(lc.Level)
	opts.format = parseFormat(lc.Format, opts.profile)
	if order := parseKeyOrder(lc.KeysOrder); len(order) > 0 {
		opts.keyOrder = order
	}
	opts.stacks = opts.profile != "prod"
	if raw := strings.TrimSpace(lc.Stacks); raw != "" {
		opts.stacks = isTruthy(raw)
	}
	if raw := strings.TrimSpace(lc.DebugSample); raw != "" {
		// "0" and "0/0" disable sampling; other invalid specs keep 1/50.
		num, den := parseRatio(raw)
		if (num > 0 && den > 0) || (num == 0 && den == 0) {
			opts.sampleNum, opts.sampleDen = num, den
		}
	}
	opts.dir = strings.TrimSpace(lc.Dir)
	opts.file = strings.TrimSpace(lc.BotFile)
	return opts
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// parseFormat honours an explicit format; otherwise debug and dev profiles
// get key=value lines and everything else JSON.
func parseFormat(raw, profile string) logFormat {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "kv", "text", "pretty":
		return formatKV
	case "json":
		return formatJSON
	}
	if profile == "debug" || profile == "dev" {
		return formatKV
	}
	return formatJSON
}

// parseKeyOrder reads a comma separated key list; "" and "default" give nil.
func parseKeyOrder(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "default" {
		return nil
	}
	var order []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			order = append(order, p)
		}
	}
	return order
}

// openOutputs always includes stdout. A log file that cannot be opened is
// reported on stderr and skipped.
func openOutputs(opts options) ([]io.Writer, []io.Closer, error) {
	writers := []io.Writer{os.Stdout}
	if opts.dir == "" || opts.file == "" {
		return writers, nil, nil
	}
	if err := os.MkdirAll(opts.dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "logger: create log dir %s: %v\n", opts.dir, err)
		return writers, nil, nil
	}
	path := filepath.Join(opts.dir, opts.file)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: open log file %s: %v\n", path, err)
		return writers, nil, nil
	}
	return append(writers, f), []io.Closer{f}, nil
}

func isTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}
