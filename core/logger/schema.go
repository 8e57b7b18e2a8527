package logger

import "strings"

// Level names as they appear in the level field.
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
	LevelFatal = "FATAL"
)

var levelNames = map[string]string{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
	"fatal":   LevelFatal,
}

func normalizeLevel(level string) string {
	if level == "" {
		return LevelInfo
	}
	if name, ok := levelNames[strings.ToLower(level)]; ok {
		return name
	}
	return strings.ToUpper(level)
}

type enumRule struct {
	allowed     map[string]struct{}
	dropUnknown bool
}

func enum(dropUnknown bool, values ...string) enumRule {
	r := enumRule{allowed: make(map[string]struct{}, len(values)), dropUnknown: dropUnknown}
	for _, v := range values {
		r.allowed[v] = struct{}{}
	}
	return r
}

// enumRules lists the fields with a closed vocabulary. Known values are
// lower-cased; unknown status values are kept, the others dropped.
var enumRules = map[string]enumRule{
	"status":  enum(false, "ok", "fail", "skip", "retry", "rate_limited", "cancelled"),
	"outcome": enum(true, "ok", "fail", "cancelled", "rate_limited", "stale", "finished"),
	"cache":   enum(true, "hit", "miss", "refresh"),
}

// defaultKeyOrder puts the correlation fields first, then the handler
// summary, the quiz fields and finally errors.
var defaultKeyOrder = []string{
	"ts", "level", "component", "event", "status",
	"rid", "rid_full", "ts_unix_nano",
	"update_id", "user_id", "chat_id", "chat_type",
	"handler", "op", "cb_key", "outcome", "duration_ms", "messages", "kb",
	"count", "cache", "payload", "lang", "username",
	"mode", "listen", "public_url", "http_code",
	"db", "host", "port",
	"pool", "question", "choice", "correct", "score", "total", "points", "rank",
	"err", "err_code", "cause", "retryable", "attempts", "backoff_ms", "rate_limited",
}
