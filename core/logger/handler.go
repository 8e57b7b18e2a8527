package logger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

type logFormat string

const (
	formatJSON logFormat = "json"
	formatKV   logFormat = "kv"

	timeFormatMillis = "2006-01-02T15:04:05.000Z07:00"
)

var errNoWriter = errors.New("logger: writer not initialized")

type handlerConfig struct {
	level    slog.Leveler
	writer   *asyncWriter
	format   logFormat
	keyOrder []string
	stacks   bool
}

// structuredHandler flattens groups into dotted keys and writes one line
// per record with the keys in keyOrder first and the rest sorted.
type structuredHandler struct {
	cfg    handlerConfig
	attrs  []slog.Attr
	groups []string
}

func newStructuredHandler(cfg handlerConfig) *structuredHandler {
	if cfg.level == nil {
		cfg.level = slog.LevelInfo
	}
	if cfg.keyOrder == nil {
		cfg.keyOrder = append([]string(nil), defaultKeyOrder...)
	}
	return &structuredHandler{cfg: cfg}
}

func (h *structuredHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.cfg.level.Level()
}

func (h *structuredHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.cfg.writer == nil {
		return errNoWriter
	}
	rec := make(fields, 16)
	ts := r.Time.UTC()
	rec["ts"] = ts.Truncate(time.Millisecond).Format(timeFormatMillis)
	rec["level"] = normalizeLevel(r.Level.String())
	if h.cfg.format == formatJSON {
		rec["ts_unix_nano"] = ts.UnixNano()
	}

	prefix := strings.Join(h.groups, ".")
	for _, a := range h.attrs {
		rec.add(prefix, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		rec.add(prefix, a)
		return true
	})
	rec.fillFromContext(ctx)
	rec.compactRID(h.cfg.format == formatJSON)
	rec.setDefault("event", r.Message, "unknown")
	rec.setDefault("component", "app")
	if !h.cfg.stacks {
		delete(rec, "stack")
	}
	rec.sanitize()

	line, err := rec.encode(h.cfg.format, h.cfg.keyOrder)
	if err != nil {
		return err
	}
	return h.cfg.writer.Write(append(line, '\n'))
}

func (h *structuredHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &clone
}

func (h *structuredHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}

// fields is one record being assembled.
type fields map[string]any

// add stores attr under its dotted key, expanding groups.
func (f fields) add(prefix string, attr slog.Attr) {
	key := attr.Key
	switch {
	case key == "":
		key = prefix
	case prefix != "":
		key = prefix + "." + key
	}
	if attr.Value.Kind() == slog.KindGroup {
		for _, child := range attr.Value.Group() {
			f.add(key, child)
		}
		return
	}
	if key == "" {
		return
	}
	if k, v, ok := normalizeAttr(key, attr.Value.Resolve()); ok {
		f[k] = v
	}
}

func (f fields) str(key string) (string, bool) {
	v, ok := f[key]
	if !ok || v == nil {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return fmt.Sprint(v), true
}

// setDefault sets key to the first non-empty candidate when it is unset or empty.
func (f fields) setDefault(key string, candidates ...string) {
	if s, ok := f.str(key); ok && s != "" {
		return
	}
	for _, c := range candidates {
		if c != "" {
			f[key] = c
			return
		}
	}
}

// fillFromContext copies update metadata from ctx unless an attr already
// set the same key.
func (f fields) fillFromContext(ctx context.Context) {
	if ctx == nil {
		return
	}
	f.fill("rid", RIDFrom(ctx))
	f.fill("user_id", UserIDFrom(ctx))
	f.fill("update_id", UpdateIDFrom(ctx))
	f.fill("chat_id", ChatIDFrom(ctx))
	f.fill("handler", HandlerFrom(ctx))
}

func (f fields) fill(key string, val any) {
	if _, taken := f[key]; taken {
		return
	}
	switch v := val.(type) {
	case string:
		if v == "" {
			return
		}
	case int:
		if v == 0 {
			return
		}
	case int64:
		if v == 0 {
			return
		}
	}
	f[key] = val
}

// compactRID shortens rid; JSON lines keep the original as rid_full.
func (f fields) compactRID(keepFull bool) {
	rid, ok := f.str("rid")
	if !ok || rid == "" {
		return
	}
	compact := CompactRID(rid)
	if compact == "" || compact == rid {
		return
	}
	if _, seen := f["rid_full"]; keepFull && !seen {
		f["rid_full"] = rid
	}
	f["rid"] = compact
}

// sanitize normalizes enumerated fields and drops empty values.
func (f fields) sanitize() {
	if level, ok := f.str("level"); ok {
		f["level"] = normalizeLevel(level)
	}
	for key, rule := range enumRules {
		raw, ok := f.str(key)
		if !ok || raw == "" {
			continue
		}
		v := strings.ToLower(strings.TrimSpace(raw))
		switch _, known := rule.allowed[v]; {
		case known:
			f[key] = v
		case rule.dropUnknown:
			delete(f, key)
		}
	}
	for k, v := range f {
		switch val := v.(type) {
		case nil:
			delete(f, k)
		case string:
			if val == "" {
				delete(f, k)
			}
		}
	}
}

// orderedKeys lists keys from order that are present, then the rest sorted.
func (f fields) orderedKeys(order []string) []string {
	keys := make([]string, 0, len(f))
	placed := make(map[string]struct{}, len(order))
	for _, k := range order {
		if _, ok := f[k]; ok {
			if _, dup := placed[k]; !dup {
				keys = append(keys, k)
				placed[k] = struct{}{}
			}
		}
	}
	var rest []string
	for k := range f {
		if _, ok := placed[k]; !ok {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func (f fields) encode(format logFormat, order []string) ([]byte, error) {
	var b strings.Builder
	if format == formatJSON {
		b.WriteByte('{')
	}
	for i, k := range f.orderedKeys(order) {
		if format != formatJSON {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(kvValue(f[k]))
			continue
		}
		data, err := json.Marshal(f[k])
		if err != nil {
			return nil, fmt.Errorf("logger: encode %s: %w", k, err)
		}
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Quote(k))
		b.WriteByte(':')
		b.Write(data)
	}
	if format == formatJSON {
		b.WriteByte('}')
	}
	return []byte(b.String()), nil
}

func kvValue(val any) string {
	var s string
	switch v := val.(type) {
	case string:
		s = v
	case bool:
		return strconv.FormatBool(v)
	case int, int64, uint64, float64:
		return fmt.Sprint(v)
	default:
		s = fmt.Sprint(v)
	}
	if strings.IndexFunc(s, needsQuote) >= 0 {
		return strconv.Quote(s)
	}
	return s
}

func needsQuote(r rune) bool {
	return r <= ' ' || r == '=' || r == '"'
}

// normalizeAttr converts a slog value into a JSON friendly one. Durations
// become whole milliseconds under a _ms key.
func normalizeAttr(key string, val slog.Value) (string, any, bool) {
	switch val.Kind() {
	case slog.KindString:
		return key, strings.TrimSpace(val.String()), true
	case slog.KindBool:
		return key, val.Bool(), true
	case slog.KindInt64:
		return key, val.Int64(), true
	case slog.KindUint64:
		if u := val.Uint64(); u <= math.MaxInt64 {
			return key, int64(u), true
		}
		return key, val.Uint64(), true
	case slog.KindFloat64:
		return key, val.Float64(), true
	case slog.KindDuration:
		return durationKey(key), RoundMS(val.Duration()).Milliseconds(), true
	case slog.KindTime:
		return key, val.Time().UTC().Format(time.RFC3339Nano), true
	}
	switch x := val.Any().(type) {
	case nil:
		return key, nil, false
	case error:
		return key, x.Error(), true
	case string:
		return key, strings.TrimSpace(x), true
	case time.Duration:
		return durationKey(key), RoundMS(x).Milliseconds(), true
	case fmt.Stringer:
		return key, x.String(), true
	default:
		return key, fmt.Sprint(x), true
	}
}

func durationKey(key string) string {
	switch {
	case key == "duration":
		return "duration_ms"
	case !strings.HasSuffix(key, "_ms"):
		return key + "_ms"
	}
	return key
}
