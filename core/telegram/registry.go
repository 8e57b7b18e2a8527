package telegram

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/commedeschamps/KieliSan/core/logger"
	"github.com/commedeschamps/KieliSan/core/telegram/callbacks"
	"github.com/samber/lo"

	tele "gopkg.in/telebot.v4"
)

// Registration errors.
var (
	ErrInvalidRegistration = errors.New("telegram: invalid registration")
	ErrDuplicate           = errors.New("telegram: already registered")
)

// Command is a slash command. Hidden and admin-only commands stay out of
// the client's command menu; Aliases also match as plain text.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	AdminOnly   bool
	Hidden      bool
	Aliases     []string
}

// Registry holds bot commands, reply-keyboard buttons and callbacks. It is
// filled once at startup and read concurrently afterwards.
type Registry struct {
	mu               sync.RWMutex
	commands         map[string]Command
	buttons          map[string]tele.HandlerFunc
	callbacks        map[string]tele.HandlerFunc
	callbackNotFound tele.HandlerFunc
	textFallback     tele.HandlerFunc
}

// NewRegistry returns an empty registry whose unknown-callback handler
// shows a short toast.
func NewRegistry() *Registry {
	return &Registry{
		commands:  make(map[string]Command),
		buttons:   make(map[string]tele.HandlerFunc),
		callbacks: make(map[string]tele.HandlerFunc),
		callbackNotFound: func(c tele.Context) error {
			return callbacks.Answer(c, "Unsupported action", false)
		},
	}
}

func rejected(kind, name, reason string, err error) error {
	logger.Warn(logger.Background(), "tg.wire", "register."+kind+".skip",
		slog.String("name", name),
		slog.String("reason", reason),
	)
	return fmt.Errorf("%w: %s %q (%s)", err, kind, name, reason)
}

// RegisterCommand adds a command. name must start with a slash.
func (r *Registry) RegisterCommand(name string, cmd Command) error {
	switch {
	case name == "" || cmd.Handler == nil || cmd.Description == "":
		return rejected("command", name, "invalid", ErrInvalidRegistration)
	case !strings.HasPrefix(name, "/"):
		return rejected("command", name, "no_slash_prefix", ErrInvalidRegistration)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.commands[name]; exists {
		return rejected("command", name, "duplicate", ErrDuplicate)
	}
	r.commands[name] = cmd
	return nil
}

// ListCommands returns commands sorted by text. visibleOnly drops hidden and
// admin-only ones.
func (r *Registry) ListCommands(visibleOnly bool) []tele.Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]tele.Command, 0, len(r.commands))
	for text, cmd := range r.commands {
		if visibleOnly && (cmd.Hidden || cmd.AdminOnly) {
			continue
		}
		list = append(list, tele.Command{Text: text, Description: cmd.Description})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Text < list[j].Text })
	return list
}

// LookupCommand resolves text to a command by name or alias, with or
// without the leading slash. It returns the canonical name.
func (r *Registry) LookupCommand(text string) (string, Command, bool) {
	name := strings.TrimSpace(text)
	if name == "" {
		return "", Command{}, false
	}
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if cmd, ok := r.commands[name]; ok {
		return name, cmd, true
	}
	for key, cmd := range r.commands {
		if lo.ContainsBy(cmd.Aliases, func(a string) bool { return "/"+strings.TrimPrefix(a, "/") == name }) {
			return key, cmd, true
		}
	}
	return "", Command{}, false
}

// Commands returns a copy of the registered commands.
func (r *Registry) Commands() map[string]Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Assign(r.commands)
}

// RegisterButton binds a reply-keyboard label; incoming text is compared
// after trimming spaces.
func (r *Registry) RegisterButton(label string, handler tele.HandlerFunc) error {
	label = strings.TrimSpace(label)
	if label == "" || handler == nil {
		return rejected("button", label, "invalid", ErrInvalidRegistration)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.buttons[label]; exists {
		return rejected("button", label, "duplicate", ErrDuplicate)
	}
	r.buttons[label] = handler
	return nil
}

// LookupButton returns the handler bound to a reply-keyboard label.
func (r *Registry) LookupButton(text string) (tele.HandlerFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.buttons[strings.TrimSpace(text)]
	return h, ok
}

// RegisterCallback binds an inline button unique key.
func (r *Registry) RegisterCallback(key string, handler tele.HandlerFunc) error {
	if key == "" || handler == nil {
		return rejected("callback", key, "invalid", ErrInvalidRegistration)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.callbacks[key]; exists {
		return rejected("callback", key, "duplicate", ErrDuplicate)
	}
	r.callbacks[key] = handler
	return nil
}

func (r *Registry) GetCallback(key string) (tele.HandlerFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.callbacks[key]
	return h, ok
}

// ListCallbacks returns the registered keys, sorted.
func (r *Registry) ListCallbacks() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := lo.Keys(r.callbacks)
	sort.Strings(keys)
	return keys
}

// SetCallbackNotFound replaces the unknown-callback handler; nil is ignored.
func (r *Registry) SetCallbackNotFound(h tele.HandlerFunc) {
	if h == nil {
		return
	}
	r.mu.Lock()
	r.callbackNotFound = h
	r.mu.Unlock()
}

func (r *Registry) CallbackNotFound() tele.HandlerFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.callbackNotFound
}

// SetTextFallback sets the handler for text that matched nothing else.
func (r *Registry) SetTextFallback(h tele.HandlerFunc) {
	r.mu.Lock()
	r.textFallback = h
	r.mu.Unlock()
}

func (r *Registry) TextFallback() tele.HandlerFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.textFallback
}

// InitBotCommands publishes the visible commands to the client menu.
func InitBotCommands(bot *tele.Bot, reg *Registry) {
	list := reg.ListCommands(true)
	if len(list) == 0 {
		return
	}
	if err := bot.SetCommands(list); err != nil {
		logger.Error(logger.Background(), "tg.wire", "register.commands.set_failed",
			slog.String("err", err.Error()),
		)
	}
}
