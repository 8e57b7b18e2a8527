package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v4"
)

type fakeContext struct {
	tele.Context
	update tele.Update
	store  map[string]any
}

func newFakeContext(upd tele.Update) *fakeContext {
	return &fakeContext{update: upd, store: map[string]any{}}
}

func (f *fakeContext) Update() tele.Update { return f.update }
func (f *fakeContext) Get(k string) any { return f.store[k] }
func (f *fakeContext) Set(k string, v any) { f.store[k] = v }

func (f *fakeContext) Sender() *tele.User {
	switch {
	case f.update.Callback != nil:
		return f.update.Callback.Sender
	case f.update.Message != nil:
		return f.update.Message.Sender
	}
	return nil
}

func (f *fakeContext) Chat() *tele.Chat {
	if f.update.Message != nil {
		return f.update.Message.Chat
	}
	return nil
}

func messageUpdate(id int, userID int64) tele.Update {
	u := &tele.User{ID: userID}
	return tele.Update{ID: id, Message: &tele.Message{Sender: u, Chat: &tele.Chat{ID: userID}}}
}

func TestRateLimitBlocksBurstsPerUser(t *testing.T) {
	clock := time.Unix(1000, 0)
	var handled, limited int
	mw := RateLimitMiddleware(RateLimitOptions{
		Interval:  time.Second,
		Now:       func() time.Time { return clock },
		OnLimited: func(tele.Context) error { limited++; return nil },
	})
	h := mw(func(tele.Context) error { handled++; return nil })

	assert.NoError(t, h(newFakeContext(messageUpdate(1, 7))))
	assert.NoError(t, h(newFakeContext(messageUpdate(2, 7))))
	assert.NoError(t, h(newFakeContext(messageUpdate(3, 8))))
	clock = clock.Add(2 * time.Second)
	assert.NoError(t, h(newFakeContext(messageUpdate(4, 7))))

	assert.Equal(t, 3, handled)
	assert.Equal(t, 1, limited)
}

func TestRateLimitHonoursExclusions(t *testing.T) {
	var handled int
	mw := RateLimitMiddleware(RateLimitOptions{
		Interval: time.Hour,
		Exclude:  map[string]struct{}{"callback": {}},
	})
	h := mw(func(tele.Context) error { handled++; return nil })
	cb := tele.Update{ID: 1, Callback: &tele.Callback{Sender: &tele.User{ID: 3}}}
	for i := 0; i < 3; i++ {
		assert.NoError(t, h(newFakeContext(cb)))
	}
	assert.Equal(t, 3, handled)
}

func TestRecoverMiddlewareReturnsError(t *testing.T) {
	h := RecoverMiddleware(func(tele.Context) error { panic("boom") })
	err := h(newFakeContext(messageUpdate(1, 1)))
	assert.EqualError(t, err, "panic: boom")
}

func TestAdminOnlyMiddleware(t *testing.T) {
	var handled, rejected int
	mw := AdminOnlyMiddleware(AdminOptions{
		AdminID:  42,
		OnReject: func(tele.Context) error { rejected++; return nil },
	})
	h := mw(func(tele.Context) error { handled++; return nil })
	assert.NoError(t, h(newFakeContext(messageUpdate(1, 42))))
	assert.NoError(t, h(newFakeContext(messageUpdate(2, 7))))
	assert.Equal(t, 1, handled)
	assert.Equal(t, 1, rejected)

	assert.False(t, AdminOptions{}.allows(newFakeContext(messageUpdate(3, 42))))
}
