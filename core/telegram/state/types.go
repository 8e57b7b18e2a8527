// Package state tracks which step of a multi-message dialog a user is in,
// such as the feedback prompt, and routes their next text to that step.
package state

import tele "gopkg.in/telebot.v4"

// State names a dialog step, e.g. "feedback.waiting".
type State string

// StateIdle means the user is not inside any dialog.
const StateIdle State = "idle"

// Manager keeps one State per user and the handler for each State.
type Manager interface {
	SetState(userID int64, st State)
	GetState(userID int64) State
	ClearState(userID int64)
	InProgress(userID int64) bool

	Handle(st State, h tele.HandlerFunc)
	ManagerHandler(c tele.Context) error
}
