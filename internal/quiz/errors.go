package quiz

// Error is a recoverable quiz failure. Code is picked up by the router
// summary as err_code.
type Error struct {
	code string
	msg  string
}

func (e *Error) Error() string { return e.msg }

// Code returns a stable machine-readable identifier.
func (e *Error) Code() string { return e.code }

var (
	ErrNoQuestionsAvailable = &Error{code: "no_questions", msg: "quiz: no questions available for mode"}
	ErrStaleAnswer          = &Error{code: "stale_answer", msg: "quiz: answer for a question already passed"}
	ErrStaleQuestion        = &Error{code: "stale_question", msg: "quiz: question is no longer current"}
	ErrEmptySelection       = &Error{code: "empty_selection", msg: "quiz: nothing selected"}
	ErrNoSession            = &Error{code: "no_session", msg: "quiz: no active session"}
	ErrSessionFinished      = &Error{code: "session_finished", msg: "quiz: session already finished"}
	ErrNotMultiSelect       = &Error{code: "not_multi", msg: "quiz: question is not multi-select"}
	ErrUnknownMode          = &Error{code: "unknown_mode", msg: "quiz: unknown mode"}
)
