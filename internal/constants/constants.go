package constants

// Session
const (
	SessionCookieName = "todo_session"
	ContextKeyUserID  = "user_id"
	SessionMaxAge     = 86400 * 7 // 7 days
)

// Validation bounds
const (
	MinPasswordLength = 6
	MinYear           = 2000
	MaxYear           = 2100
)

// DateLayout is the calendar date format used by task records (ISO 8601 date).
const DateLayout = "2006-01-02"
