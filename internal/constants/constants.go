package constants

const (
	AppName            = "habitdeck"
	DefaultKeyringUser = "api-token"
	DefaultServerURL   = "http://localhost:8080"
	Version            = "v0.3.0"

	// DateFormat is the standard calendar-day format used throughout the
	// application (YYYY-MM-DD). The service tracks habits at day
	// granularity; there is never a time-of-day component on the wire.
	DateFormat = "2006-01-02"

	// WindowDays is the number of trailing calendar days rendered as the
	// completion grid on a habit card.
	WindowDays = 7

	// LocalActivityID marks an activity created optimistically before the
	// server has assigned a real id.
	LocalActivityID = "local"

	// MinFrequency and MaxFrequency bound a habit's target days per week.
	MinFrequency = 1
	MaxFrequency = 7
)
