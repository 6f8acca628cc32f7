package event_bus

const (
	RefreshRequestedType EventType = "calendars.refresh_requested"
	SessionChangedType   EventType = "session.changed"
)

// RefreshRequested asks the sync coordinator to re-run fetch-and-normalize.
type RefreshRequested struct {
	// Reason is informational only ("import-file", "import-url", "schedule").
	Reason string
}

// SessionChanged is published after login, registration adoption and logout.
type SessionChanged struct {
	Authenticated bool
}
