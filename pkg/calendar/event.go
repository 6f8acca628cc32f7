package calendar

// Event is a date-ranged entry; DateEnd is inclusive.
type Event struct {
	Id        int    `json:"id,omitempty"`
	Uid       string `json:"uid,omitempty"`
	DateStart string `json:"date_start"`
	DateEnd   string `json:"date_end"`
	Summary   string `json:"summary"`
}

// CleaningDate marks a single cleaning day.
type CleaningDate struct {
	Date string `json:"date"`
}
