package calendar

import "fmt"

// Calendar is the backend's record of one imported calendar. Dates stay in
// their wire form ("YYYY-MM-DD") so that malformed values reach the
// normalizer instead of failing the whole list decode.
type Calendar struct {
	Id            int            `json:"id"`
	Name          string         `json:"name"`
	Url           string         `json:"url,omitempty"`
	Events        []Event        `json:"events"`
	CleaningDates []CleaningDate `json:"cleaning_dates"`
}

// FileName is the deterministic name of the calendar's ICS export.
func FileName(id int) string {
	return fmt.Sprintf("calendar_%d.ics", id)
}
