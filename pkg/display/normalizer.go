package display

import (
	"fmt"
	"strconv"
	"time"

	"github.com/klokku/cleancal/pkg/calendar"
	log "github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

type Normalizer struct {
	location *time.Location
	palette  []string
}

// NewNormalizer interprets calendar dates as midnight in location.
func NewNormalizer(location *time.Location) *Normalizer {
	if location == nil {
		location = time.Local
	}
	return &Normalizer{location: location, palette: Palette}
}

// Normalize flattens calendars into display events using local time.
func Normalize(calendars []calendar.Calendar) []DisplayEvent {
	return NewNormalizer(time.Local).Normalize(calendars)
}

// Normalize produces events in calendar order; within a calendar regular
// events come before cleaning markers. No temporal sorting is done.
func (n *Normalizer) Normalize(calendars []calendar.Calendar) []DisplayEvent {
	events := make([]DisplayEvent, 0)
	for _, cal := range calendars {
		color := n.palette[ColorFor(cal.Id, len(n.palette))]
		tag := strconv.Itoa(cal.Id)

		for _, e := range cal.Events {
			start, startOk := n.parseDate(e.DateStart)
			end, endOk := n.parseDate(e.DateEnd)
			if endOk {
				end = end.AddDate(0, 0, 1)
			}
			if !startOk || !endOk {
				log.Warnf("calendar %d: event %q has invalid dates %q..%q", cal.Id, e.Summary, e.DateStart, e.DateEnd)
			}
			events = append(events, DisplayEvent{
				Start:    start,
				End:      end,
				Title:    fmt.Sprintf("%s: %s", cal.Name, e.Summary),
				Color:    color,
				Calendar: tag,
				Kind:     KindEvent,
				Invalid:  !startOk || !endOk,
			})
		}

		for _, c := range cal.CleaningDates {
			start, ok := n.parseDate(c.Date)
			var end time.Time
			if ok {
				end = start.AddDate(0, 0, 1)
			} else {
				log.Warnf("calendar %d: invalid cleaning date %q", cal.Id, c.Date)
			}
			id := cal.Id
			events = append(events, DisplayEvent{
				Start:     start,
				End:       end,
				Title:     fmt.Sprintf("%s: %s", CleaningLabel, cal.Name),
				Color:     CleaningColor,
				TextColor: CleaningTextColor,
				Calendar:  tag,
				Id:        &id,
				Kind:      KindCleaning,
				Invalid:   !ok,
			})
		}
	}
	return events
}

func (n *Normalizer) parseDate(value string) (time.Time, bool) {
	t, err := time.ParseInLocation(dateLayout, value, n.location)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
