package display

import (
	"bytes"
	"encoding/csv"

	log "github.com/sirupsen/logrus"
)

type CsvRenderer struct {
}

func NewCsvRenderer() *CsvRenderer {
	return &CsvRenderer{}
}

// Render writes one row per event. End is written inclusive, the way a
// person reads a date range; invalid dates are written as "invalid".
func (r *CsvRenderer) Render(events []DisplayEvent) (string, error) {
	data := make([][]string, 0, len(events)+1)
	data = append(data, []string{"Start", "End", "Title", "Calendar", "Kind", "Color"})
	for _, e := range events {
		start, end := "invalid", "invalid"
		if !e.Start.IsZero() {
			start = e.Start.Format(dateLayout)
		}
		if !e.End.IsZero() {
			end = e.End.AddDate(0, 0, -1).Format(dateLayout)
		}
		data = append(data, []string{start, end, e.Title, e.Calendar, string(e.Kind), e.Color})
	}

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		if err := writer.Write(row); err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}
