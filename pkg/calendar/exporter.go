package calendar

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/emersion/go-ical"
	"github.com/klokku/cleancal/internal/errs"
	"github.com/klokku/cleancal/pkg/session"
	log "github.com/sirupsen/logrus"
)

// Export is a downloaded ICS artifact ready to be offered to the user.
type Export struct {
	CalendarId int
	FileName   string
	Content    []byte
	// EventCount is the number of VEVENTs found, or -1 when the payload could
	// not be decoded as iCalendar. The content is passed through either way.
	EventCount int
}

type Exporter struct {
	client Client
	store  session.Store
	dir    string
}

func NewExporter(client Client, store session.Store, dir string) *Exporter {
	return &Exporter{
		client: client,
		store:  store,
		dir:    dir,
	}
}

// Export downloads the ICS content of calendar id using the current session.
func (e *Exporter) Export(ctx context.Context, id int) (Export, error) {
	token, ok := e.store.Get(ctx).Get()
	if !ok {
		return Export{}, errs.ErrNoSession
	}

	stream, err := e.client.ExportCalendar(ctx, token, id)
	if err != nil {
		return Export{}, err
	}
	defer stream.Close()

	content, err := io.ReadAll(stream)
	if err != nil {
		return Export{}, &errs.FetchError{Op: fmt.Sprintf("export calendar %d", id), Err: err}
	}

	return Export{
		CalendarId: id,
		FileName:   FileName(id),
		Content:    content,
		EventCount: countEvents(content),
	}, nil
}

// SaveTo downloads calendar id and writes it into the export directory. No
// file is created when the download fails.
func (e *Exporter) SaveTo(ctx context.Context, id int) (string, error) {
	export, err := e.Export(ctx, id)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(e.dir, export.FileName)
	if err := os.WriteFile(path, export.Content, 0o644); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", export.FileName, err)
	}
	log.Infof("Saved calendar %d to %s (%d events)", id, path, export.EventCount)
	return path, nil
}

func countEvents(content []byte) int {
	cal, err := ical.NewDecoder(bytes.NewReader(content)).Decode()
	if err != nil {
		log.Warnf("exported calendar is not valid iCalendar: %v", err)
		return -1
	}
	return len(cal.Events())
}
