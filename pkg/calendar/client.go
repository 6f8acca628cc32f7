package calendar

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/klokku/cleancal/internal/backend"
	"github.com/klokku/cleancal/internal/errs"
	log "github.com/sirupsen/logrus"
)

type Client interface {
	ListCalendars(ctx context.Context, token string) ([]Calendar, error)             // GET /calendars/
	ExportCalendar(ctx context.Context, token string, id int) (io.ReadCloser, error) // GET /calendars/{id}
}

type ClientImpl struct {
	backend *backend.Backend
}

func NewClient(b *backend.Backend) *ClientImpl {
	return &ClientImpl{backend: b}
}

// ListCalendars retrieves every calendar of the user with nested events and
// cleaning dates. Failures are not retried.
func (c *ClientImpl) ListCalendars(ctx context.Context, token string) ([]Calendar, error) {
	req, err := c.backend.NewRequest(ctx, http.MethodGet, "/calendars/", nil, token)
	if err != nil {
		return nil, &errs.FetchError{Op: "list calendars", Err: err}
	}

	resp, err := c.backend.Do(req)
	if err != nil {
		return nil, &errs.FetchError{Op: "list calendars", Err: err}
	}
	defer backend.Drain(resp)

	if !backend.IsSuccess(resp) {
		err := &errs.FetchError{Op: "list calendars", Status: resp.StatusCode, Err: errs.ErrUnexpectedStatus}
		log.Error(err)
		return nil, err
	}

	var calendars []Calendar
	if err := backend.DecodeJSON(resp, &calendars); err != nil {
		return nil, &errs.FetchError{Op: "list calendars", Status: resp.StatusCode, Err: err}
	}
	log.Debugf("Fetched %d calendars", len(calendars))
	return calendars, nil
}

// ExportCalendar opens the original ICS content of calendar id. The caller
// must close the returned stream.
func (c *ClientImpl) ExportCalendar(ctx context.Context, token string, id int) (io.ReadCloser, error) {
	op := fmt.Sprintf("export calendar %d", id)
	req, err := c.backend.NewRequest(ctx, http.MethodGet, fmt.Sprintf("/calendars/%d", id), nil, token)
	if err != nil {
		return nil, &errs.FetchError{Op: op, Err: err}
	}

	resp, err := c.backend.Do(req)
	if err != nil {
		return nil, &errs.FetchError{Op: op, Err: err}
	}

	if !backend.IsSuccess(resp) {
		backend.Drain(resp)
		err := &errs.FetchError{Op: op, Status: resp.StatusCode, Err: errs.ErrUnexpectedStatus}
		log.Error(err)
		return nil, err
	}
	return resp.Body, nil
}
