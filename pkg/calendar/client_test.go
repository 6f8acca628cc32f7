package calendar

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/klokku/cleancal/internal/backend"
	"github.com/klokku/cleancal/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupClientTest(t *testing.T, handler http.HandlerFunc) *ClientImpl {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(backend.NewWithClient(srv.URL, srv.Client()))
}

func TestClientImpl_ListCalendars(t *testing.T) {
	t.Run("should decode nested events and cleaning dates", func(t *testing.T) {
		// given
		client := setupClientTest(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/calendars/", r.URL.Path)
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`[{"id":1,"name":"Kitchen","url":null,
				"events":[{"id":3,"uid":"u-1","date_start":"2024-01-01","date_end":"2024-01-01","summary":"Dishes"}],
				"cleaning_dates":[{"date":"2024-01-05"}]}]`))
		})

		// when
		calendars, err := client.ListCalendars(context.Background(), "tok")

		// then
		require.NoError(t, err)
		require.Len(t, calendars, 1)
		assert.Equal(t, 1, calendars[0].Id)
		assert.Equal(t, "Kitchen", calendars[0].Name)
		assert.Equal(t, []Event{{Id: 3, Uid: "u-1", DateStart: "2024-01-01", DateEnd: "2024-01-01", Summary: "Dishes"}}, calendars[0].Events)
		assert.Equal(t, []CleaningDate{{Date: "2024-01-05"}}, calendars[0].CleaningDates)
	})

	t.Run("should wrap non-2xx into FetchError", func(t *testing.T) {
		// given
		client := setupClientTest(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		// when
		_, err := client.ListCalendars(context.Background(), "expired")

		// then
		var fetchErr *errs.FetchError
		require.True(t, errors.As(err, &fetchErr))
		assert.Equal(t, http.StatusUnauthorized, fetchErr.Status)
		assert.ErrorIs(t, err, errs.ErrUnexpectedStatus)
	})

	t.Run("should wrap transport failures into FetchError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		client := NewClient(backend.NewWithClient(srv.URL, srv.Client()))
		srv.Close()

		_, err := client.ListCalendars(context.Background(), "tok")

		var fetchErr *errs.FetchError
		require.True(t, errors.As(err, &fetchErr))
		assert.Zero(t, fetchErr.Status)
	})
}

func TestClientImpl_ExportCalendar(t *testing.T) {
	t.Run("should stream ICS body", func(t *testing.T) {
		client := setupClientTest(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/calendars/7", r.URL.Path)
			_, _ = w.Write([]byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"))
		})

		stream, err := client.ExportCalendar(context.Background(), "tok", 7)
		require.NoError(t, err)
		defer stream.Close()
		content, err := io.ReadAll(stream)

		require.NoError(t, err)
		assert.Equal(t, "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n", string(content))
	})

	t.Run("should fail with FetchError on 404", func(t *testing.T) {
		client := setupClientTest(t, func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		})

		stream, err := client.ExportCalendar(context.Background(), "tok", 7)

		assert.Nil(t, stream)
		assert.Equal(t, http.StatusNotFound, errs.Status(err))
	})
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "calendar_7.ics", FileName(7))
}
