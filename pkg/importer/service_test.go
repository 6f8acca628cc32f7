package importer

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/klokku/cleancal/internal/errs"
	"github.com/klokku/cleancal/internal/event_bus"
	"github.com/klokku/cleancal/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validICS = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//cleancal//test//EN\r\nEND:VCALENDAR\r\n"

func setupServiceTest(t *testing.T) (*Service, *ClientStub, *session.MemoryStore, *atomic.Int32) {
	client := NewClientStub()
	store := session.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), "tok"))
	bus := event_bus.NewEventBus()
	refreshes := &atomic.Int32{}
	event_bus.SubscribeTyped(bus, event_bus.RefreshRequestedType, func(e event_bus.EventT[event_bus.RefreshRequested]) error {
		refreshes.Add(1)
		return nil
	})
	return NewService(client, store, bus), client, store, refreshes
}

func TestService_ImportFromURL(t *testing.T) {
	ctx := context.Background()

	t.Run("should reject empty url without a request", func(t *testing.T) {
		// given
		service, client, _, refreshes := setupServiceTest(t)

		// when
		_, err := service.ImportFromURL(ctx, "   ")

		// then
		require.Error(t, err)
		assert.True(t, errs.IsValidation(err))
		assert.Contains(t, err.Error(), "Please enter a URL")
		var importErr *errs.ImportError
		assert.ErrorAs(t, err, &importErr)
		assert.Empty(t, client.URLs())
		assert.Zero(t, refreshes.Load())
	})

	t.Run("should import and fire one refresh", func(t *testing.T) {
		service, client, _, refreshes := setupServiceTest(t)

		_, err := service.ImportFromURL(ctx, " https://example.com/cal.ics ")

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/cal.ics"}, client.URLs())
		assert.Equal(t, int32(1), refreshes.Load())
	})

	t.Run("should not refresh on backend failure", func(t *testing.T) {
		service, client, _, refreshes := setupServiceTest(t)
		client.SetURLError(&errs.ImportError{Op: "import url", Status: 422, Err: errs.ErrUnexpectedStatus})

		_, err := service.ImportFromURL(ctx, "https://example.com/cal.ics")

		assert.Equal(t, 422, errs.Status(err))
		assert.Zero(t, refreshes.Load())
	})

	t.Run("should require a session", func(t *testing.T) {
		service, client, store, _ := setupServiceTest(t)
		require.NoError(t, store.Clear(ctx))

		_, err := service.ImportFromURL(ctx, "https://example.com/cal.ics")

		assert.ErrorIs(t, err, errs.ErrNoSession)
		assert.Empty(t, client.URLs())
	})
}

func TestService_ImportFile(t *testing.T) {
	ctx := context.Background()

	t.Run("should reject missing file without a request", func(t *testing.T) {
		service, client, _, refreshes := setupServiceTest(t)

		_, err := service.ImportFile(ctx, nil)

		assert.True(t, errs.IsValidation(err))
		assert.Contains(t, err.Error(), "Please select a file")
		assert.Empty(t, client.Files())
		assert.Zero(t, refreshes.Load())
	})

	t.Run("should reject content that is not iCalendar", func(t *testing.T) {
		service, client, _, _ := setupServiceTest(t)

		_, err := service.ImportFile(ctx, &File{Name: "notes.txt", Content: []byte("shopping list")})

		assert.True(t, errs.IsValidation(err))
		assert.Contains(t, err.Error(), "notes.txt")
		assert.Empty(t, client.Files())
	})

	t.Run("should upload and fire exactly one refresh", func(t *testing.T) {
		service, client, _, refreshes := setupServiceTest(t)

		result, err := service.ImportFile(ctx, &File{Name: "kitchen.ics", Content: []byte(validICS)})

		require.NoError(t, err)
		assert.JSONEq(t, `{"id":1}`, string(result))
		require.Len(t, client.Files(), 1)
		assert.Equal(t, "kitchen.ics", client.Files()[0].Name)
		assert.Equal(t, int32(1), refreshes.Load())
	})

	t.Run("should refuse a duplicate submission while one is in flight", func(t *testing.T) {
		// given
		service, client, _, refreshes := setupServiceTest(t)
		started, release := client.Block()
		done := make(chan error, 1)
		go func() {
			_, err := service.ImportFile(ctx, &File{Name: "kitchen.ics", Content: []byte(validICS)})
			done <- err
		}()
		<-started

		// when
		_, err := service.ImportFile(ctx, &File{Name: "kitchen.ics", Content: []byte(validICS)})
		release()

		// then
		assert.True(t, errs.IsValidation(err))
		assert.Contains(t, err.Error(), "already in progress")
		require.NoError(t, <-done)
		assert.Len(t, client.Files(), 1)
		assert.Equal(t, int32(1), refreshes.Load())

		_, err = service.ImportFile(ctx, &File{Name: "kitchen.ics", Content: []byte(validICS)})
		require.NoError(t, err)
		assert.Equal(t, int32(2), refreshes.Load())
	})
}
