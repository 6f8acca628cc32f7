package calendar

import (
	"bytes"
	"context"
	"io"
	"sync"
)

type ClientStub struct {
	mu        sync.Mutex
	calendars []Calendar
	exports   map[int][]byte
	listErr   error
	exportErr error
	listCalls int
	block     chan struct{}
	lastToken string
}

func NewClientStub() *ClientStub {
	return &ClientStub{
		exports: make(map[int][]byte),
	}
}

func (c *ClientStub) ListCalendars(ctx context.Context, token string) ([]Calendar, error) {
	c.mu.Lock()
	c.listCalls++
	c.lastToken = token
	block := c.block
	c.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.listErr != nil {
		return nil, c.listErr
	}
	result := make([]Calendar, len(c.calendars))
	copy(result, c.calendars)
	return result, nil
}

func (c *ClientStub) ExportCalendar(ctx context.Context, token string, id int) (io.ReadCloser, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastToken = token
	if c.exportErr != nil {
		return nil, c.exportErr
	}
	return io.NopCloser(bytes.NewReader(c.exports[id])), nil
}

// Helper methods for test setup

func (c *ClientStub) SetCalendars(calendars []Calendar) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calendars = make([]Calendar, len(calendars))
	copy(c.calendars, calendars)
}

func (c *ClientStub) SetExport(id int, content []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.exports[id] = content
}

func (c *ClientStub) SetListError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listErr = err
}

func (c *ClientStub) SetExportError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.exportErr = err
}

// Block makes ListCalendars wait until Unblock is called.
func (c *ClientStub) Block() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.block = make(chan struct{})
}

func (c *ClientStub) Unblock() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.block != nil {
		close(c.block)
		c.block = nil
	}
}

func (c *ClientStub) ListCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listCalls
}

func (c *ClientStub) LastToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastToken
}
