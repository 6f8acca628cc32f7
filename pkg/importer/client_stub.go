package importer

import (
	"context"
	"sync"
)

type ClientStub struct {
	mu      sync.Mutex
	result  Result
	fileErr error
	urlErr  error
	files   []File
	urls    []string
	block   chan struct{}
	started chan struct{}
}

func NewClientStub() *ClientStub {
	return &ClientStub{result: Result(`{"id":1}`)}
}

func (c *ClientStub) ImportFile(ctx context.Context, token string, file File) (Result, error) {
	c.wait()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.files = append(c.files, file)
	if c.fileErr != nil {
		return nil, c.fileErr
	}
	return c.result, nil
}

func (c *ClientStub) ImportFromURL(ctx context.Context, token string, url string) (Result, error) {
	c.wait()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.urls = append(c.urls, url)
	if c.urlErr != nil {
		return nil, c.urlErr
	}
	return c.result, nil
}

func (c *ClientStub) wait() {
	c.mu.Lock()
	block, started := c.block, c.started
	c.mu.Unlock()
	if block == nil {
		return
	}
	close(started)
	<-block
}

func (c *ClientStub) SetFileError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fileErr = err
}

func (c *ClientStub) SetURLError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.urlErr = err
}

// Block holds the next submission until the returned release function is
// called. The started channel closes once the submission is waiting.
func (c *ClientStub) Block() (started <-chan struct{}, release func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.block = make(chan struct{})
	c.started = make(chan struct{})
	block := c.block
	return c.started, func() {
		c.mu.Lock()
		c.block = nil
		c.started = nil
		c.mu.Unlock()
		close(block)
	}
}

func (c *ClientStub) Files() []File {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]File(nil), c.files...)
}

func (c *ClientStub) URLs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.urls...)
}
