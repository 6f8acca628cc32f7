package auth

import (
	"context"
	"sync"
)

type ClientStub struct {
	mu          sync.Mutex
	token       string
	loginErr    error
	registerErr error
	userOnly    bool
	calls       []string
}

func NewClientStub(token string) *ClientStub {
	return &ClientStub{token: token}
}

func (c *ClientStub) Login(ctx context.Context, credentials Credentials) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, "login:"+credentials.Username)
	if c.loginErr != nil {
		return "", c.loginErr
	}
	return c.token, nil
}

func (c *ClientStub) Register(ctx context.Context, credentials Credentials) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, "register:"+credentials.Username)
	if c.registerErr != nil {
		return "", c.registerErr
	}
	if c.userOnly {
		return "", nil
	}
	return c.token, nil
}

func (c *ClientStub) SetLoginError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loginErr = err
}

func (c *ClientStub) SetRegisterError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registerErr = err
}

// SetRegisterReturnsUser makes Register answer like a backend that returns
// the created user instead of a token.
func (c *ClientStub) SetRegisterReturnsUser() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userOnly = true
}

func (c *ClientStub) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}
