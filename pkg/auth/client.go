package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/klokku/cleancal/internal/backend"
	"github.com/klokku/cleancal/internal/errs"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const tokenPath = "/token/"

var errMissingToken = errors.New("response carries no access_token")

type Client interface {
	Login(ctx context.Context, credentials Credentials) (string, error)    // POST /token/
	Register(ctx context.Context, credentials Credentials) (string, error) // POST {registerPath}
}

type ClientImpl struct {
	backend      *backend.Backend
	registerPath string
}

func NewClient(b *backend.Backend, registerPath string) *ClientImpl {
	if registerPath == "" {
		registerPath = "/register"
	}
	return &ClientImpl{
		backend:      b,
		registerPath: registerPath,
	}
}

// Login exchanges form-encoded credentials for an access token.
func (c *ClientImpl) Login(ctx context.Context, credentials Credentials) (string, error) {
	form := url.Values{}
	form.Set("username", credentials.Username)
	form.Set("password", credentials.Password)

	req, err := c.backend.NewRequest(ctx, http.MethodPost, tokenPath, strings.NewReader(form.Encode()), "")
	if err != nil {
		return "", &errs.AuthError{Op: "login", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.exchange(req, "login")
}

// Register creates the account. The backend answers either with a token or
// with the created user; in the latter case the returned token is empty.
func (c *ClientImpl) Register(ctx context.Context, credentials Credentials) (string, error) {
	body, err := json.Marshal(credentials)
	if err != nil {
		return "", &errs.AuthError{Op: "register", Err: err}
	}
	req, err := c.backend.NewRequest(ctx, http.MethodPost, c.registerPath, bytes.NewReader(body), "")
	if err != nil {
		return "", &errs.AuthError{Op: "register", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	return c.exchange(req, "register")
}

func (c *ClientImpl) exchange(req *http.Request, op string) (string, error) {
	resp, err := c.backend.Do(req)
	if err != nil {
		return "", &errs.AuthError{Op: op, Err: err}
	}
	defer backend.Drain(resp)

	if !backend.IsSuccess(resp) {
		err := &errs.AuthError{Op: op, Status: resp.StatusCode, Err: errs.ErrUnexpectedStatus}
		log.Error(err)
		return "", err
	}

	var token oauth2.Token
	if err := backend.DecodeJSON(resp, &token); err != nil {
		return "", &errs.AuthError{Op: op, Status: resp.StatusCode, Err: err}
	}
	if op == "login" && token.AccessToken == "" {
		return "", &errs.AuthError{Op: op, Status: resp.StatusCode, Err: errMissingToken}
	}
	return token.AccessToken, nil
}
