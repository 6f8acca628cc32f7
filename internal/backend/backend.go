package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klokku/cleancal/internal/config"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const RequestIdHeader = "X-Request-Id"

// Backend is the shared transport to the cleaning-calendar service. It only
// knows the base URL and how to send a request; status interpretation is left
// to the callers so they can wrap failures into their own error kinds.
type Backend struct {
	baseURL string
	client  *http.Client
}

func New(cfg config.Backend) *Backend {
	return NewWithClient(cfg.BaseURL, &http.Client{Timeout: cfg.Timeout})
}

func NewWithClient(baseURL string, client *http.Client) *Backend {
	return &Backend{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (b *Backend) URL(path string) string {
	return b.baseURL + path
}

// NewRequest builds a request against the backend. A non-empty token is sent
// as a bearer credential.
func (b *Backend) NewRequest(ctx context.Context, method, path string, body io.Reader, token string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, b.URL(path), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set(RequestIdHeader, uuid.NewString())
	if token != "" {
		(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(req)
	}
	return req, nil
}

// Do executes req. The caller owns the response body.
func (b *Backend) Do(req *http.Request) (*http.Response, error) {
	fields := log.Fields{
		"method":    req.Method,
		"path":      req.URL.Path,
		"requestId": req.Header.Get(RequestIdHeader),
	}
	start := time.Now()
	resp, err := b.client.Do(req)
	if err != nil {
		log.WithFields(fields).Errorf("Backend request failed: %v", err)
		return nil, err
	}
	fields["status"] = resp.StatusCode
	fields["elapsed"] = time.Since(start)
	log.WithFields(fields).Debug("Backend request completed")
	return resp, nil
}

func IsSuccess(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// Drain discards the rest of the body so the connection can be reused.
func Drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

func DecodeJSON(resp *http.Response, target any) error {
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
