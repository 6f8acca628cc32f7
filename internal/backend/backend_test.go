package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackend_NewRequest(t *testing.T) {
	var gotAuth, gotRequestId string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestId = r.Header.Get(RequestIdHeader)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()
	b := NewWithClient(srv.URL+"/", srv.Client())

	t.Run("should send bearer token and request id", func(t *testing.T) {
		req, err := b.NewRequest(context.Background(), http.MethodGet, "/calendars/", nil, "tok-1")
		require.NoError(t, err)

		resp, err := b.Do(req)
		require.NoError(t, err)
		defer Drain(resp)

		assert.True(t, IsSuccess(resp))
		assert.Equal(t, "Bearer tok-1", gotAuth)
		_, parseErr := uuid.Parse(gotRequestId)
		assert.NoError(t, parseErr)
	})

	t.Run("should omit authorization without token", func(t *testing.T) {
		req, err := b.NewRequest(context.Background(), http.MethodPost, "/token/", nil, "")
		require.NoError(t, err)

		resp, err := b.Do(req)
		require.NoError(t, err)
		defer Drain(resp)

		assert.Empty(t, gotAuth)
		assert.Equal(t, srv.URL+"/token/", b.URL("/token/"))
	})
}
