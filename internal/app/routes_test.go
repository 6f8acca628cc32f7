package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/klokku/cleancal/internal/backend"
	"github.com/klokku/cleancal/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) *mux.Router {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token/":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-1", "token_type": "bearer"})
		case "/calendars/":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("[]"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(upstream.Close)

	cfg := config.Defaults()
	cfg.Backend.BaseURL = upstream.URL
	cfg.Session.Backend = "memory"
	cfg.Export.Dir = t.TempDir()

	deps, err := BuildDependencies(cfg)
	require.NoError(t, err)

	r := mux.NewRouter()
	SetupMiddleware(r)
	RegisterRoutes(r, deps)
	return r
}

func serve(r *mux.Router, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestRoutes_SessionLifecycle(t *testing.T) {
	r := setupRouter(t)

	t.Run("should redirect protected routes to login without session", func(t *testing.T) {
		for _, path := range []string{"/", "/api/events", "/api/status", "/api/calendars/1/export"} {
			rr := serve(r, http.MethodGet, path, "")

			assert.Equal(t, http.StatusSeeOther, rr.Code, path)
			assert.Equal(t, "/login", rr.Header().Get("Location"), path)
		}
	})

	t.Run("should show login entry without session", func(t *testing.T) {
		rr := serve(r, http.MethodGet, "/login", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.NotEmpty(t, rr.Header().Get(backend.RequestIdHeader))
	})

	t.Run("should reject short credentials", func(t *testing.T) {
		rr := serve(r, http.MethodPost, "/login", `{"username":"ab","password":"secret"}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("should log in and reach protected routes", func(t *testing.T) {
		rr := serve(r, http.MethodPost, "/login", `{"username":"alice","password":"secret"}`)
		require.Equal(t, http.StatusNoContent, rr.Code)

		events := serve(r, http.MethodGet, "/api/events", "")
		assert.Equal(t, http.StatusOK, events.Code)
		assert.JSONEq(t, "[]", events.Body.String())

		login := serve(r, http.MethodGet, "/login", "")
		assert.Equal(t, http.StatusSeeOther, login.Code)
		assert.Equal(t, "/", login.Header().Get("Location"))
	})

	t.Run("should drop session on logout", func(t *testing.T) {
		rr := serve(r, http.MethodPost, "/logout", "")
		require.Equal(t, http.StatusSeeOther, rr.Code)

		events := serve(r, http.MethodGet, "/api/events", "")
		assert.Equal(t, http.StatusSeeOther, events.Code)
	})
}
