package auth

import (
	"encoding/json"
	"net/http"

	"github.com/klokku/cleancal/internal/errs"
	"github.com/klokku/cleancal/internal/rest"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service *Service
}

type registerResponse struct {
	Registered bool `json:"registered"`
	LoggedIn   bool `json:"loggedIn"`
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// LoginForm godoc
// @Summary Login entry point
// @Description Reached only without a session; the route guard redirects authenticated users away.
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /login [get]
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, map[string]bool{"authenticated": false})
}

// Login godoc
// @Summary Log in
// @Tags Auth
// @Accept json
// @Param credentials body Credentials true "Credentials"
// @Success 204
// @Failure 400 {object} rest.ErrorResponse "Credentials too short"
// @Failure 401 {object} rest.ErrorResponse "Rejected by backend"
// @Router /login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	credentials, err := decodeCredentials(r)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	if err := h.service.Login(r.Context(), credentials); err != nil {
		rest.WriteError(w, err)
		return
	}
	log.Infof("User %s logged in", credentials.Username)
	w.WriteHeader(http.StatusNoContent)
}

// Register godoc
// @Summary Register a new account
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body Credentials true "Credentials"
// @Success 201 {object} registerResponse
// @Failure 400 {object} rest.ErrorResponse "Credentials too short"
// @Router /register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	credentials, err := decodeCredentials(r)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	adopted, err := h.service.Register(r.Context(), credentials)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, registerResponse{Registered: true, LoggedIn: adopted})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context()); err != nil {
		rest.WriteError(w, err)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func decodeCredentials(r *http.Request) (Credentials, error) {
	var credentials Credentials
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		return Credentials{}, errs.Validation("Invalid credentials payload: %v", err)
	}
	return credentials, nil
}
