package app

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/klokku/cleancal/pkg/guard"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {
	guarded := guard.Middleware(deps.SessionStore, deps.Routes)

	// Auth
	r.Handle(deps.Routes.Login, guarded(http.HandlerFunc(deps.AuthHandler.LoginForm))).Methods("GET")
	r.HandleFunc(deps.Routes.Login, deps.AuthHandler.Login).Methods("POST")
	r.HandleFunc("/register", deps.AuthHandler.Register).Methods("POST")
	r.HandleFunc("/logout", deps.AuthHandler.Logout).Methods("POST")

	// Home
	r.Handle(deps.Routes.Home, guarded(http.HandlerFunc(deps.SyncHandler.GetStatus))).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(guarded)

	// Events
	api.HandleFunc("/events", deps.SyncHandler.GetEvents).Methods("GET")
	api.HandleFunc("/events.csv", deps.SyncHandler.GetEventsCsv).Methods("GET")
	api.HandleFunc("/status", deps.SyncHandler.GetStatus).Methods("GET")
	api.HandleFunc("/refresh", deps.SyncHandler.Refresh).Methods("POST")

	// Calendars
	api.HandleFunc("/calendars/{calendarId}/export", deps.CalendarHandler.ExportCalendar).Methods("GET")
	api.HandleFunc("/calendars/{calendarId}/save", deps.CalendarHandler.SaveCalendar).Methods("POST")

	// Import
	api.HandleFunc("/import/file", deps.ImportHandler.ImportFile).Methods("POST")
	api.HandleFunc("/import/url", deps.ImportHandler.ImportFromURL).Methods("POST")
}
