package calendar

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/klokku/cleancal/internal/errs"
	"github.com/klokku/cleancal/internal/rest"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	exporter *Exporter
}

type savedExport struct {
	Path string `json:"path"`
}

func NewHandler(exporter *Exporter) *Handler {
	return &Handler{exporter: exporter}
}

// ExportCalendar godoc
// @Summary Download the original ICS file of a calendar
// @Tags Calendar
// @Produce text/calendar
// @Param calendarId path int true "Calendar id"
// @Success 200 {file} file "calendar_<id>.ics"
// @Failure 400 {object} rest.ErrorResponse "Invalid calendar id"
// @Failure 502 {object} rest.ErrorResponse "Backend refused the export"
// @Router /api/calendars/{calendarId}/export [get]
func (h *Handler) ExportCalendar(w http.ResponseWriter, r *http.Request) {
	id, err := calendarId(r)
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	export, err := h.exporter.Export(r.Context(), id)
	if err != nil {
		log.Errorf("failed to export calendar %d: %v", id, err)
		rest.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar")
	w.Header().Set("Content-Disposition", "attachment; filename="+export.FileName)
	w.Header().Set("Content-Length", strconv.Itoa(len(export.Content)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(export.Content); err != nil {
		log.Errorf("failed to write export of calendar %d: %v", id, err)
	}
}

// SaveCalendar godoc
// @Summary Save the ICS file of a calendar into the export directory
// @Tags Calendar
// @Produce json
// @Param calendarId path int true "Calendar id"
// @Success 201 {object} savedExport
// @Failure 400 {object} rest.ErrorResponse "Invalid calendar id"
// @Failure 502 {object} rest.ErrorResponse "Backend refused the export"
// @Router /api/calendars/{calendarId}/save [post]
func (h *Handler) SaveCalendar(w http.ResponseWriter, r *http.Request) {
	id, err := calendarId(r)
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	path, err := h.exporter.SaveTo(r.Context(), id)
	if err != nil {
		log.Errorf("failed to save calendar %d: %v", id, err)
		rest.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, savedExport{Path: path})
}

func calendarId(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["calendarId"])
	if err != nil {
		return 0, errs.Validation("Invalid calendar id: calendar id must be an integer")
	}
	return id, nil
}
