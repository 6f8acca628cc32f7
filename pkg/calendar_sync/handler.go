package calendar_sync

import (
	"net/http"
	"time"

	"github.com/klokku/cleancal/internal/rest"
	"github.com/klokku/cleancal/pkg/display"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	coordinator *Coordinator
	csvRenderer *display.CsvRenderer
}

type StatusDTO struct {
	State     State      `json:"state"`
	Version   uint64     `json:"version"`
	Events    int        `json:"events"`
	LastSync  *time.Time `json:"lastSync,omitempty"`
	LastError string     `json:"lastError,omitempty"`
}

func NewHandler(coordinator *Coordinator, csvRenderer *display.CsvRenderer) *Handler {
	return &Handler{
		coordinator: coordinator,
		csvRenderer: csvRenderer,
	}
}

// GetEvents godoc
// @Summary Merged display events of all calendars
// @Tags Events
// @Produce json
// @Success 200 {array} display.DisplayEvent
// @Router /api/events [get]
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	snapshot := h.coordinator.Snapshot()
	events := snapshot.Events
	if events == nil {
		events = []display.DisplayEvent{}
	}
	rest.WriteJSON(w, http.StatusOK, events)
}

// GetEventsCsv godoc
// @Summary Merged display events as CSV
// @Tags Events
// @Produce text/csv
// @Success 200 {string} string "CSV"
// @Router /api/events.csv [get]
func (h *Handler) GetEventsCsv(w http.ResponseWriter, r *http.Request) {
	out, err := h.csvRenderer.Render(h.coordinator.Snapshot().Events)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=events.csv")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(out)); err != nil {
		log.Errorf("failed to write csv: %v", err)
	}
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	snapshot := h.coordinator.Snapshot()
	status := StatusDTO{
		State:   snapshot.State,
		Version: snapshot.Version,
		Events:  len(snapshot.Events),
	}
	if !snapshot.LastSync.IsZero() {
		status.LastSync = &snapshot.LastSync
	}
	if snapshot.Err != nil {
		status.LastError = snapshot.Err.Error()
	}
	rest.WriteJSON(w, http.StatusOK, status)
}

// Refresh queues a re-run of the pipeline and returns immediately.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.coordinator.Refresh()
	w.WriteHeader(http.StatusAccepted)
}
