package importer

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/klokku/cleancal/internal/errs"
	"github.com/klokku/cleancal/internal/rest"
	log "github.com/sirupsen/logrus"
)

const maxUploadSize = 10 << 20

type Handler struct {
	service *Service
}

type urlImportRequest struct {
	Url string `json:"url"`
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ImportFile godoc
// @Summary Upload an ICS file
// @Tags Import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "ICS file"
// @Success 201 {object} object "Backend import result"
// @Failure 400 {object} rest.ErrorResponse "No file selected"
// @Failure 502 {object} rest.ErrorResponse "Backend rejected the file"
// @Router /api/import/file [post]
func (h *Handler) ImportFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, err := readUpload(r)
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	result, err := h.service.ImportFile(r.Context(), file)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	writeResult(w, result)
}

// ImportFromURL godoc
// @Summary Import a calendar from a URL
// @Tags Import
// @Accept json
// @Produce json
// @Param request body urlImportRequest true "Calendar URL"
// @Success 201 {object} object "Backend import result"
// @Failure 400 {object} rest.ErrorResponse "Empty URL"
// @Failure 502 {object} rest.ErrorResponse "Backend could not import the URL"
// @Router /api/import/url [post]
func (h *Handler) ImportFromURL(w http.ResponseWriter, r *http.Request) {
	var request urlImportRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		rest.WriteError(w, errs.Validation("Invalid import request: %v", err))
		return
	}

	result, err := h.service.ImportFromURL(r.Context(), request.Url)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	writeResult(w, result)
}

// readUpload returns nil when the form carries no file, leaving the
// "no file selected" decision to the service.
func readUpload(r *http.Request) (*File, error) {
	formFile, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Validation("Invalid upload: %v", err)
	}
	defer formFile.Close()

	content, err := io.ReadAll(formFile)
	if err != nil {
		return nil, errs.Validation("Invalid upload: %v", err)
	}
	return &File{Name: header.Filename, Content: content}, nil
}

// writeResult relays the backend's answer. Anything that is not JSON is
// replaced by an empty object.
func writeResult(w http.ResponseWriter, result Result) {
	if !json.Valid(result) {
		if len(result) > 0 {
			log.Warnf("import result is not JSON, dropping %d bytes", len(result))
		}
		result = Result("{}")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(result)
}
