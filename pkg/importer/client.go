package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/klokku/cleancal/internal/backend"
	"github.com/klokku/cleancal/internal/errs"
	log "github.com/sirupsen/logrus"
)

// File is a user-selected calendar file.
type File struct {
	Name    string
	Content []byte
}

// Result is the backend's description of the created calendar. Its shape is
// not interpreted by this client.
type Result = json.RawMessage

type Client interface {
	ImportFile(ctx context.Context, token string, file File) (Result, error)     // POST /import-calendar
	ImportFromURL(ctx context.Context, token string, url string) (Result, error) // POST /import-from-url/
}

type ClientImpl struct {
	backend *backend.Backend
}

func NewClient(b *backend.Backend) *ClientImpl {
	return &ClientImpl{backend: b}
}

func (c *ClientImpl) ImportFile(ctx context.Context, token string, file File) (Result, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", file.Name)
	if err != nil {
		return nil, &errs.ImportError{Op: "upload file", Err: err}
	}
	if _, err := part.Write(file.Content); err != nil {
		return nil, &errs.ImportError{Op: "upload file", Err: err}
	}
	if err := writer.Close(); err != nil {
		return nil, &errs.ImportError{Op: "upload file", Err: err}
	}

	req, err := c.backend.NewRequest(ctx, http.MethodPost, "/import-calendar", &body, token)
	if err != nil {
		return nil, &errs.ImportError{Op: "upload file", Err: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.submit(req, "upload file")
}

func (c *ClientImpl) ImportFromURL(ctx context.Context, token string, url string) (Result, error) {
	payload, err := json.Marshal(struct {
		Url string `json:"url"`
	}{Url: url})
	if err != nil {
		return nil, &errs.ImportError{Op: "import url", Err: err}
	}

	req, err := c.backend.NewRequest(ctx, http.MethodPost, "/import-from-url/", bytes.NewReader(payload), token)
	if err != nil {
		return nil, &errs.ImportError{Op: "import url", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	return c.submit(req, "import url")
}

func (c *ClientImpl) submit(req *http.Request, op string) (Result, error) {
	resp, err := c.backend.Do(req)
	if err != nil {
		return nil, &errs.ImportError{Op: op, Err: err}
	}
	defer backend.Drain(resp)

	if !backend.IsSuccess(resp) {
		err := &errs.ImportError{Op: op, Status: resp.StatusCode, Err: errs.ErrUnexpectedStatus}
		log.Error(err)
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errs.ImportError{Op: op, Status: resp.StatusCode, Err: err}
	}
	return Result(data), nil
}
