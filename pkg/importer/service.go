package importer

import (
	"bytes"
	"context"
	"strings"
	"sync"

	"github.com/emersion/go-ical"
	"github.com/klokku/cleancal/internal/errs"
	"github.com/klokku/cleancal/internal/event_bus"
	"github.com/klokku/cleancal/pkg/session"
	log "github.com/sirupsen/logrus"
)

const (
	ReasonImportFile = "import-file"
	ReasonImportURL  = "import-url"
)

// Service validates import input, submits it with the current session and
// emits one refresh signal per successful import.
type Service struct {
	client Client
	store  session.Store
	bus    *event_bus.EventBus

	mu       sync.Mutex
	inFlight map[string]bool
}

func NewService(client Client, store session.Store, bus *event_bus.EventBus) *Service {
	return &Service{
		client:   client,
		store:    store,
		bus:      bus,
		inFlight: make(map[string]bool),
	}
}

// ImportFile uploads file. A nil or empty file is rejected before any request.
func (s *Service) ImportFile(ctx context.Context, file *File) (Result, error) {
	const op = "upload file"
	if file == nil || len(file.Content) == 0 {
		return nil, &errs.ImportError{Op: op, Err: errs.Validation("Please select a file before uploading.")}
	}
	if _, err := ical.NewDecoder(bytes.NewReader(file.Content)).Decode(); err != nil {
		log.Debugf("rejecting upload %s: %v", file.Name, err)
		return nil, &errs.ImportError{Op: op, Err: errs.Validation("%s is not a valid iCalendar file.", file.Name)}
	}

	return s.submit(ctx, op, ReasonImportFile, func(token string) (Result, error) {
		return s.client.ImportFile(ctx, token, *file)
	})
}

// ImportFromURL asks the backend to fetch and ingest url.
func (s *Service) ImportFromURL(ctx context.Context, url string) (Result, error) {
	const op = "import url"
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, &errs.ImportError{Op: op, Err: errs.Validation("Please enter a URL before submitting.")}
	}

	return s.submit(ctx, op, ReasonImportURL, func(token string) (Result, error) {
		return s.client.ImportFromURL(ctx, token, url)
	})
}

func (s *Service) submit(ctx context.Context, op, reason string, call func(token string) (Result, error)) (Result, error) {
	token, ok := s.store.Get(ctx).Get()
	if !ok {
		return nil, errs.ErrNoSession
	}
	if !s.begin(op) {
		return nil, &errs.ImportError{Op: op, Err: errs.Validation("An import is already in progress.")}
	}
	defer s.end(op)

	result, err := call(token)
	if err != nil {
		return nil, err
	}

	log.Infof("Calendar imported (%s)", reason)
	event := event_bus.NewEvent(ctx, event_bus.RefreshRequestedType, event_bus.RefreshRequested{Reason: reason})
	if err := s.bus.Publish(event); err != nil {
		log.Errorf("failed to publish refresh after %s: %v", op, err)
	}
	return result, nil
}

// begin marks op as running; a second submission of the same kind while the
// first is outstanding is refused.
func (s *Service) begin(op string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[op] {
		return false
	}
	s.inFlight[op] = true
	return true
}

func (s *Service) end(op string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, op)
}
