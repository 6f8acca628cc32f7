package app

import (
	"time"

	"github.com/klokku/cleancal/internal/backend"
	"github.com/klokku/cleancal/internal/config"
	"github.com/klokku/cleancal/internal/event_bus"
	"github.com/klokku/cleancal/internal/utils"
	"github.com/klokku/cleancal/pkg/auth"
	"github.com/klokku/cleancal/pkg/calendar"
	"github.com/klokku/cleancal/pkg/calendar_sync"
	"github.com/klokku/cleancal/pkg/display"
	"github.com/klokku/cleancal/pkg/guard"
	"github.com/klokku/cleancal/pkg/importer"
	"github.com/klokku/cleancal/pkg/session"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Backend      *backend.Backend
	SessionStore session.Store
	EventBus     *event_bus.EventBus
	Routes       guard.Routes

	AuthClient  auth.Client
	AuthService *auth.Service
	AuthHandler *auth.Handler

	CalendarClient  calendar.Client
	Exporter        *calendar.Exporter
	CalendarHandler *calendar.Handler

	ImportClient  importer.Client
	ImportService *importer.Service
	ImportHandler *importer.Handler

	Normalizer  *display.Normalizer
	CsvRenderer *display.CsvRenderer
	Coordinator *calendar_sync.Coordinator
	Scheduler   *calendar_sync.Scheduler
	SyncHandler *calendar_sync.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{}

	deps.Backend = backend.New(cfg.Backend)
	store, err := session.NewStore(cfg.Session)
	if err != nil {
		return nil, err
	}
	deps.SessionStore = store
	deps.EventBus = event_bus.NewEventBus()
	deps.Routes = guard.Routes{Login: "/login", Home: "/"}

	deps.AuthClient = auth.NewClient(deps.Backend, cfg.Backend.RegisterPath)
	deps.AuthService = auth.NewService(deps.AuthClient, deps.SessionStore, deps.EventBus, cfg.Auth.AdoptOnRegister)
	deps.AuthHandler = auth.NewHandler(deps.AuthService)

	deps.CalendarClient = calendar.NewClient(deps.Backend)
	deps.Exporter = calendar.NewExporter(deps.CalendarClient, deps.SessionStore, cfg.Export.Dir)
	deps.CalendarHandler = calendar.NewHandler(deps.Exporter)

	deps.ImportClient = importer.NewClient(deps.Backend)
	deps.ImportService = importer.NewService(deps.ImportClient, deps.SessionStore, deps.EventBus)
	deps.ImportHandler = importer.NewHandler(deps.ImportService)

	deps.Clock = &utils.SystemClock{}
	deps.Normalizer = display.NewNormalizer(time.Local)
	deps.CsvRenderer = display.NewCsvRenderer()
	deps.Coordinator = calendar_sync.NewCoordinator(deps.CalendarClient, deps.SessionStore, deps.Normalizer, deps.Clock)
	deps.SyncHandler = calendar_sync.NewHandler(deps.Coordinator, deps.CsvRenderer)
	deps.Scheduler, err = calendar_sync.NewScheduler(cfg.Sync.Schedule, deps.EventBus)
	if err != nil {
		return nil, err
	}

	return deps, nil
}
