package calendar_sync

import (
	"context"
	"sync"
	"time"

	"github.com/klokku/cleancal/internal/event_bus"
	"github.com/klokku/cleancal/internal/utils"
	"github.com/klokku/cleancal/pkg/calendar"
	"github.com/klokku/cleancal/pkg/display"
	"github.com/klokku/cleancal/pkg/session"
	log "github.com/sirupsen/logrus"
)

type State string

const (
	Unauthenticated State = "unauthenticated"
	Loading         State = "loading"
	Ready           State = "ready"
	Error           State = "error"
)

// Snapshot is a consistent view of the coordinator. Events is shared, not
// copied: a published event set is never modified afterwards.
type Snapshot struct {
	State    State
	Events   []display.DisplayEvent
	Err      error
	Version  uint64
	LastSync time.Time
}

// Coordinator owns the fetch-and-normalize pipeline. Refresh signals are
// coalesced into a single pending wake-up: any number of signals arriving
// while a fetch runs cause exactly one more fetch once it completes.
type Coordinator struct {
	client     calendar.Client
	store      session.Store
	normalizer *display.Normalizer
	clock      utils.Clock

	wake chan struct{}

	mu          sync.Mutex
	state       State
	events      []display.DisplayEvent
	lastErr     error
	lastSync    time.Time
	version     uint64
	generation  uint64
	fetchCancel context.CancelFunc
	stop        context.CancelFunc
	done        chan struct{}
	unsubscribe []func()
}

func NewCoordinator(client calendar.Client, store session.Store, normalizer *display.Normalizer, clock utils.Clock) *Coordinator {
	return &Coordinator{
		client:     client,
		store:      store,
		normalizer: normalizer,
		clock:      clock,
		wake:       make(chan struct{}, 1),
		state:      Unauthenticated,
	}
}

// Start runs the pipeline loop until Stop or ctx cancellation and subscribes
// to refresh and session events on bus. An initial refresh is queued so a
// stored session is picked up on start.
func (c *Coordinator) Start(ctx context.Context, bus *event_bus.EventBus) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	c.mu.Lock()
	c.stop = cancel
	c.done = done
	if bus != nil {
		c.unsubscribe = append(c.unsubscribe,
			event_bus.SubscribeTyped(bus, event_bus.RefreshRequestedType, func(e event_bus.EventT[event_bus.RefreshRequested]) error {
				log.Debugf("Refresh requested: %s", e.Data.Reason)
				c.Refresh()
				return nil
			}),
			event_bus.SubscribeTyped(bus, event_bus.SessionChangedType, func(e event_bus.EventT[event_bus.SessionChanged]) error {
				if e.Data.Authenticated {
					c.Refresh()
				} else {
					c.Reset()
				}
				return nil
			}),
		)
	}
	c.mu.Unlock()

	go c.loop(ctx, done)
	c.Refresh()
}

// Stop ends the loop. A fetch still in flight is cancelled and its result,
// should it arrive, is discarded.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	stop, done, unsubscribe := c.stop, c.done, c.unsubscribe
	c.stop, c.done, c.unsubscribe = nil, nil, nil
	c.invalidateLocked()
	c.mu.Unlock()

	for _, u := range unsubscribe {
		u()
	}
	if stop != nil {
		stop()
		<-done
	}
}

// Refresh signals that the merged view should be rebuilt. It never blocks.
func (c *Coordinator) Refresh() {
	select {
	case c.wake <- struct{}{}:
	default:
		// a wake-up is already pending and will observe the latest state
	}
}

// Reset drops the event set after logout.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidateLocked()
	c.state = Unauthenticated
	c.events = nil
	c.lastErr = nil
	c.version++
	log.Info("Session ended, calendar view cleared")
}

func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		State:    c.state,
		Events:   c.events,
		Err:      c.lastErr,
		Version:  c.version,
		LastSync: c.lastSync,
	}
}

func (c *Coordinator) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.wake:
			c.sync(ctx)
		}
	}
}

func (c *Coordinator) sync(ctx context.Context) {
	c.mu.Lock()
	generation := c.generation
	c.mu.Unlock()

	token, ok := c.store.Get(ctx).Get()
	if !ok {
		c.mu.Lock()
		if c.state != Unauthenticated || c.events != nil {
			c.state = Unauthenticated
			c.events = nil
			c.version++
		}
		c.mu.Unlock()
		log.Debug("No session, skipping calendar fetch")
		return
	}

	fetchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.mu.Lock()
	// a logout between the token read and here invalidates the token
	if generation != c.generation {
		c.mu.Unlock()
		log.Debug("Session ended while reading the token, skipping calendar fetch")
		return
	}
	c.fetchCancel = cancel
	c.state = Loading
	c.mu.Unlock()

	calendars, err := c.client.ListCalendars(fetchCtx, token)

	c.mu.Lock()
	defer c.mu.Unlock()
	if generation != c.generation || ctx.Err() != nil {
		log.Debug("Discarding calendar fetch result from an ended session")
		return
	}
	c.fetchCancel = nil
	if err != nil {
		log.Errorf("Calendar sync failed, keeping previous events: %v", err)
		c.state = Error
		c.lastErr = err
		return
	}

	c.events = c.normalizer.Normalize(calendars)
	c.state = Ready
	c.lastErr = nil
	c.lastSync = c.clock.Now()
	c.version++
	log.Infof("Calendar view refreshed: %d calendars, %d events", len(calendars), len(c.events))
}

// invalidateLocked makes any in-flight fetch result stale. c.mu must be held.
func (c *Coordinator) invalidateLocked() {
	c.generation++
	if c.fetchCancel != nil {
		c.fetchCancel()
		c.fetchCancel = nil
	}
}
