package calendar_sync

import (
	"context"
	"fmt"

	"github.com/klokku/cleancal/internal/event_bus"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

const ReasonSchedule = "schedule"

// Scheduler emits refresh signals on a cron schedule, for users who import
// calendars by URL and want upstream changes to show up without clicking.
type Scheduler struct {
	cron *cron.Cron
	spec string
}

// NewScheduler returns nil when spec is empty.
func NewScheduler(spec string, bus *event_bus.EventBus) (*Scheduler, error) {
	if spec == "" {
		return nil, nil
	}
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		event := event_bus.NewEvent(context.Background(), event_bus.RefreshRequestedType, event_bus.RefreshRequested{Reason: ReasonSchedule})
		if err := bus.Publish(event); err != nil {
			log.Errorf("scheduled refresh failed: %v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid sync schedule %q: %w", spec, err)
	}
	return &Scheduler{cron: c, spec: spec}, nil
}

func (s *Scheduler) Start() {
	if s == nil {
		return
	}
	s.cron.Start()
	log.Infof("Periodic calendar refresh scheduled (%s)", s.spec)
}

func (s *Scheduler) Stop() {
	if s == nil {
		return
	}
	<-s.cron.Stop().Done()
}
