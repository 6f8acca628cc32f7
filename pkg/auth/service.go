package auth

import (
	"context"
	"fmt"

	"github.com/klokku/cleancal/internal/event_bus"
	"github.com/klokku/cleancal/pkg/session"
	log "github.com/sirupsen/logrus"
)

// Service ties the credential exchange to the session store. It is the only
// writer of the session token.
type Service struct {
	client          Client
	store           session.Store
	bus             *event_bus.EventBus
	adoptOnRegister bool
}

func NewService(client Client, store session.Store, bus *event_bus.EventBus, adoptOnRegister bool) *Service {
	return &Service{
		client:          client,
		store:           store,
		bus:             bus,
		adoptOnRegister: adoptOnRegister,
	}
}

func (s *Service) Login(ctx context.Context, credentials Credentials) error {
	if err := credentials.Validate(); err != nil {
		log.Debugf("login rejected locally: %v", err)
		return err
	}
	token, err := s.client.Login(ctx, credentials)
	if err != nil {
		return err
	}
	return s.adopt(ctx, token)
}

// Register creates the account and reports whether the returned token was
// adopted as the live session.
func (s *Service) Register(ctx context.Context, credentials Credentials) (bool, error) {
	if err := credentials.Validate(); err != nil {
		log.Debugf("registration rejected locally: %v", err)
		return false, err
	}
	token, err := s.client.Register(ctx, credentials)
	if err != nil {
		return false, err
	}
	if !s.adoptOnRegister {
		log.Infof("User %s registered, explicit login required", credentials.Username)
		return false, nil
	}
	if token == "" {
		log.Debug("Registration returned no token, logging in")
		token, err = s.client.Login(ctx, credentials)
		if err != nil {
			log.Warnf("User %s registered but the follow-up login failed: %v", credentials.Username, err)
			return false, nil
		}
	}
	if err := s.adopt(ctx, token); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) Logout(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.publish(ctx, false)
	return nil
}

func (s *Service) adopt(ctx context.Context, token string) error {
	if err := s.store.Set(ctx, token); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	s.publish(ctx, true)
	return nil
}

func (s *Service) publish(ctx context.Context, authenticated bool) {
	event := event_bus.NewEvent(ctx, event_bus.SessionChangedType, event_bus.SessionChanged{Authenticated: authenticated})
	if err := s.bus.Publish(event); err != nil {
		log.Errorf("failed to publish session change: %v", err)
	}
}
