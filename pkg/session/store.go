package session

import (
	"context"
	"fmt"

	"github.com/klokku/cleancal/internal/config"
	"github.com/samber/mo"
)

// Store keeps the single live session token of this client. Implementations
// never fail a read: an unreadable store is reported as an absent token so
// the client falls back to the logged-out state.
type Store interface {
	Get(ctx context.Context) mo.Option[string]
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// NewStore builds the store selected by cfg.Backend.
func NewStore(cfg config.Session) (Store, error) {
	switch cfg.Backend {
	case "", "file":
		return NewFileStore(cfg.Path, cfg.Key), nil
	case "memory":
		return NewMemoryStore(), nil
	case "redis":
		return NewRedisStoreFromConfig(cfg.Redis, cfg.Key), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}
}

func tokenOption(token string) mo.Option[string] {
	if token == "" {
		return mo.None[string]()
	}
	return mo.Some(token)
}
