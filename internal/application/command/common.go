// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"

	"github.com/google/uuid"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/shared"
	"github.com/mentoria-hub/mentoria-hub/pkg/logger"
	"github.com/mentoria-hub/mentoria-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// SHARED HANDLER DEPENDENCIES
// ══════════════════════════════════════════════════════════════════════════════

// IDGenerator returns a new entity id.
type IDGenerator func() string

// NewID generates a random UUID string.
func NewID() string {
	return uuid.NewString()
}

// Runtime bundles the collaborators every handler needs besides its
// repositories. Zero fields fall back to defaults.
type Runtime struct {
	Clock     timeutil.Clock
	IDs       IDGenerator
	Publisher shared.EventPublisher
	Logger    *logger.Logger
}

func (r Runtime) withDefaults() Runtime {
	if r.Clock == nil {
		r.Clock = timeutil.Now
	}
	if r.IDs == nil {
		r.IDs = NewID
	}
	if r.Publisher == nil {
		r.Publisher = shared.NopPublisher{}
	}
	if r.Logger == nil {
		r.Logger = logger.Nop()
	}
	return r
}

// publish delivers events after the write committed. Failures are logged and
// never undo the command.
func (r Runtime) publish(ctx context.Context, events ...shared.Event) {
	for _, e := range events {
		if err := r.Publisher.Publish(ctx, e); err != nil {
			r.Logger.Warn("failed to publish event",
				logger.String("event_type", string(e.EventType())),
				logger.String("aggregate_id", e.AggregateID()),
				logger.Err(err),
			)
		}
	}
}
