package audit

import (
	"context"

	"github.com/google/uuid"

	"abacus/pkg/requestcontext"
)

// Store persists or forwards events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Publisher stamps events with an id, the request time and the caller's
// address before handing them to a store, so sinks never see partially filled
// events. Every event of one request shares the same timestamp.
type Publisher struct {
	store Store
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx).UTC()
	}
	if event.ClientIP == "" {
		event.ClientIP = requestcontext.ClientIP(ctx)
	}
	return p.store.Append(ctx, event)
}
