package audit

import (
	"context"
	"errors"
	"log/slog"
)

// ErrBufferFull is returned by Worker.Append when the inbox is saturated.
var ErrBufferFull = errors.New("audit buffer full")

// Worker decouples request handling from a slow sink. Append enqueues without
// blocking; Run drains the inbox into the sink until ctx is cancelled and then
// flushes whatever is still queued.
type Worker struct {
	sink   Store
	inbox  chan Event
	logger *slog.Logger
}

func NewWorker(sink Store, buffer int, logger *slog.Logger) *Worker {
	if buffer <= 0 {
		buffer = 1024
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{sink: sink, inbox: make(chan Event, buffer), logger: logger}
}

// Append queues event for delivery.
func (w *Worker) Append(_ context.Context, event Event) error {
	select {
	case w.inbox <- event:
		return nil
	default:
		return ErrBufferFull
	}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return ctx.Err()
		case event := <-w.inbox:
			w.deliver(ctx, event)
		}
	}
}

func (w *Worker) drain() {
	ctx := context.Background()
	for {
		select {
		case event := <-w.inbox:
			w.deliver(ctx, event)
		default:
			return
		}
	}
}

func (w *Worker) deliver(ctx context.Context, event Event) {
	if err := w.sink.Append(ctx, event); err != nil {
		w.logger.ErrorContext(ctx, "failed to deliver audit event",
			"event_id", event.ID,
			"event_type", string(event.Type),
			"error", err,
		)
	}
}
