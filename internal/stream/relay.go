package stream

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/intellimulti/chat-backend/internal/entity"
	"github.com/intellimulti/chat-backend/internal/reference"
)

// FragmentSource yields incremental generation fragments from the model.
// Recv blocks until the next fragment arrives, returns io.EOF on normal
// exhaustion, or any other error when the underlying call fails. A
// source is not restartable. Close aborts the underlying call, unblocks
// a pending Recv, and must be safe to call more than once.
type FragmentSource interface {
	Recv() (*entity.TextFragment, error)
	Close() error
}

// State is the relay lifecycle state.
type State int32

const (
	StateIdle State = iota
	StateStreaming
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStreaming:
		return "streaming"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Relay consumes a fragment source and emits framed stream events in
// arrival order: zero or more content_delta events followed by exactly
// one terminal event (message_complete or error). A Relay serves a
// single request turn; its accumulator is touched only by Run's
// goroutine. The corpus, when present, is consulted read-only for
// reference extraction once the stream completes.
type Relay struct {
	corpus entity.Corpus
	state  State
	full   strings.Builder
}

// NewRelay creates a relay for one turn. Pass a zero Corpus when no
// document was ingested; the terminal event then carries no references.
func NewRelay(corpus entity.Corpus) *Relay {
	return &Relay{corpus: corpus, state: StateIdle}
}

// State reports the relay lifecycle state. Completed and Failed are
// final.
func (r *Relay) State() State { return r.state }

// Run consumes src until exhaustion, failure, or context cancellation,
// and returns the event sequence as a channel that closes after the
// terminal event. Fragments with empty content are skipped.
// On cancellation the source is closed to abort the model
// call and the channel closes without a terminal event: the client is
// gone and must not receive a partial completion.
func (r *Relay) Run(ctx context.Context, src FragmentSource) <-chan entity.StreamEvent {
	events := make(chan entity.StreamEvent)

	go func() {
		defer close(events)
		defer src.Close()

		// Abort the model call as soon as the client goes away so a
		// blocked Recv returns instead of hanging.
		done := make(chan struct{})
		defer close(done)
		go func() {
			select {
			case <-ctx.Done():
				src.Close()
			case <-done:
			}
		}()

		r.state = StateStreaming

		for {
			frag, err := src.Recv()

			if ctx.Err() != nil {
				ctxzap.Info(ctx, "stream cancelled, aborting model call",
					zap.Int("accumulated_len", r.full.Len()))
				r.state = StateFailed
				return
			}

			if err != nil {
				if errors.Is(err, io.EOF) {
					r.complete(ctx, events)
				} else {
					r.fail(ctx, events, err)
				}
				return
			}

			if frag == nil || frag.Content == "" {
				continue
			}

			r.full.WriteString(frag.Content)
			if !r.send(ctx, events, entity.NewContentDelta(frag.Content)) {
				r.state = StateFailed
				return
			}
		}
	}()

	return events
}

// complete emits the single message_complete terminal event, resolving
// references against the corpus.
func (r *Relay) complete(ctx context.Context, events chan<- entity.StreamEvent) {
	full := r.full.String()
	refs := reference.Extract(full, r.corpus)

	ctxzap.Info(ctx, "model stream completed",
		zap.Int("content_len", len(full)),
		zap.Int("reference_count", len(refs)),
	)

	r.send(ctx, events, entity.NewMessageComplete(full, refs))
	r.state = StateCompleted
}

// fail converts a mid-stream failure into the single error terminal
// event; errors never propagate past the relay boundary.
func (r *Relay) fail(ctx context.Context, events chan<- entity.StreamEvent, err error) {
	ctxzap.Error(ctx, "model stream failed", zap.Error(err))

	r.send(ctx, events, entity.NewStreamError(err.Error()))
	r.state = StateFailed
}

// send delivers an event unless the consumer went away.
func (r *Relay) send(ctx context.Context, events chan<- entity.StreamEvent, ev entity.StreamEvent) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
