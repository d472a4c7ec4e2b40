package stream

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intellimulti/chat-backend/internal/entity"
)

// stubSource replays scripted fragments, then a final error (io.EOF for
// a clean finish).
type stubSource struct {
	fragments []string
	finalErr  error
	pos       int
	closed    bool
	blockOn   chan struct{} // when set, Recv blocks after the script runs out
}

func (s *stubSource) Recv() (*entity.TextFragment, error) {
	if s.pos < len(s.fragments) {
		frag := &entity.TextFragment{Content: s.fragments[s.pos]}
		s.pos++
		return frag, nil
	}
	if s.blockOn != nil {
		<-s.blockOn
	}
	if s.finalErr != nil {
		return nil, s.finalErr
	}
	return nil, io.EOF
}

func (s *stubSource) Close() error {
	s.closed = true
	if s.blockOn != nil {
		select {
		case <-s.blockOn:
		default:
			close(s.blockOn)
		}
	}
	return nil
}

func collect(t *testing.T, events <-chan entity.StreamEvent) []entity.StreamEvent {
	t.Helper()
	var out []entity.StreamEvent
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return out
			}
			out = append(out, ev)
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for stream events")
		}
	}
}

func TestRelay_DeltasThenComplete(t *testing.T) {
	src := &stubSource{fragments: []string{"Hello", " world", "!"}}
	relay := NewRelay(entity.Corpus{})

	events := collect(t, relay.Run(context.Background(), src))

	require.Len(t, events, 4)
	for i, want := range []string{"Hello", " world", "!"} {
		assert.Equal(t, entity.EventContentDelta, events[i].Type)
		assert.Equal(t, want, events[i].Content)
	}

	final := events[3]
	assert.Equal(t, entity.EventMessageComplete, final.Type)
	assert.Equal(t, "Hello world!", final.FullContent)
	assert.NotNil(t, final.References)
	assert.Empty(t, final.References)

	assert.Equal(t, StateCompleted, relay.State())
	assert.True(t, src.closed)
}

func TestRelay_ErrorAfterPartialOutput(t *testing.T) {
	src := &stubSource{
		fragments: []string{"Partial"},
		finalErr:  errors.New("provider connection reset"),
	}
	relay := NewRelay(entity.Corpus{})

	events := collect(t, relay.Run(context.Background(), src))

	require.Len(t, events, 2)
	assert.Equal(t, entity.EventContentDelta, events[0].Type)
	assert.Equal(t, "Partial", events[0].Content)

	assert.Equal(t, entity.EventError, events[1].Type)
	assert.Contains(t, events[1].Error, "connection reset")

	// No message_complete after an error; the error event is terminal.
	for _, ev := range events {
		assert.NotEqual(t, entity.EventMessageComplete, ev.Type)
	}
	assert.Equal(t, StateFailed, relay.State())
	assert.True(t, src.closed)
}

func TestRelay_EmptyStreamStillCompletes(t *testing.T) {
	src := &stubSource{}
	relay := NewRelay(entity.Corpus{})

	events := collect(t, relay.Run(context.Background(), src))

	require.Len(t, events, 1)
	assert.Equal(t, entity.EventMessageComplete, events[0].Type)
	assert.Equal(t, "", events[0].FullContent)
}

func TestRelay_EmptyFragmentsNotEmitted(t *testing.T) {
	src := &stubSource{fragments: []string{"", "visible", ""}}
	relay := NewRelay(entity.Corpus{})

	events := collect(t, relay.Run(context.Background(), src))

	require.Len(t, events, 2)
	assert.Equal(t, "visible", events[0].Content)
	assert.Equal(t, entity.EventMessageComplete, events[1].Type)
	assert.Equal(t, "visible", events[1].FullContent)
}

func TestRelay_ResolvesReferencesOnComplete(t *testing.T) {
	corpus := entity.Corpus{
		Filename: "doc.pdf",
		Chunks: []entity.DocumentChunk{
			{
				ID:      "doc.pdf_0",
				Content: "the sky appears blue due to Rayleigh scattering",
				Metadata: entity.ChunkMetadata{
					Source: "doc.pdf", ChunkIndex: 0, TotalChunks: 1,
					PageNumber: 1, ReferenceID: "[1]", SourceInfo: "doc.pdf - page 1",
				},
			},
		},
	}
	src := &stubSource{fragments: []string{"The sky is blue ", "[0] as documented."}}
	relay := NewRelay(corpus)

	events := collect(t, relay.Run(context.Background(), src))

	final := events[len(events)-1]
	require.Equal(t, entity.EventMessageComplete, final.Type)
	require.Len(t, final.References, 1)
	assert.Equal(t, 0, final.References[0].ID)
	assert.Equal(t, "doc.pdf", final.References[0].Source)
}

func TestRelay_CancelAbortsSource(t *testing.T) {
	src := &stubSource{
		fragments: []string{"before cancel"},
		blockOn:   make(chan struct{}),
	}
	relay := NewRelay(entity.Corpus{})

	ctx, cancel := context.WithCancel(context.Background())
	events := relay.Run(ctx, src)

	// Drain the first delta, then drop the connection.
	first := <-events
	assert.Equal(t, "before cancel", first.Content)
	cancel()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				assert.True(t, src.closed, "model call must be aborted on cancel")
				assert.Equal(t, StateFailed, relay.State())
				return
			}
		case <-deadline:
			t.Fatal("relay did not stop after cancellation")
		}
	}
}
