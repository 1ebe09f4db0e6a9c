package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func TestNewEvent(t *testing.T) {
	event := NewAssignmentAssignedEvent(AssignmentAssignedEvent{AssignmentID: "a1", ClassID: "c1"})

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, EventAssignmentAssigned, event.Type)
	assert.Equal(t, "teacher-portal", event.Source)
	assert.Equal(t, "1.0", event.Version)
	assert.False(t, event.Timestamp.IsZero())

	other := NewAssignmentAssignedEvent(AssignmentAssignedEvent{})
	assert.NotEqual(t, event.ID, other.ID)
}

func TestWatermillEventPublisher_Publish(t *testing.T) {
	logger := testLogger()
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 1}, watermill.NewSlogLogger(logger))
	defer pubSub.Close()

	messages, err := pubSub.Subscribe(context.Background(), "assignments")
	require.NoError(t, err)

	publisher := NewWatermillEventPublisher(pubSub, "assignments", logger)
	event := NewAssignmentAssignedEvent(AssignmentAssignedEvent{
		AssignmentID: "a1",
		ClassID:      "c1",
		StudentIDs:   []string{"s1", "s2"},
	})

	require.NoError(t, publisher.Publish(context.Background(), event))

	select {
	case msg := <-messages:
		msg.Ack()
		assert.Equal(t, event.ID, msg.UUID)
		assert.Equal(t, string(EventAssignmentAssigned), msg.Metadata.Get("event_type"))
		assert.Equal(t, EventSource, msg.Metadata.Get("source"))

		var decoded struct {
			ID   string                  `json:"id"`
			Type EventType               `json:"type"`
			Data AssignmentAssignedEvent `json:"data"`
		}
		require.NoError(t, json.Unmarshal(msg.Payload, &decoded))
		assert.Equal(t, event.ID, decoded.ID)
		assert.Equal(t, []string{"s1", "s2"}, decoded.Data.StudentIDs)
	case <-time.After(2 * time.Second):
		t.Fatal("message was not delivered")
	}
}

func TestMockEventPublisher(t *testing.T) {
	publisher := NewMockEventPublisher(testLogger())
	ctx := context.Background()

	require.NoError(t, publisher.Publish(ctx, NewAssignmentDraftSavedEvent(AssignmentDraftSavedEvent{AssignmentID: "a1"})))
	events := publisher.GetPublishedEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventAssignmentDraftSaved, events[0].Type)

	publisher.ClearEvents()
	assert.Empty(t, publisher.GetPublishedEvents())

	publisher.Err = errors.New("broker down")
	assert.Error(t, publisher.Publish(ctx, NewEvent(EventAssignmentAssigned, nil)))
	assert.Empty(t, publisher.GetPublishedEvents())
}
