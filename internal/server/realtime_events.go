package server

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/GenkiNakashima/systemst/internal/middleware"
	"github.com/GenkiNakashima/systemst/internal/observability"
)

// Event type constants prevent typos in event names.
const (
	EventPostCreated         = "post_created"
	EventPostDeleted         = "post_deleted"
	EventPostReactionUpdated = "post_reaction_updated"
	EventReplyCreated        = "reply_created"
)

type feedEvent struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

// publishBroadcastEvent fans an event out to every feed connection. With
// Redis the local hub receives it through its own subscription, so it is only
// delivered directly when there is no notifier.
func (s *Server) publishBroadcastEvent(ctx context.Context, eventType string, payload map[string]any) {
	eventJSON, err := json.Marshal(feedEvent{Type: eventType, Payload: payload})
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to marshal feed event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
		return
	}
	message := string(eventJSON)
	observability.FeedEventsTotal.WithLabelValues(eventType).Inc()

	if s.notifier != nil && s.notifier.Enabled() {
		// detached from the request so a client disconnect does not drop the event
		err := s.notifier.PublishBroadcast(context.WithoutCancel(ctx), message)
		if err == nil {
			return
		}
		middleware.Logger.WarnContext(ctx, "failed to publish feed event, delivering locally",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
	}
	if s.hub != nil {
		s.hub.BroadcastAll(message)
	}
}
