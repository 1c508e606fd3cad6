// Package analytics reports product events to PostHog.
package analytics

import (
	"github.com/google/uuid"
	"github.com/posthog/posthog-go"
	"go.trai.ch/firecast/internal/core/domain"
	"go.trai.ch/zerr"
)

// Event names.
const (
	EventExportResolved    = "export_resolved"
	EventPlaybackCompleted = "playback_completed"
)

// PostHog implements ports.Analytics. Events of one process share a random distinct id.
type PostHog struct {
	client     posthog.Client
	distinctID string
}

// NewPostHog creates a PostHog reporter for the given settings.
func NewPostHog(settings domain.AnalyticsSettings) (*PostHog, error) {
	client, err := posthog.NewWithConfig(settings.APIKey, posthog.Config{Endpoint: settings.Host})
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create posthog client"), "host", settings.Host)
	}
	return &PostHog{
		client:     client,
		distinctID: uuid.NewString(),
	}, nil
}

// Capture enqueues an event. Delivery is asynchronous and best effort.
func (p *PostHog) Capture(event string, properties map[string]any) {
	_ = p.client.Enqueue(posthog.Capture{
		DistinctId: p.distinctID,
		Event:      event,
		Properties: properties,
	})
}

// Close flushes pending events.
func (p *PostHog) Close() error {
	return p.client.Close()
}

// Noop discards every event. It is used when no API key is configured.
type Noop struct{}

// Capture does nothing.
func (Noop) Capture(string, map[string]any) {}

// Close does nothing.
func (Noop) Close() error { return nil }
