package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

// EntityEvent is the payload posted to the automation webhook whenever a
// catalog entity is created.
type EntityEvent struct {
	EntityType string                 `json:"entity_type"` // Theme, Instrument, Version, Event
	EntityID   string                 `json:"entity_id"`
	Action     string                 `json:"action"` // always "created" for now
	Data       map[string]interface{} `json:"data"`
}

// WebhookDispatcher delivers entity-created events to n8n. Publishing never
// blocks the write path: events go through a buffered channel and a single
// worker goroutine; delivery failures are logged and dropped.
type WebhookDispatcher struct {
	URL        string
	Enabled    bool
	HTTPClient *http.Client

	events chan EntityEvent
}

func NewWebhookDispatcher() *WebhookDispatcher {
	url := os.Getenv("N8N_WEBHOOK_URL")
	if url == "" {
		url = "http://localhost:5678/webhook/sheet-api-created"
	}
	enabled := os.Getenv("WEBHOOK_ENABLED") != "false"

	return &WebhookDispatcher{
		URL:     url,
		Enabled: enabled,
		HTTPClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		events: make(chan EntityEvent, 64),
	}
}

// Publish queues an entity-created event. If the queue is full the event is
// dropped with a log line rather than stalling the caller.
func (d *WebhookDispatcher) Publish(entityType, entityID string, data map[string]interface{}) {
	if !d.Enabled {
		return
	}

	event := EntityEvent{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     "created",
		Data:       data,
	}

	select {
	case d.events <- event:
	default:
		log.Printf("⚠️  Webhook queue full, dropping %s event for %s", entityType, entityID)
	}
}

// Run consumes the event queue until the context is cancelled.
func (d *WebhookDispatcher) Run(ctx context.Context) {
	log.Println("Starting webhook dispatcher...")
	for {
		select {
		case <-ctx.Done():
			log.Println("Webhook dispatcher stopped.")
			return
		case event := <-d.events:
			if err := d.send(ctx, event); err != nil {
				log.Printf("❌ Failed to send webhook for %s #%s: %v", event.EntityType, event.EntityID, err)
				continue
			}
			log.Printf("📤 Webhook sent for %s #%s", event.EntityType, event.EntityID)
		}
	}
}

func (d *WebhookDispatcher) send(ctx context.Context, event EntityEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", d.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(snippet))
	}
	return nil
}
