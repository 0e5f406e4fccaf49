// Package analytics delivers page-view and engagement events to an external
// collector. Delivery is fire-and-forget: a broken collector never blocks or
// fails the caller.
package analytics

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

const (
	EventPageView    = "page_view"
	EventLeadSubmit  = "lead_submit"
	EventSavePublish = "save_publish"
)

// Sink accepts events. Implementations swallow their own errors.
type Sink interface {
	Track(eventType, micrositeID string, metadata map[string]string)
}

// HTTPSink posts events to a collector endpoint on a goroutine per event.
type HTTPSink struct {
	endpoint string
	client   *http.Client
}

func NewHTTPSink(endpoint string) *HTTPSink {
	return &HTTPSink{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

type event struct {
	Type        string            `json:"type"`
	MicrositeID string            `json:"micrositeId"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	OccurredAt  time.Time         `json:"occurredAt"`
}

func (s *HTTPSink) Track(eventType, micrositeID string, metadata map[string]string) {
	payload, err := json.Marshal(event{
		Type:        eventType,
		MicrositeID: micrositeID,
		Metadata:    metadata,
		OccurredAt:  time.Now().UTC(),
	})
	if err != nil {
		log.Printf("analytics: marshal %s event: %v", eventType, err)
		return
	}
	go func() {
		resp, err := s.client.Post(s.endpoint, "application/json", bytes.NewReader(payload))
		if err != nil {
			log.Printf("analytics: deliver %s event: %v", eventType, err)
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 300 {
			log.Printf("analytics: collector returned %d for %s event", resp.StatusCode, eventType)
		}
	}()
}

// Noop drops every event. Used when no collector is configured.
type Noop struct{}

func (Noop) Track(string, string, map[string]string) {}
