// Package bookmarks hands captured URLs off to the platform's bookmark
// pipeline over NATS. Delivery is asynchronous and results are ignored.
package bookmarks

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/groupwatchapp/groupwatchbackend/dispatch"
)

// DefaultSubject is the NATS subject the bookmark service consumes.
const DefaultSubject = "bookmarks.ingest"

// NATSIngestor publishes bookmark batches to a NATS subject.
type NATSIngestor struct {
	nc      *nats.Conn
	subject string
}

// NewNATSIngestor connects to NATS and returns an ingestor publishing
// to subject (DefaultSubject when empty).
func NewNATSIngestor(natsURL, subject string) (*NATSIngestor, error) {
	if subject == "" {
		subject = DefaultSubject
	}
	nc, err := nats.Connect(natsURL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return &NATSIngestor{nc: nc, subject: subject}, nil
}

// Ingest publishes one batch. The bookmark service handles it
// asynchronously; the publish result is the only feedback.
func (i *NATSIngestor) Ingest(batch dispatch.BookmarkBatch) error {
	data, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("encode bookmark batch: %w", err)
	}
	if err := i.nc.Publish(i.subject, data); err != nil {
		return fmt.Errorf("publish bookmark batch: %w", err)
	}
	return nil
}

// Close drains and closes the NATS connection.
func (i *NATSIngestor) Close() {
	if i.nc != nil {
		i.nc.Close()
	}
}
