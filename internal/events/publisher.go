package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	foundationerrors "git.home.luguber.info/inful/doclinks/internal/foundation/errors"
	"git.home.luguber.info/inful/doclinks/internal/logfields"
)

const publishTimeout = 5 * time.Second

// Publisher delivers run events.
type Publisher interface {
	PublishRun(ctx context.Context, event *RunEvent) error
	Close() error
}

// NATSPublisher publishes run events to a JetStream subject.
type NATSPublisher struct {
	conn    *nats.Conn
	js      jetstream.JetStream
	subject string
}

// NewNATSPublisher connects to url and prepares a JetStream context.
func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	if subject == "" {
		return nil, foundationerrors.ConfigError("event subject is required").Build()
	}

	conn, err := nats.Connect(url, nats.Name("doclinks"))
	if err != nil {
		return nil, foundationerrors.WrapError(err, foundationerrors.CategoryNetwork, "failed to connect to NATS").
			WithContext("url", url).
			Build()
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	slog.Debug("NATS publisher initialized", "url", url, logfields.Subject(subject))
	return &NATSPublisher{conn: conn, js: js, subject: subject}, nil
}

// PublishRun publishes event as JSON and waits for the stream acknowledgement.
func (p *NATSPublisher) PublishRun(ctx context.Context, event *RunEvent) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := p.js.Publish(ctx, p.subject, data); err != nil {
		return foundationerrors.WrapError(err, foundationerrors.CategoryNetwork, "failed to publish run event").
			WithContext("subject", p.subject).
			Build()
	}

	slog.Debug("Published run event",
		logfields.RunID(event.RunID),
		logfields.Subject(p.subject),
		"broken", event.Counts.Broken)
	return nil
}

// Close closes the NATS connection.
func (p *NATSPublisher) Close() error {
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}
