package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// JetStreamPublisher publishes events to a NATS JetStream stream.
type JetStreamPublisher struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	stream string
}

// NewJetStreamPublisher connects to NATS with unlimited reconnects.
func NewJetStreamPublisher(natsURL, stream string) (*JetStreamPublisher, error) {
	nc, err := nats.Connect(natsURL,
		nats.Name("contacts-api"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create jetstream context: %w", err)
	}

	return &JetStreamPublisher{nc: nc, js: js, stream: stream}, nil
}

// EnsureStream creates the events stream if it does not exist.
// Retries up to 30 times (1s apart) to ride out NATS startup.
func (p *JetStreamPublisher) EnsureStream(ctx context.Context) error {
	cfg := jetstream.StreamConfig{
		Name:        p.stream,
		Subjects:    []string{SubjectBase + ".>"},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      7 * 24 * time.Hour,
		MaxMsgs:     1000000,
		Storage:     jetstream.FileStorage,
		Duplicates:  2 * time.Minute,
		Description: "Person and country change events",
	}

	const maxAttempts = 30
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		opCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		_, err := p.js.CreateOrUpdateStream(opCtx, cfg)
		cancel()
		if err == nil {
			slog.Info("ensured NATS stream", "name", p.stream)
			return nil
		}
		if attempt == maxAttempts {
			return fmt.Errorf("create stream %s: %w (after %d attempts)", p.stream, err, maxAttempts)
		}
		slog.Warn("ensure NATS stream (retrying...)", "name", p.stream, "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
	return nil
}

// Publish sends the event; the event ID doubles as the JetStream dedup ID.
func (p *JetStreamPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if _, err := p.js.Publish(ctx, event.Subject(), payload, jetstream.WithMsgID(event.ID)); err != nil {
		return fmt.Errorf("publish %s: %w", event.Subject(), err)
	}
	return nil
}

// Ping reports whether the connection is up.
func (p *JetStreamPublisher) Ping(ctx context.Context) error {
	if !p.nc.IsConnected() {
		return errors.New("nats not connected")
	}
	return nil
}

// Close drains and closes the connection.
func (p *JetStreamPublisher) Close() {
	if err := p.nc.Drain(); err != nil {
		p.nc.Close()
	}
}
