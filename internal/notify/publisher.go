package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// Publisher sends events somewhere.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close()
}

// NatsPublisher publishes events to NATS.
type NatsPublisher struct {
	// conn is the NATS connection.
	conn *nats.Conn
	// prefix is prepended to the event kind to form the subject.
	prefix string
}

// Connect dials NATS at url.
func Connect(url, prefix string) (*NatsPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("tank-emergency"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}

	return &NatsPublisher{
		conn:   conn,
		prefix: prefix,
	}, nil
}

// Subject returns the subject an event of the given kind goes to.
func Subject(prefix string, kind Kind) string {
	return prefix + "." + string(kind)
}

// Publish encodes ev and sends it. NATS publishing does not block, so ctx is
// only checked before sending.
func (p *NatsPublisher) Publish(ctx context.Context, ev Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	if err := p.conn.Publish(Subject(p.prefix, ev.Kind), data); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	return nil
}

// Close drains the connection.
func (p *NatsPublisher) Close() {
	_ = p.conn.Drain()
}

// Nop discards every event.
type Nop struct{}

// Publish does nothing.
func (Nop) Publish(context.Context, Event) error { return nil }

// Close does nothing.
func (Nop) Close() {}
