package events

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/notebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/notebuilder/internal/logfields"
)

// Publisher sends dead-link events to a NATS subject. Fire-and-forget: a
// failed publish degrades to a warning, never a failed build.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// NewPublisher connects to NATS and returns a publisher for the given subject.
func NewPublisher(url, subject string) (*Publisher, error) {
	if subject == "" {
		return nil, errors.ConfigError("events subject is required").Build()
	}

	conn, err := nats.Connect(url,
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(3),
	)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryEvents, "failed to connect to NATS").
			WithContext("url", url).
			Build()
	}

	slog.Info("NATS publisher initialized for dead-link events", logfields.URL(url), logfields.Subject(subject))
	return &Publisher{conn: conn, subject: subject}, nil
}

// Publish sends one event.
func (p *Publisher) Publish(ev DeadLinkEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return errors.WrapError(err, errors.CategoryEvents, "failed to marshal dead-link event").
			WithContext("token", ev.Token).
			Build()
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return errors.WrapError(err, errors.CategoryEvents, "failed to publish dead-link event").
			WithContext("token", ev.Token).
			Build()
	}
	return nil
}

// Flush waits for buffered messages to reach the server.
func (p *Publisher) Flush() error {
	return p.conn.Flush()
}

// Close flushes and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Flush()
	p.conn.Close()
}
