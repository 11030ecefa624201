// Package events publishes build lifecycle notifications to NATS so external
// systems (deploy pipelines, chat notifiers) can react to documentation
// builds without polling.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/soasis/docgen/internal/config"
	"github.com/soasis/docgen/internal/logfields"
	"github.com/soasis/docgen/internal/retry"
)

// BuildEvent is the payload published after every build.
type BuildEvent struct {
	BuildID         string    `json:"build_id"`
	Project         string    `json:"project"`
	Release         string    `json:"release"`
	Outcome         string    `json:"outcome"`
	DurationMS      int64     `json:"duration_ms"`
	ReferenceXMLDir string    `json:"reference_xml_dir,omitempty"`
	CompletedAt     time.Time `json:"completed_at"`
}

// Publisher sends build events to a NATS subject.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// NewPublisher connects to NATS using the events configuration. Callers must
// only construct a publisher when events are enabled. The initial connect is
// retried with backoff; CI brokers are often still starting when the build
// begins.
func NewPublisher(cfg *config.EventsConfig) (*Publisher, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, fmt.Errorf("event publishing is disabled")
	}

	var conn *nats.Conn
	policy := retry.Policy{Mode: retry.BackoffLinear, Initial: time.Second, Max: 5 * time.Second, MaxRetries: 2}
	err := policy.Do(context.Background(), func() error {
		var connErr error
		conn, connErr = nats.Connect(cfg.NATSURL,
			nats.Name("docgen"),
			nats.MaxReconnects(3),
		)
		return connErr
	})
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	slog.Info("Event publisher connected", logfields.URL(cfg.NATSURL), slog.String("subject", cfg.Subject))
	return &Publisher{conn: conn, subject: cfg.Subject}, nil
}

// Publish sends a build event. Failures are returned for the caller to log;
// event publishing never blocks or fails a build.
func (p *Publisher) Publish(ev BuildEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal build event: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish build event: %w", err)
	}
	return nil
}

// Close flushes pending messages and drops the connection.
func (p *Publisher) Close() {
	if p.conn == nil {
		return
	}
	_ = p.conn.Flush()
	p.conn.Close()
}
