// Package events publishes domain events after writes commit.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"tingle/internal/middleware"

	"github.com/nats-io/nats.go"
)

// Type names a domain event; the NATS subject is SubjectPrefix + Type.
type Type string

const (
	UserFollowed  Type = "user.followed"
	PostLiked     Type = "post.liked"
	PostCommented Type = "post.commented"
	MessageSent   Type = "message.sent"
)

// SubjectPrefix namespaces every subject published by the API.
const SubjectPrefix = "tingle."

// Event is the JSON payload published for every domain event.
type Event struct {
	Type         Type      `json:"type"`
	ActorID      uint      `json:"actorId"`
	TargetUserID uint      `json:"targetUserId"`
	PostID       *uint     `json:"postId,omitempty"`
	OccurredAt   time.Time `json:"occurredAt"`
}

// Subject returns the NATS subject the event is published on.
func (e Event) Subject() string {
	return SubjectPrefix + string(e.Type)
}

// Publisher emits domain events. Implementations never fail the caller:
// delivery problems are logged.
type Publisher interface {
	Publish(ctx context.Context, event Event)
	Close()
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}
func (Nop) Close()                         {}

// Config configures the NATS connection.
type Config struct {
	URL           string
	Name          string
	MaxReconnects int
	ReconnectWait time.Duration
}

// NATSPublisher publishes events to a NATS server.
type NATSPublisher struct {
	conn *nats.Conn
	now  func() time.Time
}

// Connect returns a Nop publisher when cfg.URL is empty.
func Connect(cfg Config) (Publisher, error) {
	if cfg.URL == "" {
		return Nop{}, nil
	}
	if cfg.MaxReconnects == 0 {
		cfg.MaxReconnects = 10
	}
	if cfg.ReconnectWait == 0 {
		cfg.ReconnectWait = 2 * time.Second
	}

	conn, err := nats.Connect(cfg.URL,
		nats.Name(cfg.Name),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				middleware.Logger.Warn("nats disconnected", slog.String("error", err.Error()))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			middleware.Logger.Info("nats reconnected", slog.String("url", nc.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NATSPublisher{conn: conn, now: time.Now}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = p.now().UTC()
	}
	data, err := encode(event)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "encode event failed", slog.String("type", string(event.Type)), slog.String("error", err.Error()))
		return
	}
	if err := p.conn.Publish(event.Subject(), data); err != nil {
		middleware.Logger.WarnContext(ctx, "publish event failed",
			slog.String("subject", event.Subject()),
			slog.String("error", err.Error()),
		)
	}
}

// Close drains pending publishes before closing the connection.
func (p *NATSPublisher) Close() {
	if p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}

func encode(event Event) ([]byte, error) {
	return json.Marshal(event)
}
