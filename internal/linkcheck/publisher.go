package linkcheck

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"git.home.luguber.info/inful/docnav/internal/config"
	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/retry"
)

// StreamName is the JetStream stream broken link events are stored in.
const StreamName = "DOCNAV_LINK_EVENTS"

// Event is the payload published for each broken link.
type Event struct {
	Issue
	BuildID   string    `json:"build_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher ships broken link events to a downstream consumer.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// NATSPublisher publishes events to NATS JetStream.
type NATSPublisher struct {
	conn    *nats.Conn
	js      jetstream.JetStream
	subject string
}

// NewNATSPublisher connects and makes sure the event stream exists.
func NewNATSPublisher(ctx context.Context, cfg config.LinkEventsConfig) (*NATSPublisher, error) {
	conn, err := nats.Connect(cfg.NATSURL, nats.Name("docnav"))
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryNetwork, "failed to connect to NATS").
			WithContext("url", cfg.NATSURL).Retryable().Build()
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, ferrors.WrapError(err, ferrors.CategoryNetwork, "failed to create JetStream context").Build()
	}

	sctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if _, err := js.CreateOrUpdateStream(sctx, jetstream.StreamConfig{
		Name:        StreamName,
		Description: "Broken links found by docnav builds",
		Subjects:    []string{cfg.Subject},
		MaxAge:      30 * 24 * time.Hour,
	}); err != nil {
		conn.Close()
		return nil, ferrors.WrapError(err, ferrors.CategoryNetwork, "failed to ensure link event stream").
			WithContext("stream", StreamName).Build()
	}

	slog.Info("NATS link event publisher initialized", logfields.URL(cfg.NATSURL), slog.String("subject", cfg.Subject))
	return &NATSPublisher{conn: conn, js: js, subject: cfg.Subject}, nil
}

// Publish sends one event.
func (p *NATSPublisher) Publish(ctx context.Context, ev Event) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	data, err := json.Marshal(ev)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to marshal link event").Build()
	}
	if _, err := p.js.Publish(ctx, p.subject, data); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryNetwork, "failed to publish link event").
			WithContext("subject", p.subject).Retryable().Build()
	}
	return nil
}

// Close drains the connection.
func (p *NATSPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Drain()
}

// retryingPublisher retries transient publish failures.
type retryingPublisher struct {
	next   Publisher
	policy retry.Policy
}

// WithRetry wraps pub so each Publish is retried according to policy.
func WithRetry(pub Publisher, policy retry.Policy) Publisher {
	return &retryingPublisher{next: pub, policy: policy}
}

// RetryPolicy builds the publish retry policy from config.
func RetryPolicy(cfg config.RetryConfig) retry.Policy {
	retries := -1
	if cfg.Attempts > 0 {
		retries = cfg.Attempts - 1
	}
	return retry.NewPolicy(cfg.Backoff, cfg.Initial, cfg.Max, retries)
}

func (r *retryingPublisher) Publish(ctx context.Context, ev Event) error {
	return r.policy.Do(ctx, func(ctx context.Context) error {
		return r.next.Publish(ctx, ev)
	})
}

func (r *retryingPublisher) Close() error { return r.next.Close() }

// PublishAll publishes every issue. Failures are logged and the first one is
// returned; publishing never changes the build outcome on its own.
func PublishAll(ctx context.Context, pub Publisher, buildID string, issues []Issue, logger *slog.Logger) error {
	if pub == nil || len(issues) == 0 {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	now := time.Now().UTC()
	var first error
	for _, i := range issues {
		err := pub.Publish(ctx, Event{Issue: i, BuildID: buildID, Timestamp: now})
		if err == nil {
			continue
		}
		logger.Warn("Failed to publish link event", logfields.URL(i.Target), logfields.Error(err))
		if first == nil {
			first = err
		}
		if ctx.Err() != nil {
			break
		}
	}
	return first
}
