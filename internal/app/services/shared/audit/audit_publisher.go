package audit

import (
	"context"
	"fmt"
	"medblock-service/internal/app/config"
	"medblock-service/internal/app/contracts"
	"medblock-service/internal/pkg/constvars"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type channelPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// Publisher records audit events in the structured log and, when a broker is
// configured, forwards them to the audit queue in the background. A publish
// failure is logged and dropped.
type Publisher struct {
	log     *zap.Logger
	channel channelPublisher
	closer  func() error
	queue   string
	timeout time.Duration
	now     func() time.Time
	wg      sync.WaitGroup
	stopped atomic.Bool
}

// NewPublisher declares the audit queue on conn. A nil connection or a
// disabled audit config yields a log-only publisher.
func NewPublisher(conn *amqp091.Connection, cfg *config.InternalConfig, log *zap.Logger) (*Publisher, error) {
	p := &Publisher{
		log:     log,
		queue:   cfg.RabbitMQ.AuditQueue,
		timeout: time.Duration(cfg.Audit.PublishTimeoutInMillis) * time.Millisecond,
		now:     func() time.Time { return time.Now().UTC() },
	}
	if p.timeout <= 0 {
		p.timeout = 2 * time.Second
	}

	if conn == nil || !cfg.Audit.Enabled {
		log.Info("Audit publisher running in log-only mode")
		return p, nil
	}

	channel, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open audit channel: %w", err)
	}
	if _, err := channel.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		channel.Close()
		return nil, fmt.Errorf("declare audit queue %s: %w", p.queue, err)
	}

	p.channel = channel
	p.closer = channel.Close
	return p, nil
}

func (p *Publisher) Record(ctx context.Context, event contracts.AuditEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = p.now()
	}

	p.log.Info("Audit event recorded",
		zap.String(constvars.LoggingAuditEventKey, event.Name),
		zap.String(constvars.LoggingRequestIDKey, event.RequestID),
		zap.String(constvars.LoggingAccountIDKey, event.ActorID),
		zap.String(constvars.LoggingRoleKey, event.ActorRole),
		zap.String(constvars.LoggingActionKey, event.Action),
		zap.String(constvars.LoggingResourceTypeKey, event.ResourceType),
		zap.String(constvars.LoggingTargetIDKey, event.ResourceID),
		zap.String(constvars.LoggingReasonKey, event.Reason),
	)

	if p.channel == nil || p.stopped.Load() {
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.log.Error("Audit event marshal failed",
			zap.String(constvars.LoggingAuditEventKey, event.Name),
			zap.Error(err))
		return
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.publish(event, body)
	}()
}

func (p *Publisher) publish(event contracts.AuditEvent, body []byte) {
	// The request context is usually gone by now.
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	message := amqp091.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp091.Persistent,
		Timestamp:    event.OccurredAt,
		Type:         event.Name,
		Headers: amqp091.Table{
			"message_type":     "JSON",
			"requeue_strategy": "DROP",
		},
	}

	if err := p.channel.PublishWithContext(ctx, "", p.queue, false, false, message); err != nil {
		p.log.Warn("Audit event publish failed",
			zap.String(constvars.LoggingAuditEventKey, event.Name),
			zap.String(constvars.LoggingRequestIDKey, event.RequestID),
			zap.String(constvars.LoggingQueueKey, p.queue),
			zap.Error(err))
	}
}

// Stop rejects new publishes, waits for in-flight ones and closes the channel.
func (p *Publisher) Stop() {
	p.stopped.Store(true)
	p.wg.Wait()
	if p.closer != nil {
		if err := p.closer(); err != nil {
			p.log.Warn("Audit channel close failed", zap.Error(err))
		}
	}
}
