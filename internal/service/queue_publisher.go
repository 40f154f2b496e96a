package service

import (
    "context"
    "encoding/json"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "go.uber.org/zap"

    q "github.com/bandoneon/soundbank/internal/queue"
)

// EventPublisher delivers catalog events.  Implementations may fail; the
// catalog service logs the error and carries on.
type EventPublisher interface {
    Publish(ctx context.Context, ev q.CatalogEvent) error
}

// AMQPPublisher publishes catalog events to the catalog.events queue.  A
// connection is opened per publish; catalog writes are rare admin actions.
type AMQPPublisher struct {
    url         string
    dialTimeout time.Duration
    log         *zap.Logger
}

func NewAMQPPublisher(url string, log *zap.Logger) *AMQPPublisher {
    if log == nil {
        log = zap.NewNop()
    }
    return &AMQPPublisher{url: url, dialTimeout: 2 * time.Second, log: log.Named("rabbitmq")}
}

// Publish sends ev as a persistent JSON message.  Errors are logged and
// returned so the caller can choose to ignore them.
func (p *AMQPPublisher) Publish(ctx context.Context, ev q.CatalogEvent) error {
    conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(p.dialTimeout)})
    if err != nil {
        p.log.Warn("dial failed", zap.Error(err))
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        p.log.Warn("channel open failed", zap.Error(err))
        return err
    }
    defer func() { _ = ch.Close() }()

    // Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(q.CatalogQueue, true, false, false, false, nil); err != nil {
        p.log.Warn("queue declare failed", zap.Error(err))
        return err
    }

    body, err := json.Marshal(ev)
    if err != nil {
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        Type:         ev.Type,
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", q.CatalogQueue, false, false, pub); err != nil {
        p.log.Warn("publish failed", zap.Error(err), zap.String("type", ev.Type))
        return err
    }
    return nil
}
