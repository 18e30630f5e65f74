package rabbitmq

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/suchimauz/appointment-board/internal/core/ports/out"
)

func (l *StoreEventListener) startStoreEventsQueue(ctx context.Context) error {
	err := l.channel.ExchangeDeclare(
		l.cfg.RabbitMQ.Exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}

	queue, err := l.channel.QueueDeclare(
		l.cfg.RabbitMQ.Queue,
		true,  // durable
		true,  // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}

	err = l.channel.QueueBind(
		queue.Name,
		l.cfg.RabbitMQ.Binding,
		l.cfg.RabbitMQ.Exchange,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	msgs, err := l.channel.Consume(
		queue.Name,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					l.logger.Warn("store_events.queue.closed", out.LogFields{
						"queue": queue.Name,
					})
					return
				}
				if err := l.processStoreEvent(ctx, msg); err != nil {
					// Повторная доставка не поможет, следующее событие все равно перечитает список
					msg.Nack(false, false)
					continue
				}
				msg.Ack(false)
			}
		}
	}()

	return nil
}

func (l *StoreEventListener) processStoreEvent(ctx context.Context, msg amqp.Delivery) error {
	routingKey, err := ParseStoreEventRoutingKey(msg.RoutingKey)
	if err != nil {
		l.logger.Warn("store_events.message.invalid_routing_key", out.LogFields{
			"routingKey": msg.RoutingKey,
		})
		return err
	}

	if !routingKey.TriggersRefresh() {
		l.logger.Debug("store_events.message.skipped", out.LogFields{
			"routingKey": msg.RoutingKey,
		})
		return nil
	}

	l.logger.Info("store_events.message.refresh", out.LogFields{
		"resourceType": routingKey.ResourceType,
		"eventType":    routingKey.EventType,
	})

	return l.refresher.Refresh(ctx)
}
