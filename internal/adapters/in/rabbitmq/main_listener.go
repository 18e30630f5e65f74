package rabbitmq

import (
	"context"
	"fmt"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/suchimauz/appointment-board/internal/config"
	"github.com/suchimauz/appointment-board/internal/core/ports/out"
)

type Refresher interface {
	Refresh(ctx context.Context) error
}

type StoreEventListener struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	refresher Refresher
	cfg       *config.Config
	logger    out.LoggerPort
}

type (
	StoreEventType         string
	StoreEventResourceType string
)

type StoreEventRoutingKey struct {
	Source       string
	Receiver     string
	ResourceType StoreEventResourceType
	EventType    StoreEventType
}

const (
	StoreEventResourceTypeAll          StoreEventResourceType = "_all_"
	StoreEventResourceTypeAppointment  StoreEventResourceType = "rendezvous"
	StoreEventResourceTypePatient      StoreEventResourceType = "patient"
	StoreEventResourceTypePractitioner StoreEventResourceType = "praticien"
)

func NewStoreEventListener(refresher Refresher, cfg *config.Config, logger out.LoggerPort) (*StoreEventListener, error) {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("rabbitmq.disabled", out.LogFields{
			"message": "RabbitMQ is disabled, listener will not be started",
		})
		return nil, nil
	}

	conn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Error("rabbitmq.connect.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		logger.Error("rabbitmq.channel.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	return &StoreEventListener{
		conn:      conn,
		channel:   channel,
		refresher: refresher,
		cfg:       cfg,
		logger:    logger.WithModule("StoreEventListener"),
	}, nil
}

func (l *StoreEventListener) Start(ctx context.Context) error {
	if err := l.startStoreEventsQueue(ctx); err != nil {
		l.logger.Error("store_events.queue.start_failed", out.LogFields{
			"queue": l.cfg.RabbitMQ.Queue,
			"error": err.Error(),
		})
		return err
	}

	l.logger.Info("store_events.queue.started", out.LogFields{
		"queue":    l.cfg.RabbitMQ.Queue,
		"exchange": l.cfg.RabbitMQ.Exchange,
		"binding":  l.cfg.RabbitMQ.Binding,
	})
	return nil
}

func (l *StoreEventListener) Stop() error {
	if l == nil || l.channel == nil {
		return nil
	}

	if err := l.channel.Close(); err != nil {
		return err
	}
	return l.conn.Close()
}

// Пример routingKey:
// store.appointment-board.rendezvous.12.updated
// store.appointment-board.patient.AB123.created
// store.appointment-board._all_.-.invalidate
func ParseStoreEventRoutingKey(routingKey string) (StoreEventRoutingKey, error) {
	parts := strings.Split(routingKey, ".")

	if len(parts) < 5 {
		return StoreEventRoutingKey{}, fmt.Errorf("invalid routing key: %s", routingKey)
	}

	return StoreEventRoutingKey{
		Source:       parts[0],
		Receiver:     parts[1],
		ResourceType: StoreEventResourceType(parts[2]),
		EventType:    StoreEventType(parts[len(parts)-1]),
	}, nil
}

// Событие касается данных, загружаемых табло
func (k StoreEventRoutingKey) TriggersRefresh() bool {
	switch k.ResourceType {
	case StoreEventResourceTypeAll,
		StoreEventResourceTypeAppointment,
		StoreEventResourceTypePatient,
		StoreEventResourceTypePractitioner:
		return true
	}
	return false
}
