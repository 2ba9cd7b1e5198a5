package service

import (
	"context"

	"rag-compare-be/internal/pkg/logger"
	"rag-compare-be/internal/websocket"
	"rag-compare-be/pkg/events"
	pktNats "rag-compare-be/pkg/nats"
)

// INotifierService forwards bus events to connected websocket clients.
type INotifierService interface {
	Start()
}

type notifierService struct {
	subscriber *pktNats.Subscriber
	hub        *websocket.Hub
	log        logger.ILogger
}

func NewNotifierService(subscriber *pktNats.Subscriber, hub *websocket.Hub, log logger.ILogger) INotifierService {
	return &notifierService{
		subscriber: subscriber,
		hub:        hub,
		log:        log,
	}
}

func (ns *notifierService) Start() {
	if ns.subscriber == nil {
		ns.log.Warn("notifier_service", "NATS subscriber unavailable, websocket events disabled", nil)
		return
	}

	err := ns.subscriber.Subscribe("events.>", "notifier-ws", func(ctx context.Context, event events.Event) error {
		ns.hub.Broadcast(event)
		return nil
	})
	if err != nil {
		ns.log.Error("notifier_service", "Failed to subscribe to event stream", map[string]interface{}{
			"error": err,
		})
	}
}
