package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/alimikegami/point-of-sales/inventory-dashboard/internal/domain"
	"github.com/alimikegami/point-of-sales/inventory-dashboard/internal/dto"
)

const (
	publishMaxRetries = 3
	publishTimeout    = 10 * time.Second
	publishQueueSize  = 256
)

type productEvent struct {
	eventType string
	key       string
	payload   []byte
}

// EventPublishingProductService announces successful product writes. Events are queued
// and written by one background worker, in order, so a write never waits on the broker.
// A failed publish is logged and never changes the outcome of the write.
type EventPublishingProductService struct {
	ProductService
	publisher Publisher
	backoff   time.Duration

	mu     sync.RWMutex
	closed bool
	events chan productEvent
	done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
}

func CreateEventPublishingProductService(next ProductService, publisher Publisher) *EventPublishingProductService {
	ctx, cancel := context.WithCancel(context.Background())

	s := &EventPublishingProductService{
		ProductService: next,
		publisher:      publisher,
		backoff:        time.Second,
		events:         make(chan productEvent, publishQueueSize),
		done:           make(chan struct{}),
		ctx:            ctx,
		cancel:         cancel,
	}
	go s.run()

	return s
}

func (s *EventPublishingProductService) Create(ctx context.Context, req dto.ProductRequest) (domain.Product, error) {
	product, err := s.ProductService.Create(ctx, req)
	if err != nil {
		return product, err
	}

	s.publish(dto.EventProductCreated, product.ID, product)

	return product, nil
}

func (s *EventPublishingProductService) Update(ctx context.Context, id int64, req dto.ProductRequest) (domain.Product, error) {
	product, err := s.ProductService.Update(ctx, id, req)
	if err != nil {
		return product, err
	}

	s.publish(dto.EventProductUpdated, id, product)

	return product, nil
}

func (s *EventPublishingProductService) Delete(ctx context.Context, id int64) error {
	if err := s.ProductService.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(dto.EventProductDeleted, id, dto.ProductDeleted{ID: id})

	return nil
}

// Close stops accepting events and waits for the queued ones to be written. Pending
// retries are abandoned when ctx ends first.
func (s *EventPublishingProductService) Close(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.events)
	}
	s.mu.Unlock()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		s.cancel()
		return ctx.Err()
	}
}

func (s *EventPublishingProductService) publish(eventType string, id int64, data interface{}) {
	logger := log.With().Str("component", "EventPublishingProductService").
		Str("event_type", eventType).
		Int64("product_id", id).
		Logger()

	jsonMsg, err := json.Marshal(dto.KafkaMessage{
		EventType: eventType,
		Data:      data,
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to marshal Kafka message")
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		logger.Error().Msg("publisher closed, dropping product event")
		return
	}

	select {
	case s.events <- productEvent{eventType: eventType, key: strconv.FormatInt(id, 10), payload: jsonMsg}:
	default:
		logger.Error().Msg("event queue full, dropping product event")
	}
}

func (s *EventPublishingProductService) run() {
	defer close(s.done)
	defer s.cancel()

	for event := range s.events {
		if err := s.writeEvent(event); err != nil {
			log.Error().Err(err).Str("component", "EventPublishingProductService").
				Str("event_type", event.eventType).
				Str("product_id", event.key).
				Msg("failed to publish product event")
		}
	}
}

func (s *EventPublishingProductService) writeEvent(event productEvent) error {
	var err error
	for i := 0; i < publishMaxRetries; i++ {
		ctx, cancel := context.WithTimeout(s.ctx, publishTimeout)
		err = s.publisher.Publish(ctx, event.key, event.payload)
		cancel()
		if err == nil {
			return nil
		}
		log.Warn().Err(err).Str("component", "EventPublishingProductService").Int("attempt", i+1).Msg("")

		if i < publishMaxRetries-1 {
			select {
			case <-s.ctx.Done():
				return s.ctx.Err()
			case <-time.After(s.backoff * time.Duration(i+1)):
			}
		}
	}

	return fmt.Errorf("failed to write Kafka message after %d attempts: %w", publishMaxRetries, err)
}
