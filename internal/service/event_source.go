package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"pinterest-forwarder/internal/model"
)

// MessageReader is the subset of *kafka.Reader the event source needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type EventSource interface {
	Shutdown()
}

// fetchRetryDelay is the pause after a failed fetch before the next attempt.
const fetchRetryDelay = time.Second

// kafkaEventSource feeds EventRequest messages from a topic into the service,
// one message at a time.
type kafkaEventSource struct {
	reader     MessageReader
	service    EventService
	logger     *slog.Logger
	retryDelay time.Duration
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

// NewKafkaReader builds the consumer-group reader used in production.
func NewKafkaReader(brokers []string, groupID, topic string) (*kafka.Reader, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka reader requires at least one broker")
	}
	if groupID == "" {
		return nil, fmt.Errorf("kafka reader requires group id")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka reader requires topic")
	}
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	}), nil
}

// NewKafkaEventSource starts consuming immediately.
func NewKafkaEventSource(reader MessageReader, svc EventService, logger *slog.Logger) *kafkaEventSource {
	return newKafkaEventSource(reader, svc, logger, fetchRetryDelay)
}

func newKafkaEventSource(reader MessageReader, svc EventService, logger *slog.Logger, retryDelay time.Duration) *kafkaEventSource {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	source := &kafkaEventSource{
		reader:     reader,
		service:    svc,
		logger:     logger,
		retryDelay: retryDelay,
		cancel:     cancel,
	}
	source.wg.Add(1)
	go source.startLoop(ctx)
	return source
}

// Shutdown stops the loop, waits for the in-progress message and closes the reader.
func (s *kafkaEventSource) Shutdown() {
	s.logger.Info("stopping kafka event source")
	s.cancel()
	s.wg.Wait()
	if err := s.reader.Close(); err != nil {
		s.logger.Error("close kafka reader", "error", err)
	}
	s.logger.Info("kafka event source stopped")
}

func (s *kafkaEventSource) startLoop(ctx context.Context) {
	defer s.wg.Done()

	for {
		msg, err := s.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return
			}
			s.logger.Error("fetch kafka message, retrying", "error", err, "retry_in", s.retryDelay)
			if !s.pause(ctx) {
				return
			}
			continue
		}

		s.handle(ctx, msg)

		if err := s.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			s.logger.Error("commit kafka message", "error", err, "offset", msg.Offset)
		}
	}
}

// pause waits retryDelay and reports false when the source was shut down meanwhile.
func (s *kafkaEventSource) pause(ctx context.Context) bool {
	timer := time.NewTimer(s.retryDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// handle never fails the message: bad input is logged and skipped.
func (s *kafkaEventSource) handle(ctx context.Context, msg kafka.Message) {
	var req model.EventRequest
	if err := json.Unmarshal(msg.Value, &req); err != nil {
		s.logger.Warn("skip malformed kafka event", "error", err, "offset", msg.Offset)
		return
	}

	event, err := s.service.BuildEvent(req)
	if err != nil {
		s.logger.Warn("skip invalid kafka event", "error", err, "offset", msg.Offset)
		return
	}

	s.service.ProcessEvent(ctx, event)
}
