package service

import (
	"context"
	"net/url"
	"time"

	"github.com/google/uuid"

	"pinterest-forwarder/internal/model"
)

// ValidationError represents user input issues.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Emitter hands events to the registered listeners.
type Emitter interface {
	Emit(ctx context.Context, event model.Event) int
}

// eventService validates incoming events and feeds them to the runtime.
type eventService struct {
	emitter  Emitter
	counters *model.Counters
	now      func() time.Time
	newID    func() string
}

type EventService interface {
	BuildEvent(req model.EventRequest) (model.Event, error)
	ProcessEvent(ctx context.Context, event model.Event)
	GetStats() model.DispatchStats
}

// NewEventService constructs an eventService.
func NewEventService(emitter Emitter, counters *model.Counters) EventService {
	if counters == nil {
		counters = &model.Counters{}
	}
	return &eventService{
		emitter:  emitter,
		counters: counters,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// BuildEvent validates and constructs an Event from an incoming request.
func (s *eventService) BuildEvent(req model.EventRequest) (model.Event, error) {
	if req.Type == "" {
		return model.Event{}, &ValidationError{Message: "type is required"}
	}

	if req.Client.URL == "" {
		return model.Event{}, &ValidationError{Message: "client.url is required"}
	}

	if u, err := url.Parse(req.Client.URL); err != nil || !u.IsAbs() {
		return model.Event{}, &ValidationError{Message: "client.url must be an absolute url"}
	}

	id := req.ID
	if id == "" {
		id = s.newID()
	}

	client := req.Client
	if client.Timestamp == 0 {
		client.Timestamp = s.now().UnixMilli()
	}

	event := model.Event{
		ID:      id,
		Type:    req.Type,
		Name:    req.Name,
		Payload: req.Payload,
		Client:  client,
	}

	return event, nil
}

// ProcessEvent hands a single event to the listeners of its type.
func (s *eventService) ProcessEvent(ctx context.Context, event model.Event) {
	s.counters.IncReceived()
	if s.emitter.Emit(ctx, event) == 0 {
		s.counters.IncUnhandled()
	}
}

// GetStats returns the dispatch counters.
func (s *eventService) GetStats() model.DispatchStats {
	return s.counters.Snapshot()
}
