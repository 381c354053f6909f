package router

import (
	"context"
	"log/slog"

	"pinterest-forwarder/internal/manager"
	"pinterest-forwarder/internal/model"
	"pinterest-forwarder/internal/pinterest"
)

// Dispatcher sends one Pinterest request per call.
type Dispatcher interface {
	Dispatch(eventType string, event model.Event, settings model.Settings)
	DispatchUserDefined(label string, event model.Event, settings model.Settings)
}

// Registrar is the subscription side of the event runtime.
type Registrar interface {
	AddEventListener(eventType string, fn manager.Listener)
}

// standardEvents maps host event types to the label sent to Pinterest.
var standardEvents = map[string]string{
	"pageview":     "pagevisit",
	"lead":         "lead",
	"signup":       "signup",
	"watchvideo":   "watchvideo",
	"viewcategory": "viewcategory",
	"custom":       "custom",
	"addtocart":    "addtocart",
	"checkout":     "checkout",
	"search":       "search",
}

const (
	userDefinedEvent = "event"
	ecommerceEvent   = "ecommerce"
	userDefinedLabel = "custom"
)

// Router subscribes the Pinterest dispatcher to every supported event type.
type Router struct {
	dispatcher Dispatcher
	settings   model.Settings
	counters   *model.Counters
	logger     *slog.Logger
}

// New creates a Router. counters may be nil.
func New(dispatcher Dispatcher, settings model.Settings, counters *model.Counters, logger *slog.Logger) *Router {
	if counters == nil {
		counters = &model.Counters{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		dispatcher: dispatcher,
		settings:   settings,
		counters:   counters,
		logger:     logger,
	}
}

// Register adds the listeners to registrar.
func (r *Router) Register(registrar Registrar) {
	for eventType, label := range standardEvents {
		label := label
		registrar.AddEventListener(eventType, func(ctx context.Context, event model.Event) {
			r.dispatch(ctx, label, event)
		})
	}
	registrar.AddEventListener(userDefinedEvent, r.handleUserDefined)
	registrar.AddEventListener(ecommerceEvent, r.handleEcommerce)
}

func (r *Router) dispatch(ctx context.Context, label string, event model.Event) {
	r.dispatcher.Dispatch(label, event, r.settings)
	r.counters.IncDispatched()
	r.logger.DebugContext(ctx, "event dispatched", "event_id", event.ID, "type", event.Type, "label", label)
}

func (r *Router) handleUserDefined(ctx context.Context, event model.Event) {
	r.dispatcher.DispatchUserDefined(userDefinedLabel, event, r.settings)
	r.counters.IncDispatched()
	r.logger.DebugContext(ctx, "event dispatched", "event_id", event.ID, "type", event.Type)
}

// handleEcommerce only forwards commerce events Pinterest has a label for.
func (r *Router) handleEcommerce(ctx context.Context, event model.Event) {
	name := pinterest.ResolveEventType(event.Name, event)
	label, ok := pinterest.MapEventName(name)
	if !ok {
		r.counters.IncDropped()
		r.logger.DebugContext(ctx, "ecommerce event has no pinterest mapping, dropped", "event_id", event.ID, "name", name)
		return
	}
	r.dispatch(ctx, label, event)
}
