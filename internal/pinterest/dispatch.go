package pinterest

import (
	"log/slog"

	"pinterest-forwarder/internal/model"
)

// Transport issues the outbound request. Implementations must not block on
// the response.
type Transport func(url string, event model.Event)

// Handler turns events into exactly one outbound request each.
type Handler struct {
	builder   *BodyBuilder
	transport Transport
}

// NewHandler wires a Handler to transport. A nil transport only logs the URL.
func NewHandler(transport Transport) *Handler {
	if transport == nil {
		transport = logTransport
	}
	return &Handler{
		builder:   NewBodyBuilder(),
		transport: transport,
	}
}

// Dispatch builds the request for event under eventType and hands it to the
// transport.
func (h *Handler) Dispatch(eventType string, event model.Event, settings model.Settings) {
	body := h.builder.Build(eventType, event, settings)
	h.transport(BuildURL(body), event)
}

// DispatchUserDefined prefers the event type carried in payload.ev over label.
func (h *Handler) DispatchUserDefined(label string, event model.Event, settings model.Settings) {
	h.Dispatch(ResolveEventType(label, event), event, settings)
}

// ResolveEventType returns payload.ev when set, otherwise label.
func ResolveEventType(label string, event model.Event) string {
	if v, ok := event.Payload.Get("ev"); ok && truthy(v) {
		return stringify(v)
	}
	return label
}

func logTransport(url string, event model.Event) {
	slog.Debug("pinterest request not sent, no transport configured", "event_id", event.ID, "url", url)
}
