package controller

import (
	"errors"

	"pinterest-forwarder/internal/model"
	"pinterest-forwarder/internal/service"

	"github.com/gofiber/fiber/v2"
)

type EventController interface {
	CreateEvent(c *fiber.Ctx) error
	GetMetrics(c *fiber.Ctx) error
}

// eventController exposes HTTP handlers for ingestion endpoints.
type eventController struct {
	eventService service.EventService
}

// NewEventController builds an EventController.
func NewEventController(svc service.EventService) EventController {
	return &eventController{eventService: svc}
}

// CreateEvent accepts single event payloads and forwards them synchronously
// up to the outbound request, which is not awaited.
func (h *eventController) CreateEvent(c *fiber.Ctx) error {
	var req model.EventRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json payload")
	}

	fillClientFromRequest(c, &req.Client)

	event, err := h.eventService.BuildEvent(req)
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to build event")
	}

	h.eventService.ProcessEvent(c.UserContext(), event)

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"id": event.ID})
}

// GetMetrics returns the dispatch counters.
func (h *eventController) GetMetrics(c *fiber.Ctx) error {
	return c.JSON(h.eventService.GetStats())
}

// fillClientFromRequest completes browser context the sender did not supply.
func fillClientFromRequest(c *fiber.Ctx, client *model.Client) {
	if client.UserAgent == "" {
		client.UserAgent = c.Get(fiber.HeaderUserAgent)
	}
	if client.IP == "" {
		client.IP = c.IP()
	}
	if client.Cookie == "" {
		client.Cookie = c.Get(fiber.HeaderCookie)
	}
	if client.Language == "" {
		client.Language = c.Get(fiber.HeaderAcceptLanguage)
	}
	// the inbound Referer header is the beacon page, never the document referrer
}
