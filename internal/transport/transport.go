package transport

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"pinterest-forwarder/internal/model"
)

// Transport issues fire-and-forget GET requests on behalf of the browser
// that produced the event.
type Transport struct {
	timeout time.Duration
	logger  *slog.Logger
	wg      sync.WaitGroup
}

// New creates a Transport. A non-positive timeout falls back to 5s.
func New(timeout time.Duration, logger *slog.Logger) *Transport {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Transport{timeout: timeout, logger: logger}
}

// Send starts the request in the background and returns immediately.
func (t *Transport) Send(url string, event model.Event) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		t.do(url, event)
	}()
}

// Wait blocks until every in-flight request has finished.
func (t *Transport) Wait() {
	t.wg.Wait()
}

func (t *Transport) do(url string, event model.Event) {
	agent := fiber.Get(url).Timeout(t.timeout)

	// ambient credentials of the originating browser
	client := event.Client
	if client.UserAgent != "" {
		agent.UserAgent(client.UserAgent)
	}
	if client.IP != "" {
		agent.Set(fiber.HeaderXForwardedFor, client.IP)
	}
	if client.Cookie != "" {
		agent.Set(fiber.HeaderCookie, client.Cookie)
	}
	if client.Language != "" {
		agent.Set(fiber.HeaderAcceptLanguage, client.Language)
	}
	// the page itself is the referrer of a request issued from it
	if client.URL != "" {
		agent.Referer(client.URL)
	}

	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		t.logger.Debug("pinterest request not sent", "event_id", event.ID, "error", err)
		return
	}

	code, _, errs := agent.Bytes()
	if len(errs) > 0 {
		t.logger.Debug("pinterest request failed", "event_id", event.ID, "error", errs[0])
		return
	}
	t.logger.Debug("pinterest request sent", "event_id", event.ID, "status", code)
}
