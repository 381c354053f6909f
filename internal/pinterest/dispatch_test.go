package pinterest

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"pinterest-forwarder/internal/model"

	"github.com/stretchr/testify/suite"
)

type sentRequest struct {
	url   string
	event model.Event
}

type HandlerTestSuite struct {
	suite.Suite

	sent    []sentRequest
	handler *Handler
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) SetupTest() {
	s.sent = nil
	s.handler = NewHandler(func(url string, event model.Event) {
		s.sent = append(s.sent, sentRequest{url: url, event: event})
	})
	s.handler.builder.now = func() time.Time { return time.UnixMilli(1671006315874) }
}

func (s *HandlerTestSuite) event(fields ...model.Field) model.Event {
	return model.Event{
		ID:      "evt-1",
		Type:    "event",
		Payload: model.NewPayload(fields...),
		Client:  model.Client{URL: "https://shop.example/", Referer: "https://google.com/"},
	}
}

func (s *HandlerTestSuite) query(i int) url.Values {
	u, err := url.Parse(s.sent[i].url)
	s.Require().NoError(err)
	return u.Query()
}

func (s *HandlerTestSuite) TestDispatch_InvokesTransportOnce() {
	ev := s.event(model.Field{Key: "tid", Value: "xyz"})

	s.handler.Dispatch("pagevisit", ev, nil)

	s.Require().Len(s.sent, 1)
	s.True(strings.HasPrefix(s.sent[0].url, BaseURL))
	s.Equal("evt-1", s.sent[0].event.ID)
	s.Equal("pagevisit", s.query(0).Get("event"))
	s.Equal("xyz", s.query(0).Get("tid"))
	s.Equal("1671006315874", s.query(0).Get("cb"))
}

func (s *HandlerTestSuite) TestDispatch_MapsCommerceName() {
	s.handler.Dispatch("Product Added", s.event(), model.Settings{"tid": "t"})

	s.Require().Len(s.sent, 1)
	s.Equal("addtocart", s.query(0).Get("event"))
}

func (s *HandlerTestSuite) TestDispatchUserDefined_PrefersPayloadOverride() {
	s.handler.DispatchUserDefined("custom", s.event(model.Field{Key: "ev", Value: "newsletter"}), nil)
	s.handler.DispatchUserDefined("custom", s.event(model.Field{Key: "ev", Value: ""}), nil)

	s.Require().Len(s.sent, 2)
	s.Equal("newsletter", s.query(0).Get("event"))
	s.Equal("custom", s.query(1).Get("event"))
}

func (s *HandlerTestSuite) TestNewHandler_NilTransportDoesNotPanic() {
	h := NewHandler(nil)
	s.NotPanics(func() {
		h.Dispatch("pagevisit", s.event(), nil)
	})
}

func (s *HandlerTestSuite) TestResolveEventType() {
	s.Equal("signup", ResolveEventType("custom", s.event(model.Field{Key: "ev", Value: "signup"})))
	s.Equal("custom", ResolveEventType("custom", s.event()))
}
