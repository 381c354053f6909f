package router

import (
	"context"
	"net/url"
	"testing"

	"pinterest-forwarder/internal/manager"
	"pinterest-forwarder/internal/model"
	"pinterest-forwarder/internal/pinterest"
	"pinterest-forwarder/internal/testdata/mockdispatcher"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type RouterTestSuite struct {
	suite.Suite

	dispatcher *mockdispatcher.Dispatcher
	manager    *manager.Manager
	counters   *model.Counters
	settings   model.Settings
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func (s *RouterTestSuite) SetupTest() {
	s.dispatcher = &mockdispatcher.Dispatcher{}
	s.manager = manager.New()
	s.counters = &model.Counters{}
	s.settings = model.Settings{"tid": "2612345678901"}

	New(s.dispatcher, s.settings, s.counters, nil).Register(s.manager)
}

func (s *RouterTestSuite) TearDownTest() {
	s.dispatcher.AssertExpectations(s.T())
}

func (s *RouterTestSuite) TestRegister_AllEventTypes() {
	s.ElementsMatch([]string{
		"pageview", "lead", "signup", "watchvideo", "viewcategory", "custom",
		"addtocart", "checkout", "search", "event", "ecommerce",
	}, s.manager.EventTypes())
}

func (s *RouterTestSuite) TestPageview_UsesPagevisitLabel() {
	ev := model.Event{ID: "1", Type: "pageview"}
	s.dispatcher.On("Dispatch", "pagevisit", ev, s.settings).Return().Once()

	s.Equal(1, s.manager.Emit(context.Background(), ev))
	s.Equal(uint64(1), s.counters.Snapshot().Dispatched)
}

func (s *RouterTestSuite) TestStandardEvents_UseOwnName() {
	for _, name := range []string{"lead", "signup", "watchvideo", "viewcategory", "custom", "addtocart", "checkout", "search"} {
		ev := model.Event{ID: name, Type: name}
		s.dispatcher.On("Dispatch", name, ev, s.settings).Return().Once()
		s.manager.Emit(context.Background(), ev)
	}
}

func (s *RouterTestSuite) TestUserDefined_DelegatesOverride() {
	ev := model.Event{ID: "1", Type: "event", Payload: model.NewPayload(model.Field{Key: "ev", Value: "newsletter"})}
	s.dispatcher.On("DispatchUserDefined", "custom", ev, s.settings).Return().Once()

	s.manager.Emit(context.Background(), ev)
}

func (s *RouterTestSuite) TestEcommerce_MappedName() {
	ev := model.Event{ID: "1", Type: "ecommerce", Payload: model.NewPayload(model.Field{Key: "ev", Value: "Product Added"})}
	s.dispatcher.On("Dispatch", "addtocart", ev, s.settings).Return().Once()

	s.manager.Emit(context.Background(), ev)
}

func (s *RouterTestSuite) TestEcommerce_FallsBackToEventName() {
	ev := model.Event{ID: "1", Type: "ecommerce", Name: "Products Searched"}
	s.dispatcher.On("Dispatch", "search", ev, s.settings).Return().Once()

	s.manager.Emit(context.Background(), ev)
}

func (s *RouterTestSuite) TestEcommerce_UnmappedIsDropped() {
	ev := model.Event{ID: "1", Type: "ecommerce", Payload: model.NewPayload(model.Field{Key: "ev", Value: "Foo Bar"})}

	s.manager.Emit(context.Background(), ev)

	s.dispatcher.AssertNotCalled(s.T(), "Dispatch", mock.Anything, mock.Anything, mock.Anything)
	stats := s.counters.Snapshot()
	s.Equal(uint64(1), stats.Dropped)
	s.Equal(uint64(0), stats.Dispatched)
}

// TestEndToEnd runs the router against the real handler and counts transport calls.
func TestEndToEnd_OneRequestPerMappedEvent(t *testing.T) {
	var urls []string
	handler := pinterest.NewHandler(func(u string, _ model.Event) {
		urls = append(urls, u)
	})
	m := manager.New()
	New(handler, model.Settings{"tid": "xyz"}, nil, nil).Register(m)

	ctx := context.Background()
	client := model.Client{URL: "https://127.0.0.1:1337/", Referer: "https://127.0.0.1:1337/somewhere-else.html"}
	m.Emit(ctx, model.Event{Type: "ecommerce", Payload: model.NewPayload(model.Field{Key: "ev", Value: "Product Added"}), Client: client})
	m.Emit(ctx, model.Event{Type: "ecommerce", Payload: model.NewPayload(model.Field{Key: "ev", Value: "Foo Bar"}), Client: client})
	m.Emit(ctx, model.Event{Type: "pageview", Client: client})

	if len(urls) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(urls))
	}

	first, err := url.Parse(urls[0])
	if err != nil {
		t.Fatal(err)
	}
	if got := first.Query().Get("event"); got != "addtocart" {
		t.Fatalf("expected addtocart, got %q", got)
	}

	second, err := url.Parse(urls[1])
	if err != nil {
		t.Fatal(err)
	}
	if got := second.Query().Get("event"); got != "pagevisit" {
		t.Fatalf("expected pagevisit, got %q", got)
	}
	if _, ok := second.Query()["ed"]; ok {
		t.Fatal("ed must be omitted for an empty payload")
	}
}
