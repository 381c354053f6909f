package mockservice

import (
	"context"

	"pinterest-forwarder/internal/model"

	"github.com/stretchr/testify/mock"
)

type Service struct {
	mock.Mock
}

func (m *Service) BuildEvent(req model.EventRequest) (model.Event, error) {
	args := m.Called(req)
	return args.Get(0).(model.Event), args.Error(1)
}

func (m *Service) ProcessEvent(ctx context.Context, event model.Event) {
	m.Called(ctx, event)
}

func (m *Service) GetStats() model.DispatchStats {
	args := m.Called()
	return args.Get(0).(model.DispatchStats)
}
