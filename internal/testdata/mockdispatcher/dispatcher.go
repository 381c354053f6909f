package mockdispatcher

import (
	"pinterest-forwarder/internal/model"

	"github.com/stretchr/testify/mock"
)

type Dispatcher struct {
	mock.Mock
}

func (m *Dispatcher) Dispatch(eventType string, event model.Event, settings model.Settings) {
	m.Called(eventType, event, settings)
}

func (m *Dispatcher) DispatchUserDefined(label string, event model.Event, settings model.Settings) {
	m.Called(label, event, settings)
}
