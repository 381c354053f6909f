package mockemitter

import (
	"context"

	"pinterest-forwarder/internal/model"

	"github.com/stretchr/testify/mock"
)

type Emitter struct {
	mock.Mock
}

func (m *Emitter) Emit(ctx context.Context, event model.Event) int {
	args := m.Called(ctx, event)
	return args.Int(0)
}
