package mockreader

import (
	"context"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/mock"
)

type Reader struct {
	mock.Mock
}

func (m *Reader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	args := m.Called(ctx)
	return args.Get(0).(kafka.Message), args.Error(1)
}

func (m *Reader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	callArgs := []any{ctx}
	for _, msg := range msgs {
		callArgs = append(callArgs, msg)
	}
	return m.Called(callArgs...).Error(0)
}

func (m *Reader) Close() error {
	return m.Called().Error(0)
}
