package notify

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendVerification(ctx context.Context, to, token string) error {
	args := m.Called(to, token)
	return args.Error(0)
}

func (m *MockNotifier) SendAdmire(ctx context.Context, to string) error {
	args := m.Called(to)
	return args.Error(0)
}

func (m *MockNotifier) SendMutualAdmire(ctx context.Context, to, matchName string) error {
	args := m.Called(to, matchName)
	return args.Error(0)
}
