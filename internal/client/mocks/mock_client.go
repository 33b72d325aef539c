package mocks

import (
	"context"

	"recordweb/internal/client"
	"recordweb/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) List(ctx context.Context) ([]model.Record, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Record), args.Error(1)
}

func (m *MockClient) Get(ctx context.Context, id string) (model.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return model.Record{}, args.Error(1)
	}
	return args.Get(0).(model.Record), args.Error(1)
}

func (m *MockClient) Create(ctx context.Context, rec model.Record) (*client.Result, error) {
	args := m.Called(ctx, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Result), args.Error(1)
}

func (m *MockClient) Update(ctx context.Context, id string, rec model.Record) (*client.Result, error) {
	args := m.Called(ctx, id, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Result), args.Error(1)
}

func (m *MockClient) Delete(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockClient) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
