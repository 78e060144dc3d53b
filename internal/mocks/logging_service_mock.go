// Package mocks holds testify mocks for the service interfaces used by the
// HTTP handlers.
package mocks

import (
	"context"

	"github.com/guttosm/fertilizer-service/internal/domain/model"
	"github.com/guttosm/fertilizer-service/internal/service"
	"github.com/stretchr/testify/mock"
)

var _ service.LoggingService = (*MockLoggingService)(nil)

// MockLoggingService mocks service.LoggingService.
type MockLoggingService struct {
	mock.Mock
}

func (m *MockLoggingService) CreateLog(ctx context.Context, entry *model.LogEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockLoggingService) CreateLogs(ctx context.Context, entries []*model.LogEntry) error {
	return m.Called(ctx, entries).Error(0)
}

func (m *MockLoggingService) QueryLogs(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error) {
	args := m.Called(ctx, opts)
	entries, _ := args.Get(0).([]model.LogEntry)
	return entries, args.Error(1)
}

func (m *MockLoggingService) CountLogs(ctx context.Context, opts model.LogQueryOptions) (int64, error) {
	args := m.Called(ctx, opts)
	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}

func (m *MockLoggingService) ActionCounts(ctx context.Context, opts model.LogQueryOptions) (map[string]int64, error) {
	args := m.Called(ctx, opts)
	counts, _ := args.Get(0).(map[string]int64)
	return counts, args.Error(1)
}
