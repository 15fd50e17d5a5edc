package catalog

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockCatalog implements Catalog for handler and cache tests.
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) Create(ctx context.Context, v *Video) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockCatalog) FindVideoByID(ctx context.Context, id string) (Video, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Video), args.Error(1)
}

func (m *MockCatalog) FindVideosByIDs(ctx context.Context, ids []string) (map[string]Video, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]Video), args.Error(1)
}

func (m *MockCatalog) Update(ctx context.Context, id string, patch VideoPatch) (Video, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(Video), args.Error(1)
}

func (m *MockCatalog) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
