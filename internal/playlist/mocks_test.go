package playlist

import (
	"context"

	"github.com/stretchr/testify/mock"

	"video-playlist-service/internal/catalog"
)

// MockStore implements Store for service and handler tests.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Create(ctx context.Context, pl *Playlist) error {
	args := m.Called(ctx, pl)
	return args.Error(0)
}

func (m *MockStore) Get(ctx context.Context, id string) (*Playlist, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Playlist), args.Error(1)
}

func (m *MockStore) ListByOwner(ctx context.Context, ownerID string, limit int) ([]Playlist, error) {
	args := m.Called(ctx, ownerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Playlist), args.Error(1)
}

func (m *MockStore) UpdateDetails(ctx context.Context, id, name, description string) (*Playlist, error) {
	args := m.Called(ctx, id, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Playlist), args.Error(1)
}

func (m *MockStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) AddVideo(ctx context.Context, id string, snap VideoSnapshot) (*Playlist, error) {
	args := m.Called(ctx, id, snap)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Playlist), args.Error(1)
}

func (m *MockStore) RemoveVideo(ctx context.Context, id, videoID string) (*Playlist, int, error) {
	args := m.Called(ctx, id, videoID)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).(*Playlist), args.Int(1), args.Error(2)
}

func (m *MockStore) RefreshVideos(ctx context.Context, id string, fresh map[string]VideoSnapshot) (*Playlist, error) {
	args := m.Called(ctx, id, fresh)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Playlist), args.Error(1)
}

// MockCatalog implements VideoCatalog.
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) FindVideoByID(ctx context.Context, id string) (catalog.Video, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(catalog.Video), args.Error(1)
}

func (m *MockCatalog) FindVideosByIDs(ctx context.Context, ids []string) (map[string]catalog.Video, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]catalog.Video), args.Error(1)
}
