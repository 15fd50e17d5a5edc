package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var videoCols = []string{
	"id", "owner_id", "title", "description", "video_file", "thumbnail",
	"duration", "views", "is_published", "created_at", "updated_at",
}

const (
	videoA = "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"
	videoB = "bbbbbbbb-bbbb-4bbb-8bbb-bbbbbbbbbbbb"
)

func setupMockStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return NewPostgresStore(mock), mock
}

func TestPostgresStore_Create(t *testing.T) {
	s, mock := setupMockStore(t)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery("INSERT INTO videos").
		WithArgs(pgxmock.AnyArg(), "user-1", "Intro", "First clip", "https://cdn/v.mp4", "https://cdn/t.jpg", 12.5, int64(0), true).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	v := &Video{
		OwnerID:     "user-1",
		Title:       "Intro",
		Description: "First clip",
		VideoFile:   "https://cdn/v.mp4",
		Thumbnail:   "https://cdn/t.jpg",
		Duration:    12.5,
		IsPublished: true,
	}
	require.NoError(t, s.Create(context.Background(), v))

	assert.NotEmpty(t, v.ID)
	assert.Equal(t, now, v.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_FindVideoByID(t *testing.T) {
	s, mock := setupMockStore(t)
	defer mock.Close()

	t.Run("Found", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery("SELECT .* FROM videos").
			WithArgs(videoA).
			WillReturnRows(pgxmock.NewRows(videoCols).AddRow(
				videoA, "user-1", "Intro", "desc", "file", "thumb", 10.0, int64(3), true, now, now,
			))

		v, err := s.FindVideoByID(context.Background(), videoA)
		require.NoError(t, err)
		assert.Equal(t, "Intro", v.Title)
		assert.Equal(t, int64(3), v.Views)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT .* FROM videos").
			WithArgs(videoB).
			WillReturnRows(pgxmock.NewRows(videoCols))

		_, err := s.FindVideoByID(context.Background(), videoB)
		assert.ErrorIs(t, err, ErrVideoNotFound)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectQuery("SELECT .* FROM videos").
			WithArgs(videoB).
			WillReturnError(errors.New("boom"))

		_, err := s.FindVideoByID(context.Background(), videoB)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrVideoNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_FindVideosByIDs(t *testing.T) {
	s, mock := setupMockStore(t)
	defer mock.Close()

	now := time.Now()
	ids := []string{videoA, videoB}
	mock.ExpectQuery("SELECT .* FROM videos\\s+WHERE id = ANY").
		WithArgs(ids).
		WillReturnRows(pgxmock.NewRows(videoCols).AddRow(
			videoA, "user-1", "Intro", "desc", "file", "thumb", 10.0, int64(3), true, now, now,
		))

	got, err := s.FindVideosByIDs(context.Background(), ids)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Contains(t, got, videoA)
	assert.NotContains(t, got, videoB)

	empty, err := s.FindVideosByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Update(t *testing.T) {
	s, mock := setupMockStore(t)
	defer mock.Close()

	title := "Renamed"
	patch := VideoPatch{Title: &title}
	now := time.Now()

	mock.ExpectQuery("UPDATE videos").
		WithArgs(videoA, patch.Title, patch.Description, patch.Thumbnail, patch.Duration, patch.Views, patch.IsPublished).
		WillReturnRows(pgxmock.NewRows(videoCols).AddRow(
			videoA, "user-1", "Renamed", "desc", "file", "thumb", 10.0, int64(3), true, now, now,
		))

	v, err := s.Update(context.Background(), videoA, patch)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", v.Title)

	mock.ExpectQuery("UPDATE videos").
		WithArgs(videoB, patch.Title, patch.Description, patch.Thumbnail, patch.Duration, patch.Views, patch.IsPublished).
		WillReturnRows(pgxmock.NewRows(videoCols))

	_, err = s.Update(context.Background(), videoB, patch)
	assert.ErrorIs(t, err, ErrVideoNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Delete(t *testing.T) {
	s, mock := setupMockStore(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM videos").
		WithArgs(videoA).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, s.Delete(context.Background(), videoA))

	mock.ExpectExec("DELETE FROM videos").
		WithArgs(videoB).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	assert.ErrorIs(t, s.Delete(context.Background(), videoB), ErrVideoNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
