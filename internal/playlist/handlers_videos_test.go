package playlist

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"video-playlist-service/internal/catalog"
)

func TestHandleAddVideo(t *testing.T) {
	v := sampleVideo(videoA, "Intro")

	tests := []struct {
		name      string
		playlist  string
		video     string
		mockSetup func(*MockStore, *MockCatalog)
		wantCode  int
		wantErr   string
	}{
		{
			name:     "Invalid Playlist ID",
			playlist: "bad",
			video:    videoA,
			wantCode: http.StatusBadRequest,
			wantErr:  "invalid playlist id",
		},
		{
			name:     "Invalid Video ID",
			playlist: playlistA,
			video:    "bad",
			wantCode: http.StatusBadRequest,
			wantErr:  "invalid video id",
		},
		{
			name:     "Video Not Found",
			playlist: playlistA,
			video:    videoA,
			mockSetup: func(s *MockStore, c *MockCatalog) {
				c.On("FindVideoByID", mock.Anything, videoA).Return(catalog.Video{}, catalog.ErrVideoNotFound)
			},
			wantCode: http.StatusNotFound,
			wantErr:  "video not found",
		},
		{
			name:     "Playlist Not Found",
			playlist: playlistA,
			video:    videoA,
			mockSetup: func(s *MockStore, c *MockCatalog) {
				c.On("FindVideoByID", mock.Anything, videoA).Return(v, nil)
				s.On("AddVideo", mock.Anything, playlistA, snapshotOf(v)).Return(nil, errPlaylistNotFound)
			},
			wantCode: http.StatusNotFound,
			wantErr:  "playlist not found",
		},
		{
			name:     "Duplicate",
			playlist: playlistA,
			video:    videoA,
			mockSetup: func(s *MockStore, c *MockCatalog) {
				c.On("FindVideoByID", mock.Anything, videoA).Return(v, nil)
				s.On("AddVideo", mock.Anything, playlistA, snapshotOf(v)).Return(nil, errVideoAlreadyMember)
			},
			wantCode: http.StatusConflict,
			wantErr:  "video already in playlist",
		},
		{
			name:     "Catalog Down",
			playlist: playlistA,
			video:    videoA,
			mockSetup: func(s *MockStore, c *MockCatalog) {
				c.On("FindVideoByID", mock.Anything, videoA).Return(catalog.Video{}, errors.New("timeout"))
			},
			wantCode: http.StatusInternalServerError,
			wantErr:  "internal error",
		},
		{
			name:     "Success",
			playlist: playlistA,
			video:    videoA,
			mockSetup: func(s *MockStore, c *MockCatalog) {
				c.On("FindVideoByID", mock.Anything, videoA).Return(v, nil)
				s.On("AddVideo", mock.Anything, playlistA, snapshotOf(v)).
					Return(&Playlist{ID: playlistA, Videos: []VideoSnapshot{snapshotOf(v)}}, nil)
			},
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, store, videos := newTestServer()
			if tt.mockSetup != nil {
				tt.mockSetup(store, videos)
			}

			w := doRequest(srv, http.MethodPost, "/playlists/"+tt.playlist+"/videos/"+tt.video, nil, "user-1")

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, errorBody(t, w))
			}
			if tt.wantCode == http.StatusOK {
				var pl Playlist
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pl))
				require.Len(t, pl.Videos, 1)
				assert.Equal(t, "Intro", pl.Videos[0].Title)
			}
		})
	}
}

func TestHandleRemoveVideo(t *testing.T) {
	t.Run("Removed", func(t *testing.T) {
		srv, store, _ := newTestServer()
		store.On("RemoveVideo", mock.Anything, playlistA, videoA).
			Return(&Playlist{ID: playlistA, Videos: []VideoSnapshot{}}, 1, nil)

		w := doRequest(srv, http.MethodDelete, "/playlists/"+playlistA+"/videos/"+videoA, nil, "user-1")

		require.Equal(t, http.StatusOK, w.Code)
		var res RemoveResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, 1, res.Removed)
		assert.Equal(t, videoA, res.VideoID)
		assert.Empty(t, res.Playlist.Videos)
	})

	t.Run("Not A Member", func(t *testing.T) {
		srv, store, _ := newTestServer()
		store.On("RemoveVideo", mock.Anything, playlistA, videoB).
			Return(&Playlist{ID: playlistA, Videos: []VideoSnapshot{{VideoID: videoA}}}, 0, nil)

		w := doRequest(srv, http.MethodDelete, "/playlists/"+playlistA+"/videos/"+videoB, nil, "user-1")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"removed":0`)
	})

	t.Run("Playlist Not Found", func(t *testing.T) {
		srv, store, _ := newTestServer()
		store.On("RemoveVideo", mock.Anything, playlistA, videoA).Return(nil, 0, errPlaylistNotFound)

		w := doRequest(srv, http.MethodDelete, "/playlists/"+playlistA+"/videos/"+videoA, nil, "user-1")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Invalid Video ID", func(t *testing.T) {
		srv, _, _ := newTestServer()

		w := doRequest(srv, http.MethodDelete, "/playlists/"+playlistA+"/videos/xyz", nil, "user-1")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleResyncPlaylist(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		srv, store, videos := newTestServer()
		updated := sampleVideo(videoA, "Renamed")
		store.On("Get", mock.Anything, playlistA).
			Return(&Playlist{ID: playlistA, Videos: []VideoSnapshot{{VideoID: videoA, Title: "Intro"}}}, nil)
		videos.On("FindVideosByIDs", mock.Anything, []string{videoA}).
			Return(map[string]catalog.Video{videoA: updated}, nil)
		store.On("RefreshVideos", mock.Anything, playlistA, map[string]VideoSnapshot{videoA: snapshotOf(updated)}).
			Return(&Playlist{ID: playlistA, Videos: []VideoSnapshot{snapshotOf(updated)}}, nil)

		w := doRequest(srv, http.MethodPost, "/playlists/"+playlistA+"/resync", nil, "user-1")

		require.Equal(t, http.StatusOK, w.Code)
		var res ResyncResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, 1, res.Refreshed)
		assert.Empty(t, res.Missing)
		assert.Equal(t, "Renamed", res.Playlist.Videos[0].Title)
	})

	t.Run("Not Found", func(t *testing.T) {
		srv, store, _ := newTestServer()
		store.On("Get", mock.Anything, playlistA).Return(nil, errPlaylistNotFound)

		w := doRequest(srv, http.MethodPost, "/playlists/"+playlistA+"/resync", nil, "user-1")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
