package playlist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"video-playlist-service/internal/catalog"
)

// VideoCatalog is the part of the catalog the membership manager reads.
type VideoCatalog interface {
	FindVideoByID(ctx context.Context, id string) (catalog.Video, error)
	FindVideosByIDs(ctx context.Context, ids []string) (map[string]catalog.Video, error)
}

// Service is the playlist membership manager.
type Service struct {
	store   Store
	catalog VideoCatalog
}

func NewService(store Store, videos VideoCatalog) *Service {
	return &Service{store: store, catalog: videos}
}

func (s *Service) CreatePlaylist(ctx context.Context, in CreateInput, ownerID string) (*Playlist, error) {
	name, desc, err := validateDetails(in.Name, in.Description)
	if err != nil {
		return nil, err
	}
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, validationErr("owner is required")
	}

	pl := &Playlist{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        name,
		Description: desc,
	}
	if err := s.store.Create(ctx, pl); err != nil {
		return nil, err
	}
	return pl, nil
}

func (s *Service) GetPlaylistByID(ctx context.Context, playlistID string) (*Playlist, error) {
	playlistID, err := canonicalID("playlist", playlistID)
	if err != nil {
		return nil, err
	}
	pl, err := s.store.Get(ctx, playlistID)
	if err != nil {
		return nil, translate(err, playlistID)
	}
	return pl, nil
}

func (s *Service) ListUserPlaylists(ctx context.Context, ownerID string) ([]Playlist, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, validationErr("user id is required")
	}
	return s.store.ListByOwner(ctx, ownerID, listLimit)
}

func (s *Service) UpdatePlaylist(ctx context.Context, playlistID string, in UpdateInput) (*Playlist, error) {
	playlistID, err := canonicalID("playlist", playlistID)
	if err != nil {
		return nil, err
	}
	name, desc, err := validateDetails(in.Name, in.Description)
	if err != nil {
		return nil, err
	}
	pl, err := s.store.UpdateDetails(ctx, playlistID, name, desc)
	if err != nil {
		return nil, translate(err, playlistID)
	}
	return pl, nil
}

func (s *Service) DeletePlaylist(ctx context.Context, playlistID string) error {
	playlistID, err := canonicalID("playlist", playlistID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, playlistID); err != nil {
		return translate(err, playlistID)
	}
	return nil
}

// AddVideoToPlaylist snapshots the video's current catalog fields into the
// playlist. Adding a video that is already a member is a ConflictError.
func (s *Service) AddVideoToPlaylist(ctx context.Context, playlistID, videoID string) (*Playlist, error) {
	playlistID, err := canonicalID("playlist", playlistID)
	if err != nil {
		return nil, err
	}
	videoID, err = canonicalID("video", videoID)
	if err != nil {
		return nil, err
	}

	video, err := s.catalog.FindVideoByID(ctx, videoID)
	if errors.Is(err, catalog.ErrVideoNotFound) {
		return nil, &NotFoundError{Resource: "video", ID: videoID}
	}
	if err != nil {
		return nil, fmt.Errorf("lookup video %s: %w", videoID, err)
	}

	pl, err := s.store.AddVideo(ctx, playlistID, snapshotOf(video))
	if errors.Is(err, errVideoAlreadyMember) {
		return nil, &ConflictError{Msg: "video already in playlist"}
	}
	if err != nil {
		return nil, translate(err, playlistID)
	}
	return pl, nil
}

// RemoveVideoFromPlaylist does not consult the catalog: a snapshot can be
// removed after its video was deleted. Removing a non-member is a no-op with
// Removed == 0.
func (s *Service) RemoveVideoFromPlaylist(ctx context.Context, playlistID, videoID string) (*RemoveResult, error) {
	playlistID, err := canonicalID("playlist", playlistID)
	if err != nil {
		return nil, err
	}
	videoID, err = canonicalID("video", videoID)
	if err != nil {
		return nil, err
	}

	pl, removed, err := s.store.RemoveVideo(ctx, playlistID, videoID)
	if err != nil {
		return nil, translate(err, playlistID)
	}
	return &RemoveResult{
		PlaylistID: playlistID,
		VideoID:    videoID,
		Removed:    removed,
		Playlist:   pl,
	}, nil
}

// ResyncPlaylist refreshes snapshots from the catalog. Snapshots whose video
// no longer exists are kept unchanged and reported in Missing. Refreshed
// counts the snapshots that actually changed and are still in the playlist.
func (s *Service) ResyncPlaylist(ctx context.Context, playlistID string) (*ResyncResult, error) {
	pl, err := s.GetPlaylistByID(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	playlistID = pl.ID
	if len(pl.Videos) == 0 {
		return &ResyncResult{Playlist: pl, Missing: []string{}}, nil
	}

	ids := make([]string, len(pl.Videos))
	for i, v := range pl.Videos {
		ids[i] = v.VideoID
	}
	videos, err := s.catalog.FindVideosByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("lookup videos: %w", err)
	}

	changed := make(map[string]VideoSnapshot)
	missing := []string{}
	for _, old := range pl.Videos {
		v, ok := videos[old.VideoID]
		if !ok {
			missing = append(missing, old.VideoID)
			continue
		}
		if snap := snapshotOf(v); !snap.equal(old) {
			changed[old.VideoID] = snap
		}
	}

	refreshed := 0
	if len(changed) > 0 {
		pl, err = s.store.RefreshVideos(ctx, playlistID, changed)
		if err != nil {
			return nil, translate(err, playlistID)
		}
		// A concurrent remove may have dropped some of them.
		for _, v := range pl.Videos {
			if _, ok := changed[v.VideoID]; ok {
				refreshed++
			}
		}
	}

	return &ResyncResult{
		Playlist:  pl,
		Refreshed: refreshed,
		Missing:   missing,
	}, nil
}

func validateDetails(name, description string) (string, string, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" || description == "" {
		return "", "", validationErr("All fields are required")
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "", "", validationErr("name must be between 1 and %d characters", maxNameLen)
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return "", "", validationErr("description is too long")
	}
	return name, description, nil
}

// canonicalID returns id in lowercase hyphenated form so that it compares
// equal to the ids stored inside snapshot documents.
func canonicalID(kind, id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", validationErr("missing %s id", kind)
	}
	u, err := uuid.Parse(id)
	if err != nil {
		return "", validationErr("invalid %s id", kind)
	}
	return u.String(), nil
}

func translate(err error, playlistID string) error {
	if errors.Is(err, errPlaylistNotFound) {
		return &NotFoundError{Resource: "playlist", ID: playlistID}
	}
	return err
}
