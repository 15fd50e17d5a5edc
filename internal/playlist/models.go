package playlist

import (
	"time"

	"video-playlist-service/internal/catalog"
)

// Playlist is stored as one document: its metadata plus the embedded,
// ordered Videos array.
type Playlist struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"ownerId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Videos      []VideoSnapshot `json:"videos"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// VideoSnapshot is a point-in-time copy of a catalog video's display fields.
// It is not refreshed when the source video changes; only ResyncPlaylist
// rewrites it. VideoID is unique within a playlist.
type VideoSnapshot struct {
	VideoID     string    `json:"videoId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoFile   string    `json:"videoFile"`
	Thumbnail   string    `json:"thumbnail"`
	Duration    float64   `json:"duration"`
	Views       int64     `json:"views"`
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
}

func snapshotOf(v catalog.Video) VideoSnapshot {
	return VideoSnapshot{
		VideoID:     v.ID,
		Title:       v.Title,
		Description: v.Description,
		VideoFile:   v.VideoFile,
		Thumbnail:   v.Thumbnail,
		Duration:    v.Duration,
		Views:       v.Views,
		IsPublished: v.IsPublished,
		CreatedAt:   v.CreatedAt,
	}
}

// equal compares field values; CreatedAt by instant, since snapshots read
// back from the document carry a different location than catalog rows.
func (s VideoSnapshot) equal(o VideoSnapshot) bool {
	return s.VideoID == o.VideoID &&
		s.Title == o.Title &&
		s.Description == o.Description &&
		s.VideoFile == o.VideoFile &&
		s.Thumbnail == o.Thumbnail &&
		s.Duration == o.Duration &&
		s.Views == o.Views &&
		s.IsPublished == o.IsPublished &&
		s.CreatedAt.Equal(o.CreatedAt)
}

// CreateInput and UpdateInput are the request bodies of create and update.
type CreateInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdateInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type RemoveResult struct {
	PlaylistID string    `json:"playlistId"`
	VideoID    string    `json:"videoId"`
	Removed    int       `json:"removed"`
	Playlist   *Playlist `json:"playlist"`
}

type ResyncResult struct {
	Playlist  *Playlist `json:"playlist"`
	Refreshed int       `json:"refreshed"`
	Missing   []string  `json:"missing"`
}

const (
	maxNameLen        = 200
	maxDescriptionLen = 1000
	listLimit         = 200
)
