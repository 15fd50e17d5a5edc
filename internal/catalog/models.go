package catalog

import (
	"errors"
	"time"
)

// Video is the source of truth for a video's display fields. Playlists copy
// these fields into their own snapshots.
type Video struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoFile   string    `json:"videoFile"`
	Thumbnail   string    `json:"thumbnail"`
	Duration    float64   `json:"duration"` // seconds
	Views       int64     `json:"views"`
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// VideoPatch carries optional field changes for Update.
type VideoPatch struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Thumbnail   *string  `json:"thumbnail"`
	Duration    *float64 `json:"duration"`
	Views       *int64   `json:"views"`
	IsPublished *bool    `json:"isPublished"`
}

func (p VideoPatch) empty() bool {
	return p.Title == nil && p.Description == nil && p.Thumbnail == nil &&
		p.Duration == nil && p.Views == nil && p.IsPublished == nil
}

var ErrVideoNotFound = errors.New("video not found")
