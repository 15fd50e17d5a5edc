package catalog

import (
	"context"
	"fmt"
)

func AutoMigrate(ctx context.Context, db DB) error {
	if _, err := db.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS videos (
          id           uuid PRIMARY KEY DEFAULT gen_random_uuid(),
          owner_id     TEXT NOT NULL,
          title        TEXT NOT NULL,
          description  TEXT NOT NULL,
          video_file   TEXT NOT NULL,
          thumbnail    TEXT NOT NULL,
          duration     DOUBLE PRECISION NOT NULL DEFAULT 0,
          views        BIGINT NOT NULL DEFAULT 0,
          is_published BOOLEAN NOT NULL DEFAULT TRUE,
          created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
          updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
      )
    `); err != nil {
		return fmt.Errorf("migrate videos: %w", err)
	}

	if _, err := db.Exec(ctx, `
      CREATE INDEX IF NOT EXISTS idx_videos_owner
      ON videos(owner_id, created_at DESC)
    `); err != nil {
		return fmt.Errorf("migrate videos owner index: %w", err)
	}

	return nil
}
