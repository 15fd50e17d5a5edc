package playlist

import (
	"context"
	"fmt"
)

func AutoMigrate(ctx context.Context, db DB) error {
	if _, err := db.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS playlists (
          id          uuid PRIMARY KEY DEFAULT gen_random_uuid(),
          owner_id    TEXT NOT NULL,
          name        TEXT NOT NULL,
          description TEXT NOT NULL,
          videos      JSONB NOT NULL DEFAULT '[]'::jsonb,
          created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
          updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
      )
    `); err != nil {
		return fmt.Errorf("migrate playlists: %w", err)
	}

	// videos must stay an array for the || and @> operators.
	if _, err := db.Exec(ctx, `
		DO $$
		BEGIN
		    ALTER TABLE playlists
		        ADD CONSTRAINT playlists_videos_is_array CHECK (jsonb_typeof(videos) = 'array');
		EXCEPTION WHEN duplicate_object THEN NULL;
		END $$
	`); err != nil {
		return fmt.Errorf("migrate playlists videos check: %w", err)
	}

	if _, err := db.Exec(ctx, `
      CREATE INDEX IF NOT EXISTS idx_playlists_owner
      ON playlists(owner_id, created_at DESC)
    `); err != nil {
		return fmt.Errorf("migrate playlists owner index: %w", err)
	}

	if _, err := db.Exec(ctx, `
      CREATE INDEX IF NOT EXISTS idx_playlists_videos
      ON playlists USING GIN (videos jsonb_path_ops)
    `); err != nil {
		return fmt.Errorf("migrate playlists videos index: %w", err)
	}

	return nil
}
