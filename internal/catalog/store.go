package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is implemented by *pgxpool.Pool and by pgxmock in tests.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Catalog is the read/write surface of the video catalog.
type Catalog interface {
	Create(ctx context.Context, v *Video) error
	FindVideoByID(ctx context.Context, id string) (Video, error)
	FindVideosByIDs(ctx context.Context, ids []string) (map[string]Video, error)
	Update(ctx context.Context, id string, patch VideoPatch) (Video, error)
	Delete(ctx context.Context, id string) error
}

type PostgresStore struct {
	db DB
}

func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const videoColumns = `id, owner_id, title, description, video_file, thumbnail,
		       duration, views, is_published, created_at, updated_at`

func scanVideo(row pgx.Row) (Video, error) {
	var v Video
	err := row.Scan(
		&v.ID,
		&v.OwnerID,
		&v.Title,
		&v.Description,
		&v.VideoFile,
		&v.Thumbnail,
		&v.Duration,
		&v.Views,
		&v.IsPublished,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	return v, err
}

func (s *PostgresStore) Create(ctx context.Context, v *Video) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	err := s.db.QueryRow(ctx, `
		INSERT INTO videos (id, owner_id, title, description, video_file, thumbnail, duration, views, is_published)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at, updated_at
	`, v.ID, v.OwnerID, v.Title, v.Description, v.VideoFile, v.Thumbnail, v.Duration, v.Views, v.IsPublished).
		Scan(&v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert video: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindVideoByID(ctx context.Context, id string) (Video, error) {
	v, err := scanVideo(s.db.QueryRow(ctx, `
		SELECT `+videoColumns+`
		FROM videos
		WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Video{}, ErrVideoNotFound
	}
	if err != nil {
		return Video{}, fmt.Errorf("select video: %w", err)
	}
	return v, nil
}

// FindVideosByIDs returns the videos that exist; absent ids are simply not
// present in the map.
func (s *PostgresStore) FindVideosByIDs(ctx context.Context, ids []string) (map[string]Video, error) {
	out := make(map[string]Video, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := s.db.Query(ctx, `
		SELECT `+videoColumns+`
		FROM videos
		WHERE id = ANY($1::text[]::uuid[])
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("select videos: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		out[v.ID] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select videos rows: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Update(ctx context.Context, id string, patch VideoPatch) (Video, error) {
	v, err := scanVideo(s.db.QueryRow(ctx, `
		UPDATE videos
		SET title        = COALESCE($2, title),
		    description  = COALESCE($3, description),
		    thumbnail    = COALESCE($4, thumbnail),
		    duration     = COALESCE($5, duration),
		    views        = COALESCE($6, views),
		    is_published = COALESCE($7, is_published),
		    updated_at   = now()
		WHERE id = $1
		RETURNING `+videoColumns,
		id, patch.Title, patch.Description, patch.Thumbnail, patch.Duration, patch.Views, patch.IsPublished))
	if errors.Is(err, pgx.ErrNoRows) {
		return Video{}, ErrVideoNotFound
	}
	if err != nil {
		return Video{}, fmt.Errorf("update video: %w", err)
	}
	return v, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrVideoNotFound
	}
	return nil
}
