package playlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is implemented by *pgxpool.Pool and by pgxmock in tests.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store persists playlist documents. Every mutation is a single statement,
// so membership changes never go through a read-modify-write in Go.
type Store interface {
	Create(ctx context.Context, pl *Playlist) error
	Get(ctx context.Context, id string) (*Playlist, error)
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]Playlist, error)
	UpdateDetails(ctx context.Context, id, name, description string) (*Playlist, error)
	Delete(ctx context.Context, id string) error
	AddVideo(ctx context.Context, id string, snap VideoSnapshot) (*Playlist, error)
	RemoveVideo(ctx context.Context, id, videoID string) (*Playlist, int, error)
	RefreshVideos(ctx context.Context, id string, fresh map[string]VideoSnapshot) (*Playlist, error)
}

type PostgresStore struct {
	db DB
}

func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const playlistColumns = `id, owner_id, name, description, videos, created_at, updated_at`

// containsVideo matches documents whose videos array has an element with the
// given videoId; served by the jsonb_path_ops GIN index.
const containsVideo = `videos @> jsonb_build_array(jsonb_build_object('videoId', $2::text))`

func scanPlaylist(row pgx.Row) (*Playlist, error) {
	var (
		pl  Playlist
		raw []byte
	)
	if err := row.Scan(
		&pl.ID,
		&pl.OwnerID,
		&pl.Name,
		&pl.Description,
		&raw,
		&pl.CreatedAt,
		&pl.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := decodeVideos(raw, &pl); err != nil {
		return nil, err
	}
	return &pl, nil
}

func decodeVideos(raw []byte, pl *Playlist) error {
	pl.Videos = []VideoSnapshot{}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, &pl.Videos); err != nil {
		return fmt.Errorf("decode videos of playlist %s: %w", pl.ID, err)
	}
	if pl.Videos == nil {
		pl.Videos = []VideoSnapshot{}
	}
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, pl *Playlist) error {
	err := s.db.QueryRow(ctx, `
		INSERT INTO playlists (id, owner_id, name, description)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at, updated_at
	`, pl.ID, pl.OwnerID, pl.Name, pl.Description).Scan(&pl.CreatedAt, &pl.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert playlist: %w", err)
	}
	pl.Videos = []VideoSnapshot{}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Playlist, error) {
	pl, err := scanPlaylist(s.db.QueryRow(ctx, `
		SELECT `+playlistColumns+`
		FROM playlists
		WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errPlaylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select playlist: %w", err)
	}
	return pl, nil
}

func (s *PostgresStore) ListByOwner(ctx context.Context, ownerID string, limit int) ([]Playlist, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+playlistColumns+`
		FROM playlists
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	defer rows.Close()

	playlists := []Playlist{}
	for rows.Next() {
		pl, err := scanPlaylist(rows)
		if err != nil {
			return nil, fmt.Errorf("list playlists scan: %w", err)
		}
		playlists = append(playlists, *pl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list playlists rows: %w", err)
	}
	return playlists, nil
}

func (s *PostgresStore) UpdateDetails(ctx context.Context, id, name, description string) (*Playlist, error) {
	pl, err := scanPlaylist(s.db.QueryRow(ctx, `
		UPDATE playlists
		SET name        = $2,
		    description = $3,
		    updated_at  = now()
		WHERE id = $1
		RETURNING `+playlistColumns,
		id, name, description))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errPlaylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update playlist: %w", err)
	}
	return pl, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errPlaylistNotFound
	}
	return nil
}

// AddVideo appends snap unless the playlist already holds that videoId. The
// check and the append are one UPDATE: Postgres re-evaluates the WHERE clause
// against the latest row version after waiting on a concurrent writer, so
// two racing adds cannot both succeed.
func (s *PostgresStore) AddVideo(ctx context.Context, id string, snap VideoSnapshot) (*Playlist, error) {
	doc, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	pl, err := scanPlaylist(s.db.QueryRow(ctx, `
		UPDATE playlists
		SET videos     = videos || jsonb_build_array($3::jsonb),
		    updated_at = now()
		WHERE id = $1
		  AND NOT `+containsVideo+`
		RETURNING `+playlistColumns,
		id, snap.VideoID, string(doc)))
	if err == nil {
		return pl, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("add video: %w", err)
	}

	exists, err := s.exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errPlaylistNotFound
	}
	return nil, errVideoAlreadyMember
}

// RemoveVideo drops the snapshot with videoID and reports how many were
// removed. Removing a non-member leaves the row (and updated_at) untouched.
func (s *PostgresStore) RemoveVideo(ctx context.Context, id, videoID string) (*Playlist, int, error) {
	pl, err := scanPlaylist(s.db.QueryRow(ctx, `
		UPDATE playlists
		SET videos = COALESCE((
		        SELECT jsonb_agg(elem ORDER BY ord)
		        FROM jsonb_array_elements(videos) WITH ORDINALITY AS t(elem, ord)
		        WHERE elem->>'videoId' <> $2::text
		    ), '[]'::jsonb),
		    updated_at = now()
		WHERE id = $1
		  AND `+containsVideo+`
		RETURNING `+playlistColumns,
		id, videoID))
	if err == nil {
		return pl, 1, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, 0, fmt.Errorf("remove video: %w", err)
	}

	pl, err = s.Get(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	return pl, 0, nil
}

// RefreshVideos replaces every snapshot whose videoId is a key of fresh,
// keeping order and leaving other snapshots as they are. It maps over the
// row's current array, so memberships changed since the caller read the
// playlist are preserved.
func (s *PostgresStore) RefreshVideos(ctx context.Context, id string, fresh map[string]VideoSnapshot) (*Playlist, error) {
	doc, err := json.Marshal(fresh)
	if err != nil {
		return nil, fmt.Errorf("encode snapshots: %w", err)
	}

	pl, err := scanPlaylist(s.db.QueryRow(ctx, `
		UPDATE playlists
		SET videos = COALESCE((
		        SELECT jsonb_agg(COALESCE($2::jsonb -> (elem->>'videoId'), elem) ORDER BY ord)
		        FROM jsonb_array_elements(videos) WITH ORDINALITY AS t(elem, ord)
		    ), '[]'::jsonb),
		    updated_at = now()
		WHERE id = $1
		RETURNING `+playlistColumns,
		id, string(doc)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errPlaylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("refresh videos: %w", err)
	}
	return pl, nil
}

func (s *PostgresStore) exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := s.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM playlists WHERE id = $1)
	`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("playlist exists: %w", err)
	}
	return exists, nil
}
