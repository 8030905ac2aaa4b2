package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/askloop/askloop/internal/model"
)

var (
	ErrClipNotFound = errors.New("clip not found")
)

type ClipRepository interface {
	Create(clip *model.Clip) error
	ByID(id string) (*model.Clip, error)
	ByStorageKey(key string) (*model.Clip, error)
	Recent(limit int, before time.Time, beforeID string) ([]*model.Clip, error)
	Count() (int, error)
	Delete(id string) error
}

type clipRepository struct {
	db *sqlx.DB
}

func NewClipRepository(db *sqlx.DB) ClipRepository {
	return &clipRepository{db: db}
}

func (r *clipRepository) Create(clip *model.Clip) error {
	if clip.ID == "" {
		clip.ID = uuid.New().String()
	}
	if clip.CreatedAt.IsZero() {
		clip.CreatedAt = time.Now()
	}
	// UTC keeps stored timestamps comparable regardless of the zone
	// the caller stamped them in.
	clip.CreatedAt = clip.CreatedAt.UTC()

	query := `INSERT INTO clips (id, title, responder, kind, storage_key, content_type, size, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(query,
		clip.ID,
		clip.Title,
		clip.Responder,
		clip.Kind,
		clip.StorageKey,
		clip.ContentType,
		clip.Size,
		clip.CreatedAt,
	)

	return err
}

func (r *clipRepository) ByID(id string) (*model.Clip, error) {
	clip := &model.Clip{}
	query := `SELECT * FROM clips WHERE id = $1`

	err := r.db.Get(clip, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrClipNotFound
	}

	return clip, err
}

func (r *clipRepository) ByStorageKey(key string) (*model.Clip, error) {
	clip := &model.Clip{}
	query := `SELECT * FROM clips WHERE storage_key = $1`

	err := r.db.Get(clip, query, key)
	if err == sql.ErrNoRows {
		return nil, ErrClipNotFound
	}

	return clip, err
}

// Recent returns clips newest first. A zero before time starts from the
// top; otherwise only clips strictly before the (before, beforeID)
// keyset position are returned. The id tie-break keeps rows sharing a
// timestamp from being skipped when a page boundary lands between them.
func (r *clipRepository) Recent(limit int, before time.Time, beforeID string) ([]*model.Clip, error) {
	var clips []*model.Clip

	if before.IsZero() {
		query := `SELECT * FROM clips ORDER BY created_at DESC, id DESC LIMIT $1`
		err := r.db.Select(&clips, query, limit)
		return clips, err
	}

	query := `SELECT * FROM clips
	          WHERE created_at < $1 OR (created_at = $2 AND id < $3)
	          ORDER BY created_at DESC, id DESC LIMIT $4`
	err := r.db.Select(&clips, query, before, before, beforeID, limit)
	return clips, err
}

func (r *clipRepository) Count() (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM clips`)
	return count, err
}

func (r *clipRepository) Delete(id string) error {
	query := `DELETE FROM clips WHERE id = $1`
	_, err := r.db.Exec(query, id)
	return err
}
