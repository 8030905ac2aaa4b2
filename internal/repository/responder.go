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
	ErrResponderNotFound = errors.New("responder not found")
	ErrUsernameTaken     = errors.New("username already taken")
)

type ResponderRepository interface {
	Create(responder *model.Responder) error
	ByID(id string) (*model.Responder, error)
	ByUsername(username string) (*model.Responder, error)
	All() ([]model.Responder, error)
	Delete(id string) error
}

type responderRepository struct {
	db *sqlx.DB
}

func NewResponderRepository(db *sqlx.DB) ResponderRepository {
	return &responderRepository{db: db}
}

func (r *responderRepository) Create(responder *model.Responder) error {
	if responder.ID == "" {
		responder.ID = uuid.New().String()
	}
	if responder.CreatedAt.IsZero() {
		responder.CreatedAt = time.Now()
	}
	responder.JoinKeywords()

	_, err := r.db.Exec(`
		INSERT INTO responders (id, username, profile_pic, keywords, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, responder.ID, responder.Username, responder.ProfilePic, responder.RawKeywords, responder.CreatedAt)

	return err
}

func (r *responderRepository) ByID(id string) (*model.Responder, error) {
	responder := &model.Responder{}
	err := r.db.Get(responder, `SELECT * FROM responders WHERE id = $1`, id)

	if err == sql.ErrNoRows {
		return nil, ErrResponderNotFound
	}
	if err != nil {
		return nil, err
	}

	responder.SplitKeywords()
	return responder, nil
}

func (r *responderRepository) ByUsername(username string) (*model.Responder, error) {
	responder := &model.Responder{}
	err := r.db.Get(responder, `SELECT * FROM responders WHERE username = $1`, username)

	if err == sql.ErrNoRows {
		return nil, ErrResponderNotFound
	}
	if err != nil {
		return nil, err
	}

	responder.SplitKeywords()
	return responder, nil
}

// All returns every directory profile. The directory is small by
// design; filtering happens in memory on the snapshot.
func (r *responderRepository) All() ([]model.Responder, error) {
	var responders []model.Responder
	err := r.db.Select(&responders, `SELECT * FROM responders ORDER BY username ASC`)
	if err != nil {
		return nil, err
	}

	for i := range responders {
		responders[i].SplitKeywords()
	}

	return responders, nil
}

func (r *responderRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM responders WHERE id = $1`, id)
	return err
}
