package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/content365/content365/internal/model"
)

var ErrPackNotFound = errors.New("pack not found")

type PackRepository interface {
	Create(pack *model.Pack) error
	ByFilename(filename string) (*model.Pack, error)
	MarkEmailed(id string) error
	Recent(limit int) ([]*model.Pack, error)
	Count() (int, error)
}

type packRepository struct {
	db *sqlx.DB
}

func NewPackRepository(db *sqlx.DB) *packRepository {
	return &packRepository{db: db}
}

func (r *packRepository) Create(pack *model.Pack) error {
	query := `INSERT INTO packs (id, topic, tone, audience, platforms, email, filename, status, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(query,
		pack.ID,
		pack.Topic,
		pack.Tone,
		pack.Audience,
		pack.Platforms,
		pack.Email,
		pack.Filename,
		pack.Status,
		pack.CreatedAt,
	)

	return err
}

func (r *packRepository) ByFilename(filename string) (*model.Pack, error) {
	pack := &model.Pack{}
	query := `SELECT * FROM packs WHERE filename = $1`

	err := r.db.Get(pack, query, filename)
	if err == sql.ErrNoRows {
		return nil, ErrPackNotFound
	}

	return pack, err
}

func (r *packRepository) MarkEmailed(id string) error {
	query := `UPDATE packs SET status = $1 WHERE id = $2`
	_, err := r.db.Exec(query, model.PackStatusEmailed, id)
	return err
}

func (r *packRepository) Recent(limit int) ([]*model.Pack, error) {
	var packs []*model.Pack
	query := `SELECT * FROM packs ORDER BY created_at DESC LIMIT $1`

	err := r.db.Select(&packs, query, limit)
	if err != nil {
		return nil, err
	}

	return packs, nil
}

func (r *packRepository) Count() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM packs`)
	return n, err
}
