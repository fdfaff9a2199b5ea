package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/content365/content365/internal/model"
)

var (
	ErrCheckoutNotFound = errors.New("checkout request not found")
	ErrCheckoutConsumed = errors.New("checkout request already consumed")
)

type CheckoutRepository interface {
	Create(req *model.CheckoutRequest) error
	ByID(id string) (*model.CheckoutRequest, error)
	// Consume marks the request used so a success URL cannot be replayed
	// for further generations. Returns ErrCheckoutConsumed when a prior
	// call already claimed it.
	Consume(id string) error
	DeleteOlderThan(cutoff time.Time) (int64, error)
}

type checkoutRepository struct {
	db *sqlx.DB
}

func NewCheckoutRepository(db *sqlx.DB) *checkoutRepository {
	return &checkoutRepository{db: db}
}

func (r *checkoutRepository) Create(req *model.CheckoutRequest) error {
	query := `INSERT INTO checkout_requests (id, provider, request, consumed_at, created_at)
	          VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(query,
		req.ID,
		req.Provider,
		req.Request,
		req.ConsumedAt,
		req.CreatedAt,
	)

	return err
}

func (r *checkoutRepository) ByID(id string) (*model.CheckoutRequest, error) {
	req := &model.CheckoutRequest{}
	query := `SELECT * FROM checkout_requests WHERE id = $1`

	err := r.db.Get(req, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrCheckoutNotFound
	}

	return req, err
}

func (r *checkoutRepository) Consume(id string) error {
	query := `UPDATE checkout_requests SET consumed_at = $1 WHERE id = $2 AND consumed_at IS NULL`

	res, err := r.db.Exec(query, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCheckoutConsumed
	}
	return nil
}

func (r *checkoutRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM checkout_requests WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
