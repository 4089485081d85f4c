package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
)

type Transactor struct {
	db DBTX
}

func NewTransactor(db DBTX) *Transactor {
	return &Transactor{db: db}
}

// WithinTx runs fn in a transaction. Inside an outer transaction Begin
// creates a savepoint.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
