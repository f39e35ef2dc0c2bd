package repository

import (
	"context"
	"database/sql"

	"github.com/MelissaSequeira/reimburse-portal/pkg/database"
)

type txKey struct{}

// TxManager implements port.TransactionManager over the sqlite store.
// The open transaction travels in the context so repositories join it
// transparently.
type TxManager struct {
	db *database.DB
}

// NewTxManager creates a new transaction manager
func NewTxManager(db *database.DB) *TxManager {
	return &TxManager{db: db}
}

// WithTransaction executes fn inside a transaction.
func (m *TxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// queryer is the subset of database/sql shared by *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// queryerFrom returns the ambient transaction if one is in flight,
// otherwise the plain connection.
func queryerFrom(ctx context.Context, db *sql.DB) queryer {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}
