package services

import (
	"context"
	"database/sql"
)

// TxRunner executes a function inside a database transaction, committing on
// nil and rolling back on error. The postgres client satisfies this.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}
