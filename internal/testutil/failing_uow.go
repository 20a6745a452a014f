package testutil

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/ulpiano/internal/db"
)

// FailOnNthExecUoW runs fn in a real transaction but makes the FailOn-th
// ExecContext call (1-based) return Err. Reads are not counted.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int
	Err    error
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(ctx, &execTrap{DBTX: tx, remaining: u.FailOn, err: u.Err}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// execTrap counts down ExecContext calls. A single import runs on one
// goroutine, so no locking is needed.
type execTrap struct {
	db.DBTX
	remaining int
	err       error
}

func (e *execTrap) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	e.remaining--
	if e.remaining == 0 {
		return nil, e.err
	}
	return e.DBTX.ExecContext(ctx, query, args...)
}
