package postgres

import (
	"context"
	"errors"
	"fmt"

	"blogicum/internal/service"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrBuildingQuery = errors.New("error building sql-query")

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

//go:generate mockgen -source=db.go -destination=./mocks/db_mock.go -package=mocks
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// conn is embedded by every storage; it hands out the transaction stored in
// ctx by the transaction manager, or the pool when there is none.
type conn struct {
	db     DB
	getter *trmpgx.CtxGetter
}

func (c conn) tr(ctx context.Context) DB {
	if tr := c.getter.DefaultTrOrDB(ctx, nil); tr != nil {
		return tr
	}
	return c.db
}

// mapError translates driver errors into service errors and wraps the rest
// with op.
func mapError(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return service.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, service.ErrConflict)
		case foreignKeyViolation:
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, service.ErrNotFound)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
