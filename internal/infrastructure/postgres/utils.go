package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// pgQueryCanceled SQLSTATE 57014: la consulta superó statement_timeout o fue cancelada.
const pgQueryCanceled = "57014"

// classifyError marca con context.DeadlineExceeded los timeouts del servidor o del cliente,
// conservando el error original en la cadena.
func classifyError(err error) error {
	if err == nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgQueryCanceled {
		return fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
	}
	if pgconn.Timeout(err) {
		return fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
	}
	return err
}
