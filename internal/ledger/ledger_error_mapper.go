package ledger

import (
	"errors"
	"strings"

	ledgererrors "go-erp/internal/ledger/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const commitRequestConstraint = "uq_ledger_commits_request"

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == commitRequestConstraint {
			return ledgererrors.ErrAlreadyCommitted
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, commitRequestConstraint) {
		return ledgererrors.ErrAlreadyCommitted
	}

	return err
}
