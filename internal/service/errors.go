package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/atlekbai/timesheet/internal/invoice"
	"github.com/atlekbai/timesheet/internal/repository"
)

// connectError maps domain errors onto connect codes.
func connectError(err error) error {
	if err == nil {
		return nil
	}
	var (
		verr validation.Errors
		serr *sqlite.Error
	)
	switch {
	case errors.As(err, &verr):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.As(err, &serr) && duplicate(serr.Code()):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, repository.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, invoice.ErrIncomplete):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}

func duplicate(code int) bool {
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}
