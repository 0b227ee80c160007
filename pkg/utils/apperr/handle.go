package apperr

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Handle logs an error that reached the top of a command. goerr values are
// attached so the console handler can print them.
func Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	logger := ctxlog.From(ctx)
	if goErr := goerr.Unwrap(err); goErr != nil {
		logger.Error("application error", "error", goErr, "values", goErr.Values())
		return
	}
	logger.Error("application error", "error", err)
}
