package application

import (
	stderrors "errors"

	"github.com/wms-platform/warehouse-ops/internal/domain"
	"github.com/wms-platform/warehouse-ops/pkg/errors"
)

// toAppError maps domain sentinels onto API errors. Unknown errors become
// internal errors that keep the cause for logging.
func toAppError(resource string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr
	}

	switch {
	case stderrors.Is(err, domain.ErrNotFound):
		return errors.ErrNotFound(resource).Wrap(err)
	case stderrors.Is(err, domain.ErrItemNotFound):
		return errors.ErrNotFound(resource + " item").Wrap(err)
	case stderrors.Is(err, domain.ErrPackageNotFound):
		return errors.ErrNotFound("package").Wrap(err)

	case stderrors.Is(err, domain.ErrConcurrentModification):
		return errors.ErrConcurrentModification(resource).Wrap(err)

	case stderrors.Is(err, domain.ErrInvalidStatusTransition),
		stderrors.Is(err, domain.ErrTaskNotActive),
		stderrors.Is(err, domain.ErrItemNotPending),
		stderrors.Is(err, domain.ErrTaskNotPackable),
		stderrors.Is(err, domain.ErrPickTaskNotReady),
		stderrors.Is(err, domain.ErrOrderNotDeletable),
		stderrors.Is(err, domain.ErrOrderNotEditable),
		stderrors.Is(err, domain.ErrOrderNotReturnable),
		stderrors.Is(err, domain.ErrCountNotInProgress),
		stderrors.Is(err, domain.ErrCountNotCompleted):
		return errors.ErrInvalidStatusTransition(err.Error()).Wrap(err)

	case stderrors.Is(err, domain.ErrItemsOutstanding),
		stderrors.Is(err, domain.ErrItemsNotPacked),
		stderrors.Is(err, domain.ErrNoPackages),
		stderrors.Is(err, domain.ErrItemsNotCounted):
		return errors.ErrBadRequest(err.Error()).Wrap(err)

	case stderrors.Is(err, domain.ErrScanMismatch):
		return errors.ErrUnprocessable(errors.CodeScanMismatch, err.Error()).Wrap(err)
	case stderrors.Is(err, domain.ErrScanRequired):
		return errors.New(errors.CodeScanRequired, err.Error()).Wrap(err)

	case stderrors.Is(err, domain.ErrNoItems),
		stderrors.Is(err, domain.ErrInvalidQuantity),
		stderrors.Is(err, domain.ErrInvalidPriority),
		stderrors.Is(err, domain.ErrInvalidPackage),
		stderrors.Is(err, domain.ErrNothingToPack),
		stderrors.Is(err, domain.ErrReturnQuantityExceeded),
		stderrors.Is(err, domain.ErrInvalidPrice):
		return errors.ErrValidation(err.Error()).Wrap(err)

	case stderrors.Is(err, domain.ErrInvalidCredentials):
		return errors.ErrUnauthorized(err.Error()).Wrap(err)
	}

	return errors.ErrInternal("").Wrap(err)
}
