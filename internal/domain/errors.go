package domain

import "errors"

// Errors shared by the warehouse aggregates. The application layer maps
// them onto API error codes.
var (
	ErrNotFound                = errors.New("not found")
	ErrConcurrentModification  = errors.New("concurrent modification")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrNoItems                 = errors.New("at least one item is required")
	ErrItemNotFound            = errors.New("item not found in task")
	ErrInvalidQuantity         = errors.New("invalid quantity")
	ErrInvalidPriority         = errors.New("invalid priority")

	// picking
	ErrItemsOutstanding = errors.New("not all items have been picked or marked as unavailable")
	ErrTaskNotActive    = errors.New("task is not in progress")
	ErrItemNotPending   = errors.New("item has already been processed")
	ErrScanMismatch     = errors.New("scanned codes do not match the expected item and location")
	ErrScanRequired     = errors.New("item and location scans are required")

	// packing
	ErrInvalidPackage   = errors.New("invalid package")
	ErrPackageNotFound  = errors.New("package not found in task")
	ErrItemsNotPacked   = errors.New("not all items have been packed")
	ErrNoPackages       = errors.New("at least one package is required")
	ErrNothingToPack    = errors.New("pick task has no picked items")
	ErrTaskNotPackable  = errors.New("task does not accept packing")
	ErrPickTaskNotReady = errors.New("pick task is not completed")

	// orders and returns
	ErrOrderNotDeletable      = errors.New("only pending or cancelled orders can be deleted")
	ErrOrderNotEditable       = errors.New("order items can only be changed while pending")
	ErrOrderNotReturnable     = errors.New("returns can only be requested for shipped or delivered orders")
	ErrReturnQuantityExceeded = errors.New("return quantity exceeds ordered quantity")
	ErrInvalidPrice           = errors.New("unit price must not be negative")

	// cycle counts
	ErrCountNotInProgress = errors.New("cycle count is not in progress")
	ErrItemsNotCounted    = errors.New("not all items have been counted")
	ErrCountNotCompleted  = errors.New("cycle count is not completed")

	// users
	ErrInvalidCredentials = errors.New("invalid username or password")
)
