package domain

import (
	"errors"
)

var (
	ErrInternal = errors.New("internal error")

	// * Data errors.
	ErrDataNotFound     = errors.New("data not found")
	ErrConflictingData  = errors.New("data conflicts with existing data in unique column")
	ErrOrderPersistence = errors.New("order could not be persisted")

	// * Communication errors.
	ErrValidation       = errors.New("request validation failed")
	ErrInvalidSignature = errors.New("payment event signature is invalid")
	ErrUpstream         = errors.New("payment provider error")

	// * Business errors.
	ErrInvalidTransition   = errors.New("order status transition is not allowed")
	ErrEventAlreadyApplied = errors.New("payment event already applied")
)
