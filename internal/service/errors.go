package service

import (
	"errors"

	"github.com/ecocycle/rewards-api/internal/repository"
)

// Errors shared by several services.
var (
	ErrInvalidUserID      = errors.New("a valid user id is required")
	ErrUserNotFound       = errors.New("user not found")
	ErrInsufficientPoints = errors.New("insufficient points")
)

// mapStoreError translates repository sentinels into service sentinels and passes
// anything else through unchanged.
func mapStoreError(err error) error {
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, repository.ErrInsufficientPoints):
		return ErrInsufficientPoints
	case errors.Is(err, repository.ErrRequestNotFound):
		return ErrRequestNotFound
	case errors.Is(err, repository.ErrAlreadyProcessed),
		errors.Is(err, repository.ErrDuplicateTransaction):
		return ErrAlreadyProcessed
	case errors.Is(err, repository.ErrRecyclableNotFound):
		return ErrRecyclableNotFound
	default:
		return err
	}
}
