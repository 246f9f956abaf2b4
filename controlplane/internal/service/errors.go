package service

import (
	"errors"

	"vpnaas/controlplane/internal/repository"
	"vpnaas/controlplane/internal/validation"
)

var (
	ErrIDSpaceExhausted = errors.New("id space exhausted")
	ErrMappingNotFound  = errors.New("identifier mapping not found")
	ErrMappingExists    = errors.New("identifier mapping already exists")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrMappingNotFound) || errors.Is(err, repository.ErrNotFound)
}

func IsValidation(err error) bool {
	return validation.IsValidation(err)
}

func IsExhausted(err error) bool {
	return errors.Is(err, ErrIDSpaceExhausted)
}
