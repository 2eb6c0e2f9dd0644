package service

import "errors"

var (
	ErrNotFound                = errors.New("not found")
	ErrConflict                = errors.New("already exists")
	ErrAccountDisabled         = errors.New("account disabled")
	ErrInvalidCredential       = errors.New("invalid credential")
	ErrForbidden               = errors.New("forbidden")
	ErrDishOnSale              = errors.New("dish is on sale")
	ErrDishReferencedBySetmeal = errors.New("dish is referenced by a setmeal")
	ErrValidation              = errors.New("validation failed")
)
