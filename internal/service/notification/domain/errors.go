package domain

import "errors"

var (
	ErrInvalidConfirmation = errors.New("order confirmation is missing recipient or claim code")
)
