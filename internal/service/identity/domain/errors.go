package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("User not found.")
	ErrUserNameTaken      = errors.New("UserName is already taken")
	ErrEmailTaken         = errors.New("Email is already registered")
	ErrInvalidCredentials = errors.New("Invalid username or password")
	ErrInvalidRole        = errors.New("Invalid role specified.")
	ErrInvalidToken       = errors.New("invalid or expired token")
)
