package domain

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrSessionNotFound  = errors.New("session not found")
)
