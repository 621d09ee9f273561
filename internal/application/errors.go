package application

import "errors"

// Expected negative outcomes, distinguished from storage faults so the
// delivery layers can map them to user-facing responses.
var (
	ErrCodeInvalid     = errors.New("link code is invalid or expired")
	ErrLinkNotFound    = errors.New("account is not linked")
	ErrAlreadyLinked   = errors.New("account is already linked")
	ErrMappingNotFound = errors.New("rank mapping not found")
)
