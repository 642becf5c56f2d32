package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyOriginal is returned when a sentence record has no original text.
	ErrEmptyOriginal = errors.New("sentence record original text cannot be empty")

	// ErrEmptyTranslation is returned when a sentence record has no target translation.
	ErrEmptyTranslation = errors.New("sentence record translation cannot be empty")

	// ErrEmptyLanguage is returned when a language code is blank.
	ErrEmptyLanguage = errors.New("language code cannot be empty")

	// ErrInvalidSnapshot is returned when a remote snapshot payload cannot be
	// normalized into sentence records.
	ErrInvalidSnapshot = errors.New("invalid remote snapshot payload")
)
