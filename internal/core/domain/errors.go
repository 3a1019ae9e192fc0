package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input, such as an
	// empty keyword or an unknown routing category.
	ErrInvalidInput = errors.New("invalid input")

	// AI Errors.

	// ErrConfiguration indicates a required credential or setting is missing.
	// It is fatal: aggregation passes abort instead of skipping the document.
	ErrConfiguration = errors.New("configuration error")

	// ErrExternalService indicates the AI provider could not be reached
	// or returned an error response.
	ErrExternalService = errors.New("external service error")

	// ErrParse indicates an AI response could not be decoded.
	ErrParse = errors.New("malformed AI response")

	// Generation Errors.

	// ErrInsufficientData indicates the analysis dataset is incomplete
	// and a manuscript cannot be generated from it.
	ErrInsufficientData = errors.New("insufficient analysis data")
)
