package models

import "errors"

// Error taxonomy. Callers wrap these with fmt.Errorf("...: %w", ...) and
// boundaries classify with errors.Is.
var (
	// ErrConfiguration marks invalid startup configuration, such as an
	// overlap not smaller than the chunk size or a missing provider key.
	ErrConfiguration = errors.New("configuration error")

	// ErrEmbeddingService marks a failed call to the remote embedding model.
	ErrEmbeddingService = errors.New("embedding service error")

	// ErrGenerationService marks a failed call to the remote generative model.
	ErrGenerationService = errors.New("generation service error")

	// ErrCollectionNotFound marks an operation against a vector collection
	// that has not been created yet.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrValidation marks a malformed request from a caller, such as an
	// unknown upload category or an empty query.
	ErrValidation = errors.New("validation error")
)
