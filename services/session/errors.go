package session

import "errors"

// Error taxonomy for the session store. Callers match with errors.Is so
// the HTTP and socket layers can map each class to a distinct response:
// validation to 400, not-found to 404 ("session ended", not a generic
// failure), GM checks to 403, everything else to a retryable 500.
var (
	// ErrValidation covers missing or malformed request fields.
	ErrValidation = errors.New("validation failed")

	// ErrCodeGeneration means unique-code allocation exhausted its
	// bounded retries. Distinct from connectivity failures: retrying
	// the call will not help if the code space is saturated.
	ErrCodeGeneration = errors.New("could not allocate a unique game code")

	// ErrSessionNotFound means the code does not resolve to any stored
	// state, either expired or never created.
	ErrSessionNotFound = errors.New("session not found")

	// ErrBackendUnavailable wraps key-value store connectivity
	// failures. Safe to retry with backoff.
	ErrBackendUnavailable = errors.New("game store unavailable")

	// ErrNotGameMaster rejects GM-only operations (clearing drawings,
	// resetting the scene) issued by regular players.
	ErrNotGameMaster = errors.New("only the game master may do this")
)
