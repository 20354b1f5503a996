package analysis

import "errors"

var (
	// ErrEmptyQuery indicates the user submitted no question.
	ErrEmptyQuery = errors.New("query must not be empty")

	// ErrEmptyPayload indicates an empty image payload; no request is attempted.
	ErrEmptyPayload = errors.New("empty image payload")

	// ErrNoCompletion indicates the endpoint answered without any choice.
	ErrNoCompletion = errors.New("model returned no completion")

	// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
	ErrQuotaExceeded = errors.New("ai quota exceeded")

	// ErrHistoryDisabled indicates no history store is configured.
	ErrHistoryDisabled = errors.New("analysis history is not enabled")
)
