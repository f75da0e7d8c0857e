package domain

import "errors"

var (
	ErrQuestionNotFound    = errors.New("question not found")
	ErrAnswerNotFound      = errors.New("answer not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrNotAuthorized       = errors.New("not authorized")
	ErrInvalidDirection    = errors.New("invalid vote direction")
	ErrAnswerMismatch      = errors.New("answer does not belong to question")
	ErrConcurrencyConflict = errors.New("concurrent update detected")
	ErrRateLimited         = errors.New("vote rate limit exceeded")
)
