package errorvalues

import "errors"

var (
	ErrUserExists       = errors.New("such user already exists")
	ErrUserNotFound     = errors.New("user doesn't exists")
	ErrWrongCredentials = errors.New("wrong name or password")
	ErrInvalidToken     = errors.New("invalid token")

	ErrProfileNotFound = errors.New("profile doesn't exist")
	ErrRoutineNotFound = errors.New("no routine generated yet")
	ErrWorkoutNotFound = errors.New("workout doesn't exist")
	ErrWrongOwner      = errors.New("resource has different owner")

	ErrProgressNotFound = errors.New("progress record doesn't exist")

	// Returned by the assistant client when the model's reply does not
	// decode into the declared response contract.
	ErrSchemaViolation      = errors.New("assistant response violates schema")
	ErrAssistantUnavailable = errors.New("assistant service unavailable")
)
