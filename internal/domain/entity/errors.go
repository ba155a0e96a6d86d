package entity

import "errors"

var (
	// Task errors
	ErrTaskNotFound     = errors.New("task not found")
	ErrInstanceNotFound = errors.New("instance not found")
	ErrInvalidTaskID    = errors.New("invalid task ID format")

	// Field validation errors
	ErrInvalidImpact  = errors.New("impact must be between 1 and 4")
	ErrInvalidClarity = errors.New("invalid clarity value")
	ErrInvalidStatus  = errors.New("invalid status value")
	ErrInvalidTime    = errors.New("invalid time of day")
	ErrInvalidDate    = errors.New("invalid date")
)
