package entity

import (
	"fmt"
	"time"
)

// Status represents the completion state of a task.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// IsValid checks if the status is a known value
func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Clarity describes how well-defined a task is.
type Clarity string

const (
	ClarityClear Clarity = "clear"
	ClarityVague Clarity = "vague"
)

// IsValid checks if the clarity is a known value
func (c Clarity) IsValid() bool {
	return c == ClarityClear || c == ClarityVague
}

// Impact is the 1-4 importance rating of a task.
type Impact int

// IsValid checks if the impact is within the supported range
func (i Impact) IsValid() bool {
	return i >= 1 && i <= 4
}

// DateLayout is the wire format for scheduled dates.
const DateLayout = "2006-01-02"

// ValidateDate checks that a date string is a well-formed ISO date.
func ValidateDate(s string) error {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// ClockTime is a time of day with minute precision.
type ClockTime struct {
	Hour   int
	Minute int
}

// NewClockTime creates a validated time of day
func NewClockTime(hour, minute int) (ClockTime, error) {
	ct := ClockTime{Hour: hour, Minute: minute}
	if !ct.IsValid() {
		return ClockTime{}, ErrInvalidTime
	}
	return ct, nil
}

// IsValid checks the hour and minute ranges
func (c ClockTime) IsValid() bool {
	return c.Hour >= 0 && c.Hour <= 23 && c.Minute >= 0 && c.Minute <= 59
}

// String renders the time in the HH:MM:SS wire format used by the task API.
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d:00", c.Hour, c.Minute)
}

// ParseClockTime parses an HH:MM or HH:MM:SS string.
func ParseClockTime(s string) (ClockTime, error) {
	var hour, minute, sec int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &hour, &minute, &sec); err != nil {
		if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
			return ClockTime{}, ErrInvalidTime
		}
	}
	return NewClockTime(hour, minute)
}
