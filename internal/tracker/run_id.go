package tracker

import "github.com/google/uuid"

// NewRunID returns a fresh identifier correlating one run's header and
// footer lines in the daily log.
func NewRunID() string {
	return uuid.NewString()
}
