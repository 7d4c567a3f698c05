package services

import (
	"time"

	"topia/internal/interfaces"
)

type clockSystem struct{}

// NewSystemClock returns the wall clock every deployment uses.
func NewSystemClock() interfaces.Clock {
	return &clockSystem{}
}

func (c *clockSystem) Now() time.Time {
	return time.Now()
}
