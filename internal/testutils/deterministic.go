// Package testutils provides deterministic generators and test doubles for
// Aarika. The generators are also used in production when --test-mode is
// set, so scripted runs produce stable IDs and timestamps.
package testutils

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// BaseTime is the first timestamp handed out by a deterministic clock.
var BaseTime = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// IDGenerator returns a fresh identifier on every call.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time

// NewIDGenerator returns random UUIDs in production and a per-instance
// sequence of UUID-shaped IDs in test mode:
// 00000001-0000-4000-8000-000000000001, 00000002-0000-4000-8000-000000000002, ...
func NewIDGenerator(testMode bool) IDGenerator {
	if !testMode {
		return func() string { return uuid.New().String() }
	}

	var (
		mu      sync.Mutex
		counter uint64
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		counter++
		return fmt.Sprintf("%08x-0000-4000-8000-%012x", counter, counter)
	}
}

// NewClock returns time.Now in production. In test mode each call is one
// second after the previous one, starting at BaseTime+1s.
func NewClock(testMode bool) Clock {
	if !testMode {
		return time.Now
	}

	var (
		mu    sync.Mutex
		ticks int64
	)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		ticks++
		return BaseTime.Add(time.Duration(ticks) * time.Second)
	}
}
