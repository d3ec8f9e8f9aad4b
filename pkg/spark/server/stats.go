package server

import (
	"sync/atomic"
	"time"
)

// Stats represents server statistics
type Stats struct {
	// Total number of connections accepted
	TotalConnections atomic.Uint64

	// Current number of connections being served
	ActiveConnections atomic.Int64

	// Requests answered with a ProtocolError (400, 404 or a classified 500)
	ProtocolErrors atomic.Uint64

	// Requests that failed with an unclassified error, answered with 500
	InternalErrors atomic.Uint64

	// Responses that could not be written to the client
	WriteErrors atomic.Uint64

	// Server creation time
	StartTime time.Time
}

// Duration returns the time since the server started
func (s *Stats) Duration() time.Duration {
	if s.StartTime.IsZero() {
		return 0
	}
	return time.Since(s.StartTime)
}

// ConnectionsPerSecond returns the average connections per second
func (s *Stats) ConnectionsPerSecond() float64 {
	duration := s.Duration().Seconds()
	if duration == 0 {
		return 0
	}
	return float64(s.TotalConnections.Load()) / duration
}
