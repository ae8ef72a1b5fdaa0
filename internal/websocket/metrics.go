package websocket

import (
	"sync/atomic"
	"time"
)

// Stats counts hub activity. All fields are updated atomically.
type Stats struct {
	totalConnections atomic.Int64
	activeClients    atomic.Int64
	requests         atomic.Int64
	failedRequests   atomic.Int64
	messagesSent     atomic.Int64
	droppedMessages  atomic.Int64
	startedAt        time.Time
}

// StatsSnapshot is a point-in-time copy of Stats
type StatsSnapshot struct {
	TotalConnections int64   `json:"total_connections"`
	ActiveClients    int64   `json:"active_clients"`
	Requests         int64   `json:"requests"`
	FailedRequests   int64   `json:"failed_requests"`
	MessagesSent     int64   `json:"messages_sent"`
	DroppedMessages  int64   `json:"dropped_messages"`
	UptimeSeconds    float64 `json:"uptime_seconds"`
}

func newStats() *Stats {
	return &Stats{startedAt: time.Now()}
}

func (s *Stats) connected() {
	s.totalConnections.Add(1)
	s.activeClients.Add(1)
}

func (s *Stats) disconnected() {
	s.activeClients.Add(-1)
}

func (s *Stats) request(failed bool) {
	s.requests.Add(1)
	if failed {
		s.failedRequests.Add(1)
	}
}

// Snapshot returns the current counters
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		TotalConnections: s.totalConnections.Load(),
		ActiveClients:    s.activeClients.Load(),
		Requests:         s.requests.Load(),
		FailedRequests:   s.failedRequests.Load(),
		MessagesSent:     s.messagesSent.Load(),
		DroppedMessages:  s.droppedMessages.Load(),
		UptimeSeconds:    time.Since(s.startedAt).Seconds(),
	}
}
