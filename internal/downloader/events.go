package downloader

import "time"

// State is the lifecycle phase of the downloader's current job.
type State int

const (
	// Idle means no job exists yet, or the previous one was discarded.
	Idle State = iota
	// Running means workers are dispatching and processing tracks.
	Running
	// Finished means every track of the job reached a terminal outcome.
	Finished
	// Stopped means the run halted before every track completed.
	Stopped
)

// String returns the lowercase state name for logs and serialized reports.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Finished:
		return "finished"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Status is the terminal classification of one processed track.
type Status string

const (
	// StatusSuccess means lyrics were matched and persisted.
	StatusSuccess Status = "success"
	// StatusSkipped means the track was excluded up front or already held
	// what the policy would produce.
	StatusSkipped Status = "skipped"
	// StatusNotFound means no remote candidate was acceptable.
	StatusNotFound Status = "not_found"
	// StatusFailure means a network, server or persistence error interfered.
	StatusFailure Status = "failure"
)

// Counters aggregates terminal outcomes for one job.
type Counters struct {
	Success  int `json:"success"`
	Skipped  int `json:"skipped"`
	NotFound int `json:"not_found"`
	Failed   int `json:"failed"`
}

// Processed is the number of tracks that reached a terminal outcome.
func (c Counters) Processed() int {
	return c.Success + c.Skipped + c.NotFound + c.Failed
}

// LogEntry records one processed track. Entries accumulate in completion
// order, which under concurrent workers differs from dispatch order.
type LogEntry struct {
	TrackID    int64     `json:"track_id"`
	Title      string    `json:"title"`
	ArtistName string    `json:"artist_name"`
	Status     Status    `json:"status"`
	Message    string    `json:"message"`
	At         time.Time `json:"at"`
}

// Event is a progress snapshot pushed to subscribers on every state change
// and track completion. Counters are copied, so an event stays consistent
// even while the job advances.
type Event struct {
	State     State
	Processed int
	Total     int
	Counters  Counters
	// Entry is the track that just completed, nil on pure state changes.
	Entry *LogEntry
}

// Snapshot is the downloader's externally visible position, read atomically.
type Snapshot struct {
	RunID     string
	State     State
	Processed int
	Total     int
	Counters  Counters
}
