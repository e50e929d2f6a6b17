package domain

import "time"

// Message is a single chat message after name enrichment. The core treats it
// as read-only input: extractors never mutate messages.
type Message struct {
	ID         string
	UserID     string
	UserName   string
	Text       string
	Timestamp  time.Time
	ThreadID   string
	ReplyCount int
}

// UserProfile is what the user directory knows about a channel member.
type UserProfile struct {
	ID          string
	RealName    string
	Username    string
	DisplayName string
	IsBot       bool
	Deleted     bool
}

// Baseline is the historical activity average for a user or a channel,
// computed over a trailing window of stored messages. It is recomputed per
// report run and never cached across runs.
type Baseline struct {
	TotalMessages     int
	DaysActive        int
	AvgMessagesPerDay float64
	ParticipationRate float64
}

// Direction classifies current activity against a baseline value.
type Direction string

const (
	DirectionAbove   Direction = "above"
	DirectionBelow   Direction = "below"
	DirectionEqual   Direction = "equal"
	DirectionUnknown Direction = "unknown"
)

// Comparison relates one current value to one baseline value.
type Comparison struct {
	HasBaseline    bool
	Direction      Direction
	DiffPercentage float64
	Message        string
}
