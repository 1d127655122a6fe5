package storage

import (
	"context"
	"time"
)

// Calculation is the audit summary of one completed area calculation.
type Calculation struct {
	Timestamp  time.Time `json:"timestamp" db:"request_date"`
	UserID     int64     `json:"user_id" db:"user_id"`
	Area       float64   `json:"area" db:"area"`
	Capacity   int       `json:"calculated_btu" db:"calculated_btu"`
	MatchCount int       `json:"result_count" db:"result_count"`
}

// Recorder persists calculation events. Implementations must be safe for
// concurrent use.
type Recorder interface {
	AppendCalculation(ctx context.Context, c Calculation) error
}

// Loader is implemented by recorders that can read their events back in
// chronological order.
type Loader interface {
	LoadCalculations(ctx context.Context) ([]Calculation, error)
}
