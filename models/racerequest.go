package models

import (
	"time"

	"github.com/uptrace/bun"
)

// RaceRequest is a user-submitted request to add a race to the catalog.
// Pure intake log for human triage; never read back by the application.
type RaceRequest struct {
	bun.BaseModel `bun:"table:race_requests,alias:rr"`

	ID        int       `bun:"id,pk,autoincrement" json:"id"`
	Email     *string   `bun:"email" json:"email,omitempty"`
	RaceName  string    `bun:"race_name,notnull" json:"raceName"`
	RaceURL   *string   `bun:"race_url" json:"raceUrl,omitempty"`
	Notes     *string   `bun:"notes" json:"notes,omitempty"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}
