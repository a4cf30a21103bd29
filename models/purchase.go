package models

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

// Purchase is a paid order for a personalized race plan.
//
// AccessCode is generated exactly once at creation and never reassigned.
// PaymentID carries the payment processor's transaction id and doubles as the
// webhook deduplication key (unique where not null). PremiumData stays NULL
// until the content generator attaches the finished bundle; that write is the
// only mutation a purchase ever sees.
type Purchase struct {
	bun.BaseModel `bun:"table:purchases,alias:p"`

	ID          int             `bun:"id,pk,autoincrement" json:"id"`
	Email       string          `bun:"email,notnull" json:"email"`
	Name        *string         `bun:"name" json:"name,omitempty"`
	RaceID      *int            `bun:"race_id" json:"raceID,omitempty"`
	RaceName    string          `bun:"race_name,notnull" json:"raceName"`
	AccessCode  string          `bun:"access_code,notnull,unique" json:"-"`
	PaymentID   *string         `bun:"payment_id" json:"-"`
	SessionID   *string         `bun:"session_id" json:"-"`
	GoalTime    *string         `bun:"goal_time" json:"goalTime,omitempty"`
	City        *string         `bun:"city" json:"city,omitempty"`
	State       *string         `bun:"state" json:"state,omitempty"`
	PremiumData json.RawMessage `bun:"premium_data,type:jsonb" json:"-"`
	CreatedAt   time.Time       `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`

	Race *Race `bun:"rel:belongs-to,join:race_id=id" json:"-"`
}
