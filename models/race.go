package models

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

// Race is a catalog entry, identified by its URL slug.
// The slug is unique and never changes once assigned; races are never deleted.
// ElevationProfile and Content are opaque documents written only through the
// content ingestion API.
type Race struct {
	bun.BaseModel `bun:"table:races,alias:r"`

	ID               int             `bun:"id,pk,autoincrement" json:"id"`
	Slug             string          `bun:"slug,notnull,unique" json:"slug"`
	Name             string          `bun:"name,notnull" json:"name"`
	Distance         string          `bun:"distance,notnull" json:"distance"`
	DistanceMiles    *float64        `bun:"distance_miles" json:"distanceMiles,omitempty"`
	ElevationGain    *string         `bun:"elevation_gain" json:"elevationGain,omitempty"`
	ElevationGainFt  *int            `bun:"elevation_gain_ft" json:"elevationGainFt,omitempty"`
	Location         *string         `bun:"location" json:"location,omitempty"`
	State            *string         `bun:"state" json:"state,omitempty"`
	Country          string          `bun:"country,notnull,default:'USA'" json:"country"`
	Description      *string         `bun:"description" json:"description,omitempty"`
	Month            *string         `bun:"month" json:"month,omitempty"`
	CutoffTime       *string         `bun:"cutoff_time" json:"cutoffTime,omitempty"`
	Difficulty       string          `bun:"difficulty,notnull,default:'Hard'" json:"difficulty"`
	GPXAvailable     bool            `bun:"gpx_available,notnull,default:false" json:"gpxAvailable"`
	ImageURL         *string         `bun:"image_url" json:"imageUrl,omitempty"`
	TrainingLocation *string         `bun:"training_location" json:"trainingLocation,omitempty"`
	ElevationProfile json.RawMessage `bun:"elevation_profile,type:jsonb" json:"elevationProfile,omitempty"`
	Content          json.RawMessage `bun:"content,type:jsonb" json:"content,omitempty"`
	CreatedAt        time.Time       `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`

	Sections []*RaceSection `bun:"rel:has-many,join:id=race_id" json:"-"`
}

// HasContent reports whether a free content bundle has been attached.
func (r *Race) HasContent() bool {
	return len(r.Content) > 0 && string(r.Content) != "null"
}
