package models

import "github.com/uptrace/bun"

// RaceSection is one segment of a race's free course breakdown,
// ordered by SectionNumber.
type RaceSection struct {
	bun.BaseModel `bun:"table:race_sections,alias:rs"`

	ID            int      `bun:"id,pk,autoincrement" json:"id"`
	RaceID        int      `bun:"race_id,notnull" json:"raceID"`
	SectionNumber int      `bun:"section_number,notnull" json:"sectionNumber"`
	Name          string   `bun:"name,notnull" json:"name"`
	MilesStart    *float64 `bun:"miles_start" json:"milesStart,omitempty"`
	MilesEnd      *float64 `bun:"miles_end" json:"milesEnd,omitempty"`
	ElevationGain *string  `bun:"elevation_gain" json:"elevationGain,omitempty"`
	Description   *string  `bun:"description" json:"description,omitempty"`
	StrategyTip   *string  `bun:"strategy_tip" json:"strategyTip,omitempty"`
	IsCrux        bool     `bun:"is_crux,notnull,default:false" json:"isCrux"`
	Icon          *string  `bun:"icon" json:"icon,omitempty"`

	Race *Race `bun:"rel:belongs-to,join:race_id=id" json:"-"`
}
