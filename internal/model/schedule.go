package model

import "time"

// OutfitSchedule assigns one outfit to one calendar date. At most one
// schedule may exist per (user, date); the outfit_schedules table
// enforces this with a unique index.
type OutfitSchedule struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"userId"`
	OutfitID  uint64    `json:"outfitId"`
	Date      DateOnly  `json:"date"`
	Note      *string   `json:"note"`
	Outfit    *Outfit   `json:"outfit,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
