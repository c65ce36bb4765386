package model

import "time"

// Outfit groups clothing items under a name. Items is the resolved
// membership set; order is irrelevant, membership lives in the
// outfit_items join table.
type Outfit struct {
	ID        uint64         `json:"id"`
	UserID    uint64         `json:"userId"`
	Name      string         `json:"name"`
	Occasion  *Occasion      `json:"occasion"`
	Items     []ClothingItem `json:"items"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}
