package model

import "time"

// ClothingItem mirrors the 'clothing_items' table. Every item belongs to
// exactly one user; type, color and season are optional and nil when the
// owner never set them.
type ClothingItem struct {
	ID        uint64        `json:"id"`
	UserID    uint64        `json:"userId"`
	Name      string        `json:"name"`
	ImageURL  *string       `json:"imageUrl"`
	Type      *ClothingType `json:"type"`
	Color     *string       `json:"color"`
	Season    *Season       `json:"season"`
	Tags      []string      `json:"tags"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}
