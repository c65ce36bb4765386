// Package queue defines message payloads exchanged over the message broker.
package queue

// OutfitScheduledEvent is published when an outfit is assigned to a
// calendar date. It carries enough for downstream consumers to log or
// notify without querying the primary database.
type OutfitScheduledEvent struct {
	ScheduleID  uint64 `json:"schedule_id"`
	UserID      uint64 `json:"user_id"`
	OutfitID    uint64 `json:"outfit_id"`
	OutfitName  string `json:"outfit_name"`
	WearDate    string `json:"wear_date"`
	Note        string `json:"note,omitempty"`
	ScheduledAt string `json:"scheduled_at"`
}
