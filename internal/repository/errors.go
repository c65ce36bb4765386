// Package repository implements owner-scoped persistence over MySQL.
// Sentinel errors let handlers distinguish failure kinds without parsing
// driver errors themselves. "Not found" and "not owned" are deliberately
// the same sentinel so responses never reveal other users' data exists.
package repository

import (
	"errors"
	"strings"
)

// ErrEmailExists is returned when registration hits the unique index on
// users.email. Handlers translate it into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrItemNotFound covers a clothing item that is absent or belongs to a
// different user.
var ErrItemNotFound = errors.New("item not found")

// ErrOutfitNotFound covers an outfit that is absent or belongs to a
// different user.
var ErrOutfitNotFound = errors.New("outfit not found")

// ErrScheduleNotFound covers a schedule that is absent or belongs to a
// different user.
var ErrScheduleNotFound = errors.New("schedule not found")

// ErrDateTaken is returned when the unique index on
// outfit_schedules(user_id, wear_date) rejects a write. The index, not
// any application pre-check, is the authoritative uniqueness signal.
var ErrDateTaken = errors.New("date already scheduled")

// isDuplicateKey reports whether err is a MySQL duplicate-entry
// violation (error 1062).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
