package domain

import "time"

// CartEntry is a tentative reservation of one slot of one lesson. It
// references the lesson by id only; attributes are always resolved
// against the catalog so the displayed state can never go stale.
type CartEntry struct {
	LessonID string    `json:"lesson_id"`
	AddedAt  time.Time `json:"added_at"`
}
