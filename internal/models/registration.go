package models

import "time"

// Registration is one interested attendee of the meetup. Rows are append-only:
// created once via the submission form, never updated or deleted.
type Registration struct {
	ID         int64     `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	IsSpeaker  bool      `json:"is_speaker"`
	Topic      *string   `json:"topic,omitempty"`
	ProfilePic *string   `json:"profile_pic,omitempty"`
}
