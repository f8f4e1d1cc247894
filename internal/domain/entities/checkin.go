package entities

import (
	"time"
)

// CheckIn represents a user-submitted snapshot of emotional state.
// It is immutable after persistence; edits produce a new tag/text pair
// under the same id via the repository's Update.
type CheckIn struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	EmotionTags []string  `json:"emotion_tags" db:"emotion_tags"`
	FreeText    string    `json:"free_text,omitempty" db:"free_text"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// HasTag reports whether the check-in carries the given emotion tag.
func (c *CheckIn) HasTag(tag string) bool {
	for _, t := range c.EmotionTags {
		if t == tag {
			return true
		}
	}
	return false
}
