package entities

import (
	"time"
)

// Contact is a person the user can be connected with from a social or
// crisis suggestion. Contacts tagged "emergency" back the
// emergency-contact crisis rule.
type Contact struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Phone     string    `json:"phone" db:"phone"`
	Tags      []string  `json:"tags" db:"tags"`
	CallCount int       `json:"call_count" db:"call_count"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// IsEmergency reports whether the contact is tagged for emergencies.
func (c *Contact) IsEmergency() bool {
	for _, t := range c.Tags {
		if t == "emergency" {
			return true
		}
	}
	return false
}
