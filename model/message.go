package model

import "time"

// Message has no lifecycle of its own. It is created by the anonymous
// submission endpoint, read and deleted by its owner, never updated.
type Message struct {
	ID     string `gorm:"primaryKey" json:"id"`
	UserID string `gorm:"index" json:"-"`

	Content string `gorm:"not null" json:"content"`

	// Free-form tag, no fixed set of values
	Category string `json:"category,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}
