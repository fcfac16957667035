// Package model defines database models
package model

import "time"

// User is either pending (unverified, still holding a code) or active
// (verified). Usernames intentionally carry no unique index: a pending
// user must not reserve a name, so uniqueness among active users is
// enforced in the store instead.
type User struct {
	ID           string `gorm:"primaryKey"`
	Username     string `gorm:"index;not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`

	VerifyCode          string
	VerifyCodeExpiresAt time.Time
	Verified            bool `gorm:"default:false"`

	AcceptingMessages bool `gorm:"default:true"`

	CreatedAt time.Time

	Messages []Message `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
