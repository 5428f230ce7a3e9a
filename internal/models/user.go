package models

import "time"

// User is the denormalized profile record for an identity, keyed by the
// identifier the identity provider assigned at registration. Profiles are
// written once and never updated or deleted.
type User struct {
	ID        string    `gorm:"type:varchar(36);primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
