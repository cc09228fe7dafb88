package models

// Author is a participant referenced by posts, texts, and event memberships.
type Author struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	Name            string  `gorm:"size:255;not null;uniqueIndex" json:"name"`
	ProfilePhotoURL *string `gorm:"size:512" json:"profile_photo_url"`
}
