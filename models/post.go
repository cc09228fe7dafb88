package models

// Post mirrors a post from an external platform. A non-nil ParentID marks it
// as a reply to another post; threading is one level deep.
type Post struct {
	ID                 uint    `gorm:"primaryKey" json:"id"`
	Platform           string  `gorm:"size:32;not null;index" json:"platform"`
	ExternalURL        string  `gorm:"size:512;not null" json:"external_url"`
	ExternalID         string  `gorm:"size:255;not null" json:"external_id"`
	AuthorID           *uint   `gorm:"index" json:"author_id"`
	Caption            *string `gorm:"type:text" json:"caption"`
	CaptionTranslation *string `gorm:"type:text" json:"caption_translation"`
	PostedAt           *string `gorm:"size:64;index" json:"posted_at"`
	MediaURL           *string `gorm:"size:512" json:"media_url"`
	ParentID           *uint   `gorm:"index" json:"parent_id"`
}
