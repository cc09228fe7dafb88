package models

// PostText is a text entry attached to a post: a primary comment when
// ParentCommentID is nil, or the translation of another PostText when set.
// The pairing protocol keeps at most one translation per primary.
type PostText struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	PostID          uint    `gorm:"not null;index" json:"post_id"`
	Type            string  `gorm:"size:32;not null" json:"type"` // "ig-comment", "ig-translation", "tt-comment", ...
	Language        string  `gorm:"size:16" json:"language"`
	AuthorID        *uint   `gorm:"index" json:"author_id"`
	Content         string  `gorm:"type:text;not null" json:"content"`
	PostedAt        *string `gorm:"size:64" json:"posted_at"`
	MediaURL        *string `gorm:"size:512" json:"media_url"`
	ParentCommentID *uint   `gorm:"index" json:"parent_comment_id"`
}
