package models

// Event is a calendar entry linking participating authors together.
// TagsJSON holds the tag list as a JSON-encoded scalar; it is never exposed
// raw, responses always carry the decoded list.
type Event struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	Name            string  `gorm:"size:255;not null;index" json:"name"`
	Location        *string `gorm:"size:255" json:"location"`
	Keyword         *string `gorm:"size:255;index" json:"keyword"`
	TagsJSON        string  `gorm:"column:tags_json;type:text;not null;default:'[]'" json:"-"`
	MediaURL        *string `gorm:"size:512" json:"media_url"`
	EventDate       *string `gorm:"size:64;index" json:"event_date"`
	AnnouncementURL *string `gorm:"size:512" json:"announcement_url"`
	LiveURL         *string `gorm:"size:512" json:"live_url"`
}

// EventAuthorLink records one author's participation in one event. The
// surrogate id preserves insertion order for projection; the composite
// unique index forbids duplicate membership rows.
type EventAuthorLink struct {
	ID       uint `gorm:"primaryKey" json:"-"`
	EventID  uint `gorm:"not null;uniqueIndex:idx_event_author" json:"event_id"`
	AuthorID uint `gorm:"not null;uniqueIndex:idx_event_author" json:"author_id"`
}
