package controllers

import (
	"gorm.io/gorm"

	"github.com/vmsocial/timeline/models"
	"github.com/vmsocial/timeline/utils"
)

// PostView is a post flattened for responses, carrying denormalized author
// display fields. Nil fields mean the post has no (or an unknown) author.
type PostView struct {
	models.Post
	AuthorName  *string `json:"author_name"`
	AuthorPhoto *string `json:"author_photo"`
}

// TextView is a PostText flattened the same way.
type TextView struct {
	models.PostText
	AuthorName  *string `json:"author_name"`
	AuthorPhoto *string `json:"author_photo"`
}

// AuthorSummary is the participant shape embedded in event responses.
type AuthorSummary struct {
	ID              uint    `json:"id"`
	Name            string  `json:"name"`
	ProfilePhotoURL *string `json:"profile_photo_url"`
}

// EventView is an event with its decoded tag list and ordered participants.
type EventView struct {
	models.Event
	Tags    []string        `json:"tags"`
	Authors []AuthorSummary `json:"authors"`
}

// authorsByID loads the referenced authors in one query and maps them by id.
func authorsByID(db *gorm.DB, ids []uint) (map[uint]models.Author, error) {
	result := map[uint]models.Author{}
	ids = utils.UniqueUint(ids)
	if len(ids) == 0 {
		return result, nil
	}
	var authors []models.Author
	if err := db.Find(&authors, ids).Error; err != nil {
		return nil, err
	}
	for _, a := range authors {
		result[a.ID] = a
	}
	return result, nil
}

func projectPosts(db *gorm.DB, posts []models.Post) ([]PostView, error) {
	var ids []uint
	for _, p := range posts {
		if p.AuthorID != nil {
			ids = append(ids, *p.AuthorID)
		}
	}
	byID, err := authorsByID(db, ids)
	if err != nil {
		return nil, err
	}

	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		v := PostView{Post: p}
		if p.AuthorID != nil {
			if a, ok := byID[*p.AuthorID]; ok {
				v.AuthorName = &a.Name
				v.AuthorPhoto = a.ProfilePhotoURL
			}
		}
		views = append(views, v)
	}
	return views, nil
}

func projectTexts(db *gorm.DB, texts []models.PostText) ([]TextView, error) {
	var ids []uint
	for _, t := range texts {
		if t.AuthorID != nil {
			ids = append(ids, *t.AuthorID)
		}
	}
	byID, err := authorsByID(db, ids)
	if err != nil {
		return nil, err
	}

	views := make([]TextView, 0, len(texts))
	for _, t := range texts {
		v := TextView{PostText: t}
		if t.AuthorID != nil {
			if a, ok := byID[*t.AuthorID]; ok {
				v.AuthorName = &a.Name
				v.AuthorPhoto = a.ProfilePhotoURL
			}
		}
		views = append(views, v)
	}
	return views, nil
}

// projectEvent decodes the tag scalar and reconstructs the participant list
// from the link relation in insertion order.
func projectEvent(db *gorm.DB, ev models.Event) (EventView, error) {
	view := EventView{
		Event:   ev,
		Tags:    utils.DecodeTags(ev.TagsJSON),
		Authors: []AuthorSummary{},
	}

	var links []models.EventAuthorLink
	if err := db.Where("event_id = ?", ev.ID).Order("id").Find(&links).Error; err != nil {
		return view, err
	}
	if len(links) == 0 {
		return view, nil
	}

	ids := make([]uint, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.AuthorID)
	}
	byID, err := authorsByID(db, ids)
	if err != nil {
		return view, err
	}
	for _, l := range links {
		if a, ok := byID[l.AuthorID]; ok {
			view.Authors = append(view.Authors, AuthorSummary{
				ID:              a.ID,
				Name:            a.Name,
				ProfilePhotoURL: a.ProfilePhotoURL,
			})
		}
	}
	return view, nil
}
