package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vmsocial/timeline/models"
	"github.com/vmsocial/timeline/utils"
)

// EventController manages events and their author memberships. Membership is
// only ever replaced as a whole set; there is no partial merge.
type EventController struct {
	db *gorm.DB
}

// NewEventController creates a new EventController instance.
func NewEventController(db *gorm.DB) *EventController {
	return &EventController{db: db}
}

// resolveAuthorIDs deduplicates the given ids preserving order and verifies
// every one of them resolves to an author.
func (e *EventController) resolveAuthorIDs(ids []uint) ([]uint, error) {
	uniq := utils.UniqueUint(ids)
	if len(uniq) == 0 {
		return uniq, nil
	}

	var authors []models.Author
	if err := e.db.Find(&authors, uniq).Error; err != nil {
		return nil, err
	}
	found := make(map[uint]bool, len(authors))
	for _, a := range authors {
		found[a.ID] = true
	}

	var missing []uint
	for _, id := range uniq {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("unknown author id(s): %v", missing)
	}
	return uniq, nil
}

// ListEvents returns events filtered by exact keyword and/or tag
// containment, sorted by event_date then id, paginated by offset/limit.
func (e *EventController) ListEvents(ctx *gin.Context) {
	sort := strings.TrimSpace(ctx.Query("sort"))
	keyword := strings.TrimSpace(ctx.Query("keyword"))
	tag := strings.TrimSpace(ctx.Query("tag"))
	offset, limit := parseOffsetLimit(ctx.Query("offset"), ctx.Query("limit"))

	cacheKey := fmt.Sprintf("cache:events:list:sort=%s:kw=%s:tag=%s:off=%d:lim=%d", sort, keyword, tag, offset, limit)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	query := e.db.Model(&models.Event{})
	if keyword != "" {
		query = query.Where("keyword = ?", keyword)
	}
	if tag != "" {
		// Containment approximated by matching the quoted form inside the
		// stored scalar, not a structural JSON query.
		query = query.Where("tags_json LIKE ?", "%"+strconv.Quote(tag)+"%")
	}
	if sort == "oldest" {
		query = query.Order("event_date, id")
	} else {
		query = query.Order("event_date DESC, id DESC")
	}

	var events []models.Event
	if err := query.Offset(offset).Limit(limit).Find(&events).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to list events")
		return
	}

	views := make([]EventView, 0, len(events))
	for _, ev := range events {
		view, err := projectEvent(e.db, ev)
		if err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to load event participants")
			return
		}
		views = append(views, view)
	}

	payload := gin.H{"items": views}
	utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: payload}, time.Hour)
	utils.Success(ctx, payload)
}

// GetEvent returns a single event with tags and participants.
func (e *EventController) GetEvent(ctx *gin.Context) {
	var ev models.Event
	if err := e.db.First(&ev, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40450, "event not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to load event")
		return
	}
	view, err := projectEvent(e.db, ev)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50053, "failed to load event participants")
		return
	}
	utils.Success(ctx, gin.H{"event": view})
}

// CreateEvent inserts an event and its membership links as one unit. Unknown
// author ids reject the whole operation before anything is written.
func (e *EventController) CreateEvent(ctx *gin.Context) {
	var req struct {
		Name            string   `json:"name" binding:"required"`
		Location        *string  `json:"location"`
		Keyword         *string  `json:"keyword"`
		Tags            []string `json:"tags"`
		MediaURL        *string  `json:"media_url"`
		EventDate       *string  `json:"event_date"`
		AnnouncementURL *string  `json:"announcement_url"`
		LiveURL         *string  `json:"live_url"`
		AuthorIDs       []uint   `json:"author_ids"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid request payload")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		utils.Error(ctx, http.StatusBadRequest, 40051, "event name is required")
		return
	}

	authorIDs, err := e.resolveAuthorIDs(req.AuthorIDs)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40052, err.Error())
		return
	}

	ev := models.Event{
		Name:            name,
		Location:        normalizeOptional(req.Location),
		Keyword:         normalizeOptional(req.Keyword),
		TagsJSON:        utils.EncodeTags(req.Tags),
		MediaURL:        normalizeOptional(req.MediaURL),
		EventDate:       normalizeOptional(req.EventDate),
		AnnouncementURL: normalizeOptional(req.AnnouncementURL),
		LiveURL:         normalizeOptional(req.LiveURL),
	}

	err = e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&ev).Error; err != nil {
			return err
		}
		return insertLinks(tx, ev.ID, authorIDs)
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50054, "failed to create event")
		return
	}

	utils.InvalidateByPrefix("cache:events:")
	view, err := projectEvent(e.db, ev)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50055, "failed to load event participants")
		return
	}
	utils.Success(ctx, gin.H{"event": view})
}

// UpdateEvent patches scalar fields and, when author_ids is present (even
// empty), destructively replaces the whole membership set. An absent
// author_ids leaves membership untouched.
func (e *EventController) UpdateEvent(ctx *gin.Context) {
	var req struct {
		Name            *string   `json:"name"`
		Location        *string   `json:"location"`
		Keyword         *string   `json:"keyword"`
		Tags            *[]string `json:"tags"`
		MediaURL        *string   `json:"media_url"`
		EventDate       *string   `json:"event_date"`
		AnnouncementURL *string   `json:"announcement_url"`
		LiveURL         *string   `json:"live_url"`
		AuthorIDs       *[]uint   `json:"author_ids"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40053, "invalid request payload")
		return
	}

	var ev models.Event
	if err := e.db.First(&ev, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40451, "event not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50056, "failed to load event")
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			utils.Error(ctx, http.StatusBadRequest, 40054, "event name cannot be empty")
			return
		}
		ev.Name = name
	}
	if req.Location != nil {
		ev.Location = normalizeOptional(req.Location)
	}
	if req.Keyword != nil {
		ev.Keyword = normalizeOptional(req.Keyword)
	}
	if req.Tags != nil {
		ev.TagsJSON = utils.EncodeTags(*req.Tags)
	}
	if req.MediaURL != nil {
		ev.MediaURL = normalizeOptional(req.MediaURL)
	}
	if req.EventDate != nil {
		ev.EventDate = normalizeOptional(req.EventDate)
	}
	if req.AnnouncementURL != nil {
		ev.AnnouncementURL = normalizeOptional(req.AnnouncementURL)
	}
	if req.LiveURL != nil {
		ev.LiveURL = normalizeOptional(req.LiveURL)
	}

	var authorIDs []uint
	if req.AuthorIDs != nil {
		ids, err := e.resolveAuthorIDs(*req.AuthorIDs)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40055, err.Error())
			return
		}
		authorIDs = ids
	}

	err := e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&ev).Error; err != nil {
			return err
		}
		if req.AuthorIDs == nil {
			return nil
		}
		if err := tx.Where("event_id = ?", ev.ID).Delete(&models.EventAuthorLink{}).Error; err != nil {
			return err
		}
		return insertLinks(tx, ev.ID, authorIDs)
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50057, "failed to update event")
		return
	}

	utils.InvalidateByPrefix("cache:events:")
	view, err := projectEvent(e.db, ev)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50058, "failed to load event participants")
		return
	}
	utils.Success(ctx, gin.H{"event": view})
}

// DeleteEvent removes an event and its membership links as one unit.
func (e *EventController) DeleteEvent(ctx *gin.Context) {
	var ev models.Event
	if err := e.db.First(&ev, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40452, "event not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50059, "failed to load event")
		return
	}

	err := e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", ev.ID).Delete(&models.EventAuthorLink{}).Error; err != nil {
			return err
		}
		return tx.Delete(&ev).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to delete event")
		return
	}

	utils.InvalidateByPrefix("cache:events:")
	utils.Success(ctx, gin.H{"message": "event deleted", "id": ev.ID})
}

func insertLinks(tx *gorm.DB, eventID uint, authorIDs []uint) error {
	for _, id := range authorIDs {
		if err := tx.Create(&models.EventAuthorLink{EventID: eventID, AuthorID: id}).Error; err != nil {
			return err
		}
	}
	return nil
}

func parseOffsetLimit(offsetStr, limitStr string) (int, int) {
	offset := 0
	limit := 10
	if v, err := strconv.Atoi(offsetStr); err == nil && v >= 0 {
		offset = v
	}
	if v, err := strconv.Atoi(limitStr); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	return offset, limit
}
