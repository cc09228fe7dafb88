package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vmsocial/timeline/models"
	"github.com/vmsocial/timeline/utils"
)

// TextController manages PostText entries: primary comments and their paired
// translations. A primary and its translation always move together; every
// multi-row mutation here runs in one transaction so a half-updated pair is
// never observable.
type TextController struct {
	db *gorm.DB
}

// NewTextController creates a new TextController instance.
func NewTextController(db *gorm.DB) *TextController {
	return &TextController{db: db}
}

// translationTypes maps a primary comment type to the type its paired
// translation carries. Primaries with types outside this mapping cannot own
// a translation.
var translationTypes = map[string]string{
	"ig-comment": "ig-translation",
	"tt-comment": "tt-translation",
	"x-comment":  "x-translation",
}

// platformPrefixes are the type prefixes tied to a specific post platform.
var platformPrefixes = []string{"ig", "tt", "x"}

// AddText inserts a primary comment against a post. A platform-prefixed type
// must match the owning post's platform.
func (t *TextController) AddText(ctx *gin.Context) {
	var req struct {
		PostID          uint    `json:"post_id" binding:"required"`
		Type            string  `json:"type" binding:"required"`
		Language        string  `json:"language"`
		AuthorID        *uint   `json:"author_id"`
		Content         string  `json:"content" binding:"required"`
		PostedAt        *string `json:"posted_at"`
		MediaURL        *string `json:"media_url"`
		ParentCommentID *uint   `json:"parent_comment_id"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}

	var post models.Post
	if err := t.db.First(&post, req.PostID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40440, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to load post")
		return
	}

	textType := strings.TrimSpace(req.Type)
	for _, pfx := range platformPrefixes {
		if strings.HasPrefix(textType, pfx+"-") && post.Platform != pfx {
			utils.Error(ctx, http.StatusUnprocessableEntity, 42201, pfx+"-* text must belong to a "+pfx+" post")
			return
		}
	}

	content := strings.TrimSpace(utils.Sanitize(req.Content))
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40041, "content cannot be empty")
		return
	}

	text := models.PostText{
		PostID:          post.ID,
		Type:            textType,
		Language:        strings.TrimSpace(req.Language),
		AuthorID:        req.AuthorID,
		Content:         content,
		PostedAt:        normalizeOptional(req.PostedAt),
		MediaURL:        normalizeOptional(req.MediaURL),
		ParentCommentID: req.ParentCommentID,
	}
	if err := t.db.Create(&text).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to create text")
		return
	}

	utils.InvalidateByPrefix("cache:posts:")
	utils.Success(ctx, gin.H{"text": text})
}

// ListByPost returns all texts of a post, primaries and translations
// interleaved, enriched with author display fields.
func (t *TextController) ListByPost(ctx *gin.Context) {
	var texts []models.PostText
	if err := t.db.Where("post_id = ?", ctx.Param("postId")).Find(&texts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to list texts")
		return
	}
	views, err := projectTexts(t.db, texts)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to load text authors")
		return
	}
	utils.Success(ctx, gin.H{"items": views})
}

// EditPair patches a primary comment and synchronizes its translation child
// in the same transaction. A blank or absent translation removes the child;
// otherwise the single existing child is updated in place, or a new one is
// inserted inheriting post and author from the primary.
func (t *TextController) EditPair(ctx *gin.Context) {
	var req struct {
		Caption             *string `json:"caption"`
		MediaURL            *string `json:"media_url"`
		AuthorID            *uint   `json:"author_id"`
		Translation         *string `json:"translation"`
		TranslationLanguage *string `json:"translation_language"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40042, "invalid request payload")
		return
	}

	var primary models.PostText
	if err := t.db.First(&primary, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40441, "comment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50044, "failed to load comment")
		return
	}

	translationType, ok := translationTypes[primary.Type]
	if !ok {
		utils.Error(ctx, http.StatusUnprocessableEntity, 42202, "unsupported parent type: "+primary.Type)
		return
	}

	if req.Caption != nil {
		if content := strings.TrimSpace(utils.Sanitize(*req.Caption)); content != "" {
			primary.Content = content
		}
	}
	if req.MediaURL != nil {
		primary.MediaURL = normalizeOptional(req.MediaURL)
	}
	if req.AuthorID != nil {
		primary.AuthorID = req.AuthorID
	}

	language := "en"
	if req.TranslationLanguage != nil {
		if lang := strings.TrimSpace(*req.TranslationLanguage); lang != "" {
			language = lang
		}
	}

	var translation *string
	if req.Translation != nil {
		if s := strings.TrimSpace(utils.Sanitize(*req.Translation)); s != "" {
			translation = &s
		}
	}

	err := t.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&primary).Error; err != nil {
			return err
		}

		var child models.PostText
		childErr := tx.Where("parent_comment_id = ?", primary.ID).First(&child).Error
		if childErr != nil && !errors.Is(childErr, gorm.ErrRecordNotFound) {
			return childErr
		}
		hasChild := childErr == nil

		if translation == nil {
			// Blank translation is how callers remove one.
			if hasChild {
				return tx.Delete(&child).Error
			}
			return nil
		}

		if hasChild {
			child.Content = *translation
			child.Type = translationType
			child.Language = language
			child.AuthorID = primary.AuthorID
			return tx.Save(&child).Error
		}

		return tx.Create(&models.PostText{
			PostID:          primary.PostID,
			Type:            translationType,
			Language:        language,
			AuthorID:        primary.AuthorID,
			Content:         *translation,
			ParentCommentID: &primary.ID,
		}).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50045, "failed to update comment pair")
		return
	}

	utils.InvalidateByPrefix("cache:posts:")
	utils.Success(ctx, gin.H{"text": primary})
}

// DeletePair removes a primary comment together with every text that claims
// it as parent. The protocol keeps at most one child, but the delete is
// tolerant of more.
func (t *TextController) DeletePair(ctx *gin.Context) {
	var primary models.PostText
	if err := t.db.First(&primary, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40442, "comment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50046, "failed to load comment")
		return
	}

	err := t.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_comment_id = ?", primary.ID).Delete(&models.PostText{}).Error; err != nil {
			return err
		}
		return tx.Delete(&primary).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50047, "failed to delete comment pair")
		return
	}

	utils.InvalidateByPrefix("cache:posts:")
	utils.Success(ctx, gin.H{"message": "comment pair deleted", "id": primary.ID})
}
