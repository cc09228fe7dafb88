package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vmsocial/timeline/models"
	"github.com/vmsocial/timeline/utils"
)

// PostController manages mirrored posts and their one-level reply threads.
type PostController struct {
	db *gorm.DB
}

// NewPostController creates a new PostController instance.
func NewPostController(db *gorm.DB) *PostController {
	return &PostController{db: db}
}

type postCreateRequest struct {
	Platform           string  `json:"platform" binding:"required"`
	ExternalURL        string  `json:"external_url" binding:"required"`
	ExternalID         string  `json:"external_id" binding:"required"`
	AuthorID           *uint   `json:"author_id"`
	Caption            *string `json:"caption"`
	CaptionTranslation *string `json:"caption_translation"`
	PostedAt           *string `json:"posted_at"`
	MediaURL           *string `json:"media_url"`
	ParentID           *uint   `json:"parent_id"`
}

func (r *postCreateRequest) toModel() models.Post {
	return models.Post{
		Platform:           strings.TrimSpace(r.Platform),
		ExternalURL:        strings.TrimSpace(r.ExternalURL),
		ExternalID:         strings.TrimSpace(r.ExternalID),
		AuthorID:           r.AuthorID,
		Caption:            sanitizeOptional(r.Caption),
		CaptionTranslation: sanitizeOptional(r.CaptionTranslation),
		PostedAt:           normalizeOptional(r.PostedAt),
		MediaURL:           normalizeOptional(r.MediaURL),
		ParentID:           r.ParentID,
	}
}

// CreatePost inserts a post. A supplied parent_id must resolve to an
// existing post, the same policy the reply endpoint applies.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req postCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	if req.ParentID != nil {
		var parent models.Post
		if err := p.db.First(&parent, *req.ParentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.Error(ctx, http.StatusNotFound, 40420, "parent post not found")
				return
			}
			utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to load parent post")
			return
		}
	}

	post := req.toModel()
	if err := p.db.Create(&post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to create post")
		return
	}

	utils.InvalidateByPrefix("cache:posts:")
	utils.Success(ctx, gin.H{"post": post})
}

// CreateReply inserts a reply under an existing post.
func (p *PostController) CreateReply(ctx *gin.Context) {
	var parent models.Post
	if err := p.db.First(&parent, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40421, "parent post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to load parent post")
		return
	}

	var req postCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid request payload")
		return
	}

	post := req.toModel()
	post.ParentID = &parent.ID
	if err := p.db.Create(&post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to create reply")
		return
	}

	utils.InvalidateByPrefix("cache:posts:")
	utils.Success(ctx, gin.H{"post": post})
}

// ListPosts returns top-level posts, optionally filtered by platform.
// sort=oldest orders ascending by posted_at; anything else means newest.
func (p *PostController) ListPosts(ctx *gin.Context) {
	platform := strings.TrimSpace(ctx.Query("platform"))
	sort := strings.TrimSpace(ctx.Query("sort"))

	cacheKey := fmt.Sprintf("cache:posts:list:platform=%s:sort=%s", platform, sort)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	query := p.db.Where("parent_id IS NULL")
	if platform != "" {
		query = query.Where("platform = ?", platform)
	}
	if sort == "oldest" {
		query = query.Order("posted_at, id")
	} else {
		query = query.Order("posted_at DESC, id DESC")
	}

	var posts []models.Post
	if err := query.Find(&posts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to list posts")
		return
	}

	views, err := projectPosts(p.db, posts)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50026, "failed to load post authors")
		return
	}

	payload := gin.H{"items": views}
	utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: payload}, time.Hour)
	utils.Success(ctx, payload)
}

// GetPost returns one post with its direct children and its comments, all
// enriched with author display fields.
func (p *PostController) GetPost(ctx *gin.Context) {
	postID := ctx.Param("id")

	cacheKey := "cache:posts:detail:" + postID
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	var post models.Post
	if err := p.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40422, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50027, "failed to load post")
		return
	}

	// Children keep natural insertion order; the thread is one level deep.
	var children []models.Post
	if err := p.db.Where("parent_id = ?", post.ID).Find(&children).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50028, "failed to load replies")
		return
	}

	var comments []models.PostText
	if err := p.db.Where("post_id = ?", post.ID).Find(&comments).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50029, "failed to load comments")
		return
	}

	postViews, err := projectPosts(p.db, append([]models.Post{post}, children...))
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to load post authors")
		return
	}
	commentViews, err := projectTexts(p.db, comments)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to load comment authors")
		return
	}

	payload := gin.H{
		"post":     postViews[0],
		"children": postViews[1:],
		"comments": commentViews,
	}
	utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: payload}, time.Hour)
	utils.Success(ctx, payload)
}

// GetThread returns only the direct replies of a post.
func (p *PostController) GetThread(ctx *gin.Context) {
	var replies []models.Post
	if err := p.db.Where("parent_id = ?", ctx.Param("id")).Find(&replies).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to load thread")
		return
	}
	views, err := projectPosts(p.db, replies)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to load reply authors")
		return
	}
	utils.Success(ctx, gin.H{"items": views})
}

// UpdatePost applies a partial update. Only fields present in the payload
// change; unknown keys are rejected by the JSON decoder.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	var req struct {
		Platform           *string `json:"platform"`
		ExternalURL        *string `json:"external_url"`
		ExternalID         *string `json:"external_id"`
		AuthorID           *uint   `json:"author_id"`
		Caption            *string `json:"caption"`
		CaptionTranslation *string `json:"caption_translation"`
		PostedAt           *string `json:"posted_at"`
		MediaURL           *string `json:"media_url"`
		ParentID           *uint   `json:"parent_id"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40022, "invalid request payload")
		return
	}

	var post models.Post
	if err := p.db.First(&post, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40423, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50034, "failed to load post")
		return
	}

	if req.Platform != nil {
		platform := strings.TrimSpace(*req.Platform)
		if platform == "" {
			utils.Error(ctx, http.StatusBadRequest, 40023, "platform cannot be empty")
			return
		}
		post.Platform = platform
	}
	if req.ExternalURL != nil {
		post.ExternalURL = strings.TrimSpace(*req.ExternalURL)
	}
	if req.ExternalID != nil {
		post.ExternalID = strings.TrimSpace(*req.ExternalID)
	}
	if req.AuthorID != nil {
		post.AuthorID = req.AuthorID
	}
	if req.Caption != nil {
		post.Caption = sanitizeOptional(req.Caption)
	}
	if req.CaptionTranslation != nil {
		post.CaptionTranslation = sanitizeOptional(req.CaptionTranslation)
	}
	if req.PostedAt != nil {
		post.PostedAt = normalizeOptional(req.PostedAt)
	}
	if req.MediaURL != nil {
		post.MediaURL = normalizeOptional(req.MediaURL)
	}
	if req.ParentID != nil {
		var parent models.Post
		if err := p.db.First(&parent, *req.ParentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.Error(ctx, http.StatusNotFound, 40424, "parent post not found")
				return
			}
			utils.Error(ctx, http.StatusInternalServerError, 50035, "failed to load parent post")
			return
		}
		post.ParentID = req.ParentID
	}

	if err := p.db.Save(&post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50036, "failed to update post")
		return
	}

	utils.InvalidateByPrefix("cache:posts:")
	utils.Success(ctx, gin.H{"post": post})
}

// DeletePost removes a post, its direct children, and every text attached to
// it as one unit. Cascading stops at one level, matching the thread model.
func (p *PostController) DeletePost(ctx *gin.Context) {
	var post models.Post
	if err := p.db.First(&post, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40425, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50037, "failed to load post")
		return
	}

	err := p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_id = ?", post.ID).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostText{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50038, "failed to delete post")
		return
	}

	utils.InvalidateByPrefix("cache:posts:")
	utils.Success(ctx, gin.H{"message": "post deleted"})
}

// sanitizeOptional cleans an optional free-text field, mapping blank to null.
func sanitizeOptional(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(utils.Sanitize(*v))
	if s == "" {
		return nil
	}
	return &s
}
