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

// AuthorController manages the author directory.
type AuthorController struct {
	db *gorm.DB
}

// NewAuthorController creates a new AuthorController instance.
func NewAuthorController(db *gorm.DB) *AuthorController {
	return &AuthorController{db: db}
}

type authorCreateRequest struct {
	Name            string  `json:"name" binding:"required"`
	ProfilePhotoURL *string `json:"profile_photo_url"`
}

// ListAuthors returns all authors.
func (a *AuthorController) ListAuthors(ctx *gin.Context) {
	var authors []models.Author
	if err := a.db.Order("id").Find(&authors).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to list authors")
		return
	}
	utils.Success(ctx, gin.H{"items": authors})
}

// GetAuthor returns a single author by id.
func (a *AuthorController) GetAuthor(ctx *gin.Context) {
	var author models.Author
	if err := a.db.First(&author, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40410, "author not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to load author")
		return
	}
	utils.Success(ctx, gin.H{"author": author})
}

// CreateAuthor inserts a new author. Names are unique; a duplicate is a conflict.
func (a *AuthorController) CreateAuthor(ctx *gin.Context) {
	var req authorCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request payload")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		utils.Error(ctx, http.StatusBadRequest, 40011, "author name cannot be empty")
		return
	}

	author := models.Author{Name: name, ProfilePhotoURL: normalizeOptional(req.ProfilePhotoURL)}
	if err := a.db.Create(&author).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Error(ctx, http.StatusConflict, 40910, "author name already exists")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to create author")
		return
	}

	a.invalidateDenormalizedCaches()
	utils.Success(ctx, gin.H{"author": author})
}

// EnsureAuthor returns the author with the given name, creating it when
// absent. The unique index is the final arbiter: a duplicate-key failure
// from a concurrent creator degrades to fetching the winner's row, so the
// operation stays idempotent.
func (a *AuthorController) EnsureAuthor(ctx *gin.Context) {
	var req authorCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40012, "invalid request payload")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		utils.Error(ctx, http.StatusBadRequest, 40013, "author name cannot be empty")
		return
	}

	var author models.Author
	err := a.db.Where("name = ?", name).First(&author).Error
	if err == nil {
		utils.Success(ctx, gin.H{"author": author})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to load author")
		return
	}

	author = models.Author{Name: name, ProfilePhotoURL: normalizeOptional(req.ProfilePhotoURL)}
	if err := a.db.Create(&author).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := a.db.Where("name = ?", name).First(&author).Error; err != nil {
				utils.Error(ctx, http.StatusInternalServerError, 50014, "failed to load author")
				return
			}
			utils.Success(ctx, gin.H{"author": author})
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50015, "failed to create author")
		return
	}

	utils.Success(ctx, gin.H{"author": author})
}

// UpdateAuthor applies a partial update.
func (a *AuthorController) UpdateAuthor(ctx *gin.Context) {
	var req struct {
		Name            *string `json:"name"`
		ProfilePhotoURL *string `json:"profile_photo_url"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40014, "invalid request payload")
		return
	}

	var author models.Author
	if err := a.db.First(&author, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40411, "author not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50016, "failed to load author")
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			utils.Error(ctx, http.StatusBadRequest, 40015, "author name cannot be empty")
			return
		}
		author.Name = name
	}
	if req.ProfilePhotoURL != nil {
		author.ProfilePhotoURL = normalizeOptional(req.ProfilePhotoURL)
	}

	if err := a.db.Save(&author).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Error(ctx, http.StatusConflict, 40911, "author name already exists")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50017, "failed to update author")
		return
	}

	a.invalidateDenormalizedCaches()
	utils.Success(ctx, gin.H{"author": author})
}

// DeleteAuthor removes an author. Authors still referenced by posts, texts,
// or event memberships cannot be deleted; dangling author references would
// silently rewrite content history.
func (a *AuthorController) DeleteAuthor(ctx *gin.Context) {
	var author models.Author
	if err := a.db.First(&author, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40412, "author not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50018, "failed to load author")
		return
	}

	var refs int64
	for _, count := range []func() *gorm.DB{
		func() *gorm.DB { return a.db.Model(&models.Post{}).Where("author_id = ?", author.ID) },
		func() *gorm.DB { return a.db.Model(&models.PostText{}).Where("author_id = ?", author.ID) },
		func() *gorm.DB { return a.db.Model(&models.EventAuthorLink{}).Where("author_id = ?", author.ID) },
	} {
		var n int64
		if err := count().Count(&n).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50019, "failed to check author references")
			return
		}
		refs += n
	}
	if refs > 0 {
		utils.Error(ctx, http.StatusConflict, 40912, "author is referenced by existing posts, texts, or events")
		return
	}

	if err := a.db.Delete(&author).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to delete author")
		return
	}

	a.invalidateDenormalizedCaches()
	utils.Success(ctx, gin.H{"message": "author deleted"})
}

// Author display fields are denormalized into cached post and event
// responses, so author mutations flush both.
func (a *AuthorController) invalidateDenormalizedCaches() {
	utils.InvalidateByPrefix("cache:posts:")
	utils.InvalidateByPrefix("cache:events:")
}

// normalizeOptional trims an optional string field, mapping blank to null.
func normalizeOptional(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}
