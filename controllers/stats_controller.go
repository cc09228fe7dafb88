package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vmsocial/timeline/models"
	"github.com/vmsocial/timeline/utils"
)

// StatsController exposes public row counts for the archive.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetStats returns total counts per entity.
func (s *StatsController) GetStats(ctx *gin.Context) {
	var posts, texts, authors, events int64

	for _, c := range []struct {
		model interface{}
		dst   *int64
	}{
		{&models.Post{}, &posts},
		{&models.PostText{}, &texts},
		{&models.Author{}, &authors},
		{&models.Event{}, &events},
	} {
		if err := s.db.Model(c.model).Count(c.dst).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to load stats")
			return
		}
	}

	utils.Success(ctx, gin.H{
		"posts":   posts,
		"texts":   texts,
		"authors": authors,
		"events":  events,
	})
}
