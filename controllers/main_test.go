package controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vmsocial/timeline/models"
	"github.com/vmsocial/timeline/routes"
	"github.com/vmsocial/timeline/utils"
)

const (
	testAdminUser     = "admin"
	testAdminPassword = "correct-horse-battery"
)

func TestMain(m *testing.M) {
	hash, err := utils.HashPassword(testAdminPassword)
	if err != nil {
		panic(err)
	}
	os.Setenv("JWT_SECRET", "unit-test-secret")
	os.Setenv("ADMIN_USERNAME", testAdminUser)
	os.Setenv("ADMIN_PASSWORD_HASH", hash)
	os.Setenv("GIN_MODE", "test")
	// Point Redis at a closed port so caching stays inert during tests.
	os.Setenv("REDIS_PORT", "63790")
	os.Exit(m.Run())
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A pooled second connection would see a different :memory: database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Author{},
		&models.Post{},
		&models.PostText{},
		&models.Event{},
		&models.EventAuthorLink{},
	))
	return db
}

func setupRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()
	return routes.SetupRouter(db)
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := utils.GenerateToken(testAdminUser, time.Hour)
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decodeData unwraps the {code,message,data} envelope.
func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp struct {
		Code    int            `json:"code"`
		Message string         `json:"message"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}

func createAuthor(t *testing.T, db *gorm.DB, name string) *models.Author {
	t.Helper()
	author := &models.Author{Name: name}
	require.NoError(t, db.Create(author).Error)
	return author
}

func createPost(t *testing.T, db *gorm.DB, platform string, authorID, parentID *uint, postedAt string) *models.Post {
	t.Helper()
	post := &models.Post{
		Platform:    platform,
		ExternalURL: "https://example.com/p",
		ExternalID:  "ext",
		AuthorID:    authorID,
		ParentID:    parentID,
	}
	if postedAt != "" {
		post.PostedAt = &postedAt
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func createEvent(t *testing.T, db *gorm.DB, name string, authorIDs ...uint) *models.Event {
	t.Helper()
	event := &models.Event{Name: name, TagsJSON: "[]"}
	require.NoError(t, db.Create(event).Error)
	for _, id := range authorIDs {
		require.NoError(t, db.Create(&models.EventAuthorLink{EventID: event.ID, AuthorID: id}).Error)
	}
	return event
}

func createText(t *testing.T, db *gorm.DB, postID uint, textType, content string, parentCommentID *uint) *models.PostText {
	t.Helper()
	text := &models.PostText{
		PostID:          postID,
		Type:            textType,
		Language:        "th",
		Content:         content,
		ParentCommentID: parentCommentID,
	}
	require.NoError(t, db.Create(text).Error)
	return text
}
