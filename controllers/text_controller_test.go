package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmsocial/timeline/models"
)

func TestAddText(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)
	token := adminToken(t)
	post := createPost(t, db, "ig", nil, nil, "")

	w := doJSON(t, r, "POST", "/api/v1/texts", map[string]any{
		"post_id":  post.ID,
		"type":     "ig-comment",
		"language": "th",
		"content":  "สวัสดี",
	}, token)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.PostText{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestAddText_MissingPost(t *testing.T) {
	r := setupRouter(t, setupTestDB(t))

	w := doJSON(t, r, "POST", "/api/v1/texts", map[string]any{
		"post_id": 999,
		"type":    "ig-comment",
		"content": "hello",
	}, adminToken(t))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddText_PlatformMismatch(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)
	post := createPost(t, db, "x", nil, nil, "")

	w := doJSON(t, r, "POST", "/api/v1/texts", map[string]any{
		"post_id": post.ID,
		"type":    "ig-comment",
		"content": "hello",
	}, adminToken(t))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestEditPair_CreatesThenUpdatesSingleChild(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)
	token := adminToken(t)
	post := createPost(t, db, "ig", nil, nil, "")
	primary := createText(t, db, post.ID, "ig-comment", "original", nil)
	path := fmt.Sprintf("/api/v1/texts/pair/%d", primary.ID)

	w := doJSON(t, r, "PATCH", path, map[string]any{
		"translation":          "hello",
		"translation_language": "en",
	}, token)
	require.Equal(t, http.StatusOK, w.Code)

	var children []models.PostText
	require.NoError(t, db.Where("parent_comment_id = ?", primary.ID).Find(&children).Error)
	require.Len(t, children, 1)
	assert.Equal(t, "ig-translation", children[0].Type)
	assert.Equal(t, "hello", children[0].Content)
	assert.Equal(t, post.ID, children[0].PostID)

	// Same translation again updates the child in place, no duplicate.
	w = doJSON(t, r, "PATCH", path, map[string]any{
		"translation": "hello again",
	}, token)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, db.Where("parent_comment_id = ?", primary.ID).Find(&children).Error)
	require.Len(t, children, 1)
	assert.Equal(t, "hello again", children[0].Content)
}

func TestEditPair_BlankTranslationDeletesChild(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)
	token := adminToken(t)
	post := createPost(t, db, "tt", nil, nil, "")
	primary := createText(t, db, post.ID, "tt-comment", "original", nil)
	createText(t, db, post.ID, "tt-translation", "old translation", &primary.ID)

	w := doJSON(t, r, "PATCH", fmt.Sprintf("/api/v1/texts/pair/%d", primary.ID), map[string]any{
		"caption":     "edited",
		"translation": "   ",
	}, token)
	require.Equal(t, http.StatusOK, w.Code)

	var children int64
	db.Model(&models.PostText{}).Where("parent_comment_id = ?", primary.ID).Count(&children)
	assert.Equal(t, int64(0), children)

	var reloaded models.PostText
	require.NoError(t, db.First(&reloaded, primary.ID).Error)
	assert.Equal(t, "edited", reloaded.Content)
}

func TestEditPair_UnmappedTypeRejected(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)
	post := createPost(t, db, "ig", nil, nil, "")
	primary := createText(t, db, post.ID, "ig-translation", "not a primary", nil)

	w := doJSON(t, r, "PATCH", fmt.Sprintf("/api/v1/texts/pair/%d", primary.ID), map[string]any{
		"translation": "hello",
	}, adminToken(t))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestEditPair_NotFound(t *testing.T) {
	r := setupRouter(t, setupTestDB(t))
	w := doJSON(t, r, "PATCH", "/api/v1/texts/pair/999", map[string]any{
		"translation": "hello",
	}, adminToken(t))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEditPair_ChildInheritsAuthorOverride(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)
	token := adminToken(t)
	author := createAuthor(t, db, "vm")
	post := createPost(t, db, "ig", nil, nil, "")
	primary := createText(t, db, post.ID, "ig-comment", "original", nil)

	w := doJSON(t, r, "PATCH", fmt.Sprintf("/api/v1/texts/pair/%d", primary.ID), map[string]any{
		"author_id":   author.ID,
		"translation": "hello",
	}, token)
	require.Equal(t, http.StatusOK, w.Code)

	var child models.PostText
	require.NoError(t, db.Where("parent_comment_id = ?", primary.ID).First(&child).Error)
	require.NotNil(t, child.AuthorID)
	assert.Equal(t, author.ID, *child.AuthorID)
}

func TestDeletePair(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)
	token := adminToken(t)
	post := createPost(t, db, "ig", nil, nil, "")
	primary := createText(t, db, post.ID, "ig-comment", "original", nil)
	createText(t, db, post.ID, "ig-translation", "child one", &primary.ID)
	createText(t, db, post.ID, "ig-translation", "child two", &primary.ID) // tolerated

	w := doJSON(t, r, "DELETE", fmt.Sprintf("/api/v1/texts/pair/%d", primary.ID), nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.PostText{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestListByPost_Enriched(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)
	author := createAuthor(t, db, "vm")
	post := createPost(t, db, "ig", nil, nil, "")
	text := createText(t, db, post.ID, "ig-comment", "hello", nil)
	require.NoError(t, db.Model(text).Update("author_id", author.ID).Error)

	w := doJSON(t, r, "GET", fmt.Sprintf("/api/v1/texts/by_post/%d", post.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	items := decodeData(t, w)["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "vm", items[0].(map[string]any)["author_name"])
}
