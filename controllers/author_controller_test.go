package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmsocial/timeline/models"
)

func TestCreateAuthor(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)
	token := adminToken(t)

	w := doJSON(t, r, "POST", "/api/v1/authors", map[string]any{
		"name":              "vm",
		"profile_photo_url": "https://cdn.example.com/vm.jpg",
	}, token)

	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.Author{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateAuthor_DuplicateNameConflicts(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)
	token := adminToken(t)
	createAuthor(t, db, "vm")

	w := doJSON(t, r, "POST", "/api/v1/authors", map[string]any{"name": "vm"}, token)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestEnsureAuthor_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)
	token := adminToken(t)

	w1 := doJSON(t, r, "POST", "/api/v1/authors/ensure", map[string]any{"name": "vm"}, token)
	require.Equal(t, http.StatusOK, w1.Code)
	w2 := doJSON(t, r, "POST", "/api/v1/authors/ensure", map[string]any{"name": "vm"}, token)
	require.Equal(t, http.StatusOK, w2.Code)

	id1 := decodeData(t, w1)["author"].(map[string]any)["id"]
	id2 := decodeData(t, w2)["author"].(map[string]any)["id"]
	assert.Equal(t, id1, id2)

	var count int64
	db.Model(&models.Author{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestUpdateAuthor_Partial(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)
	token := adminToken(t)
	author := createAuthor(t, db, "vm")

	w := doJSON(t, r, "PATCH", fmt.Sprintf("/api/v1/authors/%d", author.ID), map[string]any{
		"profile_photo_url": "https://cdn.example.com/new.jpg",
	}, token)
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Author
	require.NoError(t, db.First(&reloaded, author.ID).Error)
	assert.Equal(t, "vm", reloaded.Name)
	require.NotNil(t, reloaded.ProfilePhotoURL)
	assert.Equal(t, "https://cdn.example.com/new.jpg", *reloaded.ProfilePhotoURL)
}

func TestDeleteAuthor_ReferencedConflicts(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)
	token := adminToken(t)
	author := createAuthor(t, db, "vm")
	createPost(t, db, "ig", &author.ID, nil, "")

	w := doJSON(t, r, "DELETE", fmt.Sprintf("/api/v1/authors/%d", author.ID), nil, token)
	assert.Equal(t, http.StatusConflict, w.Code)

	var count int64
	db.Model(&models.Author{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestDeleteAuthor_Unreferenced(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)
	token := adminToken(t)
	author := createAuthor(t, db, "vm")

	w := doJSON(t, r, "DELETE", fmt.Sprintf("/api/v1/authors/%d", author.ID), nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.Author{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestGetAuthor_NotFound(t *testing.T) {
	r := setupRouter(t, setupTestDB(t))
	w := doJSON(t, r, "GET", "/api/v1/authors/999", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListAuthors_Public(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)
	createAuthor(t, db, "a")
	createAuthor(t, db, "b")

	w := doJSON(t, r, "GET", "/api/v1/authors", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	items := decodeData(t, w)["items"].([]any)
	assert.Len(t, items, 2)
}
