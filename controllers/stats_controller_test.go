package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStats(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db)

	author := createAuthor(t, db, "vm")
	post := createPost(t, db, "ig", &author.ID, nil, "")
	createText(t, db, post.ID, "ig-comment", "hello", nil)
	createEvent(t, db, "debut stage")

	w := doJSON(t, r, "GET", "/api/v1/stats", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, w)
	assert.Equal(t, float64(1), data["posts"])
	assert.Equal(t, float64(1), data["texts"])
	assert.Equal(t, float64(1), data["authors"])
	assert.Equal(t, float64(1), data["events"])
}
