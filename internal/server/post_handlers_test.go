package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostsRequireAuthentication(t *testing.T) {
	app := newTestApp(t)

	for _, probe := range []struct{ method, path string }{
		{http.MethodGet, "/api/posts"},
		{http.MethodGet, "/api/posts/1"},
		{http.MethodPost, "/api/posts"},
		{http.MethodPut, "/api/posts/1"},
		{http.MethodDelete, "/api/posts/1"},
		{http.MethodPost, "/api/votes"},
	} {
		resp, _ := doJSON(t, app, probe.method, probe.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode,
			"%s %s should demand a token", probe.method, probe.path)
	}
}

func TestCreateAndGetPost(t *testing.T) {
	app := newTestApp(t)
	token, userID := signup(t, app, "alice")

	postID := createPost(t, app, token, "hello world", true)

	resp, body := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/posts/%d", postID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hello world", body["title"])
	assert.Equal(t, float64(userID), body["user_id"])
	assert.Equal(t, float64(0), body["likes_count"])
	assert.Equal(t, "alice", body["user"].(map[string]any)["username"])
}

func TestGetMissingPost(t *testing.T) {
	app := newTestApp(t)
	token, _ := signup(t, app, "alice")

	resp, _ := doJSON(t, app, http.MethodGet, "/api/posts/999", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/posts/not-a-number", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUnpublishedPostVisibility(t *testing.T) {
	app := newTestApp(t)
	aliceToken, _ := signup(t, app, "alice")
	bobToken, _ := signup(t, app, "bob")

	draftID := createPost(t, app, aliceToken, "secret draft", false)

	// The owner reads their draft.
	resp, _ := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/posts/%d", draftID), aliceToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Anyone else is refused, and the draft stays out of their listings.
	resp, _ = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/posts/%d", draftID), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, posts := doJSONList(t, app, "/api/posts", bobToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	for _, p := range posts {
		assert.NotEqual(t, "secret draft", p["title"])
	}

	resp, posts = doJSONList(t, app, "/api/posts", aliceToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, posts, 1)
	assert.Equal(t, "secret draft", posts[0]["title"])
}

func TestListPostsSearch(t *testing.T) {
	app := newTestApp(t)
	token, _ := signup(t, app, "alice")
	createPost(t, app, token, "golang tips", true)
	createPost(t, app, token, "gardening", true)

	resp, posts := doJSONList(t, app, "/api/posts?search=golang", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, posts, 1)
	assert.Equal(t, "golang tips", posts[0]["title"])
}

func TestGetMyPosts(t *testing.T) {
	app := newTestApp(t)
	aliceToken, _ := signup(t, app, "alice")
	bobToken, _ := signup(t, app, "bob")
	createPost(t, app, aliceToken, "alice public", true)
	createPost(t, app, aliceToken, "alice draft", false)
	createPost(t, app, bobToken, "bob public", true)

	resp, posts := doJSONList(t, app, "/api/posts/me", aliceToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, posts, 2)
	for _, p := range posts {
		assert.Contains(t, p["title"], "alice")
	}
}

func TestUpdatePostPatch(t *testing.T) {
	app := newTestApp(t)
	token, _ := signup(t, app, "alice")
	postID := createPost(t, app, token, "original", true)

	// Only the title is sent; content and published survive.
	resp, body := doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/posts/%d", postID), token, map[string]any{
		"title": "renamed",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "renamed", body["title"])
	assert.Equal(t, "content of original", body["content"])
	assert.Equal(t, true, body["published"])

	// Unpublishing alone leaves the text in place.
	resp, body = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/posts/%d", postID), token, map[string]any{
		"published": false,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "renamed", body["title"])
	assert.Equal(t, false, body["published"])
}

func TestUpdatePostOwnership(t *testing.T) {
	app := newTestApp(t)
	aliceToken, _ := signup(t, app, "alice")
	bobToken, _ := signup(t, app, "bob")
	postID := createPost(t, app, aliceToken, "alice post", true)

	resp, _ := doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/posts/%d", postID), bobToken, map[string]any{
		"title": "hijacked",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// A missing post reads as NOT_FOUND even to a would-be non-owner.
	resp, _ = doJSON(t, app, http.MethodPut, "/api/posts/999", bobToken, map[string]any{
		"title": "x",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeletePost(t *testing.T) {
	app := newTestApp(t)
	aliceToken, _ := signup(t, app, "alice")
	bobToken, _ := signup(t, app, "bob")
	postID := createPost(t, app, aliceToken, "doomed", true)

	// A non-owner cannot delete it.
	resp, _ := doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/posts/%d", postID), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// The owner can, and the post is gone afterwards.
	resp, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/posts/%d", postID), aliceToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/posts/%d", postID), aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/posts/%d", postID), aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreatePostValidation(t *testing.T) {
	app := newTestApp(t)
	token, _ := signup(t, app, "alice")

	resp, _ := doJSON(t, app, http.MethodPost, "/api/posts", token, map[string]any{
		"title": "", "content": "body",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/posts", token, map[string]any{
		"title": "t", "content": "",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
