package service

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askloop/askloop/internal/model"
)

func TestFeedService_Page(t *testing.T) {
	repo := &fakeClipRepo{clips: []*model.Clip{
		{ID: "1", Title: "first", Responder: "drsmith", Kind: "video", StorageKey: "public/first-3_drsmith.mp4", CreatedAt: time.UnixMilli(3000)},
		{ID: "2", Title: "second", Responder: "anonymous", Kind: "text", StorageKey: "public/second-2_anonymous.txt", CreatedAt: time.UnixMilli(2000)},
	}}
	s := NewFeedService(repo, &fakeStorage{}, 50)

	items, next, err := s.Page(0, "")
	require.NoError(t, err)
	assert.Empty(t, next)

	require.Len(t, items, 2)
	assert.Equal(t, "https://clips.example.com/public/first-3_drsmith.mp4", items[0].URI)
	assert.Equal(t, "drsmith", items[0].User)
	assert.Equal(t, "first", items[0].Title)
	assert.Equal(t, "video", items[0].Kind)
	assert.Equal(t, "second", items[1].Title)
}

func TestFeedService_Page_Empty(t *testing.T) {
	s := NewFeedService(&fakeClipRepo{}, &fakeStorage{}, 50)

	items, next, err := s.Page(0, "")
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Empty(t, next)
}

func TestFeedService_Page_Cursoring(t *testing.T) {
	repo := &fakeClipRepo{clips: []*model.Clip{
		{ID: "1", Title: "a", CreatedAt: time.UnixMilli(3000)},
		{ID: "2", Title: "b", CreatedAt: time.UnixMilli(2000)},
		{ID: "3", Title: "c", CreatedAt: time.UnixMilli(1000)},
	}}
	s := NewFeedService(repo, &fakeStorage{}, 50)

	items, next, err := s.Page(2, "")
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.NotEmpty(t, next, "full page must carry a continuation cursor")

	items, _, err = s.Page(2, next)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "c", items[0].Title)
}

func TestFeedService_Page_SameTimestampBoundary(t *testing.T) {
	// Two clips sharing a timestamp with a page boundary between them:
	// the id tie-break in the cursor must keep the sibling row from
	// being skipped.
	at := time.UnixMilli(1000)
	repo := &fakeClipRepo{clips: []*model.Clip{
		{ID: "c", Title: "newest", CreatedAt: time.UnixMilli(2000)},
		{ID: "b", Title: "sibling", CreatedAt: at},
		{ID: "a", Title: "older", CreatedAt: at},
	}}
	s := NewFeedService(repo, &fakeStorage{}, 50)

	items, next, err := s.Page(2, "")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "sibling", items[1].Title)
	require.NotEmpty(t, next)

	items, _, err = s.Page(2, next)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "older", items[0].Title)
}

func TestFeedService_Page_InvalidCursor(t *testing.T) {
	s := NewFeedService(&fakeClipRepo{}, &fakeStorage{}, 50)

	for _, cursor := range []string{
		"not!base64!",
		base64.RawURLEncoding.EncodeToString([]byte("no-separator")),
		base64.RawURLEncoding.EncodeToString([]byte("NaN|id")),
	} {
		_, _, err := s.Page(10, cursor)
		assert.ErrorIs(t, err, ErrInvalidCursor, "cursor %q", cursor)
	}
}

func TestFeedService_Sync_BackfillsUnknownKeys(t *testing.T) {
	store := &fakeStorage{listKeys: []string{
		"public/a-1_x.mp4",
		"public/b-2_y.txt",
	}}
	repo := &fakeClipRepo{}
	s := NewFeedService(repo, store, 50)

	added, err := s.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	require.Len(t, repo.clips, 2)
	assert.Equal(t, "a", repo.clips[0].Title)
	assert.Equal(t, "x", repo.clips[0].Responder)
	assert.Equal(t, "video", repo.clips[0].Kind)
	assert.Equal(t, "text", repo.clips[1].Kind)
}

func TestFeedService_Sync_SkipsKnownKeys(t *testing.T) {
	store := &fakeStorage{listKeys: []string{"public/a-1_x.mp4"}}
	repo := &fakeClipRepo{clips: []*model.Clip{
		{ID: "1", StorageKey: "public/a-1_x.mp4"},
	}}
	s := NewFeedService(repo, store, 50)

	added, err := s.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, added)
	assert.Len(t, repo.clips, 1)
}

func TestFeedService_Sync_UndecodableKeyStillIndexed(t *testing.T) {
	store := &fakeStorage{listKeys: []string{"public/IMG_5146.MOV"}}
	repo := &fakeClipRepo{}
	s := NewFeedService(repo, store, 50)

	added, err := s.Sync(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, added)

	// Decode degrades to blank title but the object is not lost.
	assert.Equal(t, "", repo.clips[0].Title)
	assert.Equal(t, "video", repo.clips[0].Kind)
}
