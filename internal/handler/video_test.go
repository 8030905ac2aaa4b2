package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askloop/askloop/internal/model"
	"github.com/askloop/askloop/internal/repository"
	"github.com/askloop/askloop/internal/service"
)

type fakeStorage struct {
	saveErr error
	keys    []string
}

func (f *fakeStorage) Save(ctx context.Context, key string, body io.Reader, contentType string) error {
	return f.saveErr
}

func (f *fakeStorage) List(ctx context.Context, prefix string) ([]string, error) {
	return f.keys, nil
}

func (f *fakeStorage) ListPage(ctx context.Context, prefix, token string, max int32) ([]string, string, error) {
	return f.keys, "", nil
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error { return nil }

func (f *fakeStorage) URL(key string) string {
	return "https://clips.example.com/" + key
}

type fakeClipRepo struct {
	clips   []*model.Clip
	listErr error
}

func (f *fakeClipRepo) Create(clip *model.Clip) error {
	f.clips = append(f.clips, clip)
	return nil
}

func (f *fakeClipRepo) ByID(id string) (*model.Clip, error) {
	for _, c := range f.clips {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, repository.ErrClipNotFound
}

func (f *fakeClipRepo) ByStorageKey(key string) (*model.Clip, error) {
	for _, c := range f.clips {
		if c.StorageKey == key {
			return c, nil
		}
	}
	return nil, repository.ErrClipNotFound
}

func (f *fakeClipRepo) Recent(limit int, before time.Time, beforeID string) ([]*model.Clip, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if len(f.clips) > limit {
		return f.clips[:limit], nil
	}
	return f.clips, nil
}

func (f *fakeClipRepo) Count() (int, error) { return len(f.clips), nil }

func (f *fakeClipRepo) Delete(id string) error { return nil }

func newTestMux(repo *fakeClipRepo, store *fakeStorage) *http.ServeMux {
	clipService := service.NewClipService(repo, store)
	feedService := service.NewFeedService(repo, store, 50)
	h := NewVideoHandler(clipService, feedService, 10<<20)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /videos", h.List)
	mux.HandleFunc("POST /videos", h.Create)
	mux.HandleFunc("GET /videos/{id}", h.ByID)
	mux.HandleFunc("POST /admin/sync", h.Sync)
	return mux
}

func TestListVideos(t *testing.T) {
	repo := &fakeClipRepo{clips: []*model.Clip{
		{ID: "1", Title: "a", Responder: "x", Kind: "video", StorageKey: "public/a-1_x.mp4", CreatedAt: time.UnixMilli(2000)},
		{ID: "2", Title: "b", Responder: "y", Kind: "text", StorageKey: "public/b-2_y.txt", CreatedAt: time.UnixMilli(1000)},
	}}
	mux := newTestMux(repo, &fakeStorage{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/videos", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var items []model.FeedItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))

	require.Len(t, items, 2)
	assert.Contains(t, items[0].URI, "public/a-1_x.mp4")
	assert.Contains(t, items[1].URI, "public/b-2_y.txt")
	assert.Equal(t, "x", items[0].User)
	assert.Equal(t, "a", items[0].Title)
}

func TestListVideos_EmptyFeedIsNotAnError(t *testing.T) {
	mux := newTestMux(&fakeClipRepo{}, &fakeStorage{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/videos", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestListVideos_FailureIsJSONError(t *testing.T) {
	repo := &fakeClipRepo{listErr: errors.New("db gone")}
	mux := newTestMux(repo, &fakeStorage{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/videos", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var e struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	assert.NotEmpty(t, e.Error, "a failed listing must be distinguishable from an empty one")
}

func TestListVideos_InvalidLimit(t *testing.T) {
	mux := newTestMux(&fakeClipRepo{}, &fakeStorage{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/videos?limit=nope", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListVideos_InvalidCursor(t *testing.T) {
	mux := newTestMux(&fakeClipRepo{}, &fakeStorage{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/videos?cursor=not!a!cursor", nil))

	// A malformed client token is the client's fault, not a server
	// failure.
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateVideo_Text(t *testing.T) {
	mux := newTestMux(&fakeClipRepo{}, &fakeStorage{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, multipartRequest(t, map[string]string{
		"title": "late night thoughts",
		"text":  "why can't I sleep",
	}, nil))

	require.Equal(t, http.StatusCreated, rec.Code)

	var item model.FeedItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.Equal(t, "late night thoughts", item.Title)
	assert.Equal(t, "anonymous", item.User)
	assert.Equal(t, "text", item.Kind)
}

func TestCreateVideo_TextFileIndexedAsText(t *testing.T) {
	// A .txt file part is a text question; indexing it as video would
	// corrupt the metadata the clips table exists to provide.
	repo := &fakeClipRepo{}
	mux := newTestMux(repo, &fakeStorage{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, multipartRequest(t, map[string]string{
		"title": "late night thoughts",
	}, &filePart{name: "question.txt", payload: []byte("why can't I sleep")}))

	require.Equal(t, http.StatusCreated, rec.Code)

	var item model.FeedItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.Equal(t, "text", item.Kind)

	require.Len(t, repo.clips, 1)
	assert.Equal(t, "text", repo.clips[0].Kind)
}

func TestCreateVideo_MissingTitle(t *testing.T) {
	mux := newTestMux(&fakeClipRepo{}, &fakeStorage{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, multipartRequest(t, map[string]string{
		"text": "hello",
	}, nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateVideo_NoFileOrText(t *testing.T) {
	mux := newTestMux(&fakeClipRepo{}, &fakeStorage{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, multipartRequest(t, map[string]string{
		"title": "hello",
	}, nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateVideo_RejectsWrongFileType(t *testing.T) {
	mux := newTestMux(&fakeClipRepo{}, &fakeStorage{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, multipartRequest(t, map[string]string{
		"title": "hello",
	}, &filePart{name: "page.html", payload: []byte("<!DOCTYPE html><html></html>")}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateVideo_StorageFailure(t *testing.T) {
	store := &fakeStorage{saveErr: errors.New("connection reset")}
	mux := newTestMux(&fakeClipRepo{}, store)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, multipartRequest(t, map[string]string{
		"title": "hello",
		"text":  "hi",
	}, nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestVideoByID(t *testing.T) {
	repo := &fakeClipRepo{clips: []*model.Clip{
		{ID: "abc", Title: "a", Responder: "x", Kind: "video", StorageKey: "public/a-1_x.mp4"},
	}}
	mux := newTestMux(repo, &fakeStorage{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/videos/abc", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var item model.FeedItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.Equal(t, "a", item.Title)
}

func TestVideoByID_NotFound(t *testing.T) {
	mux := newTestMux(&fakeClipRepo{}, &fakeStorage{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/videos/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSyncEndpoint(t *testing.T) {
	store := &fakeStorage{keys: []string{"public/a-1_x.mp4", "public/b-2_y.txt"}}
	repo := &fakeClipRepo{}
	mux := newTestMux(repo, store)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/sync", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"added": 2}`, rec.Body.String())
	assert.Len(t, repo.clips, 2)
}

type filePart struct {
	name    string
	payload []byte
}

func multipartRequest(t *testing.T, fields map[string]string, file *filePart) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}

	if file != nil {
		part, err := mw.CreateFormFile("file", file.name)
		require.NoError(t, err)
		_, err = part.Write(file.payload)
		require.NoError(t, err)
	}

	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/videos", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}
