package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/askloop/askloop/internal/model"
	"github.com/askloop/askloop/internal/objectkey"
	"github.com/askloop/askloop/internal/repository"
	"github.com/askloop/askloop/internal/service"
	"github.com/askloop/askloop/internal/validation"
)

type VideoHandler struct {
	clipService *service.ClipService
	feedService *service.FeedService
	maxBytes    int64
}

func NewVideoHandler(clipService *service.ClipService, feedService *service.FeedService, maxBytes int64) *VideoHandler {
	return &VideoHandler{
		clipService: clipService,
		feedService: feedService,
		maxBytes:    maxBytes,
	}
}

type feedResponse struct {
	Items []model.FeedItem `json:"items"`
	Next  string           `json:"next,omitempty"`
}

// List serves GET /videos. The plain response body is the feed array
// itself, matching what feed clients expect; the paging envelope is
// only sent when a cursor or explicit limit is supplied.
func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	limitStr := r.URL.Query().Get("limit")
	cursor := r.URL.Query().Get("cursor")

	limit := 0
	if limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	items, next, err := h.feedService.Page(limit, cursor)
	if errors.Is(err, service.ErrInvalidCursor) {
		respondError(w, http.StatusBadRequest, "invalid cursor")
		return
	}
	if err != nil {
		slog.Error("failed to list videos", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list videos")
		return
	}

	if limitStr == "" && cursor == "" {
		// Bare GET /videos keeps the original flat-array shape.
		respondJSON(w, http.StatusOK, items)
		return
	}

	respondJSON(w, http.StatusOK, feedResponse{Items: items, Next: next})
}

// Create serves POST /videos: multipart form with a "file" part (or a
// "text" field for typed questions), plus "title" and optional
// "responder" fields.
func (h *VideoHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	err := r.ParseMultipartForm(h.maxBytes)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	sub := model.Submission{
		Title:     r.FormValue("title"),
		Responder: r.FormValue("responder"),
	}

	if text := r.FormValue("text"); text != "" {
		sub.Kind = model.KindText
		sub.Payload = []byte(text)
		sub.ContentType = "text/plain"
	} else {
		file, header, err := r.FormFile("file")
		if err != nil {
			respondError(w, http.StatusBadRequest, "file or text is required")
			return
		}
		defer func() { _ = file.Close() }()

		payload, err := io.ReadAll(file)
		if err != nil {
			respondError(w, http.StatusBadRequest, "failed to read upload")
			return
		}

		err = validation.ValidateClip(header.Filename, payload, validation.VideoConstraints, validation.TextConstraints)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		// The kind follows the upload, not the endpoint: a .txt file
		// part is a text question and must be indexed as one.
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(header.Filename)), ".")
		if objectkey.KindFromExtension(ext) == objectkey.KindText {
			sub.Kind = model.KindText
		} else {
			sub.Kind = model.KindVideo
		}
		sub.Payload = payload
		sub.ContentType = header.Header.Get("Content-Type")
	}

	clip, err := h.clipService.Create(r.Context(), sub)
	switch err {
	case nil:
	case service.ErrTitleRequired, service.ErrTitleTooLong, service.ErrPayloadRequired:
		respondError(w, http.StatusBadRequest, err.Error())
		return
	default:
		slog.Error("failed to create clip", "error", err, "title", sub.Title)
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrStorageUpload) {
			status = http.StatusBadGateway
		}
		respondError(w, status, "failed to upload clip")
		return
	}

	respondJSON(w, http.StatusCreated, model.FeedItem{
		URI:   h.clipService.URL(clip),
		User:  clip.Responder,
		Title: clip.Title,
		Kind:  clip.Kind,
	})
}

// ByID serves GET /videos/{id}.
func (h *VideoHandler) ByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	clip, err := h.clipService.ByID(id)
	if err == repository.ErrClipNotFound {
		respondError(w, http.StatusNotFound, "clip not found")
		return
	}
	if err != nil {
		slog.Error("failed to get clip", "error", err, "clip_id", id)
		respondError(w, http.StatusInternalServerError, "failed to get clip")
		return
	}

	respondJSON(w, http.StatusOK, model.FeedItem{
		URI:   h.clipService.URL(clip),
		User:  clip.Responder,
		Title: clip.Title,
		Kind:  clip.Kind,
	})
}

// Sync serves POST /admin/sync: backfill index rows for bucket objects
// that predate the metadata index.
func (h *VideoHandler) Sync(w http.ResponseWriter, r *http.Request) {
	added, err := h.feedService.Sync(r.Context())
	if err != nil {
		slog.Error("failed to sync bucket", "error", err)
		respondError(w, http.StatusInternalServerError, "sync failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"added": added})
}
