package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/askloop/askloop/internal/model"
	"github.com/askloop/askloop/internal/objectkey"
	"github.com/askloop/askloop/internal/repository"
	"github.com/askloop/askloop/internal/storage"
)

const MaxTitleLength = 40

var (
	ErrTitleRequired   = errors.New("title is required")
	ErrTitleTooLong    = errors.New("title exceeds 40 characters")
	ErrPayloadRequired = errors.New("payload is required")
	ErrStorageUpload   = errors.New("storage upload failed")
)

// ClipService owns the upload path: validate, encode a storage key,
// put the payload, record the metadata. The storage put is the only
// durable side effect in the system; everything downstream is derived.
type ClipService struct {
	clipRepo repository.ClipRepository
	storage  storage.Storage
	now      func() time.Time
}

func NewClipService(clipRepo repository.ClipRepository, storage storage.Storage) *ClipService {
	return &ClipService{
		clipRepo: clipRepo,
		storage:  storage,
		now:      time.Now,
	}
}

// Create validates and uploads a submission. Validation failures return
// before any network call. The upload is a single attempt: on failure
// the submission is untouched and the caller may resend. If the
// metadata insert fails after a successful put, the uploaded object is
// removed best-effort so the bucket and the index stay consistent.
func (s *ClipService) Create(ctx context.Context, sub model.Submission) (*model.Clip, error) {
	if sub.Title == "" {
		return nil, ErrTitleRequired
	}
	if len([]rune(sub.Title)) > MaxTitleLength {
		return nil, ErrTitleTooLong
	}
	if len(sub.Payload) == 0 {
		return nil, ErrPayloadRequired
	}

	contentType := sub.ContentType
	if contentType == "" && sub.Kind == model.KindText {
		contentType = "text/plain"
	}
	responder := sub.Responder
	if responder == "" {
		responder = objectkey.DefaultResponder
	}

	ext := objectkey.ExtensionForContentType(contentType)
	kind := sub.Kind
	if kind == "" {
		kind = string(objectkey.KindFromExtension(ext))
	}
	// One clock read covers both the key and the record, so the millis
	// embedded in the key always match CreatedAt.
	now := s.now()
	key := objectkey.Encode(sub.Title, responder, now, ext)

	err := s.storage.Save(ctx, key, bytes.NewReader(sub.Payload), contentType)
	if err != nil {
		slog.Error("failed to upload clip", "error", err, "key", key)
		return nil, fmt.Errorf("%w: %v", ErrStorageUpload, err)
	}

	clip := &model.Clip{
		Title:       sub.Title,
		Responder:   responder,
		Kind:        kind,
		StorageKey:  key,
		ContentType: contentType,
		Size:        int64(len(sub.Payload)),
		CreatedAt:   now,
	}

	err = s.clipRepo.Create(clip)
	if err != nil {
		delErr := s.storage.Delete(ctx, key)
		if delErr != nil {
			slog.Error("failed to delete clip from storage during cleanup", "error", delErr, "key", key)
		}
		return nil, fmt.Errorf("failed to create clip record: %w", err)
	}

	return clip, nil
}

// ByID fetches a single clip record.
func (s *ClipService) ByID(id string) (*model.Clip, error) {
	return s.clipRepo.ByID(id)
}

// URL returns the public locator for a clip.
func (s *ClipService) URL(clip *model.Clip) string {
	return s.storage.URL(clip.StorageKey)
}

// Delete removes a clip from storage and the index. Storage deletion is
// best effort; the index row always goes.
func (s *ClipService) Delete(ctx context.Context, id string) error {
	clip, err := s.clipRepo.ByID(id)
	if err != nil {
		return err
	}

	delErr := s.storage.Delete(ctx, clip.StorageKey)
	if delErr != nil {
		slog.Warn("failed to delete clip from storage", "error", delErr, "key", clip.StorageKey)
	}

	return s.clipRepo.Delete(id)
}
