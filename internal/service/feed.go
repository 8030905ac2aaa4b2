package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/askloop/askloop/internal/model"
	"github.com/askloop/askloop/internal/objectkey"
	"github.com/askloop/askloop/internal/repository"
	"github.com/askloop/askloop/internal/storage"
)

// ErrInvalidCursor marks a page cursor the server did not issue.
var ErrInvalidCursor = errors.New("invalid cursor")

// FeedService produces the feed's backing sequence from the metadata
// index and keeps the index in step with the bucket.
type FeedService struct {
	clipRepo repository.ClipRepository
	storage  storage.Storage
	pageSize int
}

func NewFeedService(clipRepo repository.ClipRepository, storage storage.Storage, pageSize int) *FeedService {
	if pageSize <= 0 {
		pageSize = 50
	}
	return &FeedService{
		clipRepo: clipRepo,
		storage:  storage,
		pageSize: pageSize,
	}
}

// Page returns one feed page, newest first, plus the cursor for the
// next page. An empty cursor starts from the top; an empty returned
// cursor means the feed is exhausted.
func (s *FeedService) Page(limit int, cursor string) ([]model.FeedItem, string, error) {
	if limit <= 0 || limit > 200 {
		limit = s.pageSize
	}

	before, beforeID, err := decodeCursor(cursor)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	clips, err := s.clipRepo.Recent(limit, before, beforeID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list clips: %w", err)
	}

	items := make([]model.FeedItem, 0, len(clips))
	for _, clip := range clips {
		items = append(items, model.FeedItem{
			URI:   s.storage.URL(clip.StorageKey),
			User:  clip.Responder,
			Title: clip.Title,
			Kind:  clip.Kind,
		})
	}

	next := ""
	if len(clips) == limit {
		last := clips[len(clips)-1]
		next = encodeCursor(last.CreatedAt, last.ID)
	}

	return items, next, nil
}

// Sync walks the bucket under the clip prefix and backfills index rows
// for objects that predate the metadata index, recovering title and
// responder from the key encoding. Returns the number of rows added.
func (s *FeedService) Sync(ctx context.Context) (int, error) {
	keys, err := s.storage.List(ctx, objectkey.Prefix)
	if err != nil {
		return 0, fmt.Errorf("failed to list bucket: %w", err)
	}

	added := 0
	for _, key := range keys {
		_, err := s.clipRepo.ByStorageKey(key)
		if err == nil {
			continue
		}
		if err != repository.ErrClipNotFound {
			return added, err
		}

		info := objectkey.Decode(key)
		clip := &model.Clip{
			Title:      info.Title,
			Responder:  info.Responder,
			Kind:       string(info.Kind),
			StorageKey: key,
			CreatedAt:  time.Now(),
		}
		if clip.Responder == "" {
			clip.Responder = objectkey.DefaultResponder
		}

		err = s.clipRepo.Create(clip)
		if err != nil {
			return added, fmt.Errorf("failed to backfill clip %q: %w", key, err)
		}
		added++
	}

	if added > 0 {
		slog.Info("feed sync backfilled clips", "added", added, "scanned", len(keys))
	}

	return added, nil
}

// SyncLoop runs Sync on a fixed interval until ctx is done.
func (s *FeedService) SyncLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, err := s.Sync(ctx)
			if err != nil {
				slog.Error("feed sync failed", "error", err)
			}
		}
	}
}

// Cursors are the keyset position of the last row on the page:
// created_at at full precision plus the row id as a tie-break, so rows
// sharing a timestamp survive a page boundary between them.
// Base64-wrapped so clients treat them as opaque.
func encodeCursor(t time.Time, id string) string {
	token := strconv.FormatInt(t.UnixNano(), 10) + "|" + id
	return base64.RawURLEncoding.EncodeToString([]byte(token))
}

func decodeCursor(cursor string) (time.Time, string, error) {
	if cursor == "" {
		return time.Time{}, "", nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, "", err
	}

	at, id, ok := strings.Cut(string(raw), "|")
	if !ok || id == "" {
		return time.Time{}, "", errors.New("malformed token")
	}

	ns, err := strconv.ParseInt(at, 10, 64)
	if err != nil {
		return time.Time{}, "", err
	}

	return time.Unix(0, ns).UTC(), id, nil
}
