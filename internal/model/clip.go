package model

import (
	"time"

	"github.com/askloop/askloop/internal/objectkey"
)

// Clip is the authoritative metadata record for one uploaded question,
// stored in the clips table. The storage key duplicates title/responder
// in its legacy encoded form so old readers keep working.
type Clip struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Responder   string    `db:"responder"`
	Kind        string    `db:"kind"` // "video" or "text"
	StorageKey  string    `db:"storage_key"`
	ContentType string    `db:"content_type"`
	Size        int64     `db:"size"`
	CreatedAt   time.Time `db:"created_at"`
}

// FeedItem is the wire shape served by GET /videos and consumed by the
// feed fetcher. URI points at the object in the public bucket.
type FeedItem struct {
	URI   string `json:"uri"`
	User  string `json:"user"`
	Title string `json:"title"`
	Kind  string `json:"kind,omitempty"`
}

// FeedItemFromKey derives a feed item from a raw storage key, for
// objects that predate the metadata index. Missing fields stay blank
// rather than failing.
func FeedItemFromKey(baseURL, key string) FeedItem {
	info := objectkey.Decode(key)
	return FeedItem{
		URI:   baseURL + "/" + key,
		User:  info.Responder,
		Title: info.Title,
		Kind:  string(info.Kind),
	}
}
