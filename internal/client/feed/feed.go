// Package feed assembles the watch screen's backing sequence: the
// server listing, with a just-uploaded item surfaced immediately at the
// top before the backend would otherwise reflect it.
package feed

import (
	"context"
	"fmt"
	"sync"

	"github.com/askloop/askloop/internal/model"
)

// Source is where the fetcher pulls the listing from.
type Source interface {
	Videos(ctx context.Context) ([]model.FeedItem, error)
}

// Fetcher owns the fetched sequence for the lifetime of one screen
// visit. Every Fetch replaces the whole sequence; there is no
// cross-visit cache.
//
// Concurrent fetches carry a generation token: only the response of the
// newest in-flight fetch is applied, so a slow earlier response can
// never overwrite a newer one.
type Fetcher struct {
	source Source

	mu         sync.Mutex
	generation uint64
	items      []model.FeedItem
	uploaded   *model.FeedItem
}

func New(source Source) *Fetcher {
	return &Fetcher{source: source}
}

// SetUploaded records a just-uploaded item to prepend on the next
// fetch. Pass nil to clear it. The prepended item is not deduplicated
// against the listing; the next natural refresh resolves the overlap.
func (f *Fetcher) SetUploaded(item *model.FeedItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploaded = item
}

// Fetch pulls the listing and swaps in the new sequence. If a newer
// Fetch started while this one was in flight, the stale result is
// discarded and the current sequence returned.
func (f *Fetcher) Fetch(ctx context.Context) ([]model.FeedItem, error) {
	f.mu.Lock()
	f.generation++
	gen := f.generation
	f.mu.Unlock()

	fetched, err := f.source.Videos(ctx)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if gen != f.generation {
		// A newer fetch superseded this one.
		return f.items, nil
	}

	if f.uploaded != nil {
		items := make([]model.FeedItem, 0, len(fetched)+1)
		items = append(items, *f.uploaded)
		items = append(items, fetched...)
		f.items = items
	} else {
		f.items = fetched
	}

	return f.items, nil
}

// Items returns the current backing sequence.
func (f *Fetcher) Items() []model.FeedItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items
}

// Share hands an item's URI to the platform share sink (OS share
// sheet, clipboard). The sink's error is returned as-is.
func (f *Fetcher) Share(index int, share func(uri string) error) error {
	f.mu.Lock()
	if index < 0 || index >= len(f.items) {
		f.mu.Unlock()
		return fmt.Errorf("no item at index %d", index)
	}
	uri := f.items[index].URI
	f.mu.Unlock()

	return share(uri)
}

// Window returns count items starting at start, wrapping around the
// sequence. This gives the renderer endless paging without
// materializing the 100x-replicated list the effect used to be faked
// with.
func (f *Fetcher) Window(start, count int) []model.FeedItem {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := len(f.items)
	if n == 0 || count <= 0 {
		return nil
	}

	out := make([]model.FeedItem, 0, count)
	for i := 0; i < count; i++ {
		idx := ((start+i)%n + n) % n
		out = append(out, f.items[idx])
	}

	return out
}
