package service

import (
	"strings"
	"sync"

	"github.com/askloop/askloop/internal/model"
	"github.com/askloop/askloop/internal/repository"
)

// DirectoryService serves the responder directory. Readers subscribe
// for full-list snapshots: a subscriber gets the current list
// immediately and a fresh complete list after every mutation, matching
// the realtime-collection semantics the search screen is built on.
type DirectoryService struct {
	repo repository.ResponderRepository

	mu   sync.Mutex
	subs map[int]chan []model.Responder
	next int
}

func NewDirectoryService(repo repository.ResponderRepository) *DirectoryService {
	return &DirectoryService{
		repo: repo,
		subs: make(map[int]chan []model.Responder),
	}
}

// All returns the current directory snapshot.
func (s *DirectoryService) All() ([]model.Responder, error) {
	return s.repo.All()
}

// Create adds a profile and notifies subscribers with a new snapshot.
func (s *DirectoryService) Create(responder *model.Responder) error {
	err := s.repo.Create(responder)
	if err != nil {
		return err
	}

	s.broadcast()
	return nil
}

// Delete removes a profile and notifies subscribers.
func (s *DirectoryService) Delete(id string) error {
	err := s.repo.Delete(id)
	if err != nil {
		return err
	}

	s.broadcast()
	return nil
}

// Search returns the snapshot filtered by query.
func (s *DirectoryService) Search(query string) ([]model.Responder, error) {
	responders, err := s.repo.All()
	if err != nil {
		return nil, err
	}
	return Filter(responders, query), nil
}

// Subscribe registers for directory snapshots. The channel receives the
// current list immediately, then a full replacement list after each
// mutation. Call the returned cancel func to unsubscribe.
func (s *DirectoryService) Subscribe() (<-chan []model.Responder, func()) {
	ch := make(chan []model.Responder, 4)

	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = ch
	s.mu.Unlock()

	if snapshot, err := s.repo.All(); err == nil {
		ch <- snapshot
	}

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}

	return ch, cancel
}

func (s *DirectoryService) broadcast() {
	snapshot, err := s.repo.All()
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		// Slow subscribers drop snapshots rather than block mutations.
		select {
		case ch <- snapshot:
		default:
		}
	}
}

// Filter is the directory search: case-insensitive substring match on
// username or any keyword. An empty query returns everything. Pure and
// cheap enough to rerun on every keystroke over the in-memory snapshot.
func Filter(responders []model.Responder, query string) []model.Responder {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return responders
	}

	matched := make([]model.Responder, 0, len(responders))
	for _, r := range responders {
		if strings.Contains(strings.ToLower(r.Username), query) {
			matched = append(matched, r)
			continue
		}
		for _, kw := range r.Keywords {
			if strings.Contains(strings.ToLower(kw), query) {
				matched = append(matched, r)
				break
			}
		}
	}

	return matched
}
