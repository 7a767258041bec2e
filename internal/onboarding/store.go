package onboarding

import (
	"errors"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrDraftNotFound   = errors.New("draft not found")
	ErrContactNotFound = errors.New("draft contact not found")
	ErrInviteSkipped   = errors.New("invite step is set to skip")
)

// DefaultDraftTTL bounds how long an abandoned wizard survives.
const DefaultDraftTTL = 2 * time.Hour

// Store keeps in-flight drafts in memory. Drafts are wizard-local by
// contract: abandoning the wizard discards them, so they never touch
// the database.
type Store struct {
	mu     sync.Mutex
	ttl    time.Duration
	drafts map[string]*Draft
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultDraftTTL
	}
	return &Store{
		ttl:    ttl,
		drafts: make(map[string]*Draft),
	}
}

// Create opens a fresh draft owned by ownerID.
func (s *Store) Create(ownerID snowflake.ID) *Draft {
	draft := newDraft(ownerID, s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[draft.ID] = draft
	return draft.clone()
}

// Get returns a snapshot of the draft if it exists, belongs to ownerID
// and has not expired. A wrong owner looks identical to a missing
// draft.
func (s *Store) Get(id string, ownerID snowflake.ID) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, ok := s.drafts[id]
	if !ok || draft.OwnerID != ownerID {
		return nil, ErrDraftNotFound
	}
	if draft.expired(time.Now().UTC()) {
		delete(s.drafts, id)
		return nil, ErrDraftNotFound
	}
	return draft.clone(), nil
}

// Delete discards a draft.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, id)
}

// Sweep evicts expired drafts and reports how many were removed.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, draft := range s.drafts {
		if draft.expired(now) {
			delete(s.drafts, id)
			removed++
		}
	}
	return removed
}

// Mutate runs fn against the live draft under the store lock, so wizard
// operations from concurrent requests serialize per store. The caller
// gets back a snapshot, never the live draft.
func (s *Store) Mutate(id string, ownerID snowflake.ID, fn func(*Draft) error) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, ok := s.drafts[id]
	if !ok || draft.OwnerID != ownerID {
		return nil, ErrDraftNotFound
	}
	if draft.expired(time.Now().UTC()) {
		delete(s.drafts, id)
		return nil, ErrDraftNotFound
	}
	if err := fn(draft); err != nil {
		return nil, err
	}
	return draft.clone(), nil
}
