// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session provides the persistent multi-session chat state.
//
// A session is a named, timestamped chat thread: a client-side
// organizational unit, not a backend conversation object. The collection
// and the active session id are rewritten to durable storage on every
// mutation, so the store always reflects memory within the same call.
// Transcripts are deliberately not persisted here; history durability is
// the backend's job via the export endpoint.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dravisapp/dravis-tui/internal/store"
)

// DefaultTitle is the title every session starts with. It is replaced
// exactly once, on the first chat response in the session.
const DefaultTitle = "New chat"

// Session is one chat thread.
type Session struct {
	ID string `json:"id"`
	// Title defaults to "New chat" and is derived from the first
	// exchange, never edited directly.
	Title string `json:"title"`
	// Timestamp is last-activity epoch millis.
	Timestamp int64 `json:"timestamp"`
}

// KV is the slice of the durable store this package needs.
type KV interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// Store holds the ordered session collection and the active id.
//
// Storage order is insertion order with new sessions prepended; the view
// renders the slice as-is. Invariant: after initialization the active id
// always references a member of the collection.
type Store struct {
	mu       sync.Mutex
	kv       KV
	sessions []Session
	activeID string

	now func() time.Time // test hook
}

// NewStore loads the session collection from the durable store, creating
// a single default session on first run or when the stored state is
// unusable.
func NewStore(kv KV) (*Store, error) {
	s := &Store{kv: kv, now: time.Now}

	raw, err := kv.Get(store.KeySessions)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("failed to load sessions: %w", err)
		}
		// First run: one default session.
		if err := s.createLocked(); err != nil {
			return nil, err
		}
		return s, nil
	}

	if err := json.Unmarshal([]byte(raw), &s.sessions); err != nil || len(s.sessions) == 0 {
		// Corrupt or empty state: start over rather than crash.
		s.sessions = nil
		if err := s.createLocked(); err != nil {
			return nil, err
		}
		return s, nil
	}

	// Restore the active id; fall back to the newest session when the
	// stored id no longer references a member.
	s.activeID = s.sessions[0].ID
	if id, err := kv.Get(store.KeyActiveSession); err == nil {
		for _, sess := range s.sessions {
			if sess.ID == id {
				s.activeID = id
				break
			}
		}
	}
	return s, nil
}

// Sessions returns a copy of the collection in storage order.
func (s *Store) Sessions() []Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Session, len(s.sessions))
	copy(out, s.sessions)
	return out
}

// ActiveID returns the active session id.
func (s *Store) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// Active returns the active session.
func (s *Store) Active() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		if sess.ID == s.activeID {
			return sess
		}
	}
	// Unreachable while the invariant holds; fall back defensively.
	return s.sessions[0]
}

// SetActive switches the active session. Unknown ids are rejected so the
// invariant cannot be broken from outside.
func (s *Store) SetActive(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		if sess.ID == id {
			s.activeID = id
			return s.persistLocked()
		}
	}
	return fmt.Errorf("unknown session id %q", id)
}

// Create prepends a new session with the default title and makes it
// active.
func (s *Store) Create() (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.createLocked(); err != nil {
		return Session{}, err
	}
	return s.sessions[0], nil
}

func (s *Store) createLocked() error {
	sess := Session{
		ID:        uuid.NewString(),
		Title:     DefaultTitle,
		Timestamp: s.now().UnixMilli(),
	}
	s.sessions = append([]Session{sess}, s.sessions...)
	s.activeID = sess.ID
	return s.persistLocked()
}

// RenameOnFirstMessage replaces the active session's title and bumps its
// timestamp. The update is order-preserving: all other sessions keep
// their position and identity.
func (s *Store) RenameOnFirstMessage(title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sessions {
		if s.sessions[i].ID == s.activeID {
			s.sessions[i].Title = title
			s.sessions[i].Timestamp = s.now().UnixMilli()
			return s.persistLocked()
		}
	}
	return fmt.Errorf("active session %q not found", s.activeID)
}

// Touch bumps the active session's last-activity timestamp.
func (s *Store) Touch() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sessions {
		if s.sessions[i].ID == s.activeID {
			s.sessions[i].Timestamp = s.now().UnixMilli()
			return s.persistLocked()
		}
	}
	return nil
}

// persistLocked rewrites the full collection and the active id. Called
// with the mutex held, inside the same mutation.
func (s *Store) persistLocked() error {
	data, err := json.Marshal(s.sessions)
	if err != nil {
		return fmt.Errorf("failed to encode sessions: %w", err)
	}
	if err := s.kv.Set(store.KeySessions, string(data)); err != nil {
		return err
	}
	return s.kv.Set(store.KeyActiveSession, s.activeID)
}
