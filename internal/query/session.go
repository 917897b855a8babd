// Package query is the single entry surface external collaborators call.
// It composes the registry, catalog, aggregation, trend, and equity services
// behind stable output contracts and memoizes results per loaded dataset.
package query

import (
	"sync/atomic"
	"time"

	"rdhub/internal/dataset"
	"rdhub/pkg/domain"
	dErrors "rdhub/pkg/domain-errors"
)

// Session is one immutable loaded dataset. Switching data never mutates a
// session: a reload constructs a new one and swaps it into the holder, which
// structurally invalidates every cached result through the new fingerprint.
type Session struct {
	id         domain.SessionID
	frame      dataset.Frame
	loadedAt   time.Time
	rejections []dataset.Rejection
}

// NewSession wraps a loaded frame and its rejection list.
func NewSession(frame dataset.Frame, rejections []dataset.Rejection, loadedAt time.Time) *Session {
	kept := make([]dataset.Rejection, len(rejections))
	copy(kept, rejections)
	return &Session{
		id:         domain.NewSessionID(),
		frame:      frame,
		loadedAt:   loadedAt,
		rejections: kept,
	}
}

// ID returns the session identifier.
func (s *Session) ID() domain.SessionID { return s.id }

// Frame returns the loaded frame.
func (s *Session) Frame() dataset.Frame { return s.frame }

// LoadedAt returns when the session's data was loaded.
func (s *Session) LoadedAt() time.Time { return s.loadedAt }

// Rejections returns a copy of the load's rejection list so callers can
// audit dropped rows.
func (s *Session) Rejections() []dataset.Rejection {
	out := make([]dataset.Rejection, len(s.rejections))
	copy(out, s.rejections)
	return out
}

// Holder publishes the current session to concurrent readers. Reload swaps
// the pointer; in-flight requests keep the session they started with.
type Holder struct {
	current atomic.Pointer[Session]
}

// NewHolder builds a holder, optionally seeded with an initial session.
func NewHolder(initial *Session) *Holder {
	h := &Holder{}
	if initial != nil {
		h.current.Store(initial)
	}
	return h
}

// Current returns the active session or a not_found error when no data has
// been loaded yet.
func (h *Holder) Current() (*Session, error) {
	s := h.current.Load()
	if s == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "no dataset loaded")
	}
	return s, nil
}

// Swap publishes a new session.
func (h *Holder) Swap(s *Session) {
	h.current.Store(s)
}
