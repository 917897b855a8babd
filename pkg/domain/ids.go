// Package domain defines the typed identifiers shared across services.
//
// IDs are distinct named types so the compiler rejects cross-type assignment:
// a CountryID can never be passed where an IndicatorCode is expected.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "rdhub/pkg/domain-errors"
)

// CountryID is the canonical country identifier (ISO 3166-1 alpha-3).
type CountryID string

// IsNil returns true when the ID is empty.
func (c CountryID) IsNil() bool { return c == "" }

func (c CountryID) String() string { return string(c) }

// ParseCountryID validates an ISO3 code at a trust boundary.
func ParseCountryID(s string) (CountryID, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 3 {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "country id must be a 3-letter ISO code, got %q", s)
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return "", dErrors.Newf(dErrors.CodeInvalidInput, "country id must be alphabetic, got %q", s)
		}
	}
	return CountryID(s), nil
}

// IndicatorCode is the canonical indicator identifier.
type IndicatorCode string

// IsNil returns true when the code is empty.
func (c IndicatorCode) IsNil() bool { return c == "" }

func (c IndicatorCode) String() string { return string(c) }

// SessionID identifies one loaded dataset session.
type SessionID uuid.UUID

// NewSessionID generates a fresh session ID.
func NewSessionID() SessionID { return SessionID(uuid.New()) }

// IsNil returns true for the zero UUID.
func (s SessionID) IsNil() bool { return uuid.UUID(s) == uuid.Nil }

func (s SessionID) String() string { return uuid.UUID(s).String() }

// ParseSessionID validates a session ID string.
func ParseSessionID(s string) (SessionID, error) {
	if s == "" {
		return SessionID{}, dErrors.New(dErrors.CodeInvalidInput, "session id is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return SessionID{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid session id")
	}
	if u == uuid.Nil {
		return SessionID{}, dErrors.New(dErrors.CodeInvalidInput, "session id must not be the nil UUID")
	}
	return SessionID(u), nil
}
