// Package remote defines the two contracts the device core consumes from
// the backend: credential verification and the profile record store. The
// backend itself stays out of this module; adapters live in the
// subpackages.
package remote

import "context"

type VerifyRequest struct {
	Role        string `json:"role"`
	Identifier  string `json:"identifier"`
	SecondaryID string `json:"secondaryId,omitempty"`
	Secret      string `json:"secret"`
}

// SessionPayload is what a successful credential check returns. Token is a
// signed JWT carrying subject id, display name and role claims.
type SessionPayload struct {
	Token       string         `json:"token"`
	SubjectID   string         `json:"subjectId"`
	DisplayName string         `json:"displayName"`
	Claims      map[string]any `json:"claims,omitempty"`
}

type CredentialVerifier interface {
	// Verify fails on rejected credentials or transport failure; it never
	// returns a partial payload.
	Verify(ctx context.Context, req VerifyRequest) (SessionPayload, error)
	// SignOut is best effort; callers ignore its error beyond logging.
	SignOut(ctx context.Context, token string) error
}

type RecordStore interface {
	// Get returns (nil, nil) when no record exists yet; that is a valid
	// first-visit state, not an error.
	Get(ctx context.Context, subjectID, role string) (map[string]any, error)
	// Upsert is idempotent by (subjectID, role): replaying the same record
	// twice leaves the same stored state as writing it once.
	Upsert(ctx context.Context, subjectID, role string, record map[string]any) error
}
