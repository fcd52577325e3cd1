package core

import (
	"context"
	"time"
)

// PassMetadata is the stored trace of an issued gate pass. The pass token
// itself is never persisted, only its fingerprint.
type PassMetadata struct {
	PersonID    string    `json:"person_id"`
	Fingerprint string    `json:"fingerprint"`
	IssuedAt    time.Time `json:"issued_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// PassStore keeps track of issued gate passes.
type PassStore interface {
	Save(ctx context.Context, meta PassMetadata) error
	ListActive(ctx context.Context) ([]PassMetadata, error)
	DeleteExpired(ctx context.Context) (int64, error)
}
